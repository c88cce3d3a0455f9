package provider

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"go.uber.org/zap"
)

// PrivyWallet is an embedded wallet as exposed by the Privy SDK
type PrivyWallet interface {
	Address() string
	GetProvider(ctx context.Context) (wallet.Signer, error)
}

// PrivyClient is the Privy SDK surface used by the adapter
type PrivyClient interface {
	Login(ctx context.Context, method LoginMethod) error
	Logout(ctx context.Context) error
	Wallets(ctx context.Context) []PrivyWallet
}

// Privy adapts the Privy SDK
type Privy struct {
	client PrivyClient
	logger *zap.Logger
}

// NewPrivy creates the Privy adapter
func NewPrivy(client PrivyClient, logger *zap.Logger) *Privy {
	return &Privy{client: client, logger: logger.Named("privy")}
}

// Kind returns ProviderPrivy
func (p *Privy) Kind() wallet.Provider { return wallet.ProviderPrivy }

// Login runs an OAuth or passwordless login through the SDK
func (p *Privy) Login(ctx context.Context, method LoginMethod) error {
	if method.Kind == LoginWallet {
		return fmt.Errorf("%w: privy %s", ErrUnsupportedLoginMethod, method.Kind)
	}
	if err := p.client.Login(ctx, method); err != nil {
		return fmt.Errorf("privy login failed: %w", err)
	}
	p.logger.Info("logged in", zap.String("method", string(method.Kind)))
	return nil
}

// Logout ends the SDK session
func (p *Privy) Logout(ctx context.Context) error {
	if err := p.client.Logout(ctx); err != nil {
		return fmt.Errorf("privy logout failed: %w", err)
	}
	return nil
}

// StandardWallet wraps the first SDK wallet
func (p *Privy) StandardWallet(ctx context.Context) *wallet.StandardWallet {
	wallets := p.client.Wallets(ctx)
	if len(wallets) == 0 {
		return nil
	}
	pw := wallets[0]
	return wallet.New(wallet.ProviderPrivy, pw.Address(), pw, pw.GetProvider)
}

// SigningProvider returns the vendor wallet's own provider
func (p *Privy) SigningProvider(ctx context.Context, w *wallet.StandardWallet) (wallet.Signer, error) {
	if err := checkOwner(p.Kind(), w); err != nil {
		return nil, err
	}
	return w.SigningProvider(ctx)
}
