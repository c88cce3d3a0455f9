package provider

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// DynamicSigner is the raw signer handed out by the Dynamic SDK.
// It may also implement wallet.Signer, in which case its own sign-and-send is used.
type DynamicSigner interface {
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// DynamicWallet is a wallet as exposed by the Dynamic SDK
type DynamicWallet interface {
	Address() string
	GetSigner(ctx context.Context) (DynamicSigner, error)
}

// DynamicClient is the Dynamic SDK surface used by the adapter
type DynamicClient interface {
	Login(ctx context.Context, method LoginMethod) error
	Logout(ctx context.Context) error
	Wallets(ctx context.Context) []DynamicWallet
	// WalletAddress is the address the SDK remembers, known before the wallet list loads
	WalletAddress() string
}

// Dynamic adapts the Dynamic SDK
type Dynamic struct {
	client   DynamicClient
	sendOpts client.SendOptions
	logger   *zap.Logger
}

// NewDynamic creates the Dynamic adapter; sendOpts apply to the manual broadcast path
func NewDynamic(c DynamicClient, sendOpts client.SendOptions, logger *zap.Logger) *Dynamic {
	return &Dynamic{client: c, sendOpts: sendOpts, logger: logger.Named("dynamic")}
}

// Kind returns ProviderDynamic
func (d *Dynamic) Kind() wallet.Provider { return wallet.ProviderDynamic }

// Login runs a login through the SDK
func (d *Dynamic) Login(ctx context.Context, method LoginMethod) error {
	if method.Kind == LoginWallet {
		return fmt.Errorf("%w: dynamic %s", ErrUnsupportedLoginMethod, method.Kind)
	}
	if err := d.client.Login(ctx, method); err != nil {
		return fmt.Errorf("dynamic login failed: %w", err)
	}
	d.logger.Info("logged in", zap.String("method", string(method.Kind)))
	return nil
}

// Logout ends the SDK session
func (d *Dynamic) Logout(ctx context.Context) error {
	if err := d.client.Logout(ctx); err != nil {
		return fmt.Errorf("dynamic logout failed: %w", err)
	}
	return nil
}

// StandardWallet wraps the first SDK wallet. When the list is still empty but
// the SDK already knows the address (right after a restart), a degraded wallet
// is returned whose signer looks the live wallet up by address on demand.
func (d *Dynamic) StandardWallet(ctx context.Context) *wallet.StandardWallet {
	if wallets := d.client.Wallets(ctx); len(wallets) > 0 {
		dw := wallets[0]
		return wallet.New(wallet.ProviderDynamic, dw.Address(), dw, func(ctx context.Context) (wallet.Signer, error) {
			return d.signerFor(ctx, dw)
		})
	}

	address := d.client.WalletAddress()
	if address == "" {
		return nil
	}
	d.logger.Debug("wallet list empty, using known address", zap.String("address", address))
	return wallet.New(wallet.ProviderDynamic, address, nil, func(ctx context.Context) (wallet.Signer, error) {
		live := d.findWallet(ctx, address)
		if live == nil {
			return nil, fmt.Errorf("%w: no live dynamic wallet for %s", wallet.ErrProviderUnavailable, address)
		}
		return d.signerFor(ctx, live)
	})
}

// SigningProvider builds the synthesized signer for a Dynamic wallet
func (d *Dynamic) SigningProvider(ctx context.Context, w *wallet.StandardWallet) (wallet.Signer, error) {
	if err := checkOwner(d.Kind(), w); err != nil {
		return nil, err
	}
	return w.SigningProvider(ctx)
}

func (d *Dynamic) findWallet(ctx context.Context, address string) DynamicWallet {
	for _, dw := range d.client.Wallets(ctx) {
		if dw.Address() == address {
			return dw
		}
	}
	return nil
}

func (d *Dynamic) signerFor(ctx context.Context, dw DynamicWallet) (wallet.Signer, error) {
	raw, err := dw.GetSigner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get dynamic signer: %w", err)
	}
	return &dynamicSigner{vendor: raw, sendOpts: d.sendOpts, logger: d.logger}, nil
}

// dynamicSigner prefers the vendor's sign-and-send and otherwise signs
// locally and broadcasts through the supplied connection
type dynamicSigner struct {
	vendor   DynamicSigner
	sendOpts client.SendOptions
	logger   *zap.Logger
}

func (s *dynamicSigner) SignAndSendTransaction(ctx context.Context, tx *solana.Transaction, conn client.Connection) (solana.Signature, error) {
	if native, ok := s.vendor.(wallet.Signer); ok {
		return native.SignAndSendTransaction(ctx, tx, conn)
	}

	if err := wallet.PrepareTransaction(ctx, tx, conn); err != nil {
		return solana.Signature{}, err
	}
	signed, err := s.vendor.SignTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to serialize transaction: %w", err)
	}

	s.logger.Debug("broadcasting manually signed transaction", zap.String("endpoint", conn.Endpoint()))
	return conn.SendRawTransaction(ctx, raw, s.sendOpts)
}
