package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// MWAClient is the Mobile Wallet Adapter transport to the external wallet app
type MWAClient interface {
	Authorize(ctx context.Context, identity client.MWAIdentity, authToken string) (*client.MWAAuthorization, error)
	Deauthorize(ctx context.Context, authToken string) error
	SignAndSendTransactions(ctx context.Context, identity client.MWAIdentity, authToken string, payloads [][]byte) ([]solana.Signature, *client.MWAAuthorization, error)
}

// MWA adapts an external wallet app reached through Mobile Wallet Adapter.
// Keys never enter the process: every send is approved in the wallet app.
type MWA struct {
	client   MWAClient
	identity client.MWAIdentity
	android  bool
	logger   *zap.Logger

	mu   sync.Mutex
	auth *client.MWAAuthorization
}

// NewMWA creates the MWA adapter. On any platform but android every
// operation fails with wallet.ErrPlatformUnsupported.
func NewMWA(c MWAClient, identity client.MWAIdentity, android bool, logger *zap.Logger) *MWA {
	return &MWA{
		client:   c,
		identity: identity,
		android:  android,
		logger:   logger.Named("mwa"),
	}
}

// Kind returns ProviderMWA
func (m *MWA) Kind() wallet.Provider { return wallet.ProviderMWA }

// Login authorizes this app with the wallet app
func (m *MWA) Login(ctx context.Context, method LoginMethod) error {
	if !m.android {
		return wallet.ErrPlatformUnsupported
	}
	if method.Kind != LoginWallet {
		return fmt.Errorf("%w: mwa %s", ErrUnsupportedLoginMethod, method.Kind)
	}

	auth, err := m.client.Authorize(ctx, m.identity, "")
	if err != nil {
		return fmt.Errorf("wallet authorization failed: %w", err)
	}

	m.mu.Lock()
	m.auth = auth
	m.mu.Unlock()

	m.logger.Info("authorized", zap.String("address", auth.Address))
	return nil
}

// Logout forgets the authorization. Revoking it in the wallet app is best effort.
func (m *MWA) Logout(ctx context.Context) error {
	m.mu.Lock()
	auth := m.auth
	m.auth = nil
	m.mu.Unlock()

	if auth == nil || auth.AuthToken == "" {
		return nil
	}
	if err := m.client.Deauthorize(ctx, auth.AuthToken); err != nil {
		m.logger.Warn("failed to deauthorize", zap.Error(err))
	}
	return nil
}

// StandardWallet returns the authorized account, nil before Login
func (m *MWA) StandardWallet(context.Context) *wallet.StandardWallet {
	m.mu.Lock()
	auth := m.auth
	m.mu.Unlock()

	if auth == nil {
		return nil
	}
	return wallet.New(wallet.ProviderMWA, auth.Address, *auth, wallet.ExternalOnly)
}

// SessionWallet rebuilds the wallet from a persisted session tagged mwa,
// for use after a restart before the wallet app is reached again
func (m *MWA) SessionWallet(s model.AuthSession) *wallet.StandardWallet {
	if !m.android || !s.IsLoggedIn || s.Address == "" {
		return nil
	}
	if s.Provider != string(wallet.ProviderMWA) {
		return nil
	}
	return wallet.New(wallet.ProviderMWA, s.Address, nil, wallet.ExternalOnly)
}

// SigningProvider always fails: the wallet app signs
func (m *MWA) SigningProvider(_ context.Context, w *wallet.StandardWallet) (wallet.Signer, error) {
	if err := checkOwner(m.Kind(), w); err != nil {
		return nil, err
	}
	return nil, wallet.ErrExternalSigning
}

// IdentityAddress returns the authorized account address
func (m *MWA) IdentityAddress() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auth == nil {
		return ""
	}
	return m.auth.Address
}

// SignAndSendExternal hands serialized transactions to the wallet app.
// Without a live token the wallet app is asked for a fresh authorization.
func (m *MWA) SignAndSendExternal(ctx context.Context, payloads [][]byte) ([]solana.Signature, error) {
	if !m.android {
		return nil, wallet.ErrPlatformUnsupported
	}

	m.mu.Lock()
	var token, previous string
	if m.auth != nil {
		token = m.auth.AuthToken
		previous = m.auth.Address
	}
	m.mu.Unlock()

	sigs, auth, err := m.client.SignAndSendTransactions(ctx, m.identity, token, payloads)
	if err != nil {
		return nil, fmt.Errorf("wallet app rejected transactions: %w", err)
	}

	m.mu.Lock()
	m.auth = auth
	m.mu.Unlock()

	if previous != "" && previous != auth.Address {
		m.logger.Warn("wallet app switched account", zap.String("from", previous), zap.String("to", auth.Address))
	}
	return sigs, nil
}
