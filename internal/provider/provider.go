package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"github.com/gagliardetto/solana-go"
)

// ErrUnsupportedLoginMethod means the active adapter cannot log in that way
var ErrUnsupportedLoginMethod = errors.New("login method not supported by provider")

// LoginKind names a login flow
type LoginKind string

const (
	LoginGoogle LoginKind = "google"
	LoginApple  LoginKind = "apple"
	LoginEmail  LoginKind = "email"
	LoginSMS    LoginKind = "sms"
	LoginWallet LoginKind = "wallet" // external wallet app (MWA)
)

// ParseLoginKind validates a login method name
func ParseLoginKind(s string) (LoginKind, error) {
	k := LoginKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case LoginGoogle, LoginApple, LoginEmail, LoginSMS, LoginWallet:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLoginMethod, s)
}

// IsOAuth reports whether the kind is an OIDC provider login
func (k LoginKind) IsOAuth() bool {
	return k == LoginGoogle || k == LoginApple
}

// LoginMethod describes one login attempt
type LoginMethod struct {
	Kind    LoginKind
	Token   string // OIDC token for oauth kinds
	Contact string // email or phone for passwordless kinds
}

// Adapter is one wallet vendor behind the common login/wallet contract
type Adapter interface {
	Kind() wallet.Provider
	Login(ctx context.Context, method LoginMethod) error
	Logout(ctx context.Context) error
	// StandardWallet returns the current wallet, nil when none is available
	StandardWallet(ctx context.Context) *wallet.StandardWallet
	SigningProvider(ctx context.Context, w *wallet.StandardWallet) (wallet.Signer, error)
}

// OTPAdapter is implemented by adapters with a two-step one-time-password login
type OTPAdapter interface {
	InitOTP(ctx context.Context, otpType OTPType, contact string) (otpID string, err error)
	VerifyOTP(ctx context.Context, code string) error
}

// PasskeyAdapter is implemented by adapters that log in with a passkey
type PasskeyAdapter interface {
	LoginWithPasskey(ctx context.Context, passkey model.Passkey) error
}

// IdentityProvider is implemented by adapters whose authenticated identity
// can exist before a wallet does
type IdentityProvider interface {
	IdentityAddress() string
}

// StatusReporter is implemented by adapters that report a user-facing status
type StatusReporter interface {
	StatusMessage() string
}

// ExternalSender hands serialized transactions to a wallet outside the process
type ExternalSender interface {
	SignAndSendExternal(ctx context.Context, payloads [][]byte) ([]solana.Signature, error)
}

// checkOwner rejects wallets that belong to another adapter
func checkOwner(kind wallet.Provider, w *wallet.StandardWallet) error {
	if w == nil {
		return wallet.ErrNoWallet
	}
	if w.Provider() != kind {
		return fmt.Errorf("wallet belongs to %s, not %s", w.Provider(), kind)
	}
	return nil
}
