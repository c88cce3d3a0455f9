package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/provider"
	"github.com/AlexZinkM/multi-wallet/internal/session"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// ErrNoAdapter is a configuration error: no adapter is registered for the provider
var ErrNoAdapter = errors.New("no adapter registered for provider")

// Status is the user-facing authentication state
type Status string

const (
	StatusLoggedOut      Status = "logged_out"
	StatusAuthenticating Status = "authenticating"
	StatusAwaitingOTP    Status = "awaiting_otp"
	StatusLoggedIn       Status = "logged_in"
)

// State is a snapshot of Status plus detail for display
type State struct {
	Status   Status          `json:"status"`
	Provider wallet.Provider `json:"provider"`
	Message  string          `json:"message,omitempty"`
}

// Auth normalizes login, logout and wallet access over the one configured adapter.
// An MWA adapter, when registered next to another provider, serves wallet logins.
type Auth struct {
	kind    wallet.Provider
	primary provider.Adapter
	mwa     *provider.MWA
	store   *session.Store
	logger  *zap.Logger

	// opMu serializes login, the OTP steps, passkey login and logout
	opMu sync.Mutex

	mu      sync.RWMutex
	status  Status
	lastErr error
}

// New selects the adapter for kind among adapters
func New(kind wallet.Provider, adapters []provider.Adapter, store *session.Store, logger *zap.Logger) (*Auth, error) {
	a := &Auth{
		kind:   kind,
		store:  store,
		logger: logger.Named("auth"),
		status: StatusLoggedOut,
	}
	for _, ad := range adapters {
		if ad == nil {
			continue
		}
		if ad.Kind() == kind {
			a.primary = ad
		}
		if m, ok := ad.(*provider.MWA); ok {
			a.mwa = m
		}
	}
	if a.primary == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAdapter, kind)
	}

	if store.State().IsLoggedIn {
		a.status = StatusLoggedIn
	}
	return a, nil
}

// Provider returns the configured provider
func (a *Auth) Provider() wallet.Provider {
	return a.kind
}

// Status returns the current state
func (a *Auth) Status() State {
	a.mu.RLock()
	st := State{Status: a.status, Provider: a.kind}
	if a.lastErr != nil {
		st.Message = a.lastErr.Error()
	}
	a.mu.RUnlock()

	if r, ok := a.primary.(provider.StatusReporter); ok && st.Message == "" {
		st.Message = r.StatusMessage()
	}
	return st
}

// User returns the persisted session
func (a *Auth) User() model.AuthSession {
	return a.store.State()
}

// Login runs a one-step login. LoginWallet goes to the MWA adapter.
func (a *Auth) Login(ctx context.Context, method provider.LoginMethod) error {
	target := a.primary
	if method.Kind == provider.LoginWallet && a.primary.Kind() != wallet.ProviderMWA {
		if a.mwa == nil {
			return fmt.Errorf("%w: %s", provider.ErrUnsupportedLoginMethod, method.Kind)
		}
		target = a.mwa
	}

	a.opMu.Lock()
	defer a.opMu.Unlock()

	prev := a.setStatus(StatusAuthenticating, nil)
	if err := target.Login(ctx, method); err != nil {
		a.setStatus(prev, err)
		return err
	}
	a.commit(ctx, target)
	return nil
}

// InitOTP starts a two-step login on adapters that support it
func (a *Auth) InitOTP(ctx context.Context, otpType provider.OTPType, contact string) (string, error) {
	otp, ok := a.primary.(provider.OTPAdapter)
	if !ok {
		return "", fmt.Errorf("%w: %s has no OTP login", provider.ErrUnsupportedLoginMethod, a.kind)
	}

	a.opMu.Lock()
	defer a.opMu.Unlock()

	otpID, err := otp.InitOTP(ctx, otpType, contact)
	if err != nil {
		a.setStatus(a.currentStatus(), err)
		return "", err
	}
	if !a.store.State().IsLoggedIn {
		a.setStatus(StatusAwaitingOTP, nil)
	}
	return otpID, nil
}

// VerifyOTP completes the two-step login
func (a *Auth) VerifyOTP(ctx context.Context, code string) error {
	otp, ok := a.primary.(provider.OTPAdapter)
	if !ok {
		return fmt.Errorf("%w: %s has no OTP login", provider.ErrUnsupportedLoginMethod, a.kind)
	}

	a.opMu.Lock()
	defer a.opMu.Unlock()

	prev := a.setStatus(StatusAuthenticating, nil)
	if err := otp.VerifyOTP(ctx, code); err != nil {
		a.setStatus(prev, err)
		return err
	}
	a.commit(ctx, a.primary)
	return nil
}

// LoginWithPasskey logs in with a registered passkey
func (a *Auth) LoginWithPasskey(ctx context.Context, passkey model.Passkey) error {
	pk, ok := a.primary.(provider.PasskeyAdapter)
	if !ok {
		return fmt.Errorf("%w: %s has no passkey login", provider.ErrUnsupportedLoginMethod, a.kind)
	}

	a.opMu.Lock()
	defer a.opMu.Unlock()

	prev := a.setStatus(StatusAuthenticating, nil)
	if err := pk.LoginWithPasskey(ctx, passkey); err != nil {
		a.setStatus(prev, err)
		return err
	}
	a.commit(ctx, a.primary)
	return nil
}

// Logout ends every adapter session and clears the persisted session.
// The session is cleared even when an adapter fails to log out.
func (a *Auth) Logout(ctx context.Context) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	var errs []error
	if err := a.primary.Logout(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.mwa != nil && provider.Adapter(a.mwa) != a.primary {
		if err := a.mwa.Logout(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	a.store.Dispatch(ctx, session.LogoutSuccess{})
	err := errors.Join(errs...)
	a.setStatus(StatusLoggedOut, err)
	a.logger.Info("logged out", zap.String("provider", string(a.kind)))
	return err
}

// AdapterWallet returns the wallet a live adapter holds: the configured
// adapter first, then an MWA authorization. Nil when neither has one.
func (a *Auth) AdapterWallet(ctx context.Context) *wallet.StandardWallet {
	if w := a.primary.StandardWallet(ctx); w != nil {
		return w
	}
	if a.mwa != nil && provider.Adapter(a.mwa) != a.primary {
		return a.mwa.StandardWallet(ctx)
	}
	return nil
}

// SessionWallet rebuilds an MWA wallet from the persisted session
func (a *Auth) SessionWallet() *wallet.StandardWallet {
	if a.mwa == nil {
		return nil
	}
	return a.mwa.SessionWallet(a.store.State())
}

// Wallet returns the adapter wallet or, failing that, the persisted MWA wallet
func (a *Auth) Wallet(ctx context.Context) *wallet.StandardWallet {
	if w := a.AdapterWallet(ctx); w != nil {
		return w
	}
	return a.SessionWallet()
}

// SigningProvider asks the adapter owning w for a signer
func (a *Auth) SigningProvider(ctx context.Context, w *wallet.StandardWallet) (wallet.Signer, error) {
	if w == nil {
		return nil, wallet.ErrNoWallet
	}
	if w.Provider() == a.primary.Kind() {
		return a.primary.SigningProvider(ctx, w)
	}
	if a.mwa != nil && w.Provider() == wallet.ProviderMWA {
		return a.mwa.SigningProvider(ctx, w)
	}
	return w.SigningProvider(ctx)
}

// SignAndSendExternal sends through the MWA wallet app and follows an
// account switch made there
func (a *Auth) SignAndSendExternal(ctx context.Context, payloads [][]byte) ([]solana.Signature, error) {
	if a.mwa == nil {
		return nil, wallet.ErrPlatformUnsupported
	}
	sigs, err := a.mwa.SignAndSendExternal(ctx, payloads)
	if err != nil {
		return nil, err
	}

	current := a.store.State()
	address := a.mwa.IdentityAddress()
	if current.Provider == string(wallet.ProviderMWA) && address != "" && current.Address != address {
		a.store.Dispatch(ctx, session.LoginSuccess{Provider: string(wallet.ProviderMWA), Address: address})
	}
	return sigs, nil
}

// commit records a successful login in the session store
func (a *Auth) commit(ctx context.Context, ad provider.Adapter) {
	var address string
	var walletErr error
	if w := ad.StandardWallet(ctx); w != nil {
		address = w.Address()
	} else if ip, ok := ad.(provider.IdentityProvider); ok {
		address = ip.IdentityAddress()
		walletErr = wallet.ErrNoSolanaWallet
	} else {
		walletErr = wallet.ErrNoWallet
	}

	a.store.Dispatch(ctx, session.LoginSuccess{
		Provider: string(ad.Kind()),
		Address:  address,
	})
	a.setStatus(StatusLoggedIn, walletErr)

	if walletErr != nil {
		a.logger.Warn("logged in without a wallet", zap.String("provider", string(ad.Kind())), zap.Error(walletErr))
		return
	}
	a.logger.Info("logged in", zap.String("provider", string(ad.Kind())), zap.String("address", address))
}

func (a *Auth) setStatus(s Status, err error) Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.status
	a.status = s
	a.lastErr = err
	return prev
}

func (a *Auth) currentStatus() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}
