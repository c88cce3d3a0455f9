package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// ErrNoPendingOTP means VerifyOTP was called without a preceding InitOTP
var ErrNoPendingOTP = errors.New("no OTP login in progress")

// AddressFormatSolana marks Solana accounts in Turnkey wallet listings
const AddressFormatSolana = "ADDRESS_FORMAT_SOLANA"

// OTPType selects the OTP delivery channel
type OTPType string

const (
	OTPTypeEmail OTPType = "OTP_TYPE_EMAIL"
	OTPTypeSMS   OTPType = "OTP_TYPE_SMS"
)

// ParseOTPType accepts "email" / "sms" or the wire names
func ParseOTPType(s string) (OTPType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email", "otp_type_email":
		return OTPTypeEmail, nil
	case "sms", "otp_type_sms":
		return OTPTypeSMS, nil
	}
	return "", fmt.Errorf("%w: otp type %q", ErrUnsupportedLoginMethod, s)
}

// AuthAPI is the backend that brokers Turnkey authentication
type AuthAPI interface {
	InitOTPAuth(ctx context.Context, req model.InitOTPRequest) (*model.InitOTPResponse, error)
	OTPAuth(ctx context.Context, req model.OTPAuthRequest) (*model.CredentialResponse, error)
	OAuthLogin(ctx context.Context, req model.OAuthLoginRequest) (*model.CredentialResponse, error)
	CreateSubOrg(ctx context.Context, req model.CreateSubOrgRequest) (*model.CreateSubOrgResponse, error)
}

// TurnkeyAccount is one account of a Turnkey wallet
type TurnkeyAccount struct {
	Address       string
	AddressFormat string
	Path          string
}

// TurnkeyClient is the Turnkey SDK surface used by the adapter
type TurnkeyClient interface {
	// InjectCredentials activates the session from a credential bundle
	// encrypted to targetKey
	InjectCredentials(ctx context.Context, organizationID, bundle string, targetKey solana.PrivateKey) error
	WalletAccounts(ctx context.Context, organizationID string) ([]TurnkeyAccount, error)
	Signer(ctx context.Context, organizationID, address string) (wallet.Signer, error)
	Logout(ctx context.Context) error
}

// Turnkey adapts Turnkey's OTP, OAuth and passkey flows
type Turnkey struct {
	api        AuthAPI
	client     TurnkeyClient
	expiration time.Duration
	logger     *zap.Logger
	newKey     func() (solana.PrivateKey, error)

	mu             sync.Mutex
	pending        *model.InitOTPResponse
	organizationID string
	targetKey      solana.PrivateKey
	account        *TurnkeyAccount
	status         string
}

// NewTurnkey creates the Turnkey adapter. client may be nil, in which case
// the session is authenticated but no wallet is looked up.
func NewTurnkey(api AuthAPI, c TurnkeyClient, sessionTTL time.Duration, logger *zap.Logger) *Turnkey {
	return &Turnkey{
		api:        api,
		client:     c,
		expiration: sessionTTL,
		logger:     logger.Named("turnkey"),
		newKey:     solana.NewRandomPrivateKey,
	}
}

// Kind returns ProviderTurnkey
func (t *Turnkey) Kind() wallet.Provider { return wallet.ProviderTurnkey }

// Login handles OAuth kinds. Email and SMS go through InitOTP/VerifyOTP.
func (t *Turnkey) Login(ctx context.Context, method LoginMethod) error {
	if !method.Kind.IsOAuth() {
		return fmt.Errorf("%w: turnkey %s (use the OTP flow for email and sms)", ErrUnsupportedLoginMethod, method.Kind)
	}
	if method.Token == "" {
		return errors.New("oidc token is required")
	}

	key, err := t.newKey()
	if err != nil {
		return fmt.Errorf("failed to generate target key: %w", err)
	}
	cred, err := t.api.OAuthLogin(ctx, model.OAuthLoginRequest{
		OIDCToken:         method.Token,
		ProviderName:      string(method.Kind),
		TargetPublicKey:   key.PublicKey().String(),
		ExpirationSeconds: t.expirationSeconds(),
	})
	if err != nil {
		return fmt.Errorf("oauth login failed: %w", err)
	}
	return t.complete(ctx, cred.OrganizationID, cred.CredentialBundle, key)
}

// InitOTP asks the backend to send a code and remembers the OTP session
func (t *Turnkey) InitOTP(ctx context.Context, otpType OTPType, contact string) (string, error) {
	if contact == "" {
		return "", errors.New("contact is required")
	}
	resp, err := t.api.InitOTPAuth(ctx, model.InitOTPRequest{
		OTPType: string(otpType),
		Contact: contact,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start OTP login: %w", err)
	}

	t.mu.Lock()
	t.pending = resp
	t.status = "Verification code sent"
	t.mu.Unlock()

	t.logger.Info("otp initiated", zap.String("otp_type", string(otpType)), zap.String("otp_id", resp.OTPID))
	return resp.OTPID, nil
}

// VerifyOTP submits the code with a fresh target key and completes the login
func (t *Turnkey) VerifyOTP(ctx context.Context, code string) error {
	t.mu.Lock()
	pending := t.pending
	t.mu.Unlock()
	if pending == nil {
		return ErrNoPendingOTP
	}
	if code == "" {
		return errors.New("otp code is required")
	}

	key, err := t.newKey()
	if err != nil {
		return fmt.Errorf("failed to generate target key: %w", err)
	}
	cred, err := t.api.OTPAuth(ctx, model.OTPAuthRequest{
		OTPID:             pending.OTPID,
		OTPCode:           code,
		OrganizationID:    pending.OrganizationID,
		TargetPublicKey:   key.PublicKey().String(),
		ExpirationSeconds: t.expirationSeconds(),
	})
	if err != nil {
		return fmt.Errorf("otp verification failed: %w", err)
	}

	orgID := cred.OrganizationID
	if orgID == "" {
		orgID = pending.OrganizationID
	}
	if err := t.complete(ctx, orgID, cred.CredentialBundle, key); err != nil {
		return err
	}

	// a newer InitOTP keeps its own pending session
	t.mu.Lock()
	if t.pending == pending {
		t.pending = nil
	}
	t.mu.Unlock()
	return nil
}

// LoginWithPasskey registers the passkey in a new sub-organization and
// looks up its wallet. There is no credential bundle in this flow.
func (t *Turnkey) LoginWithPasskey(ctx context.Context, passkey model.Passkey) error {
	resp, err := t.api.CreateSubOrg(ctx, model.CreateSubOrgRequest{Passkey: passkey})
	if err != nil {
		return fmt.Errorf("passkey registration failed: %w", err)
	}
	return t.complete(ctx, resp.SubOrganizationID, "", nil)
}

// Logout drops the local session and the SDK session
func (t *Turnkey) Logout(ctx context.Context) error {
	t.mu.Lock()
	t.pending = nil
	t.organizationID = ""
	t.targetKey = nil
	t.account = nil
	t.status = ""
	t.mu.Unlock()

	if t.client == nil {
		return nil
	}
	if err := t.client.Logout(ctx); err != nil {
		return fmt.Errorf("turnkey logout failed: %w", err)
	}
	return nil
}

// StandardWallet wraps the selected Solana account
func (t *Turnkey) StandardWallet(context.Context) *wallet.StandardWallet {
	t.mu.Lock()
	account := t.account
	orgID := t.organizationID
	t.mu.Unlock()

	if account == nil || t.client == nil {
		return nil
	}
	address := account.Address
	return wallet.New(wallet.ProviderTurnkey, address, *account, func(ctx context.Context) (wallet.Signer, error) {
		return t.client.Signer(ctx, orgID, address)
	})
}

// SigningProvider returns the SDK signer for the account
func (t *Turnkey) SigningProvider(ctx context.Context, w *wallet.StandardWallet) (wallet.Signer, error) {
	if err := checkOwner(t.Kind(), w); err != nil {
		return nil, err
	}
	return w.SigningProvider(ctx)
}

// IdentityAddress is the wallet address, or the target public key while no wallet is selected
func (t *Turnkey) IdentityAddress() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.account != nil {
		return t.account.Address
	}
	if t.targetKey != nil {
		return t.targetKey.PublicKey().String()
	}
	return ""
}

// StatusMessage returns the last user-facing status
func (t *Turnkey) StatusMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Turnkey) complete(ctx context.Context, orgID, bundle string, key solana.PrivateKey) error {
	if bundle != "" && t.client != nil {
		if err := t.client.InjectCredentials(ctx, orgID, bundle, key); err != nil {
			return fmt.Errorf("failed to activate session: %w", err)
		}
	}

	t.mu.Lock()
	t.organizationID = orgID
	t.targetKey = key
	t.account = nil
	t.status = "Authenticated"
	t.mu.Unlock()

	if t.client == nil {
		return nil
	}

	accounts, err := t.client.WalletAccounts(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to list wallet accounts: %w", err)
	}
	for _, a := range accounts {
		if a.AddressFormat != AddressFormatSolana {
			continue
		}
		account := a
		t.mu.Lock()
		t.account = &account
		t.status = "Wallet connected"
		t.mu.Unlock()
		t.logger.Info("wallet selected", zap.String("organization_id", orgID), zap.String("address", a.Address))
		return nil
	}

	// TODO: create a Solana wallet for the sub-organization once the backend exposes createWallet
	t.mu.Lock()
	t.status = "No Solana wallet found for this account; wallet creation is not supported"
	t.mu.Unlock()
	t.logger.Warn("no solana account", zap.String("organization_id", orgID), zap.Int("accounts", len(accounts)))
	return nil
}

func (t *Turnkey) expirationSeconds() string {
	return strconv.FormatInt(int64(t.expiration/time.Second), 10)
}
