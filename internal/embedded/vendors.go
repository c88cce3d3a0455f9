package embedded

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlexZinkM/multi-wallet/internal/provider"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"github.com/gagliardetto/solana-go"
)

const solanaDerivationPath = "m/44'/501'/0'/0'"

// session tracks the vendor-level login on top of the vault
type session struct {
	vault *Vault

	mu       sync.Mutex
	loggedIn bool
}

func (s *session) login(method provider.LoginMethod) error {
	if method.Kind == provider.LoginWallet {
		return fmt.Errorf("%w: embedded %s", provider.ErrUnsupportedLoginMethod, method.Kind)
	}
	if !s.vault.Unlocked() {
		return ErrLocked
	}
	s.mu.Lock()
	s.loggedIn = true
	s.mu.Unlock()
	return nil
}

func (s *session) logout() {
	s.mu.Lock()
	s.loggedIn = false
	s.mu.Unlock()
}

func (s *session) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn && s.vault.Unlocked()
}

// Privy returns a provider.PrivyClient backed by the vault
func (v *Vault) Privy() provider.PrivyClient {
	return &privyClient{session{vault: v}}
}

type privyClient struct {
	session
}

func (c *privyClient) Login(_ context.Context, method provider.LoginMethod) error {
	return c.login(method)
}

func (c *privyClient) Logout(context.Context) error {
	c.logout()
	return nil
}

func (c *privyClient) Wallets(context.Context) []provider.PrivyWallet {
	if !c.active() {
		return nil
	}
	return []provider.PrivyWallet{privyWallet{c.vault}}
}

type privyWallet struct {
	vault *Vault
}

func (w privyWallet) Address() string { return w.vault.Address() }

func (w privyWallet) GetProvider(context.Context) (wallet.Signer, error) {
	signer, err := w.vault.Signer()
	if err != nil {
		return nil, err
	}
	return signer, nil
}

// Dynamic returns a provider.DynamicClient backed by the vault.
// Its signer only signs, so sends take the manual broadcast path.
func (v *Vault) Dynamic() provider.DynamicClient {
	return &dynamicClient{session{vault: v}}
}

type dynamicClient struct {
	session
}

func (c *dynamicClient) Login(_ context.Context, method provider.LoginMethod) error {
	return c.login(method)
}

func (c *dynamicClient) Logout(context.Context) error {
	c.logout()
	return nil
}

func (c *dynamicClient) Wallets(context.Context) []provider.DynamicWallet {
	if !c.active() {
		return nil
	}
	return []provider.DynamicWallet{dynamicWallet{c.vault}}
}

func (c *dynamicClient) WalletAddress() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loggedIn {
		return ""
	}
	return c.vault.Address()
}

type dynamicWallet struct {
	vault *Vault
}

func (w dynamicWallet) Address() string { return w.vault.Address() }

func (w dynamicWallet) GetSigner(context.Context) (provider.DynamicSigner, error) {
	signer, err := w.vault.Signer()
	if err != nil {
		return nil, err
	}
	return signOnly{signer}, nil
}

type signOnly struct {
	signer *wallet.KeySigner
}

func (s signOnly) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	return s.signer.SignTransaction(ctx, tx)
}

// Turnkey returns a provider.TurnkeyClient backed by the vault. Any
// organization authenticated by the backend maps to the vault's account.
func (v *Vault) Turnkey() provider.TurnkeyClient {
	return &turnkeyClient{vault: v, orgs: make(map[string]bool)}
}

type turnkeyClient struct {
	vault *Vault

	mu   sync.Mutex
	orgs map[string]bool
}

func (c *turnkeyClient) InjectCredentials(_ context.Context, organizationID, bundle string, _ solana.PrivateKey) error {
	if bundle == "" {
		return fmt.Errorf("empty credential bundle")
	}
	if !c.vault.Unlocked() {
		return ErrLocked
	}
	c.mu.Lock()
	c.orgs[organizationID] = true
	c.mu.Unlock()
	return nil
}

func (c *turnkeyClient) WalletAccounts(_ context.Context, organizationID string) ([]provider.TurnkeyAccount, error) {
	if !c.vault.Unlocked() {
		return nil, ErrLocked
	}
	c.mu.Lock()
	c.orgs[organizationID] = true
	c.mu.Unlock()
	return []provider.TurnkeyAccount{{
		Address:       c.vault.Address(),
		AddressFormat: provider.AddressFormatSolana,
		Path:          solanaDerivationPath,
	}}, nil
}

func (c *turnkeyClient) Signer(_ context.Context, organizationID, address string) (wallet.Signer, error) {
	c.mu.Lock()
	known := c.orgs[organizationID]
	c.mu.Unlock()
	if !known {
		return nil, fmt.Errorf("%w: organization %s has no session", wallet.ErrProviderUnavailable, organizationID)
	}
	if address != c.vault.Address() {
		return nil, fmt.Errorf("%w: no key for %s", wallet.ErrProviderUnavailable, address)
	}
	signer, err := c.vault.Signer()
	if err != nil {
		return nil, err
	}
	return signer, nil
}

func (c *turnkeyClient) Logout(context.Context) error {
	c.mu.Lock()
	clear(c.orgs)
	c.mu.Unlock()
	return nil
}
