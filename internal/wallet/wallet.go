package wallet

import (
	"context"

	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
)

// Signer is the signing handle a vendor hands out for a wallet
type Signer interface {
	// SignAndSendTransaction signs tx with the wallet key and broadcasts it through conn
	SignAndSendTransaction(ctx context.Context, tx *solana.Transaction, conn client.Connection) (solana.Signature, error)
}

// SignerResolver derives a signer for a wallet. It may be called many times
// and must not have side effects beyond deriving the signer.
type SignerResolver func(ctx context.Context) (Signer, error)

// StandardWallet is the provider-independent wallet descriptor.
// The address is fixed at construction; switching accounts builds a new wallet.
type StandardWallet struct {
	provider Provider
	address  string
	raw      any
	resolve  SignerResolver
}

// New creates a StandardWallet. raw is the vendor wallet object and is only borrowed.
func New(provider Provider, address string, raw any, resolve SignerResolver) *StandardWallet {
	return &StandardWallet{
		provider: provider,
		address:  address,
		raw:      raw,
		resolve:  resolve,
	}
}

// Provider returns the provider tag
func (w *StandardWallet) Provider() Provider { return w.provider }

// Address returns the base58 wallet address
func (w *StandardWallet) Address() string { return w.address }

// PublicKey returns the same value as Address, for callers that expect a separate key field
func (w *StandardWallet) PublicKey() string { return w.address }

// RawWallet returns the vendor wallet object, nil when the wallet was synthesized
func (w *StandardWallet) RawWallet() any { return w.raw }

// WalletInfo returns the display projection
func (w *StandardWallet) WalletInfo() model.WalletInfo {
	return model.WalletInfo{
		WalletType: string(w.provider),
		Address:    w.address,
	}
}

// SigningProvider returns a signer for this wallet or an error explaining why none exists
func (w *StandardWallet) SigningProvider(ctx context.Context) (Signer, error) {
	if w.resolve == nil {
		return nil, ErrProviderUnavailable
	}
	return w.resolve(ctx)
}

// ExternalOnly is the resolver for wallets that sign outside the process
func ExternalOnly(context.Context) (Signer, error) {
	return nil, ErrExternalSigning
}

// FromLegacy collapses the legacy wallets array into a StandardWallet.
// The first entry wins; its publicKey takes precedence over address.
// Returns nil when no usable entry exists.
func FromLegacy(legacy *model.LegacyWallets, provider Provider, resolve SignerResolver) *StandardWallet {
	if legacy == nil || len(legacy.Wallets) == 0 {
		return nil
	}
	entry := legacy.Wallets[0]
	address := entry.PublicKey
	if address == "" {
		address = entry.Address
	}
	if address == "" {
		return nil
	}
	return New(provider, address, legacy, resolve)
}
