package wallet

import "errors"

var (
	// ErrUnknownProvider is a configuration error: the provider tag is not supported
	ErrUnknownProvider = errors.New("unknown wallet provider")

	// ErrExternalSigning is returned by MWA wallets: signing happens in the external wallet app
	ErrExternalSigning = errors.New("MWA uses external wallet for signing")

	// ErrProviderUnavailable means the vendor SDK has no live wallet object for the address
	ErrProviderUnavailable = errors.New("wallet provider not available")

	// ErrNoWallet means no wallet could be resolved at all
	ErrNoWallet = errors.New("no wallet found")

	// ErrNoSolanaWallet means the account exists but holds no Solana-chain wallet
	ErrNoSolanaWallet = errors.New("no Solana wallet found for account")

	// ErrPlatformUnsupported means the adapter is gated to another platform
	ErrPlatformUnsupported = errors.New("wallet provider not supported on this platform")
)
