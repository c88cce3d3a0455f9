package solana

import (
	"context"

	"github.com/AlexZinkM/multi-wallet/internal/common"
	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// WalletSource is the authentication side of wallet resolution
type WalletSource interface {
	Provider() wallet.Provider
	// AdapterWallet is the wallet a live adapter holds
	AdapterWallet(ctx context.Context) *wallet.StandardWallet
	// SessionWallet is an MWA wallet rebuilt from the persisted session
	SessionWallet() *wallet.StandardWallet
	User() model.AuthSession
}

// LegacySource yields the old array-of-wallets shape, nil when absent
type LegacySource func(ctx context.Context) *model.LegacyWallets

// ProfileRequester schedules a profile fetch for an address
type ProfileRequester interface {
	Request(address string)
}

// Resolved is the wallet view handed to callers
type Resolved struct {
	Wallet    *wallet.StandardWallet
	Address   string
	PublicKey *solana.PublicKey
	Connected bool

	IsPrivy   bool
	IsDynamic bool
	IsTurnkey bool
	IsMWA     bool
}

// Wallet resolves the current wallet and sends transactions with it
type Wallet struct {
	source   WalletSource
	txs      *TransactionService
	profiles ProfileRequester
	legacy   LegacySource
	logger   *zap.Logger
}

// NewWallet creates the wallet facade. profiles and legacy may be nil.
func NewWallet(source WalletSource, txs *TransactionService, profiles ProfileRequester, legacy LegacySource, logger *zap.Logger) *Wallet {
	return &Wallet{
		source:   source,
		txs:      txs,
		profiles: profiles,
		legacy:   legacy,
		logger:   logger.Named("wallet"),
	}
}

// Transactions returns the underlying transaction service
func (w *Wallet) Transactions() *TransactionService {
	return w.txs
}

// Resolve picks the current wallet, in order: the adapter's wallet, an MWA
// wallet from the persisted session, the legacy wallet list, and finally
// the persisted address alone (no wallet, not connected).
func (w *Wallet) Resolve(ctx context.Context) Resolved {
	user := w.source.User()

	sw := w.source.AdapterWallet(ctx)
	if sw == nil {
		sw = w.source.SessionWallet()
	}
	if sw == nil && w.legacy != nil {
		sw = wallet.FromLegacy(w.legacy(ctx), w.source.Provider(), nil)
	}

	r := Resolved{Wallet: sw}
	kind := wallet.Provider(user.Provider)
	switch {
	case sw != nil:
		r.Address = sw.Address()
		r.Connected = true
		kind = sw.Provider()
	case user.IsLoggedIn:
		r.Address = user.Address
	}
	r.PublicKey = common.SafePublicKey(r.Address, w.logger)

	r.IsPrivy = kind == wallet.ProviderPrivy
	r.IsDynamic = kind == wallet.ProviderDynamic
	r.IsTurnkey = kind == wallet.ProviderTurnkey
	r.IsMWA = kind == wallet.ProviderMWA

	if w.profiles != nil && user.IsLoggedIn && !user.HasProfile() && r.Address != "" {
		w.profiles.Request(r.Address)
	}
	return r
}

// SendTransaction sends a built transaction with the current wallet
func (w *Wallet) SendTransaction(ctx context.Context, tx *solana.Transaction, opts SendOptions) (string, error) {
	return w.send(ctx, model.RawTransaction{Transaction: tx}, opts)
}

// SendInstructions assembles instructions into a transaction paid by the
// current wallet. signers are extra keys required by the instructions.
func (w *Wallet) SendInstructions(ctx context.Context, instructions []solana.Instruction, signers []solana.PrivateKey, opts SendOptions) (string, error) {
	return w.send(ctx, model.InstructionSet{Instructions: instructions, Signers: signers}, opts)
}

// SendBase64Transaction sends a base64 wire transaction with the current wallet
func (w *Wallet) SendBase64Transaction(ctx context.Context, data string, opts SendOptions) (string, error) {
	return w.send(ctx, model.Base64Transaction{Data: data}, opts)
}

func (w *Wallet) send(ctx context.Context, format model.TransactionFormat, opts SendOptions) (string, error) {
	r := w.Resolve(ctx)
	if r.Wallet == nil {
		return "", wallet.ErrNoWallet
	}
	return w.txs.Send(ctx, format, r.Wallet, opts)
}
