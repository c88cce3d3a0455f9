package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/AlexZinkM/multi-wallet/internal/client/clienttest"
	"github.com/AlexZinkM/multi-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	for _, p := range Providers {
		got, err := ParseProvider(" " + string(p) + " ")
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParseProvider("PRIVY")
	require.NoError(t, err)
	assert.Equal(t, ProviderPrivy, got)

	_, err = ParseProvider("phantom")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

type nameVisitor struct{}

func (nameVisitor) Privy() (string, error) { return "p", nil }
func (nameVisitor) Dynamic() (string, error) { return "d", nil }
func (nameVisitor) Turnkey() (string, error) { return "t", nil }
func (nameVisitor) MWA() (string, error) { return "m", nil }

func TestVisit(t *testing.T) {
	want := map[Provider]string{ProviderPrivy: "p", ProviderDynamic: "d", ProviderTurnkey: "t", ProviderMWA: "m"}
	for p, w := range want {
		got, err := Visit[string](p, nameVisitor{})
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}

	_, err := Visit[string](Provider("other"), nameVisitor{})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestStandardWallet(t *testing.T) {
	w := New(ProviderDynamic, "Addr1", nil, nil)
	assert.Equal(t, "Addr1", w.Address())
	assert.Equal(t, "Addr1", w.PublicKey())
	assert.Equal(t, model.WalletInfo{WalletType: "dynamic", Address: "Addr1"}, w.WalletInfo())

	_, err := w.SigningProvider(context.Background())
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	mwa := New(ProviderMWA, "Addr2", nil, ExternalOnly)
	for i := 0; i < 2; i++ {
		_, err = mwa.SigningProvider(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "external wallet")
	}
}

func TestFromLegacy(t *testing.T) {
	assert.Nil(t, FromLegacy(nil, ProviderPrivy, nil))
	assert.Nil(t, FromLegacy(&model.LegacyWallets{}, ProviderPrivy, nil))
	assert.Nil(t, FromLegacy(&model.LegacyWallets{Wallets: []model.LegacyWalletEntry{{}}}, ProviderPrivy, nil))

	w := FromLegacy(&model.LegacyWallets{Wallets: []model.LegacyWalletEntry{{Address: "A"}}}, ProviderPrivy, nil)
	require.NotNil(t, w)
	assert.Equal(t, "A", w.Address())

	w = FromLegacy(&model.LegacyWallets{Wallets: []model.LegacyWalletEntry{{PublicKey: "PK", Address: "A"}}}, ProviderPrivy, nil)
	require.NotNil(t, w)
	assert.Equal(t, "PK", w.Address())
}

func transferTx(t *testing.T, payer solana.PublicKey, blockhash solana.Hash) *solana.Transaction {
	t.Helper()
	to := solana.NewWallet().PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1000, payer, to).Build()},
		blockhash,
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	return tx
}

func TestKeySigner_FillsBlockhashAndSigns(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	conn := &clienttest.Connection{Blockhash: solana.Hash{9, 9, 9}}
	tx := transferTx(t, key.PublicKey(), solana.Hash{})

	sig, err := NewKeySigner(key, DefaultSendOptions).SignAndSendTransaction(context.Background(), tx, conn)
	require.NoError(t, err)
	assert.Equal(t, byte(1), sig[0])
	assert.Equal(t, solana.Hash{9, 9, 9}, tx.Message.RecentBlockhash)
	require.Len(t, tx.Signatures, 1)
	require.NoError(t, tx.VerifySignatures())
	assert.Len(t, conn.Sent(), 1)
}

func TestSignWithKeys_RejectsStranger(t *testing.T) {
	payer := solana.NewWallet().PrivateKey
	tx := transferTx(t, payer.PublicKey(), solana.Hash{1})

	err := SignWithKeys(tx, solana.NewWallet().PrivateKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a required signer")
}

func TestPrepareTransaction_NoFeePayer(t *testing.T) {
	err := PrepareTransaction(context.Background(), &solana.Transaction{}, &clienttest.Connection{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoWallet))
	assert.Contains(t, err.Error(), "fee payer")
}
