package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/multi-wallet/internal/client"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// DefaultSendOptions are used by in-process signers when broadcasting
var DefaultSendOptions = client.SendOptions{
	SkipPreflight:       false,
	PreflightCommitment: rpc.CommitmentConfirmed,
	MaxRetries:          3,
}

// PrepareTransaction makes sure a legacy transaction has a fee payer and a
// recent blockhash before it is signed. Versioned messages are left untouched.
func PrepareTransaction(ctx context.Context, tx *solana.Transaction, conn client.Connection) error {
	if tx == nil {
		return errors.New("transaction is nil")
	}
	if len(tx.Message.AccountKeys) == 0 || tx.Message.Header.NumRequiredSignatures == 0 {
		return errors.New("transaction has no fee payer")
	}
	if tx.Message.IsVersioned() {
		return nil
	}
	if tx.Message.RecentBlockhash == (solana.Hash{}) {
		if conn == nil {
			return errors.New("transaction has no recent blockhash and no connection to fetch one")
		}
		blockhash, err := conn.GetLatestBlockhash(ctx)
		if err != nil {
			return err
		}
		tx.Message.RecentBlockhash = blockhash
		// a new blockhash invalidates any earlier signature
		tx.Signatures = nil
	}
	return nil
}

// SignWithKeys adds signatures for keys to tx, keeping signatures already present.
// Every key must be one of the message's required signers.
func SignWithKeys(tx *solana.Transaction, keys ...solana.PrivateKey) error {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if required > len(tx.Message.AccountKeys) {
		return errors.New("message header requires more signers than account keys")
	}
	if len(tx.Signatures) != required {
		sigs := make([]solana.Signature, required)
		copy(sigs, tx.Signatures)
		tx.Signatures = sigs
	}

	for _, key := range keys {
		pub := key.PublicKey()
		idx := -1
		for i := 0; i < required; i++ {
			if tx.Message.AccountKeys[i].Equals(pub) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("key %s is not a required signer", pub)
		}

		sig, err := key.Sign(msg)
		if err != nil {
			return fmt.Errorf("failed to sign transaction: %w", err)
		}
		tx.Signatures[idx] = sig
	}
	return nil
}

// KeySigner signs with a private key held in process memory
type KeySigner struct {
	key  solana.PrivateKey
	opts client.SendOptions
}

// NewKeySigner creates a signer for key that broadcasts with opts
func NewKeySigner(key solana.PrivateKey, opts client.SendOptions) *KeySigner {
	return &KeySigner{key: key, opts: opts}
}

// PublicKey returns the signer's public key
func (s *KeySigner) PublicKey() solana.PublicKey {
	return s.key.PublicKey()
}

// SignTransaction signs tx in place and returns it
func (s *KeySigner) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	if err := SignWithKeys(tx, s.key); err != nil {
		return nil, err
	}
	return tx, nil
}

// SignAndSendTransaction signs tx and broadcasts it through conn
func (s *KeySigner) SignAndSendTransaction(ctx context.Context, tx *solana.Transaction, conn client.Connection) (solana.Signature, error) {
	if err := PrepareTransaction(ctx, tx, conn); err != nil {
		return solana.Signature{}, err
	}
	if err := SignWithKeys(tx, s.key); err != nil {
		return solana.Signature{}, err
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return conn.SendRawTransaction(ctx, raw, s.opts)
}
