// Package embedded is a local encrypted key vault that stands in for the
// hosted embedded-wallet SDKs (Privy, Dynamic, Turnkey) when running as a server.
package embedded

import (
	"errors"
	"fmt"
	"sync"

	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/crypto"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// ErrLocked means the vault key has not been unlocked with the password
var ErrLocked = errors.New("vault is locked")

// Vault holds one sealed Solana key. The address and QR are readable while locked.
type Vault struct {
	path     string
	address  string
	qr       string
	sendOpts client.SendOptions
	logger   *zap.Logger

	mu  sync.RWMutex
	key solana.PrivateKey
}

// Open reads the public part of the vault file without decrypting it
func Open(path string, sendOpts client.SendOptions, logger *zap.Logger) (*Vault, error) {
	cwtFile, err := crypto.ReadWalletFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if _, err := solana.PublicKeyFromBase58(cwtFile.Address); err != nil {
		return nil, fmt.Errorf("vault has invalid address: %w", err)
	}
	return &Vault{
		path:     path,
		address:  cwtFile.Address,
		qr:       cwtFile.QR,
		sendOpts: sendOpts,
		logger:   logger.Named("vault"),
	}, nil
}

// Address returns the vault's wallet address
func (v *Vault) Address() string { return v.address }

// QR returns the address QR code as base64 PNG
func (v *Vault) QR() string { return v.qr }

// Unlock decrypts the key into memory.
// password must be []byte for security (caller should zero it after use)
func (v *Vault) Unlock(password []byte) error {
	_, walletData, err := crypto.DecryptWallet(v.path, password)
	if err != nil {
		return err
	}
	defer clear(walletData.PrivateKey)

	// Verify private key length (we store full 64-byte key)
	if len(walletData.PrivateKey) != 64 {
		return fmt.Errorf("invalid private key length")
	}

	key := make(solana.PrivateKey, len(walletData.PrivateKey))
	copy(key, walletData.PrivateKey)
	if key.PublicKey().String() != v.address {
		clear(key)
		return fmt.Errorf("private key does not match address")
	}

	v.mu.Lock()
	clear(v.key)
	v.key = key
	v.mu.Unlock()

	v.logger.Info("vault unlocked", zap.String("address", v.address))
	return nil
}

// Lock wipes the key from memory
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	clear(v.key)
	v.key = nil
}

// Unlocked reports whether the key is in memory
func (v *Vault) Unlocked() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.key != nil
}

// Signer returns an in-memory signer for the vault key
func (v *Vault) Signer() (*wallet.KeySigner, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.key == nil {
		return nil, ErrLocked
	}
	key := make(solana.PrivateKey, len(v.key))
	copy(key, v.key)
	return wallet.NewKeySigner(key, v.sendOpts), nil
}
