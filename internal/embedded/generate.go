package embedded

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/crypto"
	"github.com/AlexZinkM/multi-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"
)

const (
	networkSolana = "solana"
)

// Generate creates a new Solana key and seals it into a new .cwt vault file.
// Returns the generated public address on success.
// password must be []byte for security (caller should zero it after use)
func Generate(filePath string, password []byte) (address string, err error) {
	account := solana.NewWallet()
	defer clear(account.PrivateKey)

	address = account.PublicKey().String()

	qrCode, err := GenerateQRCode(address)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	walletData := &model.WalletData{
		PrivateKey: account.PrivateKey,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	if err := crypto.EncryptWallet(filePath, networkSolana, address, qrCode, walletData, password); err != nil {
		return "", fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	return address, nil
}

// Rekey re-encrypts the vault at filePath under a new password
func Rekey(filePath string, oldPassword, newPassword []byte) error {
	cwtFile, walletData, err := crypto.DecryptWallet(filePath, oldPassword)
	if err != nil {
		return err
	}
	defer clear(walletData.PrivateKey)

	return crypto.ReplaceWallet(filePath, cwtFile.Network, cwtFile.Address, cwtFile.QR, walletData, newPassword)
}

// GenerateQRCode generates QR code of address in base64
func GenerateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
