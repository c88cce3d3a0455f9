package model

// CWTFile represents .cwt vault file structure
type CWTFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// WalletData represents decrypted vault data
type WalletData struct {
	PrivateKey []byte `json:"privateKey"` // 64 bytes ed25519 key (stored as base64 in JSON)
	CreatedAt  string `json:"createdAt"`
}

// WalletInfo is the display projection of a wallet
type WalletInfo struct {
	WalletType string `json:"walletType"`
	Address    string `json:"address"`
}

// LegacyWalletEntry is one element of the old wallets array.
// Older call sites filled either PublicKey or Address.
type LegacyWalletEntry struct {
	PublicKey string `json:"publicKey,omitempty"`
	Address   string `json:"address,omitempty"`
}

// LegacyWallets is the array-of-wallets shape kept for older call sites
type LegacyWallets struct {
	Wallets []LegacyWalletEntry `json:"wallets"`
}

// WalletResponse represents response for GET /wallet
type WalletResponse struct {
	Provider  string `json:"provider"`
	Address   string `json:"address"`
	PublicKey string `json:"publicKey,omitempty"`
	Connected bool   `json:"connected"`
	QR        string `json:"QR,omitempty"`
}
