package model

// TransferRequest represents request for POST /wallet/transfer/sol
type TransferRequest struct {
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Confirm   bool   `json:"confirm"`
}

// SendRequest represents request for POST /wallet/send
type SendRequest struct {
	Transaction string `json:"transaction" binding:"required"` // base64 wire transaction
	Confirm     bool   `json:"confirm"`
	MaxRetries  int    `json:"maxRetries,omitempty"`
}

// SendResponse represents response for POST /wallet/send and /wallet/transfer/...
type SendResponse struct {
	TxID   string   `json:"txId"`
	Status []string `json:"status,omitempty"`
}
