package model

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address string `json:"address"`
	SOL     string `json:"sol"`
	Rate    string `json:"rate,omitempty"`
	USD     string `json:"sol_amount_in_usd,omitempty"`
}
