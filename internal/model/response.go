package model

// ErrorResponse is the body of every failed API call.
// Code is stable across releases (e.g. "no_wallet", "cooldown", "vault_locked")
// while Error is the human-readable message.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
