package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/crypto"
	"github.com/AlexZinkM/multi-wallet/internal/embedded"
	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/provider"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"
	"github.com/AlexZinkM/multi-wallet/solana"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: msg, Code: "bad_request"})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed. Should be "+method, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// classify maps domain errors to an HTTP status and a stable error code
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, provider.ErrUnsupportedLoginMethod):
		return http.StatusBadRequest, "unsupported_login_method"
	case errors.Is(err, solana.ErrInvalidAddress):
		return http.StatusBadRequest, "invalid_address"
	case errors.Is(err, solana.ErrInvalidTransaction):
		return http.StatusBadRequest, "invalid_transaction"
	case errors.Is(err, provider.ErrNoPendingOTP):
		return http.StatusConflict, "no_pending_otp"
	case errors.Is(err, wallet.ErrNoWallet), errors.Is(err, wallet.ErrNoSolanaWallet):
		return http.StatusNotFound, "no_wallet"
	case errors.Is(err, wallet.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "provider_unavailable"
	case errors.Is(err, wallet.ErrExternalSigning):
		return http.StatusConflict, "external_signing"
	case errors.Is(err, wallet.ErrPlatformUnsupported):
		return http.StatusNotImplemented, "platform_unsupported"
	case errors.Is(err, embedded.ErrLocked):
		return http.StatusLocked, "vault_locked"
	case errors.Is(err, crypto.ErrInvalidPassword):
		return http.StatusUnauthorized, "invalid_password"
	case solana.IsCooldownError(err):
		return http.StatusTooManyRequests, "cooldown"
	case solana.IsTransactionFailedError(err):
		return http.StatusUnprocessableEntity, "transaction_failed"
	case client.IsHTTPError(err):
		return http.StatusBadGateway, "auth_backend"
	case client.IsConnectionError(err):
		return http.StatusServiceUnavailable, "rpc_unreachable"
	}
	return http.StatusInternalServerError, "internal"
}
