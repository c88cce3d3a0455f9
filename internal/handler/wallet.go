package handler

import (
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"
	"github.com/AlexZinkM/multi-wallet/solana"

	"go.uber.org/zap"
)

// QRFunc renders an address as a base64 PNG QR code
type QRFunc func(address string) (string, error)

// WalletHandler serves the /wallet endpoints
type WalletHandler struct {
	wallet          *solana.Wallet
	rates           solana.RateSource
	qr              QRFunc
	cooldownMinutes int
	logger          *zap.Logger
}

// NewWalletHandler creates a new WalletHandler. rates and qr may be nil.
func NewWalletHandler(w *solana.Wallet, rates solana.RateSource, qr QRFunc, cooldownMinutes int, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		wallet:          w,
		rates:           rates,
		qr:              qr,
		cooldownMinutes: cooldownMinutes,
		logger:          logger.Named("http"),
	}
}

// Wallet handles GET /wallet
// @Summary      Current wallet
// @Description  Resolves the wallet of the logged-in user, with a QR code of its address
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet [get]
func (h *WalletHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := h.wallet.Resolve(r.Context())
	if res.Address == "" {
		writeError(w, wallet.ErrNoWallet)
		return
	}

	resp := model.WalletResponse{
		Address:   res.Address,
		Connected: res.Connected,
	}
	if res.Wallet != nil {
		resp.Provider = string(res.Wallet.Provider())
	}
	if res.PublicKey != nil {
		resp.PublicKey = res.PublicKey.String()
	}
	if h.qr != nil && res.PublicKey != nil {
		qr, err := h.qr(res.Address)
		if err != nil {
			h.logger.Warn("failed to render QR code", zap.Error(err))
		}
		resp.QR = qr
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance (USD = SOL * rate)
// @Description  Gets the SOL balance with the SOL/USD rate when available
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := h.wallet.Resolve(r.Context())
	if res.PublicKey == nil {
		writeError(w, wallet.ErrNoWallet)
		return
	}

	txs := h.wallet.Transactions()
	balance, err := solana.GetBalance(r.Context(), txs.Connection(), txs.Fallback(), h.rates, res.Address, h.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// Send handles POST /wallet/send
// @Summary      Send a transaction
// @Description  Signs a base64 wire transaction with the current wallet and broadcasts it
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.SendRequest  true  "Transaction"
// @Success      200      {object}  model.SendResponse
// @Router       /wallet/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Transaction == "" {
		badRequest(w, "transaction is required")
		return
	}

	var status []string
	txID, err := h.wallet.SendBase64Transaction(r.Context(), req.Transaction, solana.SendOptions{
		ConfirmTransaction: req.Confirm,
		MaxRetries:         req.MaxRetries,
		StatusCallback:     func(msg string) { status = append(status, msg) },
	})
	if err != nil {
		h.writeSendError(w, txID, status, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SendResponse{TxID: txID, Status: status})
}

// TransferSOL handles POST /wallet/transfer/sol
// @Summary      Send SOL
// @Description  Sends a SOL transfer from the current wallet to the specified address
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.TransferRequest  true  "Transfer data"
// @Success      200      {object}  model.SendResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /wallet/transfer/sol [post]
func (h *WalletHandler) TransferSOL(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}

	resp, err := solana.TransferSOL(r.Context(), h.wallet, req.ToAddress, req.Amount, h.cooldownMinutes, solana.SendOptions{
		ConfirmTransaction: req.Confirm,
	})
	if err != nil {
		var txID string
		var status []string
		if resp != nil {
			txID, status = resp.TxID, resp.Status
		}
		h.writeSendError(w, txID, status, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeSendError keeps the signature in the body when the transaction landed
func (h *WalletHandler) writeSendError(w http.ResponseWriter, txID string, status []string, err error) {
	if txID == "" {
		writeError(w, err)
		return
	}
	code, _ := classify(err)
	writeJSON(w, code, struct {
		model.SendResponse
		Error string `json:"error"`
	}{
		SendResponse: model.SendResponse{TxID: txID, Status: status},
		Error:        err.Error(),
	})
}
