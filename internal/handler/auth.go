package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/multi-wallet/internal/auth"
	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/provider"
)

// AuthService is the login surface exposed over HTTP
type AuthService interface {
	Status() auth.State
	User() model.AuthSession
	Login(ctx context.Context, method provider.LoginMethod) error
	InitOTP(ctx context.Context, otpType provider.OTPType, contact string) (string, error)
	VerifyOTP(ctx context.Context, code string) error
	LoginWithPasskey(ctx context.Context, passkey model.Passkey) error
	Logout(ctx context.Context) error
}

// AuthHandler serves the /auth endpoints
type AuthHandler struct {
	auth AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(a AuthService) *AuthHandler {
	return &AuthHandler{auth: a}
}

// Login handles POST /auth/login
// @Summary      Log in
// @Description  One-step login with the configured provider (OAuth token, passwordless contact) or an external wallet app
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  true  "Login method"
// @Success      200      {object}  model.SessionResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}
	kind, err := provider.ParseLoginKind(req.Method)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.Login(r.Context(), provider.LoginMethod{Kind: kind, Token: req.Token, Contact: req.Contact}); err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w)
}

// InitOTP handles POST /auth/otp/init
// @Summary      Send a one-time password
// @Description  Starts a two-step OTP login by sending a code to an email address or phone number
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.OTPInitRequest  true  "OTP channel and contact"
// @Success      200      {object}  model.OTPInitResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /auth/otp/init [post]
func (h *AuthHandler) InitOTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.OTPInitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}
	otpType, err := provider.ParseOTPType(req.OTPType)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Contact == "" {
		badRequest(w, "contact is required")
		return
	}

	otpID, err := h.auth.InitOTP(r.Context(), otpType, req.Contact)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.OTPInitResponse{OTPID: otpID})
}

// VerifyOTP handles POST /auth/otp/verify
// @Summary      Verify a one-time password
// @Description  Completes the OTP login started by /auth/otp/init
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.OTPVerifyRequest  true  "OTP code"
// @Success      200      {object}  model.SessionResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.OTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Code == "" {
		badRequest(w, "code is required")
		return
	}

	if err := h.auth.VerifyOTP(r.Context(), req.Code); err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w)
}

// Passkey handles POST /auth/passkey
// @Summary      Log in with a passkey
// @Description  Registers the passkey attestation in a new sub-organization and logs in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.Passkey  true  "Passkey attestation"
// @Success      200      {object}  model.SessionResponse
// @Router       /auth/passkey [post]
func (h *AuthHandler) Passkey(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.Passkey
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := h.auth.LoginWithPasskey(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w)
}

// Logout handles POST /auth/logout
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	if err := h.auth.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w)
}

// Session handles GET /auth/session
// @Summary      Current session
// @Description  Returns the login status and the persisted session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	h.writeSession(w)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter) {
	st := h.auth.Status()
	writeJSON(w, http.StatusOK, model.SessionResponse{
		Status:  string(st.Status),
		Session: h.auth.User(),
		Message: st.Message,
	})
}
