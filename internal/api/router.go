package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/handler"
	"github.com/AlexZinkM/multi-wallet/internal/model"

	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"
)

// Options configures the router
type Options struct {
	// OTPRatePerMinute caps how many OTP codes can be requested; zero disables the limit
	OTPRatePerMinute int
}

// SetupRouter sets up router with handlers
func SetupRouter(authHandler *handler.AuthHandler, walletHandler *handler.WalletHandler, opts Options) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Auth endpoints
	mux.HandleFunc("/auth/login", authHandler.Login)
	mux.Handle("/auth/otp/init", limit(http.HandlerFunc(authHandler.InitOTP), opts.OTPRatePerMinute))
	mux.HandleFunc("/auth/otp/verify", authHandler.VerifyOTP)
	mux.HandleFunc("/auth/passkey", authHandler.Passkey)
	mux.HandleFunc("/auth/logout", authHandler.Logout)
	mux.HandleFunc("/auth/session", authHandler.Session)

	// Wallet endpoints
	mux.HandleFunc("/wallet", walletHandler.Wallet)
	mux.HandleFunc("/wallet/balance", walletHandler.GetBalance)
	mux.HandleFunc("/wallet/send", walletHandler.Send)
	mux.HandleFunc("/wallet/transfer/sol", walletHandler.TransferSOL)

	return mux
}

// limit rejects requests beyond perMinute with 429
func limit(next http.Handler, perMinute int) http.Handler {
	if perMinute <= 0 {
		return next
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(model.ErrorResponse{Error: "too many OTP requests", Code: "rate_limited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
