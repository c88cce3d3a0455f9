// Command server exposes login and Solana wallet operations over HTTP.
// Usage: AUTH_PROVIDER=privy go run ./cmd/server
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/AlexZinkM/multi-wallet/docs"
	"github.com/AlexZinkM/multi-wallet/internal/api"
	"github.com/AlexZinkM/multi-wallet/internal/auth"
	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/config"
	"github.com/AlexZinkM/multi-wallet/internal/embedded"
	"github.com/AlexZinkM/multi-wallet/internal/handler"
	"github.com/AlexZinkM/multi-wallet/internal/logger"
	"github.com/AlexZinkM/multi-wallet/internal/provider"
	"github.com/AlexZinkM/multi-wallet/internal/session"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"
	"github.com/AlexZinkM/multi-wallet/solana"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Init(); err != nil {
		return err
	}
	cfg := config.Get()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	kind, err := wallet.ParseProvider(cfg.AuthProvider)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore(newPersister(cfg), log)
	if err := store.Restore(ctx); err != nil {
		log.Warn("starting with an empty session", zap.Error(err))
	}

	authAPI := client.NewAuthAPIClient(cfg.AuthServerURL)
	adapters, err := newAdapters(kind, cfg, authAPI, log)
	if err != nil {
		return err
	}

	a, err := auth.New(kind, adapters, store, log)
	if err != nil {
		return err
	}

	profiles := session.NewProfileSync(authAPI, store, cfg.ProfileDebounce, log)
	defer profiles.Stop()

	primary := client.NewSolanaClient(cfg.SolanaRPCURL)
	txs := solana.NewTransactionService(primary, solana.ServiceOptions{
		Fallback: func() client.Connection {
			return client.NewSolanaClient(cfg.SolanaFallbackRPCURL)
		},
		External:          a,
		ConfirmInterval:   cfg.ConfirmInterval,
		ConfirmMaxRetries: cfg.ConfirmMaxRetries,
	}, log)
	w := solana.NewWallet(a, txs, profiles, nil, log)

	router := api.SetupRouter(
		handler.NewAuthHandler(a),
		handler.NewWalletHandler(w, client.NewCoinGeckoClient(""), embedded.GenerateQRCode, cfg.PayCooldown, log),
		api.Options{OTPRatePerMinute: cfg.OTPRatePerMinute},
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.Stringer("provider", kind), zap.String("platform", cfg.Platform))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newPersister(cfg *config.Config) session.Persister {
	if cfg.SessionBackend == "redis" {
		return session.NewRedisPersister(session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword), cfg.SessionKey)
	}
	return session.NewFilePersister(cfg.SessionFilePath)
}

// newAdapters builds the adapter for kind, plus MWA on Android.
// Embedded providers sign with the local vault, unlocked from the terminal.
func newAdapters(kind wallet.Provider, cfg *config.Config, authAPI *client.AuthAPIClient, log *zap.Logger) ([]provider.Adapter, error) {
	android := cfg.IsAndroid()
	mwa := provider.NewMWA(
		client.NewMWABridgeClient(cfg.MWABridgeURL, ""),
		client.MWAIdentity{Name: "multi-wallet"},
		android,
		log,
	)
	if kind == wallet.ProviderMWA {
		return []provider.Adapter{mwa}, nil
	}

	vault, err := openVault(cfg, log)
	if err != nil {
		return nil, err
	}

	var primary provider.Adapter
	switch kind {
	case wallet.ProviderPrivy:
		primary = provider.NewPrivy(vault.Privy(), log)
	case wallet.ProviderDynamic:
		primary = provider.NewDynamic(vault.Dynamic(), wallet.DefaultSendOptions, log)
	case wallet.ProviderTurnkey:
		primary = provider.NewTurnkey(authAPI, vault.Turnkey(), cfg.TurnkeySessionTTL, log)
	}

	adapters := []provider.Adapter{primary}
	if android {
		adapters = append(adapters, mwa)
	}
	return adapters, nil
}

func openVault(cfg *config.Config, log *zap.Logger) (*embedded.Vault, error) {
	vault, err := embedded.Open(cfg.VaultFilePath, wallet.DefaultSendOptions, log)
	if err != nil {
		return nil, fmt.Errorf("open vault (create one with cmd/keygen): %w", err)
	}

	if err := config.PromptForPassword(); err != nil {
		return nil, err
	}
	password, err := config.GetVaultPasswordBytes()
	if err != nil {
		return nil, err
	}
	defer clear(password)

	if err := vault.Unlock(password); err != nil {
		return nil, err
	}
	return vault, nil
}
