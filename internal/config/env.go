package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: vault password is prompted at runtime and stored in memory - use GetVaultPasswordBytes()
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Exactly one provider is active per process: privy, dynamic, turnkey or mwa
	AuthProvider string `envconfig:"AUTH_PROVIDER" required:"true"`
	Platform     string `envconfig:"PLATFORM" default:"server"` // "android" enables MWA

	SolanaRPCURL         string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
	SolanaFallbackRPCURL string `envconfig:"SOLANA_FALLBACK_RPC_URL" default:"https://api.mainnet-beta.solana.com"`

	AuthServerURL string `envconfig:"AUTH_SERVER_URL" default:"http://localhost:3000"`
	MWABridgeURL  string `envconfig:"MWA_BRIDGE_URL" default:"ws://localhost:8765/mwa"`

	VaultFilePath     string        `envconfig:"VAULT_FILE_PATH" default:"wallet.cwt"`
	TurnkeySessionTTL time.Duration `envconfig:"TURNKEY_SESSION_TTL" default:"15m"`

	SessionBackend  string `envconfig:"SESSION_BACKEND" default:"file"` // file or redis
	SessionFilePath string `envconfig:"SESSION_FILE_PATH" default:"session.json"`
	SessionKey      string `envconfig:"SESSION_KEY" default:"multi-wallet:session"`
	RedisAddr       string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword   string `envconfig:"REDIS_PASSWORD"`

	ConfirmMaxRetries int           `envconfig:"CONFIRM_MAX_RETRIES" default:"5"`
	ConfirmInterval   time.Duration `envconfig:"CONFIRM_INTERVAL" default:"2s"`
	ProfileDebounce   time.Duration `envconfig:"PROFILE_DEBOUNCE" default:"500ms"`

	PayCooldown      int `envconfig:"PAY_COOLDOWN_MINUTES" default:"1"`
	OTPRatePerMinute int `envconfig:"OTP_RATE_PER_MINUTE" default:"5"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if c.ConfirmMaxRetries <= 0 {
		return errors.New("CONFIRM_MAX_RETRIES must be positive")
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// IsAndroid reports whether platform-gated adapters (MWA) are available
func (c *Config) IsAndroid() bool {
	return c.Platform == "android"
}

var passwordBytes []byte

// PromptForPassword prompts the user for the vault password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := ReadPassword("Enter vault password: ")
	if err != nil {
		return err
	}
	passwordBytes = raw
	return nil
}

// ReadPassword reads a non-empty password from the terminal without echo.
// Caller must zero the returned slice after use.
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// GetVaultPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetVaultPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
