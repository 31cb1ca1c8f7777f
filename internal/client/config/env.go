package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// envFiles are loaded into the process environment before ADCONNECT_*
// variables are read. Missing files are skipped; variables that are already
// set are never overwritten.
var envFiles = []string{".env"}

const (
	EnvDataDir             = "ADCONNECT_DATA_DIR"
	EnvAccountsDSN         = "ADCONNECT_ACCOUNTS_DSN"
	EnvCatalogURL          = "ADCONNECT_CATALOG_URL"
	EnvCatalogTimeout      = "ADCONNECT_CATALOG_TIMEOUT"
	EnvOnlineCheckInterval = "ADCONNECT_ONLINE_CHECK_INTERVAL"
	EnvRedirectDelay       = "ADCONNECT_REDIRECT_DELAY"
	EnvResetRedirectDelay  = "ADCONNECT_RESET_REDIRECT_DELAY"
	EnvSessionTTL          = "ADCONNECT_SESSION_TTL"
	EnvSecretKey           = "ADCONNECT_SECRET_KEY"
	EnvCheckoutURL         = "ADCONNECT_CHECKOUT_URL"
	EnvCurrency            = "ADCONNECT_CURRENCY"
	EnvLogLevel            = "ADCONNECT_LOG_LEVEL"
)

func loadEnvFiles() {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

// parseEnv overlays Config with ADCONNECT_* variables. Durations use Go
// syntax ("1.5s", "720h"). Panics on malformed values, like the other
// loaders.
func parseEnv(cfg *Config) {
	loadEnvFiles()

	envString(&cfg.DataDir, EnvDataDir)
	envString(&cfg.AccountsDSN, EnvAccountsDSN)
	envString(&cfg.CatalogURL, EnvCatalogURL)
	envDuration(&cfg.CatalogTimeout, EnvCatalogTimeout)
	envDuration(&cfg.OnlineCheckInterval, EnvOnlineCheckInterval)
	envDuration(&cfg.RedirectDelay, EnvRedirectDelay)
	envDuration(&cfg.ResetRedirectDelay, EnvResetRedirectDelay)
	envDuration(&cfg.SessionTTL, EnvSessionTTL)
	envString(&cfg.SecretKey, EnvSecretKey)
	envString(&cfg.CheckoutURL, EnvCheckoutURL)
	envString(&cfg.Currency, EnvCurrency)
	envString(&cfg.LogLevel, EnvLogLevel)
}
