package config

import "time"

// MemoryDataDir selects the in-memory store instead of a SQLite file.
const MemoryDataDir = ":memory:"

// Config holds runtime settings for the AdConnect CLI.
//
// Units: every interval is a time.Duration (e.g., 1500*time.Millisecond).
type Config struct {
	// DataDir holds the local store file (adconnect.db).
	DataDir string
	// AccountsDSN switches the credential store to PostgreSQL when set.
	AccountsDSN string

	CatalogURL          string
	CatalogTimeout      time.Duration
	OnlineCheckInterval time.Duration

	RedirectDelay      time.Duration
	ResetRedirectDelay time.Duration

	SessionTTL time.Duration
	// SecretKey signs session tokens. Empty means generate once and persist.
	SecretKey string

	CheckoutURL string
	Currency    string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.AccountsDSN = ""
	c.CatalogURL = "https://dummyjson.com"
	c.CatalogTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.RedirectDelay = 1500 * time.Millisecond
	c.ResetRedirectDelay = 2 * time.Second
	c.SessionTTL = 30 * 24 * time.Hour
	c.SecretKey = ""
	c.CheckoutURL = "https://sandbox.flutterwave.com/pay/nh2puc7cjm6g"
	c.Currency = "NGN"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
