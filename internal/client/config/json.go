package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/adconnect/internal/flagx"
	"github.com/dmitrijs2005/adconnect/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "1.5s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DataDir             string         `json:"data_dir"`
	AccountsDSN         string         `json:"accounts_dsn"`
	CatalogURL          string         `json:"catalog_url"`
	CatalogTimeout      timex.Duration `json:"catalog_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RedirectDelay       timex.Duration `json:"redirect_delay"`
	ResetRedirectDelay  timex.Duration `json:"reset_redirect_delay"`
	SessionTTL          timex.Duration `json:"session_ttl"`
	SecretKey           string         `json:"secret_key"`
	CheckoutURL         string         `json:"checkout_url"`
	Currency            string         `json:"currency"`
	LogLevel            string         `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from -c/-config or $ADCONNECT_CONFIG (see
// flagx.JsonConfigFlags). Keys that are absent or zero leave the current
// value alone. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.AccountsDSN, jc.AccountsDSN)
	setString(&cfg.CatalogURL, jc.CatalogURL)
	setDuration(&cfg.CatalogTimeout, jc.CatalogTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.RedirectDelay, jc.RedirectDelay)
	setDuration(&cfg.ResetRedirectDelay, jc.ResetRedirectDelay)
	setDuration(&cfg.SessionTTL, jc.SessionTTL)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.CheckoutURL, jc.CheckoutURL)
	setString(&cfg.Currency, jc.Currency)
	setString(&cfg.LogLevel, jc.LogLevel)
}
