package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/adconnect/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   local data directory, or ":memory:"
//	-db string  PostgreSQL DSN for the account store
//	-u string   catalog base URL
//	-i int      online check interval in seconds
//	-l string   log level (debug, info, warn, error)
//	-k string   session signing key
//
// os.Args is filtered with flagx.FilterArgs so flags owned by other loaders
// (-c/-config) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-db", "-u", "-i", "-l", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	fs.StringVar(&cfg.AccountsDSN, "db", cfg.AccountsDSN, "PostgreSQL DSN for accounts")
	fs.StringVar(&cfg.CatalogURL, "u", cfg.CatalogURL, "catalog base URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "session signing key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -i overrides, so sub-second values from env/JSON survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}
