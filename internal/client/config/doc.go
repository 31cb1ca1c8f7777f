// Package config loads runtime configuration for the AdConnect CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: ADCONNECT_* variables, optionally read from a .env file.
//  3. Optional JSON file selected via -c/-config or $ADCONNECT_CONFIG.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   local data directory (":memory:" keeps nothing on disk)
//	-db string  PostgreSQL DSN for the account store
//	-u string   catalog base URL
//	-i int      online status check interval (seconds)
//	-l string   log level
//	-k string   session signing key
//
// # JSON schema
//
// Durations are timex.Duration, so values can be either strings like "1.5s"
// or integer nanoseconds:
//
//	{
//	  "data_dir": "data",
//	  "accounts_dsn": "",
//	  "catalog_url": "https://dummyjson.com",
//	  "catalog_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "redirect_delay": "1.5s",
//	  "reset_redirect_delay": "2s",
//	  "session_ttl": "720h",
//	  "secret_key": "",
//	  "checkout_url": "https://sandbox.flutterwave.com/pay/nh2puc7cjm6g",
//	  "currency": "NGN",
//	  "log_level": "info"
//	}
package config
