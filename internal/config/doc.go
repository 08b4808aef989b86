// Package config defines the configuration structure for the xo harness.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - xo-server address
//	├── Credentials    - Account used by the main connection
//	├── Harness        - Connection and wait tuning
//	├── LogFormat      - Logging format ("console" or "json")
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌───────┬──────────────────┬──────────────────────────────────────────┐
//	│ Field │ Default          │ Description                              │
//	├───────┼──────────────────┼──────────────────────────────────────────┤
//	│ URL   │ "localhost:9000" │ host:port or ws(s)/http(s) URL           │
//	└───────┴──────────────────┴──────────────────────────────────────────┘
//
// # Credentials Configuration
//
//	┌──────────┬───────────────────┬──────────────────────────────────────┐
//	│ Field    │ Default           │ Description                          │
//	├──────────┼───────────────────┼──────────────────────────────────────┤
//	│ Email    │ "admin@admin.net" │ Sign-in email                        │
//	│ Password │ "admin"           │ Sign-in password (masked in logs)    │
//	└──────────┴───────────────────┴──────────────────────────────────────┘
//
// # Harness Configuration
//
//	┌─────────────┬─────────┬─────────────────────────────────────────────┐
//	│ Field       │ Default │ Description                                 │
//	├─────────────┼─────────┼─────────────────────────────────────────────┤
//	│ NumWorkers  │ 4       │ Workers of the wait command                 │
//	│ DialTimeout │ 30s     │ Time spent retrying the websocket dial      │
//	│ CallTimeout │ 0s      │ Per-call timeout, 0 disables it             │
//	└─────────────┴─────────┴─────────────────────────────────────────────┘
//
// Defaults come from the `default` struct tags (github.com/creasty/defaults).
// The CLI overlays flags and XO_HARNESS_* environment variables through viper.
//
// # Code Generation
//
// The option helpers and DebugMap are generated by optgen:
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Credentials Harness
//
//	cfg := config.NewConfigurationWithOptionsAndDefaults(
//	    config.WithServer(config.Server{URL: "wss://xo.lab"}),
//	    config.WithLogLevel("debug"),
//	)
//
// # Debug Logging
//
// DebugMap follows the `debugmap` tags; the password is tagged sensitive
// and never shows in clear:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
