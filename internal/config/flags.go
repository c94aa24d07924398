package config

import (
	"flag"
	"os"
	"time"
)

// ParseFlags parses all configuration flags from the process arguments.
//
// Flags:
//
//	-platform-url remote platform API base URL
//	-sandbox use the platform sandbox environment
//	-driver database driver ("pgx" or "sqlite3")
//	-d database DSN
//	-sync-interval period between sync cycles (e.g., "15m"; 0 = one-shot)
//	-request-timeout platform request timeout (e.g., "30s", "1m")
//	-retry-attempts transient error retry cap
//	-retry-delay initial retry backoff delay (e.g., "500ms")
//	-stats-disabled skip the statistics pull
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	cfg, _ := parseFlagSet(fs, os.Args[1:])
	return cfg
}

// parseFlagSet registers all flags on fs and parses args. Split from
// ParseFlags so tests can supply their own argument list.
func parseFlagSet(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var platformURL string
	var sandbox bool
	var driver string
	var databaseDSN string
	var syncInterval time.Duration
	var requestTimeout time.Duration
	var retryAttempts uint64
	var retryDelay time.Duration
	var statsDisabled bool
	var jsonConfigPath string

	fs.StringVar(&platformURL, "platform-url", "", "Platform API base URL")
	fs.BoolVar(&sandbox, "sandbox", false, "Use the platform sandbox")
	fs.StringVar(&driver, "driver", "", "Database driver (pgx or sqlite3)")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Sync interval (e.g., 15m; 0 = one-shot)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.Uint64Var(&retryAttempts, "retry-attempts", 0, "Transient error retry cap")
	fs.DurationVar(&retryDelay, "retry-delay", 0, "Initial retry backoff delay")
	fs.BoolVar(&statsDisabled, "stats-disabled", false, "Skip the statistics pull")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return &StructuredConfig{}, err
	}

	return &StructuredConfig{
		Platform: Platform{
			BaseURL:        platformURL,
			Sandbox:        sandbox,
			RequestTimeout: requestTimeout,
			RetryAttempts:  retryAttempts,
			RetryBaseDelay: retryDelay,
		},
		Storage: Storage{
			DB: DB{
				Driver: driver,
				DSN:    databaseDSN,
			},
		},
		Workers: Workers{
			SyncInterval:  syncInterval,
			StatsDisabled: statsDisabled,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
