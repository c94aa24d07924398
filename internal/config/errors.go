package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration values are missing or invalid.
var (
	// ErrNoPlatformURL is returned when no platform API base URL was
	// provided by any configuration source.
	ErrNoPlatformURL = errors.New("platform base URL is required")

	// ErrNoDBDriver is returned when the database driver is not set.
	ErrNoDBDriver = errors.New("database driver is required")

	// ErrUnknownDBDriver is returned when the driver is neither "pgx"
	// nor "sqlite3".
	ErrUnknownDBDriver = errors.New("unknown database driver")

	// ErrNoDatabaseDSN is returned when the database DSN is not set.
	ErrNoDatabaseDSN = errors.New("database DSN is required")
)
