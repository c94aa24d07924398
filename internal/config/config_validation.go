package config

import (
	"errors"
	"time"
)

// Defaults applied by validate for optional settings.
const (
	defaultRequestTimeout = 30 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// validate checks required fields and fills defaults for optional ones.
// Called as the last step of the builder chain.
func (c *StructuredConfig) validate() error {
	var errs []error

	if c.Platform.BaseURL == "" {
		errs = append(errs, ErrNoPlatformURL)
	}

	switch c.Storage.DB.Driver {
	case "pgx", "sqlite3":
	case "":
		errs = append(errs, ErrNoDBDriver)
	default:
		errs = append(errs, ErrUnknownDBDriver)
	}

	if c.Storage.DB.DSN == "" {
		errs = append(errs, ErrNoDatabaseDSN)
	}

	if c.Platform.RequestTimeout <= 0 {
		c.Platform.RequestTimeout = defaultRequestTimeout
	}
	if c.Platform.RetryAttempts == 0 {
		c.Platform.RetryAttempts = defaultRetryAttempts
	}
	if c.Platform.RetryBaseDelay <= 0 {
		c.Platform.RetryBaseDelay = defaultRetryBaseDelay
	}

	return errors.Join(errs...)
}
