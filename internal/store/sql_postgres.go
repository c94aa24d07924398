package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/go-ads-sync/internal/config"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB wraps the shared connection pool with the driver-specific error
// classifier. Both backends (PostgreSQL and SQLite) hand out the same DB, so
// the repositories are driver-agnostic.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	db := &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
	}

	return db, nil
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// classify wraps a driver error with [ErrTransientStorage] when the backend's
// classifier deems it retryable, so that the engine aborts the cycle without
// marking the account failed.
func (db *DB) classify(err error) error {
	if err == nil {
		return nil
	}
	if db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrTransientStorage, err)
	}

	return err
}

// inTx runs fn inside one transaction, rolling back on any error.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return db.classify(err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
