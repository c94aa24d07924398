package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// accountRepository is the SQL-backed implementation of [AccountRepository].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, cycle-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) ListActive(ctx context.Context) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listActiveAccounts)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.ListActive").Msg("failed to query active accounts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err = rows.Scan(&a.Login, &a.AuthToken, &a.Sandbox, &a.Disabled); err != nil {
			log.Err(err).Str("func", "*accountRepository.ListActive").Msg("failed to scan account row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

func (r *accountRepository) Get(ctx context.Context, login string) (models.Account, error) {
	log := logger.FromContext(ctx)

	var a models.Account
	err := r.db.QueryRowContext(ctx, getAccount, login).
		Scan(&a.Login, &a.AuthToken, &a.Sandbox, &a.Disabled)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.Get").Str("login", login).Msg("failed to get account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}

	return a, nil
}

func (r *accountRepository) Upsert(ctx context.Context, account models.Account) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, upsertAccount,
		account.Login, account.AuthToken, account.Sandbox, account.Disabled)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.Upsert").Str("login", account.Login).Msg("failed to upsert account")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return nil
}
