// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// changeLogRepository is the SQL-backed implementation of
// [ChangeLogRepository]. The log is append-only: rows are never updated,
// except for the entity_id rewrite a placeholder remap performs.
type changeLogRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewChangeLogRepository(db *DB, logger *logger.Logger) ChangeLogRepository {
	logger.Debug().Msg("creating change log repository")
	return &changeLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *changeLogRepository) Append(ctx context.Context, entries ...models.ChangeLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, e := range entries {
			changedAt := e.ChangedAt
			if changedAt.IsZero() {
				changedAt = time.Now().UTC()
			}
			_, err := tx.ExecContext(ctx, appendChangeLogEntry,
				string(e.Kind), e.EntityID, e.Field, string(e.Origin), changedAt)
			if err != nil {
				log.Err(err).
					Str("func", "*changeLogRepository.Append").
					Str("kind", string(e.Kind)).
					Int64("entity_id", e.EntityID).
					Msg("failed to append change log entry")
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
}

// FieldsSince returns the distinct locally-originated field names logged per
// entity strictly after since, so an edit logged at the exact moment the last
// cycle completed does not surface twice. Pulled entries are excluded:
// overwrites by the remote loader never make a record pending.
func (r *changeLogRepository) FieldsSince(ctx context.Context, kind models.EntityKind, since time.Time, ids ...int64) (map[int64][]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFieldsSince(kind, since, ids)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*changeLogRepository.FieldsSince").Str("kind", string(kind)).Msg("failed to query change log window")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	defer rows.Close()

	result := make(map[int64][]string)
	for rows.Next() {
		var entityID int64
		var field string
		if err = rows.Scan(&entityID, &field); err != nil {
			log.Err(err).Str("func", "*changeLogRepository.FieldsSince").Msg("failed to scan change log row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		result[entityID] = append(result[entityID], field)
	}

	return result, rows.Err()
}
