package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// checkpointRepository is the SQL-backed implementation of
// [CheckpointRepository]. Checkpoints are written exactly once per clean
// cycle, after every other write has committed, so the stored value always
// points at a fully processed change-stream position.
type checkpointRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewCheckpointRepository(db *DB, logger *logger.Logger) CheckpointRepository {
	logger.Debug().Msg("creating checkpoint repository")
	return &checkpointRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the account's checkpoint, or the zero value (NeverSynced) when
// the account has not completed a cycle yet.
func (r *checkpointRepository) Get(ctx context.Context, login string) (models.Checkpoint, error) {
	log := logger.FromContext(ctx)

	var cp models.Checkpoint
	err := r.db.QueryRowContext(ctx, getCheckpoint, login).
		Scan(&cp.Login, &cp.DictionaryCheckpoint, &cp.HierarchyCheckpoint, &cp.LastSyncCompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Checkpoint{Login: login}, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*checkpointRepository.Get").Str("login", login).Msg("failed to get checkpoint")
		return models.Checkpoint{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}

	return cp, nil
}

func (r *checkpointRepository) Save(ctx context.Context, cp models.Checkpoint) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, saveCheckpoint,
		cp.Login, cp.DictionaryCheckpoint, cp.HierarchyCheckpoint, cp.LastSyncCompletedAt)
	if err != nil {
		log.Err(err).Str("func", "*checkpointRepository.Save").Str("login", cp.Login).Msg("failed to save checkpoint")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return nil
}
