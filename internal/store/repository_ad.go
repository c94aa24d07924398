package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// adRepository is the SQL-backed implementation of [AdRepository].
type adRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewAdRepository(db *DB, logger *logger.Logger) AdRepository {
	logger.Debug().Msg("creating ad repository")
	return &adRepository{
		db:     db,
		logger: logger,
	}
}

func scanAd(scan func(dest ...any) error) (models.Ad, error) {
	var a models.Ad
	err := scan(&a.ID, &a.AdGroupID, &a.State, &a.Status, &a.StatusClarification,
		&a.Title, &a.Title2, &a.Text, &a.Href, &a.Mobile,
		&a.DisplayDomain, &a.DisplayURLPath, &a.VCardID, &a.AdImageHash)
	if err != nil {
		return models.Ad{}, err
	}

	return a, nil
}

func (r *adRepository) ListByGroups(ctx context.Context, groupIDs ...int64) ([]models.Ad, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildSelectIn(adColumns, "ads", "ad_group_id", groupIDs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*adRepository.ListByGroups").Msg("failed to query ads")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	defer rows.Close()

	var ads []models.Ad
	for rows.Next() {
		a, scanErr := scanAd(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*adRepository.ListByGroups").Msg("failed to scan ad row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		ads = append(ads, a)
	}

	return ads, rows.Err()
}

func (r *adRepository) Get(ctx context.Context, id int64) (models.Ad, error) {
	log := logger.FromContext(ctx)

	a, err := scanAd(r.db.QueryRowContext(ctx, getAd, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ad{}, fmt.Errorf("%w: ad %d", ErrEntityNotFound, id)
	}
	if err != nil {
		log.Err(err).Str("func", "*adRepository.Get").Int64("id", id).Msg("failed to get ad")
		return models.Ad{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}

	return a, nil
}

func (r *adRepository) Upsert(ctx context.Context, ads ...models.Ad) error {
	log := logger.FromContext(ctx)

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range ads {
			_, err := tx.ExecContext(ctx, upsertAd,
				a.ID, a.AdGroupID, a.State, a.Status, a.StatusClarification,
				a.Title, a.Title2, a.Text, a.Href, a.Mobile,
				a.DisplayDomain, a.DisplayURLPath, a.VCardID, a.AdImageHash)
			if err != nil {
				log.Err(err).
					Str("func", "*adRepository.Upsert").
					Int64("id", a.ID).
					Msg("failed to upsert ad")
				return fmt.Errorf("%w: ad %d: %w", ErrExecutingStatement, a.ID, err)
			}
		}
		return nil
	})
}

func (r *adRepository) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteIn("ads", ids)
	if err != nil {
		return err
	}
	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*adRepository.Delete").Ints64("ids", ids).Msg("failed to delete ads")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return nil
}

func (r *adRepository) SetState(ctx context.Context, state models.State, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildSetState("ads", state, ids)
	if err != nil {
		return err
	}
	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*adRepository.SetState").Str("state", string(state)).Msg("failed to set ad state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return nil
}

func (r *adRepository) RemoteIDs(ctx context.Context, login string) ([]int64, error) {
	return r.db.queryIDs(ctx, adRemoteIDs, login)
}

func (r *adRepository) SyncRecords(ctx context.Context, login string) ([]models.SyncRecord, error) {
	return r.db.querySyncRecords(ctx, models.KindAd, true, adSyncRecords, login)
}

func (r *adRepository) Remap(ctx context.Context, oldID, newID int64) error {
	return r.db.remap(ctx, adRemapSpec, oldID, newID)
}
