package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// campaignRepository is the SQL-backed implementation of
// [CampaignRepository].
type campaignRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewCampaignRepository(db *DB, logger *logger.Logger) CampaignRepository {
	logger.Debug().Msg("creating campaign repository")
	return &campaignRepository{
		db:     db,
		logger: logger,
	}
}

func scanCampaign(scan func(dest ...any) error) (models.Campaign, error) {
	var c models.Campaign
	var startDate sql.NullTime
	err := scan(&c.ID, &c.Login, &c.Name, &c.State, &c.Status, &c.Type,
		&startDate, &c.DailyBudgetAmount, &c.DailyBudgetMode)
	if err != nil {
		return models.Campaign{}, err
	}
	if startDate.Valid {
		c.StartDate = startDate.Time
	}

	return c, nil
}

func (r *campaignRepository) ListByLogin(ctx context.Context, login string) ([]models.Campaign, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listCampaignsByLogin, login)
	if err != nil {
		log.Err(err).Str("func", "*campaignRepository.ListByLogin").Str("login", login).Msg("failed to query campaigns")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		c, scanErr := scanCampaign(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*campaignRepository.ListByLogin").Msg("failed to scan campaign row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, rows.Err()
}

func (r *campaignRepository) Get(ctx context.Context, id int64) (models.Campaign, error) {
	log := logger.FromContext(ctx)

	c, err := scanCampaign(r.db.QueryRowContext(ctx, getCampaign, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Campaign{}, fmt.Errorf("%w: campaign %d", ErrEntityNotFound, id)
	}
	if err != nil {
		log.Err(err).Str("func", "*campaignRepository.Get").Int64("id", id).Msg("failed to get campaign")
		return models.Campaign{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}

	return c, nil
}

func (r *campaignRepository) Upsert(ctx context.Context, campaigns ...models.Campaign) error {
	log := logger.FromContext(ctx)

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range campaigns {
			var startDate any
			if !c.StartDate.IsZero() {
				startDate = c.StartDate
			}
			_, err := tx.ExecContext(ctx, upsertCampaign,
				c.ID, c.Login, c.Name, c.State, c.Status, c.Type,
				startDate, c.DailyBudgetAmount, c.DailyBudgetMode)
			if err != nil {
				log.Err(err).
					Str("func", "*campaignRepository.Upsert").
					Int64("id", c.ID).
					Msg("failed to upsert campaign")
				return fmt.Errorf("%w: campaign %d: %w", ErrExecutingStatement, c.ID, err)
			}
		}
		return nil
	})
}

func (r *campaignRepository) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteIn("campaigns", ids)
	if err != nil {
		return err
	}
	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*campaignRepository.Delete").Ints64("ids", ids).Msg("failed to delete campaigns")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return nil
}

func (r *campaignRepository) SetState(ctx context.Context, state models.State, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildSetState("campaigns", state, ids)
	if err != nil {
		return err
	}
	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*campaignRepository.SetState").Str("state", string(state)).Msg("failed to set campaign state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return nil
}

func (r *campaignRepository) RemoteIDs(ctx context.Context, login string) ([]int64, error) {
	return r.db.queryIDs(ctx, campaignRemoteIDs, login)
}

func (r *campaignRepository) SyncRecords(ctx context.Context, login string) ([]models.SyncRecord, error) {
	return r.db.querySyncRecords(ctx, models.KindCampaign, false, campaignSyncRecords, login)
}

func (r *campaignRepository) Remap(ctx context.Context, oldID, newID int64) error {
	return r.db.remap(ctx, campaignRemapSpec, oldID, newID)
}
