package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// statsRepository is the SQL-backed implementation of [StatsRepository].
type statsRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewStatsRepository(db *DB, logger *logger.Logger) StatsRepository {
	logger.Debug().Msg("creating stats repository")
	return &statsRepository{
		db:     db,
		logger: logger,
	}
}

// ReplaceRange deletes the campaigns' rows inside [from, to] and inserts the
// fresh report rows in one transaction, so re-pulling an overlapping window
// never duplicates rows.
func (r *statsRepository) ReplaceRange(ctx context.Context, campaignIDs []int64, from, to time.Time, rows []models.StatRow) error {
	if len(campaignIDs) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	deleteQuery, deleteArgs, err := buildStatsDeleteRange(campaignIDs, from, to)
	if err != nil {
		return err
	}

	err = r.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		for _, row := range rows {
			_, err := tx.ExecContext(ctx, insertStatRow,
				row.Date, row.CampaignID, row.AdGroupID, row.AdID, row.CriterionID,
				row.Shows, row.Clicks, row.RegionID, row.Device, row.Gender,
				row.Age, row.CarrierType, row.MobilePlatform, row.Slot)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "*statsRepository.ReplaceRange").
			Int("rows", len(rows)).
			Time("from", from).
			Time("to", to).
			Msg("failed to replace stats range")
		return err
	}

	return nil
}

func (r *statsRepository) LastDate(ctx context.Context, campaignIDs []int64) (time.Time, error) {
	if len(campaignIDs) == 0 {
		return time.Time{}, nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildStatsLastDate(campaignIDs)
	if err != nil {
		return time.Time{}, err
	}

	var last sql.NullTime
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&last); err != nil {
		log.Err(err).Str("func", "*statsRepository.LastDate").Msg("failed to query last stat date")
		return time.Time{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	if !last.Valid {
		return time.Time{}, nil
	}

	return last.Time, nil
}
