package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// regionRepository is the SQL-backed implementation of [RegionRepository].
// The dictionary is small and shared across accounts, so a changed dictionary
// checkpoint replaces the whole table.
type regionRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewRegionRepository(db *DB, logger *logger.Logger) RegionRepository {
	logger.Debug().Msg("creating region repository")
	return &regionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *regionRepository) List(ctx context.Context) ([]models.Region, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listRegions)
	if err != nil {
		log.Err(err).Str("func", "*regionRepository.List").Msg("failed to query regions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	defer rows.Close()

	var regions []models.Region
	for rows.Next() {
		var reg models.Region
		if err = rows.Scan(&reg.ID, &reg.Name, &reg.Type, &reg.ParentID); err != nil {
			log.Err(err).Str("func", "*regionRepository.List").Msg("failed to scan region row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		regions = append(regions, reg)
	}

	return regions, rows.Err()
}

func (r *regionRepository) ReplaceAll(ctx context.Context, regions []models.Region) error {
	log := logger.FromContext(ctx)

	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteAllRegions); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		for _, reg := range regions {
			if _, err := tx.ExecContext(ctx, insertRegion, reg.ID, reg.Name, reg.Type, reg.ParentID); err != nil {
				return fmt.Errorf("%w: region %d: %w", ErrExecutingStatement, reg.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*regionRepository.ReplaceAll").Int("count", len(regions)).Msg("failed to replace region dictionary")
		return err
	}

	return nil
}
