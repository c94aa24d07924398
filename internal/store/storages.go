package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/config"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
)

// Storages aggregates every repository of the replica behind one value, so
// the service layer receives a single dependency.
type Storages struct {
	Accounts       AccountRepository
	Checkpoints    CheckpointRepository
	Campaigns      CampaignRepository
	AdGroups       AdGroupRepository
	Ads            AdRepository
	Criteria       CriterionRepository
	Regions        RegionRepository
	ChangeLog      ChangeLogRepository
	Stats          StatsRepository
	PlaceholderIDs PlaceholderIDs
}

// NewStorages wires all repositories over one database connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		Accounts:       NewAccountRepository(db, log),
		Checkpoints:    NewCheckpointRepository(db, log),
		Campaigns:      NewCampaignRepository(db, log),
		AdGroups:       NewAdGroupRepository(db, log),
		Ads:            NewAdRepository(db, log),
		Criteria:       NewCriterionRepository(db, log),
		Regions:        NewRegionRepository(db, log),
		ChangeLog:      NewChangeLogRepository(db, log),
		Stats:          NewStatsRepository(db, log),
		PlaceholderIDs: NewPlaceholderIDs(db, log),
	}
}

// Connect opens the backend selected by cfg.Driver.
func Connect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Driver {
	case "pgx":
		return NewConnectPostgres(ctx, cfg, log)
	case "sqlite3":
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownDBDriver, cfg.Driver)
	}
}
