package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// adGroupRepository is the SQL-backed implementation of [AdGroupRepository].
// Negative keywords live in their own table keyed by (ad_group_id, text) and
// are replaced wholesale, never edited row by row.
type adGroupRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewAdGroupRepository(db *DB, logger *logger.Logger) AdGroupRepository {
	logger.Debug().Msg("creating ad group repository")
	return &adGroupRepository{
		db:     db,
		logger: logger,
	}
}

func scanAdGroup(scan func(dest ...any) error) (models.AdGroup, error) {
	var g models.AdGroup
	var regionIDs string
	err := scan(&g.ID, &g.CampaignID, &g.Name, &g.State, &g.Status, &g.ServingStatus, &regionIDs)
	if err != nil {
		return models.AdGroup{}, err
	}
	g.RegionIDs = splitIDs(regionIDs)

	return g, nil
}

func (r *adGroupRepository) ListByCampaigns(ctx context.Context, campaignIDs ...int64) ([]models.AdGroup, error) {
	if len(campaignIDs) == 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildSelectIn(groupColumns, "ad_groups", "campaign_id", campaignIDs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*adGroupRepository.ListByCampaigns").Msg("failed to query ad groups")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	defer rows.Close()

	var groups []models.AdGroup
	for rows.Next() {
		g, scanErr := scanAdGroup(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*adGroupRepository.ListByCampaigns").Msg("failed to scan ad group row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

func (r *adGroupRepository) Get(ctx context.Context, id int64) (models.AdGroup, error) {
	log := logger.FromContext(ctx)

	g, err := scanAdGroup(r.db.QueryRowContext(ctx, getAdGroup, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AdGroup{}, fmt.Errorf("%w: ad group %d", ErrEntityNotFound, id)
	}
	if err != nil {
		log.Err(err).Str("func", "*adGroupRepository.Get").Int64("id", id).Msg("failed to get ad group")
		return models.AdGroup{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}

	return g, nil
}

func (r *adGroupRepository) Upsert(ctx context.Context, groups ...models.AdGroup) error {
	log := logger.FromContext(ctx)

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, g := range groups {
			_, err := tx.ExecContext(ctx, upsertAdGroup,
				g.ID, g.CampaignID, g.Name, g.State, g.Status, g.ServingStatus, joinIDs(g.RegionIDs))
			if err != nil {
				log.Err(err).
					Str("func", "*adGroupRepository.Upsert").
					Int64("id", g.ID).
					Msg("failed to upsert ad group")
				return fmt.Errorf("%w: ad group %d: %w", ErrExecutingStatement, g.ID, err)
			}
		}
		return nil
	})
}

// Delete removes group rows and their negative keyword sets in one
// transaction. Ads and criteria of the groups must have been deleted first;
// the pusher's delete ordering guarantees that.
func (r *adGroupRepository) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteIn("ad_groups", ids)
	if err != nil {
		return err
	}

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			if _, err = tx.ExecContext(ctx, deleteNegativesForGroup, id); err != nil {
				log.Err(err).Str("func", "*adGroupRepository.Delete").Int64("id", id).Msg("failed to delete negative keywords")
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "*adGroupRepository.Delete").Ints64("ids", ids).Msg("failed to delete ad groups")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
}

func (r *adGroupRepository) SetState(ctx context.Context, state models.State, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildSetState("ad_groups", state, ids)
	if err != nil {
		return err
	}
	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*adGroupRepository.SetState").Str("state", string(state)).Msg("failed to set ad group state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return nil
}

func (r *adGroupRepository) RemoteIDs(ctx context.Context, login string) ([]int64, error) {
	return r.db.queryIDs(ctx, groupRemoteIDs, login)
}

func (r *adGroupRepository) SyncRecords(ctx context.Context, login string) ([]models.SyncRecord, error) {
	return r.db.querySyncRecords(ctx, models.KindAdGroup, true, groupSyncRecords, login)
}

func (r *adGroupRepository) Remap(ctx context.Context, oldID, newID int64) error {
	return r.db.remap(ctx, groupRemapSpec, oldID, newID)
}

// ReplaceNegatives swaps the whole set under one group. Delete-and-reinsert
// keeps the (group, text) identity invariant without diffing.
func (r *adGroupRepository) ReplaceNegatives(ctx context.Context, groupID int64, negatives []models.NegativeKeyword) error {
	log := logger.FromContext(ctx)

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteNegativesForGroup, groupID); err != nil {
			log.Err(err).Str("func", "*adGroupRepository.ReplaceNegatives").Int64("group_id", groupID).Msg("failed to clear negative keywords")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		for _, n := range negatives {
			if _, err := tx.ExecContext(ctx, insertNegativeKeyword, groupID, n.Text); err != nil {
				log.Err(err).Str("func", "*adGroupRepository.ReplaceNegatives").Int64("group_id", groupID).Msg("failed to insert negative keyword")
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
}

func (r *adGroupRepository) NegativesFor(ctx context.Context, groupIDs ...int64) (map[int64][]models.NegativeKeyword, error) {
	if len(groupIDs) == 0 {
		return map[int64][]models.NegativeKeyword{}, nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildNegativesFor(groupIDs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*adGroupRepository.NegativesFor").Msg("failed to query negative keywords")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	defer rows.Close()

	result := make(map[int64][]models.NegativeKeyword, len(groupIDs))
	for rows.Next() {
		var n models.NegativeKeyword
		if err = rows.Scan(&n.AdGroupID, &n.Text); err != nil {
			log.Err(err).Str("func", "*adGroupRepository.NegativesFor").Msg("failed to scan negative keyword row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		result[n.AdGroupID] = append(result[n.AdGroupID], n)
	}

	return result, rows.Err()
}
