package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// criterionRepository is the SQL-backed implementation of
// [CriterionRepository]. Both criterion variants share one table; the variant
// column discriminates, and unused variant fields stay NULL.
type criterionRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewCriterionRepository(db *DB, logger *logger.Logger) CriterionRepository {
	logger.Debug().Msg("creating criterion repository")
	return &criterionRepository{
		db:     db,
		logger: logger,
	}
}

func scanCriterion(scan func(dest ...any) error) (models.Criterion, error) {
	var c models.Criterion
	var (
		keywordText, strategyPriority, userParam1, userParam2 sql.NullString
		bid, contextBid                                       sql.NullInt64
		dynName                                               sql.NullString
		dynMinPrice                                           sql.NullInt64
		dynRate                                               sql.NullFloat64
	)
	err := scan(&c.ID, &c.AdGroupID, &c.Variant, &c.State, &c.Status,
		&keywordText, &bid, &contextBid, &strategyPriority, &userParam1, &userParam2,
		&dynName, &dynMinPrice, &dynRate)
	if err != nil {
		return models.Criterion{}, err
	}

	switch c.Variant {
	case models.CriterionKeyword:
		c.Keyword = &models.KeywordParams{
			Text:             keywordText.String,
			Bid:              bid.Int64,
			ContextBid:       contextBid.Int64,
			StrategyPriority: models.StrategyPriority(strategyPriority.String),
			UserParam1:       userParam1.String,
			UserParam2:       userParam2.String,
		}
	case models.CriterionDynamicTarget:
		c.DynamicTarget = &models.DynamicTargetParams{
			Name:     dynName.String,
			MinPrice: dynMinPrice.Int64,
			Rate:     dynRate.Float64,
		}
	}

	return c, nil
}

func criterionArgs(c models.Criterion) []any {
	args := []any{c.ID, c.AdGroupID, c.Variant, c.State, c.Status}
	if c.Keyword != nil {
		args = append(args, c.Keyword.Text, c.Keyword.Bid, c.Keyword.ContextBid,
			string(c.Keyword.StrategyPriority), c.Keyword.UserParam1, c.Keyword.UserParam2)
	} else {
		args = append(args, "", 0, 0, "", "", "")
	}
	if c.DynamicTarget != nil {
		args = append(args, c.DynamicTarget.Name, c.DynamicTarget.MinPrice, c.DynamicTarget.Rate)
	} else {
		args = append(args, nil, nil, nil)
	}

	return args
}

func (r *criterionRepository) ListByGroups(ctx context.Context, groupIDs ...int64) ([]models.Criterion, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildSelectIn(criterionColumns, "criteria", "ad_group_id", groupIDs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*criterionRepository.ListByGroups").Msg("failed to query criteria")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	defer rows.Close()

	var criteria []models.Criterion
	for rows.Next() {
		c, scanErr := scanCriterion(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*criterionRepository.ListByGroups").Msg("failed to scan criterion row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		criteria = append(criteria, c)
	}

	return criteria, rows.Err()
}

func (r *criterionRepository) Get(ctx context.Context, id int64) (models.Criterion, error) {
	log := logger.FromContext(ctx)

	c, err := scanCriterion(r.db.QueryRowContext(ctx, getCriterion, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Criterion{}, fmt.Errorf("%w: criterion %d", ErrEntityNotFound, id)
	}
	if err != nil {
		log.Err(err).Str("func", "*criterionRepository.Get").Int64("id", id).Msg("failed to get criterion")
		return models.Criterion{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}

	return c, nil
}

func (r *criterionRepository) Upsert(ctx context.Context, criteria ...models.Criterion) error {
	log := logger.FromContext(ctx)

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range criteria {
			if _, err := tx.ExecContext(ctx, upsertCriterion, criterionArgs(c)...); err != nil {
				log.Err(err).
					Str("func", "*criterionRepository.Upsert").
					Int64("id", c.ID).
					Msg("failed to upsert criterion")
				return fmt.Errorf("%w: criterion %d: %w", ErrExecutingStatement, c.ID, err)
			}
		}
		return nil
	})
}

func (r *criterionRepository) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteIn("criteria", ids)
	if err != nil {
		return err
	}
	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*criterionRepository.Delete").Ints64("ids", ids).Msg("failed to delete criteria")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return nil
}

func (r *criterionRepository) SetState(ctx context.Context, state models.State, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildSetState("criteria", state, ids)
	if err != nil {
		return err
	}
	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*criterionRepository.SetState").Str("state", string(state)).Msg("failed to set criterion state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return nil
}

// SyncRecords scopes to the keyword variant: dynamic targets are report-only
// and never enter the push pipeline.
func (r *criterionRepository) SyncRecords(ctx context.Context, login string) ([]models.SyncRecord, error) {
	return r.db.querySyncRecords(ctx, models.KindCriterion, true, criterionSyncRecords, login, string(models.CriterionKeyword))
}

func (r *criterionRepository) Remap(ctx context.Context, oldID, newID int64) error {
	return r.db.remap(ctx, criterionRemapSpec, oldID, newID)
}

// EnsureStubs inserts minimal keyword rows for report-referenced criterion
// ids unknown to the replica, so every stat row joins to a criterion. The
// stub carries the unknown status and an empty phrase.
func (r *criterionRepository) EnsureStubs(ctx context.Context, groupID int64, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			_, err := tx.ExecContext(ctx, insertCriterionStub,
				id, groupID, string(models.CriterionKeyword),
				string(models.StateUnknown), string(models.StatusUnknown))
			if err != nil {
				log.Err(err).
					Str("func", "*criterionRepository.EnsureStubs").
					Int64("id", id).
					Msg("failed to insert criterion stub")
				return fmt.Errorf("%w: stub %d: %w", ErrExecutingStatement, id, err)
			}
		}
		return nil
	})
}
