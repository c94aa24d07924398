// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// remapSpec describes how one entity table rewrites a placeholder id to the
// remote-assigned one: the row-copy insert plus the reparent updates of every
// table referencing it.
type remapSpec struct {
	table    string
	kind     models.EntityKind
	copyRow  string
	reparent []string
}

var (
	campaignRemapSpec = remapSpec{
		table:    "campaigns",
		kind:     models.KindCampaign,
		copyRow:  remapCopyCampaign,
		reparent: []string{remapGroupsParent},
	}

	groupRemapSpec = remapSpec{
		table:    "ad_groups",
		kind:     models.KindAdGroup,
		copyRow:  remapCopyGroup,
		reparent: []string{remapAdsParent, remapCriteriaParent, remapNegativesParent},
	}

	adRemapSpec = remapSpec{
		table:   "ads",
		kind:    models.KindAd,
		copyRow: remapCopyAd,
	}

	criterionRemapSpec = remapSpec{
		table:   "criteria",
		kind:    models.KindCriterion,
		copyRow: remapCopyCriterion,
	}
)

// remap runs the full id rewrite in one transaction. The old row is deleted,
// never updated in place, so a crash mid-remap leaves either the old id or
// the new one, never both. The usual source is a placeholder after a create;
// updates answered with a replacement id go through the same path.
func (db *DB) remap(ctx context.Context, spec remapSpec, oldID, newID int64) error {
	log := logger.FromContext(ctx)

	err := db.inTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, fmt.Sprintf(remapTargetExists, spec.table), newID).Scan(&count); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s id %d", ErrRemapTargetExists, spec.table, newID)
		}

		res, err := tx.ExecContext(ctx, spec.copyRow, newID, oldID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return fmt.Errorf("%w: %s id %d", ErrEntityNotFound, spec.table, oldID)
		}

		for _, query := range spec.reparent {
			if _, err = tx.ExecContext(ctx, query, newID, oldID); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		if _, err = tx.ExecContext(ctx, remapChangeLog, newID, oldID, string(spec.kind)); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if _, err = tx.ExecContext(ctx, fmt.Sprintf(remapDelete, spec.table), oldID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "DB.remap").
			Str("table", spec.table).
			Int64("old_id", oldID).
			Int64("new_id", newID).
			Msg("failed to remap placeholder id")
		return err
	}

	return nil
}
