package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-ads-sync/models"
)

// joinIDs serialises an id slice into the TEXT column format shared by both
// backends.
func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}

	return strings.Join(parts, ",")
}

func splitIDs(s string) []int64 {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids
}

// queryIDs runs a single-column id query.
func (db *DB) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, db.classify(err))
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// querySyncRecords runs a (id, parent_id?, state, status) query and tags each
// row with the kind. withParent distinguishes the campaign query, which has
// no parent column.
func (db *DB) querySyncRecords(ctx context.Context, kind models.EntityKind, withParent bool, query string, args ...any) ([]models.SyncRecord, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, db.classify(err))
	}
	defer rows.Close()

	var records []models.SyncRecord
	for rows.Next() {
		rec := models.SyncRecord{Kind: kind}
		if withParent {
			err = rows.Scan(&rec.ID, &rec.ParentID, &rec.State, &rec.Status)
		} else {
			err = rows.Scan(&rec.ID, &rec.State, &rec.Status)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
