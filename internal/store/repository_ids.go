// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
)

// placeholderIDs is the SQL-backed implementation of [PlaceholderIDs]. A
// single-row sequence table is decremented atomically, so concurrent
// allocations never collide and remapped ids are never handed out again.
type placeholderIDs struct {
	logger *logger.Logger
	db     *DB
}

func NewPlaceholderIDs(db *DB, logger *logger.Logger) PlaceholderIDs {
	logger.Debug().Msg("creating placeholder id allocator")
	return &placeholderIDs{
		db:     db,
		logger: logger,
	}
}

func (p *placeholderIDs) Next(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	var id int64
	if err := p.db.QueryRowContext(ctx, nextPlaceholderID).Scan(&id); err != nil {
		log.Err(err).Str("func", "*placeholderIDs.Next").Msg("failed to allocate placeholder id")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, p.db.classify(err))
	}

	return id, nil
}
