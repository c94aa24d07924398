// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists the local replica: the campaign hierarchy, the
// append-only change log, per-account checkpoints, the region dictionary and
// pulled statistics. Two backends share one repository implementation:
// PostgreSQL (pgx) for a served replica and SQLite for an embedded
// single-file one.
package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-ads-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// AccountRepository manages the advertising accounts the engine serves.
type AccountRepository interface {
	// ListActive returns the non-disabled accounts in login order.
	ListActive(ctx context.Context) ([]models.Account, error)
	Get(ctx context.Context, login string) (models.Account, error)
	Upsert(ctx context.Context, account models.Account) error
}

// CheckpointRepository persists per-account sync checkpoints. Get returns the
// zero Checkpoint (NeverSynced) when the account has none yet.
type CheckpointRepository interface {
	Get(ctx context.Context, login string) (models.Checkpoint, error)
	Save(ctx context.Context, cp models.Checkpoint) error
}

// CampaignRepository manages campaign rows of the replica.
type CampaignRepository interface {
	ListByLogin(ctx context.Context, login string) ([]models.Campaign, error)
	Get(ctx context.Context, id int64) (models.Campaign, error)
	Upsert(ctx context.Context, campaigns ...models.Campaign) error
	Delete(ctx context.Context, ids ...int64) error
	SetState(ctx context.Context, state models.State, ids ...int64) error

	// RemoteIDs returns the account's non-placeholder campaign ids, the set
	// an existence check runs over.
	RemoteIDs(ctx context.Context, login string) ([]int64, error)

	// SyncRecords returns the flat classifier view of every campaign of the
	// account.
	SyncRecords(ctx context.Context, login string) ([]models.SyncRecord, error)

	// Remap rewrites a placeholder id to the remote-assigned one in a single
	// transaction: a copy of the row is inserted under newID, child ad groups
	// and change-log entries are re-pointed, and the placeholder row is
	// deleted.
	Remap(ctx context.Context, oldID, newID int64) error
}

// AdGroupRepository manages ad group rows and their embedded negative
// keyword sets.
type AdGroupRepository interface {
	ListByCampaigns(ctx context.Context, campaignIDs ...int64) ([]models.AdGroup, error)
	Get(ctx context.Context, id int64) (models.AdGroup, error)
	Upsert(ctx context.Context, groups ...models.AdGroup) error
	Delete(ctx context.Context, ids ...int64) error
	SetState(ctx context.Context, state models.State, ids ...int64) error
	RemoteIDs(ctx context.Context, login string) ([]int64, error)
	SyncRecords(ctx context.Context, login string) ([]models.SyncRecord, error)
	Remap(ctx context.Context, oldID, newID int64) error

	// ReplaceNegatives swaps the whole negative-keyword set of one group.
	// Identity is the (group, text) pair, so partial edits are expressed as
	// delete-and-reinsert of the full set.
	ReplaceNegatives(ctx context.Context, groupID int64, negatives []models.NegativeKeyword) error
	NegativesFor(ctx context.Context, groupIDs ...int64) (map[int64][]models.NegativeKeyword, error)
}

// AdRepository manages ad rows.
type AdRepository interface {
	ListByGroups(ctx context.Context, groupIDs ...int64) ([]models.Ad, error)
	Get(ctx context.Context, id int64) (models.Ad, error)
	Upsert(ctx context.Context, ads ...models.Ad) error
	Delete(ctx context.Context, ids ...int64) error
	SetState(ctx context.Context, state models.State, ids ...int64) error
	RemoteIDs(ctx context.Context, login string) ([]int64, error)
	SyncRecords(ctx context.Context, login string) ([]models.SyncRecord, error)
	Remap(ctx context.Context, oldID, newID int64) error
}

// CriterionRepository manages targeting criterion rows (keywords and
// report-only dynamic targets).
type CriterionRepository interface {
	ListByGroups(ctx context.Context, groupIDs ...int64) ([]models.Criterion, error)
	Get(ctx context.Context, id int64) (models.Criterion, error)
	Upsert(ctx context.Context, criteria ...models.Criterion) error
	Delete(ctx context.Context, ids ...int64) error
	SetState(ctx context.Context, state models.State, ids ...int64) error
	SyncRecords(ctx context.Context, login string) ([]models.SyncRecord, error)
	Remap(ctx context.Context, oldID, newID int64) error

	// EnsureStubs inserts minimal keyword rows for criterion ids a report
	// referenced but the replica does not know, so that stats rows always
	// join to a criterion.
	EnsureStubs(ctx context.Context, groupID int64, ids ...int64) error
}

// RegionRepository manages the shared geographic dictionary.
type RegionRepository interface {
	List(ctx context.Context) ([]models.Region, error)
	ReplaceAll(ctx context.Context, regions []models.Region) error
}

// ChangeLogRepository manages the append-only field mutation history.
type ChangeLogRepository interface {
	Append(ctx context.Context, entries ...models.ChangeLogEntry) error

	// FieldsSince returns, per entity id, the distinct locally-originated
	// field names logged at or after since. An empty ids slice scopes the
	// query to every entity of the kind.
	FieldsSince(ctx context.Context, kind models.EntityKind, since time.Time, ids ...int64) (map[int64][]string, error)
}

// StatsRepository manages pulled report rows.
type StatsRepository interface {
	// ReplaceRange idempotently re-applies a pulled report: rows of the given
	// campaigns within [from, to] are deleted and the fresh rows inserted in
	// one transaction.
	ReplaceRange(ctx context.Context, campaignIDs []int64, from, to time.Time, rows []models.StatRow) error

	// LastDate returns the newest stored stat date of the campaigns, or the
	// zero time when none exist.
	LastDate(ctx context.Context, campaignIDs []int64) (time.Time, error)
}

// PlaceholderIDs mints locally-unique negative identifiers for records
// created before their first push. Ids decrease monotonically and are never
// reused, remapped placeholders included.
type PlaceholderIDs interface {
	Next(ctx context.Context) (int64, error)
}
