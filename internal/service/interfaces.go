// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service implements the reconciliation pipeline: change detection
// against remote server timestamps, pulling remote truth into the replica,
// classifying locally dirty records by the push operation they need, and the
// ordered push with placeholder-id remapping. The engine drives one full
// cycle per account and advances the checkpoint only after a clean cycle.
package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ChangeDetector asks the platform what changed since the account's
// checkpoint. It never mutates the replica.
type ChangeDetector interface {
	Detect(ctx context.Context, s adapter.Session, cp models.Checkpoint) (models.ChangeSet, error)
}

// RemoteLoader pulls the records named by a change set and overwrites the
// replica with remote truth. Loading is idempotent: re-applying the same
// change set converges to the same replica state.
type RemoteLoader interface {
	Load(ctx context.Context, s adapter.Session, login string, cs models.ChangeSet) error
}

// Classifier partitions the account's records by the push operation they
// need, judging only by change-log entries after since, never by comparing
// field values.
type Classifier interface {
	Classify(ctx context.Context, login string, since time.Time) (map[models.EntityKind]models.ClassifiedSet, error)
}

// Pusher applies classified local changes to the platform in dependency
// order and remaps placeholder ids after each successful create.
type Pusher interface {
	Push(ctx context.Context, s adapter.Session, login string, sets map[models.EntityKind]models.ClassifiedSet) error
}

// StatsService pulls batch statistics reports into the replica.
type StatsService interface {
	Pull(ctx context.Context, s adapter.Session, login string) error
}

// BidService pushes the replica's keyword bids through the bid endpoint.
type BidService interface {
	PushBids(ctx context.Context, s adapter.Session, login string) error
}

// ReplicaEditor is the local write API: it allocates placeholder ids for new
// records, appends the change-log entries the classifier feeds on, and
// cascades delete-pending marks down the hierarchy.
type ReplicaEditor interface {
	CreateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error)
	CreateAdGroup(ctx context.Context, g models.AdGroup) (models.AdGroup, error)
	CreateAd(ctx context.Context, a models.Ad) (models.Ad, error)
	CreateKeyword(ctx context.Context, c models.Criterion) (models.Criterion, error)

	// UpdateCampaign persists the record and logs the named changed fields.
	UpdateCampaign(ctx context.Context, c models.Campaign, changedFields ...string) error
	UpdateAdGroup(ctx context.Context, g models.AdGroup, changedFields ...string) error
	UpdateAd(ctx context.Context, a models.Ad, changedFields ...string) error
	UpdateKeyword(ctx context.Context, c models.Criterion, changedFields ...string) error

	// SetState records an operational state change (on, off, archived).
	SetState(ctx context.Context, ref models.EntityRef, state models.State) error

	// MarkDeleted sets the delete-pending state on the record and everything
	// under it.
	MarkDeleted(ctx context.Context, ref models.EntityRef) error

	// ReplaceNegativeKeywords swaps an ad group's negative phrase set and
	// marks the group's embedded children dirty.
	ReplaceNegativeKeywords(ctx context.Context, groupID int64, texts []string) error
}

// SyncEngine runs reconciliation cycles.
type SyncEngine interface {
	// SyncAll cycles every active account and returns the first error after
	// attempting all of them.
	SyncAll(ctx context.Context) error

	// SyncAccount runs one full cycle for the account. Concurrent cycles for
	// the same account are serialised.
	SyncAccount(ctx context.Context, login string) error
}

// SyncJob periodically triggers SyncEngine.SyncAll until stopped.
type SyncJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}
