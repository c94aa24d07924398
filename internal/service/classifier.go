// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/store"
	"github.com/MKhiriev/go-ads-sync/models"
)

// fieldNegativeKeywords is the change-log field name logged when an ad
// group's embedded negative phrase set changes. It marks the group
// child-dirty: the whole group body is resent even if the group's own fields
// are clean.
const fieldNegativeKeywords = "negative_keywords"

// classifier implements [Classifier]. The decision tree, in precedence order:
//
//  1. delete-pending state wins over everything;
//  2. a placeholder id means the record was never pushed: create it;
//  3. no locally-originated log entries in the window: skip;
//  4. only the state field logged: a bulk suspend/resume call suffices;
//  5. anything else: full content update.
//
// Ad groups never classify state-only: the platform has no group state
// transition, so any dirty group is a content update.
type classifier struct {
	store  *store.Storages
	logger *logger.Logger
}

func NewClassifier(storages *store.Storages, log *logger.Logger) Classifier {
	log.Debug().Msg("creating classifier")
	return &classifier{
		store:  storages,
		logger: log,
	}
}

func (c *classifier) Classify(ctx context.Context, login string, since time.Time) (map[models.EntityKind]models.ClassifiedSet, error) {
	log := logger.FromContext(ctx)

	kinds := []struct {
		kind    models.EntityKind
		records func(context.Context, string) ([]models.SyncRecord, error)
	}{
		{models.KindCampaign, c.store.Campaigns.SyncRecords},
		{models.KindAdGroup, c.store.AdGroups.SyncRecords},
		{models.KindAd, c.store.Ads.SyncRecords},
		{models.KindCriterion, c.store.Criteria.SyncRecords},
	}

	result := make(map[models.EntityKind]models.ClassifiedSet, len(kinds))
	for _, entry := range kinds {
		records, err := entry.records(ctx, login)
		if err != nil {
			return nil, fmt.Errorf("classify %s: load records: %w", entry.kind, err)
		}

		fields, err := c.store.ChangeLog.FieldsSince(ctx, entry.kind, since)
		if err != nil {
			return nil, fmt.Errorf("classify %s: load change log window: %w", entry.kind, err)
		}

		set := models.ClassifiedSet{}
		for _, rec := range records {
			switch ClassifyRecord(rec, fields[rec.ID]) {
			case models.ClassNew:
				set.New = append(set.New, rec)
			case models.ClassContentChanged:
				rec.ChildDirty = containsField(fields[rec.ID], fieldNegativeKeywords)
				set.ContentChanged = append(set.ContentChanged, rec)
			case models.ClassStateOnly:
				set.StateOnly = append(set.StateOnly, rec)
			case models.ClassPendingDelete:
				set.PendingDelete = append(set.PendingDelete, rec)
			}
		}
		result[entry.kind] = set

		log.Debug().
			Str("func", "classifier.Classify").
			Str("kind", string(entry.kind)).
			Int("new", len(set.New)).
			Int("content_changed", len(set.ContentChanged)).
			Int("state_only", len(set.StateOnly)).
			Int("pending_delete", len(set.PendingDelete)).
			Msg("classified records")
	}

	return result, nil
}

// ClassifyRecord decides the push operation for one record given the
// locally-originated field names logged in the window. It judges only by the
// log, never by comparing current field values.
func ClassifyRecord(rec models.SyncRecord, changedFields []string) models.ChangeClass {
	if rec.State == models.StateDeletePending {
		return models.ClassPendingDelete
	}
	if models.IsPlaceholderID(rec.ID) {
		return models.ClassNew
	}
	if len(changedFields) == 0 && !rec.ChildDirty {
		return models.ClassUnchanged
	}

	stateOnly := !rec.ChildDirty && len(changedFields) > 0
	for _, field := range changedFields {
		if field != models.FieldState {
			stateOnly = false
			break
		}
	}
	if stateOnly {
		// groups have no remote state transition; resend the whole body
		if rec.Kind == models.KindAdGroup {
			return models.ClassContentChanged
		}
		return models.ClassStateOnly
	}

	return models.ClassContentChanged
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
