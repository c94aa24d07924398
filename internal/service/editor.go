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

// fieldCreated is the change-log field name of the birth entry of a locally
// created record.
const fieldCreated = "created"

// replicaEditor implements [ReplicaEditor]. Every mutation goes through it:
// the record write and the change-log append always travel together, because
// the classifier trusts the log alone.
type replicaEditor struct {
	store  *store.Storages
	logger *logger.Logger
}

func NewReplicaEditor(storages *store.Storages, log *logger.Logger) ReplicaEditor {
	log.Debug().Msg("creating replica editor")
	return &replicaEditor{
		store:  storages,
		logger: log,
	}
}

func (e *replicaEditor) CreateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	id, err := e.store.PlaceholderIDs.Next(ctx)
	if err != nil {
		return models.Campaign{}, fmt.Errorf("create campaign: %w", err)
	}
	c.ID = id
	if c.State == "" {
		c.State = models.StateOff
	}
	if c.Status == "" {
		c.Status = models.StatusDraft
	}
	if c.Type == "" {
		c.Type = "TEXT_CAMPAIGN"
	}

	if err = e.store.Campaigns.Upsert(ctx, c); err != nil {
		return models.Campaign{}, fmt.Errorf("create campaign: %w", err)
	}
	if err = e.logChange(ctx, models.KindCampaign, c.ID, fieldCreated); err != nil {
		return models.Campaign{}, err
	}

	return c, nil
}

func (e *replicaEditor) CreateAdGroup(ctx context.Context, g models.AdGroup) (models.AdGroup, error) {
	id, err := e.store.PlaceholderIDs.Next(ctx)
	if err != nil {
		return models.AdGroup{}, fmt.Errorf("create ad group: %w", err)
	}
	g.ID = id
	if g.Status == "" {
		g.Status = models.StatusDraft
	}

	if err = e.store.AdGroups.Upsert(ctx, g); err != nil {
		return models.AdGroup{}, fmt.Errorf("create ad group: %w", err)
	}
	if err = e.logChange(ctx, models.KindAdGroup, g.ID, fieldCreated); err != nil {
		return models.AdGroup{}, err
	}

	return g, nil
}

func (e *replicaEditor) CreateAd(ctx context.Context, a models.Ad) (models.Ad, error) {
	id, err := e.store.PlaceholderIDs.Next(ctx)
	if err != nil {
		return models.Ad{}, fmt.Errorf("create ad: %w", err)
	}
	a.ID = id
	if a.State == "" {
		a.State = models.StateOff
	}
	if a.Status == "" {
		a.Status = models.StatusDraft
	}

	if err = e.store.Ads.Upsert(ctx, a); err != nil {
		return models.Ad{}, fmt.Errorf("create ad: %w", err)
	}
	if err = e.logChange(ctx, models.KindAd, a.ID, fieldCreated); err != nil {
		return models.Ad{}, err
	}

	return a, nil
}

func (e *replicaEditor) CreateKeyword(ctx context.Context, c models.Criterion) (models.Criterion, error) {
	if c.Variant == "" {
		c.Variant = models.CriterionKeyword
	}
	if !c.Pushable() {
		return models.Criterion{}, fmt.Errorf("%w: only the keyword variant can be created locally", ErrUnknownKind)
	}

	id, err := e.store.PlaceholderIDs.Next(ctx)
	if err != nil {
		return models.Criterion{}, fmt.Errorf("create keyword: %w", err)
	}
	c.ID = id
	if c.State == "" {
		c.State = models.StateOff
	}
	if c.Status == "" {
		c.Status = models.StatusDraft
	}

	if err = e.store.Criteria.Upsert(ctx, c); err != nil {
		return models.Criterion{}, fmt.Errorf("create keyword: %w", err)
	}
	if err = e.logChange(ctx, models.KindCriterion, c.ID, fieldCreated); err != nil {
		return models.Criterion{}, err
	}

	return c, nil
}

func (e *replicaEditor) UpdateCampaign(ctx context.Context, c models.Campaign, changedFields ...string) error {
	existing, err := e.store.Campaigns.Get(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if existing.State == models.StateDeletePending {
		return fmt.Errorf("%w: campaign %d", ErrDeletePending, c.ID)
	}

	if err = e.store.Campaigns.Upsert(ctx, c); err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}

	return e.logChange(ctx, models.KindCampaign, c.ID, changedFields...)
}

func (e *replicaEditor) UpdateAdGroup(ctx context.Context, g models.AdGroup, changedFields ...string) error {
	existing, err := e.store.AdGroups.Get(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("update ad group: %w", err)
	}
	if existing.State == models.StateDeletePending {
		return fmt.Errorf("%w: ad group %d", ErrDeletePending, g.ID)
	}

	if err = e.store.AdGroups.Upsert(ctx, g); err != nil {
		return fmt.Errorf("update ad group: %w", err)
	}

	return e.logChange(ctx, models.KindAdGroup, g.ID, changedFields...)
}

func (e *replicaEditor) UpdateAd(ctx context.Context, a models.Ad, changedFields ...string) error {
	existing, err := e.store.Ads.Get(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("update ad: %w", err)
	}
	if existing.State == models.StateDeletePending {
		return fmt.Errorf("%w: ad %d", ErrDeletePending, a.ID)
	}

	if err = e.store.Ads.Upsert(ctx, a); err != nil {
		return fmt.Errorf("update ad: %w", err)
	}

	return e.logChange(ctx, models.KindAd, a.ID, changedFields...)
}

func (e *replicaEditor) UpdateKeyword(ctx context.Context, c models.Criterion, changedFields ...string) error {
	existing, err := e.store.Criteria.Get(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("update keyword: %w", err)
	}
	if existing.State == models.StateDeletePending {
		return fmt.Errorf("%w: criterion %d", ErrDeletePending, c.ID)
	}

	if err = e.store.Criteria.Upsert(ctx, c); err != nil {
		return fmt.Errorf("update keyword: %w", err)
	}

	return e.logChange(ctx, models.KindCriterion, c.ID, changedFields...)
}

func (e *replicaEditor) SetState(ctx context.Context, ref models.EntityRef, state models.State) error {
	if state == models.StateDeletePending {
		return e.MarkDeleted(ctx, ref)
	}

	var err error
	switch ref.Kind {
	case models.KindCampaign:
		err = e.store.Campaigns.SetState(ctx, state, ref.ID)
	case models.KindAdGroup:
		err = e.store.AdGroups.SetState(ctx, state, ref.ID)
	case models.KindAd:
		err = e.store.Ads.SetState(ctx, state, ref.ID)
	case models.KindCriterion:
		err = e.store.Criteria.SetState(ctx, state, ref.ID)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, ref.Kind)
	}
	if err != nil {
		return fmt.Errorf("set state of %s %d: %w", ref.Kind, ref.ID, err)
	}

	return e.logChange(ctx, ref.Kind, ref.ID, models.FieldState)
}

// MarkDeleted sets the delete-pending state on the record and cascades the
// mark down the hierarchy, so the push delete phase sees every doomed record
// explicitly instead of relying on the platform's remote cascade.
func (e *replicaEditor) MarkDeleted(ctx context.Context, ref models.EntityRef) error {
	log := logger.FromContext(ctx)

	switch ref.Kind {
	case models.KindCampaign:
		groups, err := e.store.AdGroups.ListByCampaigns(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("mark campaign deleted: %w", err)
		}
		for _, g := range groups {
			if err = e.MarkDeleted(ctx, models.EntityRef{Kind: models.KindAdGroup, ID: g.ID}); err != nil {
				return err
			}
		}
		if err = e.store.Campaigns.SetState(ctx, models.StateDeletePending, ref.ID); err != nil {
			return fmt.Errorf("mark campaign deleted: %w", err)
		}

	case models.KindAdGroup:
		ads, err := e.store.Ads.ListByGroups(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("mark ad group deleted: %w", err)
		}
		for _, a := range ads {
			if err = e.store.Ads.SetState(ctx, models.StateDeletePending, a.ID); err != nil {
				return fmt.Errorf("mark ad group deleted: %w", err)
			}
			if err = e.logChange(ctx, models.KindAd, a.ID, models.FieldState); err != nil {
				return err
			}
		}
		criteria, err := e.store.Criteria.ListByGroups(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("mark ad group deleted: %w", err)
		}
		for _, c := range criteria {
			if err = e.store.Criteria.SetState(ctx, models.StateDeletePending, c.ID); err != nil {
				return fmt.Errorf("mark ad group deleted: %w", err)
			}
			if err = e.logChange(ctx, models.KindCriterion, c.ID, models.FieldState); err != nil {
				return err
			}
		}
		if err = e.store.AdGroups.SetState(ctx, models.StateDeletePending, ref.ID); err != nil {
			return fmt.Errorf("mark ad group deleted: %w", err)
		}

	case models.KindAd:
		if err := e.store.Ads.SetState(ctx, models.StateDeletePending, ref.ID); err != nil {
			return fmt.Errorf("mark ad deleted: %w", err)
		}

	case models.KindCriterion:
		if err := e.store.Criteria.SetState(ctx, models.StateDeletePending, ref.ID); err != nil {
			return fmt.Errorf("mark criterion deleted: %w", err)
		}

	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, ref.Kind)
	}

	log.Debug().
		Str("func", "replicaEditor.MarkDeleted").
		Str("kind", string(ref.Kind)).
		Int64("id", ref.ID).
		Msg("marked for deletion")

	return e.logChange(ctx, ref.Kind, ref.ID, models.FieldState)
}

func (e *replicaEditor) ReplaceNegativeKeywords(ctx context.Context, groupID int64, texts []string) error {
	group, err := e.store.AdGroups.Get(ctx, groupID)
	if err != nil {
		return fmt.Errorf("replace negative keywords: %w", err)
	}
	if group.State == models.StateDeletePending {
		return fmt.Errorf("%w: ad group %d", ErrDeletePending, groupID)
	}

	negatives := make([]models.NegativeKeyword, 0, len(texts))
	for _, text := range texts {
		negatives = append(negatives, models.NegativeKeyword{AdGroupID: groupID, Text: text})
	}

	if err = e.store.AdGroups.ReplaceNegatives(ctx, groupID, negatives); err != nil {
		return fmt.Errorf("replace negative keywords: %w", err)
	}

	return e.logChange(ctx, models.KindAdGroup, groupID, fieldNegativeKeywords)
}

func (e *replicaEditor) logChange(ctx context.Context, kind models.EntityKind, id int64, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	now := time.Now().UTC()
	entries := make([]models.ChangeLogEntry, 0, len(fields))
	for _, field := range fields {
		entries = append(entries, models.ChangeLogEntry{
			Kind:      kind,
			EntityID:  id,
			Field:     field,
			Origin:    models.OriginLocal,
			ChangedAt: now,
		})
	}

	if err := e.store.ChangeLog.Append(ctx, entries...); err != nil {
		return fmt.Errorf("append change log: %w", err)
	}

	return nil
}
