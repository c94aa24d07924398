// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/store"
	"github.com/MKhiriev/go-ads-sync/models"
)

// pusher implements [Pusher]. Kinds are processed parent-first (campaigns,
// groups, ads, keywords) through an explicit per-kind handler table; within
// one kind the order is create, update, state, delete. Two hooks interleave:
// pending descendant deletes are flushed before a campaign or group delete
// (deleting the parent would orphan them remotely), and draft ads are
// submitted to moderation only once their keywords exist on the platform.
type pusher struct {
	api    adapter.PlatformAPI
	store  *store.Storages
	logger *logger.Logger
}

func NewPusher(api adapter.PlatformAPI, storages *store.Storages, log *logger.Logger) Pusher {
	log.Debug().Msg("creating pusher")
	return &pusher{
		api:    api,
		store:  storages,
		logger: log,
	}
}

// kindHandler binds one hierarchy level to its push operations. The table is
// explicit: each kind names its own typed create/update/delete functions
// instead of dispatching through reflection.
type kindHandler struct {
	kind   models.EntityKind
	create func(ctx context.Context, s adapter.Session, recs []models.SyncRecord) error
	update func(ctx context.Context, s adapter.Session, recs []models.SyncRecord) error

	// hasStateCalls is false for ad groups: the platform has no group
	// suspend/resume, the classifier never emits state-only groups.
	hasStateCalls bool

	localDelete func(ctx context.Context, ids []int64) error
}

func (p *pusher) handlers() []kindHandler {
	return []kindHandler{
		{
			kind:          models.KindCampaign,
			create:        p.createCampaigns,
			update:        p.updateCampaigns,
			hasStateCalls: true,
			localDelete:   p.deleteCampaignsLocal,
		},
		{
			kind:        models.KindAdGroup,
			create:      p.createGroups,
			update:      p.updateGroups,
			localDelete: p.deleteGroupsLocal,
		},
		{
			kind:          models.KindAd,
			create:        p.createAds,
			update:        p.updateAds,
			hasStateCalls: true,
			localDelete:   p.deleteAdsLocal,
		},
		{
			kind:          models.KindCriterion,
			create:        p.createKeywords,
			update:        p.updateKeywords,
			hasStateCalls: true,
			localDelete:   p.deleteKeywordsLocal,
		},
	}
}

// childDeleteOrder lists, per parent kind, the descendant delete sets that
// must be flushed before the parent's own deletes: deleting a parent makes
// the platform forget its children mid-batch.
var childDeleteOrder = map[models.EntityKind][]models.EntityKind{
	models.KindCampaign: {models.KindAd, models.KindCriterion, models.KindAdGroup},
	models.KindAdGroup:  {models.KindAd, models.KindCriterion},
}

func (p *pusher) Push(ctx context.Context, s adapter.Session, login string, sets map[models.EntityKind]models.ClassifiedSet) error {
	log := logger.FromContext(ctx)

	// consumed marks delete sets flushed early by a parent kind
	consumed := map[models.EntityKind]bool{}

	for _, h := range p.handlers() {
		set := sets[h.kind]

		if len(set.New) > 0 {
			if err := h.create(ctx, s, set.New); err != nil {
				return fmt.Errorf("push %s creates: %w", h.kind, err)
			}
		}
		if len(set.ContentChanged) > 0 {
			if err := h.update(ctx, s, set.ContentChanged); err != nil {
				return fmt.Errorf("push %s updates: %w", h.kind, err)
			}
		}
		if h.hasStateCalls && len(set.StateOnly) > 0 {
			if err := p.pushStates(ctx, s, h.kind, set.StateOnly); err != nil {
				return fmt.Errorf("push %s states: %w", h.kind, err)
			}
		}

		if len(set.PendingDelete) > 0 {
			for _, childKind := range childDeleteOrder[h.kind] {
				if consumed[childKind] {
					continue
				}
				if err := p.pushDeletes(ctx, s, p.handlerFor(childKind), sets[childKind].PendingDelete); err != nil {
					return fmt.Errorf("flush %s deletes before %s deletes: %w", childKind, h.kind, err)
				}
				consumed[childKind] = true
			}
		}

		if h.kind == models.KindCriterion {
			// драфты отправляются на модерацию только после того, как у
			// объявлений появились фразы
			if err := p.moderateDrafts(ctx, s, login); err != nil {
				return fmt.Errorf("moderate draft ads: %w", err)
			}
		}

		if !consumed[h.kind] && len(set.PendingDelete) > 0 {
			if err := p.pushDeletes(ctx, s, h, set.PendingDelete); err != nil {
				return fmt.Errorf("push %s deletes: %w", h.kind, err)
			}
		}
	}

	log.Debug().
		Str("func", "pusher.Push").
		Str("login", login).
		Msg("push finished")

	return nil
}

func (p *pusher) handlerFor(kind models.EntityKind) kindHandler {
	for _, h := range p.handlers() {
		if h.kind == kind {
			return h
		}
	}
	return kindHandler{kind: kind}
}

// pushStates partitions state-only records by the bulk transition they need
// and issues one call per action.
func (p *pusher) pushStates(ctx context.Context, s adapter.Session, kind models.EntityKind, recs []models.SyncRecord) error {
	log := logger.FromContext(ctx)

	byAction := map[models.StateAction][]int64{}
	for _, rec := range recs {
		switch rec.State {
		case models.StateOn:
			byAction[models.ActionResume] = append(byAction[models.ActionResume], rec.ID)
		case models.StateOff, models.StateSuspended:
			byAction[models.ActionSuspend] = append(byAction[models.ActionSuspend], rec.ID)
		case models.StateArchived:
			byAction[models.ActionArchive] = append(byAction[models.ActionArchive], rec.ID)
		default:
			log.Warn().
				Str("func", "pusher.pushStates").
				Str("kind", string(kind)).
				Int64("id", rec.ID).
				Str("state", string(rec.State)).
				Msg("no state transition for this state, skipping")
		}
	}

	for _, action := range []models.StateAction{models.ActionSuspend, models.ActionResume, models.ActionArchive} {
		ids := byAction[action]
		if len(ids) == 0 {
			continue
		}
		if err := p.api.SetState(ctx, s, kind, ids, action); err != nil {
			return err
		}
	}

	return nil
}

// pushDeletes deletes records remotely and removes their local rows.
// Placeholder records were never pushed: they are purged locally without a
// remote call.
func (p *pusher) pushDeletes(ctx context.Context, s adapter.Session, h kindHandler, recs []models.SyncRecord) error {
	if len(recs) == 0 {
		return nil
	}

	var remote, local []int64
	for _, rec := range recs {
		local = append(local, rec.ID)
		if !models.IsPlaceholderID(rec.ID) {
			remote = append(remote, rec.ID)
		}
	}

	if len(remote) > 0 {
		if err := p.api.SetState(ctx, s, h.kind, remote, models.ActionDelete); err != nil {
			return err
		}
	}

	return h.localDelete(ctx, local)
}

// moderateDrafts submits every draft ad with a remote id for review and
// records the new moderation status locally.
func (p *pusher) moderateDrafts(ctx context.Context, s adapter.Session, login string) error {
	recs, err := p.store.Ads.SyncRecords(ctx, login)
	if err != nil {
		return err
	}

	var ids []int64
	for _, rec := range recs {
		if rec.Status == models.StatusDraft && rec.State != models.StateDeletePending && !models.IsPlaceholderID(rec.ID) {
			ids = append(ids, rec.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if _, err = p.api.ModerateAds(ctx, s, ids); err != nil {
		return err
	}

	for _, id := range ids {
		ad, getErr := p.store.Ads.Get(ctx, id)
		if getErr != nil {
			return getErr
		}
		ad.Status = models.StatusModeration
		if err = p.store.Ads.Upsert(ctx, ad); err != nil {
			return err
		}
	}

	return nil
}

// --- campaigns ---

func (p *pusher) createCampaigns(ctx context.Context, s adapter.Session, recs []models.SyncRecord) error {
	bodies := make([]models.CampaignBody, 0, len(recs))
	for _, rec := range recs {
		c, err := p.store.Campaigns.Get(ctx, rec.ID)
		if err != nil {
			return err
		}
		bodies = append(bodies, adapter.CampaignToWire(c, true))
	}

	ids, err := p.api.CreateCampaigns(ctx, s, bodies)
	if err != nil {
		return err
	}

	for i, rec := range recs {
		if err = p.store.Campaigns.Remap(ctx, rec.ID, ids[i]); err != nil {
			return err
		}
	}

	return nil
}

func (p *pusher) updateCampaigns(ctx context.Context, s adapter.Session, recs []models.SyncRecord) error {
	bodies := make([]models.CampaignBody, 0, len(recs))
	for _, rec := range recs {
		c, err := p.store.Campaigns.Get(ctx, rec.ID)
		if err != nil {
			return err
		}
		bodies = append(bodies, adapter.CampaignToWire(c, false))
	}

	ids, err := p.api.UpdateCampaigns(ctx, s, bodies)
	if err != nil {
		return err
	}

	return p.applyReplacements(ctx, p.store.Campaigns.Remap, recs, ids)
}

func (p *pusher) deleteCampaignsLocal(ctx context.Context, ids []int64) error {
	groups, err := p.store.AdGroups.ListByCampaigns(ctx, ids...)
	if err != nil {
		return err
	}
	groupIDs := make([]int64, 0, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
	}
	if err = deleteGroupsCascade(ctx, p.store, groupIDs); err != nil {
		return err
	}

	return p.store.Campaigns.Delete(ctx, ids...)
}

// --- ad groups ---

func (p *pusher) createGroups(ctx context.Context, s adapter.Session, recs []models.SyncRecord) error {
	bodies := make([]models.AdGroupBody, 0, len(recs))
	for _, rec := range recs {
		g, err := p.store.AdGroups.Get(ctx, rec.ID)
		if err != nil {
			return err
		}
		negatives, err := p.store.AdGroups.NegativesFor(ctx, rec.ID)
		if err != nil {
			return err
		}
		bodies = append(bodies, adapter.AdGroupToWire(g, negatives[rec.ID], true))
	}

	ids, err := p.api.CreateAdGroups(ctx, s, bodies)
	if err != nil {
		return err
	}

	for i, rec := range recs {
		if err = p.store.AdGroups.Remap(ctx, rec.ID, ids[i]); err != nil {
			return err
		}
	}

	return nil
}

func (p *pusher) updateGroups(ctx context.Context, s adapter.Session, recs []models.SyncRecord) error {
	bodies := make([]models.AdGroupBody, 0, len(recs))
	for _, rec := range recs {
		g, err := p.store.AdGroups.Get(ctx, rec.ID)
		if err != nil {
			return err
		}
		negatives, err := p.store.AdGroups.NegativesFor(ctx, rec.ID)
		if err != nil {
			return err
		}
		bodies = append(bodies, adapter.AdGroupToWire(g, negatives[rec.ID], false))
	}

	ids, err := p.api.UpdateAdGroups(ctx, s, bodies)
	if err != nil {
		return err
	}

	return p.applyReplacements(ctx, p.store.AdGroups.Remap, recs, ids)
}

func (p *pusher) deleteGroupsLocal(ctx context.Context, ids []int64) error {
	return deleteGroupsCascade(ctx, p.store, ids)
}

func (p *pusher) deleteAdsLocal(ctx context.Context, ids []int64) error {
	return p.store.Ads.Delete(ctx, ids...)
}

func (p *pusher) deleteKeywordsLocal(ctx context.Context, ids []int64) error {
	return p.store.Criteria.Delete(ctx, ids...)
}

// --- ads ---

func (p *pusher) createAds(ctx context.Context, s adapter.Session, recs []models.SyncRecord) error {
	bodies := make([]models.AdBody, 0, len(recs))
	for _, rec := range recs {
		a, err := p.store.Ads.Get(ctx, rec.ID)
		if err != nil {
			return err
		}
		bodies = append(bodies, adapter.AdToWire(a, true))
	}

	ids, err := p.api.CreateAds(ctx, s, bodies)
	if err != nil {
		return err
	}

	for i, rec := range recs {
		if err = p.store.Ads.Remap(ctx, rec.ID, ids[i]); err != nil {
			return err
		}
	}

	return nil
}

func (p *pusher) updateAds(ctx context.Context, s adapter.Session, recs []models.SyncRecord) error {
	bodies := make([]models.AdBody, 0, len(recs))
	for _, rec := range recs {
		a, err := p.store.Ads.Get(ctx, rec.ID)
		if err != nil {
			return err
		}
		bodies = append(bodies, adapter.AdToWire(a, false))
	}

	ids, err := p.api.UpdateAds(ctx, s, bodies)
	if err != nil {
		return err
	}

	return p.applyReplacements(ctx, p.store.Ads.Remap, recs, ids)
}

// --- keywords ---

func (p *pusher) createKeywords(ctx context.Context, s adapter.Session, recs []models.SyncRecord) error {
	bodies := make([]models.KeywordBody, 0, len(recs))
	pushable := make([]models.SyncRecord, 0, len(recs))
	for _, rec := range recs {
		c, err := p.store.Criteria.Get(ctx, rec.ID)
		if err != nil {
			return err
		}
		body, ok := adapter.KeywordToWire(c, true)
		if !ok {
			continue
		}
		bodies = append(bodies, body)
		pushable = append(pushable, rec)
	}
	if len(bodies) == 0 {
		return nil
	}

	ids, err := p.api.CreateKeywords(ctx, s, bodies)
	if err != nil {
		return err
	}

	for i, rec := range pushable {
		if err = p.store.Criteria.Remap(ctx, rec.ID, ids[i]); err != nil {
			return err
		}
	}

	return nil
}

func (p *pusher) updateKeywords(ctx context.Context, s adapter.Session, recs []models.SyncRecord) error {
	bodies := make([]models.KeywordBody, 0, len(recs))
	pushable := make([]models.SyncRecord, 0, len(recs))
	for _, rec := range recs {
		c, err := p.store.Criteria.Get(ctx, rec.ID)
		if err != nil {
			return err
		}
		body, ok := adapter.KeywordToWire(c, false)
		if !ok {
			continue
		}
		bodies = append(bodies, body)
		pushable = append(pushable, rec)
	}
	if len(bodies) == 0 {
		return nil
	}

	ids, err := p.api.UpdateKeywords(ctx, s, bodies)
	if err != nil {
		return err
	}

	return p.applyReplacements(ctx, p.store.Criteria.Remap, pushable, ids)
}

// applyReplacements handles the platform answering an update with a
// replacement id (it re-creates some records under the hood, keyword phrase
// edits most notably). The replacement is stored through the same remap path
// a create uses.
func (p *pusher) applyReplacements(ctx context.Context, remap func(context.Context, int64, int64) error, recs []models.SyncRecord, ids []int64) error {
	for i, rec := range recs {
		if i >= len(ids) {
			break
		}
		if ids[i] != 0 && ids[i] != rec.ID {
			if err := remap(ctx, rec.ID, ids[i]); err != nil {
				return err
			}
		}
	}

	return nil
}
