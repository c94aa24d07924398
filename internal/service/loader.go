// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/store"
	"github.com/MKhiriev/go-ads-sync/models"
)

// fieldSnapshot is the change-log field name of the synthetic entry the
// loader appends when it overwrites a record with remote truth. Pulled
// entries never mark a record pending; they only keep the history complete.
const fieldSnapshot = "snapshot"

// remoteLoader implements [RemoteLoader]. Every write is an upsert keyed by
// the remote id, so re-applying a change set after a crashed cycle converges
// instead of duplicating.
type remoteLoader struct {
	api    adapter.PlatformAPI
	store  *store.Storages
	logger *logger.Logger
}

func NewRemoteLoader(api adapter.PlatformAPI, storages *store.Storages, log *logger.Logger) RemoteLoader {
	log.Debug().Msg("creating remote loader")
	return &remoteLoader{
		api:    api,
		store:  storages,
		logger: log,
	}
}

func (l *remoteLoader) Load(ctx context.Context, s adapter.Session, login string, cs models.ChangeSet) error {
	log := logger.FromContext(ctx)

	if cs.DictionariesChanged {
		if err := l.loadRegions(ctx, s); err != nil {
			return err
		}
	}

	var err error
	if cs.FullResync {
		err = l.loadFull(ctx, s, login)
	} else {
		err = l.loadIncremental(ctx, s, login, cs)
	}
	if err != nil {
		return err
	}

	if err = l.applyDeletions(ctx, cs); err != nil {
		return err
	}

	log.Debug().
		Str("func", "remoteLoader.Load").
		Str("login", login).
		Bool("full_resync", cs.FullResync).
		Msg("remote load finished")

	return nil
}

func (l *remoteLoader) loadRegions(ctx context.Context, s adapter.Session) error {
	bodies, err := l.api.GetRegions(ctx, s)
	if err != nil {
		return fmt.Errorf("load regions: %w", err)
	}

	regions := make([]models.Region, 0, len(bodies))
	for _, b := range bodies {
		regions = append(regions, adapter.RegionFromWire(b))
	}

	if err = l.store.Regions.ReplaceAll(ctx, regions); err != nil {
		return fmt.Errorf("replace regions: %w", err)
	}

	return nil
}

// loadFull rebuilds the replica of one account from scratch: whatever the
// replica held for the account is discarded before the pull, so rows the
// platform dropped while the checkpoint was lost do not survive as ghosts.
func (l *remoteLoader) loadFull(ctx context.Context, s adapter.Session, login string) error {
	if err := l.discardHierarchy(ctx, login); err != nil {
		return err
	}

	campaignIDs, err := l.loadCampaigns(ctx, s, login, nil)
	if err != nil {
		return err
	}
	if len(campaignIDs) == 0 {
		return nil
	}

	if err = l.loadGroups(ctx, s, campaignIDs, nil); err != nil {
		return err
	}
	if err = l.loadAds(ctx, s, campaignIDs, nil); err != nil {
		return err
	}
	if err = l.loadKeywords(ctx, s, campaignIDs, nil); err != nil {
		return err
	}

	return nil
}

// discardHierarchy drops every campaign of the account with its groups, ads,
// and criteria.
func (l *remoteLoader) discardHierarchy(ctx context.Context, login string) error {
	campaigns, err := l.store.Campaigns.ListByLogin(ctx, login)
	if err != nil {
		return fmt.Errorf("discard replica: list campaigns: %w", err)
	}
	if len(campaigns) == 0 {
		return nil
	}

	campaignIDs := make([]int64, 0, len(campaigns))
	for _, c := range campaigns {
		campaignIDs = append(campaignIDs, c.ID)
	}

	groups, err := l.store.AdGroups.ListByCampaigns(ctx, campaignIDs...)
	if err != nil {
		return fmt.Errorf("discard replica: list groups: %w", err)
	}
	groupIDs := make([]int64, 0, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
	}
	if err = deleteGroupsCascade(ctx, l.store, groupIDs); err != nil {
		return err
	}

	if err = l.store.Campaigns.Delete(ctx, campaignIDs...); err != nil {
		return fmt.Errorf("discard replica: delete campaigns: %w", err)
	}

	return nil
}

func (l *remoteLoader) loadIncremental(ctx context.Context, s adapter.Session, login string, cs models.ChangeSet) error {
	if len(cs.ChangedCampaigns) > 0 {
		if _, err := l.loadCampaigns(ctx, s, login, cs.ChangedCampaigns); err != nil {
			return err
		}
	}
	if len(cs.ChangedGroups) > 0 {
		if err := l.loadGroups(ctx, s, nil, cs.ChangedGroups); err != nil {
			return err
		}
		// criteria have no change-check level of their own; re-pull them
		// with the groups they belong to
		if err := l.loadKeywords(ctx, s, nil, cs.ChangedGroups); err != nil {
			return err
		}
	}
	if len(cs.ChangedAds) > 0 {
		if err := l.loadAds(ctx, s, nil, cs.ChangedAds); err != nil {
			return err
		}
	}

	return nil
}

// loadCampaigns pulls campaigns (all of the account when ids is empty) and
// returns the pulled ids.
func (l *remoteLoader) loadCampaigns(ctx context.Context, s adapter.Session, login string, ids []int64) ([]int64, error) {
	bodies, err := l.api.GetCampaigns(ctx, s, ids)
	if err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}
	if len(bodies) == 0 {
		return nil, nil
	}

	campaigns := make([]models.Campaign, 0, len(bodies))
	pulled := make([]int64, 0, len(bodies))
	for _, b := range bodies {
		campaigns = append(campaigns, adapter.CampaignFromWire(login, b))
		pulled = append(pulled, b.ID)
	}

	if err = l.store.Campaigns.Upsert(ctx, campaigns...); err != nil {
		return nil, fmt.Errorf("store campaigns: %w", err)
	}
	if err = l.appendPulled(ctx, models.KindCampaign, pulled); err != nil {
		return nil, err
	}

	return pulled, nil
}

func (l *remoteLoader) loadGroups(ctx context.Context, s adapter.Session, campaignIDs, groupIDs []int64) error {
	bodies, err := l.api.GetAdGroups(ctx, s, campaignIDs, groupIDs)
	if err != nil {
		return fmt.Errorf("load ad groups: %w", err)
	}
	if len(bodies) == 0 {
		return nil
	}

	groups := make([]models.AdGroup, 0, len(bodies))
	pulled := make([]int64, 0, len(bodies))
	negatives := make(map[int64][]models.NegativeKeyword, len(bodies))
	for _, b := range bodies {
		g, negs := adapter.AdGroupFromWire(b)
		groups = append(groups, g)
		pulled = append(pulled, g.ID)
		negatives[g.ID] = negs
	}

	if err = l.store.AdGroups.Upsert(ctx, groups...); err != nil {
		return fmt.Errorf("store ad groups: %w", err)
	}
	for groupID, negs := range negatives {
		if err = l.store.AdGroups.ReplaceNegatives(ctx, groupID, negs); err != nil {
			return fmt.Errorf("store negative keywords of group %d: %w", groupID, err)
		}
	}

	return l.appendPulled(ctx, models.KindAdGroup, pulled)
}

func (l *remoteLoader) loadAds(ctx context.Context, s adapter.Session, campaignIDs, adIDs []int64) error {
	bodies, err := l.api.GetAds(ctx, s, campaignIDs, adIDs)
	if err != nil {
		return fmt.Errorf("load ads: %w", err)
	}
	if len(bodies) == 0 {
		return nil
	}

	ads := make([]models.Ad, 0, len(bodies))
	pulled := make([]int64, 0, len(bodies))
	for _, b := range bodies {
		ads = append(ads, adapter.AdFromWire(b))
		pulled = append(pulled, b.ID)
	}

	if err = l.store.Ads.Upsert(ctx, ads...); err != nil {
		return fmt.Errorf("store ads: %w", err)
	}

	return l.appendPulled(ctx, models.KindAd, pulled)
}

func (l *remoteLoader) loadKeywords(ctx context.Context, s adapter.Session, campaignIDs, groupIDs []int64) error {
	bodies, err := l.api.GetKeywords(ctx, s, campaignIDs, groupIDs)
	if err != nil {
		return fmt.Errorf("load keywords: %w", err)
	}
	if len(bodies) == 0 {
		return nil
	}

	criteria := make([]models.Criterion, 0, len(bodies))
	pulled := make([]int64, 0, len(bodies))
	for _, b := range bodies {
		criteria = append(criteria, adapter.KeywordFromWire(b))
		pulled = append(pulled, b.ID)
	}

	if err := l.store.Criteria.Upsert(ctx, criteria...); err != nil {
		return fmt.Errorf("store criteria: %w", err)
	}

	return l.appendPulled(ctx, models.KindCriterion, pulled)
}

// applyDeletions removes the records the platform no longer knows, children
// first so that no row is left pointing at a deleted parent.
func (l *remoteLoader) applyDeletions(ctx context.Context, cs models.ChangeSet) error {
	if len(cs.DeletedAds) > 0 {
		if err := l.store.Ads.Delete(ctx, cs.DeletedAds...); err != nil {
			return fmt.Errorf("apply remote ad deletions: %w", err)
		}
	}

	if len(cs.DeletedGroups) > 0 {
		if err := deleteGroupsCascade(ctx, l.store, cs.DeletedGroups); err != nil {
			return err
		}
	}

	if len(cs.DeletedCampaigns) > 0 {
		groups, err := l.store.AdGroups.ListByCampaigns(ctx, cs.DeletedCampaigns...)
		if err != nil {
			return fmt.Errorf("apply remote campaign deletions: %w", err)
		}
		groupIDs := make([]int64, 0, len(groups))
		for _, g := range groups {
			groupIDs = append(groupIDs, g.ID)
		}
		if err = deleteGroupsCascade(ctx, l.store, groupIDs); err != nil {
			return err
		}
		if err = l.store.Campaigns.Delete(ctx, cs.DeletedCampaigns...); err != nil {
			return fmt.Errorf("apply remote campaign deletions: %w", err)
		}
	}

	return nil
}

// deleteGroupsCascade removes groups and everything under them: ads and
// criteria first, then the group rows with their negative keyword sets. The
// loader uses it for remote deletions and the pusher for local cleanup after
// a pushed delete.
func deleteGroupsCascade(ctx context.Context, storages *store.Storages, groupIDs []int64) error {
	if len(groupIDs) == 0 {
		return nil
	}

	ads, err := storages.Ads.ListByGroups(ctx, groupIDs...)
	if err != nil {
		return fmt.Errorf("cascade group deletion: list ads: %w", err)
	}
	adIDs := make([]int64, 0, len(ads))
	for _, a := range ads {
		adIDs = append(adIDs, a.ID)
	}
	if err = storages.Ads.Delete(ctx, adIDs...); err != nil {
		return fmt.Errorf("cascade group deletion: delete ads: %w", err)
	}

	criteria, err := storages.Criteria.ListByGroups(ctx, groupIDs...)
	if err != nil {
		return fmt.Errorf("cascade group deletion: list criteria: %w", err)
	}
	criterionIDs := make([]int64, 0, len(criteria))
	for _, c := range criteria {
		criterionIDs = append(criterionIDs, c.ID)
	}
	if err = storages.Criteria.Delete(ctx, criterionIDs...); err != nil {
		return fmt.Errorf("cascade group deletion: delete criteria: %w", err)
	}

	if err = storages.AdGroups.Delete(ctx, groupIDs...); err != nil {
		return fmt.Errorf("cascade group deletion: delete groups: %w", err)
	}

	return nil
}

func (l *remoteLoader) appendPulled(ctx context.Context, kind models.EntityKind, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	now := time.Now().UTC()
	entries := make([]models.ChangeLogEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, models.ChangeLogEntry{
			Kind:      kind,
			EntityID:  id,
			Field:     fieldSnapshot,
			Origin:    models.OriginPulled,
			ChangedAt: now,
		})
	}

	if err := l.store.ChangeLog.Append(ctx, entries...); err != nil {
		return fmt.Errorf("append pulled change log entries: %w", err)
	}

	return nil
}
