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

// changeDetector implements [ChangeDetector] over the platform's two-level
// change fan-out: one coarse per-campaign check first, then one targeted
// child check over the campaigns whose subtrees reported changes, and finally an
// existence check over the replica's known remote ids to spot out-of-band
// deletions.
type changeDetector struct {
	api    adapter.PlatformAPI
	store  *store.Storages
	logger *logger.Logger
}

func NewChangeDetector(api adapter.PlatformAPI, storages *store.Storages, log *logger.Logger) ChangeDetector {
	log.Debug().Msg("creating change detector")
	return &changeDetector{
		api:    api,
		store:  storages,
		logger: log,
	}
}

func (d *changeDetector) Detect(ctx context.Context, s adapter.Session, cp models.Checkpoint) (models.ChangeSet, error) {
	log := logger.FromContext(ctx)

	dict, err := d.api.CheckDictionaries(ctx, s, cp.DictionaryCheckpoint)
	if err != nil {
		return models.ChangeSet{}, fmt.Errorf("detect dictionary changes: %w", err)
	}

	cs := models.ChangeSet{
		DictionariesChanged: dict.RegionsChanged || cp.DictionaryCheckpoint == "",
		DictionaryTimestamp: dict.Timestamp,
	}

	if cp.NeverSynced() {
		// no hierarchy checkpoint to diff against: take the server's current
		// timestamp as the starting point and reload everything
		hier, checkErr := d.api.CheckCampaigns(ctx, s, dict.Timestamp)
		if checkErr != nil {
			return models.ChangeSet{}, fmt.Errorf("detect bootstrap timestamp: %w", checkErr)
		}
		cs.FullResync = true
		cs.HierarchyTimestamp = hier.Timestamp

		log.Info().
			Str("func", "changeDetector.Detect").
			Str("login", s.Login).
			Msg("account never synced, full resync scheduled")
		return cs, nil
	}

	hier, err := d.api.CheckCampaigns(ctx, s, cp.HierarchyCheckpoint)
	if err != nil {
		return models.ChangeSet{}, fmt.Errorf("detect hierarchy changes: %w", err)
	}
	cs.HierarchyTimestamp = hier.Timestamp

	var dirtyParents []int64
	for _, change := range hier.Campaigns {
		if change.SelfChanged {
			cs.ChangedCampaigns = append(cs.ChangedCampaigns, change.CampaignID)
		}
		if change.ChildrenChanged {
			dirtyParents = append(dirtyParents, change.CampaignID)
		}
	}

	if len(dirtyParents) > 0 {
		// one targeted check covers every dirty subtree
		child, checkErr := d.api.CheckChanges(ctx, s, models.ChildChangesRequest{
			CampaignIDs: dirtyParents,
			FieldNames:  []string{"AdGroupIds", "AdIds"},
			Timestamp:   cp.HierarchyCheckpoint,
		})
		if checkErr != nil {
			return models.ChangeSet{}, fmt.Errorf("detect child changes: %w", checkErr)
		}
		cs.ChangedGroups = append(cs.ChangedGroups, child.ModifiedGroupIDs...)
		cs.ChangedAds = append(cs.ChangedAds, child.ModifiedAdIDs...)
	}

	if err = d.detectDeletions(ctx, s, cp, &cs); err != nil {
		return models.ChangeSet{}, err
	}

	log.Debug().
		Str("func", "changeDetector.Detect").
		Str("login", s.Login).
		Int("changed_campaigns", len(cs.ChangedCampaigns)).
		Int("changed_groups", len(cs.ChangedGroups)).
		Int("changed_ads", len(cs.ChangedAds)).
		Int("deleted_campaigns", len(cs.DeletedCampaigns)).
		Int("deleted_groups", len(cs.DeletedGroups)).
		Int("deleted_ads", len(cs.DeletedAds)).
		Bool("dictionaries_changed", cs.DictionariesChanged).
		Msg("change detection finished")

	return cs, nil
}

// detectDeletions runs one existence check per hierarchy level over the ids
// the replica already knows from the platform. An empty known-id set
// short-circuits: asking about nothing would fetch everything.
func (d *changeDetector) detectDeletions(ctx context.Context, s adapter.Session, cp models.Checkpoint, cs *models.ChangeSet) error {
	campaignIDs, err := d.store.Campaigns.RemoteIDs(ctx, s.Login)
	if err != nil {
		return fmt.Errorf("detect deletions: known campaigns: %w", err)
	}
	if len(campaignIDs) > 0 {
		result, checkErr := d.api.CheckChanges(ctx, s, models.ChildChangesRequest{
			CampaignIDs: campaignIDs,
			FieldNames:  []string{"CampaignIds"},
			Timestamp:   cp.HierarchyCheckpoint,
		})
		if checkErr != nil {
			return fmt.Errorf("detect deleted campaigns: %w", checkErr)
		}
		cs.DeletedCampaigns = result.NotFoundIDs
	}

	groupIDs, err := d.store.AdGroups.RemoteIDs(ctx, s.Login)
	if err != nil {
		return fmt.Errorf("detect deletions: known groups: %w", err)
	}
	if len(groupIDs) > 0 {
		result, checkErr := d.api.CheckChanges(ctx, s, models.ChildChangesRequest{
			AdGroupIDs: groupIDs,
			FieldNames: []string{"AdGroupIds"},
			Timestamp:  cp.HierarchyCheckpoint,
		})
		if checkErr != nil {
			return fmt.Errorf("detect deleted groups: %w", checkErr)
		}
		cs.DeletedGroups = result.NotFoundIDs
	}

	adIDs, err := d.store.Ads.RemoteIDs(ctx, s.Login)
	if err != nil {
		return fmt.Errorf("detect deletions: known ads: %w", err)
	}
	if len(adIDs) > 0 {
		result, checkErr := d.api.CheckChanges(ctx, s, models.ChildChangesRequest{
			AdIDs:      adIDs,
			FieldNames: []string{"AdIds"},
			Timestamp:  cp.HierarchyCheckpoint,
		})
		if checkErr != nil {
			return fmt.Errorf("detect deleted ads: %w", checkErr)
		}
		cs.DeletedAds = result.NotFoundIDs
	}

	return nil
}
