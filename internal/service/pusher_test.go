// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPusher_Push_CreateRemapsPlaceholders(t *testing.T) {
	storages, campaigns, _, _, _ := newTestStorages()
	campaigns.byID = map[int64]models.Campaign{
		-1: {ID: -1, Login: "acc", Name: "first"},
		-2: {ID: -2, Login: "acc", Name: "second"},
	}

	api := &fakePlatform{
		createCampaigns: func(bodies []models.CampaignBody) ([]int64, error) {
			require.Len(t, bodies, 2)
			assert.Equal(t, "first", bodies[0].Name)
			assert.Zero(t, bodies[0].ID, "create bodies carry no id")
			return []int64{100, 200}, nil
		},
	}

	sets := map[models.EntityKind]models.ClassifiedSet{
		models.KindCampaign: {New: []models.SyncRecord{
			{Kind: models.KindCampaign, ID: -1},
			{Kind: models.KindCampaign, ID: -2},
		}},
	}

	p := NewPusher(api, storages, testLogger())
	require.NoError(t, p.Push(context.Background(), adapter.Session{Login: "acc"}, "acc", sets))

	// результат позиционный: i-й плейсхолдер получает i-й присвоенный id
	assert.Equal(t, [][2]int64{{-1, 100}, {-2, 200}}, campaigns.remaps)
}

func TestPusher_Push_KindOrderParentFirst(t *testing.T) {
	storages, campaigns, groups, _, _ := newTestStorages()
	campaigns.byID = map[int64]models.Campaign{-1: {ID: -1, Name: "c"}}
	groups.byID = map[int64]models.AdGroup{-2: {ID: -2, CampaignID: -1, Name: "g"}}

	var ops []string
	api := &fakePlatform{
		createCampaigns: func([]models.CampaignBody) ([]int64, error) {
			ops = append(ops, "create-campaigns")
			return []int64{100}, nil
		},
		createAdGroups: func([]models.AdGroupBody) ([]int64, error) {
			ops = append(ops, "create-groups")
			return []int64{200}, nil
		},
	}

	sets := map[models.EntityKind]models.ClassifiedSet{
		models.KindCampaign: {New: []models.SyncRecord{{Kind: models.KindCampaign, ID: -1}}},
		models.KindAdGroup:  {New: []models.SyncRecord{{Kind: models.KindAdGroup, ID: -2}}},
	}

	p := NewPusher(api, storages, testLogger())
	require.NoError(t, p.Push(context.Background(), adapter.Session{}, "acc", sets))

	assert.Equal(t, []string{"create-campaigns", "create-groups"}, ops)
}

func TestPusher_Push_GroupDeleteFlushesChildDeletesFirst(t *testing.T) {
	storages, _, groups, ads, criteria := newTestStorages()
	groups.byID = map[int64]models.AdGroup{}

	var ops []string
	api := &fakePlatform{
		setState: func(kind models.EntityKind, ids []int64, action models.StateAction) error {
			ops = append(ops, fmt.Sprintf("%s/%s", kind, action))
			return nil
		},
	}

	sets := map[models.EntityKind]models.ClassifiedSet{
		models.KindAdGroup: {PendingDelete: []models.SyncRecord{
			{Kind: models.KindAdGroup, ID: 20, State: models.StateDeletePending},
		}},
		models.KindAd: {PendingDelete: []models.SyncRecord{
			{Kind: models.KindAd, ID: 30, State: models.StateDeletePending},
		}},
		models.KindCriterion: {PendingDelete: []models.SyncRecord{
			{Kind: models.KindCriterion, ID: 40, State: models.StateDeletePending},
		}},
	}

	p := NewPusher(api, storages, testLogger())
	require.NoError(t, p.Push(context.Background(), adapter.Session{}, "acc", sets))

	// удаление объявлений и фраз уходит до удаления групп, не после
	assert.Equal(t, []string{"Ads/delete", "Keywords/delete", "AdGroups/delete"}, ops)
	assert.Equal(t, []int64{30}, ads.deleted)
	assert.Equal(t, []int64{40}, criteria.deleted)
	assert.Equal(t, []int64{20}, groups.deleted)
}

func TestPusher_Push_CampaignDeleteFlushesDescendantDeletesFirst(t *testing.T) {
	storages, campaigns, groups, ads, criteria := newTestStorages()

	var ops []string
	api := &fakePlatform{
		setState: func(kind models.EntityKind, ids []int64, action models.StateAction) error {
			ops = append(ops, fmt.Sprintf("%s/%s", kind, action))
			return nil
		},
	}

	sets := map[models.EntityKind]models.ClassifiedSet{
		models.KindCampaign: {PendingDelete: []models.SyncRecord{
			{Kind: models.KindCampaign, ID: 10, State: models.StateDeletePending},
		}},
		models.KindAdGroup: {PendingDelete: []models.SyncRecord{
			{Kind: models.KindAdGroup, ID: 20, State: models.StateDeletePending},
		}},
		models.KindAd: {PendingDelete: []models.SyncRecord{
			{Kind: models.KindAd, ID: 30, State: models.StateDeletePending},
		}},
		models.KindCriterion: {PendingDelete: []models.SyncRecord{
			{Kind: models.KindCriterion, ID: 40, State: models.StateDeletePending},
		}},
	}

	p := NewPusher(api, storages, testLogger())
	require.NoError(t, p.Push(context.Background(), adapter.Session{}, "acc", sets))

	// кампания удаляется последней, каждый набор удалений уходит ровно один раз
	assert.Equal(t, []string{"Ads/delete", "Keywords/delete", "AdGroups/delete", "Campaigns/delete"}, ops)
	assert.Equal(t, []int64{30}, ads.deleted)
	assert.Equal(t, []int64{40}, criteria.deleted)
	assert.Equal(t, []int64{20}, groups.deleted)
	assert.Equal(t, []int64{10}, campaigns.deleted)
}

func TestPusher_Push_LeafDeletesRemoveLocalRows(t *testing.T) {
	storages, _, _, ads, criteria := newTestStorages()

	api := &fakePlatform{}

	sets := map[models.EntityKind]models.ClassifiedSet{
		models.KindAd: {PendingDelete: []models.SyncRecord{
			{Kind: models.KindAd, ID: 30, State: models.StateDeletePending},
		}},
		models.KindCriterion: {PendingDelete: []models.SyncRecord{
			{Kind: models.KindCriterion, ID: 40, State: models.StateDeletePending},
		}},
	}

	p := NewPusher(api, storages, testLogger())
	require.NoError(t, p.Push(context.Background(), adapter.Session{}, "acc", sets))

	assert.Equal(t, []int64{30}, ads.deleted)
	assert.Equal(t, []int64{40}, criteria.deleted)
}

func TestPusher_Push_ModerationWaitsForKeywordCreates(t *testing.T) {
	storages, _, _, ads, criteria := newTestStorages()
	ads.byID = map[int64]models.Ad{30: {ID: 30, Status: models.StatusDraft}}
	ads.syncRecords = []models.SyncRecord{{Kind: models.KindAd, ID: 30, Status: models.StatusDraft}}
	criteria.byID = map[int64]models.Criterion{
		-41: {ID: -41, AdGroupID: 20, Variant: models.CriterionKeyword, Keyword: &models.KeywordParams{Text: "phrase", Bid: 500}},
	}

	var ops []string
	api := &fakePlatform{
		createKeywords: func(bodies []models.KeywordBody) ([]int64, error) {
			ops = append(ops, "create-keywords")
			return []int64{400}, nil
		},
		moderateAds: func(ids []int64) ([]int64, error) {
			ops = append(ops, "moderate-ads")
			return ids, nil
		},
	}

	sets := map[models.EntityKind]models.ClassifiedSet{
		models.KindCriterion: {New: []models.SyncRecord{{Kind: models.KindCriterion, ID: -41}}},
	}

	p := NewPusher(api, storages, testLogger())
	require.NoError(t, p.Push(context.Background(), adapter.Session{}, "acc", sets))

	// без фраз объявление на модерации отклонят, сперва создаём фразы
	assert.Equal(t, []string{"create-keywords", "moderate-ads"}, ops)
}

func TestPusher_Push_PlaceholderDeleteIsLocalOnly(t *testing.T) {
	storages, campaigns, _, _, _ := newTestStorages()

	var remoteDeletes [][]int64
	api := &fakePlatform{
		setState: func(_ models.EntityKind, ids []int64, action models.StateAction) error {
			if action == models.ActionDelete {
				remoteDeletes = append(remoteDeletes, ids)
			}
			return nil
		},
	}

	sets := map[models.EntityKind]models.ClassifiedSet{
		models.KindCampaign: {PendingDelete: []models.SyncRecord{
			{Kind: models.KindCampaign, ID: -5, State: models.StateDeletePending},
			{Kind: models.KindCampaign, ID: 50, State: models.StateDeletePending},
		}},
	}

	p := NewPusher(api, storages, testLogger())
	require.NoError(t, p.Push(context.Background(), adapter.Session{}, "acc", sets))

	// платформа никогда не видела плейсхолдер, удалённый вызов только для 50
	require.Len(t, remoteDeletes, 1)
	assert.Equal(t, []int64{50}, remoteDeletes[0])
	assert.ElementsMatch(t, []int64{-5, 50}, campaigns.deleted)
}

func TestPusher_Push_StateTransitions(t *testing.T) {
	storages, _, _, _, _ := newTestStorages()

	var calls []stateCall
	api := &fakePlatform{
		setState: func(kind models.EntityKind, ids []int64, action models.StateAction) error {
			calls = append(calls, stateCall{kind: kind, ids: ids, action: action})
			return nil
		},
	}

	sets := map[models.EntityKind]models.ClassifiedSet{
		models.KindCampaign: {StateOnly: []models.SyncRecord{
			{Kind: models.KindCampaign, ID: 1, State: models.StateOn},
			{Kind: models.KindCampaign, ID: 2, State: models.StateOff},
			{Kind: models.KindCampaign, ID: 3, State: models.StateSuspended},
			{Kind: models.KindCampaign, ID: 4, State: models.StateArchived},
			{Kind: models.KindCampaign, ID: 5, State: models.StateEnded}, // нет перехода
		}},
	}

	p := NewPusher(api, storages, testLogger())
	require.NoError(t, p.Push(context.Background(), adapter.Session{}, "acc", sets))

	require.Len(t, calls, 3)
	assert.Equal(t, stateCall{kind: models.KindCampaign, ids: []int64{2, 3}, action: models.ActionSuspend}, calls[0])
	assert.Equal(t, stateCall{kind: models.KindCampaign, ids: []int64{1}, action: models.ActionResume}, calls[1])
	assert.Equal(t, stateCall{kind: models.KindCampaign, ids: []int64{4}, action: models.ActionArchive}, calls[2])
}

func TestPusher_Push_ModeratesDraftAds(t *testing.T) {
	storages, _, _, ads, _ := newTestStorages()
	ads.syncRecords = []models.SyncRecord{
		{Kind: models.KindAd, ID: 30, Status: models.StatusDraft},
		{Kind: models.KindAd, ID: -31, Status: models.StatusDraft},                                    // ещё не создано
		{Kind: models.KindAd, ID: 32, Status: models.StatusDraft, State: models.StateDeletePending}, // обречено
		{Kind: models.KindAd, ID: 33, Status: models.StatusAccepted},
	}
	ads.byID = map[int64]models.Ad{30: {ID: 30, Status: models.StatusDraft}}

	var moderated []int64
	api := &fakePlatform{
		moderateAds: func(ids []int64) ([]int64, error) {
			moderated = ids
			return ids, nil
		},
	}

	p := NewPusher(api, storages, testLogger())
	require.NoError(t, p.Push(context.Background(), adapter.Session{}, "acc", map[models.EntityKind]models.ClassifiedSet{}))

	assert.Equal(t, []int64{30}, moderated)
	require.Len(t, ads.upserted, 1)
	assert.Equal(t, models.StatusModeration, ads.upserted[0].Status)
}

func TestPusher_Push_UpdateReplacementIDRemaps(t *testing.T) {
	storages, _, _, _, criteria := newTestStorages()
	criteria.byID = map[int64]models.Criterion{
		60: {ID: 60, AdGroupID: 20, Variant: models.CriterionKeyword, Keyword: &models.KeywordParams{Text: "old phrase", Bid: 1500}},
		61: {ID: 61, AdGroupID: 20, Variant: models.CriterionDynamicTarget}, // платформа такие не принимает
		62: {ID: 62, AdGroupID: 20, Variant: models.CriterionKeyword, Keyword: &models.KeywordParams{Text: "same", Bid: 500}},
	}

	api := &fakePlatform{
		updateKeywords: func(bodies []models.KeywordBody) ([]int64, error) {
			require.Len(t, bodies, 2, "non-keyword variants are skipped")
			// правка текста фразы пересоздаёт её под новым id
			return []int64{600, 62}, nil
		},
	}

	sets := map[models.EntityKind]models.ClassifiedSet{
		models.KindCriterion: {ContentChanged: []models.SyncRecord{
			{Kind: models.KindCriterion, ID: 60},
			{Kind: models.KindCriterion, ID: 61},
			{Kind: models.KindCriterion, ID: 62},
		}},
	}

	p := NewPusher(api, storages, testLogger())
	require.NoError(t, p.Push(context.Background(), adapter.Session{}, "acc", sets))

	assert.Equal(t, [][2]int64{{60, 600}}, criteria.remaps, "unchanged echo id 62 must not remap")
}

func TestPusher_Push_CreateErrorAborts(t *testing.T) {
	storages, campaigns, _, _, _ := newTestStorages()
	campaigns.byID = map[int64]models.Campaign{-1: {ID: -1}}

	wantErr := errors.New("platform rejected batch")
	api := &fakePlatform{
		createCampaigns: func([]models.CampaignBody) ([]int64, error) {
			return nil, wantErr
		},
	}

	sets := map[models.EntityKind]models.ClassifiedSet{
		models.KindCampaign: {New: []models.SyncRecord{{Kind: models.KindCampaign, ID: -1}}},
	}

	p := NewPusher(api, storages, testLogger())
	err := p.Push(context.Background(), adapter.Session{}, "acc", sets)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, campaigns.remaps)
}
