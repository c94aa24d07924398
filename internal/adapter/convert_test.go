// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-ads-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignFromWire(t *testing.T) {
	body := models.CampaignBody{
		ID:        10,
		Name:      "summer sale",
		State:     models.StateOn,
		Status:    models.StatusAccepted,
		Type:      "TEXT_CAMPAIGN",
		StartDate: "2026-06-01",
		DailyBudget: &models.DailyBudget{
			Amount: 3_000_000, // микроединицы
			Mode:   models.BudgetStandard,
		},
	}

	c := CampaignFromWire("acc", body)
	assert.Equal(t, "acc", c.Login)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), c.StartDate)
	assert.Equal(t, int64(300), c.DailyBudgetAmount, "stored in kopecks")
	assert.Equal(t, models.BudgetStandard, c.DailyBudgetMode)
}

func TestCampaignToWire_Create(t *testing.T) {
	c := models.Campaign{
		ID:                -1,
		Name:              "new",
		Type:              "TEXT_CAMPAIGN",
		State:             models.StateOff,
		DailyBudgetAmount: 500,
	}

	b := CampaignToWire(c, true)
	assert.Zero(t, b.ID, "create carries no id")
	assert.Empty(t, b.State, "state travels via separate transitions")
	require.NotNil(t, b.TextCampaign, "add requires a bidding strategy")
	assert.Equal(t, "HIGHEST_POSITION", b.TextCampaign.BiddingStrategy.Search.BiddingStrategyType)
	require.NotNil(t, b.DailyBudget)
	assert.Equal(t, int64(5_000_000), b.DailyBudget.Amount)
	assert.Equal(t, models.BudgetStandard, b.DailyBudget.Mode, "mode defaults when unset")
}

func TestCampaignToWire_Update(t *testing.T) {
	c := models.Campaign{ID: 10, Name: "renamed", State: models.StateOn}

	b := CampaignToWire(c, false)
	assert.Equal(t, int64(10), b.ID)
	assert.Equal(t, models.StateOn, b.State, "full update carries the current state")
	assert.Nil(t, b.TextCampaign, "update must not resend the strategy")
}

func TestAdGroupWireRoundtrip(t *testing.T) {
	body := models.AdGroupBody{
		ID:               20,
		CampaignID:       10,
		Name:             "group",
		RegionIDs:        []int64{225},
		NegativeKeywords: &models.ItemsList{Items: []string{"free", "cheap"}},
	}

	g, negatives := AdGroupFromWire(body)
	assert.Equal(t, int64(10), g.CampaignID)
	require.Len(t, negatives, 2)
	assert.Equal(t, models.NegativeKeyword{AdGroupID: 20, Text: "free"}, negatives[0])

	back := AdGroupToWire(g, negatives, false)
	assert.Equal(t, int64(20), back.ID)
	assert.Zero(t, back.CampaignID, "update cannot move a group between campaigns")
	require.NotNil(t, back.NegativeKeywords)
	assert.Equal(t, []string{"free", "cheap"}, back.NegativeKeywords.Items)
}

func TestAdGroupToWire_CreateDefaultsRegion(t *testing.T) {
	g := models.AdGroup{ID: -2, CampaignID: 10, Name: "no regions"}

	b := AdGroupToWire(g, nil, true)
	assert.Equal(t, int64(10), b.CampaignID)
	assert.Equal(t, []int64{0}, b.RegionIDs, "platform requires at least one region on add")
	assert.Nil(t, b.NegativeKeywords)
}

func TestAdWire(t *testing.T) {
	body := models.AdBody{
		ID:        30,
		AdGroupID: 20,
		State:     models.StateOn,
		TextAd: &models.TextAdExt{
			Title:  "headline",
			Text:   "body",
			Href:   "https://example.com",
			Mobile: "YES",
		},
	}

	a := AdFromWire(body)
	assert.True(t, a.Mobile)
	assert.Equal(t, "headline", a.Title)

	create := AdToWire(a, true)
	assert.Zero(t, create.ID)
	assert.Equal(t, int64(20), create.AdGroupID)
	assert.Equal(t, "YES", create.TextAd.Mobile)

	update := AdToWire(a, false)
	assert.Equal(t, int64(30), update.ID)
	assert.Zero(t, update.AdGroupID)
}

func TestKeywordWire(t *testing.T) {
	body := models.KeywordBody{
		ID:        40,
		AdGroupID: 20,
		Keyword:   "buy widgets",
		Bid:       15_000_000,
	}

	c := KeywordFromWire(body)
	assert.Equal(t, models.CriterionKeyword, c.Variant)
	require.NotNil(t, c.Keyword)
	assert.Equal(t, int64(1500), c.Keyword.Bid)

	back, ok := KeywordToWire(c, false)
	require.True(t, ok)
	assert.Equal(t, int64(15_000_000), back.Bid)
	assert.Equal(t, "buy widgets", back.Keyword)
}

func TestKeywordToWire_RejectsReportOnlyVariants(t *testing.T) {
	c := models.Criterion{
		ID:            41,
		Variant:       models.CriterionDynamicTarget,
		DynamicTarget: &models.DynamicTargetParams{Name: "feed"},
	}

	_, ok := KeywordToWire(c, false)
	assert.False(t, ok)
}

func TestKeywordBidToWire(t *testing.T) {
	bid := KeywordBidToWire(40, 1500)
	assert.Equal(t, int64(40), bid.KeywordID)
	assert.Equal(t, int64(15_000_000), bid.SearchBid)
}

func TestDeletePendingStateNeverTravels(t *testing.T) {
	campaign := CampaignToWire(models.Campaign{ID: 10, State: models.StateDeletePending}, false)
	assert.Empty(t, campaign.State)

	ad := AdToWire(models.Ad{ID: 30, State: models.StateDeletePending}, false)
	assert.Empty(t, ad.State)

	keyword, ok := KeywordToWire(models.Criterion{
		ID:      40,
		Variant: models.CriterionKeyword,
		State:   models.StateDeletePending,
		Keyword: &models.KeywordParams{Text: "doomed"},
	}, false)
	require.True(t, ok)
	assert.Empty(t, keyword.State)
}
