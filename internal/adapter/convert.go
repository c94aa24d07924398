// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"time"

	"github.com/MKhiriev/go-ads-sync/models"
)

// wireDateLayout is the platform's date format.
const wireDateLayout = "2006-01-02"

// microPerKopeck converts between local kopecks and the platform's
// micro-units.
const microPerKopeck = 10_000

func toMicro(kopecks int64) int64 { return kopecks * microPerKopeck }
func fromMicro(micro int64) int64 { return micro / microPerKopeck }

// CampaignFromWire maps a fetched campaign body onto the replica model.
// Money arrives in micro-units and is stored in kopecks.
func CampaignFromWire(login string, b models.CampaignBody) models.Campaign {
	c := models.Campaign{
		ID:     b.ID,
		Login:  login,
		Name:   b.Name,
		State:  b.State,
		Status: b.Status,
		Type:   b.Type,
	}
	if b.StartDate != "" {
		if d, err := time.Parse(wireDateLayout, b.StartDate); err == nil {
			c.StartDate = d
		}
	}
	if b.DailyBudget != nil {
		c.DailyBudgetAmount = fromMicro(b.DailyBudget.Amount)
		c.DailyBudgetMode = b.DailyBudget.Mode
	}

	return c
}

// CampaignToWire builds the create/update body for a campaign. forCreate
// omits the id and attaches the default text-campaign bidding strategy,
// which the platform requires on add but rejects on update.
func CampaignToWire(c models.Campaign, forCreate bool) models.CampaignBody {
	b := models.CampaignBody{
		Name: c.Name,
	}
	if !forCreate {
		b.ID = c.ID
		if c.State != models.StateDeletePending {
			b.State = c.State
		}
	} else {
		b.Type = c.Type
		if !c.StartDate.IsZero() {
			b.StartDate = c.StartDate.Format(wireDateLayout)
		}
		if c.Type == "" || c.Type == "TEXT_CAMPAIGN" {
			b.TextCampaign = &models.TextCampaignExt{
				BiddingStrategy: models.BiddingStrategy{
					Search:  models.StrategyPart{BiddingStrategyType: "HIGHEST_POSITION"},
					Network: models.StrategyPart{BiddingStrategyType: "SERVING_OFF"},
				},
			}
		}
	}
	if c.DailyBudgetAmount > 0 {
		mode := c.DailyBudgetMode
		if mode == "" {
			mode = models.BudgetStandard
		}
		b.DailyBudget = &models.DailyBudget{Amount: toMicro(c.DailyBudgetAmount), Mode: mode}
	}

	return b
}

// AdGroupFromWire maps a fetched group body onto the replica model plus its
// embedded negative keywords, expanded into first-class records.
func AdGroupFromWire(b models.AdGroupBody) (models.AdGroup, []models.NegativeKeyword) {
	g := models.AdGroup{
		ID:            b.ID,
		CampaignID:    b.CampaignID,
		Name:          b.Name,
		Status:        b.Status,
		ServingStatus: b.ServingStatus,
		RegionIDs:     b.RegionIDs,
	}

	var negatives []models.NegativeKeyword
	if b.NegativeKeywords != nil {
		negatives = make([]models.NegativeKeyword, 0, len(b.NegativeKeywords.Items))
		for _, text := range b.NegativeKeywords.Items {
			negatives = append(negatives, models.NegativeKeyword{AdGroupID: b.ID, Text: text})
		}
	}

	return g, negatives
}

// AdGroupToWire folds the group and its negative-keyword records back into
// one wire body.
func AdGroupToWire(g models.AdGroup, negatives []models.NegativeKeyword, forCreate bool) models.AdGroupBody {
	b := models.AdGroupBody{
		Name:      g.Name,
		RegionIDs: g.RegionIDs,
	}
	if forCreate {
		b.CampaignID = g.CampaignID
	} else {
		b.ID = g.ID
	}
	if len(b.RegionIDs) == 0 {
		// the platform requires at least one region on add
		b.RegionIDs = []int64{0}
	}
	if len(negatives) > 0 {
		items := make([]string, 0, len(negatives))
		for _, n := range negatives {
			items = append(items, n.Text)
		}
		b.NegativeKeywords = &models.ItemsList{Items: items}
	}

	return b
}

// AdFromWire maps a fetched ad body onto the replica model.
func AdFromWire(b models.AdBody) models.Ad {
	a := models.Ad{
		ID:                  b.ID,
		AdGroupID:           b.AdGroupID,
		State:               b.State,
		Status:              b.Status,
		StatusClarification: b.StatusClarification,
	}
	if b.TextAd != nil {
		a.Title = b.TextAd.Title
		a.Title2 = b.TextAd.Title2
		a.Text = b.TextAd.Text
		a.Href = b.TextAd.Href
		a.Mobile = b.TextAd.Mobile == "YES"
		a.DisplayDomain = b.TextAd.DisplayDomain
		a.DisplayURLPath = b.TextAd.DisplayURLPath
		a.VCardID = b.TextAd.VCardID
		a.AdImageHash = b.TextAd.AdImageHash
	}

	return a
}

// AdToWire builds the create/update body for an ad.
func AdToWire(a models.Ad, forCreate bool) models.AdBody {
	mobile := "NO"
	if a.Mobile {
		mobile = "YES"
	}
	b := models.AdBody{
		TextAd: &models.TextAdExt{
			Title:          a.Title,
			Title2:         a.Title2,
			Text:           a.Text,
			Href:           a.Href,
			Mobile:         mobile,
			DisplayDomain:  a.DisplayDomain,
			DisplayURLPath: a.DisplayURLPath,
			VCardID:        a.VCardID,
			AdImageHash:    a.AdImageHash,
		},
	}
	if forCreate {
		b.AdGroupID = a.AdGroupID
	} else {
		b.ID = a.ID
		if a.State != models.StateDeletePending {
			b.State = a.State
		}
	}

	return b
}

// KeywordFromWire maps a fetched keyword body onto the replica's criterion
// model as the KEYWORD variant. Bids arrive in micro-units.
func KeywordFromWire(b models.KeywordBody) models.Criterion {
	return models.Criterion{
		ID:        b.ID,
		AdGroupID: b.AdGroupID,
		Variant:   models.CriterionKeyword,
		State:     b.State,
		Status:    b.Status,
		Keyword: &models.KeywordParams{
			Text:             b.Keyword,
			Bid:              fromMicro(b.Bid),
			ContextBid:       fromMicro(b.ContextBid),
			StrategyPriority: b.StrategyPriority,
			UserParam1:       b.UserParam1,
			UserParam2:       b.UserParam2,
		},
	}
}

// KeywordToWire builds the create/update body for a keyword criterion. The
// second return is false for variants the platform cannot manage; callers
// must skip those.
func KeywordToWire(c models.Criterion, forCreate bool) (models.KeywordBody, bool) {
	if !c.Pushable() || c.Keyword == nil {
		return models.KeywordBody{}, false
	}

	b := models.KeywordBody{
		Keyword:          c.Keyword.Text,
		Bid:              toMicro(c.Keyword.Bid),
		ContextBid:       toMicro(c.Keyword.ContextBid),
		StrategyPriority: c.Keyword.StrategyPriority,
		UserParam1:       c.Keyword.UserParam1,
		UserParam2:       c.Keyword.UserParam2,
	}
	if forCreate {
		b.AdGroupID = c.AdGroupID
	} else {
		b.ID = c.ID
		if c.State != models.StateDeletePending {
			b.State = c.State
		}
	}

	return b, true
}

// KeywordBidToWire builds one bid assignment; the bid arrives in kopecks and
// leaves in micro-units.
func KeywordBidToWire(keywordID, bidKopecks int64) models.KeywordBid {
	return models.KeywordBid{KeywordID: keywordID, SearchBid: toMicro(bidKopecks)}
}

// RegionFromWire maps one dictionary entry onto the replica model.
func RegionFromWire(b models.RegionBody) models.Region {
	return models.Region{
		ID:       b.GeoRegionID,
		Name:     b.GeoRegionName,
		Type:     b.GeoRegionType,
		ParentID: b.ParentID,
	}
}
