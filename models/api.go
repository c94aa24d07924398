// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Wire shapes of the remote advertising platform. Field names follow the
// platform's CamelCase JSON convention; money fields are micro-units
// (kopecks * 10_000).

// StateAction is one bulk state transition supported by the platform.
type StateAction string

const (
	ActionSuspend StateAction = "suspend"
	ActionResume  StateAction = "resume"
	ActionArchive StateAction = "archive"
	ActionDelete  StateAction = "delete"
)

// DictionaryChangesResult answers "did shared reference data change since the
// given timestamp". Timestamp is the server's current opaque timestamp and is
// returned even when nothing changed, so a first call with no prior
// checkpoint can bootstrap one.
type DictionaryChangesResult struct {
	RegionsChanged bool   `json:"RegionsChanged"`
	Timestamp      string `json:"Timestamp"`
}

// CampaignChange is the per-campaign bit pair of the coarse hierarchy check:
// whether the campaign's own fields changed and whether anything under it
// changed. Child-level detail requires a targeted follow-up query.
type CampaignChange struct {
	CampaignID      int64 `json:"CampaignId"`
	SelfChanged     bool  `json:"SelfChanged"`
	ChildrenChanged bool  `json:"ChildrenChanged"`
}

// HierarchyChangesResult is the answer of the top-level change check.
type HierarchyChangesResult struct {
	Campaigns []CampaignChange `json:"Campaigns"`
	Timestamp string           `json:"Timestamp"`
}

// ChildChangesRequest narrows a change or existence check to explicit parent
// or entity id sets. Exactly one id set is expected per call.
type ChildChangesRequest struct {
	CampaignIDs []int64  `json:"CampaignIds,omitempty"`
	AdGroupIDs  []int64  `json:"AdGroupIds,omitempty"`
	AdIDs       []int64  `json:"AdIds,omitempty"`
	FieldNames  []string `json:"FieldNames"`
	Timestamp   string   `json:"Timestamp"`
}

// ChildChangesResult enumerates the specific changed child ids for a
// targeted check, and the ids the platform no longer knows (deleted
// out-of-band) for an existence check.
type ChildChangesResult struct {
	ModifiedCampaignIDs []int64 `json:"ModifiedCampaignIds,omitempty"`
	ModifiedGroupIDs    []int64 `json:"ModifiedAdGroupIds,omitempty"`
	ModifiedAdIDs       []int64 `json:"ModifiedAdIds,omitempty"`
	NotFoundIDs         []int64 `json:"NotFoundIds,omitempty"`
	Timestamp           string  `json:"Timestamp"`
}

// DailyBudget is the embedded campaign budget object.
type DailyBudget struct {
	Amount int64      `json:"Amount"`
	Mode   BudgetMode `json:"Mode"`
}

// CampaignBody is the campaign wire object for fetch/create/update.
type CampaignBody struct {
	ID               int64            `json:"Id,omitempty"`
	Name             string           `json:"Name"`
	State            State            `json:"State,omitempty"`
	Status           Status           `json:"Status,omitempty"`
	Type             string           `json:"Type,omitempty"`
	StartDate        string           `json:"StartDate,omitempty"`
	DailyBudget      *DailyBudget     `json:"DailyBudget,omitempty"`
	NegativeKeywords *ItemsList       `json:"NegativeKeywords,omitempty"`
	TextCampaign     *TextCampaignExt `json:"TextCampaign,omitempty"`
}

// TextCampaignExt carries the type-specific part of a text campaign. Only
// the default bidding strategy is managed; everything else stays at platform
// defaults.
type TextCampaignExt struct {
	BiddingStrategy BiddingStrategy `json:"BiddingStrategy"`
}

// BiddingStrategy is the search/network strategy pair of a text campaign.
type BiddingStrategy struct {
	Search  StrategyPart `json:"Search"`
	Network StrategyPart `json:"Network"`
}

// StrategyPart names one placement's bidding strategy.
type StrategyPart struct {
	BiddingStrategyType string `json:"BiddingStrategyType"`
}

// ItemsList wraps the platform's {"Items": [...]} array envelope.
type ItemsList struct {
	Items []string `json:"Items"`
}

// AdGroupBody is the ad group wire object. NegativeKeywords is an embedded
// child collection: the loader expands it into first-class replica records
// and the serializer folds the records back in.
type AdGroupBody struct {
	ID               int64         `json:"Id,omitempty"`
	CampaignID       int64         `json:"CampaignId,omitempty"`
	Name             string        `json:"Name"`
	Status           Status        `json:"Status,omitempty"`
	ServingStatus    ServingStatus `json:"ServingStatus,omitempty"`
	RegionIDs        []int64       `json:"RegionIds,omitempty"`
	NegativeKeywords *ItemsList    `json:"NegativeKeywords,omitempty"`
}

// TextAdExt is the text-ad payload nested inside an ad wire object.
type TextAdExt struct {
	Title          string `json:"Title"`
	Title2         string `json:"Title2,omitempty"`
	Text           string `json:"Text"`
	Href           string `json:"Href"`
	Mobile         string `json:"Mobile,omitempty"`
	DisplayDomain  string `json:"DisplayDomain,omitempty"`
	DisplayURLPath string `json:"DisplayUrlPath,omitempty"`
	VCardID        int64  `json:"VCardId,omitempty"`
	AdImageHash    string `json:"AdImageHash,omitempty"`
}

// AdBody is the ad wire object.
type AdBody struct {
	ID                  int64      `json:"Id,omitempty"`
	AdGroupID           int64      `json:"AdGroupId,omitempty"`
	State               State      `json:"State,omitempty"`
	Status              Status     `json:"Status,omitempty"`
	StatusClarification string     `json:"StatusClarification,omitempty"`
	TextAd              *TextAdExt `json:"TextAd,omitempty"`
}

// KeywordBody is the keyword wire object.
type KeywordBody struct {
	ID               int64            `json:"Id,omitempty"`
	AdGroupID        int64            `json:"AdGroupId,omitempty"`
	Keyword          string           `json:"Keyword"`
	State            State            `json:"State,omitempty"`
	Status           Status           `json:"Status,omitempty"`
	Bid              int64            `json:"Bid,omitempty"`
	ContextBid       int64            `json:"ContextBid,omitempty"`
	StrategyPriority StrategyPriority `json:"StrategyPriority,omitempty"`
	UserParam1       string           `json:"UserParam1,omitempty"`
	UserParam2       string           `json:"UserParam2,omitempty"`
}

// RegionBody is one dictionary entry on the wire.
type RegionBody struct {
	GeoRegionID   int64  `json:"GeoRegionId"`
	GeoRegionName string `json:"GeoRegionName"`
	GeoRegionType string `json:"GeoRegionType"`
	ParentID      int64  `json:"ParentId,omitempty"`
}

// KeywordBid is one bid assignment pushed through the bid endpoint.
type KeywordBid struct {
	KeywordID int64 `json:"KeywordId"`
	SearchBid int64 `json:"SearchBid"`
}
