// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CriterionKind tags the concrete variant stored in a Criterion record.
// The base record plus a kind tag replaces a multi-table inheritance scheme:
// one row, one identifier, variant-specific fields in the payload.
type CriterionKind string

const (
	CriterionKeyword       CriterionKind = "KEYWORD"
	CriterionDynamicTarget CriterionKind = "DYNAMIC_TARGET"
)

// StrategyPriority is the auto-strategy priority of a keyword.
type StrategyPriority string

const (
	PriorityLow    StrategyPriority = "LOW"
	PriorityNormal StrategyPriority = "NORMAL"
	PriorityHigh   StrategyPriority = "HIGH"
)

// Criterion is one targeting criterion of an ad group: a keyword phrase or a
// dynamic-feed target, discriminated by Variant.
//
// Bids are stored in kopecks; the wire carries micro-units.
type Criterion struct {
	ID        int64         `json:"id"`
	AdGroupID int64         `json:"ad_group_id"`
	Variant   CriterionKind `json:"variant"`
	State     State         `json:"state"`
	Status    Status        `json:"status"`

	Keyword       *KeywordParams       `json:"keyword,omitempty"`
	DynamicTarget *DynamicTargetParams `json:"dynamic_target,omitempty"`
}

// KeywordParams holds the keyword-variant fields of a criterion.
type KeywordParams struct {
	Text             string           `json:"text"`
	Bid              int64            `json:"bid,omitempty"`
	ContextBid       int64            `json:"context_bid,omitempty"`
	StrategyPriority StrategyPriority `json:"strategy_priority,omitempty"`
	UserParam1       string           `json:"user_param1,omitempty"`
	UserParam2       string           `json:"user_param2,omitempty"`
}

// DynamicTargetParams holds the dynamic-feed-target fields of a criterion.
// The platform exposes no management API for these; they arrive through
// reports only and are never pushed.
type DynamicTargetParams struct {
	Name     string  `json:"name"`
	MinPrice int64   `json:"min_price,omitempty"`
	Rate     float64 `json:"rate,omitempty"`
}

// SyncRecord returns the flat classifier view of the criterion.
func (c Criterion) SyncRecord() SyncRecord {
	return SyncRecord{Kind: KindCriterion, ID: c.ID, ParentID: c.AdGroupID, State: c.State, Status: c.Status}
}

// Pushable reports whether the criterion variant can be managed through the
// platform API. Dynamic targets are report-only.
func (c Criterion) Pushable() bool {
	return c.Variant == CriterionKeyword
}
