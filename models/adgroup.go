package models

// ServingStatus is the platform's serving eligibility of a group.
type ServingStatus string

const (
	ServingEligible     ServingStatus = "ELIGIBLE"
	ServingRarelyServed ServingStatus = "RARELY_SERVED"
)

// AdGroup is one ad group inside a campaign. Groups own ads, criteria and
// negative keywords.
//
// A group has no independent remote state transition (there is no
// suspend/resume call for groups), so any non-new, non-deleted local change
// classifies as content-changed. StateDeletePending is the only State value a
// group can carry.
type AdGroup struct {
	ID            int64         `json:"id"`
	CampaignID    int64         `json:"campaign_id"`
	Name          string        `json:"name"`
	State         State         `json:"state,omitempty"`
	Status        Status        `json:"status"`
	ServingStatus ServingStatus `json:"serving_status"`
	RegionIDs     []int64       `json:"region_ids,omitempty"`
}

// SyncRecord returns the flat classifier view of the group.
func (g AdGroup) SyncRecord() SyncRecord {
	return SyncRecord{Kind: KindAdGroup, ID: g.ID, ParentID: g.CampaignID, State: g.State, Status: g.Status}
}

// NegativeKeyword is one negative phrase attached to an ad group. It has no
// remote identifier of its own: identity is the (group, text) pair, and the
// whole set is replaced wholesale whenever the owning group is pulled or
// pushed.
type NegativeKeyword struct {
	AdGroupID int64  `json:"ad_group_id"`
	Text      string `json:"text"`
}
