package models

// Ad is one text ad inside an ad group.
//
// Lifecycle: a freshly created ad is OFF/DRAFT. After the moderation hook
// submits it, status becomes MODERATION. Only moderated ads can be suspended;
// a draft can only be deleted.
type Ad struct {
	ID                  int64  `json:"id"`
	AdGroupID           int64  `json:"ad_group_id"`
	State               State  `json:"state"`
	Status              Status `json:"status"`
	StatusClarification string `json:"status_clarification,omitempty"`

	Title          string `json:"title"`
	Title2         string `json:"title2,omitempty"`
	Text           string `json:"text"`
	Href           string `json:"href"`
	Mobile         bool   `json:"mobile"`
	DisplayDomain  string `json:"display_domain,omitempty"`
	DisplayURLPath string `json:"display_url_path,omitempty"`
	VCardID        int64  `json:"v_card_id,omitempty"`
	AdImageHash    string `json:"ad_image_hash,omitempty"`
}

// SyncRecord returns the flat classifier view of the ad.
func (a Ad) SyncRecord() SyncRecord {
	return SyncRecord{Kind: KindAd, ID: a.ID, ParentID: a.AdGroupID, State: a.State, Status: a.Status}
}
