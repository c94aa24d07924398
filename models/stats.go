package models

import "time"

// DateRangeType selects the report window.
type DateRangeType string

const (
	RangeAllTime    DateRangeType = "ALL_TIME"
	RangeAuto       DateRangeType = "AUTO"
	RangeCustomDate DateRangeType = "CUSTOM_DATE"
)

// ReportRequest describes one batch statistics report. CampaignIDs scopes the
// report to the account's campaigns; DateFrom/DateTo apply only with
// RangeCustomDate.
type ReportRequest struct {
	ReportName  string
	RangeType   DateRangeType
	DateFrom    string
	DateTo      string
	CampaignIDs []int64
}

// StatRow is one parsed row of a statistics report, keyed by date and the
// full hierarchy path. Criterion ids in reports may reference phrases that no
// longer exist in the replica (deleted remotely or API-unmanaged); the stats
// loader creates stub criterion records for those.
type StatRow struct {
	Date           time.Time `json:"date"`
	CampaignID     int64     `json:"campaign_id"`
	AdGroupID      int64     `json:"ad_group_id"`
	AdID           int64     `json:"ad_id"`
	CriterionID    int64     `json:"criterion_id"`
	Shows          int64     `json:"shows"`
	Clicks         int64     `json:"clicks"`
	RegionID       int64     `json:"region_id"`
	Device         string    `json:"device"`
	Gender         string    `json:"gender"`
	Age            string    `json:"age"`
	CarrierType    string    `json:"carrier_type"`
	MobilePlatform string    `json:"mobile_platform"`
	Slot           string    `json:"slot"`
}
