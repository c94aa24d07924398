// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// BudgetMode is the daily budget spending mode of a campaign.
type BudgetMode string

const (
	BudgetStandard    BudgetMode = "STANDARD"
	BudgetDistributed BudgetMode = "DISTRIBUTED"
)

// Campaign is one advertising campaign of an account.
//
// Money note: DailyBudgetAmount is stored in kopecks. The platform transports
// money as micro-units (kopecks * 10_000); conversion happens at the wire
// boundary only.
type Campaign struct {
	ID      int64  `json:"id"`
	Login   string `json:"login"`
	Name    string `json:"name"`
	State   State  `json:"state"`
	Status  Status `json:"status"`
	Type    string `json:"type"`
	StartDate         time.Time  `json:"start_date"`
	DailyBudgetAmount int64      `json:"daily_budget_amount,omitempty"`
	DailyBudgetMode   BudgetMode `json:"daily_budget_mode,omitempty"`
}

// SyncRecord returns the flat classifier view of the campaign.
func (c Campaign) SyncRecord() SyncRecord {
	return SyncRecord{Kind: KindCampaign, ID: c.ID, State: c.State, Status: c.Status}
}
