// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/store"
	"github.com/MKhiriev/go-ads-sync/internal/utils"
	"github.com/MKhiriev/go-ads-sync/models"
)

// statsService implements [StatsService]. The first pull of an account asks
// for the whole history; every later pull asks from seven days before the
// newest stored row up to yesterday, because the platform keeps revising
// recent rows. The pulled window replaces the stored one atomically, so
// overlapping pulls never double-count.
type statsService struct {
	api    adapter.PlatformAPI
	store  *store.Storages
	uuid   *utils.UUIDGenerator
	logger *logger.Logger
}

func NewStatsService(api adapter.PlatformAPI, storages *store.Storages, log *logger.Logger) StatsService {
	log.Debug().Msg("creating stats service")
	return &statsService{
		api:    api,
		store:  storages,
		uuid:   utils.NewUUIDGenerator(),
		logger: log,
	}
}

const statsWindowDays = 7

func (s *statsService) Pull(ctx context.Context, sess adapter.Session, login string) error {
	log := logger.FromContext(ctx)

	campaignIDs, err := s.store.Campaigns.RemoteIDs(ctx, login)
	if err != nil {
		return fmt.Errorf("pull stats: known campaigns: %w", err)
	}
	if len(campaignIDs) == 0 {
		return nil
	}

	lastDate, err := s.store.Stats.LastDate(ctx, campaignIDs)
	if err != nil {
		return fmt.Errorf("pull stats: last date: %w", err)
	}

	yesterday := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	req := models.ReportRequest{
		ReportName:  fmt.Sprintf("replica-stats-%s-%s", login, s.uuid.Generate()),
		CampaignIDs: campaignIDs,
	}

	var from, to time.Time
	if lastDate.IsZero() {
		req.RangeType = models.RangeAllTime
		to = yesterday
	} else {
		// anchored at the newest stored row, not at today: after an outage
		// longer than the window nothing is skipped
		req.RangeType = models.RangeCustomDate
		from = lastDate.AddDate(0, 0, -statsWindowDays)
		to = yesterday
		req.DateFrom = from.Format("2006-01-02")
		req.DateTo = to.Format("2006-01-02")
	}

	rows, err := s.api.Report(ctx, sess, req)
	if err != nil {
		return fmt.Errorf("pull stats: %w", err)
	}

	if err = s.ensureCriterionStubs(ctx, login, rows); err != nil {
		return err
	}

	if err = s.store.Stats.ReplaceRange(ctx, campaignIDs, from, to, rows); err != nil {
		return fmt.Errorf("pull stats: store rows: %w", err)
	}

	log.Debug().
		Str("func", "statsService.Pull").
		Str("login", login).
		Str("range", string(req.RangeType)).
		Int("rows", len(rows)).
		Msg("stats pull finished")

	return nil
}

// ensureCriterionStubs inserts minimal keyword rows for criterion ids a
// report referenced but the replica does not know: phrases deleted remotely
// or criterion types the management API does not expose. Rows pointing at
// groups unknown to the replica are left alone.
func (s *statsService) ensureCriterionStubs(ctx context.Context, login string, rows []models.StatRow) error {
	groupIDs, err := s.store.AdGroups.RemoteIDs(ctx, login)
	if err != nil {
		return fmt.Errorf("pull stats: known groups: %w", err)
	}
	knownGroups := make(map[int64]bool, len(groupIDs))
	for _, id := range groupIDs {
		knownGroups[id] = true
	}

	byGroup := map[int64][]int64{}
	seen := map[int64]bool{}
	for _, row := range rows {
		if row.CriterionID <= 0 || seen[row.CriterionID] || !knownGroups[row.AdGroupID] {
			continue
		}
		seen[row.CriterionID] = true
		byGroup[row.AdGroupID] = append(byGroup[row.AdGroupID], row.CriterionID)
	}

	for groupID, ids := range byGroup {
		if err = s.store.Criteria.EnsureStubs(ctx, groupID, ids...); err != nil {
			return fmt.Errorf("pull stats: criterion stubs for group %d: %w", groupID, err)
		}
	}

	return nil
}
