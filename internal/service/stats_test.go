// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Pull_FirstPullAsksAllTime(t *testing.T) {
	storages, campaigns, _, _, _ := newTestStorages()
	campaigns.remoteIDs = []int64{10}
	stats := &fakeStats{}
	storages.Stats = stats

	var gotReq models.ReportRequest
	api := &fakePlatform{
		report: func(req models.ReportRequest) ([]models.StatRow, error) {
			gotReq = req
			return []models.StatRow{{Date: time.Now(), CampaignID: 10, Shows: 5}}, nil
		},
	}

	s := NewStatsService(api, storages, testLogger())
	require.NoError(t, s.Pull(context.Background(), adapter.Session{}, "acc"))

	assert.Equal(t, models.RangeAllTime, gotReq.RangeType)
	assert.Equal(t, []int64{10}, gotReq.CampaignIDs)
	assert.NotEmpty(t, gotReq.ReportName)
	require.Len(t, stats.rows, 1)
}

func TestStatsService_Pull_LaterPullsReaskFromLastDate(t *testing.T) {
	lastDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	storages, campaigns, _, _, _ := newTestStorages()
	campaigns.remoteIDs = []int64{10}
	stats := &fakeStats{lastDate: lastDate}
	storages.Stats = stats

	var gotReq models.ReportRequest
	api := &fakePlatform{
		report: func(req models.ReportRequest) ([]models.StatRow, error) {
			gotReq = req
			return nil, nil
		},
	}

	s := NewStatsService(api, storages, testLogger())
	require.NoError(t, s.Pull(context.Background(), adapter.Session{}, "acc"))

	require.Equal(t, models.RangeCustomDate, gotReq.RangeType)
	from, err := time.Parse("2006-01-02", gotReq.DateFrom)
	require.NoError(t, err)
	to, err := time.Parse("2006-01-02", gotReq.DateTo)
	require.NoError(t, err)

	// платформа пересчитывает свежие дни, окно начинается за неделю до
	// последней сохранённой строки
	assert.True(t, from.Equal(lastDate.AddDate(0, 0, -7)))
	yesterday := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	assert.True(t, to.Equal(yesterday))
}

func TestStatsService_Pull_WindowCoversOutageGap(t *testing.T) {
	// статистика не тянулась месяц: окно всё равно стартует от последней
	// сохранённой даты, пропуска не остаётся
	lastDate := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -30)

	storages, campaigns, _, _, _ := newTestStorages()
	campaigns.remoteIDs = []int64{10}
	stats := &fakeStats{lastDate: lastDate}
	storages.Stats = stats

	var gotReq models.ReportRequest
	api := &fakePlatform{
		report: func(req models.ReportRequest) ([]models.StatRow, error) {
			gotReq = req
			return nil, nil
		},
	}

	s := NewStatsService(api, storages, testLogger())
	require.NoError(t, s.Pull(context.Background(), adapter.Session{}, "acc"))

	from, err := time.Parse("2006-01-02", gotReq.DateFrom)
	require.NoError(t, err)
	assert.True(t, from.Before(lastDate) || from.Equal(lastDate))
	assert.True(t, from.Equal(lastDate.AddDate(0, 0, -7)))
}

func TestStatsService_Pull_NoCampaignsIsNoop(t *testing.T) {
	storages, _, _, _, _ := newTestStorages()

	called := false
	api := &fakePlatform{
		report: func(models.ReportRequest) ([]models.StatRow, error) {
			called = true
			return nil, nil
		},
	}

	s := NewStatsService(api, storages, testLogger())
	require.NoError(t, s.Pull(context.Background(), adapter.Session{}, "acc"))
	assert.False(t, called)
}

func TestStatsService_Pull_StubsUnknownCriteria(t *testing.T) {
	storages, campaigns, groups, _, criteria := newTestStorages()
	campaigns.remoteIDs = []int64{10}
	groups.remoteIDs = []int64{20}

	api := &fakePlatform{
		report: func(models.ReportRequest) ([]models.StatRow, error) {
			return []models.StatRow{
				{CampaignID: 10, AdGroupID: 20, CriterionID: 900}, // фраза удалена удалённо
				{CampaignID: 10, AdGroupID: 99, CriterionID: 901}, // группа реплике неизвестна
				{CampaignID: 10, AdGroupID: 20, CriterionID: 0},   // строка без критерия
			}, nil
		},
	}

	s := NewStatsService(api, storages, testLogger())
	require.NoError(t, s.Pull(context.Background(), adapter.Session{}, "acc"))

	require.Len(t, criteria.stubs, 1)
	assert.Equal(t, []int64{900}, criteria.stubs[20])
}
