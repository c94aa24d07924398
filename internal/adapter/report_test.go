// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-ads-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReportBody = "2026-08-30\t10\t20\t30\t40\t150\t12\t213\tDESKTOP\tGIRL_OR_WOMAN\tAGE_25_34\t--\t--\tPREMIUMBLOCK\n" +
	"2026-08-31\t10\t20\t30\t40\t98\t7\t--\tMOBILE\t--\t--\tCELLULAR\tANDROID\tOTHER\n"

func TestHTTPPlatformAPI_Report(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reports", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("skipReportHeader"))
		assert.Equal(t, "true", r.Header.Get("skipColumnHeader"))
		assert.Equal(t, "true", r.Header.Get("skipReportSummary"))
		assert.Equal(t, "false", r.Header.Get("returnMoneyInMicros"))

		var envelope struct {
			Params reportParams `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		assert.Equal(t, "TSV", envelope.Params.Format)
		assert.Equal(t, "ALL_TIME", envelope.Params.DateRangeType)
		require.Len(t, envelope.Params.SelectionCriteria.Filter, 1)
		assert.Equal(t, []int64{10}, envelope.Params.SelectionCriteria.Filter[0].Values)

		_, _ = w.Write([]byte(sampleReportBody))
	}))

	rows, err := api.Report(context.Background(), testSession(), models.ReportRequest{
		ReportName:  "replica-stats-acc-1",
		RangeType:   models.RangeAllTime,
		CampaignIDs: []int64{10},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, int64(10), first.CampaignID)
	assert.Equal(t, int64(40), first.CriterionID)
	assert.Equal(t, int64(150), first.Shows)
	assert.Equal(t, int64(12), first.Clicks)
	assert.Equal(t, int64(213), first.RegionID)
	assert.Empty(t, first.CarrierType, `"--" means the dimension is absent`)

	second := rows[1]
	assert.Zero(t, second.RegionID)
	assert.Equal(t, "ANDROID", second.MobilePlatform)
}

func TestHTTPPlatformAPI_Report_QueuedThenReady(t *testing.T) {
	var attempts int
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 2 {
			// отчёт поставлен в очередь, клиент переспрашивает тот же запрос
			w.WriteHeader(http.StatusAccepted)
			return
		}
		_, _ = w.Write([]byte(sampleReportBody))
	}))

	rows, err := api.Report(context.Background(), testSession(), models.ReportRequest{
		ReportName: "queued-report",
		RangeType:  models.RangeAllTime,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Len(t, rows, 2)
}

func TestHTTPPlatformAPI_Report_BadRequestIsValidation(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("invalid field name"))
	}))

	_, err := api.Report(context.Background(), testSession(), models.ReportRequest{
		ReportName: "broken",
		RangeType:  models.RangeAllTime,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseReport(t *testing.T) {
	t.Run("empty body yields no rows", func(t *testing.T) {
		rows, err := parseReport("")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("column count mismatch", func(t *testing.T) {
		_, err := parseReport("2026-08-30\t10\t20\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "columns")
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := parseReport("not-a-date\t10\t20\t30\t40\t1\t1\t1\tD\tG\tA\tC\tM\tS\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad date")
	})
}
