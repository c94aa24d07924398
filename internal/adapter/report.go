// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/models"
)

// reportFieldNames fixes the report column order; parseReportRow relies on it.
var reportFieldNames = []string{
	"Date", "CampaignId", "AdGroupId", "AdId", "CriterionId",
	"Impressions", "Clicks", "TargetingLocationId", "Device",
	"Gender", "Age", "CarrierType", "MobilePlatform", "Slot",
}

type reportFilter struct {
	Field    string  `json:"Field"`
	Operator string  `json:"Operator"`
	Values   []int64 `json:"Values"`
}

type reportSelection struct {
	Filter   []reportFilter `json:"Filter,omitempty"`
	DateFrom string         `json:"DateFrom,omitempty"`
	DateTo   string         `json:"DateTo,omitempty"`
}

type reportParams struct {
	SelectionCriteria reportSelection `json:"SelectionCriteria"`
	FieldNames        []string        `json:"FieldNames"`
	ReportName        string          `json:"ReportName"`
	ReportType        string          `json:"ReportType"`
	DateRangeType     string          `json:"DateRangeType"`
	Format            string          `json:"Format"`
	IncludeVAT        string          `json:"IncludeVAT"`
	IncludeDiscount   string          `json:"IncludeDiscount"`
}

// Report implements [PlatformAPI]. The report endpoint differs from the rest
// of the platform: the answer is TSV, and a queued report (202) is polled by
// re-sending the same request until the platform answers 200.
func (h *httpPlatformAPI) Report(ctx context.Context, s Session, req models.ReportRequest) ([]models.StatRow, error) {
	log := logger.FromContext(ctx)

	params := reportParams{
		FieldNames:      reportFieldNames,
		ReportName:      req.ReportName,
		ReportType:      "CUSTOM_REPORT",
		DateRangeType:   string(req.RangeType),
		Format:          "TSV",
		IncludeVAT:      "YES",
		IncludeDiscount: "NO",
	}
	if len(req.CampaignIDs) > 0 {
		params.SelectionCriteria.Filter = []reportFilter{
			{Field: "CampaignId", Operator: "IN", Values: req.CampaignIDs},
		}
	}
	if req.RangeType == models.RangeCustomDate {
		params.SelectionCriteria.DateFrom = req.DateFrom
		params.SelectionCriteria.DateTo = req.DateTo
	}

	backoff := retry.WithMaxRetries(h.retryAttempts, retry.NewExponential(h.retryBase))

	var raw string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		body, err := h.postReport(ctx, s, params)
		if err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		raw = body
		return nil
	})
	if err != nil {
		if isTransient(err) {
			err = fmt.Errorf("%w: %w", ErrPlatformUnavailable, err)
		}
		log.Err(err).
			Str("func", "httpPlatformAPI.Report").
			Str("login", s.Login).
			Str("report", req.ReportName).
			Msg("report failed")
		return nil, fmt.Errorf("report %s: %w", req.ReportName, err)
	}

	return parseReport(raw)
}

func (h *httpPlatformAPI) postReport(ctx context.Context, s Session, params reportParams) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.Token).
		SetHeader("Client-Login", s.Login).
		SetHeader("Accept-Language", "en").
		SetHeader("processingMode", "auto").
		SetHeader("returnMoneyInMicros", "false").
		SetHeader("skipReportHeader", "true").
		SetHeader("skipColumnHeader", "true").
		SetHeader("skipReportSummary", "true").
		SetBody(map[string]any{"params": params}).
		Post("/reports")
	if err != nil {
		return "", transientError{err}
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusOK:
		return string(resp.Body()), nil
	case code == http.StatusCreated || code == http.StatusAccepted:
		// queued; the next attempt re-asks for the same report
		return "", transientError{fmt.Errorf("report not ready, http status %d", code)}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return "", fmt.Errorf("%w: http status %d", ErrUnauthorized, code)
	case code == http.StatusBadRequest:
		return "", fmt.Errorf("%w: %s", ErrValidation, strings.TrimSpace(string(resp.Body())))
	case code >= http.StatusInternalServerError:
		return "", transientError{fmt.Errorf("http status %d", code)}
	default:
		return "", fmt.Errorf("unexpected http status %d", code)
	}
}

// parseReport turns the header-less TSV body into rows. Columns follow
// reportFieldNames; the platform prints "--" for an absent dimension value.
func parseReport(raw string) ([]models.StatRow, error) {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	rows := make([]models.StatRow, 0, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		row, err := parseReportRow(line)
		if err != nil {
			return nil, fmt.Errorf("report line %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseReportRow(line string) (models.StatRow, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != len(reportFieldNames) {
		return models.StatRow{}, fmt.Errorf("got %d columns, want %d", len(fields), len(reportFieldNames))
	}

	date, err := time.Parse(wireDateLayout, fields[0])
	if err != nil {
		return models.StatRow{}, fmt.Errorf("bad date %q: %w", fields[0], err)
	}

	row := models.StatRow{
		Date:           date,
		Device:         reportString(fields[8]),
		Gender:         reportString(fields[9]),
		Age:            reportString(fields[10]),
		CarrierType:    reportString(fields[11]),
		MobilePlatform: reportString(fields[12]),
		Slot:           reportString(fields[13]),
	}
	for i, dst := range []*int64{
		&row.CampaignID, &row.AdGroupID, &row.AdID, &row.CriterionID,
		&row.Shows, &row.Clicks, &row.RegionID,
	} {
		if *dst, err = reportInt(fields[i+1]); err != nil {
			return models.StatRow{}, fmt.Errorf("bad %s value %q: %w", reportFieldNames[i+1], fields[i+1], err)
		}
	}

	return row, nil
}

func reportString(field string) string {
	if field == "--" {
		return ""
	}
	return field
}

func reportInt(field string) (int64, error) {
	if field == "--" || field == "" {
		return 0, nil
	}
	return strconv.ParseInt(field, 10, 64)
}
