// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter implements the outbound client for the remote advertising
// platform. It owns the wire protocol (JSON envelopes, money micro-units,
// TSV reports) and absorbs transient errors with retry, so that the service
// layer only sees the abstract contract defined by [PlatformAPI].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-ads-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/platform_api_mock.go -package=mock

// Session carries the per-account call scope: login, auth token, and the
// sandbox flag. Every PlatformAPI method takes a Session value explicitly;
// the adapter itself holds no mutable account state, which keeps concurrent
// per-account cycles safe.
type Session struct {
	Login   string
	Token   string
	Sandbox bool
}

// SessionForAccount builds the call scope for one account.
func SessionForAccount(a models.Account, sandbox bool) Session {
	return Session{Login: a.Login, Token: a.AuthToken, Sandbox: sandbox || a.Sandbox}
}

// PlatformAPI is the abstract contract of the remote advertising platform,
// independent of its wire format.
//
// Conventions shared by all methods:
//   - a nil/empty id slice on a fetch means "no filter on that dimension";
//     callers must short-circuit empty changed-id sets themselves, because
//     an empty filter would fetch everything;
//   - create and update calls are order-preserving: one resulting id per
//     input body, at the same index. A count mismatch is reported as
//     [ErrResultCountMismatch] and must abort the cycle, since it would
//     corrupt the id remap;
//   - transient failures (network, 5xx, rate limit) are retried internally
//     with exponential backoff; what comes back is either success or an
//     error that is final for this cycle.
type PlatformAPI interface {
	CheckDictionaries(ctx context.Context, s Session, lastTimestamp string) (models.DictionaryChangesResult, error)
	CheckCampaigns(ctx context.Context, s Session, lastTimestamp string) (models.HierarchyChangesResult, error)
	CheckChanges(ctx context.Context, s Session, req models.ChildChangesRequest) (models.ChildChangesResult, error)

	GetCampaigns(ctx context.Context, s Session, ids []int64) ([]models.CampaignBody, error)
	GetAdGroups(ctx context.Context, s Session, campaignIDs, groupIDs []int64) ([]models.AdGroupBody, error)
	GetAds(ctx context.Context, s Session, campaignIDs, adIDs []int64) ([]models.AdBody, error)
	GetKeywords(ctx context.Context, s Session, campaignIDs, groupIDs []int64) ([]models.KeywordBody, error)
	GetRegions(ctx context.Context, s Session) ([]models.RegionBody, error)

	CreateCampaigns(ctx context.Context, s Session, bodies []models.CampaignBody) ([]int64, error)
	CreateAdGroups(ctx context.Context, s Session, bodies []models.AdGroupBody) ([]int64, error)
	CreateAds(ctx context.Context, s Session, bodies []models.AdBody) ([]int64, error)
	CreateKeywords(ctx context.Context, s Session, bodies []models.KeywordBody) ([]int64, error)

	UpdateCampaigns(ctx context.Context, s Session, bodies []models.CampaignBody) ([]int64, error)
	UpdateAdGroups(ctx context.Context, s Session, bodies []models.AdGroupBody) ([]int64, error)
	UpdateAds(ctx context.Context, s Session, bodies []models.AdBody) ([]int64, error)
	UpdateKeywords(ctx context.Context, s Session, bodies []models.KeywordBody) ([]int64, error)

	// SetState applies one bulk state transition (suspend, resume, archive,
	// delete) to the given ids of one kind.
	SetState(ctx context.Context, s Session, kind models.EntityKind, ids []int64, action models.StateAction) error

	// ModerateAds submits draft ads for review and returns the accepted ids.
	ModerateAds(ctx context.Context, s Session, ids []int64) ([]int64, error)

	// SetBids pushes keyword bid assignments.
	SetBids(ctx context.Context, s Session, bids []models.KeywordBid) error

	// Report runs one batch statistics report and returns the parsed rows.
	Report(ctx context.Context, s Session, req models.ReportRequest) ([]models.StatRow, error)
}
