// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/config"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/utils"
	"github.com/MKhiriev/go-ads-sync/models"
)

type httpPlatformAPI struct {
	client *utils.HTTPClient

	retryAttempts uint64
	retryBase     time.Duration

	logger *logger.Logger
}

// NewHTTPPlatformAPI constructs the HTTP/JSON implementation of
// [PlatformAPI]. It normalises and validates the base URL from
// cfg.BaseURL and configures the underlying HTTP client with the resolved
// base URL and request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPPlatformAPI(cfg config.Platform, log *logger.Logger) (PlatformAPI, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid platform base url: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpPlatformAPI{
		client:        client,
		retryAttempts: cfg.RetryAttempts,
		retryBase:     cfg.RetryBaseDelay,
		logger:        log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// apiRequest is the platform's JSON call envelope.
type apiRequest struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

// apiResponse is the platform's JSON answer envelope: exactly one of Result
// and Error is set.
type apiResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *apiError       `json:"error"`
}

// call POSTs one method invocation to the given platform service and decodes
// the result envelope into out (when out is non-nil). Transient failures are
// retried inside; see retry.go.
func (h *httpPlatformAPI) call(ctx context.Context, s Session, service, method string, params, out any) error {
	log := logger.FromContext(ctx)

	body, err := h.callRaw(ctx, s, service, apiRequest{Method: method, Params: params})
	if err != nil {
		log.Err(err).
			Str("func", "httpPlatformAPI.call").
			Str("service", service).
			Str("method", method).
			Str("login", s.Login).
			Msg("platform call failed")
		return err
	}

	if out == nil {
		return nil
	}
	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s.%s result: %w", service, method, err)
	}

	return nil
}

// selectionCriteria is the shared filter object of fetch and state calls.
// Empty slices are omitted so that an absent filter dimension stays absent on
// the wire.
type selectionCriteria struct {
	IDs         []int64  `json:"Ids,omitempty"`
	CampaignIDs []int64  `json:"CampaignIds,omitempty"`
	AdGroupIDs  []int64  `json:"AdGroupIds,omitempty"`
	Types       []string `json:"Types,omitempty"`
	States      []string `json:"States,omitempty"`
}

// CheckDictionaries implements [PlatformAPI]. An empty lastTimestamp asks the
// server only for its current timestamp (used to bootstrap a checkpoint).
func (h *httpPlatformAPI) CheckDictionaries(ctx context.Context, s Session, lastTimestamp string) (models.DictionaryChangesResult, error) {
	params := map[string]any{}
	if lastTimestamp != "" {
		params["Timestamp"] = lastTimestamp
	}

	var result models.DictionaryChangesResult
	if err := h.call(ctx, s, "changes", "checkDictionaries", params, &result); err != nil {
		return models.DictionaryChangesResult{}, fmt.Errorf("check dictionaries: %w", err)
	}

	return result, nil
}

// CheckCampaigns implements [PlatformAPI]. It returns the per-campaign
// self/children change bits since lastTimestamp.
func (h *httpPlatformAPI) CheckCampaigns(ctx context.Context, s Session, lastTimestamp string) (models.HierarchyChangesResult, error) {
	params := map[string]any{"Timestamp": lastTimestamp}

	var result models.HierarchyChangesResult
	if err := h.call(ctx, s, "changes", "checkCampaigns", params, &result); err != nil {
		return models.HierarchyChangesResult{}, fmt.Errorf("check campaigns: %w", err)
	}

	return result, nil
}

// CheckChanges implements [PlatformAPI]. It runs a targeted child-change or
// existence check for explicit id sets.
func (h *httpPlatformAPI) CheckChanges(ctx context.Context, s Session, req models.ChildChangesRequest) (models.ChildChangesResult, error) {
	var result models.ChildChangesResult
	if err := h.call(ctx, s, "changes", "check", req, &result); err != nil {
		return models.ChildChangesResult{}, fmt.Errorf("check changes: %w", err)
	}

	return result, nil
}

// campaignFieldNames are the campaign fields the replica manages.
var campaignFieldNames = []string{
	"Id", "Name", "State", "Status", "Type", "StartDate",
	"DailyBudget", "NegativeKeywords",
}

// GetCampaigns implements [PlatformAPI]. A nil ids slice fetches every
// non-archived campaign of the account.
func (h *httpPlatformAPI) GetCampaigns(ctx context.Context, s Session, ids []int64) ([]models.CampaignBody, error) {
	criteria := selectionCriteria{
		IDs:    ids,
		Types:  []string{"TEXT_CAMPAIGN", "DYNAMIC_TEXT_CAMPAIGN", "SMART_CAMPAIGN"},
		States: []string{"OFF", "ON", "SUSPENDED"},
	}
	params := map[string]any{
		"SelectionCriteria": criteria,
		"FieldNames":        campaignFieldNames,
	}

	var result struct {
		Campaigns []models.CampaignBody `json:"Campaigns"`
	}
	if err := h.call(ctx, s, "campaigns", "get", params, &result); err != nil {
		return nil, fmt.Errorf("get campaigns: %w", err)
	}

	return result.Campaigns, nil
}

// GetAdGroups implements [PlatformAPI].
func (h *httpPlatformAPI) GetAdGroups(ctx context.Context, s Session, campaignIDs, groupIDs []int64) ([]models.AdGroupBody, error) {
	params := map[string]any{
		"SelectionCriteria": selectionCriteria{IDs: groupIDs, CampaignIDs: campaignIDs},
		"FieldNames": []string{
			"Id", "CampaignId", "Name", "ServingStatus", "Status",
			"RegionIds", "NegativeKeywords",
		},
	}

	var result struct {
		AdGroups []models.AdGroupBody `json:"AdGroups"`
	}
	if err := h.call(ctx, s, "adgroups", "get", params, &result); err != nil {
		return nil, fmt.Errorf("get ad groups: %w", err)
	}

	return result.AdGroups, nil
}

// GetAds implements [PlatformAPI].
func (h *httpPlatformAPI) GetAds(ctx context.Context, s Session, campaignIDs, adIDs []int64) ([]models.AdBody, error) {
	params := map[string]any{
		"SelectionCriteria": selectionCriteria{IDs: adIDs, CampaignIDs: campaignIDs, Types: []string{"TEXT_AD"}},
		"FieldNames":        []string{"Id", "AdGroupId", "State", "Status", "StatusClarification"},
		"TextAdFieldNames": []string{
			"Title", "Title2", "Text", "Href", "Mobile", "DisplayDomain",
			"DisplayUrlPath", "VCardId", "AdImageHash",
		},
	}

	var result struct {
		Ads []models.AdBody `json:"Ads"`
	}
	if err := h.call(ctx, s, "ads", "get", params, &result); err != nil {
		return nil, fmt.Errorf("get ads: %w", err)
	}

	return result.Ads, nil
}

// GetKeywords implements [PlatformAPI].
func (h *httpPlatformAPI) GetKeywords(ctx context.Context, s Session, campaignIDs, groupIDs []int64) ([]models.KeywordBody, error) {
	params := map[string]any{
		"SelectionCriteria": selectionCriteria{CampaignIDs: campaignIDs, AdGroupIDs: groupIDs},
		"FieldNames": []string{
			"Id", "AdGroupId", "Keyword", "State", "Status", "Bid",
			"ContextBid", "StrategyPriority", "UserParam1", "UserParam2",
		},
	}

	var result struct {
		Keywords []models.KeywordBody `json:"Keywords"`
	}
	if err := h.call(ctx, s, "keywords", "get", params, &result); err != nil {
		return nil, fmt.Errorf("get keywords: %w", err)
	}

	return result.Keywords, nil
}

// GetRegions implements [PlatformAPI]. The dictionary is always fetched
// whole; the detector decides when a reload is due.
func (h *httpPlatformAPI) GetRegions(ctx context.Context, s Session) ([]models.RegionBody, error) {
	params := map[string]any{"DictionaryNames": []string{"GeoRegions"}}

	var result struct {
		GeoRegions []models.RegionBody `json:"GeoRegions"`
	}
	if err := h.call(ctx, s, "dictionaries", "get", params, &result); err != nil {
		return nil, fmt.Errorf("get regions: %w", err)
	}

	return result.GeoRegions, nil
}

// actionResult is one entry of an Add/Update/<action>Results list.
type actionResult struct {
	ID     int64          `json:"Id"`
	Errors []resultDetail `json:"Errors,omitempty"`
}

type resultDetail struct {
	Code    int    `json:"Code"`
	Message string `json:"Message"`
	Details string `json:"Details,omitempty"`
}

// collectIDs validates an order-preserving result list against the request
// size and extracts the resulting ids. Item-level rejections become an
// [ErrValidation] carrying one [BatchItemError] per rejected item; a count
// mismatch or a missing id is fatal for the cycle.
func collectIDs(results []actionResult, want int, requireID bool) ([]int64, error) {
	if len(results) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrResultCountMismatch, len(results), want)
	}

	var itemErrs []error
	ids := make([]int64, 0, len(results))
	for i, res := range results {
		if len(res.Errors) > 0 {
			for _, detail := range res.Errors {
				itemErrs = append(itemErrs, BatchItemError{Index: i, Code: detail.Code, Message: detail.Message})
			}
			ids = append(ids, 0)
			continue
		}
		if requireID && res.ID == 0 {
			return nil, fmt.Errorf("%w: item %d", ErrMissingResultID, i)
		}
		ids = append(ids, res.ID)
	}

	if len(itemErrs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidation, joinErrors(itemErrs))
	}

	return ids, nil
}

func joinErrors(errs []error) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// CreateCampaigns implements [PlatformAPI].
func (h *httpPlatformAPI) CreateCampaigns(ctx context.Context, s Session, bodies []models.CampaignBody) ([]int64, error) {
	var result struct {
		AddResults []actionResult `json:"AddResults"`
	}
	if err := h.call(ctx, s, "campaigns", "add", map[string]any{"Campaigns": bodies}, &result); err != nil {
		return nil, fmt.Errorf("add campaigns: %w", err)
	}
	return collectIDs(result.AddResults, len(bodies), true)
}

// CreateAdGroups implements [PlatformAPI].
func (h *httpPlatformAPI) CreateAdGroups(ctx context.Context, s Session, bodies []models.AdGroupBody) ([]int64, error) {
	var result struct {
		AddResults []actionResult `json:"AddResults"`
	}
	if err := h.call(ctx, s, "adgroups", "add", map[string]any{"AdGroups": bodies}, &result); err != nil {
		return nil, fmt.Errorf("add ad groups: %w", err)
	}
	return collectIDs(result.AddResults, len(bodies), true)
}

// CreateAds implements [PlatformAPI].
func (h *httpPlatformAPI) CreateAds(ctx context.Context, s Session, bodies []models.AdBody) ([]int64, error) {
	var result struct {
		AddResults []actionResult `json:"AddResults"`
	}
	if err := h.call(ctx, s, "ads", "add", map[string]any{"Ads": bodies}, &result); err != nil {
		return nil, fmt.Errorf("add ads: %w", err)
	}
	return collectIDs(result.AddResults, len(bodies), true)
}

// CreateKeywords implements [PlatformAPI].
func (h *httpPlatformAPI) CreateKeywords(ctx context.Context, s Session, bodies []models.KeywordBody) ([]int64, error) {
	var result struct {
		AddResults []actionResult `json:"AddResults"`
	}
	if err := h.call(ctx, s, "keywords", "add", map[string]any{"Keywords": bodies}, &result); err != nil {
		return nil, fmt.Errorf("add keywords: %w", err)
	}
	return collectIDs(result.AddResults, len(bodies), true)
}

// UpdateCampaigns implements [PlatformAPI]. The returned ids must be checked
// against the sent ids: the platform may answer with a replacement id, which
// the caller treats like a remap.
func (h *httpPlatformAPI) UpdateCampaigns(ctx context.Context, s Session, bodies []models.CampaignBody) ([]int64, error) {
	var result struct {
		UpdateResults []actionResult `json:"UpdateResults"`
	}
	if err := h.call(ctx, s, "campaigns", "update", map[string]any{"Campaigns": bodies}, &result); err != nil {
		return nil, fmt.Errorf("update campaigns: %w", err)
	}
	return collectIDs(result.UpdateResults, len(bodies), false)
}

// UpdateAdGroups implements [PlatformAPI].
func (h *httpPlatformAPI) UpdateAdGroups(ctx context.Context, s Session, bodies []models.AdGroupBody) ([]int64, error) {
	var result struct {
		UpdateResults []actionResult `json:"UpdateResults"`
	}
	if err := h.call(ctx, s, "adgroups", "update", map[string]any{"AdGroups": bodies}, &result); err != nil {
		return nil, fmt.Errorf("update ad groups: %w", err)
	}
	return collectIDs(result.UpdateResults, len(bodies), false)
}

// UpdateAds implements [PlatformAPI].
func (h *httpPlatformAPI) UpdateAds(ctx context.Context, s Session, bodies []models.AdBody) ([]int64, error) {
	var result struct {
		UpdateResults []actionResult `json:"UpdateResults"`
	}
	if err := h.call(ctx, s, "ads", "update", map[string]any{"Ads": bodies}, &result); err != nil {
		return nil, fmt.Errorf("update ads: %w", err)
	}
	return collectIDs(result.UpdateResults, len(bodies), false)
}

// UpdateKeywords implements [PlatformAPI].
func (h *httpPlatformAPI) UpdateKeywords(ctx context.Context, s Session, bodies []models.KeywordBody) ([]int64, error) {
	var result struct {
		UpdateResults []actionResult `json:"UpdateResults"`
	}
	if err := h.call(ctx, s, "keywords", "update", map[string]any{"Keywords": bodies}, &result); err != nil {
		return nil, fmt.Errorf("update keywords: %w", err)
	}
	return collectIDs(result.UpdateResults, len(bodies), false)
}

// serviceForKind maps an entity kind to its platform service path.
func serviceForKind(kind models.EntityKind) string {
	switch kind {
	case models.KindCampaign:
		return "campaigns"
	case models.KindAdGroup:
		return "adgroups"
	case models.KindAd:
		return "ads"
	case models.KindCriterion:
		return "keywords"
	default:
		return strings.ToLower(string(kind))
	}
}

// SetState implements [PlatformAPI]. The action name doubles as the wire
// method; the result list is count-checked like any other batch answer.
func (h *httpPlatformAPI) SetState(ctx context.Context, s Session, kind models.EntityKind, ids []int64, action models.StateAction) error {
	params := map[string]any{"SelectionCriteria": selectionCriteria{IDs: ids}}

	var result map[string][]actionResult
	if err := h.call(ctx, s, serviceForKind(kind), string(action), params, &result); err != nil {
		return fmt.Errorf("%s %s: %w", action, kind, err)
	}

	for _, results := range result {
		if _, err := collectIDs(results, len(ids), false); err != nil {
			return fmt.Errorf("%s %s: %w", action, kind, err)
		}
	}

	return nil
}

// ModerateAds implements [PlatformAPI].
func (h *httpPlatformAPI) ModerateAds(ctx context.Context, s Session, ids []int64) ([]int64, error) {
	params := map[string]any{"SelectionCriteria": selectionCriteria{IDs: ids}}

	var result struct {
		ModerateResults []actionResult `json:"ModerateResults"`
	}
	if err := h.call(ctx, s, "ads", "moderate", params, &result); err != nil {
		return nil, fmt.Errorf("moderate ads: %w", err)
	}
	return collectIDs(result.ModerateResults, len(ids), false)
}

// SetBids implements [PlatformAPI].
func (h *httpPlatformAPI) SetBids(ctx context.Context, s Session, bids []models.KeywordBid) error {
	var result struct {
		SetResults []actionResult `json:"SetResults"`
	}
	if err := h.call(ctx, s, "keywordbids", "set", map[string]any{"KeywordBids": bids}, &result); err != nil {
		return fmt.Errorf("set bids: %w", err)
	}
	if _, err := collectIDs(result.SetResults, len(bids), false); err != nil {
		return fmt.Errorf("set bids: %w", err)
	}
	return nil
}
