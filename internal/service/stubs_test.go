// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/store"
	"github.com/MKhiriev/go-ads-sync/models"
)

// Ручные моки вместо mockgen: методы задаются функциями-полями, незаданный
// метод возвращает нулевые значения.

type fakePlatform struct {
	checkDictionaries func(lastTimestamp string) (models.DictionaryChangesResult, error)
	checkCampaigns    func(lastTimestamp string) (models.HierarchyChangesResult, error)
	checkChanges      func(req models.ChildChangesRequest) (models.ChildChangesResult, error)

	getCampaigns func(ids []int64) ([]models.CampaignBody, error)
	getAdGroups  func(campaignIDs, groupIDs []int64) ([]models.AdGroupBody, error)
	getAds       func(campaignIDs, adIDs []int64) ([]models.AdBody, error)
	getKeywords  func(campaignIDs, groupIDs []int64) ([]models.KeywordBody, error)
	getRegions   func() ([]models.RegionBody, error)

	createCampaigns func(bodies []models.CampaignBody) ([]int64, error)
	createAdGroups  func(bodies []models.AdGroupBody) ([]int64, error)
	createAds       func(bodies []models.AdBody) ([]int64, error)
	createKeywords  func(bodies []models.KeywordBody) ([]int64, error)

	updateCampaigns func(bodies []models.CampaignBody) ([]int64, error)
	updateAdGroups  func(bodies []models.AdGroupBody) ([]int64, error)
	updateAds       func(bodies []models.AdBody) ([]int64, error)
	updateKeywords  func(bodies []models.KeywordBody) ([]int64, error)

	setState    func(kind models.EntityKind, ids []int64, action models.StateAction) error
	moderateAds func(ids []int64) ([]int64, error)
	setBids     func(bids []models.KeywordBid) error
	report      func(req models.ReportRequest) ([]models.StatRow, error)
}

func (f *fakePlatform) CheckDictionaries(_ context.Context, _ adapter.Session, ts string) (models.DictionaryChangesResult, error) {
	if f.checkDictionaries == nil {
		return models.DictionaryChangesResult{}, nil
	}
	return f.checkDictionaries(ts)
}

func (f *fakePlatform) CheckCampaigns(_ context.Context, _ adapter.Session, ts string) (models.HierarchyChangesResult, error) {
	if f.checkCampaigns == nil {
		return models.HierarchyChangesResult{}, nil
	}
	return f.checkCampaigns(ts)
}

func (f *fakePlatform) CheckChanges(_ context.Context, _ adapter.Session, req models.ChildChangesRequest) (models.ChildChangesResult, error) {
	if f.checkChanges == nil {
		return models.ChildChangesResult{}, nil
	}
	return f.checkChanges(req)
}

func (f *fakePlatform) GetCampaigns(_ context.Context, _ adapter.Session, ids []int64) ([]models.CampaignBody, error) {
	if f.getCampaigns == nil {
		return nil, nil
	}
	return f.getCampaigns(ids)
}

func (f *fakePlatform) GetAdGroups(_ context.Context, _ adapter.Session, campaignIDs, groupIDs []int64) ([]models.AdGroupBody, error) {
	if f.getAdGroups == nil {
		return nil, nil
	}
	return f.getAdGroups(campaignIDs, groupIDs)
}

func (f *fakePlatform) GetAds(_ context.Context, _ adapter.Session, campaignIDs, adIDs []int64) ([]models.AdBody, error) {
	if f.getAds == nil {
		return nil, nil
	}
	return f.getAds(campaignIDs, adIDs)
}

func (f *fakePlatform) GetKeywords(_ context.Context, _ adapter.Session, campaignIDs, groupIDs []int64) ([]models.KeywordBody, error) {
	if f.getKeywords == nil {
		return nil, nil
	}
	return f.getKeywords(campaignIDs, groupIDs)
}

func (f *fakePlatform) GetRegions(_ context.Context, _ adapter.Session) ([]models.RegionBody, error) {
	if f.getRegions == nil {
		return nil, nil
	}
	return f.getRegions()
}

func (f *fakePlatform) CreateCampaigns(_ context.Context, _ adapter.Session, bodies []models.CampaignBody) ([]int64, error) {
	if f.createCampaigns == nil {
		return nil, nil
	}
	return f.createCampaigns(bodies)
}

func (f *fakePlatform) CreateAdGroups(_ context.Context, _ adapter.Session, bodies []models.AdGroupBody) ([]int64, error) {
	if f.createAdGroups == nil {
		return nil, nil
	}
	return f.createAdGroups(bodies)
}

func (f *fakePlatform) CreateAds(_ context.Context, _ adapter.Session, bodies []models.AdBody) ([]int64, error) {
	if f.createAds == nil {
		return nil, nil
	}
	return f.createAds(bodies)
}

func (f *fakePlatform) CreateKeywords(_ context.Context, _ adapter.Session, bodies []models.KeywordBody) ([]int64, error) {
	if f.createKeywords == nil {
		return nil, nil
	}
	return f.createKeywords(bodies)
}

func (f *fakePlatform) UpdateCampaigns(_ context.Context, _ adapter.Session, bodies []models.CampaignBody) ([]int64, error) {
	if f.updateCampaigns == nil {
		return make([]int64, len(bodies)), nil
	}
	return f.updateCampaigns(bodies)
}

func (f *fakePlatform) UpdateAdGroups(_ context.Context, _ adapter.Session, bodies []models.AdGroupBody) ([]int64, error) {
	if f.updateAdGroups == nil {
		return make([]int64, len(bodies)), nil
	}
	return f.updateAdGroups(bodies)
}

func (f *fakePlatform) UpdateAds(_ context.Context, _ adapter.Session, bodies []models.AdBody) ([]int64, error) {
	if f.updateAds == nil {
		return make([]int64, len(bodies)), nil
	}
	return f.updateAds(bodies)
}

func (f *fakePlatform) UpdateKeywords(_ context.Context, _ adapter.Session, bodies []models.KeywordBody) ([]int64, error) {
	if f.updateKeywords == nil {
		return make([]int64, len(bodies)), nil
	}
	return f.updateKeywords(bodies)
}

func (f *fakePlatform) SetState(_ context.Context, _ adapter.Session, kind models.EntityKind, ids []int64, action models.StateAction) error {
	if f.setState == nil {
		return nil
	}
	return f.setState(kind, ids, action)
}

func (f *fakePlatform) ModerateAds(_ context.Context, _ adapter.Session, ids []int64) ([]int64, error) {
	if f.moderateAds == nil {
		return ids, nil
	}
	return f.moderateAds(ids)
}

func (f *fakePlatform) SetBids(_ context.Context, _ adapter.Session, bids []models.KeywordBid) error {
	if f.setBids == nil {
		return nil
	}
	return f.setBids(bids)
}

func (f *fakePlatform) Report(_ context.Context, _ adapter.Session, req models.ReportRequest) ([]models.StatRow, error) {
	if f.report == nil {
		return nil, nil
	}
	return f.report(req)
}

// stateCall фиксирует один вызов SetState для проверки порядка операций.
type stateCall struct {
	kind   models.EntityKind
	ids    []int64
	action models.StateAction
}

type fakeAccounts struct {
	accounts []models.Account
}

func (f *fakeAccounts) ListActive(context.Context) ([]models.Account, error) {
	var active []models.Account
	for _, a := range f.accounts {
		if !a.Disabled {
			active = append(active, a)
		}
	}
	return active, nil
}

func (f *fakeAccounts) Get(_ context.Context, login string) (models.Account, error) {
	for _, a := range f.accounts {
		if a.Login == login {
			return a, nil
		}
	}
	return models.Account{}, store.ErrAccountNotFound
}

func (f *fakeAccounts) Upsert(_ context.Context, account models.Account) error {
	f.accounts = append(f.accounts, account)
	return nil
}

type fakeCheckpoints struct {
	checkpoints map[string]models.Checkpoint
	saved       []models.Checkpoint
	saveErr     error
}

func (f *fakeCheckpoints) Get(_ context.Context, login string) (models.Checkpoint, error) {
	return f.checkpoints[login], nil
}

func (f *fakeCheckpoints) Save(_ context.Context, cp models.Checkpoint) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.checkpoints == nil {
		f.checkpoints = map[string]models.Checkpoint{}
	}
	f.checkpoints[cp.Login] = cp
	f.saved = append(f.saved, cp)
	return nil
}

type fakeCampaigns struct {
	store.CampaignRepository

	byID        map[int64]models.Campaign
	remoteIDs   []int64
	syncRecords []models.SyncRecord

	upserted []models.Campaign
	deleted  []int64
	states   []stateCall
	remaps   [][2]int64
}

func (f *fakeCampaigns) Get(_ context.Context, id int64) (models.Campaign, error) {
	c, ok := f.byID[id]
	if !ok {
		return models.Campaign{}, store.ErrEntityNotFound
	}
	return c, nil
}

func (f *fakeCampaigns) ListByLogin(_ context.Context, login string) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	for _, c := range f.byID {
		if c.Login == login {
			campaigns = append(campaigns, c)
		}
	}
	return campaigns, nil
}

func (f *fakeCampaigns) Upsert(_ context.Context, campaigns ...models.Campaign) error {
	f.upserted = append(f.upserted, campaigns...)
	return nil
}

func (f *fakeCampaigns) Delete(_ context.Context, ids ...int64) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeCampaigns) SetState(_ context.Context, state models.State, ids ...int64) error {
	f.states = append(f.states, stateCall{kind: models.KindCampaign, ids: ids, action: models.StateAction(state)})
	return nil
}

func (f *fakeCampaigns) RemoteIDs(context.Context, string) ([]int64, error) {
	return f.remoteIDs, nil
}

func (f *fakeCampaigns) SyncRecords(context.Context, string) ([]models.SyncRecord, error) {
	return f.syncRecords, nil
}

func (f *fakeCampaigns) Remap(_ context.Context, oldID, newID int64) error {
	f.remaps = append(f.remaps, [2]int64{oldID, newID})
	return nil
}

type fakeGroups struct {
	store.AdGroupRepository

	byID        map[int64]models.AdGroup
	byCampaign  map[int64][]models.AdGroup
	remoteIDs   []int64
	syncRecords []models.SyncRecord
	negatives   map[int64][]models.NegativeKeyword

	upserted []models.AdGroup
	deleted  []int64
	states   []stateCall
	remaps   [][2]int64
	replaced map[int64][]models.NegativeKeyword
}

func (f *fakeGroups) ListByCampaigns(_ context.Context, campaignIDs ...int64) ([]models.AdGroup, error) {
	var groups []models.AdGroup
	for _, id := range campaignIDs {
		groups = append(groups, f.byCampaign[id]...)
	}
	return groups, nil
}

func (f *fakeGroups) Get(_ context.Context, id int64) (models.AdGroup, error) {
	g, ok := f.byID[id]
	if !ok {
		return models.AdGroup{}, store.ErrEntityNotFound
	}
	return g, nil
}

func (f *fakeGroups) Upsert(_ context.Context, groups ...models.AdGroup) error {
	f.upserted = append(f.upserted, groups...)
	return nil
}

func (f *fakeGroups) Delete(_ context.Context, ids ...int64) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeGroups) SetState(_ context.Context, state models.State, ids ...int64) error {
	f.states = append(f.states, stateCall{kind: models.KindAdGroup, ids: ids, action: models.StateAction(state)})
	return nil
}

func (f *fakeGroups) RemoteIDs(context.Context, string) ([]int64, error) {
	return f.remoteIDs, nil
}

func (f *fakeGroups) SyncRecords(context.Context, string) ([]models.SyncRecord, error) {
	return f.syncRecords, nil
}

func (f *fakeGroups) Remap(_ context.Context, oldID, newID int64) error {
	f.remaps = append(f.remaps, [2]int64{oldID, newID})
	return nil
}

func (f *fakeGroups) ReplaceNegatives(_ context.Context, groupID int64, negatives []models.NegativeKeyword) error {
	if f.replaced == nil {
		f.replaced = map[int64][]models.NegativeKeyword{}
	}
	f.replaced[groupID] = negatives
	return nil
}

func (f *fakeGroups) NegativesFor(_ context.Context, groupIDs ...int64) (map[int64][]models.NegativeKeyword, error) {
	result := map[int64][]models.NegativeKeyword{}
	for _, id := range groupIDs {
		if items, ok := f.negatives[id]; ok {
			result[id] = items
		}
	}
	return result, nil
}

type fakeAds struct {
	store.AdRepository

	byID        map[int64]models.Ad
	byGroup     map[int64][]models.Ad
	remoteIDs   []int64
	syncRecords []models.SyncRecord

	upserted []models.Ad
	deleted  []int64
	states   []stateCall
	remaps   [][2]int64
}

func (f *fakeAds) ListByGroups(_ context.Context, groupIDs ...int64) ([]models.Ad, error) {
	var ads []models.Ad
	for _, id := range groupIDs {
		ads = append(ads, f.byGroup[id]...)
	}
	return ads, nil
}

func (f *fakeAds) Get(_ context.Context, id int64) (models.Ad, error) {
	a, ok := f.byID[id]
	if !ok {
		return models.Ad{}, store.ErrEntityNotFound
	}
	return a, nil
}

func (f *fakeAds) Upsert(_ context.Context, ads ...models.Ad) error {
	f.upserted = append(f.upserted, ads...)
	for _, a := range ads {
		if f.byID == nil {
			f.byID = map[int64]models.Ad{}
		}
		f.byID[a.ID] = a
	}
	return nil
}

func (f *fakeAds) Delete(_ context.Context, ids ...int64) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeAds) SetState(_ context.Context, state models.State, ids ...int64) error {
	f.states = append(f.states, stateCall{kind: models.KindAd, ids: ids, action: models.StateAction(state)})
	return nil
}

func (f *fakeAds) RemoteIDs(context.Context, string) ([]int64, error) {
	return f.remoteIDs, nil
}

func (f *fakeAds) SyncRecords(context.Context, string) ([]models.SyncRecord, error) {
	return f.syncRecords, nil
}

func (f *fakeAds) Remap(_ context.Context, oldID, newID int64) error {
	f.remaps = append(f.remaps, [2]int64{oldID, newID})
	return nil
}

type fakeCriteria struct {
	store.CriterionRepository

	byID        map[int64]models.Criterion
	byGroup     map[int64][]models.Criterion
	syncRecords []models.SyncRecord

	upserted []models.Criterion
	deleted  []int64
	states   []stateCall
	remaps   [][2]int64
	stubs    map[int64][]int64
}

func (f *fakeCriteria) ListByGroups(_ context.Context, groupIDs ...int64) ([]models.Criterion, error) {
	var criteria []models.Criterion
	for _, id := range groupIDs {
		criteria = append(criteria, f.byGroup[id]...)
	}
	return criteria, nil
}

func (f *fakeCriteria) Get(_ context.Context, id int64) (models.Criterion, error) {
	c, ok := f.byID[id]
	if !ok {
		return models.Criterion{}, store.ErrEntityNotFound
	}
	return c, nil
}

func (f *fakeCriteria) Upsert(_ context.Context, criteria ...models.Criterion) error {
	f.upserted = append(f.upserted, criteria...)
	return nil
}

func (f *fakeCriteria) Delete(_ context.Context, ids ...int64) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeCriteria) SetState(_ context.Context, state models.State, ids ...int64) error {
	f.states = append(f.states, stateCall{kind: models.KindCriterion, ids: ids, action: models.StateAction(state)})
	return nil
}

func (f *fakeCriteria) SyncRecords(context.Context, string) ([]models.SyncRecord, error) {
	return f.syncRecords, nil
}

func (f *fakeCriteria) Remap(_ context.Context, oldID, newID int64) error {
	f.remaps = append(f.remaps, [2]int64{oldID, newID})
	return nil
}

func (f *fakeCriteria) EnsureStubs(_ context.Context, groupID int64, ids ...int64) error {
	if f.stubs == nil {
		f.stubs = map[int64][]int64{}
	}
	f.stubs[groupID] = append(f.stubs[groupID], ids...)
	return nil
}

type fakeRegions struct {
	regions  []models.Region
	replaced []models.Region
}

func (f *fakeRegions) List(context.Context) ([]models.Region, error) {
	return f.regions, nil
}

func (f *fakeRegions) ReplaceAll(_ context.Context, regions []models.Region) error {
	f.replaced = regions
	return nil
}

type fakeChangeLog struct {
	fields   map[models.EntityKind]map[int64][]string
	appended []models.ChangeLogEntry
}

func (f *fakeChangeLog) Append(_ context.Context, entries ...models.ChangeLogEntry) error {
	f.appended = append(f.appended, entries...)
	return nil
}

func (f *fakeChangeLog) FieldsSince(_ context.Context, kind models.EntityKind, _ time.Time, _ ...int64) (map[int64][]string, error) {
	return f.fields[kind], nil
}

type fakeStats struct {
	lastDate time.Time
	rows     []models.StatRow
	from, to time.Time
}

func (f *fakeStats) ReplaceRange(_ context.Context, _ []int64, from, to time.Time, rows []models.StatRow) error {
	f.from, f.to, f.rows = from, to, rows
	return nil
}

func (f *fakeStats) LastDate(context.Context, []int64) (time.Time, error) {
	return f.lastDate, nil
}

type fakeIDs struct {
	next int64
}

func (f *fakeIDs) Next(context.Context) (int64, error) {
	f.next--
	return f.next, nil
}

// newTestStorages собирает Storages из пустых моков; тест донастраивает
// нужные ему поля.
func newTestStorages() (*store.Storages, *fakeCampaigns, *fakeGroups, *fakeAds, *fakeCriteria) {
	campaigns := &fakeCampaigns{}
	groups := &fakeGroups{}
	ads := &fakeAds{}
	criteria := &fakeCriteria{}

	storages := &store.Storages{
		Accounts:       &fakeAccounts{},
		Checkpoints:    &fakeCheckpoints{},
		Campaigns:      campaigns,
		AdGroups:       groups,
		Ads:            ads,
		Criteria:       criteria,
		Regions:        &fakeRegions{},
		ChangeLog:      &fakeChangeLog{},
		Stats:          &fakeStats{},
		PlaceholderIDs: &fakeIDs{},
	}

	return storages, campaigns, groups, ads, criteria
}

func testLogger() *logger.Logger {
	return logger.Nop()
}
