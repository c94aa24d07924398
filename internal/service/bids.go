package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/store"
	"github.com/MKhiriev/go-ads-sync/models"
)

// bidService implements [BidService]. Bids live inside keyword bodies and
// travel with creates and updates, but the platform's auto-strategies keep
// drifting them; re-asserting the replica's bids through the dedicated bid
// endpoint after each push keeps search bids pinned to the local values.
type bidService struct {
	api    adapter.PlatformAPI
	store  *store.Storages
	logger *logger.Logger
}

func NewBidService(api adapter.PlatformAPI, storages *store.Storages, log *logger.Logger) BidService {
	log.Debug().Msg("creating bid service")
	return &bidService{
		api:    api,
		store:  storages,
		logger: log,
	}
}

// bidChunkSize bounds one bid call; the endpoint caps the batch size.
const bidChunkSize = 1000

func (b *bidService) PushBids(ctx context.Context, s adapter.Session, login string) error {
	log := logger.FromContext(ctx)

	groupIDs, err := b.store.AdGroups.RemoteIDs(ctx, login)
	if err != nil {
		return fmt.Errorf("push bids: known groups: %w", err)
	}
	if len(groupIDs) == 0 {
		return nil
	}

	criteria, err := b.store.Criteria.ListByGroups(ctx, groupIDs...)
	if err != nil {
		return fmt.Errorf("push bids: list criteria: %w", err)
	}

	var bids []models.KeywordBid
	for _, c := range criteria {
		if !c.Pushable() || c.Keyword == nil || c.Keyword.Bid <= 0 {
			continue
		}
		if models.IsPlaceholderID(c.ID) || c.State == models.StateDeletePending {
			continue
		}
		bids = append(bids, adapter.KeywordBidToWire(c.ID, c.Keyword.Bid))
	}
	if len(bids) == 0 {
		return nil
	}

	for start := 0; start < len(bids); start += bidChunkSize {
		end := start + bidChunkSize
		if end > len(bids) {
			end = len(bids)
		}
		if err = b.api.SetBids(ctx, s, bids[start:end]); err != nil {
			return fmt.Errorf("push bids: %w", err)
		}
	}

	log.Debug().
		Str("func", "bidService.PushBids").
		Str("login", login).
		Int("bids", len(bids)).
		Msg("bids pushed")

	return nil
}
