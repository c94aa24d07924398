// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/adapter"
	"github.com/MKhiriev/go-ads-sync/internal/config"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/store"
	"github.com/MKhiriev/go-ads-sync/internal/utils"
	"github.com/MKhiriev/go-ads-sync/models"
)

// syncEngine implements [SyncEngine]. One cycle runs detect, load, classify,
// push, stats, and only then persists the checkpoint; any failure before
// that leaves the old checkpoint in place so the next cycle re-detects from
// the same point. Replica writes along the way are idempotent upserts, so a
// half-finished cycle converges on retry.
type syncEngine struct {
	sandbox       bool
	statsDisabled bool

	store      *store.Storages
	detector   ChangeDetector
	loader     RemoteLoader
	classifier Classifier
	pusher     Pusher
	stats      StatsService
	bids       BidService
	uuid       *utils.UUIDGenerator
	logger     *logger.Logger

	mu           sync.Mutex
	accountLocks map[string]*sync.Mutex
}

func NewSyncEngine(
	cfg *config.StructuredConfig,
	storages *store.Storages,
	detector ChangeDetector,
	loader RemoteLoader,
	classifier Classifier,
	pusher Pusher,
	stats StatsService,
	bids BidService,
	log *logger.Logger,
) SyncEngine {
	log.Debug().Msg("creating sync engine")
	return &syncEngine{
		sandbox:       cfg.Platform.Sandbox,
		statsDisabled: cfg.Workers.StatsDisabled,
		store:         storages,
		detector:      detector,
		loader:        loader,
		classifier:    classifier,
		pusher:        pusher,
		stats:         stats,
		bids:          bids,
		uuid:          utils.NewUUIDGenerator(),
		logger:        log,
		accountLocks:  make(map[string]*sync.Mutex),
	}
}

func (e *syncEngine) SyncAll(ctx context.Context) error {
	accounts, err := e.store.Accounts.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active accounts: %w", err)
	}

	var firstErr error
	for _, account := range accounts {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err = e.SyncAccount(ctx, account.Login); err != nil {
			e.logger.Err(err).
				Str("func", "syncEngine.SyncAll").
				Str("login", account.Login).
				Msg("account cycle failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (e *syncEngine) SyncAccount(ctx context.Context, login string) error {
	lock := e.lockFor(login)
	lock.Lock()
	defer lock.Unlock()

	account, err := e.store.Accounts.Get(ctx, login)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCycleFailed, err)
	}
	if account.Disabled {
		return fmt.Errorf("%w: %s", ErrAccountDisabled, login)
	}

	cycleID := e.uuid.Generate()
	cycleLogger := &logger.Logger{Logger: e.logger.With().
		Str("login", login).
		Str("cycle_id", cycleID).
		Logger()}
	ctx = cycleLogger.WithContext(ctx)

	start := time.Now()
	cycleLogger.Info().Str("func", "syncEngine.SyncAccount").Msg("cycle started")

	if err = e.runCycle(ctx, account); err != nil {
		cycleLogger.Err(err).
			Str("func", "syncEngine.SyncAccount").
			Dur("took", time.Since(start)).
			Msg("cycle aborted, checkpoint kept")
		return fmt.Errorf("%w: account %s: %w", ErrCycleFailed, login, err)
	}

	cycleLogger.Info().
		Str("func", "syncEngine.SyncAccount").
		Dur("took", time.Since(start)).
		Msg("cycle completed")

	return nil
}

func (e *syncEngine) runCycle(ctx context.Context, account models.Account) error {
	s := adapter.SessionForAccount(account, e.sandbox)

	cp, err := e.store.Checkpoints.Get(ctx, account.Login)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}

	cs, err := e.detector.Detect(ctx, s, cp)
	if err != nil {
		return err
	}

	if !cs.Empty() {
		if err = e.loader.Load(ctx, s, account.Login, cs); err != nil {
			return err
		}
	}

	sets, err := e.classifier.Classify(ctx, account.Login, cp.LastSyncCompletedAt)
	if err != nil {
		return err
	}

	if hasPushWork(sets) {
		if err = e.pusher.Push(ctx, s, account.Login, sets); err != nil {
			return err
		}
		if err = e.bids.PushBids(ctx, s, account.Login); err != nil {
			return err
		}
	}

	// reports are unavailable in the sandbox; a stats failure does not block
	// the checkpoint, the next cycle pulls the window again
	if !e.statsDisabled && !s.Sandbox {
		if err = e.stats.Pull(ctx, s, account.Login); err != nil {
			logger.FromContext(ctx).Warn().
				Err(err).
				Str("func", "syncEngine.runCycle").
				Msg("stats pull failed, continuing cycle")
		}
	}

	next := models.Checkpoint{
		Login:                account.Login,
		DictionaryCheckpoint: cs.DictionaryTimestamp,
		HierarchyCheckpoint:  cs.HierarchyTimestamp,
		LastSyncCompletedAt:  time.Now().UTC(),
	}
	if next.DictionaryCheckpoint == "" {
		next.DictionaryCheckpoint = cp.DictionaryCheckpoint
	}
	if next.HierarchyCheckpoint == "" {
		next.HierarchyCheckpoint = cp.HierarchyCheckpoint
	}
	if err = e.store.Checkpoints.Save(ctx, next); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	return nil
}

func (e *syncEngine) lockFor(login string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.accountLocks[login]
	if !ok {
		lock = &sync.Mutex{}
		e.accountLocks[login] = lock
	}

	return lock
}

func hasPushWork(sets map[models.EntityKind]models.ClassifiedSet) bool {
	for _, set := range sets {
		if !set.Empty() {
			return true
		}
	}
	return false
}

// IsTransient reports whether a cycle failure was caused by a temporary
// platform or storage condition, in which case the periodic job just waits
// for the next tick instead of alerting.
func IsTransient(err error) bool {
	return errors.Is(err, adapter.ErrPlatformUnavailable) || errors.Is(err, store.ErrTransientStorage)
}
