// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyEngine struct {
	calls atomic.Int64
	err   error
}

func (s *spyEngine) SyncAll(context.Context) error {
	s.calls.Add(1)
	return s.err
}

func (s *spyEngine) SyncAccount(context.Context, string) error {
	return nil
}

func TestSyncJob_Start_TriggersSyncAll(t *testing.T) {
	spy := &spyEngine{}
	job := NewSyncJob(spy, testLogger())

	job.Start(context.Background(), 10*time.Millisecond)
	defer job.Stop()

	require.Eventually(t, func() bool {
		return spy.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestSyncJob_Stop_StopsGoroutine(t *testing.T) {
	spy := &spyEngine{}
	job := NewSyncJob(spy, testLogger())

	job.Start(context.Background(), 10*time.Millisecond)
	require.Eventually(t, func() bool { return spy.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	job.Stop()
	after := spy.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, spy.calls.Load(), "no ticks after Stop")
}

func TestSyncJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := NewSyncJob(&spyEngine{}, testLogger())
	assert.NotPanics(t, func() { job.Stop() })
}

func TestSyncJob_DoubleStop_NoPanic(t *testing.T) {
	job := NewSyncJob(&spyEngine{}, testLogger())
	job.Start(context.Background(), time.Hour)
	assert.NotPanics(t, func() {
		job.Stop()
		job.Stop()
	})
}

func TestSyncJob_Start_DefaultInterval(t *testing.T) {
	spy := &spyEngine{}
	job := NewSyncJob(spy, testLogger())

	// отрицательный интервал заменяется умолчанием в пять минут
	job.Start(context.Background(), -time.Second)
	defer job.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, spy.calls.Load())
}

func TestSyncJob_Restart_StopsPrevious(t *testing.T) {
	spy := &spyEngine{}
	job := NewSyncJob(spy, testLogger())

	job.Start(context.Background(), time.Hour)
	job.Start(context.Background(), 10*time.Millisecond)
	defer job.Stop()

	require.Eventually(t, func() bool { return spy.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
}

func TestSyncJob_ContextCancelStops(t *testing.T) {
	spy := &spyEngine{}
	job := NewSyncJob(spy, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, 10*time.Millisecond)
	require.Eventually(t, func() bool { return spy.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	after := spy.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, spy.calls.Load())

	job.Stop()
}
