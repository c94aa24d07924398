// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/logger"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run and Stop were called.
type mockWorker struct {
	runCount  int
	stopCount int
}

func (m *mockWorker) Run(context.Context) { m.runCount++ }
func (m *mockWorker) Stop()               { m.stopCount++ }

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := &Workers{workers: []Worker{w1, w2, w3}}
	ws.Run(context.Background())

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{workers: []Worker{}}

	// Should not panic on empty workers list
	ws.Run(context.Background())
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Run(context.Background())
	ws.Stop()
}

func TestWorkers_Stop_AllWorkersAreStopped(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}

	ws := &Workers{workers: []Worker{w1, w2}}
	ws.Run(context.Background())
	ws.Stop()

	for i, w := range []*mockWorker{w1, w2} {
		if w.stopCount != 1 {
			t.Errorf("worker[%d]: expected stopCount=1, got %d", i, w.stopCount)
		}
	}
}

// fakeJob records the interval the sync worker hands to the job.
type fakeJob struct {
	started  bool
	stopped  bool
	interval time.Duration
}

func (j *fakeJob) Start(_ context.Context, interval time.Duration) {
	j.started = true
	j.interval = interval
}

func (j *fakeJob) Stop() { j.stopped = true }

func TestSyncWorker_PassesInterval(t *testing.T) {
	job := &fakeJob{}
	w := newSyncWorker(job, 3*time.Minute, logger.Nop())

	w.Run(context.Background())
	if !job.started {
		t.Fatal("expected the job to be started")
	}
	if job.interval != 3*time.Minute {
		t.Errorf("expected interval 3m, got %v", job.interval)
	}

	w.Stop()
	if !job.stopped {
		t.Error("expected the job to be stopped")
	}
}
