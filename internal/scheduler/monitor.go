package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/webmon/internal/domain"
	"github.com/hamed0406/webmon/internal/probe"
	"github.com/hamed0406/webmon/internal/repo"
)

// Monitor drives the probe executor across all configured targets, one
// cycle per interval. Probes within a cycle run concurrently; cycles run
// sequentially, so two probes of the same target never overlap and the
// append-only log keeps its latest-entry semantics.
type Monitor struct {
	Logger      *zap.Logger
	Store       repo.LogStore
	Executor    *probe.Executor
	Targets     []domain.Target
	Interval    time.Duration
	Concurrency int
}

func NewMonitor(
	logger *zap.Logger,
	store repo.LogStore,
	executor *probe.Executor,
	targets []domain.Target,
	interval time.Duration,
) *Monitor {
	concurrency := len(targets)
	if concurrency < 1 {
		concurrency = 1
	}
	return &Monitor{
		Logger:      logger,
		Store:       store,
		Executor:    executor,
		Targets:     targets,
		Interval:    interval,
		Concurrency: concurrency,
	}
}

// Run executes cycles until ctx is cancelled. The first cycle starts
// immediately; the interval sleep comes after each cycle completes, so a
// slow cycle delays the next one rather than overlapping it.
func (m *Monitor) Run(ctx context.Context) {
	if err := m.Store.Init(ctx); err != nil {
		// Appends will fail and be logged per probe; keep cycling so a
		// transient storage problem does not kill monitoring for good.
		m.Logger.Warn("monitor_init_error", zap.Error(err))
	}

	for {
		m.runCycle(ctx)

		select {
		case <-ctx.Done():
			m.Logger.Info("monitor_stopped")
			return
		case <-time.After(m.Interval):
		}
	}
}

func (m *Monitor) runCycle(ctx context.Context) {
	started := time.Now()
	sem := make(chan struct{}, m.Concurrency)
	var wg sync.WaitGroup

	for _, tgt := range m.Targets {
		t := tgt
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, m.Interval)
			defer cancel()

			m.Executor.Probe(cctx, t)
		}()
	}

	wg.Wait()
	m.Logger.Debug("cycle_complete",
		zap.Int("targets", len(m.Targets)),
		zap.Duration("took", time.Since(started)),
	)
}
