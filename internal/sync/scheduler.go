package sync

import (
	"context"
	"log"
	stdsync "sync"
	"sync/atomic"
	"time"
)

// Scheduler polls one scope at a fixed interval and exposes a manual trigger.
// All fetching happens on a single goroutine, so two cycles for the same scope
// never overlap. A generation counter makes every refresh request observable:
// a cycle's result is applied only if no newer refresh was requested while it
// was in flight, so the views always see exactly one coherent snapshot.
type Scheduler struct {
	scope    string
	interval time.Duration
	fetch    FetchFunc
	apply    func(*Snapshot)
	logger   *log.Logger

	requested atomic.Uint64 // latest refresh generation asked for
	trigger   chan struct{} // coalesced manual refresh requests

	mu     stdsync.Mutex
	paused bool
	last   *Snapshot

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler for one scope. apply is invoked from the
// scheduler's own goroutine with each coherent snapshot; it must not block
// for long and must not mutate the snapshot.
func NewScheduler(scope string, interval time.Duration, fetch FetchFunc, apply func(*Snapshot), logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		scope:    scope,
		interval: interval,
		fetch:    fetch,
		apply:    apply,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start begins polling. The first refresh runs immediately.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

// Stop cancels the timer and waits for the loop to exit. A fetch that is in
// flight when Stop is called completes but its result is discarded.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
}

// TriggerNow requests an immediate refresh. If a cycle is already in flight,
// its result is superseded and one fresh cycle runs after it; triggers are
// coalesced, never stacked.
func (s *Scheduler) TriggerNow() {
	s.requested.Add(1)
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Pause suspends timer-driven refreshes while the hosting view is not
// visible. Manual triggers still work.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume lifts a pause and refreshes immediately so the view catches up.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	wasPaused := s.paused
	s.paused = false
	s.mu.Unlock()
	if wasPaused {
		s.TriggerNow()
	}
}

// Last returns the most recently applied snapshot, or nil before the first
// successful cycle.
func (s *Scheduler) Last() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) isPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.requested.Add(1)
	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.isPaused() {
				continue
			}
			s.requested.Add(1)
			s.cycle(ctx)
		case <-s.trigger:
			s.cycle(ctx)
		}
	}
}

// cycle runs one fetch and applies its snapshot unless it was superseded by a
// newer request or the scheduler was torn down while it was in flight.
func (s *Scheduler) cycle(ctx context.Context) {
	gen := s.requested.Load()

	snap := s.fetch(ctx)
	snap.Generation = gen

	if ctx.Err() != nil {
		return
	}
	if s.requested.Load() != gen {
		s.logger.Printf("sync %s: discarding superseded snapshot (gen %d)", s.scope, gen)
		return
	}

	s.mu.Lock()
	snap.mergeLastKnown(s.last)
	s.last = snap
	s.mu.Unlock()

	for resource, msg := range snap.Errors {
		s.logger.Printf("sync %s: %s fetch failed, keeping last known: %s", s.scope, resource, msg)
	}

	if s.apply != nil {
		s.apply(snap)
	}
}
