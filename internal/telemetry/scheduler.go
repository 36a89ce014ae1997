package telemetry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is the refresh cadence when none is configured.
const DefaultInterval = 30 * time.Second

// ErrSchedulerRunning is returned by Start on a scheduler that is already running.
var ErrSchedulerRunning = errors.New("scheduler already running")

// Sink receives every published snapshot. Sink errors are logged and
// otherwise ignored.
type Sink interface {
	Name() string
	Publish(ctx context.Context, snap *Snapshot) error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the refresh cadence. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithSinks adds snapshot sinks.
func WithSinks(sinks ...Sink) Option {
	return func(s *Scheduler) { s.sinks = append(s.sinks, sinks...) }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scheduler) { s.log = l }
}

// Scheduler refreshes the snapshot on a fixed cadence. At most one refresh
// runs at a time; ticks that arrive while one is running are skipped.
type Scheduler struct {
	refresher Refresher
	store     *SnapshotStore
	interval  time.Duration
	clock     Clock
	sinks     []Sink
	log       logrus.FieldLogger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	gen     uint64

	// refreshes is only touched by the loop goroutine.
	refreshes sync.WaitGroup

	inFlight atomic.Bool
	skipped  atomic.Int64
	lastErr  atomic.Pointer[error]
}

// NewScheduler creates a scheduler that publishes into store.
func NewScheduler(r Refresher, store *SnapshotStore, opts ...Option) *Scheduler {
	s := &Scheduler{
		refresher: r,
		store:     store,
		interval:  DefaultInterval,
		clock:     RealClock{},
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs an immediate refresh in the background and then one per tick
// until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrSchedulerRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.gen++

	ticker := s.clock.NewTicker(s.interval)
	s.wg.Add(1)
	go s.loop(ctx, ticker, s.gen)

	s.log.WithField("interval", s.interval).Info("Telemetry scheduler started")
	return nil
}

// Stop cancels the loop and waits for any in-flight refresh. No refresh
// starts after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("Telemetry scheduler stopped")
}

// Skipped returns how many ticks were dropped because a refresh was running.
func (s *Scheduler) Skipped() int64 {
	return s.skipped.Load()
}

// LastError returns the error of the most recent refresh, nil if it succeeded.
func (s *Scheduler) LastError() error {
	if p := s.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *Scheduler) loop(ctx context.Context, ticker Ticker, gen uint64) {
	defer s.wg.Done()
	defer s.finish(gen)
	defer ticker.Stop()

	s.trigger(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			s.trigger(ctx)
		}
	}
}

// finish waits for the last refresh and marks the run over, so a scheduler
// whose parent context was cancelled can be started again without Stop.
func (s *Scheduler) finish(gen uint64) {
	s.refreshes.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.running {
		s.running = false
		s.cancel()
	}
}

// trigger is only called from the loop goroutine.
func (s *Scheduler) trigger(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		n := s.skipped.Add(1)
		s.log.WithField("skipped", n).Debug("Refresh still running, tick skipped")
		return
	}
	s.refreshes.Add(1)
	go func() {
		defer s.refreshes.Done()
		defer s.inFlight.Store(false)
		s.RefreshOnce(ctx)
	}()
}

// RefreshOnce performs a single refresh and publishes the result.
func (s *Scheduler) RefreshOnce(ctx context.Context) {
	snap, err := s.refresher.Refresh(ctx, s.store.Load())
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		s.lastErr.Store(&err)
		s.store.RecordFailure(err, s.clock.Now())
		s.log.WithError(err).Warn("Telemetry refresh failed, keeping last snapshot")
		return
	}
	s.lastErr.Store(nil)
	s.store.Publish(snap)
	s.log.WithFields(logrus.Fields{
		"sequence": snap.Sequence,
		"vehicles": len(snap.VehicleIDs),
		"drivers":  len(snap.DriverIDs),
	}).Debug("Telemetry snapshot published")

	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, snap); err != nil {
			s.log.WithError(err).WithField("sink", sink.Name()).Warn("Snapshot sink failed")
		}
	}
}
