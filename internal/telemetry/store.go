package telemetry

import (
	"sync/atomic"
	"time"
)

// SnapshotStore holds the latest published snapshot. Readers never block
// writers: a refresh publishes by swapping the pointer.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]
	failure atomic.Pointer[RefreshFailure]
}

// RefreshFailure records the most recent failed refresh.
type RefreshFailure struct {
	Err error
	At  time.Time
}

// NewSnapshotStore returns an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Load returns the latest snapshot, or nil before the first publish.
func (s *SnapshotStore) Load() *Snapshot {
	return s.current.Load()
}

// Publish makes snap the current snapshot and clears any recorded failure.
// It returns the snapshot it replaced.
func (s *SnapshotStore) Publish(snap *Snapshot) *Snapshot {
	old := s.current.Swap(snap)
	s.failure.Store(nil)
	return old
}

// RecordFailure marks the current snapshot as stale.
func (s *SnapshotStore) RecordFailure(err error, at time.Time) {
	s.failure.Store(&RefreshFailure{Err: err, At: at})
}

// LastFailure returns the failure recorded since the last successful publish.
func (s *SnapshotStore) LastFailure() *RefreshFailure {
	return s.failure.Load()
}

// Stale reports whether the last refresh failed.
func (s *SnapshotStore) Stale() bool {
	return s.failure.Load() != nil
}
