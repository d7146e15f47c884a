package shop

import (
	"sync"
	"time"

	"GardenRosas/internal/catalog"
)

// Snapshot is the persisted copy of the last successfully fetched
// catalog. It is written wholesale and never merged.
type Snapshot struct {
	Products  []catalog.Product `json:"products"`
	Timestamp time.Time         `json:"timestamp"`
}

// SnapshotStore persists at most one snapshot. Both operations are
// synchronous; Write replaces the stored value atomically.
type SnapshotStore interface {
	Read() (Snapshot, bool, error)
	Write(Snapshot) error
}

// DefaultMaxAge bounds how stale a fallback snapshot may be.
const DefaultMaxAge = 24 * time.Hour

// FreshnessPolicy decides whether a persisted snapshot may stand in for
// live data when a fetch fails: only a snapshot that exists and is
// younger than MaxAge. There is no partial-trust tier and no sliding
// extension.
type FreshnessPolicy struct {
	MaxAge time.Duration
}

func (p FreshnessPolicy) Usable(snap Snapshot, found bool, now time.Time) bool {
	if !found {
		return false
	}
	maxAge := p.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return now.Sub(snap.Timestamp) < maxAge
}

// MemSnapshots is the in-process SnapshotStore used by tests and
// DSN-less development runs.
type MemSnapshots struct {
	mu    sync.Mutex
	snap  Snapshot
	found bool
}

func NewMemSnapshots() *MemSnapshots { return &MemSnapshots{} }

func (s *MemSnapshots) Read() (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, s.found, nil
}

func (s *MemSnapshots) Write(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.found = true
	return nil
}
