package shop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"GardenRosas/internal/catalog"
)

// ErrNoSnapshot means the catalog could not be reached and no usable
// snapshot exists to serve in its place.
var ErrNoSnapshot = errors.New("catalog unavailable and no usable snapshot")

// Remote is the catalog surface the store synchronizes against.
// *Client implements it.
type Remote interface {
	List(ctx context.Context) ([]catalog.Product, error)
	Create(ctx context.Context, d catalog.Draft) (catalog.Product, error)
	Update(ctx context.Context, id int64, d catalog.Draft) (catalog.Product, error)
	Delete(ctx context.Context, id int64) (catalog.Product, error)
	BulkPriceUpdate(ctx context.Context, c catalog.PriceChange) (int64, error)
}

// Store keeps an in-memory copy of the product catalog synchronized with
// the catalog service, falling back to a persisted snapshot while the
// service is unreachable.
type Store struct {
	remote    Remote
	snapshots SnapshotStore
	policy    FreshnessPolicy
	log       *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	products []catalog.Product
	loaded   bool
	degraded bool
	loading  bool
	lastSync time.Time
}

func NewStore(remote Remote, snapshots SnapshotStore, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		remote:    remote,
		snapshots: snapshots,
		log:       log,
		now:       time.Now,
	}
}

// LoadResult reports what Load ended up serving.
type LoadResult struct {
	Products []catalog.Product
	Degraded bool
	SyncedAt time.Time
}

// Load refreshes the product list from the catalog service. On failure
// it falls back to the persisted snapshot when that snapshot is fresh
// enough, marking the result degraded. A Load that starts while another
// Load is in flight does not issue a second request; it returns whatever
// the store currently holds.
func (s *Store) Load(ctx context.Context) (LoadResult, error) {
	s.mu.Lock()
	if s.loading {
		res := s.resultLocked()
		s.mu.Unlock()
		return res, nil
	}
	s.loading = true
	s.mu.Unlock()

	products, err := s.remote.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err == nil {
		s.replaceLocked(products)
		return s.resultLocked(), nil
	}

	s.log.Warn("catalog list failed, trying snapshot", zap.Error(err))

	snap, found, rerr := s.snapshots.Read()
	if rerr != nil {
		s.log.Warn("snapshot read failed", zap.Error(rerr))
		found = false
	}
	if s.policy.Usable(snap, found, s.now()) {
		s.products = snap.Products
		s.loaded = true
		s.degraded = true
		s.lastSync = snap.Timestamp
		return s.resultLocked(), nil
	}

	s.products = nil
	s.loaded = false
	return LoadResult{}, fmt.Errorf("%w: %w", ErrNoSnapshot, err)
}

// Create validates the draft, sends it to the catalog service and adds
// the created product to the local copy.
func (s *Store) Create(ctx context.Context, d catalog.Draft) (catalog.Product, error) {
	if err := d.Validate(); err != nil {
		return catalog.Product{}, err
	}

	p, err := s.remote.Create(ctx, d)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	s.persistLocked()
	return p, nil
}

// Update requires the product to be present locally before touching the
// catalog service. The local copy stays untouched when the remote call
// fails.
func (s *Store) Update(ctx context.Context, id int64, d catalog.Draft) (catalog.Product, error) {
	if err := d.Validate(); err != nil {
		return catalog.Product{}, err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	s.mu.Unlock()
	if idx < 0 {
		return catalog.Product{}, catalog.ErrNotFound
	}

	p, err := s.remote.Update(ctx, id, d)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.products[idx] = p
	} else {
		s.products = append(s.products, p)
	}
	s.persistLocked()
	return p, nil
}

// Remove deletes the product on the catalog service and drops it from
// the local copy.
func (s *Store) Remove(ctx context.Context, id int64) (catalog.Product, error) {
	p, err := s.remote.Delete(ctx, id)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("delete product %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.products = append(s.products[:idx], s.products[idx+1:]...)
	}
	s.persistLocked()
	return p, nil
}

// BulkPriceUpdate applies the change on the catalog service and then
// reloads the full list so local prices match. A failed reload keeps the
// previous local state; the change itself already succeeded.
func (s *Store) BulkPriceUpdate(ctx context.Context, c catalog.PriceChange) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	affected, err := s.remote.BulkPriceUpdate(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("bulk price update: %w", err)
	}

	products, err := s.remote.List(ctx)
	if err != nil {
		s.log.Warn("refresh after bulk price update failed", zap.Error(err))
		return affected, nil
	}

	s.mu.Lock()
	s.replaceLocked(products)
	s.mu.Unlock()
	return affected, nil
}

// Find returns the locally held product with the given id.
func (s *Store) Find(id int64) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.products[idx], true
	}
	return catalog.Product{}, false
}

// Products returns a copy of the current product list.
func (s *Store) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *Store) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

func (s *Store) resultLocked() LoadResult {
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return LoadResult{Products: out, Degraded: s.degraded, SyncedAt: s.lastSync}
}

func (s *Store) replaceLocked(products []catalog.Product) {
	s.products = products
	s.loaded = true
	s.degraded = false
	s.lastSync = s.now()
	s.persistLocked()
}

func (s *Store) indexLocked(id int64) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the current list as a snapshot. Persistence is
// best effort; a write failure only loses the offline fallback.
func (s *Store) persistLocked() {
	if s.snapshots == nil {
		return
	}
	clone := make([]catalog.Product, len(s.products))
	copy(clone, s.products)
	if err := s.snapshots.Write(Snapshot{Products: clone, Timestamp: s.now()}); err != nil {
		s.log.Warn("snapshot write failed", zap.Error(err))
	}
}
