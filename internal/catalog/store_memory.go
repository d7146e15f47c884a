package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemStore keeps the catalog in process memory. It backs local development
// without a database and every handler test.
type MemStore struct {
	mu     sync.RWMutex
	m      map[int64]Product
	nextID int64
	floor  int64
}

func NewMemStore(floorCents int64) *MemStore {
	return &MemStore{
		m:      map[int64]Product{},
		nextID: 1,
		floor:  floorCents,
	}
}

// SeedDemo loads a small demo catalog for DSN-less development runs.
func (s *MemStore) SeedDemo() {
	qty := 3
	drafts := []Draft{
		{Name: "Rosa Branca Artificial", Category: CategoryFlores, PriceCents: 2490, Quantity: &qty, Description: "Rosa branca em tecido para arranjos"},
		{Name: "Vela Aromática de Lavanda", Category: CategoryVelas, PriceCents: 1890, Description: "Vela em pote de vidro, 180g"},
		{Name: "Vaso de Cerâmica Pequeno", Category: CategoryVasos, PriceCents: 3590, Description: "Vaso esmaltado artesanal"},
	}
	for _, d := range drafts {
		_, _ = s.Create(context.Background(), d)
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	// Newest first; ids are assigned in creation order.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *MemStore) Create(ctx context.Context, d Draft) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p := Product{
		ID:          s.nextID,
		Name:        d.Name,
		Category:    d.Category,
		PriceCents:  d.PriceCents,
		Quantity:    d.QuantityOrDefault(),
		Description: d.Description,
		Image:       d.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.m[p.ID] = p
	return p, nil
}

func (s *MemStore) Update(ctx context.Context, id int64, d Draft) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.m[id]
	if !ok {
		return Product{}, false, nil
	}

	p.Name = d.Name
	p.Category = d.Category
	p.PriceCents = d.PriceCents
	p.Quantity = d.QuantityOrDefault()
	p.Description = d.Description
	p.Image = d.Image
	p.UpdatedAt = time.Now().UTC()

	s.m[id] = p
	return p, true, nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.m[id]
	if !ok {
		return Product{}, false, nil
	}
	delete(s.m, id)
	return p, true, nil
}

func (s *MemStore) BulkPriceUpdate(ctx context.Context, c PriceChange) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	now := time.Now().UTC()
	for id, p := range s.m {
		if c.Scope != ScopeAll && p.Category != c.Scope {
			continue
		}
		next := adjusted(p.PriceCents, c, s.floor)
		if next == p.PriceCents {
			continue
		}
		p.PriceCents = next
		p.UpdatedAt = now
		s.m[id] = p
		affected++
	}
	return affected, nil
}
