package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var ErrNotFound = errors.New("product not found")

// Price change modes and the scope selector covering every category.
const (
	ModePercentage = "percentage"
	ModeFixed      = "fixed"

	ScopeAll = "all"
)

// PriceChange is a bulk price adjustment applied to every product in
// scope. Delta is a percentage for ModePercentage and whole cents for
// ModeFixed; either may be negative. Results are clamped to the store's
// configured floor.
type PriceChange struct {
	Scope string  `json:"scope"`
	Mode  string  `json:"mode"`
	Delta float64 `json:"delta"`
}

func (c PriceChange) Validate() error {
	var problems []string

	switch c.Mode {
	case ModePercentage, ModeFixed:
	default:
		problems = append(problems, fmt.Sprintf("unknown mode %q", c.Mode))
	}
	if c.Scope != ScopeAll && !ValidCategory(c.Scope) {
		problems = append(problems, fmt.Sprintf("unknown scope %q", c.Scope))
	}
	if math.IsNaN(c.Delta) || math.IsInf(c.Delta, 0) {
		problems = append(problems, "delta must be a finite number")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// adjusted applies a validated price change to a single price, clamped to
// floor. Percentage results are rounded to whole cents half away from
// zero.
func adjusted(price int64, c PriceChange, floor int64) int64 {
	var next int64
	switch c.Mode {
	case ModePercentage:
		next = int64(math.Round(float64(price) * (1 + c.Delta/100)))
	case ModeFixed:
		next = price + int64(math.Round(c.Delta))
	default:
		next = price
	}
	if next < floor {
		next = floor
	}
	return next
}

type Store interface {
	Ping(ctx context.Context) error

	// List returns the full catalog, newest first.
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, bool, error)

	// Create stores a validated draft and returns the canonical record
	// with assigned id and timestamps.
	Create(ctx context.Context, d Draft) (Product, error)

	// Update replaces every draft field of an existing product. The bool
	// is false when no product has that id.
	Update(ctx context.Context, id int64, d Draft) (Product, bool, error)

	// Delete removes a product and returns the removed record for
	// confirmation.
	Delete(ctx context.Context, id int64) (Product, bool, error)

	// BulkPriceUpdate applies a validated price change to every product
	// in scope as one operation and reports how many records changed.
	BulkPriceUpdate(ctx context.Context, c PriceChange) (int64, error)
}
