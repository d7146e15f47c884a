package shop

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"GardenRosas/internal/catalog"
)

// Filter narrows a product list by category and a free-text query. Both
// conditions must hold. The query matches case-insensitively against
// name and description. Results come back sorted by name using
// Brazilian Portuguese collation, so accented names interleave with
// their unaccented neighbours.
func Filter(products []catalog.Product, category, query string) []catalog.Product {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != catalog.ScopeAll && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}

	// A Collator is not safe for concurrent use, build one per call.
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// View filters the store's current products without hitting the catalog.
func (s *Store) View(category, query string) []catalog.Product {
	return Filter(s.Products(), category, query)
}
