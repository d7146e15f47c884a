package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Category slugs match the category ENUM column on the products table.
const (
	CategoryFlores     = "flores"
	CategoryVelas      = "velas"
	CategoryQuadros    = "quadros"
	CategorySantinhos  = "santinhos"
	CategoryUtensilios = "utensilios"
	CategoryArtigos    = "artigos"
	CategoryVasos      = "vasos"
)

// categoryNames is the single slug -> display name table for the whole
// platform. Anything rendering a category label goes through CategoryName.
var categoryNames = map[string]string{
	CategoryFlores:     "Flores",
	CategoryVelas:      "Velas",
	CategoryQuadros:    "Quadros",
	CategorySantinhos:  "Santinhos",
	CategoryUtensilios: "Utensílios",
	CategoryArtigos:    "Artigos",
	CategoryVasos:      "Vasos",
}

var categoryOrder = []string{
	CategoryFlores,
	CategoryVelas,
	CategoryQuadros,
	CategorySantinhos,
	CategoryUtensilios,
	CategoryArtigos,
	CategoryVasos,
}

func ValidCategory(slug string) bool {
	_, ok := categoryNames[slug]
	return ok
}

// CategoryName returns the display name for a slug, or the slug itself for
// values outside the table.
func CategoryName(slug string) string {
	if name, ok := categoryNames[slug]; ok {
		return name
	}
	return slug
}

// Categories returns the category slugs in display order.
func Categories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Draft is the client-supplied field set for creating or updating a
// product, before the server assigns id and timestamps. Quantity is a
// pointer so an absent quantity (defaults to 1) is distinguishable from an
// explicit zero.
type Draft struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"price_cents"`
	Quantity    *int   `json:"quantity,omitempty"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

const defaultQuantity = 1

func (d Draft) QuantityOrDefault() int {
	if d.Quantity == nil {
		return defaultQuantity
	}
	return *d.Quantity
}

// ValidationError reports every problem with a draft or price change at
// once, so the admin form can surface all of them in one round trip.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

func (d Draft) Validate() error {
	var problems []string

	if strings.TrimSpace(d.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !ValidCategory(d.Category) {
		problems = append(problems, fmt.Sprintf("unknown category %q", d.Category))
	}
	if d.PriceCents < 0 {
		problems = append(problems, "price must not be negative")
	}
	if d.Quantity != nil && *d.Quantity < 0 {
		problems = append(problems, "quantity must not be negative")
	}
	if strings.TrimSpace(d.Description) == "" {
		problems = append(problems, "description is required")
	}
	if d.Image != "" {
		if u, err := url.Parse(d.Image); err != nil || u.Scheme == "" {
			problems = append(problems, "image must be an absolute URL")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
