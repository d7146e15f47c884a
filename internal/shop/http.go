package shop

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"GardenRosas/internal/catalog"
	"GardenRosas/pkg/kit"
)

// Server exposes the public showcase: the synchronized product list with
// category and text filtering, and the category index.
type Server struct {
	Store *Store
	Log   *zap.Logger
}

type productsResp struct {
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
	Degraded bool              `json:"degraded,omitempty"`
	SyncedAt time.Time         `json:"synced_at"`
}

type categoryResp struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func (s *Server) products(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	query := r.URL.Query().Get("q")

	if category != "" && category != catalog.ScopeAll && !catalog.ValidCategory(category) {
		kit.WriteError(w, r, http.StatusBadRequest, "unknown category", nil)
		return
	}

	res, err := s.Store.Load(r.Context())
	if err != nil {
		s.logError("load catalog", err)
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog temporarily unavailable", nil)
		return
	}

	if res.Degraded {
		w.Header().Set("X-Catalog-Degraded", "true")
	}

	filtered := Filter(res.Products, category, query)
	kit.WriteJSON(w, http.StatusOK, productsResp{
		Products: filtered,
		Count:    len(filtered),
		Degraded: res.Degraded,
		SyncedAt: res.SyncedAt,
	})
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	slugs := catalog.Categories()
	out := make([]categoryResp, 0, len(slugs))
	for _, slug := range slugs {
		out = append(out, categoryResp{Slug: slug, Name: catalog.CategoryName(slug)})
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) product(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	if !s.Store.Loaded() {
		if _, err := s.Store.Load(r.Context()); err != nil {
			s.logError("load catalog", err)
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog temporarily unavailable", nil)
			return
		}
	}

	p, ok := s.Store.Find(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func (s *Server) logError(msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
}
