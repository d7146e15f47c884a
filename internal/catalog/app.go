package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"GardenRosas/internal/images"
	"GardenRosas/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

const (
	uploadsPerMin     = 10
	uploadLimitWindow = 60 * time.Second
)

// NewHandler assembles the catalog API: public product reads, admin-gated
// product mutations and bulk price updates, and the image endpoints when
// an image server is provided.
func NewHandler(s *Server, img *images.Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/products", s.list)
		ar.Get("/products/{id}", s.get)

		ar.Group(func(pr chi.Router) {
			pr.Use(RequireAdmin)

			pr.Post("/products", s.create)
			pr.Put("/products/{id}", s.update)
			pr.Delete("/products/{id}", s.remove)
			pr.Post("/products/bulk-price", s.bulkPrice)

			if img != nil {
				uploadLimiter := kit.NewIPRateLimiter(uploadsPerMin, int(uploadLimitWindow.Seconds()))
				pr.With(uploadLimiter.Middleware).Post("/upload", img.Upload)
				pr.Get("/images", img.List)
				pr.Delete("/images/*", img.Delete)
			}
		})
	})

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}
