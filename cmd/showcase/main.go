package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"GardenRosas/internal/shop"
	"GardenRosas/pkg/kit"
)

func main() {
	service := "showcase"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8083")
	catalogURL := getenv("CATALOG_URL", "http://localhost:8082")

	snapshots := buildSnapshots(log)
	store := shop.NewStore(shop.NewClient(catalogURL), snapshots, log)

	s := &shop.Server{Store: store, Log: log}
	h := shop.NewHandler(s, shop.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: os.Getenv("METRICS_ENABLED") == "true",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// buildSnapshots prefers the on-disk store so the last catalog survives
// restarts; an open failure falls back to memory rather than refusing to
// start.
func buildSnapshots(log *zap.Logger) shop.SnapshotStore {
	path := getenv("SNAPSHOT_PATH", "showcase-snapshot.db")
	snaps, err := shop.OpenBoltSnapshots(path)
	if err != nil {
		log.Warn("snapshot db unavailable, using in-memory snapshots",
			zap.String("path", path), zap.Error(err))
		return shop.NewMemSnapshots()
	}
	return snaps
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
