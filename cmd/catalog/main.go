package main

import (
	"context"
	"database/sql"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"GardenRosas/internal/catalog"
	"GardenRosas/internal/images"
	"GardenRosas/pkg/kit"
)

func main() {
	service := "catalog"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8082")
	floor := priceFloor(log)

	store := buildStore(log, floor)
	img := buildImages(log)

	s := &catalog.Server{Store: store, Log: log}
	h := catalog.NewHandler(s, img, catalog.HTTPDeps{
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

func buildStore(log *zap.Logger, floor int64) catalog.Store {
	dsn := os.Getenv("CATALOG_DSN")
	if dsn == "" {
		log.Warn("CATALOG_DSN not set, using in-memory store with demo data")
		mem := catalog.NewMemStore(floor)
		mem.SeedDemo()
		return mem
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		log.Fatal("invalid CATALOG_DSN", zap.Error(err))
	}
	cfg.ParseTime = true

	conn, err := mysql.NewConnector(cfg)
	if err != nil {
		log.Fatal("mysql connector", zap.Error(err))
	}

	db := sql.OpenDB(conn)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return catalog.NewMySQLStore(db, floor)
}

func buildImages(log *zap.Logger) *images.Server {
	var (
		store images.Store
		err   error
	)

	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		store, err = images.NewS3Store(context.Background(), images.S3Config{
			Bucket:   bucket,
			Region:   os.Getenv("S3_REGION"),
			Key:      os.Getenv("S3_ACCESS_KEY"),
			Secret:   os.Getenv("S3_SECRET_KEY"),
			Endpoint: os.Getenv("S3_ENDPOINT"),
			BaseURL:  os.Getenv("S3_BASE_URL"),
			Prefix:   os.Getenv("S3_PREFIX"),
		})
	} else {
		store, err = images.NewDiskStore(
			getenv("IMAGE_DIR", "images/products"),
			getenv("IMAGE_BASE_URL", "/images/products"),
		)
	}
	if err != nil {
		log.Fatal("image store", zap.Error(err))
	}

	return &images.Server{Store: store, Log: log}
}

func priceFloor(log *zap.Logger) int64 {
	raw := os.Getenv("PRICE_FLOOR_CENTS")
	if raw == "" {
		return 0
	}
	floor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || floor < 0 {
		log.Fatal("invalid PRICE_FLOOR_CENTS", zap.String("value", raw))
	}
	return floor
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
