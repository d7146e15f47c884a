package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"GardenRosas/internal/auth"
	"GardenRosas/pkg/kit"
)

const minSecretLen = 32

func main() {
	service := "auth"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8081")

	secret := os.Getenv("JWT_SECRET")
	if len(secret) < minSecretLen {
		log.Fatal("JWT_SECRET must be at least 32 bytes")
	}

	store := buildStore(log)
	seedAdmin(log, store)

	s := &auth.Server{
		Log:   log,
		Store: store,
		JWT:   auth.NewTokenMaker(secret),
	}
	h := auth.NewHandler(s, auth.HTTPDeps{
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

func buildStore(log *zap.Logger) auth.UserStore {
	dsn := os.Getenv("AUTH_DSN")
	if dsn == "" {
		log.Warn("AUTH_DSN not set, using in-memory user store")
		return auth.NewMemStore()
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		log.Fatal("invalid AUTH_DSN", zap.Error(err))
	}
	cfg.ParseTime = true

	conn, err := mysql.NewConnector(cfg)
	if err != nil {
		log.Fatal("mysql connector", zap.Error(err))
	}

	db := sql.OpenDB(conn)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return auth.NewMySQLStore(db)
}

func seedAdmin(log *zap.Logger, store auth.UserStore) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := auth.SeedAdmin(ctx, store, email, password, "u_"+uuid.NewString()); err != nil {
		log.Fatal("seed admin", zap.Error(err))
	}
	log.Info("admin account ready", zap.String("email", email))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
