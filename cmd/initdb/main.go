// Command initdb creates the MySQL schema for the catalog and auth
// services. It is idempotent and safe to run on every deploy.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"GardenRosas/pkg/kit"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          INT AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		category    ENUM('flores','velas','quadros','santinhos','utensilios','artigos','vasos') NOT NULL,
		price_cents BIGINT NOT NULL,
		quantity    INT NOT NULL DEFAULT 1,
		description TEXT NOT NULL,
		image       VARCHAR(500) NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_category (category),
		INDEX idx_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS users (
		id         VARCHAR(40) PRIMARY KEY,
		email      VARCHAR(255) NOT NULL UNIQUE,
		pass_hash  VARBINARY(60) NOT NULL,
		role       VARCHAR(16) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

func main() {
	log := kit.NewLogger("initdb")
	defer func() { _ = log.Sync() }()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is required")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		log.Fatal("invalid DB_DSN", zap.Error(err))
	}
	cfg.MultiStatements = true

	conn, err := mysql.NewConnector(cfg)
	if err != nil {
		log.Fatal("mysql connector", zap.Error(err))
	}
	db := sql.OpenDB(conn)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("database unreachable", zap.Error(err))
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatal("apply schema", zap.Error(err))
		}
	}

	log.Info("schema ready")
}
