package main

import (
	"context"
	"log"
	"time"

	"exam-byte/internal/config"
	"exam-byte/internal/database"
	"exam-byte/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// The migrator always needs a connection, whatever db.enabled says.
	db, err := database.NewSQLXOracleDB(ctx, cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	version, err := database.RunMigrations(ctx, db.DB)
	if err != nil {
		l.Fatal("Failed to run migrations", zap.Uint("version", version), zap.Error(err))
	}
	l.Info("Schema is up to date", zap.Uint("version", version))
}
