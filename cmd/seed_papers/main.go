package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"exam-byte/internal/adapter"
	"exam-byte/internal/cache"
	"exam-byte/internal/config"
	"exam-byte/internal/database"
	"exam-byte/internal/logger"
	"exam-byte/internal/paper"
	"exam-byte/internal/repository"

	"go.uber.org/zap"
)

const defaultSeedFilePath = "config/seed_data/papers.json"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	path := defaultSeedFilePath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	log.Info("Loading papers from file", zap.String("path", path))
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to read paper file", zap.String("path", path), zap.Error(err))
	}
	papers, err := paper.DecodePapers(data)
	if err != nil {
		log.Fatal("Failed to decode paper file", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sinks := map[string]paper.Sink{}
	if cfg.DB.Enabled {
		db, err := database.NewSQLXOracleDB(ctx, cfg)
		if err != nil {
			log.Fatal("Failed to connect to Oracle database", zap.Error(err))
		}
		defer db.Close()
		sinks["oracle"] = repository.NewPaperDatabaseAdapter(db)
	}
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()
		sinks["redis"] = paper.NewRedisStore(adapter.NewRedisCacheAdapter(client), cfg.Redis.PapersKey)
	}
	if len(sinks) == 0 {
		log.Fatal("Neither db.enabled nor redis.enabled is set; nothing to seed")
	}

	saved, err := paper.Upload(ctx, papers, sinks)
	if err != nil {
		log.Fatal("Paper upload finished with errors", zap.Int("saved", saved), zap.Error(err))
	}
	log.Info("Paper upload completed", zap.Int("papers", len(papers)), zap.Int("writes", saved))
}
