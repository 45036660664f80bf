package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/postgres"
)

func main() {
	timeout := flag.Duration("timeout", 60*time.Second, "Maximum time to spend applying migrations")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host, "dbname", cfg.Postgres.DBName)
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger.Info("Running database migrations...")
	applied, err := db.Migrate(ctx)
	if err != nil {
		logger.Fatalw("Migration failed", "applied", applied, "error", err)
	}

	if len(applied) == 0 {
		logger.Info("Schema is up to date")
	} else {
		logger.Infow("Migration completed successfully", "applied", applied)
	}

	fmt.Println("Migration process completed")
}
