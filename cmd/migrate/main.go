// Command migrate creates the Postgres schema.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"hippo/infrastructure/persistence/postgres"

	"go.uber.org/zap"
)

func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	timeout := flag.Duration("timeout", time.Minute, "migration timeout")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("DATABASE_URL or -dsn is required")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := postgres.Open(ctx, postgres.Config{DSN: *dsn, MaxOpenConns: 1}, logger)
	if err != nil {
		logger.Fatal("Failed to connect", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}
}
