package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/generation/farmacia/app/config"
	"github.com/generation/farmacia/app/database"
	"github.com/generation/farmacia/app/logger"
)

// Applies migrations/*.sql to the database described by the POSTGRES_* settings.
//
//	go run ./cmd/migrate -dir migrations
func main() {
	dir := flag.String("dir", "migrations", "directory holding *.sql migration files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "farmacia-migrate", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := database.Migrate(ctx, cfg.Database.DSN(), *dir)
	if err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "statements", n, "database", cfg.Database.Name)
}
