package main

import (
	"context"
	"os"
	"time"

	"intake-backend/internal/shared/config"
	"intake-backend/internal/shared/storage/db"
	"intake-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		telemetry.Error("migrate.failed", map[string]any{"err": "DATABASE_URL is required"})
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.complete", nil)
}
