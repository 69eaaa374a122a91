// Package main implements the entry point for the NoteFlow API server,
// which stores users' notes, generates AI summaries for them in the
// background, and delivers daily note reminders over Web Push.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/noteflow-api/internal/config"
	"github.com/phrazzld/noteflow-api/internal/platform/logger"
	"github.com/phrazzld/noteflow-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"run database migrations and exit: 'up' applies all pending, 'down' rolls back one",
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	ctx := context.Background()

	if *migrateCmd != "" {
		if err := runMigrations(ctx, cfg, *migrateCmd, appLogger); err != nil {
			appLogger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		return
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.run(ctx); err != nil {
		appLogger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func runMigrations(
	ctx context.Context,
	cfg *config.Config,
	direction string,
	appLogger *slog.Logger,
) error {
	db, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	switch direction {
	case "up":
		return postgres.MigrateUp(ctx, db, appLogger)
	case "down":
		return postgres.MigrateDown(ctx, db, appLogger)
	default:
		return fmt.Errorf("unknown migration direction %q: want 'up' or 'down'", direction)
	}
}
