package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver

	"github.com/phrazzld/noteflow-api/internal/config"
	"github.com/phrazzld/noteflow-api/internal/events"
	"github.com/phrazzld/noteflow-api/internal/fanout"
	"github.com/phrazzld/noteflow-api/internal/platform/gemini"
	"github.com/phrazzld/noteflow-api/internal/platform/postgres"
	"github.com/phrazzld/noteflow-api/internal/push"
	"github.com/phrazzld/noteflow-api/internal/service"
	"github.com/phrazzld/noteflow-api/internal/service/auth"
	"github.com/phrazzld/noteflow-api/internal/summary"
	"github.com/phrazzld/noteflow-api/internal/task"
)

// application holds the assembled dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService
	taskRunner *task.Runner
	scheduler  *fanout.Scheduler

	userService         service.UserService
	noteService         service.NoteService
	subscriptionService service.SubscriptionService
}

// openDatabase opens and verifies a PostgreSQL connection via the pgx
// database/sql driver.
func openDatabase(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// newApplication wires every component together: stores over the shared
// database handle, the summarization pipeline behind the event emitter, and
// the push fanout scheduler over the same stores the API serves.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*application, error) {
	db, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	// Stores
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	userStore := postgres.NewPostgresUserStore(db, hasher, logger)
	noteStore := postgres.NewPostgresNoteStore(db, logger)
	subscriptionStore := postgres.NewPostgresSubscriptionStore(db, logger)

	// Auth
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	// Summarization pipeline: providers -> fallback chain -> task runner
	providers, err := gemini.NewProviders(ctx, logger, cfg.LLM)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create summary providers: %w", err)
	}

	summarizer, err := summary.NewFallbackSummarizer(
		providers,
		time.Duration(cfg.LLM.ProviderTimeoutSeconds)*time.Second,
		logger,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create summarizer: %w", err)
	}

	taskRunner := task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)

	taskFactory := task.NewSummaryGenerationTaskFactory(summarizer, noteStore, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewTaskFactoryEventHandler(taskFactory, taskRunner, logger))

	// Services
	userService, err := service.NewUserService(
		userStore,
		jwtService,
		auth.NewBcryptVerifier(),
		logger,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	noteService, err := service.NewNoteService(noteStore, emitter, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create note service: %w", err)
	}

	subscriptionService, err := service.NewSubscriptionService(subscriptionStore, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create subscription service: %w", err)
	}

	// Push fanout
	sender, err := push.NewWebPushSender(cfg.Push, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create push sender: %w", err)
	}

	scheduler := fanout.NewScheduler(noteStore, subscriptionStore, sender, cfg.Fanout, logger)

	return &application{
		config:              cfg,
		logger:              logger,
		db:                  db,
		jwtService:          jwtService,
		taskRunner:          taskRunner,
		scheduler:           scheduler,
		userService:         userService,
		noteService:         noteService,
		subscriptionService: subscriptionService,
	}, nil
}

// run starts the background task runner and the HTTP server, blocking until
// shutdown completes.
func (app *application) run(ctx context.Context) error {
	if err := app.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases application resources during shutdown. In-flight summary
// tasks are allowed to finish before the database handle closes.
func (app *application) cleanup() {
	app.taskRunner.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", "error", err)
	}
}
