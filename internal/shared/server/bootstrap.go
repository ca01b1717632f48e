package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"intake-backend/internal/attachments"
	"intake-backend/internal/candidates"
	"intake-backend/internal/parsing"
	"intake-backend/internal/shared/config"
	"intake-backend/internal/shared/storage/db"
	"intake-backend/internal/shared/storage/object"
	localstore "intake-backend/internal/shared/storage/object/local"
	s3store "intake-backend/internal/shared/storage/object/s3"
	"intake-backend/internal/shared/telemetry"
	"intake-backend/internal/verification"
	"intake-backend/internal/verification/events"
)

// App holds the wired application and its owned resources.
type App struct {
	Router *gin.Engine
	DB     *sql.DB
}

// Close releases the app's resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// Build wires repositories, services, and handlers from configuration.
// Without a DATABASE_URL everything runs on in-memory repositories, which
// keeps local development dependency-free.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{}

	var (
		attRepo  attachments.Repo
		candRepo candidates.Repo
		jobRepo  parsing.Repo
		docRepo  verification.Repo
		evRepo   events.Repo
	)

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := db.RunMigrations(ctx, database); err != nil {
			database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		app.DB = database
		attRepo = &attachments.PGRepo{DB: database}
		candRepo = &candidates.PGRepo{DB: database}
		jobRepo = &parsing.PGRepo{DB: database}
		docRepo = &verification.PGRepo{DB: database}
		evRepo = &events.PGRepo{DB: database}
		telemetry.Info("storage.ready", map[string]any{"backend": "postgres"})
	} else {
		attRepo = attachments.NewMemoryRepo()
		candRepo = candidates.NewMemoryRepo()
		jobRepo = parsing.NewMemoryRepo()
		docRepo = verification.NewMemoryRepo()
		evRepo = events.NewMemoryRepo()
		telemetry.Info("storage.ready", map[string]any{"backend": "memory"})
	}

	store, err := buildObjectStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	evSvc := events.NewService(evRepo)
	engine := verification.Engine{
		ConfidenceThreshold:   cfg.ConfidenceThreshold,
		AllowVerifiedOverride: cfg.AllowVerifiedOverride,
	}

	handlers := Handlers{
		Attachments:  attachments.NewHandler(&attachments.Service{Store: store, Repo: attRepo}),
		Candidates:   candidates.NewHandler(&candidates.Service{Repo: candRepo}),
		Parsing:      parsing.NewHandler(parsing.NewService(jobRepo, attRepo, parsing.PlaceholderExtractor{})),
		Verification: verification.NewHandler(verification.NewService(docRepo, candRepo, evSvc, engine)),
		Events:       events.NewHandler(evSvc),
	}

	app.Router = NewRouter(handlers, cfg.CORSAllowOrigin)
	return app, nil
}

func buildObjectStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		return store, nil
	}
	return localstore.New(cfg.LocalStoreDir), nil
}
