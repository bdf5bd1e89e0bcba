package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cuelab/skilltrack-api/internal/config"
	"github.com/cuelab/skilltrack-api/internal/platform/postgres"
	"github.com/cuelab/skilltrack-api/internal/service"
	"github.com/cuelab/skilltrack-api/internal/store"
)

// application holds the initialized components and shared resources of
// the server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	contentService     service.ContentService
	compositionService service.CompositionService
	progressService    service.ProgressService
	referralService    service.ReferralService
}

// newApplication wires the stores and services on top of an open
// database connection.
func newApplication(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*application, error) {
	transactor := store.NewTransactor(db)

	contentStore := postgres.NewContentStore(db, logger)
	compositionStore := postgres.NewCompositionStore(db, logger)
	progressStore := postgres.NewProgressStore(db, logger)
	sessionStore := postgres.NewSessionStore(db, logger)
	userStore := postgres.NewUserStore(db, logger)

	contentService, err := service.NewContentService(contentStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create content service: %w", err)
	}

	compositionService, err := service.NewCompositionService(
		compositionStore, contentStore, transactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create composition service: %w", err)
	}

	progressService, err := service.NewProgressService(
		progressStore, sessionStore, contentStore, compositionStore, transactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress service: %w", err)
	}

	referralService, err := service.NewReferralService(userStore, transactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create referral service: %w", err)
	}

	return &application{
		config:             cfg,
		logger:             logger,
		db:                 db,
		contentService:     contentService,
		compositionService: compositionService,
		progressService:    progressService,
		referralService:    referralService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
