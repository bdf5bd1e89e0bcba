// Command content-loader extracts structured drill content from raw
// source material with the Gemini API and writes the result onto
// existing training units.
//
// The manifest is a JSON array of entries:
//
//	[{"unit_id": "<uuid>", "source": "<raw text>"}]
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/cuelab/skilltrack-api/internal/config"
	"github.com/cuelab/skilltrack-api/internal/platform/gemini"
	"github.com/cuelab/skilltrack-api/internal/platform/logger"
	"github.com/cuelab/skilltrack-api/internal/platform/postgres"
	"github.com/cuelab/skilltrack-api/internal/service"
)

type manifestEntry struct {
	UnitID string `json:"unit_id"`
	Source string `json:"source"`
}

func main() {
	manifestPath := flag.String("manifest", "", "path to the JSON manifest of units to load")
	flag.Parse()

	if *manifestPath == "" {
		log.Fatal("the -manifest flag is required")
	}

	if err := run(context.Background(), *manifestPath); err != nil {
		log.Fatalf("content loading failed: %v", err)
	}
}

func run(ctx context.Context, manifestPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Extraction.GeminiAPIKey == "" {
		return fmt.Errorf("SKILLTRACK_EXTRACTION_GEMINI_API_KEY must be set")
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	entries, err := readManifest(manifestPath)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		appLogger.Warn("manifest contains no entries", "path", manifestPath)
		return nil
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database connection", "error", err)
		}
	}()

	contentService, err := service.NewContentService(
		postgres.NewContentStore(db, appLogger), appLogger)
	if err != nil {
		return fmt.Errorf("failed to create content service: %w", err)
	}

	extractor, err := gemini.NewExtractor(ctx, appLogger, cfg.Extraction.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	return loadEntries(ctx, appLogger, extractor, contentService, entries)
}

func readManifest(path string) ([]manifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return entries, nil
}

// loadEntries processes the manifest sequentially. A failure on one
// entry aborts the run so partial loads are obvious from the logs.
func loadEntries(
	ctx context.Context,
	appLogger *slog.Logger,
	extractor *gemini.Extractor,
	contentService service.ContentService,
	entries []manifestEntry,
) error {
	for i, entry := range entries {
		unitID, err := uuid.Parse(entry.UnitID)
		if err != nil {
			return fmt.Errorf("entry %d: invalid unit_id %q: %w", i, entry.UnitID, err)
		}

		content, err := extractor.ExtractUnitContent(ctx, entry.Source)
		if err != nil {
			return fmt.Errorf("entry %d: extraction failed for unit %s: %w", i, unitID, err)
		}

		if err := contentService.UpdateUnitContent(ctx, unitID, content); err != nil {
			return fmt.Errorf("entry %d: failed to update unit %s: %w", i, unitID, err)
		}

		appLogger.Info("unit content loaded",
			"unit_id", unitID,
			"content_length", len(content))
	}

	appLogger.Info("content loading complete", "units", len(entries))
	return nil
}
