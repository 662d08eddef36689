package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/extract"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/match"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/pipeline"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/reference"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/modules/idscan/handlers"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/idcard-ocr-be/cmd/idscan-api/docs"
)

// @title ID Card OCR API
// @version 1.0
// @description Reads identity documents with OCR, extracts names, ID numbers and dates, and fuzzy matches names against a reference list.
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("🚀 Starting idscan-api")

	// Postgres is only needed for the extraction log or postgres reference names
	var db *database.DB
	if cfg.AuditEnabled || cfg.ReferenceSource == "postgres" {
		var err error
		db, err = database.NewDB(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		defer db.Close()
	}

	// Init OCR service (multi-provider support)
	var ocrProvider ocr.Provider
	var apiKey string
	switch cfg.OCRProvider {
	case "googlevision":
		apiKey = cfg.GoogleVisionAPIKey
		ocrProvider = ocr.NewGoogleVisionProvider(apiKey, "", cfg.OCRTimeout)
	case "tesseract":
		ocrProvider = ocr.NewTesseractProvider(cfg.TesseractLanguage)
	case "openai":
		apiKey = cfg.OpenAIKey
		ocrProvider = ocr.NewOpenAIVisionProvider(apiKey, cfg.OpenAIModel, "", cfg.OCRTimeout)
	default:
		apiKey = cfg.OCRSpaceAPIKey
		ocrProvider = ocr.NewOCRSpaceProvider(ocr.OCRSpaceConfig{
			APIKey:   apiKey,
			URL:      cfg.OCRSpaceURL,
			Language: cfg.OCRLanguage,
			Timeout:  cfg.OCRTimeout,
		})
	}
	ocrService := ocr.NewService(ocrProvider, cfg.OCRMaxDimension)
	log.Info().
		Str("provider", ocrService.GetProviderName()).
		Str("key", utils.MaskSecret(apiKey)).
		Msg("🔍 OCR provider ready")

	// Init reference names
	source, closeSource := newReferenceSource(cfg, db)
	defer closeSource()

	store := reference.NewStore(source)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.Load(loadCtx); err != nil {
		cancelLoad()
		log.Fatal().Err(err).Msg("failed to load reference names")
	}
	cancelLoad()

	if cfg.ReferenceRefreshCron != "" {
		refresher, err := reference.NewRefresher(store, cfg.ReferenceRefreshCron, 30*time.Second)
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.ReferenceRefreshCron).Msg("invalid REFERENCE_REFRESH_CRON")
		}
		refresher.Start()
		defer refresher.Stop()
	}

	if cfg.ReferenceSource == "file" && cfg.ReferenceWatch {
		watcher, err := reference.WatchFile(store, cfg.ReferenceFile, 0)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to watch reference file")
		}
		defer watcher.Close()
	}

	// Init pipeline
	p := pipeline.New(
		ocrService,
		extract.NewExtractor(extract.Options{StrictDateSeparators: cfg.StrictDateSeparators}),
		match.NewMatcher(cfg.MatchTopN, cfg.MatchThreshold),
		store,
	)

	var auditService *audit.Service
	if cfg.AuditEnabled {
		auditService = audit.NewService(db.GORM)
		p.WithRecorder(auditService)
		log.Info().Msg("📝 Extraction log enabled")
	}

	// Init handlers
	healthHandler := handlers.NewHealthHandler(p)
	ocrHandler := handlers.NewOCRHandler(p, cfg.MaxUploadSize)
	matchHandler := handlers.NewMatchHandler(p)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "ID Card OCR API",
		BodyLimit: int(cfg.MaxUploadSize) + 1024*1024,
	})

	// Middleware
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// OCR routes
	app.Post("/ocr/extract", ocrHandler.ExtractDocument)

	// Extraction & matching routes
	app.Post("/fields/extract", matchHandler.ExtractFields)
	app.Post("/match", matchHandler.MatchNames)
	app.Post("/match/export", matchHandler.ExportMatches)
	app.Get("/references", matchHandler.GetReferences)

	if auditService != nil {
		extractionHandler := handlers.NewExtractionHandler(auditService)
		app.Get("/extractions", extractionHandler.ListExtractions)
		app.Get("/extractions/export", extractionHandler.ExportExtractions)
	}

	// Start server
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Msgf("✅ idscan-api running at :%s", cfg.Port)
	log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("🛑 Shutting down idscan-api...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// newReferenceSource picks the reference name backend. The returned func
// releases whatever the source opened.
func newReferenceSource(cfg *config.Config, db *database.DB) (reference.Source, func()) {
	switch cfg.ReferenceSource {
	case "file":
		return reference.NewFileSource(cfg.ReferenceFile), func() {}
	case "postgres":
		return reference.NewGormSource(db.GORM), func() {}
	case "sqlite":
		src, err := reference.OpenSQLiteSource(cfg.ReferenceSQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ReferenceSQLitePath).Msg("failed to open sqlite references")
		}
		seedSQLite(src)
		return src, func() { src.Close() }
	default:
		return reference.NewStaticSource(nil), func() {}
	}
}

// seedSQLite fills a fresh sqlite file with the built-in names.
func seedSQLite(src *reference.SQLiteSource) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := src.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count sqlite references")
	}
	if n > 0 {
		return
	}
	if err := src.Insert(ctx, reference.DefaultNames...); err != nil {
		log.Fatal().Err(err).Msg("failed to seed sqlite references")
	}
	log.Info().Int("names", len(reference.DefaultNames)).Msg("🌱 Seeded sqlite references")
}
