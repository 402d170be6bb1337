package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/josegonz115/flair-ai/internal/adapter/ai"
	"github.com/josegonz115/flair-ai/internal/adapter/collection"
	"github.com/josegonz115/flair-ai/internal/adapter/scraper"
	"github.com/josegonz115/flair-ai/internal/adapter/storage"
	"github.com/josegonz115/flair-ai/internal/adapter/store"
	"github.com/josegonz115/flair-ai/internal/handler"
	"github.com/josegonz115/flair-ai/internal/middleware"
	"github.com/josegonz115/flair-ai/internal/port"
	"github.com/josegonz115/flair-ai/internal/service"
	"github.com/josegonz115/flair-ai/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting Flair AI",
		"port", cfg.Port,
		"embed_url", cfg.EmbedURL,
		"embed_model", cfg.EmbedModel,
		"bucket", cfg.SupabaseBucket,
	)

	// ── Database (optional) ──────────────────────────────────────────────
	var pgStore *store.PostgresStore
	if cfg.DatabaseURL != "" {
		var err error
		pgStore, err = store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pgStore.Close()
	} else {
		slog.Warn("no DATABASE_URL set, search history and audit logs disabled")
	}

	// ── Adapters ─────────────────────────────────────────────────────────
	embedder := ai.NewEmbedServerProvider(ai.EmbedServerConfig{
		BaseURL:   cfg.EmbedURL,
		Model:     cfg.EmbedModel,
		Token:     cfg.EmbedToken,
		Dimension: cfg.EmbedDimension,
	})

	localSource := collection.NewLocalSource()

	var bucketSource port.CollectionSource
	var objects port.ObjectStore
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		supabase := storage.NewSupabaseStore(storage.SupabaseConfig{
			BaseURL: cfg.SupabaseURL,
			APIKey:  cfg.SupabaseKey,
			Bucket:  cfg.SupabaseBucket,
		})
		bucketSource = supabase
		objects = supabase
	} else {
		slog.Warn("no SUPABASE_URL/SUPABASE_KEY set, bucket libraries and publication disabled")
	}

	pinScraper := scraper.NewPinterestScraper(cfg.PinterestBaseURL)

	// ── Score Fusion (Strategy Pattern) ──────────────────────────────────
	fusions := port.NewFusionRegistry(
		port.MeanFusion{},
		port.MaxFusion{},
		port.WeightedFusion{},
	)

	// ── Services ─────────────────────────────────────────────────────────
	searchService := service.NewSearchService(
		embedder, localSource, bucketSource, objects, pgStore, fusions, cfg.IndexWorkers,
	)
	boardService := service.NewBoardService(pinScraper, objects)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    32 * 1024 * 1024, // base64 query images
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Audit middleware (logs all requests)
	if pgStore != nil {
		app.Use(middleware.AuditMiddleware(pgStore))
	}

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"model":   embedder.ModelName(),
			"version": "1.0.0",
		})
	})

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api/v1")

	jobTracker := handler.NewJobTracker()

	searchHandler := handler.NewSearchHandler(searchService, boardService, pgStore, cfg.MaxQueryImages)
	searchHandler.Register(api)

	boardHandler := handler.NewBoardHandler(boardService, jobTracker)
	boardHandler.Register(api)

	jobsHandler := handler.NewJobsHandler(jobTracker)
	jobsHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
