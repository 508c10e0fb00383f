package main

import (
	"context"
	stdlog "log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"kotodama/internal/adapters/cache"
	"kotodama/internal/adapters/gemini"
	"kotodama/internal/adapters/storage"
	"kotodama/internal/adapters/web"
	"kotodama/internal/config"
	"kotodama/internal/prompts"
	"kotodama/internal/session"
	"kotodama/internal/usecases"
	"kotodama/pkg/log"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load("config/kotodama.yaml")
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(level, log.NewStdout())
	log.SetDefault(logger)
	defer logger.Close()

	ctx := context.Background()

	// Two credentials: the public one backs the façade capabilities, the
	// private one the server-invoked rewrite. Either may be absent; the
	// façades then serve visibly-mocked results and rewrite reports 500.
	publicGen := newClient(ctx, gemini.PublicAPIKey(), cfg.Model)
	serverGen := newClient(ctx, gemini.ServerAPIKey(), cfg.Model)

	builder := prompts.NewBuilder(cfg.Locale)
	platformCache := cache.NewMemoryCache(cfg.CacheTTL)

	analyzeUC := usecases.NewAnalyzeUseCase(publicGen, builder)
	sessions := session.NewManager(analyzeUC, session.Options{
		Debounce: cfg.Debounce,
		MinChars: cfg.MinChars,
		TTL:      cfg.SessionTTL,
	})

	handlersCfg := web.HandlersConfig{
		Rewrite:        usecases.NewRewriteUseCase(serverGen, builder),
		Humanize:       usecases.NewHumanizeUseCase(publicGen, builder),
		Stealth:        usecases.NewStealthUseCase(publicGen, builder),
		Analyze:        analyzeUC,
		RiskAnalyze:    usecases.NewRiskAnalyzeUseCase(publicGen, builder),
		RiskFix:        usecases.NewRiskFixUseCase(publicGen, builder),
		Platform:       usecases.NewOptimizePlatformUseCase(publicGen, builder, platformCache),
		Viral:          usecases.NewViralUseCase(publicGen, builder),
		Sessions:       sessions,
		DefaultPersona: cfg.DefaultPersona,
	}

	if cfg.DatabaseURL != "" {
		store, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			stdlog.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()
		handlersCfg.Drafts = usecases.NewDraftsUseCase(store)
	} else {
		log.GlobalWarn("no DATABASE_URL configured, draft routes disabled")
	}

	handlers := web.NewHandlers(handlersCfg)
	rateLimiter := web.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	app := fiber.New(fiber.Config{
		AppName: "Kotodama",
	})

	app.Use(recover.New())
	app.Use(requestid.New(web.RequestIDConfig()))
	app.Use(web.RequestIDToContextMiddleware())
	app.Use(web.RequestLoggerMiddleware())

	web.SetupRoutes(app, handlers, rateLimiter)

	log.GlobalInfo("starting kotodama", "port", cfg.Port, "model", cfg.Model)
	if err := app.Listen(":" + cfg.Port); err != nil {
		stdlog.Fatalf("Server stopped: %v", err)
	}
}

// newClient builds a Gemini client, or nil when the key is absent so the
// use cases fall back to their mock behavior.
func newClient(ctx context.Context, apiKey, model string) *gemini.Client {
	if apiKey == "" {
		return nil
	}
	client, err := gemini.NewClient(ctx, apiKey, model)
	if err != nil {
		stdlog.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	return client
}
