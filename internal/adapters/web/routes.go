package web

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, handlers *Handlers, rateLimiter *RateLimiter) {
	api := app.Group("/api/v1")
	generate := rateLimiter.Middleware()

	// Server-invoked rewrite, exposed to external tools cross-origin.
	app.Use("/api/v1/rewrite", RewriteCORS())
	api.Post("/rewrite", generate, handlers.Rewrite)

	// Capability façade: always 200, failures degrade to typed fallbacks.
	api.Post("/humanize", generate, handlers.Humanize)
	api.Post("/stealth", generate, handlers.Stealth)
	api.Post("/analyze", generate, handlers.Analyze)
	api.Post("/risk/analyze", generate, handlers.RiskAnalyze)
	api.Post("/risk/fix", generate, handlers.RiskFix)
	api.Post("/platform", generate, handlers.Platform)
	api.Post("/viral", generate, handlers.Viral)

	// Pure transform, no model call, no rate limit.
	api.Post("/protect", handlers.Protect)

	// Editor sessions (debounced analysis state).
	api.Post("/sessions", handlers.CreateSession)
	api.Get("/sessions/:id", handlers.GetSession)
	api.Put("/sessions/:id/text", handlers.SetSessionText)
	api.Put("/sessions/:id/persona", handlers.SetSessionPersona)

	// Drafts, only when a database is configured.
	if handlers.drafts != nil {
		drafts := api.Group("/drafts", RequireUser())
		drafts.Get("/", handlers.ListDrafts)
		drafts.Post("/", handlers.SaveDraft)
		drafts.Get("/:id", handlers.GetDraft)
		drafts.Delete("/:id", handlers.DeleteDraft)
	}
}
