package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"kotodama/internal/antiscan"
	"kotodama/internal/domain"
	"kotodama/internal/session"
	"kotodama/internal/usecases"
	"kotodama/pkg/log"
)

// Handlers contains the HTTP handlers for the capability API.
type Handlers struct {
	rewrite     *usecases.RewriteUseCase
	humanize    *usecases.HumanizeUseCase
	stealth     *usecases.StealthUseCase
	analyze     *usecases.AnalyzeUseCase
	riskAnalyze *usecases.RiskAnalyzeUseCase
	riskFix     *usecases.RiskFixUseCase
	platform    *usecases.OptimizePlatformUseCase
	viral       *usecases.ViralUseCase
	drafts      *usecases.DraftsUseCase // nil when no database is configured
	sessions    *session.Manager
	persona     domain.PersonaDNA
}

// HandlersConfig wires the use cases into the handlers.
type HandlersConfig struct {
	Rewrite        *usecases.RewriteUseCase
	Humanize       *usecases.HumanizeUseCase
	Stealth        *usecases.StealthUseCase
	Analyze        *usecases.AnalyzeUseCase
	RiskAnalyze    *usecases.RiskAnalyzeUseCase
	RiskFix        *usecases.RiskFixUseCase
	Platform       *usecases.OptimizePlatformUseCase
	Viral          *usecases.ViralUseCase
	Drafts         *usecases.DraftsUseCase
	Sessions       *session.Manager
	DefaultPersona domain.PersonaDNA
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg HandlersConfig) *Handlers {
	return &Handlers{
		rewrite:     cfg.Rewrite,
		humanize:    cfg.Humanize,
		stealth:     cfg.Stealth,
		analyze:     cfg.Analyze,
		riskAnalyze: cfg.RiskAnalyze,
		riskFix:     cfg.RiskFix,
		platform:    cfg.Platform,
		viral:       cfg.Viral,
		drafts:      cfg.Drafts,
		sessions:    cfg.Sessions,
		persona:     cfg.DefaultPersona,
	}
}

type textRequest struct {
	Text      string   `json:"text"`
	Tone      string   `json:"tone"`
	Warnings  []string `json:"warnings"`
	SessionID string   `json:"sessionId"`
	Platform  string   `json:"platform"`
	Force     bool     `json:"force"`
	Level     string   `json:"level"`
}

type textResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: msg})
}

// Rewrite handles the server-invoked tone rewrite. This is the one
// capability that reports configuration and upstream failures explicitly
// instead of degrading.
func (h *Handlers) Rewrite(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Text == "" {
		return badRequest(c, "Text is required")
	}

	rewritten, err := h.rewrite.Execute(c.UserContext(), req.Text, req.Tone)
	switch {
	case errors.Is(err, domain.ErrMissingAPIKey):
		log.GlobalErrorCtx(c.UserContext(), "rewrite without credential")
		return c.Status(fiber.StatusInternalServerError).
			JSON(errorResponse{Error: "Server Config Error: GEMINI_API_KEY missing"})
	case errors.Is(err, domain.ErrEmptyText):
		return badRequest(c, "Text is required")
	case err != nil:
		log.GlobalErrorCtx(c.UserContext(), "rewrite failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(errorResponse{Error: "Internal Server Error"})
	}

	return c.JSON(textResponse{Text: rewritten})
}

// Humanize rewrites the text to match the persona. Always 200; failures
// come back as the unchanged text.
func (h *Handlers) Humanize(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	persona := h.persona
	if req.SessionID != "" {
		if s, err := h.sessions.Get(req.SessionID); err == nil {
			persona = s.Persona()
		}
	}

	return c.JSON(textResponse{Text: h.humanize.Execute(c.UserContext(), req.Text, persona)})
}

// Stealth rewrites the text to evade AI-authorship detectors. Always 200.
func (h *Handlers) Stealth(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return c.JSON(textResponse{Text: h.stealth.Execute(c.UserContext(), req.Text)})
}

// Analyze scores the Kotodama resonance of the text. Always 200.
func (h *Handlers) Analyze(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return c.JSON(h.analyze.Execute(c.UserContext(), req.Text))
}

// RiskAnalyze scores the posting risk of the text. Always 200.
func (h *Handlers) RiskAnalyze(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return c.JSON(h.riskAnalyze.Execute(c.UserContext(), req.Text))
}

// RiskFix rewrites the text to mitigate named risk categories. Always 200.
func (h *Handlers) RiskFix(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return c.JSON(textResponse{Text: h.riskFix.Execute(c.UserContext(), req.Text, req.Warnings)})
}

// Platform reformats the text for one publishing platform, cache-first per
// session. Always 200 except for an unknown platform.
func (h *Handlers) Platform(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	platform, err := domain.ParsePlatform(req.Platform)
	if err != nil {
		return badRequest(c, "Unknown platform")
	}

	result := h.platform.Execute(c.UserContext(), req.SessionID, req.Text, platform, req.Force)
	return c.JSON(result)
}

// Viral predicts the social media performance of the text. Always 200.
func (h *Handlers) Viral(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return c.JSON(h.viral.Execute(c.UserContext(), req.Text))
}

type protectResponse struct {
	Text           string `json:"text"`
	Length         int    `json:"length"`
	OriginalLength int    `json:"originalLength"`
}

// Protect injects zero-width noise into the text. Pure transform, no model
// call.
func (h *Handlers) Protect(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	protected := antiscan.Inject(req.Text, antiscan.ParseLevel(req.Level))
	return c.JSON(protectResponse{
		Text:           protected,
		Length:         len([]rune(protected)),
		OriginalLength: len([]rune(req.Text)),
	})
}
