package web

import (
	"github.com/gofiber/fiber/v2"

	"kotodama/internal/domain"
)

type createSessionRequest struct {
	Persona *domain.PersonaDNA `json:"persona"`
}

// CreateSession opens a new editor session. The persona defaults to the
// configured one when the body omits it.
func (h *Handlers) CreateSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	persona := h.persona
	if req.Persona != nil {
		persona = *req.Persona
	}

	s := h.sessions.Create(persona)
	return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
}

// GetSession returns the session state, including the latest analysis and
// the analyzing busy flag.
func (h *Handlers) GetSession(c *fiber.Ctx) error {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Session not found"})
	}
	return c.JSON(s.Snapshot())
}

// SetSessionText replaces the editor text, scheduling the debounced
// analysis. The response is the state before the analysis completes; the
// client polls GetSession for the result.
func (h *Handlers) SetSessionText(c *fiber.Ctx) error {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Session not found"})
	}

	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	h.sessions.SetText(s, req.Text)
	return c.JSON(s.Snapshot())
}

// SetSessionPersona replaces the session persona.
func (h *Handlers) SetSessionPersona(c *fiber.Ctx) error {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Session not found"})
	}

	var persona domain.PersonaDNA
	if err := c.BodyParser(&persona); err != nil {
		return badRequest(c, "Invalid request body")
	}

	s.SetPersona(persona)
	return c.JSON(s.Snapshot())
}
