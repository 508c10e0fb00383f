package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"kotodama/internal/domain"
	"kotodama/pkg/log"
)

// userIDKey is where the auth middleware stores the verified user id.
const userIDKey = "user_id"

// RequireUser extracts the opaque user identifier the auth collaborator
// attaches to the request. Authentication itself (email magic links,
// session refresh) happens in the external provider; this boundary only
// trusts its forwarded identity.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Copy the header value: fiber reuses the request buffer backing
		// c.Get's return, and the id outlives the request in stores.
		userID := utils.CopyString(strings.TrimSpace(c.Get("X-User-ID")))
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "Sign in required"})
		}
		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

func requestUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

type saveDraftRequest struct {
	Content string `json:"content"`
}

// SaveDraft persists the current editor text as a new draft.
func (h *Handlers) SaveDraft(c *fiber.Ctx) error {
	var req saveDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return badRequest(c, "Content is required")
	}

	draft, err := h.drafts.Save(c.UserContext(), requestUserID(c), req.Content)
	if err != nil {
		log.GlobalErrorCtx(c.UserContext(), "save draft failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Could not save draft"})
	}

	return c.Status(fiber.StatusCreated).JSON(draft)
}

// ListDrafts returns the user's drafts, newest first.
func (h *Handlers) ListDrafts(c *fiber.Ctx) error {
	drafts, err := h.drafts.List(c.UserContext(), requestUserID(c))
	if err != nil {
		log.GlobalErrorCtx(c.UserContext(), "list drafts failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Could not load drafts"})
	}
	return c.JSON(drafts)
}

// GetDraft loads one draft; the client replaces the editor text with its
// content after its own confirm.
func (h *Handlers) GetDraft(c *fiber.Ctx) error {
	draft, err := h.drafts.Get(c.UserContext(), requestUserID(c), c.Params("id"))
	if errors.Is(err, domain.ErrDraftNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Draft not found"})
	}
	if err != nil {
		log.GlobalErrorCtx(c.UserContext(), "get draft failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Could not load draft"})
	}
	return c.JSON(draft)
}

// DeleteDraft removes one draft.
func (h *Handlers) DeleteDraft(c *fiber.Ctx) error {
	err := h.drafts.Delete(c.UserContext(), requestUserID(c), c.Params("id"))
	if errors.Is(err, domain.ErrDraftNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Draft not found"})
	}
	if err != nil {
		log.GlobalErrorCtx(c.UserContext(), "delete draft failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Could not delete draft"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
