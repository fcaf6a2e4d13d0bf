package server

import (
	"echodrop/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleReaction handles PUT /api/posts/:id/reactions.
// Sending the currently active type clears it; any other type replaces
// it. The response reports the reaction now active, "" when cleared.
func (s *Server) ToggleReaction(c *fiber.Ctx) error {
	var req struct {
		Type models.ReactionType `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	active, err := s.interactionService.ToggleReaction(c.Context(), c.Params("id"), currentUserID(c), req.Type)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"my_reaction": active})
}

// ToggleBookmark handles PUT /api/posts/:id/bookmark
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	bookmarked, err := s.interactionService.ToggleBookmark(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarked": bookmarked})
}
