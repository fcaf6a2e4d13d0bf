package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns evaluated flags for the caller. Anonymous
// callers get the flag set without any partial rollouts.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := s.optionalUserID(c)
	return c.JSON(fiber.Map{
		"flags": s.flags.Snapshot(userID),
	})
}
