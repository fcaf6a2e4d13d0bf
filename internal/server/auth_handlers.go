package server

import (
	"github.com/gofiber/fiber/v2"
)

// CreateAnonymousSession handles POST /api/auth/anonymous.
// It mints a brand new anonymous identity: a user ID and a signed
// session token. No user row exists until a profile is created.
func (s *Server) CreateAnonymousSession(c *fiber.Ctx) error {
	creds, err := s.auth.NewAnonymousSession(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user_id": creds.UserID,
		"token":   creds.Token,
	})
}
