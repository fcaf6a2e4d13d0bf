package server

import (
	"echodrop/internal/identity"
	"echodrop/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me. Responds 404 when the
// authenticated identity has not created a profile yet.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.Get(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// CreateProfile handles POST /api/users. The profile's ID is the
// authenticated identity, not client-chosen.
func (s *Server) CreateProfile(c *fiber.Ctx) error {
	var req struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	if req.AvatarURL == "" && req.Username != "" {
		req.AvatarURL = identity.AvatarURL(s.config.AvatarBaseURL, req.Username)
	}

	user, err := s.userService.Create(c.Context(), &models.User{
		ID:        currentUserID(c),
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateMyUsername handles PATCH /api/users/me
func (s *Server) UpdateMyUsername(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateUsername(c.Context(), currentUserID(c), req.Username)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	user, err := s.userService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewerID := s.optionalUserID(c)

	posts, err := s.feedService.ListUserPosts(c.Context(), c.Params("id"), page.Limit, page.Offset, viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetAvatar handles GET /api/avatars/:seed with a locally rendered
// deterministic identicon.
func (s *Server) GetAvatar(c *fiber.Ctx) error {
	data, err := s.avatarService.Render(c.Params("seed"))
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	c.Set(fiber.HeaderContentType, "image/webp")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(data)
}
