package server

import (
	"echodrop/internal/audio"
	"echodrop/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/posts
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewerID := s.optionalUserID(c)

	trigger := c.Query("trigger")
	if page.Offset > 0 && trigger == "" {
		trigger = service.TriggerPaging
	}

	posts, err := s.feedService.ListFeed(c.Context(), service.ListFeedInput{
		Limit:    page.Limit,
		Offset:   page.Offset,
		ViewerID: viewerID,
		Trigger:  trigger,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.Context(), c.Params("id"), s.optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts. Expects a multipart form with an
// "audio" file and its "duration_ms".
func (s *Server) CreatePost(c *fiber.Ctx) error {
	path, millis, err := receiveAudioFile(c)
	if err != nil {
		return respondError(c, err)
	}
	defer cleanupAudioFile(path)

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID: currentUserID(c),
		Clip: audio.Clip{
			Path:     path,
			Millis:   millis,
			Duration: audio.FlooredSeconds(millis),
		},
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: c.Params("id"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBookmarkedPosts handles GET /api/posts/bookmarked
func (s *Server) GetBookmarkedPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.feedService.ListBookmarked(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}
