package server

import (
	"echodrop/internal/audio"
	"echodrop/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.Context(), c.Params("id"), s.optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comments. Expects a
// multipart form with an "audio" file and its "duration_ms".
func (s *Server) CreateComment(c *fiber.Ctx) error {
	path, millis, err := receiveAudioFile(c)
	if err != nil {
		return respondError(c, err)
	}
	defer cleanupAudioFile(path)

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID: currentUserID(c),
		PostID: c.Params("id"),
		Clip: audio.Clip{
			Path:     path,
			Millis:   millis,
			Duration: audio.FlooredSeconds(millis),
		},
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
