package server

import (
	"os"
	"path/filepath"
	"strconv"

	"echodrop/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// currentUserID returns the authenticated user's ID from locals. Only
// valid behind AuthRequired.
func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("userID").(string)
	return userID
}

// optionalUserID extracts the user ID from a Bearer token when one is
// present, without enforcing authentication.
func (s *Server) optionalUserID(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if len(authHeader) <= len("Bearer ") {
		return ""
	}
	userID, err := s.auth.Validate(authHeader[len("Bearer "):])
	if err != nil {
		return ""
	}
	return userID
}

// respondError writes the standard error payload with the status mapped
// from the error's code.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.HTTPStatus(err), err)
}

// receiveAudioFile saves the uploaded "audio" form file to a temp path
// and parses the "duration_ms" form value. Callers must remove the file.
func receiveAudioFile(c *fiber.Ctx) (path string, millis int64, err error) {
	file, err := c.FormFile("audio")
	if err != nil {
		return "", 0, models.NewValidationError("Audio file is required")
	}

	millis, err = strconv.ParseInt(c.FormValue("duration_ms"), 10, 64)
	if err != nil || millis < 0 {
		return "", 0, models.NewValidationError("duration_ms must be a non-negative integer")
	}

	dir, err := os.MkdirTemp("", "echodrop-upload-*")
	if err != nil {
		return "", 0, models.NewInternalError(err)
	}

	path = filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveFile(file, path); err != nil {
		_ = os.RemoveAll(dir)
		return "", 0, models.NewInternalError(err)
	}
	return path, millis, nil
}

func cleanupAudioFile(path string) {
	_ = os.RemoveAll(filepath.Dir(path))
}
