package server

import (
	"echodrop/internal/models"
	"echodrop/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportPost handles POST /api/posts/:id/report
func (s *Server) ReportPost(c *fiber.Ctx) error {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.SubmitReport(c.Context(), service.SubmitReportInput{
		PostID:     c.Params("id"),
		ReporterID: currentUserID(c),
		Reason:     req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}
