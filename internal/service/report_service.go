package service

import (
	"context"
	"errors"
	"strings"

	"echodrop/internal/models"
	"echodrop/internal/repository"

	"gorm.io/gorm"
)

const maxReasonLen = 500

type ReportService struct {
	reportRepo repository.ReportRepository
	postRepo   repository.PostRepository
}

type SubmitReportInput struct {
	PostID     string
	ReporterID string
	Reason     string
}

func NewReportService(reportRepo repository.ReportRepository, postRepo repository.PostRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		postRepo:   postRepo,
	}
}

// SubmitReport files a report against a post. The post itself is never
// changed; reports queue up for out-of-band review.
func (s *ReportService) SubmitReport(ctx context.Context, in SubmitReportInput) (*models.Report, error) {
	if in.ReporterID == "" {
		return nil, models.NewNotAuthenticatedError("sign in to report posts")
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, models.NewValidationError("Reason is required")
	}
	if len(reason) > maxReasonLen {
		return nil, models.NewValidationError("Reason too long (max 500 characters)")
	}

	_, err := s.postRepo.GetByID(ctx, in.PostID, in.ReporterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}
	if err != nil {
		return nil, models.NewBackendError(err)
	}

	report := &models.Report{
		PostID:     in.PostID,
		ReporterID: in.ReporterID,
		Reason:     reason,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, models.NewBackendError(err)
	}
	return report, nil
}

// ListReports returns recent reports for moderation tooling.
func (s *ReportService) ListReports(ctx context.Context, limit, offset int) ([]*models.Report, error) {
	reports, err := s.reportRepo.List(ctx, clampLimit(limit), offset)
	if err != nil {
		return nil, models.NewBackendError(err)
	}
	return reports, nil
}
