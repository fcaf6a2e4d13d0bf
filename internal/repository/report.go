package repository

import (
	"context"

	"echodrop/internal/models"
	"echodrop/internal/observability"

	"gorm.io/gorm"
)

// ReportRepository defines the interface for report data operations.
// Reports are append-only; moderation tooling reads them out-of-band.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListByPost(ctx context.Context, postID string) ([]*models.Report, error)
	List(ctx context.Context, limit, offset int) ([]*models.Report, error)
}

type reportRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{
		db:  db,
		log: observability.NewRepoLogger("reports"),
	}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{
		"report_id": report.ID,
		"post_id":   report.PostID,
	})
	return nil
}

func (r *reportRepository) ListByPost(ctx context.Context, postID string) ([]*models.Report, error) {
	var reports []*models.Report
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) List(ctx context.Context, limit, offset int) ([]*models.Report, error) {
	var reports []*models.Report
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
