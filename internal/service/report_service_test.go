package service

import (
	"context"
	"strings"
	"testing"

	"echodrop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReportService_SubmitReport(t *testing.T) {
	t.Parallel()

	var created *models.Report
	svc := NewReportService(
		&reportRepoStub{
			CreateFunc: func(ctx context.Context, report *models.Report) error {
				report.ID = "report-1"
				created = report
				return nil
			},
		},
		&postRepoStub{},
	)

	report, err := svc.SubmitReport(context.Background(), SubmitReportInput{
		PostID:     "post-1",
		ReporterID: "u1",
		Reason:     "  offensive content  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "offensive content", report.Reason)
	require.NotNil(t, created)
	assert.Equal(t, "post-1", created.PostID)
}

func TestReportService_SubmitReportValidation(t *testing.T) {
	t.Parallel()

	svc := NewReportService(&reportRepoStub{}, &postRepoStub{})

	_, err := svc.SubmitReport(context.Background(), SubmitReportInput{PostID: "post-1", Reason: "spam"})
	assert.True(t, models.IsCode(err, models.CodeNotAuthenticated))

	_, err = svc.SubmitReport(context.Background(), SubmitReportInput{PostID: "post-1", ReporterID: "u1", Reason: "   "})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = svc.SubmitReport(context.Background(), SubmitReportInput{
		PostID:     "post-1",
		ReporterID: "u1",
		Reason:     strings.Repeat("x", maxReasonLen+1),
	})
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestReportService_SubmitReportMissingPost(t *testing.T) {
	t.Parallel()

	svc := NewReportService(
		&reportRepoStub{},
		&postRepoStub{
			GetByIDFunc: func(ctx context.Context, id, viewerID string) (*models.Post, error) {
				return nil, gorm.ErrRecordNotFound
			},
		},
	)

	_, err := svc.SubmitReport(context.Background(), SubmitReportInput{
		PostID:     "missing",
		ReporterID: "u1",
		Reason:     "spam",
	})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
