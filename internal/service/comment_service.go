package service

import (
	"context"
	"errors"

	"echodrop/internal/audio"
	"echodrop/internal/models"
	"echodrop/internal/repository"
	"echodrop/internal/upload"

	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	uploader    Uploader
}

type CreateCommentInput struct {
	UserID string
	PostID string
	Clip   audio.Clip
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	uploader Uploader,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		uploader:    uploader,
	}
}

func (s *CommentService) checkPost(ctx context.Context, postID, viewerID string) error {
	_, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return models.NewBackendError(err)
	}
	return nil
}

// CreateComment uploads a recorded reply and attaches it to a post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.UserID == "" {
		return nil, models.NewNotAuthenticatedError("sign in before commenting")
	}
	if in.Clip.Path == "" {
		return nil, models.NewValidationError("Recording is required")
	}
	if err := s.checkPost(ctx, in.PostID, in.UserID); err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, upload.KindComment, in.UserID, in.Clip.Path)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		UserID:   in.UserID,
		AudioURL: url,
		Duration: in.Clip.Duration,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewBackendError(err)
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns a post's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID, viewerID string) ([]*models.Comment, error) {
	if err := s.checkPost(ctx, postID, viewerID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewBackendError(err)
	}
	return comments, nil
}
