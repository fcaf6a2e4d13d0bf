package repository

import (
	"context"
	"time"

	"echodrop/internal/cache"
	"echodrop/internal/models"
	"echodrop/internal/realtime"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	db  *gorm.DB
	bus realtime.Bus
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB, bus realtime.Bus) CommentRepository {
	return &commentRepository{db: db, bus: bus}
}

// publish emits a change event carrying the parent post ID so
// subscribers can scope comment updates to one post.
func (r *commentRepository) publish(ctx context.Context, action, id, postID string) {
	if r.bus == nil {
		return
	}
	_ = r.bus.Publish(ctx, realtime.Event{
		Collection: realtime.CollectionComments,
		Action:     action,
		RecordID:   id,
		PostID:     postID,
		At:         time.Now().UTC(),
	})
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	// The parent post caches its comment count, so both entries go.
	cache.InvalidateComments(ctx, comment.PostID)
	cache.InvalidatePost(ctx, comment.PostID)
	r.publish(ctx, realtime.ActionCreated, comment.ID, comment.PostID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns a post's comments oldest first, the order they are
// played back in. The list is served cache-aside; writes invalidate it.
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return cache.Aside(ctx, cache.CommentsKey(postID), cache.CommentsTTL,
		func(ctx context.Context) ([]*models.Comment, error) {
			var comments []*models.Comment
			err := r.db.WithContext(ctx).
				Preload("User").
				Where("post_id = ?", postID).
				Order("created_at ASC").
				Find(&comments).Error
			if err != nil {
				return nil, err
			}
			return comments, nil
		})
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error; err != nil {
		return err
	}
	cache.InvalidateComments(ctx, comment.PostID)
	cache.InvalidatePost(ctx, comment.PostID)
	r.publish(ctx, realtime.ActionDeleted, id, comment.PostID)
	return nil
}
