package repository

import (
	"context"
	"errors"
	"time"

	"echodrop/internal/cache"
	"echodrop/internal/models"
	"echodrop/internal/realtime"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark data operations
type BookmarkRepository interface {
	Add(ctx context.Context, postID, userID string) error
	Remove(ctx context.Context, postID, userID string) error
	Exists(ctx context.Context, postID, userID string) (bool, error)
}

type bookmarkRepository struct {
	db  *gorm.DB
	bus realtime.Bus
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *gorm.DB, bus realtime.Bus) BookmarkRepository {
	return &bookmarkRepository{db: db, bus: bus}
}

func (r *bookmarkRepository) publish(ctx context.Context, action, postID string) {
	if r.bus == nil {
		return
	}
	_ = r.bus.Publish(ctx, realtime.Event{
		Collection: realtime.CollectionBookmarks,
		Action:     action,
		RecordID:   postID,
		PostID:     postID,
		At:         time.Now().UTC(),
	})
}

// Add is idempotent. Bookmarking an already bookmarked post is a no-op.
func (r *bookmarkRepository) Add(ctx context.Context, postID, userID string) error {
	bookmark := models.Bookmark{
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&bookmark).Error
	if err != nil {
		return err
	}

	cache.InvalidatePost(ctx, postID)
	r.publish(ctx, realtime.ActionCreated, postID)
	return nil
}

func (r *bookmarkRepository) Remove(ctx context.Context, postID, userID string) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Bookmark{}).Error
	if err != nil {
		return err
	}

	cache.InvalidatePost(ctx, postID)
	r.publish(ctx, realtime.ActionDeleted, postID)
	return nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var bookmark models.Bookmark
	err := r.db.WithContext(ctx).
		First(&bookmark, "post_id = ? AND user_id = ?", postID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
