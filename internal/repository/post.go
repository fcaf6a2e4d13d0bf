package repository

import (
	"context"
	"time"

	"echodrop/internal/cache"
	"echodrop/internal/models"
	"echodrop/internal/realtime"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string, viewerID string) (*models.Post, error)
	List(ctx context.Context, limit, offset int, viewerID string) ([]*models.Post, error)
	GetByUserID(ctx context.Context, userID string, limit, offset int, viewerID string) ([]*models.Post, error)
	GetBookmarked(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	db  *gorm.DB
	bus realtime.Bus
}

// NewPostRepository creates a new post repository. bus may be nil when
// change events are not wanted.
func NewPostRepository(db *gorm.DB, bus realtime.Bus) PostRepository {
	return &postRepository{db: db, bus: bus}
}

func (r *postRepository) publish(ctx context.Context, action, id string) {
	if r.bus == nil {
		return
	}
	_ = r.bus.Publish(ctx, realtime.Event{
		Collection: realtime.CollectionPosts,
		Action:     action,
		RecordID:   id,
		PostID:     id,
		At:         time.Now().UTC(),
	})
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	cache.InvalidateFeed(ctx)
	r.publish(ctx, realtime.ActionCreated, post.ID)
	return nil
}

// applyPostDetails adds subqueries to fetch counts and bookmark status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID string) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count"

	if viewerID != "" {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM bookmarks WHERE bookmarks.post_id = posts.id AND bookmarks.user_id = ?) as bookmarked", viewerID)
	}

	return db.Select(selectQuery + ", FALSE as bookmarked")
}

func decorate(posts []*models.Post, viewerID string) {
	for _, p := range posts {
		p.DecorateForViewer(viewerID)
	}
}

// GetByID loads one post with its projections. The viewer-independent
// anonymous read is served cache-aside; viewer-scoped reads always hit
// the database because their projections differ per viewer.
func (r *postRepository) GetByID(ctx context.Context, id string, viewerID string) (*models.Post, error) {
	if viewerID == "" {
		return cache.Aside(ctx, cache.PostKey(id), cache.PostTTL,
			func(ctx context.Context) (*models.Post, error) {
				return r.getByID(ctx, id, "")
			})
	}
	return r.getByID(ctx, id, viewerID)
}

func (r *postRepository) getByID(ctx context.Context, id string, viewerID string) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("Reactions").
		First(&post, "posts.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	post.DecorateForViewer(viewerID)
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, viewerID string) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("Reactions").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	decorate(posts, viewerID)
	return posts, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID string, limit, offset int, viewerID string) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("Reactions").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	decorate(posts, viewerID)
	return posts, nil
}

func (r *postRepository) GetBookmarked(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("Reactions").
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", viewerID).
		Order("bookmarks.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	decorate(posts, viewerID)
	return posts, nil
}

// Delete removes the post and its dependent rows. Children are removed
// explicitly so the behavior does not depend on database-level cascades.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.Reaction{}, &models.Bookmark{}, &models.Comment{}, &models.Report{},
		} {
			if err := tx.Where("post_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Post{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	cache.InvalidatePost(ctx, id)
	cache.InvalidateComments(ctx, id)
	r.publish(ctx, realtime.ActionDeleted, id)
	return nil
}
