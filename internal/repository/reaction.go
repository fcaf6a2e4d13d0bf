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

// ReactionRepository defines the interface for reaction data operations.
// A user holds at most one reaction per post; Set replaces any previous
// reaction of a different type.
type ReactionRepository interface {
	Set(ctx context.Context, postID, userID string, reactionType models.ReactionType) error
	Remove(ctx context.Context, postID, userID string) error
	Get(ctx context.Context, postID, userID string) (*models.Reaction, error)
	CountByPost(ctx context.Context, postID string) (map[models.ReactionType]int, error)
}

type reactionRepository struct {
	db  *gorm.DB
	bus realtime.Bus
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB, bus realtime.Bus) ReactionRepository {
	return &reactionRepository{db: db, bus: bus}
}

func (r *reactionRepository) publish(ctx context.Context, action, postID string) {
	if r.bus == nil {
		return
	}
	_ = r.bus.Publish(ctx, realtime.Event{
		Collection: realtime.CollectionReactions,
		Action:     action,
		RecordID:   postID,
		PostID:     postID,
		At:         time.Now().UTC(),
	})
}

// Set upserts the user's reaction. The (post_id, user_id) conflict target
// keeps the single-reaction invariant under concurrent requests.
func (r *reactionRepository) Set(ctx context.Context, postID, userID string, reactionType models.ReactionType) error {
	reaction := models.Reaction{
		PostID:    postID,
		UserID:    userID,
		Type:      reactionType,
		CreatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type"}),
		}).
		Create(&reaction).Error
	if err != nil {
		return err
	}

	cache.InvalidatePost(ctx, postID)
	r.publish(ctx, realtime.ActionUpdated, postID)
	return nil
}

func (r *reactionRepository) Remove(ctx context.Context, postID, userID string) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Reaction{}).Error
	if err != nil {
		return err
	}

	cache.InvalidatePost(ctx, postID)
	r.publish(ctx, realtime.ActionDeleted, postID)
	return nil
}

// Get returns the user's reaction on a post, or nil when there is none.
func (r *reactionRepository) Get(ctx context.Context, postID, userID string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		First(&reaction, "post_id = ? AND user_id = ?", postID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// CountByPost aggregates reaction counts per type. Every valid type is
// present in the result, zero-valued when absent.
func (r *reactionRepository) CountByPost(ctx context.Context, postID string) (map[models.ReactionType]int, error) {
	type row struct {
		Type  models.ReactionType
		Total int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("type, COUNT(*) as total").
		Where("post_id = ?", postID).
		Group("type").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ReactionType]int, len(models.ReactionTypes))
	for _, t := range models.ReactionTypes {
		counts[t] = 0
	}
	for _, row := range rows {
		if row.Type.Valid() {
			counts[row.Type] = row.Total
		}
	}
	return counts, nil
}
