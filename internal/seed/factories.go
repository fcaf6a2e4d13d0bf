// Package seed provides helpers to create demo data for development
// and testing.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"echodrop/internal/identity"
	"echodrop/internal/models"
	"echodrop/internal/upload"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

const avatarBase = "https://api.dicebear.com/7.x/avataaars/png"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a user with a generated username and avatar.
func (f *Factory) CreateUser() (*models.User, error) {
	user := &models.User{
		Username: identity.RandomUsername(),
	}
	user.AvatarURL = identity.AvatarURL(avatarBase, user.Username)

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// audioURL fabricates a plausible media URL for seeded clips. Seeded
// rows point at audio that was never uploaded; playback of demo data is
// not the goal.
func (f *Factory) audioURL(kind upload.Kind, userID string) string {
	millis := time.Now().Add(-time.Duration(f.rng.Intn(90*24)) * time.Hour).UnixMilli()
	return "http://localhost:8080/media/" + upload.Key(kind, userID, millis, "m4a")
}

// CreatePost persists a post by the given user with a random duration
// and a created_at spread over the past 90 days.
func (f *Factory) CreatePost(user *models.User) (*models.Post, error) {
	post := &models.Post{
		UserID:    user.ID,
		AudioURL:  f.audioURL(upload.KindPost, user.ID),
		Duration:  1 + f.rng.Intn(120),
		CreatedAt: f.pastTime(90),
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a voice reply on the post.
func (f *Factory) CreateComment(post *models.Post, user *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:    post.ID,
		UserID:    user.ID,
		AudioURL:  f.audioURL(upload.KindComment, user.ID),
		Duration:  1 + f.rng.Intn(30),
		CreatedAt: f.pastTime(30),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReaction persists a reaction of a random type.
func (f *Factory) CreateReaction(post *models.Post, user *models.User) error {
	reaction := &models.Reaction{
		PostID: post.ID,
		UserID: user.ID,
		Type:   models.ReactionTypes[f.rng.Intn(len(models.ReactionTypes))],
	}
	return f.db.Create(reaction).Error
}

// CreateBookmark saves the post for the user.
func (f *Factory) CreateBookmark(post *models.Post, user *models.User) error {
	bookmark := &models.Bookmark{
		PostID: post.ID,
		UserID: user.ID,
	}
	return f.db.Create(bookmark).Error
}

// CreateReport files a generated report against the post.
func (f *Factory) CreateReport(post *models.Post, user *models.User) error {
	report := &models.Report{
		PostID:     post.ID,
		ReporterID: user.ID,
		Reason:     fmt.Sprintf("%s: %s", gofakeit.Word(), gofakeit.Sentence(6)),
	}
	return f.db.Create(report).Error
}

func (f *Factory) pastTime(maxDays int) time.Time {
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}
