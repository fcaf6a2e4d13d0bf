package repository_test

import (
	"context"
	"fmt"
	"testing"

	"echodrop/internal/models"
	"echodrop/internal/repository"
	"echodrop/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, userID string) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:   userID,
		AudioURL: fmt.Sprintf("http://localhost:8080/media/posts/%s/1.m4a", userID),
		Duration: 12,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, postID, userID string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:   postID,
		UserID:   userID,
		AudioURL: fmt.Sprintf("http://localhost:8080/media/comments/%s/1.m4a", userID),
		Duration: 4,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func setupPostRepo(t *testing.T) (*gorm.DB, repository.PostRepository) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	return db, repository.NewPostRepository(db, nil)
}

var ctx = context.Background()
