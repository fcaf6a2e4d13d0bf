package repository_test

import (
	"testing"

	"echodrop/internal/models"
	"echodrop/internal/repository"
	"echodrop/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkRepository_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	db := testutil.OpenTestDB(t)
	repo := repository.NewBookmarkRepository(db, nil)

	user := seedUser(t, db, "Saver1")
	post := seedPost(t, db, user.ID)

	require.NoError(t, repo.Add(ctx, post.ID, user.ID))
	require.NoError(t, repo.Add(ctx, post.ID, user.ID))

	var count int64
	require.NoError(t, db.Model(&models.Bookmark{}).
		Where("post_id = ? AND user_id = ?", post.ID, user.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	exists, err := repo.Exists(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBookmarkRepository_Remove(t *testing.T) {
	t.Parallel()

	db := testutil.OpenTestDB(t)
	repo := repository.NewBookmarkRepository(db, nil)

	user := seedUser(t, db, "Saver2")
	post := seedPost(t, db, user.ID)

	require.NoError(t, repo.Add(ctx, post.ID, user.ID))
	require.NoError(t, repo.Remove(ctx, post.ID, user.ID))

	exists, err := repo.Exists(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// Removing a bookmark that is not there is a no-op.
	require.NoError(t, repo.Remove(ctx, post.ID, user.ID))
}
