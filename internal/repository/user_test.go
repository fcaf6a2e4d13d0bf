package repository_test

import (
	"errors"
	"testing"

	"echodrop/internal/models"
	"echodrop/internal/repository"
	"echodrop/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	db := testutil.OpenTestDB(t)
	repo := repository.NewUserRepository(db)

	user := &models.User{Username: "EchoFox42"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "EchoFox42", got.Username)

	byName, err := repo.GetByUsername(ctx, "EchoFox42")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	t.Parallel()

	db := testutil.OpenTestDB(t)
	repo := repository.NewUserRepository(db)

	require.NoError(t, repo.Create(ctx, &models.User{Username: "EchoFox42"}))

	err := repo.Create(ctx, &models.User{Username: "EchoFox42"})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)
}

func TestUserRepository_UpdateUsername(t *testing.T) {
	t.Parallel()

	db := testutil.OpenTestDB(t)
	repo := repository.NewUserRepository(db)

	user := seedUser(t, db, "OldName1")

	updated, err := repo.UpdateUsername(ctx, user.ID, "NewName1")
	require.NoError(t, err)
	assert.Equal(t, "NewName1", updated.Username)

	// Taken by another user.
	seedUser(t, db, "TakenName")
	_, err = repo.UpdateUsername(ctx, user.ID, "TakenName")
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)

	// Unknown user.
	_, err = repo.UpdateUsername(ctx, "00000000-0000-0000-0000-000000000000", "Whatever1")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
