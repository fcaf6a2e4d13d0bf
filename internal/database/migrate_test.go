package database_test

import (
	"testing"
	"time"

	"echodrop/internal/database"
	"echodrop/internal/models"
	"echodrop/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedLegacyLikes(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Exec(`
		CREATE TABLE likes (
			post_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			is_like BOOLEAN NOT NULL,
			created_at DATETIME,
			PRIMARY KEY (post_id, user_id)
		)
	`).Error)
}

func TestMigrateLegacyLikes(t *testing.T) {
	t.Parallel()

	db := testutil.OpenTestDB(t)
	seedLegacyLikes(t, db)

	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		`INSERT INTO likes (post_id, user_id, is_like, created_at) VALUES (?, ?, ?, ?)`,
		"post-1", "user-1", true, now).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO likes (post_id, user_id, is_like, created_at) VALUES (?, ?, ?, ?)`,
		"post-1", "user-2", false, now).Error)

	require.NoError(t, database.MigrateLegacyLikes(db))

	var reactions []models.Reaction
	require.NoError(t, db.Order("user_id").Find(&reactions).Error)
	require.Len(t, reactions, 2)
	assert.Equal(t, models.ReactionLike, reactions[0].Type)
	assert.Equal(t, models.ReactionDislike, reactions[1].Type)

	assert.False(t, db.Migrator().HasTable("likes"))
}

func TestMigrateLegacyLikes_ExistingReactionWins(t *testing.T) {
	t.Parallel()

	db := testutil.OpenTestDB(t)
	seedLegacyLikes(t, db)

	require.NoError(t, db.Create(&models.Reaction{
		PostID: "post-1",
		UserID: "user-1",
		Type:   models.ReactionFire,
	}).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO likes (post_id, user_id, is_like, created_at) VALUES (?, ?, ?, ?)`,
		"post-1", "user-1", true, time.Now().UTC()).Error)

	require.NoError(t, database.MigrateLegacyLikes(db))

	var reaction models.Reaction
	require.NoError(t, db.First(&reaction, "post_id = ? AND user_id = ?", "post-1", "user-1").Error)
	assert.Equal(t, models.ReactionFire, reaction.Type)
}

func TestMigrateLegacyLikes_NoLegacyTable(t *testing.T) {
	t.Parallel()

	db := testutil.OpenTestDB(t)
	assert.NoError(t, database.MigrateLegacyLikes(db))
}
