package database

import (
	"fmt"
	"log/slog"

	"echodrop/internal/middleware"
	"echodrop/internal/models"

	"gorm.io/gorm"
)

// AllModels lists every persisted model, in FK dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Bookmark{},
		&models.Report{},
	}
}

// Migrate runs schema migration for all models, then folds any legacy
// like/dislike rows into the reactions table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return MigrateLegacyLikes(db)
}

// MigrateLegacyLikes converts rows from the old likes table, which stored a
// boolean is_like per (post, user), into typed reactions. Rows migrate as
// 'like' or 'dislike'; an existing reaction for the same pair wins. The
// likes table is dropped once its rows are folded in.
func MigrateLegacyLikes(db *gorm.DB) error {
	if !db.Migrator().HasTable("likes") {
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			INSERT INTO reactions (post_id, user_id, type, created_at)
			SELECT post_id, user_id,
			       CASE WHEN is_like THEN 'like' ELSE 'dislike' END,
			       created_at
			FROM likes
			WHERE true
			ON CONFLICT (post_id, user_id) DO NOTHING
		`)
		if res.Error != nil {
			return fmt.Errorf("failed to fold likes into reactions: %w", res.Error)
		}

		middleware.Logger.Info("Migrated legacy likes to reactions",
			slog.Int64("rows", res.RowsAffected))

		if err := tx.Migrator().DropTable("likes"); err != nil {
			return fmt.Errorf("failed to drop legacy likes table: %w", err)
		}
		return nil
	})
	return err
}
