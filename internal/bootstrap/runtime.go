// Package bootstrap wires up runtime dependencies shared by the server
// and the auxiliary commands.
package bootstrap

import (
	"fmt"
	"log"
	"strings"

	"echodrop/internal/cache"
	"echodrop/internal/config"
	"echodrop/internal/database"
	"echodrop/internal/models"
	"echodrop/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis and optionally fills an empty
// development database with demo content.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData {
		if err := ensureDemoContent(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo content: %w", err)
		}
	}

	return db, r, nil
}

// ensureDemoContent seeds demo users and posts in development, but only
// when the users table is empty so real data is never mixed with fakes.
func ensureDemoContent(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	if err := seed.NewSeeder(db).Run(seed.Options{
		NumUsers: 10,
		NumPosts: 40,
	}); err != nil {
		return err
	}

	log.Println("demo content seeded for empty development database")
	return nil
}
