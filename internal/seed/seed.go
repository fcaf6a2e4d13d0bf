package seed

import (
	"fmt"
	"log"

	"echodrop/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with demo users, posts, and
// interactions.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder over the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
	}
}

// ClearAll removes every seeded row. Child tables go first so foreign
// keys never dangle mid-wipe.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Report{},
		&models.Bookmark{},
		&models.Reaction{},
		&models.Comment{},
		&models.Post{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	return nil
}

// Run seeds the database per the options. Posts are spread across the
// users, and roughly half the posts pick up reactions, comments, and
// bookmarks from other users.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil
	}
	log.Printf("seeded %d users", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return fmt.Errorf("seeding post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("seeded %d posts", len(posts))

	var reactions, comments, bookmarks int
	for _, post := range posts {
		if s.factory.rng.Intn(2) == 0 {
			continue
		}

		// A handful of other users interact with the post.
		for i := 0; i < 1+s.factory.rng.Intn(3); i++ {
			user := users[s.factory.rng.Intn(len(users))]
			if user.ID == post.UserID {
				continue
			}

			switch s.factory.rng.Intn(3) {
			case 0:
				if err := s.factory.CreateReaction(post, user); err == nil {
					reactions++
				}
			case 1:
				if _, err := s.factory.CreateComment(post, user); err == nil {
					comments++
				}
			default:
				if err := s.factory.CreateBookmark(post, user); err == nil {
					bookmarks++
				}
			}
		}
	}
	log.Printf("seeded %d reactions, %d comments, %d bookmarks", reactions, comments, bookmarks)

	return nil
}
