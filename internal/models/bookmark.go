package models

import "time"

// Bookmark marks a post saved by a user. Toggled on and off; at most one
// row per (post, user) pair.
type Bookmark struct {
	PostID    string    `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
