package models

import "time"

// ReactionType enumerates the reactions a post can receive.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
	ReactionLove    ReactionType = "love"
	ReactionFire    ReactionType = "fire"
	ReactionLaugh   ReactionType = "laugh"
)

// ReactionTypes lists every valid reaction, in display order.
var ReactionTypes = []ReactionType{
	ReactionLike,
	ReactionDislike,
	ReactionLove,
	ReactionFire,
	ReactionLaugh,
}

// Valid reports whether t is a known reaction type.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionDislike, ReactionLove, ReactionFire, ReactionLaugh:
		return true
	}
	return false
}

// Reaction is a single user's reaction to a post. The (post_id, user_id)
// pair is unique: a user holds at most one reaction per post, whatever
// its type.
type Reaction struct {
	PostID    string       `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID    string       `gorm:"type:uuid;primaryKey" json:"user_id"`
	Type      ReactionType `gorm:"size:16;not null" json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}
