package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a shared audio clip. Duration is whole seconds, floored from the
// raw recording length.
type Post struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	AudioURL  string    `gorm:"size:512;not null" json:"audio_url"`
	Duration  int       `gorm:"not null" json:"duration"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	// Read-time projections, populated by the feed query or by
	// DecorateForViewer. Never written back.
	ReactionCounts map[ReactionType]int `gorm:"-" json:"reaction_counts"`
	MyReaction     ReactionType         `gorm:"-" json:"my_reaction,omitempty"`
	Bookmarked     bool                 `gorm:"->;-:migration" json:"bookmarked"`
	CommentsCount  int                  `gorm:"->;-:migration" json:"comments_count"`

	Reactions []Reaction `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// DecorateForViewer fills the reaction projections from the preloaded
// Reactions slice. Every valid reaction type appears in the counts map,
// zero-valued when nobody reacted with it.
func (p *Post) DecorateForViewer(viewerID string) {
	counts := make(map[ReactionType]int, len(ReactionTypes))
	for _, t := range ReactionTypes {
		counts[t] = 0
	}
	p.MyReaction = ""
	for _, r := range p.Reactions {
		if r.Type.Valid() {
			counts[r.Type]++
		}
		if r.UserID == viewerID {
			p.MyReaction = r.Type
		}
	}
	p.ReactionCounts = counts
}
