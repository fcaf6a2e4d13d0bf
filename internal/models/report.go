package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is a user-submitted flag on a post. Reports are append-only and
// reviewed out of band; submitting one never mutates the post.
type Report struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID     string    `gorm:"type:uuid;index;not null" json:"post_id"`
	ReporterID string    `gorm:"type:uuid;index;not null" json:"reporter_id"`
	Reason     string    `gorm:"size:500;not null" json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
