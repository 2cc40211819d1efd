package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a video.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	VideoID   uint           `gorm:"not null;index" json:"video_id"`
	OwnerID   uint           `gorm:"not null;index" json:"owner_id"`
	Owner     User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentPage is a paginated comment listing with totals.
type CommentPage struct {
	Comments   []*Comment `json:"comments"`
	TotalDocs  int64      `json:"total_docs"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
