package models

import (
	"time"

	"gorm.io/gorm"
)

// Video represents a published (or draft) video. VideoFile and Thumbnail hold
// public URLs into the media store.
type Video struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	VideoFile   string         `gorm:"not null" json:"video_file"`
	Thumbnail   string         `gorm:"not null" json:"thumbnail"`
	Duration    float64        `json:"duration"`
	Views       int64          `gorm:"not null;default:0" json:"views"`
	IsPublished bool           `gorm:"not null;default:false" json:"is_published"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Owner       User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// VideoPage is a paginated video listing with totals, mirroring the shape of
// paginated aggregation results.
type VideoPage struct {
	Videos     []*Video `json:"videos"`
	TotalDocs  int64    `json:"total_docs"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}
