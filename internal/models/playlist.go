package models

import (
	"time"

	"gorm.io/gorm"
)

// Playlist is an ordered, de-duplicated collection of videos owned by a user.
// Videos is loaded by the repository from the playlist_videos join table in
// insertion order.
type Playlist struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Owner       User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Videos      []Video        `gorm:"-" json:"videos"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// PlaylistVideo is a membership row. The composite primary key gives the
// playlist set semantics: inserting an existing member is a no-op.
type PlaylistVideo struct {
	PlaylistID uint      `gorm:"primaryKey" json:"playlist_id"`
	VideoID    uint      `gorm:"primaryKey" json:"video_id"`
	Position   int       `gorm:"not null" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}
