// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Every user doubles as a channel that
// other users can subscribe to.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"unique;not null" json:"username"`
	Email        string         `gorm:"unique;not null" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	FullName     string         `gorm:"not null" json:"full_name"`
	Avatar       string         `json:"avatar"`
	CoverImage   string         `json:"cover_image"`
	RefreshToken string         `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// ChannelProfile is the public channel view of a user, computed at query time.
type ChannelProfile struct {
	ID                uint   `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"cover_image"`
	SubscribersCount  int64  `json:"subscribers_count"`
	SubscribedToCount int64  `json:"subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

// WatchHistoryEntry records that a user watched a video. Re-watching moves the
// entry to the front of the history instead of duplicating it.
type WatchHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_watch_user_video" json:"user_id"`
	VideoID   uint      `gorm:"not null;uniqueIndex:idx_watch_user_video" json:"video_id"`
	WatchedAt time.Time `gorm:"not null;index" json:"watched_at"`

	Video Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`
}

// TableName specifies the table name for GORM
func (WatchHistoryEntry) TableName() string {
	return "watch_history"
}
