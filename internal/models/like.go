package models

import (
	"errors"
	"time"
)

// Like is a user's like on exactly one of a video, a comment or a tweet.
// Presence of a row means "liked"; removal means "not liked". Each composite
// unique index guarantees at most one like per (user, target) pair; Postgres
// treats NULLs as distinct so likes on different target types never collide.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LikedByID uint      `gorm:"not null;index;uniqueIndex:idx_like_video;uniqueIndex:idx_like_comment;uniqueIndex:idx_like_tweet" json:"liked_by_id"`
	VideoID   *uint     `gorm:"uniqueIndex:idx_like_video" json:"video_id,omitempty"`
	CommentID *uint     `gorm:"uniqueIndex:idx_like_comment" json:"comment_id,omitempty"`
	TweetID   *uint     `gorm:"uniqueIndex:idx_like_tweet" json:"tweet_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrLikeTarget is returned when a Like does not reference exactly one target.
var ErrLikeTarget = errors.New("like must reference exactly one of video, comment or tweet")

// Validate checks the exactly-one-target invariant.
func (l *Like) Validate() error {
	targets := 0
	if l.VideoID != nil {
		targets++
	}
	if l.CommentID != nil {
		targets++
	}
	if l.TweetID != nil {
		targets++
	}
	if targets != 1 {
		return ErrLikeTarget
	}
	return nil
}
