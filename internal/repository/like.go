package repository

import (
	"context"

	"clipstream/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// Toggle removes the like matching the target if it exists, otherwise
	// creates it. Returns true when the toggle resulted in a like.
	Toggle(ctx context.Context, like *models.Like) (bool, error)
	GetLikedVideos(ctx context.Context, userID uint) ([]*models.Video, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle is a conditional delete-else-insert. The delete and the conflict-safe
// insert are each atomic, so two racing toggles can never leave two like rows:
// the composite unique index rejects the duplicate and DO NOTHING absorbs it.
func (r *likeRepository) Toggle(ctx context.Context, like *models.Like) (bool, error) {
	if err := like.Validate(); err != nil {
		return false, err
	}

	del := r.db.WithContext(ctx).Where("liked_by_id = ?", like.LikedByID)
	switch {
	case like.VideoID != nil:
		del = del.Where("video_id = ?", *like.VideoID)
	case like.CommentID != nil:
		del = del.Where("comment_id = ?", *like.CommentID)
	case like.TweetID != nil:
		del = del.Where("tweet_id = ?", *like.TweetID)
	}

	res := del.Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *likeRepository) GetLikedVideos(ctx context.Context, userID uint) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Joins("JOIN likes ON likes.video_id = videos.id").
		Where("likes.liked_by_id = ?", userID).
		Order("likes.created_at DESC").
		Preload("Owner").
		Find(&videos).Error
	return videos, err
}
