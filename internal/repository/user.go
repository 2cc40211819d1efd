// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"clipstream/internal/cache"
	"clipstream/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	UpdateAccount(ctx context.Context, id uint, email, username, fullName string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id uint, url string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, id uint, url string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	UpdateRefreshToken(ctx context.Context, id uint, token string) error
	GetChannelProfile(ctx context.Context, username string, viewerID uint) (*models.ChannelProfile, error)
	RecordWatch(ctx context.Context, userID, videoID uint) error
	GetWatchHistory(ctx context.Context, userID uint, limit, offset int) ([]*models.Video, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsernameOrEmail matches either identifier; empty strings never match.
func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) updateAndReload(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.ChannelKey(user.Username))
	return &user, nil
}

func (r *userRepository) UpdateAccount(ctx context.Context, id uint, email, username, fullName string) (*models.User, error) {
	updates := map[string]interface{}{}
	if email != "" {
		updates["email"] = email
	}
	if username != "" {
		updates["username"] = username
	}
	if fullName != "" {
		updates["full_name"] = fullName
	}
	return r.updateAndReload(ctx, id, updates)
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id uint, url string) (*models.User, error) {
	return r.updateAndReload(ctx, id, map[string]interface{}{"avatar": url})
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, id uint, url string) (*models.User, error) {
	return r.updateAndReload(ctx, id, map[string]interface{}{"cover_image": url})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, id uint, token string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

// GetChannelProfile resolves a channel by username together with its
// subscription aggregates and whether the viewer subscribes to it.
func (r *userRepository) GetChannelProfile(ctx context.Context, username string, viewerID uint) (*models.ChannelProfile, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	profile := &models.ChannelProfile{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Email:      user.Email,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
	}

	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("channel_id = ?", user.ID).
		Count(&profile.SubscribersCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ?", user.ID).
		Count(&profile.SubscribedToCount).Error; err != nil {
		return nil, err
	}

	if viewerID != 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Subscription{}).
			Where("subscriber_id = ? AND channel_id = ?", viewerID, user.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		profile.IsSubscribed = count > 0
	}

	return profile, nil
}

// RecordWatch upserts the (user, video) history entry so re-watching moves the
// video to the front of the history instead of duplicating it.
func (r *userRepository) RecordWatch(ctx context.Context, userID, videoID uint) error {
	entry := &models.WatchHistoryEntry{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(entry).Error
}

func (r *userRepository) GetWatchHistory(ctx context.Context, userID uint, limit, offset int) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Joins("JOIN watch_history ON watch_history.video_id = videos.id").
		Where("watch_history.user_id = ?", userID).
		Order("watch_history.watched_at DESC").
		Limit(limit).
		Offset(offset).
		Preload("Owner").
		Find(&videos).Error
	return videos, err
}
