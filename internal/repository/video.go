package repository

import (
	"context"

	"clipstream/internal/cache"
	"clipstream/internal/models"

	"gorm.io/gorm"
)

// ListVideosParams captures the filter, sort and pagination inputs of a video listing.
type ListVideosParams struct {
	Query    string
	OwnerID  uint
	SortBy   string
	SortAsc  bool
	Page     int
	Limit    int
	ViewerID uint
}

// videoSortFields whitelists sortable columns; anything else falls back to created_at.
var videoSortFields = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"duration":   "duration",
	"views":      "views",
}

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	List(ctx context.Context, params ListVideosParams) ([]*models.Video, int64, error)
	GetByOwner(ctx context.Context, ownerID uint) ([]*models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uint) error
	TogglePublish(ctx context.Context, id uint) (bool, error)
	IncrementViews(ctx context.Context, id uint) error
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	err := cache.Aside(ctx, cache.VideoKey(id), &video, cache.VideoTTL, func() error {
		return r.db.WithContext(ctx).Preload("Owner").First(&video, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) List(ctx context.Context, params ListVideosParams) ([]*models.Video, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Video{})

	// Unpublished videos are only visible to their owner.
	if params.ViewerID != 0 {
		base = base.Where("is_published = TRUE OR owner_id = ?", params.ViewerID)
	} else {
		base = base.Where("is_published = TRUE")
	}

	if params.Query != "" {
		pattern := "%" + params.Query + "%"
		base = base.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if params.OwnerID != 0 {
		base = base.Where("owner_id = ?", params.OwnerID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := videoSortFields[params.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if params.SortAsc {
		direction = "ASC"
	}

	var videos []*models.Video
	err := base.
		Order(column + " " + direction).
		Limit(params.Limit).
		Offset((params.Page - 1) * params.Limit).
		Preload("Owner").
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

func (r *videoRepository) GetByOwner(ctx context.Context, ownerID uint) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	err := r.db.WithContext(ctx).Save(video).Error
	if err == nil {
		cache.InvalidateVideo(ctx, video.ID)
	}
	return err
}

func (r *videoRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&models.Video{}, id).Error
	if err == nil {
		cache.InvalidateVideo(ctx, id)
	}
	return err
}

// TogglePublish flips the publish flag in a single statement and reports the new state.
func (r *videoRepository) TogglePublish(ctx context.Context, id uint) (bool, error) {
	var published bool
	err := r.db.WithContext(ctx).
		Raw("UPDATE videos SET is_published = NOT is_published, updated_at = NOW() WHERE id = ? AND deleted_at IS NULL RETURNING is_published", id).
		Scan(&published).Error
	if err == nil {
		cache.InvalidateVideo(ctx, id)
	}
	return published, err
}

func (r *videoRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
	if err == nil {
		cache.InvalidateVideo(ctx, id)
	}
	return err
}
