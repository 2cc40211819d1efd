package repository

import (
	"context"

	"clipstream/internal/models"

	"gorm.io/gorm"
)

// PlaylistRepository defines the interface for playlist data operations.
// Mutating operations take the owner id and filter on it in the query itself,
// so a non-owner id behaves exactly like a missing playlist.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id uint) (*models.Playlist, error)
	GetByOwner(ctx context.Context, ownerID uint) ([]*models.Playlist, error)
	Update(ctx context.Context, playlist *models.Playlist) error
	Delete(ctx context.Context, id, ownerID uint) error
	AddVideo(ctx context.Context, playlistID, ownerID, videoID uint) (*models.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, ownerID, videoID uint) (*models.Playlist, error)
}

type playlistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository creates a new playlist repository
func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	return r.db.WithContext(ctx).Create(playlist).Error
}

func (r *playlistRepository) GetByID(ctx context.Context, id uint) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.WithContext(ctx).Preload("Owner").First(&playlist, id).Error; err != nil {
		return nil, err
	}
	if err := r.loadVideos(ctx, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *playlistRepository) GetByOwner(ctx context.Context, ownerID uint) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&playlists).Error
	if err != nil {
		return nil, err
	}
	for _, p := range playlists {
		if err := r.loadVideos(ctx, p); err != nil {
			return nil, err
		}
	}
	return playlists, nil
}

// loadVideos fills Playlist.Videos from the join table in insertion order.
func (r *playlistRepository) loadVideos(ctx context.Context, playlist *models.Playlist) error {
	playlist.Videos = []models.Video{}
	return r.db.WithContext(ctx).
		Joins("JOIN playlist_videos ON playlist_videos.video_id = videos.id").
		Where("playlist_videos.playlist_id = ?", playlist.ID).
		Order("playlist_videos.position ASC").
		Find(&playlist.Videos).Error
}

func (r *playlistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	return r.db.WithContext(ctx).Save(playlist).Error
}

func (r *playlistRepository) Delete(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Playlist{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.db.WithContext(ctx).Where("playlist_id = ?", id).Delete(&models.PlaylistVideo{})
	return nil
}

// AddVideo appends the video to the owner's playlist. The insert is idempotent:
// the composite primary key plus DO NOTHING gives the member list set semantics.
func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, ownerID, videoID uint) (*models.Playlist, error) {
	if err := r.requireOwned(ctx, playlistID, ownerID); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO playlist_videos (playlist_id, video_id, position, created_at)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM playlist_videos WHERE playlist_id = ?), NOW())
		 ON CONFLICT (playlist_id, video_id) DO NOTHING`,
		playlistID, videoID, playlistID,
	).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, playlistID)
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, ownerID, videoID uint) (*models.Playlist, error) {
	if err := r.requireOwned(ctx, playlistID, ownerID); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, playlistID)
}

func (r *playlistRepository) requireOwned(ctx context.Context, playlistID, ownerID uint) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Playlist{}).
		Where("id = ? AND owner_id = ?", playlistID, ownerID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
