package repository

import (
	"context"

	"clipstream/internal/cache"
	"clipstream/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository computes channel-level aggregates for an owner.
type DashboardRepository interface {
	GetChannelStats(ctx context.Context, ownerID uint) (*models.ChannelStats, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// GetChannelStats runs the whole aggregation in one statement: video and view
// totals from the owner's videos, like totals joined through those videos, and
// the owner's subscriber count. Results are cached briefly since the dashboard
// is polled.
func (r *dashboardRepository) GetChannelStats(ctx context.Context, ownerID uint) (*models.ChannelStats, error) {
	var stats models.ChannelStats
	err := cache.Aside(ctx, cache.ChannelStatsKey(ownerID), &stats, cache.ChannelStatsTTL, func() error {
		return r.db.WithContext(ctx).Raw(`
			SELECT
				COUNT(v.id)              AS total_videos,
				COALESCE(SUM(v.views), 0) AS total_views,
				(SELECT COUNT(*)
				   FROM likes l
				   JOIN videos lv ON lv.id = l.video_id
				  WHERE lv.owner_id = ? AND lv.deleted_at IS NULL) AS total_likes,
				(SELECT COUNT(*)
				   FROM subscriptions s
				  WHERE s.channel_id = ?) AS total_subscribers
			FROM videos v
			WHERE v.owner_id = ? AND v.deleted_at IS NULL`,
			ownerID, ownerID, ownerID,
		).Scan(&stats).Error
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
