package repository

import (
	"context"

	"clipstream/internal/cache"
	"clipstream/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	// Toggle removes the (subscriber, channel) edge if present, otherwise
	// creates it. Returns the created edge and true when subscribing.
	Toggle(ctx context.Context, subscriberID, channelID uint) (*models.Subscription, bool, error)
	GetChannelSubscribers(ctx context.Context, channelID uint) ([]*models.User, error)
	GetSubscribedChannels(ctx context.Context, subscriberID uint) ([]*models.User, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Toggle mirrors the like toggle: an atomic conditional delete, then a
// conflict-safe insert guarded by the unique (subscriber, channel) index.
func (r *subscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID uint) (*models.Subscription, bool, error) {
	res := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		cache.InvalidateChannelStats(ctx, channelID)
		return nil, false, nil
	}

	sub := &models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(sub).Error
	if err != nil {
		return nil, false, err
	}
	cache.InvalidateChannelStats(ctx, channelID)
	return sub, true, nil
}

func (r *subscriptionRepository) GetChannelSubscribers(ctx context.Context, channelID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.subscriber_id = users.id").
		Where("subscriptions.channel_id = ?", channelID).
		Order("subscriptions.created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *subscriptionRepository) GetSubscribedChannels(ctx context.Context, subscriberID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.channel_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at DESC").
		Find(&users).Error
	return users, err
}
