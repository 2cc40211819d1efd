package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	VideoKeyPrefix        = "video:%d"
	ChannelStatsKeyPrefix = "channel:%d:stats"
	ChannelKeyPrefix      = "channel:%s"
)

const (
	VideoTTL        = 10 * time.Minute
	ChannelStatsTTL = time.Minute
	ChannelTTL      = 5 * time.Minute
)

func VideoKey(videoID uint) string {
	return fmt.Sprintf(VideoKeyPrefix, videoID)
}

func ChannelStatsKey(ownerID uint) string {
	return fmt.Sprintf(ChannelStatsKeyPrefix, ownerID)
}

func ChannelKey(username string) string {
	return fmt.Sprintf(ChannelKeyPrefix, username)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateVideo(ctx context.Context, videoID uint) {
	Invalidate(ctx, VideoKey(videoID))
}

func InvalidateChannelStats(ctx context.Context, ownerID uint) {
	Invalidate(ctx, ChannelStatsKey(ownerID))
}
