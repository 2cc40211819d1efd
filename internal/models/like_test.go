package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikeValidate(t *testing.T) {
	id := uint(1)
	other := uint(2)

	tests := []struct {
		name    string
		like    Like
		wantErr bool
	}{
		{"Video Target", Like{LikedByID: 1, VideoID: &id}, false},
		{"Comment Target", Like{LikedByID: 1, CommentID: &id}, false},
		{"Tweet Target", Like{LikedByID: 1, TweetID: &id}, false},
		{"No Target", Like{LikedByID: 1}, true},
		{"Two Targets", Like{LikedByID: 1, VideoID: &id, CommentID: &other}, true},
		{"All Targets", Like{LikedByID: 1, VideoID: &id, CommentID: &id, TweetID: &id}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.like.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrLikeTarget)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
