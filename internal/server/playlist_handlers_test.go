package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockPlaylistRepository is a mock of the PlaylistRepository interface
type MockPlaylistRepository struct {
	mock.Mock
}

func (m *MockPlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	args := m.Called(ctx, playlist)
	return args.Error(0)
}

func (m *MockPlaylistRepository) GetByID(ctx context.Context, id uint) (*models.Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) GetByOwner(ctx context.Context, ownerID uint) ([]*models.Playlist, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	args := m.Called(ctx, playlist)
	return args.Error(0)
}

func (m *MockPlaylistRepository) Delete(ctx context.Context, id, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockPlaylistRepository) AddVideo(ctx context.Context, playlistID, ownerID, videoID uint) (*models.Playlist, error) {
	args := m.Called(ctx, playlistID, ownerID, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, ownerID, videoID uint) (*models.Playlist, error) {
	args := m.Called(ctx, playlistID, ownerID, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func TestCreatePlaylist(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(playlists *MockPlaylistRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"name": "Favorites", "description": "best of"},
			mockSetup: func(playlists *MockPlaylistRepository) {
				playlists.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Playlist) bool {
					return p.Name == "Favorites" && p.OwnerID == 1
				})).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing Name",
			body:           map[string]string{"description": "no name"},
			mockSetup:      func(playlists *MockPlaylistRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockPlaylists := new(MockPlaylistRepository)
			s := &Server{config: testConfig(), playlistRepo: mockPlaylists}
			app.Use(authInject(1))
			app.Post("/playlists", s.CreatePlaylist)

			tt.mockSetup(mockPlaylists)
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/playlists", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestAddVideoToPlaylist(t *testing.T) {
	video := &models.Video{ID: 4, IsPublished: true}

	tests := []struct {
		name           string
		mockSetup      func(videos *MockVideoRepository, playlists *MockPlaylistRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			mockSetup: func(videos *MockVideoRepository, playlists *MockPlaylistRepository) {
				videos.On("GetByID", mock.Anything, uint(4)).Return(video, nil)
				playlists.On("AddVideo", mock.Anything, uint(7), uint(1), uint(4)).
					Return(&models.Playlist{ID: 7, OwnerID: 1, Videos: []models.Video{*video}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			// Non-owners get the same 404 as a missing playlist.
			name: "Playlist Not Owned",
			mockSetup: func(videos *MockVideoRepository, playlists *MockPlaylistRepository) {
				videos.On("GetByID", mock.Anything, uint(4)).Return(video, nil)
				playlists.On("AddVideo", mock.Anything, uint(7), uint(1), uint(4)).
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Video Not Found",
			mockSetup: func(videos *MockVideoRepository, playlists *MockPlaylistRepository) {
				videos.On("GetByID", mock.Anything, uint(4)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockVideos := new(MockVideoRepository)
			mockPlaylists := new(MockPlaylistRepository)
			s := &Server{config: testConfig(), videoRepo: mockVideos, playlistRepo: mockPlaylists}
			app.Use(authInject(1))
			app.Patch("/playlists/:playlistId/videos/:videoId", s.AddVideoToPlaylist)

			tt.mockSetup(mockVideos, mockPlaylists)
			req := httptest.NewRequest(http.MethodPatch, "/playlists/7/videos/4", nil)

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestRemoveVideoFromPlaylist(t *testing.T) {
	app := fiber.New()
	mockPlaylists := new(MockPlaylistRepository)
	s := &Server{config: testConfig(), playlistRepo: mockPlaylists}
	app.Use(authInject(1))
	app.Delete("/playlists/:playlistId/videos/:videoId", s.RemoveVideoFromPlaylist)

	mockPlaylists.On("RemoveVideo", mock.Anything, uint(7), uint(1), uint(4)).
		Return(&models.Playlist{ID: 7, OwnerID: 1, Videos: []models.Video{}}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/playlists/7/videos/4", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockPlaylists.AssertExpectations(t)
}

func TestDeletePlaylist(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(playlists *MockPlaylistRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			mockSetup: func(playlists *MockPlaylistRepository) {
				playlists.On("Delete", mock.Anything, uint(7), uint(1)).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Not Found Or Not Owned",
			mockSetup: func(playlists *MockPlaylistRepository) {
				playlists.On("Delete", mock.Anything, uint(7), uint(1)).Return(gorm.ErrRecordNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockPlaylists := new(MockPlaylistRepository)
			s := &Server{config: testConfig(), playlistRepo: mockPlaylists}
			app.Use(authInject(1))
			app.Delete("/playlists/:playlistId", s.DeletePlaylist)

			tt.mockSetup(mockPlaylists)
			req := httptest.NewRequest(http.MethodDelete, "/playlists/7", nil)

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
