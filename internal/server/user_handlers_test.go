package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clipstream/internal/config"
	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateAccount(ctx context.Context, id uint, email, username, fullName string) (*models.User, error) {
	args := m.Called(ctx, id, email, username, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id uint, url string) (*models.User, error) {
	args := m.Called(ctx, id, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateCoverImage(ctx context.Context, id uint, url string) (*models.User, error) {
	args := m.Called(ctx, id, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, id uint, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockUserRepository) GetChannelProfile(ctx context.Context, username string, viewerID uint) (*models.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelProfile), args.Error(1)
}

func (m *MockUserRepository) RecordWatch(ctx context.Context, userID, videoID uint) error {
	args := m.Called(ctx, userID, videoID)
	return args.Error(0)
}

func (m *MockUserRepository) GetWatchHistory(ctx context.Context, userID uint, limit, offset int) ([]*models.Video, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Video), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:            "8480",
		Env:             "test",
		AccessSecret:    "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 240 * time.Hour,
	}
}

func authInject(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func TestLogin(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret!"), bcrypt.MinCost)
	stored := &models.User{ID: 1, Username: "alice", Email: "alice@example.com", Password: string(hashed)}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"username": "alice", "password": "Sup3rSecret!"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsernameOrEmail", mock.Anything, "alice", "").Return(stored, nil)
				repo.On("UpdateRefreshToken", mock.Anything, uint(1), mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong Password",
			body: map[string]string{"username": "alice", "password": "nope"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsernameOrEmail", mock.Anything, "alice", "").Return(stored, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown User",
			body: map[string]string{"username": "ghost", "password": "whatever"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsernameOrEmail", mock.Anything, "ghost", "").Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Missing Identifier",
			body:           map[string]string{"password": "whatever"},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Post("/login", s.Login)

			tt.mockSetup(mockRepo)
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestLoginEnvelope(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret!"), bcrypt.MinCost)
	stored := &models.User{ID: 1, Username: "alice", Email: "alice@example.com", Password: string(hashed)}

	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{config: testConfig(), userRepo: mockRepo}
	app.Post("/login", s.Login)

	mockRepo.On("GetByUsernameOrEmail", mock.Anything, "alice", "").Return(stored, nil)
	mockRepo.On("UpdateRefreshToken", mock.Anything, uint(1), mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "Sup3rSecret!"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope models.Envelope
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, http.StatusOK, envelope.StatusCode)

	data, ok := envelope.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	user, ok := data["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	// The password hash must never leak through the response.
	_, exposed := user["password"]
	assert.False(t, exposed)
}

func TestChangePassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("OldPass123"), bcrypt.MinCost)
	stored := &models.User{ID: 7, Username: "bob", Password: string(hashed)}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"old_password": "OldPass123", "new_password": "NewPass456!@"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(7)).Return(stored, nil)
				repo.On("UpdatePassword", mock.Anything, uint(7), mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong Current Password",
			body: map[string]string{"old_password": "wrong", "new_password": "NewPass456!@"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(7)).Return(stored, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Weak New Password",
			body: map[string]string{"old_password": "OldPass123", "new_password": "short"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(7)).Return(stored, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Use(authInject(7))
			app.Patch("/change-password", s.ChangePassword)

			tt.mockSetup(mockRepo)
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPatch, "/change-password", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestGetCurrentUser(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{config: testConfig(), userRepo: mockRepo}
	app.Use(authInject(3))
	app.Get("/current", s.GetCurrentUser)

	mockRepo.On("GetByID", mock.Anything, uint(3)).Return(&models.User{ID: 3, Username: "carol"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/current", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetChannelProfile(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name:     "Success",
			username: "carol",
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetChannelProfile", mock.Anything, "carol", uint(0)).Return(&models.ChannelProfile{
					ID:               3,
					Username:         "carol",
					SubscribersCount: 42,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "Not Found",
			username: "nobody",
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetChannelProfile", mock.Anything, "nobody", uint(0)).Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Get("/channel/:username", s.GetChannelProfile)

			tt.mockSetup(mockRepo)
			req := httptest.NewRequest(http.MethodGet, "/channel/"+tt.username, nil)

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestGetWatchHistory(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{config: testConfig(), userRepo: mockRepo}
	app.Use(authInject(5))
	app.Get("/watch-history", s.GetWatchHistory)

	mockRepo.On("GetWatchHistory", mock.Anything, uint(5), 10, 0).
		Return([]*models.Video{{ID: 2, Title: "Rewatched"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/watch-history", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestUpdateAccount(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"full_name": "Carol Jones", "email": "carol@example.com", "username": "caroljones"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("UpdateAccount", mock.Anything, uint(3), "carol@example.com", "caroljones", "Carol Jones").
					Return(&models.User{ID: 3, FullName: "Carol Jones"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Empty Body",
			body:           map[string]string{},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Single Field Only",
			body:           map[string]string{"full_name": "Carol Jones"},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid Email",
			body:           map[string]string{"full_name": "Carol Jones", "email": "not-an-email", "username": "caroljones"},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Use(authInject(3))
			app.Patch("/update-account", s.UpdateAccount)

			tt.mockSetup(mockRepo)
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPatch, "/update-account", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
