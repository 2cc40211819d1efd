package server

import (
	"log/slog"
	"strings"

	"clipstream/internal/middleware"
	"clipstream/internal/models"
	"clipstream/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a new account from a multipart form. An avatar image is
// required, a cover image is optional.
func (s *Server) Register(c *fiber.Ctx) error {
	fullName := strings.TrimSpace(c.FormValue("full_name"))
	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	username := strings.TrimSpace(strings.ToLower(c.FormValue("username")))
	password := c.FormValue("password")

	if fullName == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Full name is required"))
	}
	if err := validation.ValidateUsername(username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	existing, err := s.userRepo.GetByUsernameOrEmail(c.Context(), username, email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Username or email already in use"))
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Avatar image is required"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	avatarURL, err := s.uploadFormFile(c, avatarFile, "avatars")
	if err != nil {
		middleware.Logger.ErrorContext(c.Context(), "avatar upload failed", slog.Any("error", err))
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	var coverURL string
	if coverFile, ferr := c.FormFile("cover_image"); ferr == nil {
		coverURL, err = s.uploadFormFile(c, coverFile, "covers")
		if err != nil {
			s.deleteMediaBestEffort(c, avatarURL)
			middleware.Logger.ErrorContext(c.Context(), "cover image upload failed", slog.Any("error", err))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}

	user := &models.User{
		Username:   username,
		Email:      email,
		Password:   string(hashed),
		FullName:   fullName,
		Avatar:     avatarURL,
		CoverImage: coverURL,
	}

	if err := s.userRepo.Create(c.Context(), user); err != nil {
		s.deleteMediaBestEffort(c, avatarURL)
		s.deleteMediaBestEffort(c, coverURL)
		// A concurrent registration can slip past the pre-check; the unique
		// constraints are the source of truth.
		if strings.Contains(err.Error(), "duplicate key") {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("Username or email already in use"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.Context(), "user registered",
		slog.Uint64("user_id", uint64(user.ID)), slog.String("username", user.Username))

	return models.Respond(c, fiber.StatusCreated, user, "User registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by username or email and sets auth cookies.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" && req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username or email is required"))
	}

	user, err := s.userRepo.GetByUsernameOrEmail(c.Context(), req.Username, req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", req.Username+req.Email))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	access, refresh, err := s.issueTokens(c, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.Context(), "user logged in",
		slog.Uint64("user_id", uint64(user.ID)))

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	}, "Logged in successfully")
}

// Logout invalidates the persisted refresh token and clears auth cookies.
func (s *Server) Logout(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if err := s.userRepo.UpdateRefreshToken(c.Context(), userID, ""); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	s.clearAuthCookies(c)
	return models.Respond(c, fiber.StatusOK, nil, "Logged out successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken rotates the access/refresh pair. The incoming refresh token
// must match the one persisted for the user; a mismatch means it was already
// rotated or revoked.
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	incoming := c.Cookies(refreshCookieName)
	if incoming == "" {
		var req refreshRequest
		if err := c.BodyParser(&req); err == nil {
			incoming = req.RefreshToken
		}
	}
	if incoming == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Refresh token is required"))
	}

	userID, err := parseToken(incoming, s.config.RefreshSecret)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired refresh token"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if user == nil || user.RefreshToken != incoming {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Refresh token is expired or has been used"))
	}

	access, refresh, err := s.issueTokens(c, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
	}, "Tokens refreshed successfully")
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword verifies the current password before setting a new one.
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil || user == nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Current password is incorrect"))
	}

	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if err := s.userRepo.UpdatePassword(c.Context(), userID, string(hashed)); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, nil, "Password changed successfully")
}

// GetCurrentUser returns the authenticated user's account.
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", currentUserID(c)))
	}
	return models.Respond(c, fiber.StatusOK, user, "Current user fetched successfully")
}

type updateAccountRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// UpdateAccount changes profile fields. All three fields are required; a
// caller keeping a value resends it.
func (s *Server) UpdateAccount(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req updateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))

	if req.FullName == "" || req.Email == "" || req.Username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Full name, email and username are all required"))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	user, err := s.userRepo.UpdateAccount(c.Context(), userID, req.Email, req.Username, req.FullName)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("Username or email already in use"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, user, "Account updated successfully")
}

// UpdateAvatar replaces the user's avatar image.
func (s *Server) UpdateAvatar(c *fiber.Ctx) error {
	return s.updateUserImage(c, "avatar", "avatars")
}

// UpdateCoverImage replaces the user's cover image.
func (s *Server) UpdateCoverImage(c *fiber.Ctx) error {
	return s.updateUserImage(c, "cover_image", "covers")
}

func (s *Server) updateUserImage(c *fiber.Ctx, field, prefix string) error {
	userID := currentUserID(c)

	fh, err := c.FormFile(field)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required"))
	}

	url, err := s.uploadFormFile(c, fh, prefix)
	if err != nil {
		middleware.Logger.ErrorContext(c.Context(), "image upload failed",
			slog.String("field", field), slog.Any("error", err))
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	before, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		s.deleteMediaBestEffort(c, url)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	var user *models.User
	if field == "avatar" {
		user, err = s.userRepo.UpdateAvatar(c.Context(), userID, url)
	} else {
		user, err = s.userRepo.UpdateCoverImage(c.Context(), userID, url)
	}
	if err != nil {
		s.deleteMediaBestEffort(c, url)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if before != nil {
		if field == "avatar" {
			s.deleteMediaBestEffort(c, before.Avatar)
		} else {
			s.deleteMediaBestEffort(c, before.CoverImage)
		}
	}

	return models.Respond(c, fiber.StatusOK, user, "Image updated successfully")
}

// GetChannelProfile returns the public channel view for a username, including
// subscriber counts and whether the requester subscribes to it.
func (s *Server) GetChannelProfile(c *fiber.Ctx) error {
	username := strings.TrimSpace(strings.ToLower(c.Params("username")))
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	viewerID := s.optionalUserID(c)

	profile, err := s.userRepo.GetChannelProfile(c.Context(), username, viewerID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Channel", username))
	}

	return models.Respond(c, fiber.StatusOK, profile, "Channel profile fetched successfully")
}

// GetWatchHistory lists the videos the user watched, most recent first.
func (s *Server) GetWatchHistory(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page, limit := parsePage(c)

	videos, err := s.userRepo.GetWatchHistory(c.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, videos, "Watch history fetched successfully")
}
