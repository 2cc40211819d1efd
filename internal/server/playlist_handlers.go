package server

import (
	"errors"
	"strings"

	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePlaylist creates an empty playlist owned by the requester.
func (s *Server) CreatePlaylist(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req playlistRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Playlist name is required"))
	}

	playlist := &models.Playlist{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		OwnerID:     userID,
	}
	if err := s.playlistRepo.Create(c.Context(), playlist); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusCreated, playlist, "Playlist created successfully")
}

// GetPlaylists lists playlists. With a user_id query parameter it lists that
// user's playlists, otherwise the requester's own.
func (s *Server) GetPlaylists(c *fiber.Ctx) error {
	ownerID := currentUserID(c)
	if raw := c.Query("user_id"); raw != "" {
		id, err := parseQueryID(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid user id"))
		}
		ownerID = id
	}

	playlists, err := s.playlistRepo.GetByOwner(c.Context(), ownerID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, playlists, "Playlists fetched successfully")
}

// GetPlaylistByID returns a playlist with its videos in insertion order.
func (s *Server) GetPlaylistByID(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "playlistId")
	if err != nil {
		return nil
	}

	playlist, err := s.playlistRepo.GetByID(c.Context(), playlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Playlist", playlistID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, playlist, "Playlist fetched successfully")
}

// UpdatePlaylist changes a playlist's name or description. Owner only.
func (s *Server) UpdatePlaylist(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "playlistId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req playlistRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" && req.Description == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("At least one field is required"))
	}

	playlist, err := s.playlistRepo.GetByID(c.Context(), playlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Playlist", playlistID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if playlist.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only update your own playlists"))
	}

	if req.Name != "" {
		playlist.Name = req.Name
	}
	if req.Description != "" {
		playlist.Description = req.Description
	}
	if err := s.playlistRepo.Update(c.Context(), playlist); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, playlist, "Playlist updated successfully")
}

// DeletePlaylist removes a playlist and its membership rows. Owner only; a
// playlist owned by someone else reads as missing.
func (s *Server) DeletePlaylist(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "playlistId")
	if err != nil {
		return nil
	}

	if err := s.playlistRepo.Delete(c.Context(), playlistID, currentUserID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Playlist", playlistID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, nil, "Playlist deleted successfully")
}

// AddVideoToPlaylist appends a video to the owner's playlist. Adding a video
// that is already in the playlist is a no-op.
func (s *Server) AddVideoToPlaylist(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "playlistId")
	if err != nil {
		return nil
	}
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return nil
	}

	if _, err := s.videoRepo.GetByID(c.Context(), videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Video", videoID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	playlist, err := s.playlistRepo.AddVideo(c.Context(), playlistID, currentUserID(c), videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Playlist", playlistID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, playlist, "Video added to playlist successfully")
}

// RemoveVideoFromPlaylist removes a video from the owner's playlist. Removing
// a video that is not in the playlist is a no-op.
func (s *Server) RemoveVideoFromPlaylist(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "playlistId")
	if err != nil {
		return nil
	}
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return nil
	}

	playlist, err := s.playlistRepo.RemoveVideo(c.Context(), playlistID, currentUserID(c), videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Playlist", playlistID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, playlist, "Video removed from playlist successfully")
}
