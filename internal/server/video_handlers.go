package server

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"clipstream/internal/middleware"
	"clipstream/internal/models"
	"clipstream/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAllVideos lists published videos with search, sort and pagination.
// Authenticated owners also see their own unpublished videos.
func (s *Server) GetAllVideos(c *fiber.Ctx) error {
	page, limit := parsePage(c)

	params := repository.ListVideosParams{
		Query:    strings.TrimSpace(c.Query("query")),
		SortBy:   c.Query("sort_by", "created_at"),
		SortAsc:  c.Query("sort_type") == "asc",
		Page:     page,
		Limit:    limit,
		ViewerID: s.optionalUserID(c),
	}
	if raw := c.Query("user_id"); raw != "" {
		ownerID, err := parseQueryID(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid user id"))
		}
		params.OwnerID = ownerID
	}

	videos, total, err := s.videoRepo.List(c.Context(), params)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, models.VideoPage{
		Videos:     videos,
		TotalDocs:  total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, "Videos fetched successfully")
}

// PublishVideo uploads a video file and thumbnail and creates the record.
func (s *Server) PublishVideo(c *fiber.Ctx) error {
	userID := currentUserID(c)

	title := strings.TrimSpace(c.FormValue("title"))
	description := strings.TrimSpace(c.FormValue("description"))
	if title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title is required"))
	}
	if description == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Description is required"))
	}

	duration, err := strconv.ParseFloat(c.FormValue("duration", "0"), 64)
	if err != nil || duration < 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid duration"))
	}

	videoFile, err := c.FormFile("video_file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Video file is required"))
	}
	thumbFile, err := c.FormFile("thumbnail")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Thumbnail image is required"))
	}

	videoURL, err := s.uploadFormFile(c, videoFile, "videos")
	if err != nil {
		middleware.Logger.ErrorContext(c.Context(), "video upload failed", slog.Any("error", err))
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	thumbURL, err := s.uploadFormFile(c, thumbFile, "thumbnails")
	if err != nil {
		s.deleteMediaBestEffort(c, videoURL)
		middleware.Logger.ErrorContext(c.Context(), "thumbnail upload failed", slog.Any("error", err))
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	video := &models.Video{
		Title:       title,
		Description: description,
		VideoFile:   videoURL,
		Thumbnail:   thumbURL,
		Duration:    duration,
		IsPublished: true,
		OwnerID:     userID,
	}

	if err := s.videoRepo.Create(c.Context(), video); err != nil {
		s.deleteMediaBestEffort(c, videoURL)
		s.deleteMediaBestEffort(c, thumbURL)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.Context(), "video published",
		slog.Uint64("video_id", uint64(video.ID)), slog.Uint64("owner_id", uint64(userID)))

	return models.Respond(c, fiber.StatusCreated, video, "Video published successfully")
}

// GetVideoByID returns a single video, counts the view and records it in the
// viewer's watch history when authenticated. Unpublished videos are only
// visible to their owner.
func (s *Server) GetVideoByID(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return nil
	}

	viewerID := s.optionalUserID(c)

	video, err := s.videoRepo.GetByID(c.Context(), videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Video", videoID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Video", videoID))
	}

	if err := s.videoRepo.IncrementViews(c.Context(), videoID); err != nil {
		middleware.Logger.WarnContext(c.Context(), "failed to increment views",
			slog.Uint64("video_id", uint64(videoID)), slog.Any("error", err))
	} else {
		video.Views++
	}

	if viewerID != 0 {
		if err := s.userRepo.RecordWatch(c.Context(), viewerID, videoID); err != nil {
			middleware.Logger.WarnContext(c.Context(), "failed to record watch history",
				slog.Uint64("video_id", uint64(videoID)), slog.Any("error", err))
		}
	}

	return models.Respond(c, fiber.StatusOK, video, "Video fetched successfully")
}

type updateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateVideo changes title, description or thumbnail. Owner only.
func (s *Server) UpdateVideo(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	video, err := s.videoRepo.GetByID(c.Context(), videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Video", videoID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if video.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only update your own videos"))
	}

	// Accept both JSON bodies and multipart forms so the thumbnail can be
	// replaced in the same request.
	title := strings.TrimSpace(c.FormValue("title"))
	description := strings.TrimSpace(c.FormValue("description"))
	if title == "" && description == "" {
		var req updateVideoRequest
		if perr := c.BodyParser(&req); perr == nil {
			title = strings.TrimSpace(req.Title)
			description = strings.TrimSpace(req.Description)
		}
	}

	var oldThumb string
	if fh, ferr := c.FormFile("thumbnail"); ferr == nil {
		url, uerr := s.uploadFormFile(c, fh, "thumbnails")
		if uerr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(uerr))
		}
		oldThumb = video.Thumbnail
		video.Thumbnail = url
	}

	if title == "" && description == "" && oldThumb == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("At least one field is required"))
	}

	if title != "" {
		video.Title = title
	}
	if description != "" {
		video.Description = description
	}

	if err := s.videoRepo.Update(c.Context(), video); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.deleteMediaBestEffort(c, oldThumb)

	return models.Respond(c, fiber.StatusOK, video, "Video updated successfully")
}

// DeleteVideo removes a video and its stored media. Owner only.
func (s *Server) DeleteVideo(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	video, err := s.videoRepo.GetByID(c.Context(), videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Video", videoID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if video.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own videos"))
	}

	if err := s.videoRepo.Delete(c.Context(), videoID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	s.deleteMediaBestEffort(c, video.VideoFile)
	s.deleteMediaBestEffort(c, video.Thumbnail)

	middleware.Logger.InfoContext(c.Context(), "video deleted",
		slog.Uint64("video_id", uint64(videoID)), slog.Uint64("owner_id", uint64(userID)))

	return models.Respond(c, fiber.StatusOK, nil, "Video deleted successfully")
}

// TogglePublishStatus flips a video between published and unpublished. Owner only.
func (s *Server) TogglePublishStatus(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	video, err := s.videoRepo.GetByID(c.Context(), videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Video", videoID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if video.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only modify your own videos"))
	}

	published, err := s.videoRepo.TogglePublish(c.Context(), videoID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"id":           videoID,
		"is_published": published,
	}, "Publish status toggled successfully")
}
