package server

import (
	"errors"
	"strings"

	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxCommentLength = 2000

// GetVideoComments lists comments on a video, newest first.
func (s *Server) GetVideoComments(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return nil
	}
	page, limit := parsePage(c)

	if _, err := s.videoRepo.GetByID(c.Context(), videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Video", videoID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	comments, total, err := s.commentRepo.ListByVideo(c.Context(), videoID, limit, (page-1)*limit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, models.CommentPage{
		Comments:   comments,
		TotalDocs:  total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, "Comments fetched successfully")
}

type commentRequest struct {
	Content string `json:"content"`
}

// AddComment creates a comment on a video.
func (s *Server) AddComment(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment content is required"))
	}
	if len(req.Content) > maxCommentLength {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment content is too long"))
	}

	if _, err := s.videoRepo.GetByID(c.Context(), videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Video", videoID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	comment := &models.Comment{
		Content: req.Content,
		VideoID: videoID,
		OwnerID: userID,
	}
	if err := s.commentRepo.Create(c.Context(), comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusCreated, comment, "Comment added successfully")
}

// UpdateComment edits a comment's content. Owner only.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment content is required"))
	}
	if len(req.Content) > maxCommentLength {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment content is too long"))
	}

	comment, err := s.commentRepo.GetByID(c.Context(), commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Comment", commentID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if comment.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only edit your own comments"))
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(c.Context(), comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, comment, "Comment updated successfully")
}

// DeleteComment removes a comment. Owner only.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	comment, err := s.commentRepo.GetByID(c.Context(), commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Comment", commentID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if comment.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own comments"))
	}

	if err := s.commentRepo.Delete(c.Context(), commentID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, nil, "Comment deleted successfully")
}
