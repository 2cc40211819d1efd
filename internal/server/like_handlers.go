package server

import (
	"errors"

	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ToggleVideoLike likes a video, or removes the like if it already exists.
func (s *Server) ToggleVideoLike(c *fiber.Ctx) error {
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

	return s.toggleLike(c, &models.Like{
		LikedByID: currentUserID(c),
		VideoID:   &videoID,
	})
}

// ToggleCommentLike likes a comment, or removes the like if it already exists.
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if _, err := s.commentRepo.GetByID(c.Context(), commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Comment", commentID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return s.toggleLike(c, &models.Like{
		LikedByID: currentUserID(c),
		CommentID: &commentID,
	})
}

// ToggleTweetLike likes a tweet, or removes the like if it already exists.
func (s *Server) ToggleTweetLike(c *fiber.Ctx) error {
	tweetID, err := parseID(c, "tweetId")
	if err != nil {
		return nil
	}

	if _, err := s.tweetRepo.GetByID(c.Context(), tweetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Tweet", tweetID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return s.toggleLike(c, &models.Like{
		LikedByID: currentUserID(c),
		TweetID:   &tweetID,
	})
}

func (s *Server) toggleLike(c *fiber.Ctx, like *models.Like) error {
	liked, err := s.likeRepo.Toggle(c.Context(), like)
	if err != nil {
		if errors.Is(err, models.ErrLikeTarget) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	message := "Like removed successfully"
	if liked {
		message = "Liked successfully"
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"liked": liked}, message)
}

// GetLikedVideos lists the videos the user has liked, most recent like first.
func (s *Server) GetLikedVideos(c *fiber.Ctx) error {
	videos, err := s.likeRepo.GetLikedVideos(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return models.Respond(c, fiber.StatusOK, videos, "Liked videos fetched successfully")
}
