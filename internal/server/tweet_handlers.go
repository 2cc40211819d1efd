package server

import (
	"errors"
	"strings"

	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxTweetLength = 280

type tweetRequest struct {
	Content string `json:"content"`
}

func validateTweetContent(content string) error {
	if content == "" {
		return errors.New("tweet content is required")
	}
	if len(content) > maxTweetLength {
		return errors.New("tweet content must be at most 280 characters")
	}
	return nil
}

// CreateTweet posts a short text update to the user's channel.
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	var req tweetRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := validateTweetContent(req.Content); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	tweet := &models.Tweet{
		Content: req.Content,
		OwnerID: currentUserID(c),
	}
	if err := s.tweetRepo.Create(c.Context(), tweet); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusCreated, tweet, "Tweet created successfully")
}

// GetUserTweets lists a user's tweets, newest first.
func (s *Server) GetUserTweets(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", userID))
	}

	tweets, err := s.tweetRepo.ListByOwner(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, tweets, "Tweets fetched successfully")
}

// UpdateTweet edits a tweet's content. Owner only.
func (s *Server) UpdateTweet(c *fiber.Ctx) error {
	tweetID, err := parseID(c, "tweetId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req tweetRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := validateTweetContent(req.Content); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	tweet, err := s.tweetRepo.GetByID(c.Context(), tweetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Tweet", tweetID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if tweet.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only edit your own tweets"))
	}

	tweet.Content = req.Content
	if err := s.tweetRepo.Update(c.Context(), tweet); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, tweet, "Tweet updated successfully")
}

// DeleteTweet removes a tweet. Owner only.
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	tweetID, err := parseID(c, "tweetId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	tweet, err := s.tweetRepo.GetByID(c.Context(), tweetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Tweet", tweetID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if tweet.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own tweets"))
	}

	if err := s.tweetRepo.Delete(c.Context(), tweetID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, nil, "Tweet deleted successfully")
}
