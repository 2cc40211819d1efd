package server

import (
	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleSubscription subscribes the user to a channel, or unsubscribes when a
// subscription already exists. Subscribing to yourself is rejected.
func (s *Server) ToggleSubscription(c *fiber.Ctx) error {
	channelID, err := parseID(c, "channelId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if channelID == userID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot subscribe to your own channel"))
	}

	channel, err := s.userRepo.GetByID(c.Context(), channelID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if channel == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Channel", channelID))
	}

	subscription, subscribed, err := s.subscriptionRepo.Toggle(c.Context(), userID, channelID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if subscribed {
		return models.Respond(c, fiber.StatusOK, subscription, "Subscribed successfully")
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"subscribed": false}, "Unsubscribed successfully")
}

// GetChannelSubscribers lists the users subscribed to a channel.
func (s *Server) GetChannelSubscribers(c *fiber.Ctx) error {
	channelID, err := parseID(c, "channelId")
	if err != nil {
		return nil
	}

	channel, err := s.userRepo.GetByID(c.Context(), channelID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if channel == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Channel", channelID))
	}

	subscribers, err := s.subscriptionRepo.GetChannelSubscribers(c.Context(), channelID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, subscribers, "Subscribers fetched successfully")
}

// GetSubscribedChannels lists the channels a user subscribes to. Users can
// only view their own subscriptions.
func (s *Server) GetSubscribedChannels(c *fiber.Ctx) error {
	subscriberID, err := parseID(c, "subscriberId")
	if err != nil {
		return nil
	}

	if subscriberID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only view your own subscriptions"))
	}

	channels, err := s.subscriptionRepo.GetSubscribedChannels(c.Context(), subscriberID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, channels, "Subscribed channels fetched successfully")
}
