package server

import (
	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetChannelStats returns aggregate totals for the authenticated user's channel.
func (s *Server) GetChannelStats(c *fiber.Ctx) error {
	stats, err := s.dashboardRepo.GetChannelStats(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return models.Respond(c, fiber.StatusOK, stats, "Channel stats fetched successfully")
}

// GetChannelVideos lists every video on the authenticated user's channel,
// published or not.
func (s *Server) GetChannelVideos(c *fiber.Ctx) error {
	videos, err := s.videoRepo.GetByOwner(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return models.Respond(c, fiber.StatusOK, videos, "Channel videos fetched successfully")
}
