// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"jokerclub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTopUsers handles GET /api/rankings/users
func (s *Server) GetTopUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	limit := c.QueryInt("limit", 10)

	users, err := s.rankingService.TopUsers(ctx, limit)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(users)
}

// GetPopularCodeblocks handles GET /api/rankings/codeblocks
func (s *Server) GetPopularCodeblocks(c *fiber.Ctx) error {
	ctx := c.Context()
	limit := c.QueryInt("limit", 10)

	blocks, err := s.rankingService.PopularCodeblocks(ctx, limit)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(blocks)
}

// GetRecentActivity handles GET /api/activity
func (s *Server) GetRecentActivity(c *fiber.Ctx) error {
	ctx := c.Context()
	limit := c.QueryInt("limit", 20)

	entries, err := s.rankingService.RecentActivity(ctx, limit)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(entries)
}
