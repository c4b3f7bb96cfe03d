// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"jokerclub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleFollow handles POST /api/users/:id/follow. A single endpoint toggles
// the relationship; the result field reports the new state.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	ctx := c.Context()
	followerID := c.Locals("userID").(uint)
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.followService.ToggleFollow(ctx, followerID, followeeID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"result": result})
}

// GetFollowStatus handles GET /api/users/:id/follow
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	followerID := c.Locals("userID").(uint)
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.followService.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"following": following})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	users, err := s.followService.GetFollowers(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(users)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	users, err := s.followService.GetFollowing(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(users)
}
