// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"strings"

	"jokerclub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Search handles GET /api/search?q=... and fans out across tweets, users,
// and codeblocks. Codeblock results go through the same visibility
// resolution as direct reads, so search cannot leak redacted content.
func (s *Server) Search(c *fiber.Ctx) error {
	ctx := c.Context()
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	page := parsePagination(c, 10)
	viewer := s.optionalViewer(c)

	results, err := s.searchService.Search(ctx, q, page.Limit, viewer)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(results)
}

// GetFeatureFlags returns configured feature flags and evaluated state for current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
