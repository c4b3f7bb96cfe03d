// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"jokerclub/internal/models"
	"jokerclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCodeblock handles POST /api/codeblocks
func (s *Server) CreateCodeblock(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string                       `json:"title"`
		Description string                       `json:"description"`
		Content     string                       `json:"content"`
		Language    string                       `json:"language"`
		Category    string                       `json:"category"`
		Tags        []string                     `json:"tags,omitempty"`
		IsPublic    *bool                        `json:"is_public,omitempty"`
		IsBlurred   bool                         `json:"is_blurred,omitempty"`
		Links       []service.CodeblockLinkInput `json:"links,omitempty"`
		// legacy_links accepts the old "name|url" packed format from
		// pre-migration clients.
		LegacyLinks []string `json:"legacy_links,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	cb, err := s.codeblockService.CreateCodeblock(ctx, service.CreateCodeblockInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Language:    req.Language,
		Category:    req.Category,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
		IsBlurred:   req.IsBlurred,
		Links:       req.Links,
		LegacyLinks: req.LegacyLinks,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(cb)
}

// GetCodeblocks handles GET /api/codeblocks. Anonymous viewers get public
// rows only, with paid-tier content redacted.
func (s *Server) GetCodeblocks(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	viewer := s.optionalViewer(c)

	views, err := s.codeblockService.ListCodeblocks(ctx, service.ListCodeblocksInput{
		Category: c.Query("category"),
		Language: c.Query("language"),
		Query:    c.Query("q"),
		Limit:    page.Limit,
		Offset:   page.Offset,
		Viewer:   viewer,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(views)
}

// GetCodeblock handles GET /api/codeblocks/:id
func (s *Server) GetCodeblock(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewer := s.optionalViewer(c)

	view, err := s.codeblockService.GetCodeblock(ctx, id, viewer)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(view)
}

// UpdateCodeblock handles PUT /api/codeblocks/:id
func (s *Server) UpdateCodeblock(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string                        `json:"title"`
		Description string                        `json:"description"`
		Content     string                        `json:"content"`
		Language    string                        `json:"language"`
		Category    string                        `json:"category"`
		Tags        []string                      `json:"tags,omitempty"`
		IsPublic    *bool                         `json:"is_public,omitempty"`
		IsBlurred   *bool                         `json:"is_blurred,omitempty"`
		Links       *[]service.CodeblockLinkInput `json:"links,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	cb, err := s.codeblockService.UpdateCodeblock(ctx, service.UpdateCodeblockInput{
		UserID:      userID,
		CodeblockID: id,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Language:    req.Language,
		Category:    req.Category,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
		IsBlurred:   req.IsBlurred,
		Links:       req.Links,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(cb)
}

// DeleteCodeblock handles DELETE /api/codeblocks/:id
func (s *Server) DeleteCodeblock(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.codeblockService.DeleteCodeblock(ctx, userID, id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GrantCodeblockAccess handles POST /api/codeblocks/:id/grants
func (s *Server) GrantCodeblockAccess(c *fiber.Ctx) error {
	ctx := c.Context()
	actorID := c.Locals("userID").(uint)
	codeblockID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	grant, err := s.codeblockService.GrantAccess(ctx, service.GrantAccessInput{
		ActorID:     actorID,
		CodeblockID: codeblockID,
		UserID:      req.UserID,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(grant)
}

// RevokeCodeblockAccess handles DELETE /api/codeblocks/:id/grants/:userId
func (s *Server) RevokeCodeblockAccess(c *fiber.Ctx) error {
	ctx := c.Context()
	actorID := c.Locals("userID").(uint)
	codeblockID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.codeblockService.RevokeAccess(ctx, service.GrantAccessInput{
		ActorID:     actorID,
		CodeblockID: codeblockID,
		UserID:      targetID,
	}); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetCodeblockGrants handles GET /api/codeblocks/:id/grants
func (s *Server) GetCodeblockGrants(c *fiber.Ctx) error {
	ctx := c.Context()
	actorID := c.Locals("userID").(uint)
	codeblockID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	grants, err := s.codeblockService.ListGrants(ctx, actorID, codeblockID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(grants)
}
