// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"jokerclub/internal/models"
	"jokerclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"price_cents"`
	Images      []string `json:"images,omitempty"`
	PixPayload  string   `json:"pix_payload,omitempty"`
	WhatsApp    string   `json:"whatsapp,omitempty"`
	IsPinned    *bool    `json:"is_pinned,omitempty"`
	IsAvailable *bool    `json:"is_available,omitempty"`
}

// GetProducts handles GET /api/products
func (s *Server) GetProducts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	availableOnly := c.QueryBool("available", true)

	products, err := s.productService.ListProducts(ctx, availableOnly, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(products)
}

// GetProduct handles GET /api/products/:id
func (s *Server) GetProduct(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	product, err := s.productService.GetProduct(ctx, id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(product)
}

// CreateProduct handles POST /api/admin/products
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.productService.CreateProduct(ctx, service.ProductInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Images:      req.Images,
		PixPayload:  req.PixPayload,
		WhatsApp:    req.WhatsApp,
		IsPinned:    req.IsPinned,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct handles PUT /api/admin/products/:id
func (s *Server) UpdateProduct(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req productRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.productService.UpdateProduct(ctx, service.ProductInput{
		UserID:      userID,
		ProductID:   id,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Images:      req.Images,
		PixPayload:  req.PixPayload,
		WhatsApp:    req.WhatsApp,
		IsPinned:    req.IsPinned,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(product)
}

// DeleteProduct handles DELETE /api/admin/products/:id
func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.productService.DeleteProduct(ctx, userID, id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
