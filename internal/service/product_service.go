package service

import (
	"context"
	"strings"

	"jokerclub/internal/models"
	"jokerclub/internal/repository"
)

// ProductService manages the club's small marketplace. All mutations are
// admin-only; listings are public.
type ProductService struct {
	repo    repository.ProductRepository
	isAdmin func(ctx context.Context, userID uint) (bool, error)
}

type ProductInput struct {
	UserID      uint
	ProductID   uint
	Name        string
	Description string
	PriceCents  int64
	Images      []string
	PixPayload  string
	WhatsApp    string
	IsPinned    *bool
	IsAvailable *bool
}

func NewProductService(repo repository.ProductRepository, isAdmin func(ctx context.Context, userID uint) (bool, error)) *ProductService {
	return &ProductService{repo: repo, isAdmin: isAdmin}
}

func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.requireAdmin(ctx, in.UserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("Product name is required")
	}
	if in.PriceCents < 0 {
		return nil, models.NewValidationError("Price cannot be negative")
	}

	p := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Images:      in.Images,
		PixPayload:  in.PixPayload,
		WhatsApp:    in.WhatsApp,
		IsAvailable: true,
		CreatedBy:   in.UserID,
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if in.IsPinned != nil {
		p.IsPinned = *in.IsPinned
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context, availableOnly bool, limit, offset int) ([]models.Product, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return s.repo.List(ctx, availableOnly, limit, offset)
}

func (s *ProductService) UpdateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.requireAdmin(ctx, in.UserID); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		p.Name = strings.TrimSpace(in.Name)
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.PriceCents > 0 {
		p.PriceCents = in.PriceCents
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.PixPayload != "" {
		p.PixPayload = in.PixPayload
	}
	if in.WhatsApp != "" {
		p.WhatsApp = in.WhatsApp
	}
	if in.IsPinned != nil {
		p.IsPinned = *in.IsPinned
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, userID, productID uint) error {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, productID)
}

func (s *ProductService) requireAdmin(ctx context.Context, userID uint) error {
	if s.isAdmin == nil {
		return models.NewUnauthorizedError("Admin role required")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError("Admin role required")
	}
	return nil
}
