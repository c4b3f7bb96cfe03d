package service

import (
	"context"
	"strings"

	"jokerclub/internal/cache"
	"jokerclub/internal/models"
	"jokerclub/internal/repository"
	"jokerclub/internal/validation"
	"jokerclub/internal/visibility"
)

const (
	maxCodeblockTitleLen   = 200
	maxCodeblockContentLen = 100000
	maxCodeblockLinks      = 10
)

type CodeblockService struct {
	cbRepo    repository.CodeblockRepository
	grantRepo repository.GrantRepository
	resolver  *visibility.Resolver
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

// CodeblockLinkInput is one link in its unpacked form.
type CodeblockLinkInput struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type CreateCodeblockInput struct {
	UserID      uint
	Title       string
	Description string
	Content     string
	Language    string
	Category    string
	Tags        []string
	IsPublic    *bool
	IsBlurred   bool
	Links       []CodeblockLinkInput
	// LegacyLinks carries "name|url" packed values from older clients; they
	// are unpacked here and never stored in packed form.
	LegacyLinks []string
}

type UpdateCodeblockInput struct {
	UserID      uint
	CodeblockID uint
	Title       string
	Description string
	Content     string
	Language    string
	Category    string
	Tags        []string
	IsPublic    *bool
	IsBlurred   *bool
	Links       *[]CodeblockLinkInput
}

type ListCodeblocksInput struct {
	Category string
	Language string
	Query    string
	Limit    int
	Offset   int
	Viewer   visibility.Viewer
}

type GrantAccessInput struct {
	ActorID     uint
	CodeblockID uint
	UserID      uint
}

func NewCodeblockService(
	cbRepo repository.CodeblockRepository,
	grantRepo repository.GrantRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CodeblockService {
	return &CodeblockService{
		cbRepo:    cbRepo,
		grantRepo: grantRepo,
		resolver:  visibility.NewResolver(grantRepo),
		isAdmin:   isAdmin,
	}
}

// Resolver exposes the visibility resolver for wiring into other services.
func (s *CodeblockService) Resolver() *visibility.Resolver {
	return s.resolver
}

func (s *CodeblockService) CreateCodeblock(ctx context.Context, in CreateCodeblockInput) (*models.Codeblock, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxCodeblockTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCodeblockContentLen {
		return nil, models.NewValidationError("Content too long (max 100000 characters)")
	}

	links, err := s.buildLinks(in.Links, in.LegacyLinks)
	if err != nil {
		return nil, err
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	cb := &models.Codeblock{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Content:     in.Content,
		Language:    in.Language,
		Category:    in.Category,
		Tags:        in.Tags,
		IsPublic:    isPublic,
		IsBlurred:   in.IsBlurred,
		CreatedBy:   in.UserID,
		Links:       links,
	}
	if err := s.cbRepo.Create(ctx, cb); err != nil {
		return nil, err
	}
	return s.cbRepo.GetByID(ctx, cb.ID)
}

func (s *CodeblockService) buildLinks(links []CodeblockLinkInput, legacy []string) ([]models.CodeblockLink, error) {
	parsed, err := validation.ParseLegacyLinks(legacy)
	if err != nil {
		return nil, models.NewValidationError("Invalid link format")
	}

	out := make([]models.CodeblockLink, 0, len(links)+len(parsed))
	for _, l := range links {
		if strings.TrimSpace(l.URL) == "" {
			return nil, models.NewValidationError("Link URL is required")
		}
		out = append(out, models.CodeblockLink{Name: l.Name, URL: l.URL})
	}
	for _, l := range parsed {
		out = append(out, models.CodeblockLink{Name: l.Name, URL: l.URL})
	}
	if len(out) > maxCodeblockLinks {
		return nil, models.NewValidationError("Too many links (max 10)")
	}
	for i := range out {
		out[i].Position = i
	}
	return out, nil
}

// GetCodeblock returns the codeblock as the viewer is allowed to see it.
// Private content the viewer cannot see reads as not found, so its existence
// does not leak.
func (s *CodeblockService) GetCodeblock(ctx context.Context, id uint, viewer visibility.Viewer) (*visibility.View, error) {
	cb, err := s.cbRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view, err := s.resolver.Resolve(ctx, cb, viewer)
	if err != nil && !view.Visible {
		return nil, err
	}
	if !view.Visible {
		return nil, models.NewNotFoundError("Codeblock", id)
	}
	return &view, nil
}

func (s *CodeblockService) ListCodeblocks(ctx context.Context, in ListCodeblocksInput) ([]visibility.View, error) {
	if in.Limit <= 0 {
		in.Limit = defaultPageLimit
	}

	cbs, err := s.cbRepo.List(ctx, repository.CodeblockListOptions{
		Category:      in.Category,
		Language:      in.Language,
		Query:         in.Query,
		Limit:         in.Limit,
		Offset:        in.Offset,
		ViewerID:      in.Viewer.UserID,
		ViewerIsAdmin: in.Viewer.Admin,
	})
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveList(ctx, cbs, in.Viewer), nil
}

func (s *CodeblockService) UpdateCodeblock(ctx context.Context, in UpdateCodeblockInput) (*models.Codeblock, error) {
	cb, err := s.cbRepo.GetByID(ctx, in.CodeblockID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnerOrAdmin(ctx, cb, in.UserID, "update"); err != nil {
		return nil, err
	}

	if in.Title != "" {
		if len(in.Title) > maxCodeblockTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		cb.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		cb.Description = in.Description
	}
	if in.Content != "" {
		if len(in.Content) > maxCodeblockContentLen {
			return nil, models.NewValidationError("Content too long (max 100000 characters)")
		}
		cb.Content = in.Content
	}
	if in.Language != "" {
		cb.Language = in.Language
	}
	if in.Category != "" {
		cb.Category = in.Category
	}
	if in.Tags != nil {
		cb.Tags = in.Tags
	}

	tierChanged := false
	if in.IsPublic != nil && *in.IsPublic != cb.IsPublic {
		cb.IsPublic = *in.IsPublic
		tierChanged = true
	}
	if in.IsBlurred != nil && *in.IsBlurred != cb.IsBlurred {
		cb.IsBlurred = *in.IsBlurred
		tierChanged = true
	}

	if err := s.cbRepo.Update(ctx, cb); err != nil {
		return nil, err
	}

	if in.Links != nil {
		links, err := s.buildLinks(*in.Links, nil)
		if err != nil {
			return nil, err
		}
		if err := s.cbRepo.ReplaceLinks(ctx, cb.ID, links); err != nil {
			return nil, err
		}
	}

	if tierChanged {
		cache.InvalidateCodeblockAccess(ctx, cb.ID)
	}
	return s.cbRepo.GetByID(ctx, cb.ID)
}

func (s *CodeblockService) DeleteCodeblock(ctx context.Context, userID, codeblockID uint) error {
	cb, err := s.cbRepo.GetByID(ctx, codeblockID)
	if err != nil {
		return err
	}
	if err := s.requireOwnerOrAdmin(ctx, cb, userID, "delete"); err != nil {
		return err
	}
	return s.cbRepo.Delete(ctx, codeblockID)
}

// GrantAccess gives a user full visibility of a blurred codeblock. Only the
// owner or an admin may grant. Granting twice surfaces a duplicate-grant
// error.
func (s *CodeblockService) GrantAccess(ctx context.Context, in GrantAccessInput) (*models.CodeblockGrant, error) {
	cb, err := s.cbRepo.GetByID(ctx, in.CodeblockID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, cb, in.ActorID, "manage access for"); err != nil {
		return nil, err
	}

	grant := &models.CodeblockGrant{
		CodeblockID: in.CodeblockID,
		UserID:      in.UserID,
		GrantedBy:   in.ActorID,
	}
	if err := s.grantRepo.Create(ctx, grant); err != nil {
		return nil, err
	}
	s.resolver.InvalidateAccess(in.CodeblockID, in.UserID)
	return grant, nil
}

// RevokeAccess removes a user's grant. Revoking a non-existent grant
// succeeds quietly.
func (s *CodeblockService) RevokeAccess(ctx context.Context, in GrantAccessInput) error {
	cb, err := s.cbRepo.GetByID(ctx, in.CodeblockID)
	if err != nil {
		return err
	}
	if err := s.requireOwnerOrAdmin(ctx, cb, in.ActorID, "manage access for"); err != nil {
		return err
	}

	if err := s.grantRepo.Revoke(ctx, in.CodeblockID, in.UserID); err != nil {
		return err
	}
	s.resolver.InvalidateAccess(in.CodeblockID, in.UserID)
	return nil
}

func (s *CodeblockService) ListGrants(ctx context.Context, actorID, codeblockID uint) ([]models.CodeblockGrant, error) {
	cb, err := s.cbRepo.GetByID(ctx, codeblockID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, cb, actorID, "list access for"); err != nil {
		return nil, err
	}
	return s.grantRepo.ListByCodeblock(ctx, codeblockID)
}

func (s *CodeblockService) requireOwnerOrAdmin(ctx context.Context, cb *models.Codeblock, userID uint, verb string) error {
	if cb.CreatedBy == userID {
		return nil
	}
	if s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if admin {
			return nil
		}
	}
	return models.NewUnauthorizedError("You can only " + verb + " your own codeblocks")
}
