package service

import (
	"context"
	"strings"

	"jokerclub/internal/models"
	"jokerclub/internal/repository"
	"jokerclub/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

type UpdateProfileInput struct {
	UserID   uint
	FullName *string
	Bio      *string
	Avatar   *string
}

type ChangePasswordInput struct {
	UserID      uint
	OldPassword string
	NewPassword string
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *UserService {
	return &UserService{userRepo: userRepo, roleRepo: roleRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, username string, currentUserID uint) (*models.User, error) {
	return s.userRepo.GetProfile(ctx, username, currentUserID)
}

func (s *UserService) SearchUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return s.userRepo.Search(ctx, query, limit, offset)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Bio != nil {
		if len(*in.Bio) > 500 {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)); err != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}

// PromoteToAdmin grants the admin role. Only existing admins may promote.
func (s *UserService) PromoteToAdmin(ctx context.Context, actorID, userID uint) error {
	admin, err := s.roleRepo.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError("Admin role required")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.roleRepo.Grant(ctx, userID, models.RoleAdmin)
}

// DemoteFromAdmin revokes the admin role. Admins cannot demote themselves,
// so the club always keeps at least the acting admin.
func (s *UserService) DemoteFromAdmin(ctx context.Context, actorID, userID uint) error {
	admin, err := s.roleRepo.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError("Admin role required")
	}
	if actorID == userID {
		return models.NewValidationError("You cannot demote yourself")
	}
	return s.roleRepo.Revoke(ctx, userID, models.RoleAdmin)
}
