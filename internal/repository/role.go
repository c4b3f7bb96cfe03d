package repository

import (
	"context"

	"jokerclub/internal/cache"
	"jokerclub/internal/models"

	"gorm.io/gorm"
)

// RoleRepository manages user role assignments.
type RoleRepository interface {
	GetRoles(ctx context.Context, userID uint) ([]string, error)
	IsAdmin(ctx context.Context, userID uint) (bool, error)
	Grant(ctx context.Context, userID uint, role string) error
	Revoke(ctx context.Context, userID uint, role string) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository returns a new RoleRepository implementation.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) GetRoles(ctx context.Context, userID uint) ([]string, error) {
	var roles []string
	key := cache.RolesKey(userID)

	err := cache.Aside(ctx, key, &roles, cache.RolesTTL, func() error {
		if err := r.db.WithContext(ctx).
			Model(&models.UserRole{}).
			Where("user_id = ?", userID).
			Pluck("role", &roles).Error; err != nil {
			return models.NewInternalError(err)
		}
		// Cache an empty slice rather than nil so "no roles" is a hit too.
		if roles == nil {
			roles = []string{}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	roles, err := r.GetRoles(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, role := range roles {
		if role == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *roleRepository) Grant(ctx context.Context, userID uint, role string) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO user_roles (user_id, role, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, role) DO NOTHING`,
		userID, role,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateUserRoles(ctx, userID)
	return nil
}

func (r *roleRepository) Revoke(ctx context.Context, userID uint, role string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&models.UserRole{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUserRoles(ctx, userID)
	return nil
}
