package repository

import (
	"context"

	"jokerclub/internal/cache"
	"jokerclub/internal/models"

	"gorm.io/gorm"
)

// GrantRepository manages per-user access grants for blurred codeblocks.
type GrantRepository interface {
	// HasGrant reports whether userID holds a grant for the codeblock.
	HasGrant(ctx context.Context, codeblockID, userID uint) (bool, error)
	Create(ctx context.Context, grant *models.CodeblockGrant) error
	Revoke(ctx context.Context, codeblockID, userID uint) error
	ListByCodeblock(ctx context.Context, codeblockID uint) ([]models.CodeblockGrant, error)
	ListByUser(ctx context.Context, userID uint) ([]models.CodeblockGrant, error)
}

type grantRepository struct {
	db *gorm.DB
}

// NewGrantRepository returns a new GrantRepository implementation.
func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &grantRepository{db: db}
}

func (r *grantRepository) HasGrant(ctx context.Context, codeblockID, userID uint) (bool, error) {
	var granted bool
	key := cache.AccessKey(codeblockID, userID)

	err := cache.Aside(ctx, key, &granted, cache.AccessTTL, func() error {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.CodeblockGrant{}).
			Where("codeblock_id = ? AND user_id = ?", codeblockID, userID).
			Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		granted = count > 0
		return nil
	})

	if err != nil {
		return false, err
	}
	return granted, nil
}

// Create inserts a grant. A second grant for the same (codeblock, user) pair
// is rejected with a duplicate-grant error rather than silently absorbed, so
// moderators see that the user already had access.
func (r *grantRepository) Create(ctx context.Context, grant *models.CodeblockGrant) error {
	if err := r.db.WithContext(ctx).Create(grant).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateGrantError(grant.CodeblockID, grant.UserID)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateAccess(ctx, grant.CodeblockID, grant.UserID)
	return nil
}

// Revoke removes a grant. Revoking a grant that does not exist is a no-op.
func (r *grantRepository) Revoke(ctx context.Context, codeblockID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("codeblock_id = ? AND user_id = ?", codeblockID, userID).
		Delete(&models.CodeblockGrant{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAccess(ctx, codeblockID, userID)
	return nil
}

// ListByCodeblock returns grants for a codeblock, newest first, with the
// grantee and granter identities attached.
func (r *grantRepository) ListByCodeblock(ctx context.Context, codeblockID uint) ([]models.CodeblockGrant, error) {
	var grants []models.CodeblockGrant
	if err := r.db.WithContext(ctx).
		Preload("Grantee").
		Preload("Granter").
		Where("codeblock_id = ?", codeblockID).
		Order("created_at DESC").
		Find(&grants).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return grants, nil
}

func (r *grantRepository) ListByUser(ctx context.Context, userID uint) ([]models.CodeblockGrant, error) {
	var grants []models.CodeblockGrant
	if err := r.db.WithContext(ctx).
		Preload("Granter").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&grants).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return grants, nil
}
