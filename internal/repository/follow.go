package repository

import (
	"context"

	"jokerclub/internal/cache"
	"jokerclub/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow relationships.
type FollowRepository interface {
	ToggleFollow(ctx context.Context, followerID, followeeID uint) (models.ToggleResult, error)
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// ToggleFollow follows the same atomic insert-or-delete pattern as tweet
// likes.
func (r *followRepository) ToggleFollow(ctx context.Context, followerID, followeeID uint) (models.ToggleResult, error) {
	if followerID == followeeID {
		return "", models.NewValidationError("cannot follow yourself")
	}

	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, followee_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID,
	)
	if result.Error != nil {
		return "", models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.UserKey(followeeID), cache.UserKey(followerID))
		return models.ToggleResultFollowed, nil
	}

	if err := r.db.WithContext(ctx).
		Exec(`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID).Error; err != nil {
		return "", models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.UserKey(followeeID), cache.UserKey(followerID))
	return models.ToggleResultUnfollowed, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.follower_id").
		Where("f.followee_id = ?", userID).
		Order("f.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.followee_id").
		Where("f.follower_id = ?", userID).
		Order("f.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
