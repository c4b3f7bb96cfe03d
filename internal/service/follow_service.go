package service

import (
	"context"

	"jokerclub/internal/models"
	"jokerclub/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifier   Notifier
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

func (s *FollowService) ToggleFollow(ctx context.Context, followerID, followeeID uint) (models.ToggleResult, error) {
	// Confirm the target exists before touching the relationship.
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return "", err
	}

	result, err := s.followRepo.ToggleFollow(ctx, followerID, followeeID)
	if err != nil {
		return "", err
	}

	if result == models.ToggleResultFollowed && s.notifier != nil {
		s.notifier.Publish(ctx, &models.Notification{
			UserID:  followeeID,
			ActorID: followerID,
			Type:    models.NotificationTypeFollow,
		})
	}
	return result, nil
}

func (s *FollowService) GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return s.followRepo.GetFollowers(ctx, userID, limit, offset)
}

func (s *FollowService) GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return s.followRepo.GetFollowing(ctx, userID, limit, offset)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followeeID)
}
