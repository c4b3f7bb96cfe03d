package service

import (
	"context"

	"jokerclub/internal/models"
	"jokerclub/internal/repository"
)

// RankingService serves the club leaderboards and the global activity feed.
// Everything here is public and read-only.
type RankingService struct {
	repo repository.RankingRepository
}

func NewRankingService(repo repository.RankingRepository) *RankingService {
	return &RankingService{repo: repo}
}

func (s *RankingService) TopUsers(ctx context.Context, limit int) ([]models.RankedUser, error) {
	return s.repo.TopUsers(ctx, clampLimit(limit, 10, 50))
}

func (s *RankingService) PopularCodeblocks(ctx context.Context, limit int) ([]models.PopularCodeblock, error) {
	return s.repo.PopularCodeblocks(ctx, clampLimit(limit, 10, 50))
}

func (s *RankingService) RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	return s.repo.RecentActivity(ctx, clampLimit(limit, 20, 100))
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
