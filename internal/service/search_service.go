package service

import (
	"context"
	"strings"

	"jokerclub/internal/models"
	"jokerclub/internal/visibility"
)

// SearchService fans a query out across tweets, users, and codeblocks.
// Codeblock results pass through the visibility resolver so a search cannot
// bypass redaction.
type SearchService struct {
	tweets     *TweetService
	users      *UserService
	codeblocks *CodeblockService
}

// SearchResults bundles the per-domain hits for one query.
type SearchResults struct {
	Tweets     []*models.Tweet   `json:"tweets"`
	Users      []models.User     `json:"users"`
	Codeblocks []visibility.View `json:"codeblocks"`
}

func NewSearchService(tweets *TweetService, users *UserService, codeblocks *CodeblockService) *SearchService {
	return &SearchService{tweets: tweets, users: users, codeblocks: codeblocks}
}

func (s *SearchService) Search(ctx context.Context, query string, limit int, viewer visibility.Viewer) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}

	tweets, err := s.tweets.SearchTweets(ctx, query, limit, 0, viewer.UserID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.SearchUsers(ctx, query, limit, 0)
	if err != nil {
		return nil, err
	}
	codeblocks, err := s.codeblocks.ListCodeblocks(ctx, ListCodeblocksInput{
		Query:  query,
		Limit:  limit,
		Viewer: viewer,
	})
	if err != nil {
		return nil, err
	}

	return &SearchResults{
		Tweets:     tweets,
		Users:      users,
		Codeblocks: codeblocks,
	}, nil
}
