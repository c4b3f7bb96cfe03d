// Package service contains the application's business logic, sitting between
// HTTP handlers and repositories.
package service

import (
	"context"
	"strings"

	"jokerclub/internal/models"
	"jokerclub/internal/repository"
)

const (
	maxTweetLen      = 280
	maxReplyLen      = 280
	maxTweetImages   = 4
	defaultPageLimit = 20
)

type TweetService struct {
	tweetRepo repository.TweetRepository
	notifier  Notifier
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

type CreateTweetInput struct {
	UserID  uint
	Content string
	Images  []string
}

type ListTweetsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
	FeedOnly      bool
}

type UpdateTweetInput struct {
	UserID   uint
	TweetID  uint
	Content  string
	IsPinned *bool
}

type DeleteTweetInput struct {
	UserID  uint
	TweetID uint
}

type CreateReplyInput struct {
	UserID  uint
	TweetID uint
	Content string
}

func NewTweetService(
	tweetRepo repository.TweetRepository,
	notifier Notifier,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *TweetService {
	return &TweetService{
		tweetRepo: tweetRepo,
		notifier:  notifier,
		isAdmin:   isAdmin,
	}
}

func (s *TweetService) CreateTweet(ctx context.Context, in CreateTweetInput) (*models.Tweet, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && len(in.Images) == 0 {
		return nil, models.NewValidationError("Tweet cannot be empty")
	}
	if len([]rune(content)) > maxTweetLen {
		return nil, models.NewValidationError("Tweet too long (max 280 characters)")
	}
	if len(in.Images) > maxTweetImages {
		return nil, models.NewValidationError("Too many images (max 4)")
	}

	tweet := &models.Tweet{
		Content: content,
		Images:  in.Images,
		UserID:  in.UserID,
	}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return s.tweetRepo.GetByID(ctx, tweet.ID, in.UserID)
}

func (s *TweetService) GetTweet(ctx context.Context, id uint, currentUserID uint) (*models.Tweet, error) {
	return s.tweetRepo.GetByID(ctx, id, currentUserID)
}

func (s *TweetService) ListTweets(ctx context.Context, in ListTweetsInput) ([]*models.Tweet, error) {
	if in.Limit <= 0 {
		in.Limit = defaultPageLimit
	}
	if in.FeedOnly {
		if in.CurrentUserID == 0 {
			return nil, models.NewNotAuthenticatedError("Sign in to view your feed")
		}
		return s.tweetRepo.Feed(ctx, in.CurrentUserID, in.Limit, in.Offset)
	}
	return s.tweetRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *TweetService) GetUserTweets(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Tweet, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return s.tweetRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *TweetService) SearchTweets(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Tweet, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return s.tweetRepo.Search(ctx, query, limit, offset, currentUserID)
}

func (s *TweetService) UpdateTweet(ctx context.Context, in UpdateTweetInput) (*models.Tweet, error) {
	tweet, err := s.tweetRepo.GetByID(ctx, in.TweetID, in.UserID)
	if err != nil {
		return nil, err
	}
	if tweet.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own tweets")
	}

	if in.Content != "" {
		content := strings.TrimSpace(in.Content)
		if len([]rune(content)) > maxTweetLen {
			return nil, models.NewValidationError("Tweet too long (max 280 characters)")
		}
		tweet.Content = content
	}
	if in.IsPinned != nil {
		tweet.IsPinned = *in.IsPinned
	}

	if err := s.tweetRepo.Update(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) DeleteTweet(ctx context.Context, in DeleteTweetInput) error {
	tweet, err := s.tweetRepo.GetByID(ctx, in.TweetID, in.UserID)
	if err != nil {
		return err
	}

	if tweet.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own tweets")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own tweets")
		}
	}

	return s.tweetRepo.Delete(ctx, in.TweetID)
}

// ToggleLike flips the like and returns the server's verdict together with
// the refreshed tweet.
func (s *TweetService) ToggleLike(ctx context.Context, userID, tweetID uint) (models.ToggleResult, *models.Tweet, error) {
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID, userID)
	if err != nil {
		return "", nil, err
	}

	result, err := s.tweetRepo.ToggleLike(ctx, userID, tweetID)
	if err != nil {
		return "", nil, err
	}

	if result == models.ToggleResultLiked && tweet.UserID != userID {
		s.notify(ctx, &models.Notification{
			UserID:  tweet.UserID,
			ActorID: userID,
			Type:    models.NotificationTypeLike,
			TweetID: &tweetID,
		})
	}

	updated, err := s.tweetRepo.GetByID(ctx, tweetID, userID)
	if err != nil {
		return result, nil, err
	}
	return result, updated, nil
}

// ToggleRetweet mirrors ToggleLike.
func (s *TweetService) ToggleRetweet(ctx context.Context, userID, tweetID uint) (models.ToggleResult, *models.Tweet, error) {
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID, userID)
	if err != nil {
		return "", nil, err
	}

	result, err := s.tweetRepo.ToggleRetweet(ctx, userID, tweetID)
	if err != nil {
		return "", nil, err
	}

	if result == models.ToggleResultRetweeted && tweet.UserID != userID {
		s.notify(ctx, &models.Notification{
			UserID:  tweet.UserID,
			ActorID: userID,
			Type:    models.NotificationTypeRetweet,
			TweetID: &tweetID,
		})
	}

	updated, err := s.tweetRepo.GetByID(ctx, tweetID, userID)
	if err != nil {
		return result, nil, err
	}
	return result, updated, nil
}

func (s *TweetService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Reply, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Reply cannot be empty")
	}
	if len([]rune(content)) > maxReplyLen {
		return nil, models.NewValidationError("Reply too long (max 280 characters)")
	}

	tweet, err := s.tweetRepo.GetByID(ctx, in.TweetID, in.UserID)
	if err != nil {
		return nil, err
	}

	reply := &models.Reply{
		TweetID: in.TweetID,
		UserID:  in.UserID,
		Content: content,
	}
	if err := s.tweetRepo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}

	if tweet.UserID != in.UserID {
		s.notify(ctx, &models.Notification{
			UserID:  tweet.UserID,
			ActorID: in.UserID,
			Type:    models.NotificationTypeReply,
			TweetID: &in.TweetID,
		})
	}
	return reply, nil
}

func (s *TweetService) GetReplies(ctx context.Context, tweetID uint, limit, offset int) ([]models.Reply, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return s.tweetRepo.GetReplies(ctx, tweetID, limit, offset)
}

func (s *TweetService) notify(ctx context.Context, n *models.Notification) {
	if s.notifier != nil {
		s.notifier.Publish(ctx, n)
	}
}
