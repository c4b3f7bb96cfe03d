package repository

import (
	"context"
	"errors"

	"jokerclub/internal/cache"
	"jokerclub/internal/models"

	"gorm.io/gorm"
)

// TweetRepository defines the interface for tweet data operations.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Tweet, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Tweet, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Tweet, error)
	Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Tweet, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Tweet, error)
	Update(ctx context.Context, tweet *models.Tweet) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, tweetID uint) (models.ToggleResult, error)
	ToggleRetweet(ctx context.Context, userID, tweetID uint) (models.ToggleResult, error)
	CreateReply(ctx context.Context, reply *models.Reply) error
	GetReplies(ctx context.Context, tweetID uint, limit, offset int) ([]models.Reply, error)
	DeleteReply(ctx context.Context, id uint) error
}

type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new tweet repository.
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTweetsList(ctx)
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Tweet, error) {
	var tweet models.Tweet
	key := cache.TweetKey(id)

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, key, &tweet, cache.TweetTTL, func() error {
			return r.applyTweetDetails(r.db.WithContext(ctx), 0).
				Preload("User").
				First(&tweet, id).Error
		})
	} else {
		err = r.applyTweetDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			First(&tweet, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tweet", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &tweet, nil
}

func (r *tweetRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Tweet, error) {
	var tweets []*models.Tweet
	err := r.applyTweetDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("is_pinned DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

func (r *tweetRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Tweet, error) {
	var tweets []*models.Tweet
	err := r.applyTweetDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

// Feed returns tweets from users the given user follows, plus their own.
func (r *tweetRepository) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Tweet, error) {
	var tweets []*models.Tweet
	err := r.applyTweetDetails(r.db.WithContext(ctx), userID).
		Preload("User").
		Where("user_id = ? OR user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

func (r *tweetRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Tweet, error) {
	var tweets []*models.Tweet
	like := "%" + query + "%"
	err := r.applyTweetDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("content ILIKE ?", like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

// applyTweetDetails adds subqueries to fetch counts and interaction status in a single query.
func (r *tweetRepository) applyTweetDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "tweets.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.tweet_id = tweets.id) as likes_count, " +
		"(SELECT COUNT(*) FROM retweets WHERE retweets.tweet_id = tweets.id) as retweets_count, " +
		"(SELECT COUNT(*) FROM replies WHERE replies.tweet_id = tweets.id) as replies_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.tweet_id = tweets.id AND likes.user_id = ?) as has_liked"+
			", EXISTS(SELECT 1 FROM retweets WHERE retweets.tweet_id = tweets.id AND retweets.user_id = ?) as has_retweeted",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as has_liked, false as has_retweeted")
}

func (r *tweetRepository) Update(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Save(tweet).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTweet(ctx, tweet.ID)
	return nil
}

func (r *tweetRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Tweet{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTweet(ctx, id)
	return nil
}

// ToggleLike flips the like state in a single round trip per direction.
// INSERT ... ON CONFLICT DO NOTHING makes the insert race-free; zero rows
// affected means the like already existed, so it is removed instead.
func (r *tweetRepository) ToggleLike(ctx context.Context, userID, tweetID uint) (models.ToggleResult, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, tweet_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, tweet_id) DO NOTHING`,
		userID, tweetID,
	)
	if result.Error != nil {
		return "", models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidateTweet(ctx, tweetID)
		return models.ToggleResultLiked, nil
	}

	if err := r.db.WithContext(ctx).
		Exec(`DELETE FROM likes WHERE user_id = ? AND tweet_id = ?`, userID, tweetID).Error; err != nil {
		return "", models.NewInternalError(err)
	}
	cache.InvalidateTweet(ctx, tweetID)
	return models.ToggleResultUnliked, nil
}

// ToggleRetweet mirrors ToggleLike for retweets.
func (r *tweetRepository) ToggleRetweet(ctx context.Context, userID, tweetID uint) (models.ToggleResult, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO retweets (user_id, tweet_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, tweet_id) DO NOTHING`,
		userID, tweetID,
	)
	if result.Error != nil {
		return "", models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidateTweet(ctx, tweetID)
		return models.ToggleResultRetweeted, nil
	}

	if err := r.db.WithContext(ctx).
		Exec(`DELETE FROM retweets WHERE user_id = ? AND tweet_id = ?`, userID, tweetID).Error; err != nil {
		return "", models.NewInternalError(err)
	}
	cache.InvalidateTweet(ctx, tweetID)
	return models.ToggleResultUnretweeted, nil
}

func (r *tweetRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTweet(ctx, reply.TweetID)
	return nil
}

func (r *tweetRepository) GetReplies(ctx context.Context, tweetID uint, limit, offset int) ([]models.Reply, error) {
	var replies []models.Reply
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("tweet_id = ?", tweetID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&replies).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

func (r *tweetRepository) DeleteReply(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Reply{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
