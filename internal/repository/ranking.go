package repository

import (
	"context"

	"jokerclub/internal/cache"
	"jokerclub/internal/models"

	"gorm.io/gorm"
)

// RankingRepository serves the leaderboard and global activity queries. All
// of them are read-only aggregates over the social tables.
type RankingRepository interface {
	TopUsers(ctx context.Context, limit int) ([]models.RankedUser, error)
	PopularCodeblocks(ctx context.Context, limit int) ([]models.PopularCodeblock, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error)
}

type rankingRepository struct {
	db *gorm.DB
}

// NewRankingRepository creates a new ranking repository.
func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

// TopUsers scores each member by likes and retweets received on their tweets
// plus their follower count, highest first.
func (r *rankingRepository) TopUsers(ctx context.Context, limit int) ([]models.RankedUser, error) {
	var users []models.RankedUser
	key := cache.TopUsersKey(limit)

	err := cache.Aside(ctx, key, &users, cache.RankingTTL, func() error {
		return r.db.WithContext(ctx).Raw(
			`SELECT users.id, users.username, users.full_name, users.avatar, users.is_verified,
			   (SELECT COUNT(*) FROM likes
			      JOIN tweets ON tweets.id = likes.tweet_id
			      WHERE tweets.user_id = users.id AND tweets.deleted_at IS NULL)
			 + (SELECT COUNT(*) FROM retweets
			      JOIN tweets ON tweets.id = retweets.tweet_id
			      WHERE tweets.user_id = users.id AND tweets.deleted_at IS NULL)
			 + (SELECT COUNT(*) FROM follows WHERE follows.followee_id = users.id)
			   AS total_score
			 FROM users
			 WHERE users.deleted_at IS NULL
			 ORDER BY total_score DESC, users.id ASC
			 LIMIT ?`, limit,
		).Scan(&users).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// PopularCodeblocks ranks public codeblocks by the number of access grants
// issued for them, newest first among ties.
func (r *rankingRepository) PopularCodeblocks(ctx context.Context, limit int) ([]models.PopularCodeblock, error) {
	var blocks []models.PopularCodeblock
	key := cache.PopularCodeblocksKey(limit)

	err := cache.Aside(ctx, key, &blocks, cache.RankingTTL, func() error {
		return r.db.WithContext(ctx).Raw(
			`SELECT codeblocks.id, codeblocks.title, codeblocks.category,
			   (SELECT COUNT(*) FROM codeblock_grants
			      WHERE codeblock_grants.codeblock_id = codeblocks.id) AS popularity_score
			 FROM codeblocks
			 WHERE codeblocks.is_public = true AND codeblocks.deleted_at IS NULL
			 ORDER BY popularity_score DESC, codeblocks.created_at DESC
			 LIMIT ?`, limit,
		).Scan(&blocks).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return blocks, nil
}

// RecentActivity returns the newest like, retweet, reply, and follow events
// across the whole club, with the acting user's identity attached.
func (r *rankingRepository) RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	err := r.db.WithContext(ctx).Raw(
		`SELECT a.id, a.activity_type, a.created_at, a.actor_id,
		        u.username AS actor_username, u.full_name AS actor_full_name,
		        u.avatar AS actor_avatar, a.tweet_id
		 FROM (
		   SELECT likes.id, 'like' AS activity_type, likes.created_at,
		          likes.user_id AS actor_id, likes.tweet_id FROM likes
		   UNION ALL
		   SELECT retweets.id, 'retweet', retweets.created_at,
		          retweets.user_id, retweets.tweet_id FROM retweets
		   UNION ALL
		   SELECT replies.id, 'reply', replies.created_at,
		          replies.user_id, replies.tweet_id FROM replies
		   WHERE replies.deleted_at IS NULL
		   UNION ALL
		   SELECT follows.id, 'follow', follows.created_at,
		          follows.follower_id, NULL FROM follows
		 ) a
		 JOIN users u ON u.id = a.actor_id
		 ORDER BY a.created_at DESC
		 LIMIT ?`, limit,
	).Scan(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
