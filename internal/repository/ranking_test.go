package repository

import (
	"context"
	"testing"
	"time"

	"jokerclub/internal/models"
	"jokerclub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingRepository_TopUsers(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewRankingRepository(db)

	for _, u := range []models.User{
		{Username: "ace", Email: "ace@example.com", Password: "x"},
		{Username: "deuce", Email: "deuce@example.com", Password: "x"},
		{Username: "trey", Email: "trey@example.com", Password: "x"},
	} {
		user := u
		require.NoError(t, db.Create(&user).Error)
	}

	tweet := models.Tweet{Content: "opening night", UserID: 1}
	require.NoError(t, db.Create(&tweet).Error)

	// ace: two likes, one retweet, two followers -> score 5.
	require.NoError(t, db.Create(&models.Like{UserID: 2, TweetID: tweet.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: 3, TweetID: tweet.ID}).Error)
	require.NoError(t, db.Create(&models.Retweet{UserID: 2, TweetID: tweet.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: 2, FolloweeID: 1}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: 3, FolloweeID: 1}).Error)
	// deuce: one follower -> score 1.
	require.NoError(t, db.Create(&models.Follow{FollowerID: 3, FolloweeID: 2}).Error)

	users, err := repo.TopUsers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, "ace", users[0].Username)
	assert.Equal(t, 5, users[0].TotalScore)
	assert.Equal(t, "deuce", users[1].Username)
	assert.Equal(t, 1, users[1].TotalScore)
	assert.Equal(t, 0, users[2].TotalScore)
}

func TestRankingRepository_PopularCodeblocks(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewRankingRepository(db)

	require.NoError(t, db.Create(&models.User{Username: "owner", Email: "o@example.com", Password: "x"}).Error)

	paid := models.Codeblock{Title: "Paid study", Category: "strategy", Content: "x", IsPublic: true, IsBlurred: true, CreatedBy: 1}
	free := models.Codeblock{Title: "Free study", Category: "tactics", Content: "x", IsPublic: true, CreatedBy: 1}
	hidden := models.Codeblock{Title: "Draft", Content: "x", IsPublic: false, CreatedBy: 1}
	require.NoError(t, db.Create(&paid).Error)
	require.NoError(t, db.Create(&free).Error)
	require.NoError(t, db.Create(&hidden).Error)

	require.NoError(t, db.Create(&models.CodeblockGrant{CodeblockID: paid.ID, UserID: 2, GrantedBy: 1}).Error)
	require.NoError(t, db.Create(&models.CodeblockGrant{CodeblockID: paid.ID, UserID: 3, GrantedBy: 1}).Error)

	blocks, err := repo.PopularCodeblocks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, "Paid study", blocks[0].Title)
	assert.Equal(t, "strategy", blocks[0].Tag)
	assert.Equal(t, 2, blocks[0].PopularityScore)
	assert.Equal(t, "Free study", blocks[1].Title)
	assert.Equal(t, 0, blocks[1].PopularityScore)
}

func TestRankingRepository_RecentActivity(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewRankingRepository(db)

	for _, u := range []models.User{
		{Username: "ace", Email: "ace@example.com", Password: "x"},
		{Username: "deuce", Email: "deuce@example.com", Password: "x"},
	} {
		user := u
		require.NoError(t, db.Create(&user).Error)
	}

	tweet := models.Tweet{Content: "hello club", UserID: 1}
	require.NoError(t, db.Create(&tweet).Error)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Like{UserID: 2, TweetID: tweet.ID, CreatedAt: base}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: 2, FolloweeID: 1, CreatedAt: base.Add(time.Minute)}).Error)
	require.NoError(t, db.Create(&models.Reply{UserID: 2, TweetID: tweet.ID, Content: "nice", CreatedAt: base.Add(2 * time.Minute)}).Error)

	entries, err := repo.RecentActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	assert.Equal(t, models.ActivityReply, entries[0].ActivityType)
	assert.Equal(t, models.ActivityFollow, entries[1].ActivityType)
	assert.Equal(t, models.ActivityLike, entries[2].ActivityType)

	// Every entry carries the actor identity; follows have no tweet.
	for _, e := range entries {
		assert.Equal(t, "deuce", e.ActorUsername)
	}
	assert.Nil(t, entries[1].TweetID)
	require.NotNil(t, entries[0].TweetID)
	assert.Equal(t, tweet.ID, *entries[0].TweetID)
}
