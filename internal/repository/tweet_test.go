package repository

import (
	"context"
	"testing"

	"jokerclub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTweetRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTweetRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "tweets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.Tweet{Content: "hello", UserID: 1})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTweetRepository_ToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("First Toggle Likes", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewTweetRepository(db)

		mock.ExpectExec(`INSERT INTO likes`).
			WithArgs(2, 10).
			WillReturnResult(sqlmock.NewResult(1, 1))

		result, err := repo.ToggleLike(ctx, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, models.ToggleResultLiked, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Second Toggle Unlikes", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewTweetRepository(db)

		// Conflict absorbed: zero rows means the like already existed.
		mock.ExpectExec(`INSERT INTO likes`).
			WithArgs(2, 10).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM likes`).
			WithArgs(2, 10).
			WillReturnResult(sqlmock.NewResult(0, 1))

		result, err := repo.ToggleLike(ctx, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, models.ToggleResultUnliked, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTweetRepository_ToggleRetweet(t *testing.T) {
	ctx := context.Background()

	t.Run("First Toggle Retweets", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewTweetRepository(db)

		mock.ExpectExec(`INSERT INTO retweets`).
			WithArgs(3, 11).
			WillReturnResult(sqlmock.NewResult(1, 1))

		result, err := repo.ToggleRetweet(ctx, 3, 11)
		require.NoError(t, err)
		assert.Equal(t, models.ToggleResultRetweeted, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Second Toggle Unretweets", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewTweetRepository(db)

		mock.ExpectExec(`INSERT INTO retweets`).
			WithArgs(3, 11).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM retweets`).
			WithArgs(3, 11).
			WillReturnResult(sqlmock.NewResult(0, 1))

		result, err := repo.ToggleRetweet(ctx, 3, 11)
		require.NoError(t, err)
		assert.Equal(t, models.ToggleResultUnretweeted, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTweetRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTweetRepository(db)

	mock.ExpectQuery(`SELECT tweets\.\*, \(SELECT COUNT\(\*\) FROM likes`).
		WithArgs(5, 5, 1, 1).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "content", "user_id", "likes_count", "retweets_count", "replies_count", "has_liked", "has_retweeted"}).
			AddRow(1, "hi there", 10, 3, 1, 0, true, false))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(10, "user10"))

	tweet, err := repo.GetByID(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "hi there", tweet.Content)
	assert.Equal(t, 3, tweet.LikesCount)
	assert.Equal(t, 1, tweet.RetweetsCount)
	assert.True(t, tweet.HasLiked)
	assert.False(t, tweet.HasRetweeted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
