package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithAuthRetrySuccessFirstTry(t *testing.T) {
	store := newFakeStore(&Session{UserID: 1})
	calls := 0

	err := WithAuthRetry(context.Background(), store, func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, store.refreshs)
}

func TestWithAuthRetryPassesThroughOtherErrors(t *testing.T) {
	store := newFakeStore(&Session{UserID: 1})
	boom := errors.New("network down")

	err := WithAuthRetry(context.Background(), store, func(context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.refreshs, "non-auth errors never trigger a refresh")
	assert.Equal(t, 0, store.signOuts)
}

func TestWithAuthRetryRecoversAfterRefresh(t *testing.T) {
	store := newFakeStore(&Session{UserID: 1, AccessToken: "old"})
	store.refresh = func() (*Session, error) {
		return &Session{UserID: 1, AccessToken: "new"}, nil
	}

	calls := 0
	err := WithAuthRetry(context.Background(), store, func(context.Context) error {
		calls++
		if calls == 1 {
			return ErrAuthExpired
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, store.refreshs)
	assert.Equal(t, 0, store.signOuts)
}

func TestWithAuthRetryRefreshFailureSignsOut(t *testing.T) {
	store := newFakeStore(&Session{UserID: 1})
	store.refresh = func() (*Session, error) {
		return nil, errors.New("refresh token revoked")
	}

	calls := 0
	err := WithAuthRetry(context.Background(), store, func(context.Context) error {
		calls++
		return ErrAuthExpired
	})

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Equal(t, 1, calls, "operation is not retried after a failed refresh")
	assert.Equal(t, 1, store.signOuts)
}

func TestWithAuthRetryOnlyRetriesOnce(t *testing.T) {
	store := newFakeStore(&Session{UserID: 1})

	calls := 0
	err := WithAuthRetry(context.Background(), store, func(context.Context) error {
		calls++
		return ErrAuthExpired
	})

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Equal(t, 2, calls, "exactly one retry after a successful refresh")
	assert.Equal(t, 1, store.refreshs)
	assert.Equal(t, 1, store.signOuts)
}

func TestWithAuthRetrySecondErrorPassesThrough(t *testing.T) {
	store := newFakeStore(&Session{UserID: 1})
	other := errors.New("conflict")

	calls := 0
	err := WithAuthRetry(context.Background(), store, func(context.Context) error {
		calls++
		if calls == 1 {
			return ErrAuthExpired
		}
		return other
	})

	assert.ErrorIs(t, err, other)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, store.signOuts, "a non-auth second failure is not a sign-out")
}
