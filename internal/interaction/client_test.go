package interaction

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jokerclub/internal/models"
	"jokerclub/internal/session"
)

const (
	testTimeout = 2 * time.Second
	testTick    = 5 * time.Millisecond
)

// serverToggler mimics the real backend: it holds authoritative state and
// flips it atomically per call.
type serverToggler struct {
	mu     sync.Mutex
	active map[[3]any]bool
	calls  int
	err    error
	errSeq []error
}

func newServerToggler() *serverToggler {
	return &serverToggler{active: make(map[[3]any]bool)}
}

func (s *serverToggler) Toggle(_ context.Context, kind Kind, userID, targetID uint) (models.ToggleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errSeq) > 0 {
		err := s.errSeq[0]
		s.errSeq = s.errSeq[1:]
		if err != nil {
			return "", err
		}
	} else if s.err != nil {
		return "", s.err
	}

	key := [3]any{kind, userID, targetID}
	s.active[key] = !s.active[key]
	if s.active[key] {
		switch kind {
		case KindRetweet:
			return models.ToggleResultRetweeted, nil
		case KindFollow:
			return models.ToggleResultFollowed, nil
		default:
			return models.ToggleResultLiked, nil
		}
	}
	switch kind {
	case KindRetweet:
		return models.ToggleResultUnretweeted, nil
	case KindFollow:
		return models.ToggleResultUnfollowed, nil
	default:
		return models.ToggleResultUnliked, nil
	}
}

func TestToggleOnThenOff(t *testing.T) {
	server := newServerToggler()
	c := NewClient(server)
	c.Seed(KindLike, 1, 10, State{Active: false, Count: 3})
	ctx := context.Background()

	st, err := c.Toggle(ctx, KindLike, 1, 10)
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.EqualValues(t, 4, st.Count)

	st, err = c.Toggle(ctx, KindLike, 1, 10)
	require.NoError(t, err)
	assert.False(t, st.Active)
	assert.EqualValues(t, 3, st.Count)
}

func TestToggleRollbackOnFailure(t *testing.T) {
	server := newServerToggler()
	server.err = errors.New("503 unavailable")

	var reports []error
	c := NewClient(server, WithErrorReporter(func(kind Kind, targetID uint, err error) {
		reports = append(reports, err)
	}))
	c.Seed(KindRetweet, 1, 20, State{Active: true, Count: 7})

	st, err := c.Toggle(context.Background(), KindRetweet, 1, 20)
	require.Error(t, err)
	assert.True(t, st.Active, "state restored to pre-toggle snapshot")
	assert.EqualValues(t, 7, st.Count)
	assert.Equal(t, st, c.State(KindRetweet, 1, 20))
	assert.Len(t, reports, 1, "exactly one error report per failed toggle")
}

func TestToggleCountNeverNegative(t *testing.T) {
	server := newServerToggler()
	server.mu.Lock()
	server.active[[3]any{KindLike, uint(1), uint(10)}] = true
	server.mu.Unlock()

	c := NewClient(server)
	c.Seed(KindLike, 1, 10, State{Active: true, Count: 0})

	st, err := c.Toggle(context.Background(), KindLike, 1, 10)
	require.NoError(t, err)
	assert.False(t, st.Active)
	assert.EqualValues(t, 0, st.Count)
}

func TestToggleReconcilesWithServer(t *testing.T) {
	// Another device already liked: the server's first flip turns the like
	// OFF while the local optimistic flip turned it ON.
	server := newServerToggler()
	server.mu.Lock()
	server.active[[3]any{KindLike, uint(1), uint(10)}] = true
	server.mu.Unlock()

	c := NewClient(server)
	c.Seed(KindLike, 1, 10, State{Active: false, Count: 5})

	st, err := c.Toggle(context.Background(), KindLike, 1, 10)
	require.NoError(t, err)
	assert.False(t, st.Active, "server answer wins over optimistic flip")
	assert.EqualValues(t, 4, st.Count)
}

func TestConcurrentTogglesSameTargetSerialize(t *testing.T) {
	server := newServerToggler()
	c := NewClient(server)
	c.Seed(KindLike, 1, 10, State{Active: false, Count: 0})

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Toggle(context.Background(), KindLike, 1, 10)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// An even number of toggles lands back where it started, locally and on
	// the server.
	final := c.State(KindLike, 1, 10)
	assert.False(t, final.Active)
	assert.EqualValues(t, 0, final.Count)

	server.mu.Lock()
	assert.False(t, server.active[[3]any{KindLike, uint(1), uint(10)}])
	assert.Equal(t, n, server.calls)
	server.mu.Unlock()
}

func TestConcurrentTogglesDifferentTargetsProceed(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	gate := make(chan struct{})

	backend := TogglerFunc(func(_ context.Context, _ Kind, _, _ uint) (models.ToggleResult, error) {
		cur := inFlight.Add(1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}
		<-gate
		inFlight.Add(-1)
		return models.ToggleResultLiked, nil
	})

	c := NewClient(backend)
	var wg sync.WaitGroup
	for i := uint(1); i <= 4; i++ {
		wg.Add(1)
		go func(target uint) {
			defer wg.Done()
			_, _ = c.Toggle(context.Background(), KindLike, 1, target)
		}(i)
	}

	require.Eventually(t, func() bool { return inFlight.Load() == 4 }, testTimeout, testTick,
		"toggles on distinct targets must not serialize")
	close(gate)
	wg.Wait()
	assert.EqualValues(t, 4, maxInFlight.Load())
}

func TestToggleRetriesThroughAuthStore(t *testing.T) {
	server := newServerToggler()
	server.errSeq = []error{session.ErrAuthExpired}

	store := &retryStore{}
	c := NewClient(server, WithAuthStore(store))
	c.Seed(KindLike, 1, 10, State{Active: false, Count: 2})

	st, err := c.Toggle(context.Background(), KindLike, 1, 10)
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.EqualValues(t, 3, st.Count)
	assert.Equal(t, 1, store.refreshes, "expired token refreshed once")
	assert.Equal(t, 2, server.calls)
}

func TestToggleAuthFailureRollsBack(t *testing.T) {
	server := newServerToggler()
	server.err = session.ErrAuthExpired

	store := &retryStore{refreshErr: errors.New("revoked")}
	var reports int
	c := NewClient(server, WithAuthStore(store), WithErrorReporter(func(Kind, uint, error) {
		reports++
	}))
	c.Seed(KindLike, 1, 10, State{Active: false, Count: 2})

	st, err := c.Toggle(context.Background(), KindLike, 1, 10)
	assert.ErrorIs(t, err, session.ErrAuthenticationFailed)
	assert.False(t, st.Active)
	assert.EqualValues(t, 2, st.Count)
	assert.Equal(t, 1, store.signOuts)
	assert.Equal(t, 1, reports)
}

type retryStore struct {
	refreshErr error
	refreshes  int
	signOuts   int
}

func (s *retryStore) GetCurrentSession(context.Context) (*session.Session, error) {
	return &session.Session{UserID: 1}, nil
}

func (s *retryStore) RefreshSession(context.Context) (*session.Session, error) {
	s.refreshes++
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return &session.Session{UserID: 1, AccessToken: "new"}, nil
}

func (s *retryStore) SignOut(context.Context) error {
	s.signOuts++
	return nil
}

func (s *retryStore) Events() <-chan session.Event { return nil }
