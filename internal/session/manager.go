package session

import (
	"context"
	"sync"
	"time"

	"jokerclub/internal/middleware"
	"jokerclub/internal/visibility"
)

// RoleCacheTTL bounds how long a demoted admin keeps elevated UI state.
const RoleCacheTTL = 60 * time.Second

type roleState int

const (
	roleIdle roleState = iota
	roleChecking
	roleCached
)

// Manager owns the current session and a short-lived admin-role cache. Role
// checks run on sign-in only; token refreshes reuse the cached answer so a
// refresh storm cannot turn into a role-lookup storm.
type Manager struct {
	store Store
	roles RoleChecker

	mu        sync.Mutex
	session   *Session
	admin     bool
	state     roleState
	checkedAt time.Time
	inflight  chan struct{}
	now       func() time.Time

	done chan struct{}
	wg   sync.WaitGroup
}

// NewManager creates a manager over the given store and role source.
func NewManager(store Store, roles RoleChecker) *Manager {
	return &Manager{
		store: store,
		roles: roles,
		now:   time.Now,
		done:  make(chan struct{}),
	}
}

// Initialize loads the current session, resolves the admin role if signed
// in, and starts consuming auth events.
func (m *Manager) Initialize(ctx context.Context) error {
	sess, err := m.store.GetCurrentSession(ctx)
	if err != nil && err != ErrNotAuthenticated {
		return err
	}

	if sess != nil {
		m.mu.Lock()
		m.session = sess
		m.mu.Unlock()
		if _, err := m.IsAdmin(ctx); err != nil {
			middleware.Logger.WarnContext(ctx, "initial role check failed", "error", err)
		}
	}

	m.wg.Add(1)
	go m.consumeEvents()
	return nil
}

// Teardown stops event consumption and waits for it to finish.
func (m *Manager) Teardown() {
	close(m.done)
	m.wg.Wait()
}

func (m *Manager) consumeEvents() {
	defer m.wg.Done()
	events := m.store.Events()
	for {
		select {
		case <-m.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.handleEvent(ev)
		}
	}
}

func (m *Manager) handleEvent(ev Event) {
	switch ev.Type {
	case EventSignedIn:
		m.mu.Lock()
		m.session = ev.Session
		m.state = roleIdle
		m.mu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := m.IsAdmin(ctx); err != nil {
			middleware.Logger.Warn("role check after sign-in failed", "error", err)
		}
	case EventTokenRefreshed:
		// New tokens, same identity: keep the cached role answer.
		m.mu.Lock()
		m.session = ev.Session
		m.mu.Unlock()
	case EventSignedOut:
		// Clear synchronously so no admin UI survives the sign-out event.
		m.mu.Lock()
		m.session = nil
		m.admin = false
		m.state = roleIdle
		m.mu.Unlock()
	}
}

// Current returns the active session, or nil when signed out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	copied := *m.session
	return &copied
}

// IsAdmin reports whether the signed-in user is an admin, using the cached
// answer when fresh. Concurrent callers share a single lookup.
func (m *Manager) IsAdmin(ctx context.Context) (bool, error) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return false, nil
	}
	userID := m.session.UserID

	if m.state == roleCached && m.now().Sub(m.checkedAt) < RoleCacheTTL {
		admin := m.admin
		m.mu.Unlock()
		return admin, nil
	}

	if m.state == roleChecking {
		wait := m.inflight
		m.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return false, ctx.Err()
		}
		m.mu.Lock()
		admin := m.admin
		m.mu.Unlock()
		return admin, nil
	}

	m.state = roleChecking
	m.inflight = make(chan struct{})
	wait := m.inflight
	m.mu.Unlock()

	admin, err := m.roles.IsAdmin(ctx, userID)

	m.mu.Lock()
	if err != nil {
		// Unknown role state never grants privileges.
		m.admin = false
		m.state = roleIdle
	} else {
		m.admin = admin
		m.state = roleCached
		m.checkedAt = m.now()
	}
	close(wait)
	m.mu.Unlock()

	if err != nil {
		return false, err
	}
	return admin, nil
}

// Viewer builds the visibility viewer for the current auth state.
func (m *Manager) Viewer(ctx context.Context) visibility.Viewer {
	sess := m.Current()
	if sess == nil {
		return visibility.Anonymous
	}
	admin, err := m.IsAdmin(ctx)
	if err != nil {
		admin = false
	}
	return visibility.Viewer{UserID: sess.UserID, Authenticated: true, Admin: admin}
}
