// Package session tracks the authenticated user on the client side of the
// API: who is signed in, whether they are an admin, and how to recover from
// an expired access token.
package session

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors surfaced by stores and the retry wrapper.
var (
	// ErrAuthExpired means the access token was rejected as expired and a
	// refresh may recover the session.
	ErrAuthExpired = errors.New("session: auth token expired")
	// ErrAuthenticationFailed means recovery was attempted and failed; the
	// user has been signed out.
	ErrAuthenticationFailed = errors.New("session: authentication failed")
	// ErrNotAuthenticated means there is no current session at all.
	ErrNotAuthenticated = errors.New("session: not authenticated")
)

// Session is a snapshot of an authenticated user's tokens.
type Session struct {
	UserID       uint
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// EventType identifies an auth state transition.
type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Event is delivered on every auth state change. Session is nil for
// EventSignedOut.
type Event struct {
	Type    EventType
	Session *Session
}

// Store is the authentication backend the manager sits on top of.
type Store interface {
	// GetCurrentSession returns the active session, or ErrNotAuthenticated.
	GetCurrentSession(ctx context.Context) (*Session, error)
	// RefreshSession exchanges the refresh token for new credentials.
	RefreshSession(ctx context.Context) (*Session, error)
	// SignOut discards the session.
	SignOut(ctx context.Context) error
	// Events returns the auth state change stream. The channel is closed
	// when the store shuts down.
	Events() <-chan Event
}

// RoleChecker answers whether a user holds the admin role.
type RoleChecker interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}
