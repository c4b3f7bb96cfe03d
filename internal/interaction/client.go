// Package interaction implements optimistic like/retweet/follow toggles:
// local state flips immediately, the server call runs behind it, and a
// failure rolls the flip back.
package interaction

import (
	"context"
	"sync"

	"jokerclub/internal/models"
	"jokerclub/internal/observability"
	"jokerclub/internal/session"
)

// Kind names a toggleable interaction.
type Kind string

const (
	KindLike    Kind = "like"
	KindRetweet Kind = "retweet"
	KindFollow  Kind = "follow"
)

// State is the locally tracked status of one interaction target.
type State struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// Toggler is the server side of a toggle.
type Toggler interface {
	Toggle(ctx context.Context, kind Kind, userID, targetID uint) (models.ToggleResult, error)
}

// TogglerFunc adapts a function to the Toggler interface.
type TogglerFunc func(ctx context.Context, kind Kind, userID, targetID uint) (models.ToggleResult, error)

func (f TogglerFunc) Toggle(ctx context.Context, kind Kind, userID, targetID uint) (models.ToggleResult, error) {
	return f(ctx, kind, userID, targetID)
}

// ErrorReporter receives exactly one call per failed toggle.
type ErrorReporter func(kind Kind, targetID uint, err error)

type stateKey struct {
	kind     Kind
	userID   uint
	targetID uint
}

// Client applies toggles optimistically. Toggles on the same
// (user, target, kind) are serialized; different targets proceed
// independently.
type Client struct {
	backend Toggler
	store   session.Store
	report  ErrorReporter

	mu    sync.Mutex
	locks map[stateKey]*sync.Mutex
	state map[stateKey]State
}

// Option configures a Client.
type Option func(*Client)

// WithAuthStore routes server calls through the one-shot auth refresh-retry
// wrapper backed by the given store.
func WithAuthStore(store session.Store) Option {
	return func(c *Client) { c.store = store }
}

// WithErrorReporter sets the failure callback.
func WithErrorReporter(report ErrorReporter) Option {
	return func(c *Client) { c.report = report }
}

// NewClient creates an optimistic toggle client over the given backend.
func NewClient(backend Toggler, opts ...Option) *Client {
	c := &Client{
		backend: backend,
		locks:   make(map[stateKey]*sync.Mutex),
		state:   make(map[stateKey]State),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Seed sets the known server state for a target, typically from a fetched
// list response.
func (c *Client) Seed(kind Kind, userID, targetID uint, s State) {
	c.mu.Lock()
	c.state[stateKey{kind, userID, targetID}] = s
	c.mu.Unlock()
}

// State returns the current local state for a target.
func (c *Client) State(kind Kind, userID, targetID uint) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state[stateKey{kind, userID, targetID}]
}

// Toggle flips the interaction optimistically, then confirms with the
// server. On failure the local state is restored to its pre-toggle snapshot
// and the error reporter fires once. The returned state is what the UI
// should display.
func (c *Client) Toggle(ctx context.Context, kind Kind, userID, targetID uint) (State, error) {
	key := stateKey{kind, userID, targetID}
	lock := c.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	snapshot := c.state[key]
	optimistic := flip(snapshot)
	c.state[key] = optimistic
	c.mu.Unlock()

	result, err := c.callBackend(ctx, kind, userID, targetID)
	if err != nil {
		c.mu.Lock()
		c.state[key] = snapshot
		c.mu.Unlock()
		observability.ToggleRollbacks.WithLabelValues(string(kind)).Inc()
		if c.report != nil {
			c.report(kind, targetID, err)
		}
		return snapshot, err
	}

	// The server is authoritative: if its answer disagrees with the
	// optimistic flip (e.g. another device toggled first), adopt it.
	final := reconcile(snapshot, optimistic, result)
	c.mu.Lock()
	c.state[key] = final
	c.mu.Unlock()
	return final, nil
}

func (c *Client) callBackend(ctx context.Context, kind Kind, userID, targetID uint) (models.ToggleResult, error) {
	if c.store == nil {
		return c.backend.Toggle(ctx, kind, userID, targetID)
	}
	var result models.ToggleResult
	err := session.WithAuthRetry(ctx, c.store, func(ctx context.Context) error {
		var opErr error
		result, opErr = c.backend.Toggle(ctx, kind, userID, targetID)
		return opErr
	})
	return result, err
}

func (c *Client) lockFor(key stateKey) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

func flip(s State) State {
	if s.Active {
		return State{Active: false, Count: dec(s.Count)}
	}
	return State{Active: true, Count: s.Count + 1}
}

func reconcile(snapshot, optimistic State, result models.ToggleResult) State {
	active := result.IsActivation()
	if active == optimistic.Active {
		return optimistic
	}
	if active {
		return State{Active: true, Count: snapshot.Count + 1}
	}
	return State{Active: false, Count: dec(snapshot.Count)}
}

func dec(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return n - 1
}
