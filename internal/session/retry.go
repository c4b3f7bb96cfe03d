package session

import (
	"context"
	"errors"

	"jokerclub/internal/observability"
)

// WithAuthRetry runs op, and if it fails with ErrAuthExpired, refreshes the
// session exactly once and retries. A failed refresh, or a second expiry
// after a successful refresh, signs the user out and returns
// ErrAuthenticationFailed. All other errors pass through untouched.
func WithAuthRetry(ctx context.Context, store Store, op func(ctx context.Context) error) error {
	err := op(ctx)
	if err == nil || !errors.Is(err, ErrAuthExpired) {
		return err
	}

	if _, refreshErr := store.RefreshSession(ctx); refreshErr != nil {
		observability.AuthRefreshTotal.WithLabelValues("refresh_failed").Inc()
		if signOutErr := store.SignOut(ctx); signOutErr != nil {
			return errors.Join(ErrAuthenticationFailed, signOutErr)
		}
		return ErrAuthenticationFailed
	}

	err = op(ctx)
	if err == nil {
		observability.AuthRefreshTotal.WithLabelValues("recovered").Inc()
		return nil
	}
	if errors.Is(err, ErrAuthExpired) {
		observability.AuthRefreshTotal.WithLabelValues("still_expired").Inc()
		if signOutErr := store.SignOut(ctx); signOutErr != nil {
			return errors.Join(ErrAuthenticationFailed, signOutErr)
		}
		return ErrAuthenticationFailed
	}
	return err
}
