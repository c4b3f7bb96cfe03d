// Package visibility decides what a viewer may see of a codeblock and
// produces redacted previews for paid content.
package visibility

import (
	"context"
	"strconv"
	"sync"
	"time"

	"jokerclub/internal/models"
	"jokerclub/internal/observability"
)

// Tier is the visibility classification of a codeblock.
type Tier string

const (
	// TierPrivate content is only visible to its owner and admins.
	TierPrivate Tier = "PRIVATE"
	// TierPaidBlurred content is listed for everyone but redacted unless the
	// viewer owns it, is an admin, or holds an access grant.
	TierPaidBlurred Tier = "PAID_BLURRED"
	// TierPublic content is fully visible to everyone.
	TierPublic Tier = "PUBLIC"
)

// TierOf derives the tier from the two stored flags. A blurred flag on a
// non-public codeblock is ignored: private wins.
func TierOf(cb *models.Codeblock) Tier {
	if !cb.IsPublic {
		return TierPrivate
	}
	if cb.IsBlurred {
		return TierPaidBlurred
	}
	return TierPublic
}

// Viewer identifies the requesting user for an access decision. A zero
// Viewer is an anonymous visitor.
type Viewer struct {
	UserID        uint
	Authenticated bool
	Admin         bool
}

// Anonymous is the viewer used for unauthenticated requests.
var Anonymous = Viewer{}

// AccessChecker reports whether a user holds an access grant for a codeblock.
type AccessChecker interface {
	HasGrant(ctx context.Context, codeblockID, userID uint) (bool, error)
}

type cachedAccess struct {
	granted   bool
	expiresAt time.Time
}

// Resolver answers visibility questions, caching grant lookups for a short
// TTL so list rendering does not hammer the grants table.
type Resolver struct {
	grants AccessChecker
	ttl    time.Duration

	mu    sync.Mutex
	cache map[[2]uint]cachedAccess
	now   func() time.Time
}

// DefaultAccessTTL bounds how long a revoked grant can still appear valid.
const DefaultAccessTTL = 5 * time.Minute

// NewResolver creates a resolver over the given grant source.
func NewResolver(grants AccessChecker) *Resolver {
	return &Resolver{
		grants: grants,
		ttl:    DefaultAccessTTL,
		cache:  make(map[[2]uint]cachedAccess),
		now:    time.Now,
	}
}

// HasAccess reports whether the viewer may see the full content of the
// codeblock. Grant lookups are only made for authenticated non-owner,
// non-admin viewers of paid content; any lookup failure denies access.
func (r *Resolver) HasAccess(ctx context.Context, cb *models.Codeblock, viewer Viewer) (bool, error) {
	if viewer.Authenticated && viewer.UserID == cb.CreatedBy {
		return true, nil
	}
	if viewer.Admin {
		return true, nil
	}

	switch TierOf(cb) {
	case TierPublic:
		return true, nil
	case TierPrivate:
		return false, nil
	}

	// Paid content: anonymous viewers never reach the grants table.
	if !viewer.Authenticated {
		return false, nil
	}

	granted, err := r.checkGrant(ctx, cb.ID, viewer.UserID)
	if err != nil {
		// Fail closed: an unknown grant state must not leak paid content.
		return false, models.NewAccessCheckFailedError(err)
	}
	return granted, nil
}

func (r *Resolver) checkGrant(ctx context.Context, codeblockID, userID uint) (bool, error) {
	key := [2]uint{codeblockID, userID}

	r.mu.Lock()
	entry, ok := r.cache[key]
	if ok && r.now().Before(entry.expiresAt) {
		r.mu.Unlock()
		observability.AccessCacheHits.WithLabelValues("hit").Inc()
		return entry.granted, nil
	}
	r.mu.Unlock()

	observability.AccessCacheHits.WithLabelValues("miss").Inc()
	granted, err := r.grants.HasGrant(ctx, codeblockID, userID)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	r.cache[key] = cachedAccess{granted: granted, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return granted, nil
}

// InvalidateAccess drops the cached decision for one (codeblock, user) pair.
// Called after a grant is created or revoked.
func (r *Resolver) InvalidateAccess(codeblockID, userID uint) {
	r.mu.Lock()
	delete(r.cache, [2]uint{codeblockID, userID})
	r.mu.Unlock()
}

// Resolve classifies the codeblock for the viewer and applies redaction when
// needed. Private codeblocks the viewer may not see resolve to visible=false
// and must be omitted from any response.
func (r *Resolver) Resolve(ctx context.Context, cb *models.Codeblock, viewer Viewer) (View, error) {
	tier := TierOf(cb)

	access, err := r.HasAccess(ctx, cb, viewer)
	if err != nil {
		// Fail closed but still surface the error so callers can log it;
		// paid content degrades to a redacted preview.
		if tier == TierPaidBlurred {
			return newView(Redact(cb), tier, true, true), err
		}
		return View{Tier: tier}, err
	}

	if access {
		return newView(*cb, tier, false, true), nil
	}

	switch tier {
	case TierPrivate:
		return View{Tier: tier}, nil
	default:
		return newView(Redact(cb), tier, true, true), nil
	}
}

// ResolveList resolves a slice of codeblocks, dropping entries the viewer
// cannot see at all. A failed access check redacts rather than erroring so a
// single bad row cannot blank the whole list.
func (r *Resolver) ResolveList(ctx context.Context, cbs []models.Codeblock, viewer Viewer) []View {
	out := make([]View, 0, len(cbs))
	for i := range cbs {
		view, err := r.Resolve(ctx, &cbs[i], viewer)
		if err != nil && !view.Visible {
			continue
		}
		if !view.Visible {
			continue
		}
		out = append(out, view)
	}
	return out
}

func newView(cb models.Codeblock, tier Tier, redacted, visible bool) View {
	observability.VisibilityResolutions.WithLabelValues(string(tier), strconv.FormatBool(redacted)).Inc()

	// Redacted views never expose the image list; the full path scans the
	// content for embedded references.
	images := []string{}
	if !redacted {
		images = ExtractImages(cb.Content)
	}
	return View{
		Codeblock: cb,
		Tier:      tier,
		Redacted:  redacted,
		Images:    images,
		HasImages: len(images) > 0,
		Visible:   visible,
	}
}
