package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache TTLs per key family. Access grants and roles are deliberately
// short-lived so revocations take effect quickly.
const (
	UserTTL      = 10 * time.Minute
	TweetTTL     = 5 * time.Minute
	ListTTL      = 30 * time.Second
	CodeblockTTL = 5 * time.Minute
	AccessTTL    = 5 * time.Minute
	RolesTTL     = 60 * time.Second
	RankingTTL   = 60 * time.Second
)

func UserKey(id uint) string { return fmt.Sprintf("user:%d", id) }

func TweetKey(id uint) string { return fmt.Sprintf("tweet:%d", id) }

func TweetsListKey(page, limit int) string { return fmt.Sprintf("tweets:%d:%d", page, limit) }

func CodeblockKey(id uint) string { return fmt.Sprintf("codeblock:%d", id) }

func CodeblocksListKey(category string) string { return fmt.Sprintf("codeblocks:%s", category) }

// AccessKey caches the outcome of a paid-content access check for a
// (codeblock, user) pair.
func AccessKey(codeblockID, userID uint) string {
	return fmt.Sprintf("cbaccess:%d:%d", codeblockID, userID)
}

func RolesKey(userID uint) string { return fmt.Sprintf("roles:%d", userID) }

func TopUsersKey(limit int) string { return fmt.Sprintf("rankings:users:%d", limit) }

func PopularCodeblocksKey(limit int) string { return fmt.Sprintf("rankings:codeblocks:%d", limit) }

// Invalidate removes the given keys. Best-effort, safe without a client.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateTweetsList removes all cached tweet list pages.
func InvalidateTweetsList(ctx context.Context) {
	deleteByPattern(ctx, "tweets:*")
}

func InvalidateTweet(ctx context.Context, id uint) {
	Invalidate(ctx, TweetKey(id))
	InvalidateTweetsList(ctx)
}

func InvalidateCodeblock(ctx context.Context, id uint) {
	Invalidate(ctx, CodeblockKey(id))
	deleteByPattern(ctx, "codeblocks:*")
}

// InvalidateAccess drops the cached access decision for one viewer. Used on
// grant and revoke so the change is visible immediately.
func InvalidateAccess(ctx context.Context, codeblockID, userID uint) {
	Invalidate(ctx, AccessKey(codeblockID, userID))
}

// InvalidateCodeblockAccess drops every cached access decision for a
// codeblock, e.g. when its visibility tier changes.
func InvalidateCodeblockAccess(ctx context.Context, codeblockID uint) {
	deleteByPattern(ctx, fmt.Sprintf("cbaccess:%d:*", codeblockID))
}

func InvalidateUserRoles(ctx context.Context, userID uint) {
	Invalidate(ctx, RolesKey(userID))
}

func deleteByPattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
