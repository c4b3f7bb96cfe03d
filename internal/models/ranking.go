package models

import "time"

// RankedUser is a leaderboard row. TotalScore aggregates likes and retweets
// received on the user's tweets plus their follower count.
type RankedUser struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Avatar     string `json:"avatar_url"`
	IsVerified bool   `json:"is_verified"`
	TotalScore int    `json:"total_score"`
}

// PopularCodeblock is a catalog-ranking row. PopularityScore counts the
// access grants issued for the codeblock.
type PopularCodeblock struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Tag             string `gorm:"column:category" json:"tag"`
	PopularityScore int    `json:"popularity_score"`
}

// ActivityEntry is one row of the global recent-activity feed. TweetID is
// nil for follow events.
type ActivityEntry struct {
	ID            uint      `json:"id"`
	ActivityType  string    `json:"activity_type"`
	CreatedAt     time.Time `json:"created_at"`
	ActorID       uint      `json:"actor_id"`
	ActorUsername string    `json:"actor_username"`
	ActorFullName string    `json:"actor_full_name"`
	ActorAvatar   string    `json:"actor_avatar_url"`
	TweetID       *uint     `json:"tweet_id,omitempty"`
}

// Activity types carried by ActivityEntry.
const (
	ActivityLike    = "like"
	ActivityRetweet = "retweet"
	ActivityReply   = "reply"
	ActivityFollow  = "follow"
)
