package models

import "time"

// Like represents a user's like on a tweet.
// The combination of UserID and TweetID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_tweet" json:"user_id"`
	TweetID   uint      `gorm:"not null;uniqueIndex:idx_like_user_tweet" json:"tweet_id"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Tweet Tweet `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE" json:"-"`
}

// Retweet represents a user's retweet of a tweet.
// The combination of UserID and TweetID must be unique.
type Retweet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_retweet_user_tweet" json:"user_id"`
	TweetID   uint      `gorm:"not null;uniqueIndex:idx_retweet_user_tweet" json:"tweet_id"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Tweet Tweet `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE" json:"-"`
}

// ToggleResult reports the outcome of a toggle interaction.
type ToggleResult string

const (
	ToggleResultLiked       ToggleResult = "liked"
	ToggleResultUnliked     ToggleResult = "unliked"
	ToggleResultRetweeted   ToggleResult = "retweeted"
	ToggleResultUnretweeted ToggleResult = "unretweeted"
	ToggleResultFollowed    ToggleResult = "followed"
	ToggleResultUnfollowed  ToggleResult = "unfollowed"
)

// IsActivation reports whether the result left the interaction on.
func (r ToggleResult) IsActivation() bool {
	switch r {
	case ToggleResultLiked, ToggleResultRetweeted, ToggleResultFollowed:
		return true
	}
	return false
}
