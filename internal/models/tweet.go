package models

import (
	"time"

	"gorm.io/gorm"
)

// Tweet represents a timeline post in the Joker Club application.
type Tweet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Images    []string       `gorm:"serializer:json" json:"images,omitempty"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	IsPinned  bool           `gorm:"default:false;index" json:"is_pinned"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// LikesCount is not persisted; computed at query time.
	LikesCount int `gorm:"->" json:"likes_count"`
	// RetweetsCount is not persisted; computed at query time.
	RetweetsCount int `gorm:"->" json:"retweets_count"`
	// RepliesCount is not persisted; computed at query time.
	RepliesCount int `gorm:"->" json:"replies_count"`
	// HasLiked indicates whether the current requesting user liked this tweet (computed).
	HasLiked bool `gorm:"->" json:"has_liked"`
	// HasRetweeted indicates whether the current requesting user retweeted this tweet (computed).
	HasRetweeted bool `gorm:"->" json:"has_retweeted"`
}

// Reply represents a reply to a tweet.
type Reply struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TweetID   uint           `gorm:"not null;index" json:"tweet_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Tweet Tweet `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE" json:"-"`
}
