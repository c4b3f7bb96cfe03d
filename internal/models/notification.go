package models

import "time"

// NotificationType identifies the social event a notification reports.
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeRetweet NotificationType = "retweet"
	NotificationTypeReply   NotificationType = "reply"
	NotificationTypeFollow  NotificationType = "follow"
)

// Notification is a persisted social event delivered to one user.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	ActorID   uint             `gorm:"not null" json:"actor_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	TweetID   *uint            `json:"tweet_id,omitempty"`
	Read      bool             `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time        `json:"created_at"`

	Actor User `gorm:"foreignKey:ActorID" json:"actor"`
}
