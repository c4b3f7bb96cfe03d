package models

import "time"

// Consulting session statuses.
const (
	SessionStatusPending   = "pending"
	SessionStatusConfirmed = "confirmed"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

// ConsultingSession is a booked one-on-one session between a club member and
// a consultant. Payment happens outside the platform, so a session only
// tracks scheduling state and the meeting link.
type ConsultingSession struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ClientID        uint      `gorm:"not null;index" json:"client_id"`
	ConsultantID    uint      `gorm:"not null;index" json:"consultant_id"`
	SessionTime     time.Time `gorm:"not null" json:"session_time"`
	DurationMinutes int       `gorm:"not null;default:60" json:"duration_minutes"`
	Status          string    `gorm:"type:varchar(32);not null;default:'pending'" json:"status"`
	MeetingLink     string    `json:"meeting_link"`
	ClientNotes     string    `gorm:"type:text" json:"client_notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Client     User `gorm:"foreignKey:ClientID" json:"client"`
	Consultant User `gorm:"foreignKey:ConsultantID" json:"consultant"`
}
