package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a marketplace item. Payment itself is a manual PIX QR-code
// flow; the product record only carries the payload the client renders.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	PriceCents  int64          `gorm:"not null" json:"price_cents"`
	Images      []string       `gorm:"serializer:json" json:"images,omitempty"`
	PixPayload  string         `json:"pix_payload,omitempty"`
	WhatsApp    string         `json:"whatsapp,omitempty"`
	IsPinned    bool           `gorm:"default:false;index" json:"is_pinned"`
	IsAvailable bool           `gorm:"default:true;index" json:"is_available"`
	CreatedBy   uint           `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
