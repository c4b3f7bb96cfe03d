package models

import (
	"time"

	"gorm.io/gorm"
)

// Codeblock is a shared content item with tiered visibility.
//
// The two flags encode three tiers: IsPublic=false is private (owner/admin
// only), IsPublic=true with IsBlurred=true is paid/blurred (redacted unless
// the viewer holds a grant), IsPublic=true with IsBlurred=false is fully
// public. IsBlurred is only meaningful when IsPublic is true.
type Codeblock struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Language    string         `json:"language,omitempty"`
	Category    string         `json:"category,omitempty"`
	Tags        []string       `gorm:"serializer:json" json:"tags,omitempty"`
	IsPublic    bool           `gorm:"default:true;index" json:"is_public"`
	IsBlurred   bool           `gorm:"default:false" json:"is_blurred"`
	CreatedBy   uint           `gorm:"not null;index" json:"created_by"`
	Creator     User           `gorm:"foreignKey:CreatedBy" json:"creator"`
	Links       []CodeblockLink `gorm:"foreignKey:CodeblockID;constraint:OnDelete:CASCADE" json:"links"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CodeblockLink is a named external link attached to a codeblock.
// Links are ordered by Position within their codeblock.
type CodeblockLink struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CodeblockID uint      `gorm:"not null;index" json:"codeblock_id"`
	Name        string    `json:"name"`
	URL         string    `gorm:"not null" json:"url"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// CodeblockGrant is an explicit per-user exception allowing a viewer to see
// an otherwise-blurred codeblock in full. At most one grant exists per
// (codeblock, user) pair. Grants never expire on their own and are removed
// with the codeblock.
type CodeblockGrant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CodeblockID uint      `gorm:"not null;uniqueIndex:idx_grant_codeblock_user" json:"codeblock_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_grant_codeblock_user" json:"user_id"`
	GrantedBy   uint      `gorm:"not null" json:"granted_by"`
	CreatedAt   time.Time `json:"created_at"`

	Codeblock Codeblock `gorm:"foreignKey:CodeblockID;constraint:OnDelete:CASCADE" json:"-"`
	// Grantee and Granter carry display identity for the moderation UI.
	Grantee User `gorm:"foreignKey:UserID" json:"grantee"`
	Granter User `gorm:"foreignKey:GrantedBy" json:"granter"`
}

// TableName specifies the table name for GORM.
func (CodeblockGrant) TableName() string {
	return "codeblock_grants"
}
