package models

import (
	"time"
)

// Post represents a user post. postId is chosen by the client; the
// primary key makes reuse a uniqueness conflict.
type Post struct {
	ID            string     `gorm:"type:varchar(64);primaryKey;column:post_id"`
	OwnerID       string     `gorm:"type:varchar(64);not null;index;column:owner_id"`
	Text          string     `gorm:"type:text;column:text"`
	Status        string     `gorm:"type:varchar(16);not null;index;column:status"`
	LikesDisabled bool       `gorm:"not null;default:false;column:likes_disabled"`
	PostedAt      time.Time  `gorm:"not null;index;column:posted_at"`
	ExpiresAt     *time.Time `gorm:"index;column:expires_at"`

	// Relationships
	Owner *User   `gorm:"foreignKey:OwnerID;references:ID"`
	Media []Media `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// Post status constants
const (
	PostStatusPending  = "PENDING"
	PostStatusComplete = "COMPLETE"
	PostStatusArchived = "ARCHIVED"
	PostStatusDeleting = "DELETING"
)

// Expired reports whether the post's lifetime deadline has passed.
// Posts without a lifetime never expire.
func (p *Post) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// IsStory reports whether the post currently counts as a story:
// a COMPLETE post with a defined, unexpired lifetime.
func (p *Post) IsStory(now time.Time) bool {
	return p.Status == PostStatusComplete && p.ExpiresAt != nil && now.Before(*p.ExpiresAt)
}

// Listable reports whether the post appears in standard listings and
// feeds. DELETING and expired posts read as deleted everywhere.
func (p *Post) Listable(now time.Time) bool {
	return p.Status == PostStatusComplete && !p.Expired(now)
}
