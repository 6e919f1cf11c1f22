package models

import (
	"time"
)

// Media represents a media object attached to a post. Its lifecycle is
// a sub-state-machine driven by the parent post: deleting the post
// cascades DELETING onto every attached media object.
type Media struct {
	ID        string    `gorm:"type:varchar(64);primaryKey;column:media_id"`
	PostID    string    `gorm:"type:varchar(64);not null;index;column:post_id"`
	OwnerID   string    `gorm:"type:varchar(64);not null;index;column:owner_id"`
	Type      string    `gorm:"type:varchar(16);not null;column:media_type"`
	Status    string    `gorm:"type:varchar(16);not null;index;column:status"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Post *Post `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Media
func (Media) TableName() string {
	return "media_objects"
}

// Media type constants
const (
	MediaTypeImage = "IMAGE"
	MediaTypeVideo = "VIDEO"
)

// Media status constants
const (
	MediaStatusAwaitingUpload = "AWAITING_UPLOAD"
	MediaStatusProcessing     = "PROCESSING"
	MediaStatusUploaded       = "UPLOADED"
	MediaStatusArchived       = "ARCHIVED"
	MediaStatusDeleting       = "DELETING"
)
