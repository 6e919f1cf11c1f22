package models

import (
	"time"
)

// Like represents a like edge on a post. One edge per (post, user)
// regardless of mode; the mode is fixed at creation. Edges persist
// through likes-disabled windows and are destroyed only with the post.
type Like struct {
	PostID    string    `gorm:"type:varchar(64);primaryKey;column:post_id"`
	UserID    string    `gorm:"type:varchar(64);primaryKey;column:user_id"`
	Mode      string    `gorm:"type:varchar(16);not null;column:mode"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Post *Post `gorm:"foreignKey:PostID;references:ID"`
	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "likes"
}

// Like mode constants
const (
	LikeModeOnymous   = "ONYMOUS"
	LikeModeAnonymous = "ANONYMOUS"
)
