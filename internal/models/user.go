package models

import (
	"time"
)

// User represents a registered user. Rows are created on first
// authenticated login and are never hard-deleted.
type User struct {
	ID                 string    `gorm:"type:varchar(64);primaryKey;column:user_id"`
	Username           string    `gorm:"type:varchar(64);column:username"`
	FollowCountsHidden bool      `gorm:"not null;default:false;column:follow_counts_hidden"`
	LikesDisabled      bool      `gorm:"not null;default:false;column:likes_disabled"`
	CommentsDisabled   bool      `gorm:"not null;default:false;column:comments_disabled"`
	SharingDisabled    bool      `gorm:"not null;default:false;column:sharing_disabled"`
	CreatedAt          time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// UserStats holds counts projected from the edge tables at read time.
// Counts are never stored on the user row, so they cannot drift.
type UserStats struct {
	PostCount     int
	FollowerCount int
	FollowedCount int
}

// Blocked status values exposed on user views, relative to the viewer
const (
	BlockedStatusSelf        = "SELF"
	BlockedStatusBlocking    = "BLOCKING"
	BlockedStatusNotBlocking = "NOT_BLOCKING"
)

// Followed status values exposed on user views, relative to the viewer
const (
	FollowedStatusSelf         = "SELF"
	FollowedStatusFollowing    = "FOLLOWING"
	FollowedStatusNotFollowing = "NOT_FOLLOWING"
)
