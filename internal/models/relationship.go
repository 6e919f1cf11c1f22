package models

import (
	"time"
)

// Block represents a directed block edge. The composite primary key
// guarantees at most one edge per ordered pair; concurrent inserts for
// the same pair serialize on it, so exactly one succeeds.
type Block struct {
	BlockerID string    `gorm:"type:varchar(64);primaryKey;column:blocker_id"`
	BlockedID string    `gorm:"type:varchar(64);primaryKey;column:blocked_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Blocker *User `gorm:"foreignKey:BlockerID;references:ID"`
	Blocked *User `gorm:"foreignKey:BlockedID;references:ID"`
}

// TableName specifies the table name for Block
func (Block) TableName() string {
	return "blocks"
}

// Follow represents a directed follow edge with a status.
type Follow struct {
	FollowerID string    `gorm:"type:varchar(64);primaryKey;column:follower_id"`
	FollowedID string    `gorm:"type:varchar(64);primaryKey;column:followed_id"`
	Status     string    `gorm:"type:varchar(16);not null;column:status"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower *User `gorm:"foreignKey:FollowerID;references:ID"`
	Followed *User `gorm:"foreignKey:FollowedID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}

// Follow status constants. Only FOLLOWING edges feed the feed/story
// projections and the follower/followed counts.
const (
	FollowStatusFollowing = "FOLLOWING"
	FollowStatusRequested = "REQUESTED"
	FollowStatusDenied    = "DENIED"
)
