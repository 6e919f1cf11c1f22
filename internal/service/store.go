package service

import (
	"context"
	"errors"
	"time"

	"github.com/real-social-media/pillar/internal/models"
)

// ErrDuplicateEdge is returned by store implementations when an insert
// collides with an existing row on the primary key. Concurrent inserts
// for the same edge serialize on the key, so exactly one caller wins.
var ErrDuplicateEdge = errors.New("edge already exists")

// UserStore provides user row access
type UserStore interface {
	// GetUser returns nil, nil when the user does not exist
	GetUser(ctx context.Context, id string) (*models.User, error)
	// EnsureUser creates the user row on first authenticated login
	EnsureUser(ctx context.Context, id, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	// UserStats projects counts from the edge tables at read time
	UserStats(ctx context.Context, id string, now time.Time) (models.UserStats, error)
}

// BlockStore provides block edge access
type BlockStore interface {
	CreateBlock(ctx context.Context, block *models.Block) error
	// DeleteBlock reports whether an edge existed
	DeleteBlock(ctx context.Context, blockerID, blockedID string) (bool, error)
	IsBlocking(ctx context.Context, blockerID, blockedID string) (bool, error)
	// ListBlockedUsers returns blocked users, most recently blocked first
	ListBlockedUsers(ctx context.Context, blockerID string) ([]*models.User, error)
}

// FollowStore provides follow edge access
type FollowStore interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followedID string) (bool, error)
	// GetFollow returns nil, nil when no edge exists
	GetFollow(ctx context.Context, followerID, followedID string) (*models.Follow, error)
	// ListFollowerUsers returns users following userID with FOLLOWING status
	ListFollowerUsers(ctx context.Context, userID string) ([]*models.User, error)
	// ListFollowedUsers returns users userID follows with FOLLOWING status
	ListFollowedUsers(ctx context.Context, userID string) ([]*models.User, error)
	ListFollowerIDs(ctx context.Context, followedID string) ([]string, error)
	ListFollowedIDs(ctx context.Context, followerID string) ([]string, error)
}

// PostStore provides post and media access
type PostStore interface {
	// GetPost returns nil, nil when the post does not exist
	GetPost(ctx context.Context, id string) (*models.Post, error)
	// CreatePost atomically inserts the post and its media objects
	CreatePost(ctx context.Context, post *models.Post, media []*models.Media) error
	UpdatePost(ctx context.Context, post *models.Post) error
	// MarkPostDeleting flips the post and all attached media to DELETING
	// in a single transaction. Idempotent.
	MarkPostDeleting(ctx context.Context, postID string) error
	// ListPosts lists the owner's posts. An empty status selects listable
	// posts; DELETING posts are never returned.
	ListPosts(ctx context.Context, ownerID, status string, now time.Time) ([]*models.Post, error)
	// ListStories lists the owner's active stories, next to expire first
	ListStories(ctx context.Context, ownerID string, now time.Time) ([]*models.Post, error)
	// ListFeed lists listable posts by the given owners, reverse-chronological
	ListFeed(ctx context.Context, ownerIDs []string, now time.Time) ([]*models.Post, error)
	// ListMedia lists the owner's media objects; DELETING media is never returned
	ListMedia(ctx context.Context, ownerID, status string) ([]*models.Media, error)
	MediaForPost(ctx context.Context, postID string) ([]*models.Media, error)
	// ListExpiredPosts lists posts whose lifetime deadline has passed but
	// whose status has not converged to DELETING yet
	ListExpiredPosts(ctx context.Context, now time.Time, limit int) ([]*models.Post, error)
	// FollowedWithStories lists users the viewer follows that have at
	// least one active story, most recent story first
	FollowedWithStories(ctx context.Context, viewerID string, now time.Time) ([]*models.User, error)
}

// LikeStore provides like edge access
type LikeStore interface {
	// GetLike returns nil, nil when no edge exists, regardless of mode
	GetLike(ctx context.Context, postID, userID string) (*models.Like, error)
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, postID, userID string) (bool, error)
	LikeCounts(ctx context.Context, postID string) (onymous, anonymous int, err error)
	// ListOnymousLikers returns users that onymously liked the post,
	// earliest like first
	ListOnymousLikers(ctx context.Context, postID string) ([]*models.User, error)
	// ListLikedPosts returns listable posts the user liked in the given mode
	ListLikedPosts(ctx context.Context, userID, mode string, now time.Time) ([]*models.Post, error)
}

// Store is the full storage contract the services operate against
type Store interface {
	UserStore
	BlockStore
	FollowStore
	PostStore
	LikeStore
}
