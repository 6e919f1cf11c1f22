package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/real-social-media/pillar/internal/models"
	"github.com/real-social-media/pillar/internal/service"
)

// Store is the gorm-backed implementation of the service storage
// contract. Uniqueness rides on the composite primary keys: concurrent
// inserts for the same edge serialize in postgres and the loser gets a
// duplicate-key error, surfaced as service.ErrDuplicateEdge.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ service.Store = (*Store)(nil)

// GetUser retrieves a user by ID, nil when absent
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUser creates the user row on first authenticated login
func (s *Store) EnsureUser(ctx context.Context, id, username string) (*models.User, error) {
	user := &models.User{
		ID:        id,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Create(user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// UpdateUser persists user flag changes
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

// UserStats projects counts from the edge tables
func (s *Store) UserStats(ctx context.Context, id string, now time.Time) (models.UserStats, error) {
	var stats models.UserStats
	var count int64

	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("owner_id = ? AND status = ?", id, models.PostStatusComplete).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Count(&count).Error
	if err != nil {
		return stats, err
	}
	stats.PostCount = int(count)

	err = s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ? AND status = ?", id, models.FollowStatusFollowing).
		Count(&count).Error
	if err != nil {
		return stats, err
	}
	stats.FollowerCount = int(count)

	err = s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", id, models.FollowStatusFollowing).
		Count(&count).Error
	if err != nil {
		return stats, err
	}
	stats.FollowedCount = int(count)

	return stats, nil
}

// CreateBlock inserts a block edge
func (s *Store) CreateBlock(ctx context.Context, block *models.Block) error {
	return translateDuplicate(s.db.WithContext(ctx).Create(block).Error)
}

// DeleteBlock removes a block edge, reporting whether it existed
func (s *Store) DeleteBlock(ctx context.Context, blockerID, blockedID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	return res.RowsAffected > 0, res.Error
}

// IsBlocking reports whether blocker has blocked blocked
func (s *Store) IsBlocking(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

// ListBlockedUsers returns blocked users, most recently blocked first
func (s *Store) ListBlockedUsers(ctx context.Context, blockerID string) ([]*models.User, error) {
	var users []*models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN blocks ON blocks.blocked_id = users.user_id").
		Where("blocks.blocker_id = ?", blockerID).
		Order("blocks.created_at DESC").
		Find(&users).Error
	return users, err
}

// CreateFollow inserts a follow edge
func (s *Store) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return translateDuplicate(s.db.WithContext(ctx).Create(follow).Error)
}

// DeleteFollow removes a follow edge, reporting whether it existed
func (s *Store) DeleteFollow(ctx context.Context, followerID, followedID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	return res.RowsAffected > 0, res.Error
}

// GetFollow retrieves a follow edge, nil when absent
func (s *Store) GetFollow(ctx context.Context, followerID, followedID string) (*models.Follow, error) {
	var follow models.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&follow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &follow, nil
}

// ListFollowerUsers returns users following userID
func (s *Store) ListFollowerUsers(ctx context.Context, userID string) ([]*models.User, error) {
	var users []*models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.user_id").
		Where("follows.followed_id = ? AND follows.status = ?", userID, models.FollowStatusFollowing).
		Order("follows.created_at DESC").
		Find(&users).Error
	return users, err
}

// ListFollowedUsers returns users userID follows
func (s *Store) ListFollowedUsers(ctx context.Context, userID string) ([]*models.User, error) {
	var users []*models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.followed_id = users.user_id").
		Where("follows.follower_id = ? AND follows.status = ?", userID, models.FollowStatusFollowing).
		Order("follows.created_at DESC").
		Find(&users).Error
	return users, err
}

// ListFollowerIDs returns IDs of users following followedID
func (s *Store) ListFollowerIDs(ctx context.Context, followedID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ? AND status = ?", followedID, models.FollowStatusFollowing).
		Pluck("follower_id", &ids).Error
	return ids, err
}

// ListFollowedIDs returns IDs of users followerID follows
func (s *Store) ListFollowedIDs(ctx context.Context, followerID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", followerID, models.FollowStatusFollowing).
		Pluck("followed_id", &ids).Error
	return ids, err
}

// GetPost retrieves a post by ID, nil when absent
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "post_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// CreatePost atomically inserts the post and its media objects
func (s *Store) CreatePost(ctx context.Context, post *models.Post, media []*models.Media) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for _, m := range media {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateDuplicate(err)
}

// UpdatePost persists post field changes
func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Save(post).Error
}

// MarkPostDeleting flips the post and its media to DELETING in one
// transaction, so no reader observes a partial cascade
func (s *Store) MarkPostDeleting(ctx context.Context, postID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Post{}).
			Where("post_id = ?", postID).
			Update("status", models.PostStatusDeleting).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Media{}).
			Where("post_id = ?", postID).
			Update("status", models.MediaStatusDeleting).Error
	})
}

// ListPosts lists the owner's posts, newest first
func (s *Store) ListPosts(ctx context.Context, ownerID, status string, now time.Time) ([]*models.Post, error) {
	q := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("status <> ?", models.PostStatusDeleting).
		Where("expires_at IS NULL OR expires_at > ?", now)
	if status != "" {
		q = q.Where("status = ?", status)
	} else {
		q = q.Where("status = ?", models.PostStatusComplete)
	}

	var posts []*models.Post
	err := q.Order("posted_at DESC").Find(&posts).Error
	return posts, err
}

// ListStories lists the owner's active stories, next to expire first
func (s *Store) ListStories(ctx context.Context, ownerID string, now time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, models.PostStatusComplete).
		Where("expires_at IS NOT NULL AND expires_at > ?", now).
		Order("expires_at ASC").
		Find(&posts).Error
	return posts, err
}

// ListFeed lists listable posts by the given owners, newest first
func (s *Store) ListFeed(ctx context.Context, ownerIDs []string, now time.Time) ([]*models.Post, error) {
	if len(ownerIDs) == 0 {
		return []*models.Post{}, nil
	}
	var posts []*models.Post
	err := s.db.WithContext(ctx).
		Where("owner_id IN ?", ownerIDs).
		Where("status = ?", models.PostStatusComplete).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("posted_at DESC").
		Find(&posts).Error
	return posts, err
}

// ListMedia lists the owner's media objects
func (s *Store) ListMedia(ctx context.Context, ownerID, status string) ([]*models.Media, error) {
	q := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("status <> ?", models.MediaStatusDeleting)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var media []*models.Media
	err := q.Order("created_at ASC").Find(&media).Error
	return media, err
}

// MediaForPost lists the media objects attached to a post
func (s *Store) MediaForPost(ctx context.Context, postID string) ([]*models.Media, error) {
	var media []*models.Media
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&media).Error
	return media, err
}

// ListExpiredPosts lists posts past their lifetime deadline that have
// not converged to DELETING yet
func (s *Store) ListExpiredPosts(ctx context.Context, now time.Time, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Where("status <> ?", models.PostStatusDeleting).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// FollowedWithStories lists followed users with at least one active
// story, most recent story first
func (s *Store) FollowedWithStories(ctx context.Context, viewerID string, now time.Time) ([]*models.User, error) {
	var users []*models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.followed_id = users.user_id").
		Joins("JOIN posts ON posts.owner_id = users.user_id").
		Where("follows.follower_id = ? AND follows.status = ?", viewerID, models.FollowStatusFollowing).
		Where("posts.status = ?", models.PostStatusComplete).
		Where("posts.expires_at IS NOT NULL AND posts.expires_at > ?", now).
		Group("users.user_id").
		Order("MAX(posts.posted_at) DESC").
		Find(&users).Error
	return users, err
}

// GetLike retrieves a like edge, nil when absent
func (s *Store) GetLike(ctx context.Context, postID, userID string) (*models.Like, error) {
	var like models.Like
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

// CreateLike inserts a like edge
func (s *Store) CreateLike(ctx context.Context, like *models.Like) error {
	return translateDuplicate(s.db.WithContext(ctx).Create(like).Error)
}

// DeleteLike removes a like edge, reporting whether it existed
func (s *Store) DeleteLike(ctx context.Context, postID, userID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	return res.RowsAffected > 0, res.Error
}

// LikeCounts counts like edges on a post per mode
func (s *Store) LikeCounts(ctx context.Context, postID string) (int, int, error) {
	var onymous, anonymous int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND mode = ?", postID, models.LikeModeOnymous).
		Count(&onymous).Error
	if err != nil {
		return 0, 0, err
	}
	err = s.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND mode = ?", postID, models.LikeModeAnonymous).
		Count(&anonymous).Error
	if err != nil {
		return 0, 0, err
	}
	return int(onymous), int(anonymous), nil
}

// ListOnymousLikers returns users that onymously liked the post
func (s *Store) ListOnymousLikers(ctx context.Context, postID string) ([]*models.User, error) {
	var users []*models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN likes ON likes.user_id = users.user_id").
		Where("likes.post_id = ? AND likes.mode = ?", postID, models.LikeModeOnymous).
		Order("likes.created_at ASC").
		Find(&users).Error
	return users, err
}

// ListLikedPosts returns listable posts the user liked in the given
// mode. Deleted and expired posts drop out of the projection without
// their edges being purged.
func (s *Store) ListLikedPosts(ctx context.Context, userID, mode string, now time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN likes ON likes.post_id = posts.post_id").
		Where("likes.user_id = ? AND likes.mode = ?", userID, mode).
		Where("posts.status = ?", models.PostStatusComplete).
		Where("posts.expires_at IS NULL OR posts.expires_at > ?", now).
		Order("likes.created_at DESC").
		Find(&posts).Error
	return posts, err
}

func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return service.ErrDuplicateEdge
	}
	return err
}
