package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/real-social-media/pillar/internal/models"
)

// memStore is an in-memory Store used by the service tests. It mirrors
// the relational implementation's semantics: composite-key uniqueness,
// read-time count projections and the listability filters.
type memStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	blocks  []*models.Block
	follows []*models.Follow
	posts   []*models.Post
	media   []*models.Media
	likes   []*models.Like
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*models.User)}
}

var _ Store = (*memStore)(nil)

func (m *memStore) addUser(id string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: id, Username: id, CreatedAt: time.Now().UTC()}
	m.users[id] = u
	return u
}

func (m *memStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) EnsureUser(ctx context.Context, id, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	u := &models.User{ID: id, Username: username, CreatedAt: time.Now().UTC()}
	m.users[id] = u
	cp := *u
	return &cp, nil
}

func (m *memStore) UpdateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) UserStats(ctx context.Context, id string, now time.Time) (models.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats models.UserStats
	for _, p := range m.posts {
		if p.OwnerID == id && p.Listable(now) {
			stats.PostCount++
		}
	}
	for _, f := range m.follows {
		if f.Status != models.FollowStatusFollowing {
			continue
		}
		if f.FollowedID == id {
			stats.FollowerCount++
		}
		if f.FollowerID == id {
			stats.FollowedCount++
		}
	}
	return stats, nil
}

func (m *memStore) CreateBlock(ctx context.Context, block *models.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blocks {
		if b.BlockerID == block.BlockerID && b.BlockedID == block.BlockedID {
			return ErrDuplicateEdge
		}
	}
	cp := *block
	m.blocks = append(m.blocks, &cp)
	return nil
}

func (m *memStore) DeleteBlock(ctx context.Context, blockerID, blockedID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			m.blocks = append(m.blocks[:i], m.blocks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) IsBlocking(ctx context.Context, blockerID, blockedID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListBlockedUsers(ctx context.Context, blockerID string) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []*models.User
	// most recently blocked first
	for i := len(m.blocks) - 1; i >= 0; i-- {
		b := m.blocks[i]
		if b.BlockerID == blockerID {
			if u, ok := m.users[b.BlockedID]; ok {
				cp := *u
				users = append(users, &cp)
			}
		}
	}
	return users, nil
}

func (m *memStore) CreateFollow(ctx context.Context, follow *models.Follow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.follows {
		if f.FollowerID == follow.FollowerID && f.FollowedID == follow.FollowedID {
			return ErrDuplicateEdge
		}
	}
	cp := *follow
	m.follows = append(m.follows, &cp)
	return nil
}

func (m *memStore) DeleteFollow(ctx context.Context, followerID, followedID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			m.follows = append(m.follows[:i], m.follows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) GetFollow(ctx context.Context, followerID, followedID string) (*models.Follow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListFollowerUsers(ctx context.Context, userID string) ([]*models.User, error) {
	ids, _ := m.ListFollowerIDs(ctx, userID)
	return m.usersByIDs(ids), nil
}

func (m *memStore) ListFollowedUsers(ctx context.Context, userID string) ([]*models.User, error) {
	ids, _ := m.ListFollowedIDs(ctx, userID)
	return m.usersByIDs(ids), nil
}

func (m *memStore) ListFollowerIDs(ctx context.Context, followedID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, f := range m.follows {
		if f.FollowedID == followedID && f.Status == models.FollowStatusFollowing {
			ids = append(ids, f.FollowerID)
		}
	}
	return ids, nil
}

func (m *memStore) ListFollowedIDs(ctx context.Context, followerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, f := range m.follows {
		if f.FollowerID == followerID && f.Status == models.FollowStatusFollowing {
			ids = append(ids, f.FollowedID)
		}
	}
	return ids, nil
}

func (m *memStore) usersByIDs(ids []string) []*models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			cp := *u
			users = append(users, &cp)
		}
	}
	return users
}

func (m *memStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreatePost(ctx context.Context, post *models.Post, media []*models.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == post.ID {
			return ErrDuplicateEdge
		}
	}
	cp := *post
	m.posts = append(m.posts, &cp)
	for _, mo := range media {
		mc := *mo
		m.media = append(m.media, &mc)
	}
	return nil
}

func (m *memStore) UpdatePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.ID == post.ID {
			cp := *post
			m.posts[i] = &cp
			return nil
		}
	}
	return nil
}

func (m *memStore) MarkPostDeleting(ctx context.Context, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == postID {
			p.Status = models.PostStatusDeleting
		}
	}
	for _, mo := range m.media {
		if mo.PostID == postID {
			mo.Status = models.MediaStatusDeleting
		}
	}
	return nil
}

func (m *memStore) ListPosts(ctx context.Context, ownerID, status string, now time.Time) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []*models.Post
	for _, p := range m.posts {
		if p.OwnerID != ownerID || p.Status == models.PostStatusDeleting || p.Expired(now) {
			continue
		}
		if status == "" {
			if p.Status != models.PostStatusComplete {
				continue
			}
		} else if p.Status != status {
			continue
		}
		cp := *p
		posts = append(posts, &cp)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].PostedAt.After(posts[j].PostedAt)
	})
	return posts, nil
}

func (m *memStore) ListStories(ctx context.Context, ownerID string, now time.Time) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []*models.Post
	for _, p := range m.posts {
		if p.OwnerID == ownerID && p.IsStory(now) {
			cp := *p
			posts = append(posts, &cp)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ExpiresAt.Before(*posts[j].ExpiresAt)
	})
	return posts, nil
}

func (m *memStore) ListFeed(ctx context.Context, ownerIDs []string, now time.Time) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owners := make(map[string]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}
	var posts []*models.Post
	for _, p := range m.posts {
		if owners[p.OwnerID] && p.Listable(now) {
			cp := *p
			posts = append(posts, &cp)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].PostedAt.After(posts[j].PostedAt)
	})
	return posts, nil
}

func (m *memStore) ListMedia(ctx context.Context, ownerID, status string) ([]*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var media []*models.Media
	for _, mo := range m.media {
		if mo.OwnerID != ownerID || mo.Status == models.MediaStatusDeleting {
			continue
		}
		if status != "" && mo.Status != status {
			continue
		}
		cp := *mo
		media = append(media, &cp)
	}
	return media, nil
}

func (m *memStore) MediaForPost(ctx context.Context, postID string) ([]*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var media []*models.Media
	for _, mo := range m.media {
		if mo.PostID == postID {
			cp := *mo
			media = append(media, &cp)
		}
	}
	return media, nil
}

func (m *memStore) ListExpiredPosts(ctx context.Context, now time.Time, limit int) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []*models.Post
	for _, p := range m.posts {
		if p.Status != models.PostStatusDeleting && p.Expired(now) {
			cp := *p
			posts = append(posts, &cp)
			if len(posts) == limit {
				break
			}
		}
	}
	return posts, nil
}

func (m *memStore) FollowedWithStories(ctx context.Context, viewerID string, now time.Time) ([]*models.User, error) {
	followedIDs, _ := m.ListFollowedIDs(ctx, viewerID)

	m.mu.Lock()
	defer m.mu.Unlock()
	latest := make(map[string]time.Time)
	for _, id := range followedIDs {
		for _, p := range m.posts {
			if p.OwnerID != id || !p.IsStory(now) {
				continue
			}
			if p.PostedAt.After(latest[id]) {
				latest[id] = p.PostedAt
			}
		}
	}
	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return latest[ids[i]].After(latest[ids[j]])
	})
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			cp := *u
			users = append(users, &cp)
		}
	}
	return users, nil
}

func (m *memStore) GetLike(ctx context.Context, postID, userID string) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.likes {
		if l.PostID == postID && l.UserID == userID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateLike(ctx context.Context, like *models.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.likes {
		if l.PostID == like.PostID && l.UserID == like.UserID {
			return ErrDuplicateEdge
		}
	}
	cp := *like
	m.likes = append(m.likes, &cp)
	return nil
}

func (m *memStore) DeleteLike(ctx context.Context, postID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.likes {
		if l.PostID == postID && l.UserID == userID {
			m.likes = append(m.likes[:i], m.likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) LikeCounts(ctx context.Context, postID string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var onymous, anonymous int
	for _, l := range m.likes {
		if l.PostID != postID {
			continue
		}
		if l.Mode == models.LikeModeOnymous {
			onymous++
		} else {
			anonymous++
		}
	}
	return onymous, anonymous, nil
}

func (m *memStore) ListOnymousLikers(ctx context.Context, postID string) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []*models.User
	// insertion order is like order, earliest first
	for _, l := range m.likes {
		if l.PostID == postID && l.Mode == models.LikeModeOnymous {
			if u, ok := m.users[l.UserID]; ok {
				cp := *u
				users = append(users, &cp)
			}
		}
	}
	return users, nil
}

func (m *memStore) ListLikedPosts(ctx context.Context, userID, mode string, now time.Time) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []*models.Post
	for _, l := range m.likes {
		if l.UserID != userID || l.Mode != mode {
			continue
		}
		for _, p := range m.posts {
			if p.ID == l.PostID && p.Listable(now) {
				cp := *p
				posts = append(posts, &cp)
			}
		}
	}
	return posts, nil
}
