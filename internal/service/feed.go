package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/real-social-media/pillar/internal/models"
	"github.com/real-social-media/pillar/pkg/logging"
)

// feedCacheTTL bounds staleness for viewers whose feed was not
// explicitly invalidated (e.g. an author they follow was swept).
const feedCacheTTL = 30 * time.Second

// FeedCache caches raw feed projections per viewer. Implementations
// must tolerate a nil receiver (cache disabled).
type FeedCache interface {
	GetFeed(ctx context.Context, viewerID string) ([]byte, bool)
	SetFeed(ctx context.Context, viewerID string, payload []byte, ttl time.Duration)
	InvalidateFeeds(ctx context.Context, viewerIDs []string)
}

// FeedService derives the per-follower feed and story projections from
// the post and follow ledgers.
type FeedService struct {
	store  Store
	vis    *Visibility
	cache  FeedCache
	logger *zap.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(store Store, vis *Visibility, cache FeedCache) *FeedService {
	return &FeedService{
		store:  store,
		vis:    vis,
		cache:  cache,
		logger: logging.WithComponent("feed"),
	}
}

// GetFeed returns listable posts from all users the viewer follows,
// reverse-chronological. The raw projection is cached per viewer;
// views are always computed fresh since they are viewer-dependent.
func (s *FeedService) GetFeed(ctx context.Context, viewerID string) (*models.PostList, error) {
	now := time.Now().UTC()

	posts, ok := s.cachedFeed(ctx, viewerID)
	if !ok {
		followedIDs, err := s.store.ListFollowedIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		posts, err = s.store.ListFeed(ctx, followedIDs, now)
		if err != nil {
			return nil, err
		}
		s.storeFeed(ctx, viewerID, posts)
	}

	list := &models.PostList{Items: []*models.PostView{}}
	for _, p := range posts {
		// Cached entries may have expired or been deleted since caching
		if !p.Listable(now) {
			continue
		}
		view, err := s.vis.PostView(ctx, viewerID, p)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, view)
	}
	return list, nil
}

// GetStories returns the owner's active stories, next to expire first
func (s *FeedService) GetStories(ctx context.Context, ownerID string) (*models.PostList, error) {
	posts, err := s.store.ListStories(ctx, ownerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	list := &models.PostList{Items: []*models.PostView{}}
	for _, p := range posts {
		view, err := s.vis.PostView(ctx, ownerID, p)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, view)
	}
	return list, nil
}

// GetFollowedUsersWithStories returns followed users that currently
// have at least one active story, most recent story first
func (s *FeedService) GetFollowedUsersWithStories(ctx context.Context, viewerID string) (*models.UserList, error) {
	users, err := s.store.FollowedWithStories(ctx, viewerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return shallowUserList(users), nil
}

// InvalidateAuthor drops the cached feeds of everyone following the
// author. Called after the author adds or deletes a listable post.
func (s *FeedService) InvalidateAuthor(ctx context.Context, authorID string) {
	if s.cache == nil {
		return
	}
	followerIDs, err := s.store.ListFollowerIDs(ctx, authorID)
	if err != nil {
		s.logger.Warn("Failed to list followers for feed invalidation",
			zap.String("authorId", authorID), zap.Error(err))
		return
	}
	s.cache.InvalidateFeeds(ctx, followerIDs)
}

// InvalidateViewer drops the viewer's own cached feed. Called after
// the viewer follows or unfollows someone.
func (s *FeedService) InvalidateViewer(ctx context.Context, viewerID string) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateFeeds(ctx, []string{viewerID})
}

func (s *FeedService) cachedFeed(ctx context.Context, viewerID string) ([]*models.Post, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, ok := s.cache.GetFeed(ctx, viewerID)
	if !ok {
		return nil, false
	}
	var posts []*models.Post
	if err := json.Unmarshal(payload, &posts); err != nil {
		s.logger.Warn("Discarding undecodable cached feed",
			zap.String("viewerId", viewerID), zap.Error(err))
		return nil, false
	}
	return posts, true
}

func (s *FeedService) storeFeed(ctx context.Context, viewerID string, posts []*models.Post) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(posts)
	if err != nil {
		return
	}
	s.cache.SetFeed(ctx, viewerID, payload, feedCacheTTL)
}
