package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/real-social-media/pillar/internal/service"
)

// FeedAPI resolves the feed and story projections
type FeedAPI struct {
	feeds *service.FeedService
}

// NewFeedAPI creates a new feed API
func NewFeedAPI(feeds *service.FeedService) *FeedAPI {
	return &FeedAPI{feeds: feeds}
}

// RegisterOperations registers the feed operations on the dispatcher
func (a *FeedAPI) RegisterOperations(h *Handler) {
	h.Register("getFeed", "getFeed", a.GetFeed)
	h.Register("getStories", "getStories", a.GetStories)
	h.Register("getFollowedUsersWithStories", "getFollowedUsersWithStories", a.GetFollowedUsersWithStories)
}

// GetFeed returns the caller's feed, newest first
func (a *FeedAPI) GetFeed(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	return a.feeds.GetFeed(c.Request.Context(), callerID)
}

// GetStories returns a user's active stories, next to expire first.
// Defaults to the caller's own stories when userId is absent.
func (a *FeedAPI) GetStories(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v struct {
		UserID string `json:"userId"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	ownerID := v.UserID
	if ownerID == "" {
		ownerID = callerID
	}
	return a.feeds.GetStories(c.Request.Context(), ownerID)
}

// GetFollowedUsersWithStories returns followed users that currently
// have an active story, most recent story first
func (a *FeedAPI) GetFollowedUsersWithStories(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	return a.feeds.GetFollowedUsersWithStories(c.Request.Context(), callerID)
}
