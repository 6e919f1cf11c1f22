package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/real-social-media/pillar/internal/clienterr"
	"github.com/real-social-media/pillar/internal/models"
	"github.com/real-social-media/pillar/internal/service"
)

// LikeAPI resolves the like ledger operations
type LikeAPI struct {
	likes *service.LikeService
}

// NewLikeAPI creates a new like API
func NewLikeAPI(likes *service.LikeService) *LikeAPI {
	return &LikeAPI{likes: likes}
}

// RegisterOperations registers the like operations on the dispatcher
func (a *LikeAPI) RegisterOperations(h *Handler) {
	h.Register("onymouslyLikePost", "onymouslyLikePost", a.OnymouslyLikePost)
	h.Register("anonymouslyLikePost", "anonymouslyLikePost", a.AnonymouslyLikePost)
	h.Register("dislikePost", "dislikePost", a.DislikePost)
}

type likeVars struct {
	PostID string `json:"postId"`
}

// OnymouslyLikePost records a like attributed to the caller
func (a *LikeAPI) OnymouslyLikePost(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	postID, err := decodeLikeVars(vars)
	if err != nil {
		return nil, err
	}
	return a.likes.Like(c.Request.Context(), callerID, postID, models.LikeModeOnymous)
}

// AnonymouslyLikePost records a like counted but never attributed
func (a *LikeAPI) AnonymouslyLikePost(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	postID, err := decodeLikeVars(vars)
	if err != nil {
		return nil, err
	}
	return a.likes.Like(c.Request.Context(), callerID, postID, models.LikeModeAnonymous)
}

// DislikePost removes the caller's like, whichever mode it was in
func (a *LikeAPI) DislikePost(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	postID, err := decodeLikeVars(vars)
	if err != nil {
		return nil, err
	}
	return a.likes.Dislike(c.Request.Context(), callerID, postID)
}

func decodeLikeVars(vars json.RawMessage) (string, error) {
	var v likeVars
	if err := decodeVars(vars, &v); err != nil {
		return "", err
	}
	if v.PostID == "" {
		return "", clienterr.Validationf("postId is required")
	}
	return v.PostID, nil
}
