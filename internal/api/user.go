package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/real-social-media/pillar/internal/clienterr"
	"github.com/real-social-media/pillar/internal/service"
)

// UserAPI resolves the user and relationship operations
type UserAPI struct {
	users         *service.UserService
	relationships *service.RelationshipService
}

// NewUserAPI creates a new user API
func NewUserAPI(users *service.UserService, relationships *service.RelationshipService) *UserAPI {
	return &UserAPI{users: users, relationships: relationships}
}

// RegisterOperations registers the user operations on the dispatcher.
// Both settings mutations resolve under "setUserDetails".
func (a *UserAPI) RegisterOperations(h *Handler) {
	h.Register("self", "self", a.Self)
	h.Register("user", "user", a.User)
	h.Register("blockUser", "blockUser", a.BlockUser)
	h.Register("unblockUser", "unblockUser", a.UnblockUser)
	h.Register("followUser", "followUser", a.FollowUser)
	h.Register("unfollowUser", "unfollowUser", a.UnfollowUser)
	h.Register("setUserFollowCountsHidden", "setUserDetails", a.SetFollowCountsHidden)
	h.Register("setUserMentalHealthSettings", "setUserDetails", a.SetMentalHealthSettings)
}

type targetUserVars struct {
	UserID string `json:"userId"`
}

// Self returns the caller's own profile
func (a *UserAPI) Self(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	return a.users.Self(c.Request.Context(), callerID)
}

// User returns another user's profile, redacted for the caller
func (a *UserAPI) User(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v targetUserVars
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if v.UserID == "" {
		return nil, clienterr.Validationf("userId is required")
	}
	return a.users.User(c.Request.Context(), callerID, v.UserID)
}

// BlockUser blocks the target user
func (a *UserAPI) BlockUser(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v targetUserVars
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if v.UserID == "" {
		return nil, clienterr.Validationf("userId is required")
	}
	return a.relationships.Block(c.Request.Context(), callerID, v.UserID)
}

// UnblockUser unblocks the target user
func (a *UserAPI) UnblockUser(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v targetUserVars
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if v.UserID == "" {
		return nil, clienterr.Validationf("userId is required")
	}
	return a.relationships.Unblock(c.Request.Context(), callerID, v.UserID)
}

// FollowUser follows the target user
func (a *UserAPI) FollowUser(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v targetUserVars
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if v.UserID == "" {
		return nil, clienterr.Validationf("userId is required")
	}
	return a.relationships.Follow(c.Request.Context(), callerID, v.UserID)
}

// UnfollowUser unfollows the target user
func (a *UserAPI) UnfollowUser(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v targetUserVars
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if v.UserID == "" {
		return nil, clienterr.Validationf("userId is required")
	}
	return a.relationships.Unfollow(c.Request.Context(), callerID, v.UserID)
}

// SetFollowCountsHidden toggles the caller's follow-count privacy flag
func (a *UserAPI) SetFollowCountsHidden(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v struct {
		Value *bool `json:"value"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if v.Value == nil {
		return nil, clienterr.Validationf("value is required")
	}
	return a.users.SetFollowCountsHidden(c.Request.Context(), callerID, *v.Value)
}

// SetMentalHealthSettings applies the caller's account-level feature
// toggles; absent fields are left unchanged
func (a *UserAPI) SetMentalHealthSettings(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v struct {
		LikesDisabled    *bool `json:"likesDisabled"`
		CommentsDisabled *bool `json:"commentsDisabled"`
		SharingDisabled  *bool `json:"sharingDisabled"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if v.LikesDisabled == nil && v.CommentsDisabled == nil && v.SharingDisabled == nil {
		return nil, clienterr.Validationf("At least one setting is required")
	}
	return a.users.SetMentalHealthSettings(c.Request.Context(), callerID, service.MentalHealthSettings{
		LikesDisabled:    v.LikesDisabled,
		CommentsDisabled: v.CommentsDisabled,
		SharingDisabled:  v.SharingDisabled,
	})
}
