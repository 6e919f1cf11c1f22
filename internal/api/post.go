package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/real-social-media/pillar/internal/clienterr"
	"github.com/real-social-media/pillar/internal/service"
)

// PostAPI resolves the post lifecycle operations
type PostAPI struct {
	posts *service.PostService
}

// NewPostAPI creates a new post API
func NewPostAPI(posts *service.PostService) *PostAPI {
	return &PostAPI{posts: posts}
}

// RegisterOperations registers the post operations on the dispatcher
func (a *PostAPI) RegisterOperations(h *Handler) {
	h.Register("addPost", "addPost", a.AddPost)
	h.Register("editPost", "editPost", a.EditPost)
	h.Register("deletePost", "deletePost", a.DeletePost)
	h.Register("getPost", "getPost", a.GetPost)
	h.Register("getPosts", "getPosts", a.GetPosts)
	h.Register("getMediaObjects", "getMediaObjects", a.GetMediaObjects)
}

type mediaUploadVars struct {
	MediaID   string `json:"mediaId"`
	MediaType string `json:"mediaType"`
}

// AddPost creates a post, optionally with media uploads and a lifetime
func (a *PostAPI) AddPost(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v struct {
		PostID             string            `json:"postId"`
		Text               string            `json:"text"`
		Lifetime           string            `json:"lifetime"`
		LikesDisabled      bool              `json:"likesDisabled"`
		MediaObjectUploads []mediaUploadVars `json:"mediaObjectUploads"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if err := requireUUID("postId", v.PostID); err != nil {
		return nil, err
	}

	in := service.AddPostInput{
		PostID:        v.PostID,
		Text:          v.Text,
		Lifetime:      v.Lifetime,
		LikesDisabled: v.LikesDisabled,
	}
	for _, m := range v.MediaObjectUploads {
		if err := requireUUID("mediaId", m.MediaID); err != nil {
			return nil, err
		}
		in.Media = append(in.Media, service.MediaUpload{
			MediaID:   m.MediaID,
			MediaType: m.MediaType,
		})
	}
	return a.posts.AddPost(c.Request.Context(), callerID, in)
}

// EditPost updates the caller's post; absent fields are left unchanged
func (a *PostAPI) EditPost(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v struct {
		PostID        string  `json:"postId"`
		Text          *string `json:"text"`
		LikesDisabled *bool   `json:"likesDisabled"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if v.PostID == "" {
		return nil, clienterr.Validationf("postId is required")
	}
	if v.Text == nil && v.LikesDisabled == nil {
		return nil, clienterr.Validationf("At least one field is required")
	}
	return a.posts.EditPost(c.Request.Context(), callerID, v.PostID, service.EditPostInput{
		Text:          v.Text,
		LikesDisabled: v.LikesDisabled,
	})
}

// DeletePost transitions the caller's post to DELETING
func (a *PostAPI) DeletePost(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v struct {
		PostID string `json:"postId"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if v.PostID == "" {
		return nil, clienterr.Validationf("postId is required")
	}
	return a.posts.DeletePost(c.Request.Context(), callerID, v.PostID)
}

// GetPost returns a single post
func (a *PostAPI) GetPost(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v struct {
		PostID string `json:"postId"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	if v.PostID == "" {
		return nil, clienterr.Validationf("postId is required")
	}
	return a.posts.GetPost(c.Request.Context(), callerID, v.PostID)
}

// GetPosts lists the caller's posts, optionally filtered by status
func (a *PostAPI) GetPosts(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v struct {
		PostStatus string `json:"postStatus"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	return a.posts.GetPosts(c.Request.Context(), callerID, v.PostStatus)
}

// GetMediaObjects lists the caller's media, optionally filtered by status
func (a *PostAPI) GetMediaObjects(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error) {
	var v struct {
		MediaStatus string `json:"mediaStatus"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	return a.posts.GetMediaObjects(c.Request.Context(), callerID, v.MediaStatus)
}

func requireUUID(field, value string) error {
	if value == "" {
		return clienterr.Validationf("%s is required", field)
	}
	if _, err := uuid.Parse(value); err != nil {
		return clienterr.Validationf("%s %q is not a valid UUID", field, value)
	}
	return nil
}
