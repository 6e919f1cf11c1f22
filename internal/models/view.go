package models

import (
	"time"
)

// View types are the client-facing projections of the entity models.
// Suppressible fields are pointers: nil serializes as JSON null, which
// is distinct from a legitimate zero.

// UserList wraps a page of user views
type UserList struct {
	Items []*UserView `json:"items"`
}

// PostList wraps a page of post views
type PostList struct {
	Items []*PostView `json:"items"`
}

// MediaList wraps a page of media views
type MediaList struct {
	Items []*MediaView `json:"items"`
}

// UserView is a per-viewer projection of a user
type UserView struct {
	UserID             string `json:"userId"`
	Username           string `json:"username,omitempty"`
	BlockedStatus      string `json:"blockedStatus,omitempty"`
	FollowedStatus     string `json:"followedStatus,omitempty"`
	FollowCountsHidden *bool  `json:"followCountsHidden"`
	LikesDisabled      *bool  `json:"likesDisabled"`
	CommentsDisabled   *bool  `json:"commentsDisabled"`
	SharingDisabled    *bool  `json:"sharingDisabled"`

	PostCount     *int `json:"postCount"`
	FollowerCount *int `json:"followerCount"`
	FollowedCount *int `json:"followedCount"`

	FollowerUsers *UserList `json:"followerUsers"`
	FollowedUsers *UserList `json:"followedUsers"`
	BlockedUsers  *UserList `json:"blockedUsers"`

	OnymouslyLikedPosts   *PostList `json:"onymouslyLikedPosts,omitempty"`
	AnonymouslyLikedPosts *PostList `json:"anonymouslyLikedPosts,omitempty"`
}

// PostView is a per-viewer projection of a post
type PostView struct {
	PostID        string       `json:"postId"`
	PostedBy      string       `json:"postedBy"`
	PostStatus    string       `json:"postStatus"`
	Text          string       `json:"text,omitempty"`
	PostedAt      time.Time    `json:"postedAt"`
	ExpiresAt     *time.Time   `json:"expiresAt"`
	LikesDisabled bool         `json:"likesDisabled"`
	MediaObjects  []*MediaView `json:"mediaObjects"`

	OnymousLikeCount   *int      `json:"onymousLikeCount"`
	AnonymousLikeCount *int      `json:"anonymousLikeCount"`
	OnymouslyLikedBy   *UserList `json:"onymouslyLikedBy"`
}

// MediaView is the projection of a media object
type MediaView struct {
	MediaID     string `json:"mediaId"`
	PostID      string `json:"postId"`
	MediaType   string `json:"mediaType"`
	MediaStatus string `json:"mediaStatus"`
}

// MediaViewOf projects a media object
func MediaViewOf(m *Media) *MediaView {
	return &MediaView{
		MediaID:     m.ID,
		PostID:      m.PostID,
		MediaType:   m.Type,
		MediaStatus: m.Status,
	}
}
