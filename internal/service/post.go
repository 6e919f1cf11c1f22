package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/real-social-media/pillar/internal/clienterr"
	"github.com/real-social-media/pillar/internal/models"
	"github.com/real-social-media/pillar/pkg/logging"
)

// FeedInvalidator drops cached feed projections after a mutation so
// the next read observes the change.
type FeedInvalidator interface {
	// InvalidateAuthor drops the cached feeds of the author's followers
	InvalidateAuthor(ctx context.Context, authorID string)
	// InvalidateViewer drops the viewer's own cached feed
	InvalidateViewer(ctx context.Context, viewerID string)
}

// PostService is the post lifecycle manager: PENDING → COMPLETE →
// ARCHIVED → DELETING, with media sub-states driven by the parent post.
type PostService struct {
	store  Store
	vis    *Visibility
	feeds  FeedInvalidator
	logger *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(store Store, vis *Visibility, feeds FeedInvalidator) *PostService {
	return &PostService{
		store:  store,
		vis:    vis,
		feeds:  feeds,
		logger: logging.WithComponent("post"),
	}
}

// MediaUpload describes a media object attached to a new post
type MediaUpload struct {
	MediaID   string
	MediaType string
}

// AddPostInput carries the addPost arguments
type AddPostInput struct {
	PostID        string
	Text          string
	Media         []MediaUpload
	Lifetime      string
	LikesDisabled bool
}

// EditPostInput carries the editPost arguments; only non-nil fields
// are applied
type EditPostInput struct {
	Text          *string
	LikesDisabled *bool
}

// AddPost creates a post. Text-only posts enter COMPLETE directly;
// posts with media start PENDING with media AWAITING_UPLOAD.
func (s *PostService) AddPost(ctx context.Context, callerID string, in AddPostInput) (*models.PostView, error) {
	if in.PostID == "" {
		return nil, clienterr.Validationf("postId is required")
	}
	if in.Text == "" && len(in.Media) == 0 {
		return nil, clienterr.Validationf("Cannot add a post with no content")
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:            in.PostID,
		OwnerID:       callerID,
		Text:          in.Text,
		Status:        models.PostStatusComplete,
		LikesDisabled: in.LikesDisabled,
		PostedAt:      now,
	}

	if in.Lifetime != "" {
		d, err := models.ParseLifetime(in.Lifetime)
		if err != nil {
			return nil, clienterr.Validationf("Invalid lifetime %q", in.Lifetime)
		}
		expiresAt := now.Add(d)
		post.ExpiresAt = &expiresAt
	}

	var media []*models.Media
	if len(in.Media) > 0 {
		post.Status = models.PostStatusPending
		for _, m := range in.Media {
			if m.MediaID == "" {
				return nil, clienterr.Validationf("mediaId is required")
			}
			mediaType := m.MediaType
			if mediaType == "" {
				mediaType = models.MediaTypeImage
			}
			media = append(media, &models.Media{
				ID:        m.MediaID,
				PostID:    in.PostID,
				OwnerID:   callerID,
				Type:      mediaType,
				Status:    models.MediaStatusAwaitingUpload,
				CreatedAt: now,
			})
		}
	}

	err := s.store.CreatePost(ctx, post, media)
	if errors.Is(err, ErrDuplicateEdge) {
		return nil, clienterr.Conflictf("Post %s already exists", in.PostID)
	}
	if err != nil {
		return nil, err
	}

	if post.Status == models.PostStatusComplete && s.feeds != nil {
		s.feeds.InvalidateAuthor(ctx, callerID)
	}

	s.logger.Info("Post added",
		zap.String("postId", post.ID),
		zap.String("ownerId", callerID),
		zap.String("status", post.Status))

	return s.vis.PostView(ctx, callerID, post)
}

// EditPost updates post fields. Only the owner may edit. Toggling
// likesDisabled never touches the underlying like edges.
func (s *PostService) EditPost(ctx context.Context, callerID, postID string, in EditPostInput) (*models.PostView, error) {
	post, err := s.requirePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != callerID {
		return nil, clienterr.Forbiddenf("Cannot edit another User's post")
	}

	if in.Text != nil {
		post.Text = *in.Text
	}
	if in.LikesDisabled != nil {
		post.LikesDisabled = *in.LikesDisabled
	}
	if err := s.store.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("Post edited", zap.String("postId", postID))

	return s.vis.PostView(ctx, callerID, post)
}

// DeletePost transitions the post to DELETING. The cascade (media
// statuses, count and listing removal, like-list removal) is complete
// before the call returns; no reader observes a partial cascade.
func (s *PostService) DeletePost(ctx context.Context, callerID, postID string) (*models.PostView, error) {
	post, err := s.requirePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != callerID {
		return nil, clienterr.Forbiddenf("Cannot delete another User's post")
	}

	if err := s.store.MarkPostDeleting(ctx, postID); err != nil {
		return nil, err
	}
	post.Status = models.PostStatusDeleting

	if s.feeds != nil {
		s.feeds.InvalidateAuthor(ctx, callerID)
	}

	s.logger.Info("Post deleted",
		zap.String("postId", postID),
		zap.String("ownerId", callerID))

	// Like projections are gone with the post; return the bare view
	// with the cascaded media statuses.
	view := shallowPostView(post)
	media, err := s.store.MediaForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for _, m := range media {
		view.MediaObjects = append(view.MediaObjects, models.MediaViewOf(m))
	}
	return view, nil
}

// GetPost returns a single post view. DELETING and expired posts read
// as nonexistent.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID string) (*models.PostView, error) {
	post, err := s.requirePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.vis.PostView(ctx, viewerID, post)
}

// GetPosts lists the caller's own posts, optionally filtered by
// status. DELETING posts are excluded even when requested explicitly.
func (s *PostService) GetPosts(ctx context.Context, callerID, status string) (*models.PostList, error) {
	if err := validatePostStatus(status); err != nil {
		return nil, err
	}

	list := &models.PostList{Items: []*models.PostView{}}
	if status == models.PostStatusDeleting {
		return list, nil
	}

	posts, err := s.store.ListPosts(ctx, callerID, status, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		view, err := s.vis.PostView(ctx, callerID, p)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, view)
	}
	return list, nil
}

// GetMediaObjects lists the caller's media objects, optionally
// filtered by status. DELETING media is excluded even when requested.
func (s *PostService) GetMediaObjects(ctx context.Context, callerID, status string) (*models.MediaList, error) {
	if err := validateMediaStatus(status); err != nil {
		return nil, err
	}

	list := &models.MediaList{Items: []*models.MediaView{}}
	if status == models.MediaStatusDeleting {
		return list, nil
	}

	media, err := s.store.ListMedia(ctx, callerID, status)
	if err != nil {
		return nil, err
	}
	for _, m := range media {
		list.Items = append(list.Items, models.MediaViewOf(m))
	}
	return list, nil
}

func (s *PostService) requirePost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.Status == models.PostStatusDeleting || post.Expired(time.Now().UTC()) {
		return nil, clienterr.NotFoundf("Post %s does not exist", postID)
	}
	return post, nil
}

func validatePostStatus(status string) error {
	switch status {
	case "", models.PostStatusPending, models.PostStatusComplete,
		models.PostStatusArchived, models.PostStatusDeleting:
		return nil
	}
	return clienterr.Validationf("Unknown postStatus %q", status)
}

func validateMediaStatus(status string) error {
	switch status {
	case "", models.MediaStatusAwaitingUpload, models.MediaStatusProcessing,
		models.MediaStatusUploaded, models.MediaStatusArchived, models.MediaStatusDeleting:
		return nil
	}
	return clienterr.Validationf("Unknown mediaStatus %q", status)
}
