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

// LikeService maintains the like ledger: one edge per (post, user),
// mode fixed at creation. Disable flags gate new likes and hide the
// projections but never destroy edges.
type LikeService struct {
	store  Store
	vis    *Visibility
	logger *zap.Logger
}

// NewLikeService creates a new like service
func NewLikeService(store Store, vis *Visibility) *LikeService {
	return &LikeService{
		store:  store,
		vis:    vis,
		logger: logging.WithComponent("like"),
	}
}

// Like records a like in the given mode after the gating checks
func (s *LikeService) Like(ctx context.Context, callerID, postID, mode string) (*models.PostView, error) {
	if mode != models.LikeModeOnymous && mode != models.LikeModeAnonymous {
		return nil, clienterr.Validationf("Unknown like mode %q", mode)
	}

	post, err := s.requireLikeablePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.vis.LikeGate(ctx, callerID, post); err != nil {
		return nil, err
	}

	existing, err := s.store.GetLike(ctx, postID, callerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, clienterr.Conflictf("User %s has already liked post %s", callerID, postID)
	}

	err = s.store.CreateLike(ctx, &models.Like{
		PostID:    postID,
		UserID:    callerID,
		Mode:      mode,
		CreatedAt: time.Now().UTC(),
	})
	if errors.Is(err, ErrDuplicateEdge) {
		// Lost a race with a concurrent like by the same user
		return nil, clienterr.Conflictf("User %s has already liked post %s", callerID, postID)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Post liked",
		zap.String("postId", postID),
		zap.String("userId", callerID),
		zap.String("mode", mode))

	return s.vis.PostView(ctx, callerID, post)
}

// Dislike removes the caller's like edge from the post
func (s *LikeService) Dislike(ctx context.Context, callerID, postID string) (*models.PostView, error) {
	post, err := s.requireLikeablePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	removed, err := s.store.DeleteLike(ctx, postID, callerID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, clienterr.Conflictf("User %s has not liked post %s", callerID, postID)
	}

	s.logger.Info("Post disliked",
		zap.String("postId", postID),
		zap.String("userId", callerID))

	return s.vis.PostView(ctx, callerID, post)
}

func (s *LikeService) requireLikeablePost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if post == nil || post.Status == models.PostStatusDeleting || post.Expired(now) {
		return nil, clienterr.NotFoundf("Post %s does not exist", postID)
	}
	if post.Status != models.PostStatusComplete {
		return nil, clienterr.Statef("Post %s is not COMPLETE", postID)
	}
	return post, nil
}

func errLikesDisabledOnPost(postID string) error {
	return clienterr.Statef("Likes are disabled for post %s", postID)
}

func errLikesDisabledByUser(userID string) error {
	return clienterr.Statef("User %s has disabled likes", userID)
}
