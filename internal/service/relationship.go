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

// RelationshipService maintains the directed block and follow edges
// between users.
type RelationshipService struct {
	store  Store
	vis    *Visibility
	feeds  FeedInvalidator
	logger *zap.Logger
}

// NewRelationshipService creates a new relationship service
func NewRelationshipService(store Store, vis *Visibility, feeds FeedInvalidator) *RelationshipService {
	return &RelationshipService{
		store:  store,
		vis:    vis,
		feeds:  feeds,
		logger: logging.WithComponent("relationship"),
	}
}

// Block creates a block edge from caller to target. Each direction is
// independent: a user can block someone who has already blocked them.
func (s *RelationshipService) Block(ctx context.Context, callerID, targetID string) (*models.UserView, error) {
	if callerID == targetID {
		return nil, clienterr.Validationf("Cannot block yourself")
	}

	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, clienterr.NotFoundf("User %s does not exist", targetID)
	}

	now := time.Now().UTC()
	err = s.store.CreateBlock(ctx, &models.Block{
		BlockerID: callerID,
		BlockedID: targetID,
		CreatedAt: now,
	})
	if errors.Is(err, ErrDuplicateEdge) {
		return nil, clienterr.Conflictf("User %s has already blocked user %s", callerID, targetID)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("User blocked",
		zap.String("blockerId", callerID),
		zap.String("blockedId", targetID))

	return s.vis.UserView(ctx, callerID, target, now)
}

// Unblock removes the block edge from caller to target
func (s *RelationshipService) Unblock(ctx context.Context, callerID, targetID string) (*models.UserView, error) {
	if callerID == targetID {
		return nil, clienterr.Validationf("Cannot unblock yourself")
	}

	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, clienterr.NotFoundf("User %s does not exist", targetID)
	}

	removed, err := s.store.DeleteBlock(ctx, callerID, targetID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, clienterr.Conflictf("User %s has not blocked user %s", callerID, targetID)
	}

	s.logger.Info("User unblocked",
		zap.String("blockerId", callerID),
		zap.String("blockedId", targetID))

	return s.vis.UserView(ctx, callerID, target, time.Now().UTC())
}

// Follow creates a FOLLOWING edge from caller to target. Blocks in
// either direction forbid following.
func (s *RelationshipService) Follow(ctx context.Context, callerID, targetID string) (*models.UserView, error) {
	if callerID == targetID {
		return nil, clienterr.Validationf("Cannot follow yourself")
	}

	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, clienterr.NotFoundf("User %s does not exist", targetID)
	}

	if err := s.checkNotBlocked(ctx, callerID, targetID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.store.CreateFollow(ctx, &models.Follow{
		FollowerID: callerID,
		FollowedID: targetID,
		Status:     models.FollowStatusFollowing,
		CreatedAt:  now,
	})
	if errors.Is(err, ErrDuplicateEdge) {
		return nil, clienterr.Conflictf("User %s is already following user %s", callerID, targetID)
	}
	if err != nil {
		return nil, err
	}

	if s.feeds != nil {
		s.feeds.InvalidateViewer(ctx, callerID)
	}

	s.logger.Info("User followed",
		zap.String("followerId", callerID),
		zap.String("followedId", targetID))

	return s.vis.UserView(ctx, callerID, target, now)
}

// Unfollow removes the follow edge from caller to target
func (s *RelationshipService) Unfollow(ctx context.Context, callerID, targetID string) (*models.UserView, error) {
	if callerID == targetID {
		return nil, clienterr.Validationf("Cannot unfollow yourself")
	}

	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, clienterr.NotFoundf("User %s does not exist", targetID)
	}

	removed, err := s.store.DeleteFollow(ctx, callerID, targetID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, clienterr.Conflictf("User %s is not following user %s", callerID, targetID)
	}

	if s.feeds != nil {
		s.feeds.InvalidateViewer(ctx, callerID)
	}

	s.logger.Info("User unfollowed",
		zap.String("followerId", callerID),
		zap.String("followedId", targetID))

	return s.vis.UserView(ctx, callerID, target, time.Now().UTC())
}

func (s *RelationshipService) checkNotBlocked(ctx context.Context, callerID, targetID string) error {
	blocking, err := s.store.IsBlocking(ctx, targetID, callerID)
	if err != nil {
		return err
	}
	if blocking {
		return clienterr.Forbiddenf("User %s has blocked user %s", targetID, callerID)
	}

	blocking, err = s.store.IsBlocking(ctx, callerID, targetID)
	if err != nil {
		return err
	}
	if blocking {
		return clienterr.Forbiddenf("User %s has blocked user %s", callerID, targetID)
	}
	return nil
}
