package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/real-social-media/pillar/internal/clienterr"
	"github.com/real-social-media/pillar/internal/models"
	"github.com/real-social-media/pillar/pkg/logging"
)

// UserService handles user settings and user/self queries
type UserService struct {
	store  Store
	vis    *Visibility
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store Store, vis *Visibility) *UserService {
	return &UserService{
		store:  store,
		vis:    vis,
		logger: logging.WithComponent("user"),
	}
}

// MentalHealthSettings carries the optional account-level feature
// toggles. Only non-nil fields are applied.
type MentalHealthSettings struct {
	LikesDisabled    *bool
	CommentsDisabled *bool
	SharingDisabled  *bool
}

// SetFollowCountsHidden toggles the caller's follow-count privacy flag
func (s *UserService) SetFollowCountsHidden(ctx context.Context, callerID string, value bool) (*models.UserView, error) {
	user, err := s.requireUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	user.FollowCountsHidden = value
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Follow counts hidden updated",
		zap.String("userId", callerID),
		zap.Bool("value", value))

	return s.vis.UserView(ctx, callerID, user, time.Now().UTC())
}

// SetMentalHealthSettings applies account-level feature toggles.
// Toggling likesDisabled hides like projections without touching the
// underlying edges.
func (s *UserService) SetMentalHealthSettings(ctx context.Context, callerID string, settings MentalHealthSettings) (*models.UserView, error) {
	user, err := s.requireUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if settings.LikesDisabled != nil {
		user.LikesDisabled = *settings.LikesDisabled
	}
	if settings.CommentsDisabled != nil {
		user.CommentsDisabled = *settings.CommentsDisabled
	}
	if settings.SharingDisabled != nil {
		user.SharingDisabled = *settings.SharingDisabled
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Mental health settings updated", zap.String("userId", callerID))

	return s.vis.UserView(ctx, callerID, user, time.Now().UTC())
}

// Self returns the caller's own full view
func (s *UserService) Self(ctx context.Context, callerID string) (*models.UserView, error) {
	user, err := s.requireUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.vis.UserView(ctx, callerID, user, time.Now().UTC())
}

// User returns another user's view, redacted for the caller
func (s *UserService) User(ctx context.Context, callerID, targetID string) (*models.UserView, error) {
	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, clienterr.NotFoundf("User %s does not exist", targetID)
	}
	return s.vis.UserView(ctx, callerID, target, time.Now().UTC())
}

func (s *UserService) requireUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, clienterr.NotFoundf("User %s does not exist", id)
	}
	return user, nil
}
