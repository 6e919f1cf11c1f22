package service

import (
	"context"
	"time"

	"github.com/real-social-media/pillar/internal/models"
)

// Visibility is the per-viewer policy layer. Every read path projects
// entities through it, so each suppression rule lives in exactly one
// place instead of being duplicated per field.
type Visibility struct {
	store Store
}

// NewVisibility creates a new visibility resolver
func NewVisibility(store Store) *Visibility {
	return &Visibility{store: store}
}

// UserView projects a user for a viewer.
//
// Rules:
//   - the self view exposes everything, including the user's own
//     privacy settings and (deliberately) their own hidden follow counts
//   - blockedStatus is always exposed relative to the viewer
//   - followCountsHidden suppresses follower/followed counts and lists
//     for every non-self viewer (null, not zero)
//   - blockedUsers and the liked-post lists are never exposed to a
//     non-self viewer
func (v *Visibility) UserView(ctx context.Context, viewerID string, target *models.User, now time.Time) (*models.UserView, error) {
	self := viewerID == target.ID

	view := &models.UserView{
		UserID:   target.ID,
		Username: target.Username,
	}

	if self {
		view.BlockedStatus = models.BlockedStatusSelf
		view.FollowedStatus = models.FollowedStatusSelf
		view.FollowCountsHidden = boolPtr(target.FollowCountsHidden)
		view.LikesDisabled = boolPtr(target.LikesDisabled)
		view.CommentsDisabled = boolPtr(target.CommentsDisabled)
		view.SharingDisabled = boolPtr(target.SharingDisabled)
	} else {
		blocking, err := v.store.IsBlocking(ctx, viewerID, target.ID)
		if err != nil {
			return nil, err
		}
		if blocking {
			view.BlockedStatus = models.BlockedStatusBlocking
		} else {
			view.BlockedStatus = models.BlockedStatusNotBlocking
		}

		follow, err := v.store.GetFollow(ctx, viewerID, target.ID)
		if err != nil {
			return nil, err
		}
		if follow != nil && follow.Status == models.FollowStatusFollowing {
			view.FollowedStatus = models.FollowedStatusFollowing
		} else {
			view.FollowedStatus = models.FollowedStatusNotFollowing
		}
	}

	stats, err := v.store.UserStats(ctx, target.ID, now)
	if err != nil {
		return nil, err
	}
	view.PostCount = intPtr(stats.PostCount)

	if self || !target.FollowCountsHidden {
		view.FollowerCount = intPtr(stats.FollowerCount)
		view.FollowedCount = intPtr(stats.FollowedCount)

		followers, err := v.store.ListFollowerUsers(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		followed, err := v.store.ListFollowedUsers(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		view.FollowerUsers = shallowUserList(followers)
		view.FollowedUsers = shallowUserList(followed)
	}

	if self {
		blocked, err := v.store.ListBlockedUsers(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		view.BlockedUsers = shallowUserList(blocked)

		onymous, err := v.likedPostList(ctx, target.ID, models.LikeModeOnymous, now)
		if err != nil {
			return nil, err
		}
		anonymous, err := v.likedPostList(ctx, target.ID, models.LikeModeAnonymous, now)
		if err != nil {
			return nil, err
		}
		view.OnymouslyLikedPosts = onymous
		view.AnonymouslyLikedPosts = anonymous
	}

	return view, nil
}

// PostView projects a post for a viewer. Like counts and the onymous
// liker list are suppressed for every viewer, the owner included, when
// likes are disabled on the post or on the owner's account. Suppression
// never touches the underlying edges: re-enabling reveals the original
// edge set unchanged.
func (v *Visibility) PostView(ctx context.Context, viewerID string, post *models.Post) (*models.PostView, error) {
	view := shallowPostView(post)

	media, err := v.store.MediaForPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range media {
		view.MediaObjects = append(view.MediaObjects, models.MediaViewOf(m))
	}

	owner, err := v.store.GetUser(ctx, post.OwnerID)
	if err != nil {
		return nil, err
	}
	if post.LikesDisabled || (owner != nil && owner.LikesDisabled) {
		return view, nil
	}

	onymous, anonymous, err := v.store.LikeCounts(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	likers, err := v.store.ListOnymousLikers(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	view.OnymousLikeCount = intPtr(onymous)
	view.AnonymousLikeCount = intPtr(anonymous)
	view.OnymouslyLikedBy = shallowUserList(likers)
	return view, nil
}

// LikeGate authorizes a like mutation by the given user on the given
// post. Likes are gated by the post's flag, the liker's account flag
// and the post owner's account flag.
func (v *Visibility) LikeGate(ctx context.Context, likerID string, post *models.Post) error {
	if post.LikesDisabled {
		return errLikesDisabledOnPost(post.ID)
	}

	liker, err := v.store.GetUser(ctx, likerID)
	if err != nil {
		return err
	}
	if liker != nil && liker.LikesDisabled {
		return errLikesDisabledByUser(likerID)
	}

	owner, err := v.store.GetUser(ctx, post.OwnerID)
	if err != nil {
		return err
	}
	if owner != nil && owner.LikesDisabled {
		return errLikesDisabledByUser(owner.ID)
	}
	return nil
}

func (v *Visibility) likedPostList(ctx context.Context, userID, mode string, now time.Time) (*models.PostList, error) {
	posts, err := v.store.ListLikedPosts(ctx, userID, mode, now)
	if err != nil {
		return nil, err
	}
	list := &models.PostList{Items: make([]*models.PostView, 0, len(posts))}
	for _, p := range posts {
		list.Items = append(list.Items, shallowPostView(p))
	}
	return list, nil
}

// shallowPostView builds a post view without its like or media
// projections attached
func shallowPostView(p *models.Post) *models.PostView {
	return &models.PostView{
		PostID:        p.ID,
		PostedBy:      p.OwnerID,
		PostStatus:    p.Status,
		Text:          p.Text,
		PostedAt:      p.PostedAt,
		ExpiresAt:     p.ExpiresAt,
		LikesDisabled: p.LikesDisabled,
		MediaObjects:  []*models.MediaView{},
	}
}

func shallowUserList(users []*models.User) *models.UserList {
	list := &models.UserList{Items: make([]*models.UserView, 0, len(users))}
	for _, u := range users {
		list.Items = append(list.Items, &models.UserView{
			UserID:   u.ID,
			Username: u.Username,
		})
	}
	return list
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
