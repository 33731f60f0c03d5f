package visibility

import (
	"context"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
)

// Store is the subset of persistence the resolver needs.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetFollow(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error)
}

// Resolver answers whether a viewer may see an author's content. It gates
// single reads (thread pages, profiles, reply trees); list queries embed the
// equivalent predicate in SQL instead.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// CanViewAuthor reports whether viewerID may see content authored by
// authorID. Public authors are visible to everyone including anonymous
// viewers (viewerID == uuid.Nil). Private authors are visible only to
// themselves and to viewers with an accepted follow.
func (r *Resolver) CanViewAuthor(ctx context.Context, viewerID, authorID uuid.UUID) (bool, error) {
	if viewerID == authorID {
		return true, nil
	}

	author, err := r.store.GetUser(ctx, authorID)
	if err != nil {
		return false, err
	}
	if !author.IsPrivate {
		return true, nil
	}
	if viewerID == uuid.Nil {
		return false, nil
	}

	follow, err := r.store.GetFollow(ctx, viewerID, authorID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return follow.Status == models.FollowAccepted, nil
}

// RequireView is CanViewAuthor with denial folded into the error. The denial
// is indistinguishable from a missing resource at the API surface.
func (r *Resolver) RequireView(ctx context.Context, viewerID, authorID uuid.UUID) error {
	ok, err := r.CanViewAuthor(ctx, viewerID, authorID)
	if err != nil {
		return err
	}
	if !ok {
		return utils.NewPrivateContentError()
	}
	return nil
}
