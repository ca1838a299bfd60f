// Package services – reference checks
//
// The store enforces no foreign keys. Every write that references another
// entity first runs one of the checks below; the check and the write are not
// atomic, so a concurrent request can still slip in between.
package services

import (
	"context"
	"errors"

	"github.com/tbourn/go-profile-backend/internal/domain"
	"github.com/tbourn/go-profile-backend/internal/repo"
)

// ProfileFinder fetches profiles by id in a single query.
type ProfileFinder interface {
	FindProfiles(ctx context.Context, ids ...int64) ([]domain.Profile, error)
}

// CommentGetter fetches one comment by id.
type CommentGetter interface {
	GetComment(ctx context.Context, id int64) (*domain.Comment, error)
}

// profilesExist reports whether ids name len(ids) distinct existing
// profiles. Repeating an id therefore never passes.
func profilesExist(ctx context.Context, r ProfileFinder, ids ...int64) (bool, error) {
	found, err := r.FindProfiles(ctx, ids...)
	if err != nil {
		return false, err
	}
	distinct := make(map[int64]struct{}, len(found))
	for _, p := range found {
		distinct[p.ID] = struct{}{}
	}
	return len(distinct) == len(ids), nil
}

// commentExists reports whether id names an existing comment.
func commentExists(ctx context.Context, r CommentGetter, id int64) (bool, error) {
	_, err := r.GetComment(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
