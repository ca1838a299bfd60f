// Package services – LikeService
//
// A like ties a user profile to a comment and is mirrored by the comment's
// likes counter. The like document and the counter are separate writes with
// no transaction around them: if one of them fails the two drift apart and
// nothing repairs it. A like id is not given back on failure.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-profile-backend/internal/domain"
	"github.com/tbourn/go-profile-backend/internal/repo"
)

// LikeRepo defines the repository contract required by LikeService.
type LikeRepo interface {
	ProfileFinder
	CommentGetter
	FindLike(ctx context.Context, commentID, userID int64) (*domain.Like, error)
	InsertLike(ctx context.Context, l *domain.Like) error
	DeleteLike(ctx context.Context, commentID, userID int64) error
	IncrementLikes(ctx context.Context, commentID, delta int64) error
}

// LikeService adds and removes likes on comments.
type LikeService struct {
	Repo LikeRepo
	Seq  *Sequencer

	// Now is the clock used for created_at. Defaults to time.Now.
	Now func() time.Time
}

// NewLikeService constructs a LikeService using the wall clock.
func NewLikeService(r LikeRepo, seq *Sequencer) *LikeService {
	return &LikeService{Repo: r, Seq: seq, Now: time.Now}
}

// Like records that userID likes commentID and bumps the comment's counter.
// The like insert and the counter update run concurrently and both are
// always attempted; the first failure is returned.
func (s *LikeService) Like(ctx context.Context, commentID, userID int64) (*domain.Like, error) {
	tr := otel.Tracer("services/LikeService")
	ctx, span := tr.Start(ctx, "Like",
		trace.WithAttributes(
			attribute.Int64("comment.id", commentID),
			attribute.Int64("user.id", userID),
		),
	)
	defer span.End()

	ok, err := commentExists(ctx, s.Repo, commentID)
	if err != nil {
		return nil, internal(err)
	}
	if !ok {
		return nil, ErrCommentNotFound
	}
	ok, err = profilesExist(ctx, s.Repo, userID)
	if err != nil {
		return nil, internal(err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	_, err = s.Repo.FindLike(ctx, commentID, userID)
	switch {
	case err == nil:
		return nil, ErrAlreadyLiked
	case !errors.Is(err, repo.ErrNotFound):
		return nil, internal(err)
	}

	id, err := s.Seq.Allocate(ctx, domain.SeqLike)
	if err != nil {
		return nil, internal(err)
	}
	l := &domain.Like{ID: id, CommentID: commentID, UserID: userID, CreatedAt: s.now()}

	// A plain Group: one write failing must not cancel the other.
	var g errgroup.Group
	g.Go(func() error { return s.Repo.InsertLike(ctx, l) })
	g.Go(func() error { return s.Repo.IncrementLikes(ctx, commentID, 1) })
	if err := g.Wait(); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Int64("comment_id", commentID).
			Int64("user_id", userID).
			Int64("like_id", id).
			Msg("like write failed; likes counter may be out of step")
		span.RecordError(err)
		return nil, storeErr(err)
	}
	return l, nil
}

// Unlike removes userID's like from commentID and decrements the counter.
func (s *LikeService) Unlike(ctx context.Context, commentID, userID int64) error {
	tr := otel.Tracer("services/LikeService")
	ctx, span := tr.Start(ctx, "Unlike",
		trace.WithAttributes(
			attribute.Int64("comment.id", commentID),
			attribute.Int64("user.id", userID),
		),
	)
	defer span.End()

	if _, err := s.Repo.FindLike(ctx, commentID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return likeNotFound(commentID, userID)
		}
		return internal(err)
	}

	if err := s.Repo.DeleteLike(ctx, commentID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return likeNotFound(commentID, userID)
		}
		return internal(err)
	}
	if err := s.Repo.IncrementLikes(ctx, commentID, -1); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Int64("comment_id", commentID).
			Int64("user_id", userID).
			Msg("like removed but likes counter not decremented")
		span.RecordError(err)
		return internal(err)
	}
	return nil
}

func (s *LikeService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
