// Package services – CommentService
//
// A comment is written by one profile (user_id) on another (profile_id).
// Both must exist when the comment is created. Unlike profiles, a failed
// comment insert does not give its id back.
//
// Listing supports a vote filter (all, mbti, enneagram, zodiac) and two sort
// orders (recent, best). Option values are matched exactly.
package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-profile-backend/internal/domain"
	"github.com/tbourn/go-profile-backend/internal/repo"
)

// FilterAll disables vote filtering.
const FilterAll = "all"

// CommentRepo defines the repository contract required by CommentService.
type CommentRepo interface {
	ProfileFinder
	InsertComment(ctx context.Context, c *domain.Comment) error
	ListComments(ctx context.Context, q repo.CommentQuery) ([]domain.Comment, error)
}

// CommentService creates and lists comments on profiles.
type CommentService struct {
	Repo CommentRepo
	Seq  *Sequencer

	// Now is the clock used for created_at. Defaults to time.Now.
	Now func() time.Time
}

// NewCommentService constructs a CommentService using the wall clock.
func NewCommentService(r CommentRepo, seq *Sequencer) *CommentService {
	return &CommentService{Repo: r, Seq: seq, Now: time.Now}
}

// Create validates c, checks that both profileID and c.UserID exist, then
// stores c with a fresh id, a creation timestamp and zero likes.
func (s *CommentService) Create(ctx context.Context, profileID int64, c *domain.Comment) (*domain.Comment, error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.Int64("profile.id", profileID),
			attribute.Int64("user.id", c.UserID),
		),
	)
	defer span.End()

	if !c.HasContent() {
		return nil, ErrEmptyComment
	}

	ok, err := profilesExist(ctx, s.Repo, profileID, c.UserID)
	if err != nil {
		return nil, internal(err)
	}
	if !ok {
		return nil, ErrCommentRefs
	}

	id, err := s.Seq.Allocate(ctx, domain.SeqComment)
	if err != nil {
		return nil, internal(err)
	}
	c.ID = id
	c.ProfileID = profileID
	c.CreatedAt = s.now()
	c.Likes = 0

	if err := s.Repo.InsertComment(ctx, c); err != nil {
		span.RecordError(err)
		return nil, storeErr(err)
	}
	return c, nil
}

// List returns the comments on profileID. filter restricts the result to
// comments carrying that vote; sortBy picks the order. An unknown profile
// and a profile without comments both yield an empty slice.
func (s *CommentService) List(ctx context.Context, profileID int64, filter, sortBy string) ([]domain.Comment, error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.Int64("profile.id", profileID),
			attribute.String("filter", filter),
			attribute.String("sortby", sortBy),
		),
	)
	defer span.End()

	q, err := commentQuery(profileID, filter, sortBy)
	if err != nil {
		return nil, err
	}
	out, err := s.Repo.ListComments(ctx, q)
	if err != nil {
		return nil, internal(err)
	}
	span.SetAttributes(attribute.Int("result.count", len(out)))
	return out, nil
}

// commentQuery validates the list options. Unknown sort values fall back to
// the store's natural order.
func commentQuery(profileID int64, filter, sortBy string) (repo.CommentQuery, error) {
	q := repo.CommentQuery{ProfileID: profileID}

	switch filter {
	case "", FilterAll:
	case repo.FilterMBTI, repo.FilterEnneagram, repo.FilterZodiac:
		q.NonEmpty = filter
	default:
		return q, ErrInvalidFilter
	}

	switch sortBy {
	case repo.SortRecent, repo.SortBest:
		q.SortBy = sortBy
	}
	return q, nil
}

func (s *CommentService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
