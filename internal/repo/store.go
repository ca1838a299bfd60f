package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. Both
// backends report missing documents and rows with this value.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that an idempotency record already exists for the
// given (key, method, path) tuple.
var ErrDuplicate = errors.New("duplicate")

// Sort orders accepted by ListComments.
const (
	SortRecent = "recent"
	SortBest   = "best"
)

// Vote fields a comment listing can be restricted to.
const (
	FilterMBTI      = "mbti"
	FilterEnneagram = "enneagram"
	FilterZodiac    = "zodiac"
)

// CommentQuery selects the comments of one profile.
//
// NonEmpty, when set, keeps only comments whose vote field of that name is
// not the empty string. SortBy is SortRecent (newest first), SortBest (most
// likes first) or empty for store order.
type CommentQuery struct {
	ProfileID int64
	NonEmpty  string
	SortBy    string
}

// voteColumn maps a filter name onto its column/field, rejecting anything
// else so it can be interpolated into a query safely.
func voteColumn(filter string) (string, bool) {
	switch filter {
	case FilterMBTI, FilterEnneagram, FilterZodiac:
		return filter, true
	}
	return "", false
}

// Store is the full method set shared by MongoStore and SQLStore.
type Store interface {
	IncrementCounter(ctx context.Context, name string, delta int64) (int64, error)

	InsertProfile(ctx context.Context, p *domain.Profile) error
	GetProfile(ctx context.Context, id int64) (*domain.Profile, error)
	FindProfiles(ctx context.Context, ids ...int64) ([]domain.Profile, error)

	InsertComment(ctx context.Context, c *domain.Comment) error
	GetComment(ctx context.Context, id int64) (*domain.Comment, error)
	ListComments(ctx context.Context, q CommentQuery) ([]domain.Comment, error)
	IncrementLikes(ctx context.Context, commentID, delta int64) error

	InsertLike(ctx context.Context, l *domain.Like) error
	FindLike(ctx context.Context, commentID, userID int64) (*domain.Like, error)
	DeleteLike(ctx context.Context, commentID, userID int64) error

	GetIdempotency(ctx context.Context, key, method, path string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, rec *domain.Idempotency) error

	Provision(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	_ Store = (*MongoStore)(nil)
	_ Store = (*SQLStore)(nil)
)
