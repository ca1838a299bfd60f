package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/tbourn/go-profile-backend/internal/domain"
	"github.com/tbourn/go-profile-backend/internal/repo"
)

func likesOf(t *testing.T, f *fixture, commentID int64) int64 {
	t.Helper()
	c, err := f.likes.Repo.GetComment(context.Background(), commentID)
	if err != nil {
		t.Fatalf("get comment %d: %v", commentID, err)
	}
	return c.Likes
}

func TestLike_Scenario(t *testing.T) {
	f, _ := newFixture(t)
	ctx := context.Background()

	a := mustProfile(t, f.profiles, "p1")
	b := mustProfile(t, f.profiles, "p2")
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("profile ids = %d, %d", a.ID, b.ID)
	}

	c, err := f.comments.Create(ctx, a.ID, &domain.Comment{UserID: b.ID, Title: "hi"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if c.ID != 1 || c.ProfileID != 1 || c.Likes != 0 {
		t.Fatalf("unexpected comment: %+v", c)
	}

	if _, err := f.likes.Like(ctx, c.ID, a.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if n := likesOf(t, f, c.ID); n != 1 {
		t.Fatalf("likes = %d after like; want 1", n)
	}

	if _, err := f.likes.Like(ctx, c.ID, a.ID); !errors.Is(err, ErrAlreadyLiked) || KindOf(err) != KindConflict {
		t.Fatalf("expected conflict on second like, got %v", err)
	}
	if n := likesOf(t, f, c.ID); n != 1 {
		t.Fatalf("likes = %d after duplicate like; want 1", n)
	}

	if err := f.likes.Unlike(ctx, c.ID, a.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if n := likesOf(t, f, c.ID); n != 0 {
		t.Fatalf("likes = %d after unlike; want 0", n)
	}
	if _, err := f.likes.Repo.FindLike(ctx, c.ID, a.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("like document should be gone, got %v", err)
	}
}

func TestLike_MissingReferences(t *testing.T) {
	f, _ := newFixture(t)
	ctx := context.Background()
	a := mustProfile(t, f.profiles, "p1")
	b := mustProfile(t, f.profiles, "p2")
	c, err := f.comments.Create(ctx, a.ID, &domain.Comment{UserID: b.ID, Title: "hi"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}

	if _, err := f.likes.Like(ctx, 99, a.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
	if _, err := f.likes.Like(ctx, c.ID, 99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if n := likesOf(t, f, c.ID); n != 0 {
		t.Fatalf("likes = %d; want 0", n)
	}
}

func TestUnlike_NeverLiked(t *testing.T) {
	f, _ := newFixture(t)
	err := f.likes.Unlike(context.Background(), 1, 2)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if err.Error() != "no like found by user: 2 on comment: 1" {
		t.Fatalf("message = %q", err.Error())
	}
}

// torn is a LikeRepo whose counter update fails.
type torn struct {
	inserts atomic.Int32
}

func (r *torn) FindProfiles(_ context.Context, ids ...int64) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Profile{ID: id, Name: "x"})
	}
	return out, nil
}
func (r *torn) GetComment(_ context.Context, id int64) (*domain.Comment, error) {
	return &domain.Comment{ID: id}, nil
}
func (r *torn) FindLike(context.Context, int64, int64) (*domain.Like, error) {
	return nil, repo.ErrNotFound
}
func (r *torn) InsertLike(context.Context, *domain.Like) error {
	r.inserts.Add(1)
	return nil
}
func (r *torn) DeleteLike(context.Context, int64, int64) error { return nil }
func (r *torn) IncrementLikes(context.Context, int64, int64) error {
	return errors.New("counter unavailable")
}

func TestLike_PartialFailure_BothWritesAttempted(t *testing.T) {
	store := newTestStore(t)
	r := &torn{}
	svc := NewLikeService(r, NewSequencer(store))

	_, err := svc.Like(context.Background(), 1, 2)
	if KindOf(err) != KindInternal {
		t.Fatalf("expected internal_error, got %v", err)
	}
	if r.inserts.Load() != 1 {
		t.Fatalf("like insert attempted %d times; want 1", r.inserts.Load())
	}
	// No compensation for likes.
	if v := counterValue(t, store, domain.SeqLike); v != 1 {
		t.Fatalf("like counter = %d; want 1", v)
	}
}
