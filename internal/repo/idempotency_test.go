package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

func idemRecord(id, key, path string, now time.Time, ttl time.Duration) *domain.Idempotency {
	return &domain.Idempotency{
		ID:        id,
		Key:       key,
		Method:    "POST",
		Path:      path,
		Status:    201,
		Body:      []byte(`{"result":"profile created successfully"}`),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestGetIdempotency_BlankKey_ReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.GetIdempotency(context.Background(), "   ", "POST", "/profiles", time.Now().UTC())
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for blank key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.CreateIdempotency(ctx, idemRecord("expired", "k1", "/profiles", now.Add(-2*time.Hour), time.Hour)); err != nil {
		t.Fatalf("seed expired: %v", err)
	}
	rec, err := s.GetIdempotency(ctx, "k1", "POST", "/profiles", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}
	rec, err = s.GetIdempotency(ctx, "missing", "POST", "/profiles", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec, err)
	}
}

func TestIdempotency_CreateGetAndDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.CreateIdempotency(ctx, idemRecord("a", "k2", "/profiles", now, time.Hour)); err != nil {
		t.Fatalf("create: %v", err)
	}
	rec, err := s.GetIdempotency(ctx, "k2", "POST", "/profiles", now)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Status != 201 || string(rec.Body) != `{"result":"profile created successfully"}` {
		t.Fatalf("unexpected record: %+v", rec)
	}
	// Same key on a different route is unrelated.
	if _, err := s.GetIdempotency(ctx, "k2", "POST", "/profiles/1/comment", now); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on other route, got %v", err)
	}

	if err := s.CreateIdempotency(ctx, idemRecord("b", "k2", "/profiles", now, time.Hour)); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestIdempotency_ExpiredRecordIsReplaced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	start := time.Now().UTC()

	if err := s.CreateIdempotency(ctx, idemRecord("old", "k3", "/profiles", start, time.Minute)); err != nil {
		t.Fatalf("create: %v", err)
	}
	later := start.Add(2 * time.Minute)
	if _, err := s.GetIdempotency(ctx, "k3", "POST", "/profiles", later); err != ErrNotFound {
		t.Fatalf("expected expired record to be hidden, got %v", err)
	}

	fresh := idemRecord("new", "k3", "/profiles", later, time.Minute)
	fresh.Status = 200
	if err := s.CreateIdempotency(ctx, fresh); err != nil {
		t.Fatalf("re-record after expiry: %v", err)
	}
	rec, err := s.GetIdempotency(ctx, "k3", "POST", "/profiles", later)
	if err != nil {
		t.Fatalf("get after re-record: %v", err)
	}
	if rec.ID != "new" || rec.Status != 200 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// A live record is still protected.
	if err := s.CreateIdempotency(ctx, idemRecord("dup", "k3", "/profiles", later, time.Minute)); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate for live record, got %v", err)
	}
}

func TestCreateIdempotency_Error_NoTable(t *testing.T) {
	s := newTestStore(t)
	if err := s.DB().Migrator().DropTable(&domain.Idempotency{}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	err := s.CreateIdempotency(context.Background(), idemRecord("x", "kx", "/profiles", time.Now().UTC(), time.Minute))
	if err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got ErrDuplicate")
	}
}
