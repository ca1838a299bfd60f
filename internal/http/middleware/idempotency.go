// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for unsafe HTTP methods (e.g., POST).
// It validates an Idempotency-Key request header and, when a stored response
// exists for the same (key, method, path), replays it verbatim without running
// the handler. Otherwise the handler runs and a 2xx response is recorded for
// the configured TTL.
//
// Downstream handlers can read the normalized key via GetIdempotencyKey.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-profile-backend/internal/domain"
	"github.com/tbourn/go-profile-backend/internal/repo"
)

// HeaderIdempotencyKey is the canonical request header that clients use to
// convey an idempotency key for unsafe operations (e.g., POST).
//
// The value is expected to be stable for a given semantic operation so that
// retries (network, client, or server initiated) can be safely deduplicated.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplay is set to "true" on responses served from a stored
// record.
const HeaderIdempotentReplay = "Idempotent-Replay"

// Context keys used internally to stash idempotency state.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // bool: true when the response is a replay
)

// GetIdempotencyKey returns the validated idempotency key stored in the Gin
// context by Idempotency. The second return value indicates presence.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the response for this request was served from a
// stored idempotency record.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyStore persists replayable responses. repo.Store satisfies it.
type IdempotencyStore interface {
	GetIdempotency(ctx context.Context, key, method, path string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, rec *domain.Idempotency) error
}

// IdempotencyOptions configures header validation and record lifetime.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative RFC7230-like
	// token pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
	// TTL is how long a recorded response stays replayable. Values <= 0
	// default to 24h.
	TTL time.Duration
	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// Idempotency validates the Idempotency-Key header (if present) and serves or
// records replays through store.
//
// Behavior:
//   - If header is absent or the method is safe: the middleware is a no-op.
//   - If header fails validation: responds 400 with the error envelope.
//   - If a live record exists for (key, method, path): writes its status and
//     body, sets Idempotent-Replay: true and aborts.
//   - Otherwise runs the handler and stores its body when the status is 2xx.
//
// Lookup and store failures are logged and never fail the request.
func Idempotency(opts IdempotencyOptions, store IdempotencyStore) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || safeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abortError(c, http.StatusBadRequest, "bad_request", "invalid Idempotency-Key")
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if store == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		method, path := c.Request.Method, c.Request.URL.Path
		ts := now().UTC()

		rec, err := store.GetIdempotency(ctx, key, method, path, ts)
		switch {
		case err == nil:
			c.Set(ctxKeyIdemReplay, true)
			idemReplays.WithLabelValues(method, routeLabel(c)).Inc()
			c.Header(HeaderIdempotentReplay, "true")
			c.Data(rec.Status, "application/json; charset=utf-8", rec.Body)
			c.Abort()
			return
		case !errors.Is(err, repo.ErrNotFound):
			LoggerFrom(c).Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
		}

		bw := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Next()

		status := bw.Status()
		if status < 200 || status >= 300 {
			return
		}
		err = store.CreateIdempotency(ctx, &domain.Idempotency{
			ID:        uuid.NewString(),
			Key:       key,
			Method:    method,
			Path:      path,
			Status:    status,
			Body:      bw.buf.Bytes(),
			CreatedAt: ts,
			ExpiresAt: ts.Add(ttl),
		})
		if err != nil && !errors.Is(err, repo.ErrDuplicate) {
			LoggerFrom(c).Warn().Err(err).Str("idempotency_key", key).Msg("idempotency record not stored")
		}
	}
}

func safeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// bodyCapture tees the response body into buf.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
