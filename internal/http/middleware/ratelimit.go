// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the per-client token-bucket limiter. Every client key
// owns two buckets: one for reads (GET, HEAD, OPTIONS) and one for writes
// (POST, DELETE). Writes allocate sequence ids, so they can be given a
// tighter budget without starving profile and comment reads.
//
// Buckets live in process memory and idle ones are swept every few thousand
// lookups. Install the limiter after Idempotency so replays are answered
// before a token is spent.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc maps a request to the identity its buckets are keyed by.
type KeyFunc func(*gin.Context) string

// KeyByClientIP keys buckets by the client IP as resolved by Gin (honouring
// trusted proxies), e.g. "ip:203.0.113.7".
func KeyByClientIP() KeyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// RateLimitOptions sizes the read and write buckets.
type RateLimitOptions struct {
	RPS   float64 // read tokens per second
	Burst int     // read bucket size; <= 0 becomes 1

	// Write bucket sizing. When both are zero writes are sized like reads.
	WriteRPS   float64
	WriteBurst int // <= 0 uses Burst

	Key     KeyFunc       // nil keys by client IP
	IdleTTL time.Duration // idle buckets are dropped after this; default 10m
	Now     func() time.Time
}

const sweepEvery = 5000

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is safe for concurrent use.
type RateLimiter struct {
	read, write tier
	key         KeyFunc
	idleTTL     time.Duration
	now         func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	lookups uint64
}

type tier struct {
	limit rate.Limit
	burst int
}

// NewRateLimiter builds a limiter from opts, filling in defaults.
func NewRateLimiter(opts RateLimitOptions) *RateLimiter {
	read := tier{limit: rate.Limit(opts.RPS), burst: opts.Burst}
	if read.burst <= 0 {
		read.burst = 1
	}
	write := read
	if opts.WriteRPS != 0 || opts.WriteBurst != 0 {
		write = tier{limit: rate.Limit(math.Max(opts.WriteRPS, 0)), burst: opts.WriteBurst}
		if write.burst <= 0 {
			write.burst = read.burst
		}
	}
	rl := &RateLimiter{
		read:    read,
		write:   write,
		key:     opts.Key,
		idleTTL: opts.IdleTTL,
		now:     opts.Now,
		buckets: make(map[string]*bucket),
	}
	if rl.key == nil {
		rl.key = KeyByClientIP()
	}
	if rl.idleTTL <= 0 {
		rl.idleTTL = 10 * time.Minute
	}
	if rl.now == nil {
		rl.now = time.Now
	}
	return rl
}

// limiterFor returns the bucket for key and class, creating it on first use.
// The sweep runs before the lookup so a stale bucket for key is replaced
// rather than refreshed.
func (rl *RateLimiter) limiterFor(key string, write bool, now time.Time) *rate.Limiter {
	t, class := rl.read, "|r"
	if write {
		t, class = rl.write, "|w"
	}
	key += class

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= sweepEvery {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lookups = 0
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}
	lim := rate.NewLimiter(t.limit, t.burst)
	rl.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	return lim
}

// Handler returns the middleware. A rejected request gets 429 with the error
// envelope and a Retry-After of the whole seconds until the next token.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := rl.now()
		lim := rl.limiterFor(rl.key(c), !safeMethod(c.Request.Method), now)

		res := lim.ReserveN(now, 1)
		if res.OK() && res.DelayFrom(now) == 0 {
			c.Next()
			return
		}

		wait := time.Second
		if res.OK() {
			wait = res.DelayFrom(now)
			res.CancelAt(now)
		}
		rateLimited.WithLabelValues(routeLabel(c)).Inc()
		c.Header("Retry-After", retryAfter(wait))
		abortError(c, http.StatusTooManyRequests, "too_many_requests", "rate limit exceeded")
	}
}

// retryAfter rounds d up to whole seconds, at least 1.
func retryAfter(d time.Duration) string {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}
