// Package cache provides the Redis read-through cache for profiles.
//
// Profiles never change once created, so entries are only ever written on a
// miss and expire by TTL. Every method is nil-safe: a nil *ProfileCache is a
// cache that always misses, which is what the service runs with when
// REDIS_URL is unset or Redis is unreachable at startup.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

var redisErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Redis command failures, by command.",
	},
	[]string{"cmd"},
)

func init() {
	prometheus.MustRegister(redisErrors)
}

type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			redisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			redisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Connect returns a client for addr, which is either a redis:// URL or a
// bare host:port, after checking the server answers PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ProfileCache stores profiles as JSON under "profile:<id>".
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache returns a cache over client. A nil client yields a nil
// cache.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if client == nil {
		return nil
	}
	return &ProfileCache{client: client, ttl: ttl}
}

func profileKey(id int64) string { return "profile:" + strconv.FormatInt(id, 10) }

// Get returns the cached profile. Redis failures and undecodable entries
// count as misses.
func (c *ProfileCache) Get(ctx context.Context, id int64) (*domain.Profile, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Ctx(ctx).Warn().Err(err).Int64("profile_id", id).Msg("profile cache read failed")
		}
		return nil, false
	}
	var p domain.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// Set stores p. Failures are logged and otherwise ignored.
func (c *ProfileCache) Set(ctx context.Context, p *domain.Profile) {
	if c == nil || p == nil {
		return
	}
	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, profileKey(p.ID), b, c.ttl).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("profile_id", p.ID).Msg("profile cache write failed")
	}
}

// Close releases the client.
func (c *ProfileCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
