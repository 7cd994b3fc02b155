package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/colmena-layout/internal/config"
)

// tokenBucketScript keeps one hash per client: t is the token count and ts
// the millisecond timestamp of the last whole refill step.  It returns
// {allowed, tokens left, ms until the next token}.
var tokenBucketScript = redis.NewScript(`
local key   = KEYS[1]
local now   = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local per   = tonumber(ARGV[3])
local every = tonumber(ARGV[4])
local ttl   = tonumber(ARGV[5])

local t  = tonumber(redis.call('HGET', key, 't'))
local ts = tonumber(redis.call('HGET', key, 'ts'))
if not t or not ts then
  t, ts = burst, now
end

local steps = math.floor(math.max(0, now - ts) / every)
if steps > 0 then
  t = math.min(burst, t + steps * per)
  ts = ts + steps * every
end

local ok, wait = 0, 0
if t >= 1 then
  ok = 1
  t = t - 1
else
  wait = math.max(0, every - (now - ts))
end

redis.call('HSET', key, 't', t, 'ts', ts)
redis.call('EXPIRE', key, ttl)
return {ok, t, wait}
`)

type decision struct {
	allowed    bool
	remaining  int64
	retryAfter time.Duration
}

type bucket struct {
	rdb *redis.Client
	cfg config.RateLimitConfig
}

func (b bucket) take(ctx context.Context, key string, now time.Time) (decision, error) {
	vals, err := tokenBucketScript.Run(ctx, b.rdb, []string{key},
		now.UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(b.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return decision{}, err
	}
	if len(vals) != 3 {
		return decision{}, fmt.Errorf("token bucket: unexpected reply %v", vals)
	}
	return decision{
		allowed:    vals[0] == 1,
		remaining:  vals[1],
		retryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// NewTokenBucket limits mutating requests per client.  When Redis fails the
// request goes through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	b := bucket{rdb: rdb, cfg: cfg}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			d, err := b.take(c.Request().Context(), key, time.Now())
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("ratelimit: %s: %v", key, err)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
			if d.allowed {
				return next(c)
			}

			secs := int(math.Ceil(d.retryAfter.Seconds()))
			h.Set("Retry-After", strconv.Itoa(secs))
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"ok":         false,
				"error":      "too_many_requests",
				"message":    "Too many changes in a short time, try again shortly.",
				"retryAfter": secs,
			})
		}
	}
}

// buildRateKey keys the bucket by client address, route, or both.  There
// are no accounts, so the address is the only client identity.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "route":
		parts = append(parts, "route", route)
	default:
		parts = append(parts, "ip", ip, "route", route)
	}
	return strings.Join(parts, ":")
}
