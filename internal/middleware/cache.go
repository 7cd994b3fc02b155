package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/colmena-layout/internal/config"
)

// cachedResponse is what one cache entry holds.
type cachedResponse struct {
	Status int         `json:"s"`
	Header http.Header `json:"h"`
	Body   []byte      `json:"b"`
}

func (r cachedResponse) replay(c echo.Context) error {
	res := c.Response()
	for k, vals := range r.Header {
		switch k {
		case echo.HeaderContentLength, "X-Cache", "X-Layout-Revision":
			continue
		}
		for _, v := range vals {
			res.Header().Add(k, v)
		}
	}
	res.Header().Set("X-Cache", "HIT")
	res.WriteHeader(r.Status)
	_, err := res.Write(r.Body)
	return err
}

// teeWriter forwards the response and keeps a copy of the body, giving up
// on the copy once it outgrows limit.
type teeWriter struct {
	http.ResponseWriter
	status   int
	body     bytes.Buffer
	limit    int
	overflow bool
}

func (w *teeWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *teeWriter) Write(p []byte) (int, error) {
	if !w.overflow {
		if w.limit > 0 && w.body.Len()+len(p) > w.limit {
			w.overflow = true
			w.body.Reset()
		} else {
			w.body.Write(p)
		}
	}
	return w.ResponseWriter.Write(p)
}

// cacheKey namespaces entries by layout revision, so a mutation makes every
// earlier entry unreachable without deleting anything.
func cacheKey(prefix string, revision uint64, route, query string) string {
	sum := sha1.Sum([]byte(route + "?" + query))
	return fmt.Sprintf("%s:rev:%d:%x", prefix, revision, sum[:])
}

type responseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func (rc responseCache) lookup(ctx context.Context, key string) (cachedResponse, bool) {
	raw, err := rc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return cachedResponse{}, false
	}
	var r cachedResponse
	if err := json.Unmarshal(raw, &r); err != nil || r.Status == 0 {
		return cachedResponse{}, false
	}
	return r, true
}

func (rc responseCache) store(ctx context.Context, key string, r cachedResponse) {
	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	_ = rc.rdb.SetEx(ctx, key, raw, rc.ttl).Err()
}

// NewRedisCache caches 200 responses of derived-data routes under the
// current layout revision.  Headers are stored with the body so a hit is
// byte-identical to the original response.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, revision func() uint64) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil || revision == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	rc := responseCache{rdb: rdb, ttl: cfg.TTL}
	if rc.ttl <= 0 {
		rc.ttl = 5 * time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m := c.Request().Method; m != http.MethodGet && m != http.MethodHead {
				return next(c)
			}
			ctx := c.Request().Context()
			rev := revision()
			key := cacheKey(cfg.Prefix, rev, c.Path(), c.Request().URL.RawQuery)

			res := c.Response()
			res.Header().Set("X-Layout-Revision", strconv.FormatUint(rev, 10))
			if hit, ok := rc.lookup(ctx, key); ok {
				return hit.replay(c)
			}

			res.Header().Set("X-Cache", "MISS")
			tee := &teeWriter{ResponseWriter: res.Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			res.Writer = tee
			if err := next(c); err != nil {
				return err
			}
			if tee.status != http.StatusOK || tee.overflow {
				return nil
			}
			rc.store(context.WithoutCancel(ctx), key, cachedResponse{
				Status: tee.status,
				Header: res.Header().Clone(),
				Body:   bytes.Clone(tee.body.Bytes()),
			})
			return nil
		}
	}
}
