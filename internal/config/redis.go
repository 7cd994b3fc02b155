package config

// Redis backs the response cache, the rate limiter and, when
// STORAGE_BACKEND=redis, the layout slot itself.  If connection fails during
// startup NewRedisClient returns nil and callers degrade gracefully.

import (
	"context"
	"crypto/tls"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes how to reach Redis.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TLS        bool
	SlotPrefix string        // key prefix for the layout slot
	SlotTTL    time.Duration // zero keeps the saved layout forever
}

// LoadRedisConfig reads REDIS_* variables.  REDIS_HOST and REDIS_PORT take
// precedence over REDIS_ADDR.
func LoadRedisConfig() RedisConfig {
	addr := getenv("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	return RedisConfig{
		Addr:       addr,
		Password:   os.Getenv("REDIS_PASSWORD"),
		DB:         envInt("REDIS_DB", 0),
		TLS:        envBool("REDIS_TLS", false),
		SlotPrefix: getenv("REDIS_SLOT_PREFIX", "colmena:"),
		SlotTTL:    envDur("REDIS_SLOT_TTL", 0),
	}
}

// NewRedisClient connects and pings with a short timeout.  The returned
// client is nil if Redis cannot be reached.
func NewRedisClient(rc RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if rc.TLS {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      rc.Addr,
		Password:  rc.Password,
		DB:        rc.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
