package cache

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/storage/redis"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/config"
)

// limiterDatabase keeps rate limiter counters apart from other cache users.
const limiterDatabase = 2

var client *goredis.Client

// SetupCache connects to the cache server configured by CACHE_HOST. It
// returns nil when no host is configured or the server does not answer, in
// which case callers fall back to in-memory state.
func SetupCache(cfg *config.Config) *goredis.Client {
	if cfg.CacheHost == "" {
		return nil
	}
	c := goredis.NewClient(&goredis.Options{
		Addr:     net.JoinHostPort(cfg.CacheHost, cfg.CachePort),
		Password: cfg.CachePassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	pong, err := c.Ping(ctx).Result()
	if err != nil {
		log.Warnf("[Cache] could not connect to %s: %v", c.Options().Addr, err)
		_ = c.Close()
		return nil
	}
	log.Infof("[Cache] connected to %s: %s", c.Options().Addr, pong)
	client = c
	return c
}

// GetClient returns the connected client, or nil.
func GetClient() *goredis.Client {
	return client
}

// LimiterStorage returns Redis backed storage for the rate limiter, or nil
// to keep the limiter in memory when the cache is unavailable.
func LimiterStorage(cfg *config.Config) fiber.Storage {
	if client == nil {
		return nil
	}
	port, err := strconv.Atoi(cfg.CachePort)
	if err != nil {
		log.Warnf("[Cache] invalid CACHE_PORT %q, limiter stays in memory", cfg.CachePort)
		return nil
	}
	return redis.New(redis.Config{
		Host:     cfg.CacheHost,
		Port:     port,
		Password: cfg.CachePassword,
		Database: limiterDatabase,
		Reset:    false,
	})
}
