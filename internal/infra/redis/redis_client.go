package redis

import (
	"context"
	"strings"
	"time"

	"simvid/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the minimal command surface this service needs from Redis.
type RedisClient interface {
	Ping(ctx context.Context) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LPush(ctx context.Context, key string, value interface{}) error
	BRPop(ctx context.Context, timeout time.Duration, key string) (string, error)
	LLen(ctx context.Context, key string) (int64, error)
	Close() error
}

var _ RedisClient = (*Client)(nil)

type Client struct {
	cli *redis.Client
}

// NewClient connects and verifies the broker is reachable. The address
// may be a bare host:port or a redis:// URL (the usual REDIS_URL form).
func NewClient(ctx context.Context, cfg *config.QueueConfig) (*Client, error) {
	var opts *redis.Options
	if strings.Contains(cfg.RedisURL, "://") {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{cli: c}, nil
}

func (c *Client) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }

func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.cli.Set(ctx, key, value, expiration).Err()
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.cli.Get(ctx, key).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.cli.Del(ctx, keys...).Err()
}

func (c *Client) LPush(ctx context.Context, key string, value interface{}) error {
	return c.cli.LPush(ctx, key, value).Err()
}

// BRPop returns the popped value, or redis.Nil when the timeout elapses.
func (c *Client) BRPop(ctx context.Context, timeout time.Duration, key string) (string, error) {
	res, err := c.cli.BRPop(ctx, timeout, key).Result()
	if err != nil {
		return "", err
	}
	// BRPOP replies [key, value]
	return res[1], nil
}

func (c *Client) LLen(ctx context.Context, key string) (int64, error) {
	return c.cli.LLen(ctx, key).Result()
}

func (c *Client) Close() error { return c.cli.Close() }

// IsNil reports whether err is the go-redis "no result" sentinel.
func IsNil(err error) bool { return err == redis.Nil }
