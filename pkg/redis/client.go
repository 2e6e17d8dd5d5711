package redis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidConfig is returned when Config fails validation at Connect time.
var ErrInvalidConfig = errors.New("redis: invalid config")

type client struct {
	logger  *logger.Logger
	config  *Config
	cmdable redis.Cmdable
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger *logger.Logger, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	if err := c.validateConfig(); err != nil {
		return err
	}

	var cmdable redis.Cmdable
	switch c.config.Mode {
	case Standalone:
		cmdable = redis.NewClient(&redis.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	case Cluster:
		cmdable = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	default:
		return fmt.Errorf("%w: unsupported mode %q", ErrInvalidConfig, c.config.Mode)
	}

	c.cmdable = cmdable

	return c.cmdable.Ping(ctx).Err()
}

func (c *client) validateConfig() error {
	cfg := c.config
	switch {
	case cfg == nil:
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	case len(cfg.Addrs) == 0:
		return fmt.Errorf("%w: addrs is empty", ErrInvalidConfig)
	case cfg.Mode != Standalone && cfg.Mode != Cluster:
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, cfg.Mode)
	case cfg.ConnectTimeout <= 0:
		return fmt.Errorf("%w: connect timeout", ErrInvalidConfig)
	case cfg.PoolSize <= 0:
		return fmt.Errorf("%w: pool size", ErrInvalidConfig)
	case cfg.MaxIdleConns < 0:
		return fmt.Errorf("%w: max idle conns", ErrInvalidConfig)
	case cfg.ConnMaxLifetime <= 0:
		return fmt.Errorf("%w: conn max lifetime", ErrInvalidConfig)
	case cfg.ConnMaxIdleTime <= 0:
		return fmt.Errorf("%w: conn max idle time", ErrInvalidConfig)
	case cfg.PoolTimeout <= 0:
		return fmt.Errorf("%w: pool timeout", ErrInvalidConfig)
	case cfg.MaxRetries < 0:
		return fmt.Errorf("%w: max retries", ErrInvalidConfig)
	case cfg.MinRetryBackoff < 0:
		return fmt.Errorf("%w: min retry backoff", ErrInvalidConfig)
	case cfg.MaxRetryBackoff < 0:
		return fmt.Errorf("%w: max retry backoff", ErrInvalidConfig)
	}
	return nil
}

// Reconnect retries Connect with exponential backoff and jitter, giving up
// (returning true regardless, matching the teacher's fire-and-forget
// retry loop) after ReconnectMaxRetries attempts.
func (c *client) Reconnect(ctx context.Context) bool {
	baseDelay := c.config.MinRetryBackoff
	maxDelay := c.config.MaxRetryBackoff

	for i := range c.config.ReconnectMaxRetries {
		backoff := min(baseDelay*time.Duration(math.Pow(2, float64(i))), maxDelay)
		jitter := time.Duration(rand.IntN(1000)) * time.Millisecond
		totalDelay := backoff + jitter

		c.logger.Info("reconnecting to redis",
			logger.Field{Key: "attempt", Value: i + 1},
			logger.Field{Key: "delay", Value: totalDelay},
		)

		select {
		case <-ctx.Done():
			c.logger.Info("reconnect cancelled", logger.Field{Key: "reason", Value: ctx.Err()})
			return false
		case <-time.After(totalDelay):
			connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.Connect(connectCtx)
			cancel()
			if err == nil {
				c.logger.Info("reconnected to redis", logger.Field{Key: "attempt", Value: i + 1})
				return true
			}
			c.logger.Error(err, logger.Field{Key: "attempt", Value: i + 1})
		}
	}

	return true
}

func (c *client) Disconnect(ctx context.Context) error {
	switch c.config.Mode {
	case Standalone:
		return c.cmdable.(*redis.Client).Close()
	case Cluster:
		return c.cmdable.(*redis.ClusterClient).Close()
	default:
		return fmt.Errorf("%w: unsupported mode for disconnect", ErrInvalidConfig)
	}
}

func (c *client) Ping(ctx context.Context) error {
	return c.cmdable.Ping(ctx).Err()
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.cmdable.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, nil
}

func (c *client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if err := c.cmdable.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}
