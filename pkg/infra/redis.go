package infra

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/fystack/lottery-genius/pkg/common/config"
	"github.com/fystack/lottery-genius/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// RedisClient abstracts the few redis commands the cache store needs.
type RedisClient interface {
	GetClient() *redis.Client
	Set(key string, value any, expiration time.Duration) error
	Get(key string) (string, error)
	Del(keys ...string) error
	Close() error
}

type RedisWrapper struct {
	client *redis.Client
}

// redisOptions accepts either a redis:// (or rediss:// for TLS) URL or a bare
// host:port address.
func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	if strings.Contains(cfg.URL, "://") {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.URL, DB: cfg.DB}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	cpus := runtime.GOMAXPROCS(0)
	opts.PoolSize = cpus * 4
	opts.MinIdleConns = cpus
	opts.ConnMaxIdleTime = 5 * time.Minute
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second
	opts.MaxRetries = 2
	return opts, nil
}

func NewRedisClient(cfg config.RedisConfig) (RedisClient, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Connected to Redis", "addr", opts.Addr, "pong", pong)

	return &RedisWrapper{client: client}, nil
}

func (rw *RedisWrapper) GetClient() *redis.Client {
	return rw.client
}

func (rw *RedisWrapper) Set(key string, value any, expiration time.Duration) error {
	return rw.client.Set(context.Background(), key, value, expiration).Err()
}

func (rw *RedisWrapper) Get(key string) (string, error) {
	return rw.client.Get(context.Background(), key).Result()
}

func (rw *RedisWrapper) Del(keys ...string) error {
	return rw.client.Del(context.Background(), keys...).Err()
}

func (rw *RedisWrapper) Close() error {
	return rw.client.Close()
}
