package kvstore

import (
	"errors"
	"time"

	"github.com/fystack/lottery-genius/pkg/common/enum"
	"github.com/fystack/lottery-genius/pkg/infra"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps values in redis with native key expiry.
type RedisStore struct {
	client infra.RedisClient
	prefix string
	codec  infra.Codec
}

func NewRedisStore(client infra.RedisClient, prefix string, codec infra.Codec) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, codec: codec}
}

func (r *RedisStore) GetName() string {
	return string(enum.CacheBackendRedis)
}

func (r *RedisStore) Get(key string) ([]byte, error) {
	k, err := joinKey(r.prefix, key)
	if err != nil {
		return nil, err
	}
	val, err := r.client.Get(k)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(val), nil
}

func (r *RedisStore) Set(key string, value []byte, ttl time.Duration) error {
	k, err := joinKey(r.prefix, key)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(k, value, ttl)
}

func (r *RedisStore) SetAny(key string, value any, ttl time.Duration) error {
	if err := checkKeyAndValue(key, value); err != nil {
		return err
	}
	data, err := r.codec.Marshal(value)
	if err != nil {
		return err
	}
	return r.Set(key, data, ttl)
}

func (r *RedisStore) GetAny(key string, value any) (bool, error) {
	if err := checkKeyAndValue(key, value); err != nil {
		return false, err
	}
	data, err := r.Get(key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, r.codec.Unmarshal(data, value)
}

func (r *RedisStore) Delete(key string) error {
	k, err := joinKey(r.prefix, key)
	if err != nil {
		return err
	}
	return r.client.Del(k)
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
