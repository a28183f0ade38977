package kvstore

import (
	"fmt"

	"github.com/fystack/lottery-genius/pkg/common/config"
	"github.com/fystack/lottery-genius/pkg/common/enum"
	"github.com/fystack/lottery-genius/pkg/infra"
)

// NewFromConfig builds the shared cache store. The memory backend has no
// shared store and returns nil.
func NewFromConfig(cfg config.CacheConfig) (infra.KVStore, error) {
	switch cfg.Backend {
	case "", enum.CacheBackendMemory:
		return nil, nil
	case enum.CacheBackendBadger:
		return NewBadgerStore(cfg.Badger.Directory, cfg.Prefix, infra.JSON)
	case enum.CacheBackendRedis:
		client, err := infra.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Prefix, infra.JSON), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}
