package cache

import (
	"fmt"

	"github.com/dermalog/backend/internal/domain"
)

// New builds the cache backend named by cacheType ("memory" or "redis")
func New(cacheType, redisURL string) (domain.CacheRepository, error) {
	switch cacheType {
	case "memory":
		return NewMemoryCache(), nil
	case "redis":
		redisCache, err := NewRedisCache(redisURL)
		if err != nil {
			return nil, err
		}
		return redisCache, nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheType)
	}
}
