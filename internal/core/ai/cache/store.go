package cache

import (
	"context"
	"fmt"

	"recipe-share/internal/infrastructure/config"
)

// Store 草稿暫存
type Store interface {
	// Get 不存在或已過期時回傳 common.ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New 依 cache.driver 建立 Store
func New(cfg config.CacheConfig) (Store, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedisStore(cfg)
	case "memory", "":
		return NewManager(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}
