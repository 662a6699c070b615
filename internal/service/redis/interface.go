package redis

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

type ServiceInterface interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error

	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	CacheUserView(ctx context.Context, userID, view string, data interface{}, ttl time.Duration) error
	GetUserView(ctx context.Context, userID, view string, dest interface{}) error
	InvalidateUserViews(ctx context.Context, userID string) error

	Health(ctx context.Context) error
	Close() error
}
