package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZainyAct/browser-memory/config"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("redis unavailable")

const scanBatch = 100

type Service struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewRedisService(cfg config.RedisConfig, logger *slog.Logger) *Service {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	s := newService(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("failed to connect to redis, caching degraded", slog.Any("error", err))
	} else {
		logger.Info("connected to redis", slog.String("addr", client.Options().Addr))
	}

	return s
}

func newService(client *redis.Client, logger *slog.Logger) *Service {
	settings := gobreaker.Settings{
		Name:        "redis",
		MaxRequests: 1,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &Service{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

func (r *Service) execute(fn func() error) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	return err
}

func (r *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return r.execute(func() error {
		return r.client.Set(ctx, key, jsonValue, ttl).Err()
	})
}

func (r *Service) Get(ctx context.Context, key string, dest interface{}) error {
	var val []byte
	err := r.execute(func() error {
		var err error
		val, err = r.client.Get(ctx, key).Bytes()
		return err
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get value: %w", err)
	}

	return json.Unmarshal(val, dest)
}

func (r *Service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.execute(func() error {
		return r.client.Del(ctx, keys...).Err()
	})
}

// rateLimitScript increments the window counter and arms its expiry in one step.
// Any key left without a TTL gets one on the next hit.
var rateLimitScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// CheckRateLimit counts hits in a fixed window starting at the first hit.
func (r *Service) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	var count int64
	err := r.execute(func() error {
		var err error
		count, err = rateLimitScript.Run(ctx, r.client, []string{key}, window.Milliseconds()).Int64()
		return err
	})
	if err != nil {
		return false, err
	}

	return count <= int64(limit), nil
}

func viewKey(userID, view string) string {
	return fmt.Sprintf("view:%s:%s", userID, view)
}

func (r *Service) CacheUserView(ctx context.Context, userID, view string, data interface{}, ttl time.Duration) error {
	return r.Set(ctx, viewKey(userID, view), data, ttl)
}

func (r *Service) GetUserView(ctx context.Context, userID, view string, dest interface{}) error {
	return r.Get(ctx, viewKey(userID, view), dest)
}

// InvalidateUserViews drops every cached view of one user.
func (r *Service) InvalidateUserViews(ctx context.Context, userID string) error {
	return r.execute(func() error {
		iter := r.client.Scan(ctx, 0, viewKey(userID, "*"), scanBatch).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return r.client.Del(ctx, keys...).Err()
	})
}

func (r *Service) Close() error {
	return r.client.Close()
}

func (r *Service) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
