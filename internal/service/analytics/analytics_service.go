package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/internal/metrics"
	"github.com/ZainyAct/browser-memory/internal/repository"
	"github.com/ZainyAct/browser-memory/internal/service/redis"
	"github.com/gofrs/uuid"
)

const (
	DefaultChartsLimit = 1000
	MaxChartsLimit     = 5000

	viewName = "charts"
)

// ViewCache stores derived views per user.
type ViewCache interface {
	GetUserView(ctx context.Context, userID, view string, dest interface{}) error
	CacheUserView(ctx context.Context, userID, view string, data interface{}, ttl time.Duration) error
}

type AnalyticsService interface {
	GetCharts(ctx context.Context, userID uuid.UUID, limit int) (*entity.AnalyticsCharts, error)
}

type analyticsService struct {
	events  repository.EventRepository
	cache   ViewCache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAnalyticsService builds the charts service. A nil cache or a zero ttl disables caching.
func NewAnalyticsService(events repository.EventRepository, cache ViewCache, ttl time.Duration,
	m *metrics.Metrics, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		events:  events,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

func (s *analyticsService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

// GetCharts aggregates the user's oldest limit events.
func (s *analyticsService) GetCharts(ctx context.Context, userID uuid.UUID, limit int) (*entity.AnalyticsCharts, error) {
	view := viewName + ":" + strconv.Itoa(limit)

	if s.cacheEnabled() {
		var cached entity.AnalyticsCharts
		err := s.cache.GetUserView(ctx, userID.String(), view, &cached)
		if err == nil {
			s.metrics.ViewCache(viewName, true)
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Debug("chart cache unavailable", slog.Any("error", err))
		}
		s.metrics.ViewCache(viewName, false)
	}

	events, err := s.events.ListByUser(ctx, entity.EventFilter{
		UserID:    userID,
		Limit:     limit,
		Ascending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	start := time.Now()
	charts := BuildAnalyticsCharts(events)
	s.metrics.ObserveDerivation(viewName, start)

	if s.cacheEnabled() {
		if err := s.cache.CacheUserView(ctx, userID.String(), view, charts, s.ttl); err != nil {
			s.logger.Debug("failed to cache charts", slog.Any("error", err))
		}
	}

	return &charts, nil
}
