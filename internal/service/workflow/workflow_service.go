package workflow

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
	DefaultGraphLimit = 500
	MaxGraphLimit     = 2000

	viewName = "graph"
)

type ViewCache interface {
	GetUserView(ctx context.Context, userID, view string, dest interface{}) error
	CacheUserView(ctx context.Context, userID, view string, data interface{}, ttl time.Duration) error
}

type WorkflowService interface {
	GetGraph(ctx context.Context, userID uuid.UUID, limit int) (*entity.WorkflowGraph, error)
}

type workflowService struct {
	events  repository.EventRepository
	cache   ViewCache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewWorkflowService(events repository.EventRepository, cache ViewCache, ttl time.Duration,
	m *metrics.Metrics, logger *slog.Logger) WorkflowService {
	return &workflowService{
		events:  events,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

func (s *workflowService) GetGraph(ctx context.Context, userID uuid.UUID, limit int) (*entity.WorkflowGraph, error) {
	view := viewName + ":" + strconv.Itoa(limit)
	useCache := s.cache != nil && s.ttl > 0

	if useCache {
		var cached entity.WorkflowGraph
		err := s.cache.GetUserView(ctx, userID.String(), view, &cached)
		if err == nil {
			s.metrics.ViewCache(viewName, true)
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Debug("graph cache unavailable", slog.Any("error", err))
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
	graph := BuildWorkflowGraph(events)
	s.metrics.ObserveDerivation(viewName, start)

	if useCache {
		if err := s.cache.CacheUserView(ctx, userID.String(), view, graph, s.ttl); err != nil {
			s.logger.Debug("failed to cache graph", slog.Any("error", err))
		}
	}

	return &graph, nil
}
