package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/internal/metrics"
	"github.com/ZainyAct/browser-memory/internal/repository"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gofrs/uuid"
)

const (
	MaxBatchSize       = 1000
	DefaultRecentLimit = 100
	MaxRecentLimit     = 500

	// hostFilterFetchFactor over-fetches when filtering by host in memory.
	hostFilterFetchFactor = 3
)

var (
	ErrBatchTooLarge = fmt.Errorf("batch exceeds %d events", MaxBatchSize)
	ErrMissingType   = errors.New("event type is required")
)

// HostFilter drops events captured on sensitive sites.
type HostFilter interface {
	Blocks(host string) bool
}

type ViewInvalidator interface {
	InvalidateUserViews(ctx context.Context, userID string) error
}

type EventService interface {
	Ingest(ctx context.Context, userID uuid.UUID, req entity.CreateEventRequest) (*entity.IngestResult, error)
	IngestBatch(ctx context.Context, userID uuid.UUID, req entity.BatchCreateEventRequest) (*entity.IngestResult, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int, host string) ([]entity.Event, error)
}

type eventService struct {
	repo    repository.EventRepository
	filter  HostFilter
	views   ViewInvalidator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewEventService(repo repository.EventRepository, filter HostFilter, views ViewInvalidator,
	m *metrics.Metrics, logger *slog.Logger) EventService {
	return &eventService{
		repo:    repo,
		filter:  filter,
		views:   views,
		metrics: m,
		logger:  logger,
	}
}

func (s *eventService) Ingest(ctx context.Context, userID uuid.UUID, req entity.CreateEventRequest) (*entity.IngestResult, error) {
	return s.IngestBatch(ctx, userID, entity.BatchCreateEventRequest{Events: []entity.CreateEventRequest{req}})
}

func (s *eventService) IngestBatch(ctx context.Context, userID uuid.UUID, req entity.BatchCreateEventRequest) (*entity.IngestResult, error) {
	if len(req.Events) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	result := &entity.IngestResult{}
	events := make([]entity.Event, 0, len(req.Events))
	for _, r := range req.Events {
		e, err := toEvent(userID, r)
		if err != nil {
			return nil, err
		}
		if s.blocked(e) {
			result.Skipped++
			continue
		}
		events = append(events, e)
	}

	if len(events) > 0 {
		if err := s.repo.BatchCreate(ctx, events); err != nil {
			return nil, fmt.Errorf("failed to store events: %w", err)
		}
		s.invalidateViews(ctx, userID)
	}

	result.Inserted = len(events)
	s.metrics.EventsIngested(result.Inserted, result.Skipped)
	s.logger.Debug("ingested events",
		slog.String("user_id", userID.String()),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped))

	return result, nil
}

// Recent returns the newest events, optionally only those on host. Host filtering
// happens after the fetch, so fewer than limit events may come back.
func (s *eventService) Recent(ctx context.Context, userID uuid.UUID, limit int, host string) ([]entity.Event, error) {
	host = strings.ToLower(strings.TrimSpace(host))

	fetchLimit := limit
	if host != "" {
		fetchLimit = min(MaxRecentLimit, limit*hostFilterFetchFactor)
	}

	events, err := s.repo.ListByUser(ctx, entity.EventFilter{UserID: userID, Limit: fetchLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}

	if host == "" {
		return events, nil
	}

	filtered := make([]entity.Event, 0, limit)
	for _, e := range events {
		if h, ok := utils.SafeHost(e.URL); ok && h == host {
			filtered = append(filtered, e)
			if len(filtered) == limit {
				break
			}
		}
	}

	return filtered, nil
}

func (s *eventService) blocked(e entity.Event) bool {
	if s.filter == nil {
		return false
	}
	host, ok := utils.SafeHost(e.URL)
	return ok && s.filter.Blocks(host)
}

func (s *eventService) invalidateViews(ctx context.Context, userID uuid.UUID) {
	if s.views == nil {
		return
	}
	if err := s.views.InvalidateUserViews(ctx, userID.String()); err != nil {
		s.logger.Debug("failed to invalidate cached views", slog.Any("error", err))
	}
}

func toEvent(userID uuid.UUID, req entity.CreateEventRequest) (entity.Event, error) {
	eventType := strings.TrimSpace(req.Type)
	if eventType == "" {
		return entity.Event{}, ErrMissingType
	}

	e := entity.Event{
		UserID:   userID,
		Type:     eventType,
		Metadata: req.Metadata,
	}
	if req.URL != nil {
		e.URL = *req.URL
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.TextContent != nil {
		e.TextContent = *req.TextContent
	}
	if req.Selector != nil {
		e.Selector = *req.Selector
	}
	if e.Metadata == nil {
		e.Metadata = entity.Metadata{}
	}

	return e, nil
}
