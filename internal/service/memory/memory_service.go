package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/internal/metrics"
	"github.com/ZainyAct/browser-memory/internal/repository"
	"github.com/gofrs/uuid"
)

const (
	DefaultSummarizeMinutes = 20
	MaxSummarizeMinutes     = 1440
	SummarizeFetchLimit     = 2000

	NoRecentEventsReason = "no recent events"
)

var (
	ErrInvalidWindow = errors.New("minutes must be between 1 and 1440")
	ErrEmptyQuery    = errors.New("search query is required")
)

type MemoryService interface {
	SummarizeRecent(ctx context.Context, userID uuid.UUID, minutes int) (*entity.SummarizeResult, error)
	Search(ctx context.Context, filter entity.MemorySearchFilter) ([]entity.Memory, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Memory, error)
}

type memoryService struct {
	events   repository.EventRepository
	memories repository.MemoryRepository
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

func NewMemoryService(events repository.EventRepository, memories repository.MemoryRepository,
	m *metrics.Metrics, logger *slog.Logger) MemoryService {
	return &memoryService{
		events:   events,
		memories: memories,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// SummarizeRecent digests the user's events from the last minutes into memories.
// minutes == 0 selects the default window.
func (s *memoryService) SummarizeRecent(ctx context.Context, userID uuid.UUID, minutes int) (*entity.SummarizeResult, error) {
	if minutes == 0 {
		minutes = DefaultSummarizeMinutes
	}
	if minutes < 1 || minutes > MaxSummarizeMinutes {
		return nil, ErrInvalidWindow
	}

	since := s.now().UTC().Add(-time.Duration(minutes) * time.Minute)
	events, err := s.events.ListByUser(ctx, entity.EventFilter{
		UserID:    userID,
		Since:     &since,
		Limit:     SummarizeFetchLimit,
		Ascending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent events: %w", err)
	}

	if len(events) == 0 {
		return &entity.SummarizeResult{CreatedMemories: 0, Reason: NoRecentEventsReason}, nil
	}

	start := time.Now()
	memories := SummarizeEvents(events)
	s.metrics.ObserveDerivation("memories", start)

	for i := range memories {
		memories[i].UserID = userID
	}

	if err := s.memories.BatchCreate(ctx, memories); err != nil {
		return nil, fmt.Errorf("failed to store memories: %w", err)
	}

	s.metrics.MemoriesCreated(len(memories))
	s.logger.Info("summarized recent events",
		slog.String("user_id", userID.String()),
		slog.Int("events", len(events)),
		slog.Int("memories", len(memories)),
		slog.Int("minutes", minutes))

	return &entity.SummarizeResult{CreatedMemories: len(memories)}, nil
}

func (s *memoryService) Search(ctx context.Context, filter entity.MemorySearchFilter) ([]entity.Memory, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Query == "" {
		return nil, ErrEmptyQuery
	}

	memories, err := s.memories.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}

	return memories, nil
}

func (s *memoryService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Memory, error) {
	memories, err := s.memories.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent memories: %w", err)
	}

	return memories, nil
}
