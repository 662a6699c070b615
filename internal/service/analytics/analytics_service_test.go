package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/internal/service/redis"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	events []entity.Event
	err    error
	calls  int
	filter entity.EventFilter
}

func (f *fakeEventRepo) BatchCreate(ctx context.Context, events []entity.Event) error { return nil }

func (f *fakeEventRepo) ListByUser(ctx context.Context, filter entity.EventFilter) ([]entity.Event, error) {
	f.calls++
	f.filter = filter
	return f.events, f.err
}

type memoryCache struct {
	views map[string][]byte
	err   error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{views: map[string][]byte{}}
}

func (c *memoryCache) GetUserView(ctx context.Context, userID, view string, dest interface{}) error {
	if c.err != nil {
		return c.err
	}
	raw, ok := c.views[userID+"/"+view]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) CacheUserView(ctx context.Context, userID, view string, data interface{}, ttl time.Duration) error {
	if c.err != nil {
		return c.err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.views[userID+"/"+view] = raw
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvents() []entity.Event {
	return []entity.Event{
		{Type: "click", URL: "https://a.com", CreatedAt: "2024-05-01T10:00:00Z"},
		{Type: "navigation", URL: "https://b.com", CreatedAt: "2024-05-02T10:00:00Z"},
	}
}

func TestGetCharts_LoadsOldestFirst(t *testing.T) {
	repo := &fakeEventRepo{events: sampleEvents()}
	s := NewAnalyticsService(repo, nil, 0, nil, discardLogger())
	userID := uuid.Must(uuid.NewV4())

	charts, err := s.GetCharts(context.Background(), userID, 1000)
	require.NoError(t, err)

	assert.Equal(t, entity.EventFilter{UserID: userID, Limit: 1000, Ascending: true}, repo.filter)
	assert.Len(t, charts.ByType, 2)
	assert.Equal(t, []entity.DateCount{{Date: "2024-05-01", Count: 1}, {Date: "2024-05-02", Count: 1}}, charts.OverTime)
}

func TestGetCharts_ServesFromCache(t *testing.T) {
	repo := &fakeEventRepo{events: sampleEvents()}
	cache := newMemoryCache()
	s := NewAnalyticsService(repo, cache, time.Minute, nil, discardLogger())
	userID := uuid.Must(uuid.NewV4())

	first, err := s.GetCharts(context.Background(), userID, 1000)
	require.NoError(t, err)
	second, err := s.GetCharts(context.Background(), userID, 1000)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first, second)

	_, err = s.GetCharts(context.Background(), userID, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestGetCharts_CacheFailureFallsThrough(t *testing.T) {
	repo := &fakeEventRepo{events: sampleEvents()}
	cache := newMemoryCache()
	cache.err = redis.ErrUnavailable
	s := NewAnalyticsService(repo, cache, time.Minute, nil, discardLogger())

	charts, err := s.GetCharts(context.Background(), uuid.Must(uuid.NewV4()), 1000)
	require.NoError(t, err)
	assert.Len(t, charts.ByHost, 2)
}

func TestGetCharts_RepositoryError(t *testing.T) {
	boom := errors.New("boom")
	s := NewAnalyticsService(&fakeEventRepo{err: boom}, nil, 0, nil, discardLogger())

	_, err := s.GetCharts(context.Background(), uuid.Must(uuid.NewV4()), 1000)
	assert.ErrorIs(t, err, boom)
}
