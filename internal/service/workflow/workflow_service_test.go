package workflow

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

type jsonCache map[string][]byte

func (c jsonCache) GetUserView(ctx context.Context, userID, view string, dest interface{}) error {
	raw, ok := c[userID+"/"+view]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c jsonCache) CacheUserView(ctx context.Context, userID, view string, data interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c[userID+"/"+view] = raw
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hopEvents() []entity.Event {
	return []entity.Event{
		{Type: "click", URL: "https://a.com", CreatedAt: "2024-05-01T10:00:00Z"},
		{Type: "click", URL: "https://b.com", CreatedAt: "2024-05-01T10:01:00Z"},
		{Type: "click", URL: "https://a.com", CreatedAt: "2024-05-01T10:02:00Z"},
		{Type: "click", URL: "https://b.com", CreatedAt: "2024-05-01T10:03:00Z"},
	}
}

func TestGetGraph(t *testing.T) {
	repo := &fakeEventRepo{events: hopEvents()}
	s := NewWorkflowService(repo, nil, 0, nil, discardLogger())
	userID := uuid.Must(uuid.NewV4())

	graph, err := s.GetGraph(context.Background(), userID, 500)
	require.NoError(t, err)

	assert.Equal(t, entity.EventFilter{UserID: userID, Limit: 500, Ascending: true}, repo.filter)
	require.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Edges, 2)
	assert.Equal(t, "a.com->b.com", graph.Edges[0].ID)
	assert.Equal(t, 2, graph.Edges[0].Count)
	require.NotNil(t, graph.Edges[0].Label)
	assert.Equal(t, "2", *graph.Edges[0].Label)
	assert.Nil(t, graph.Edges[1].Label)
}

func TestGetGraph_CachedRoundTrip(t *testing.T) {
	repo := &fakeEventRepo{events: hopEvents()}
	cache := jsonCache{}
	s := NewWorkflowService(repo, cache, time.Minute, nil, discardLogger())
	userID := uuid.Must(uuid.NewV4())

	first, err := s.GetGraph(context.Background(), userID, 500)
	require.NoError(t, err)
	second, err := s.GetGraph(context.Background(), userID, 500)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first, second)
}

func TestGetGraph_RepositoryError(t *testing.T) {
	boom := errors.New("boom")
	s := NewWorkflowService(&fakeEventRepo{err: boom}, nil, 0, nil, discardLogger())

	_, err := s.GetGraph(context.Background(), uuid.Must(uuid.NewV4()), 500)
	assert.ErrorIs(t, err, boom)
}
