package workflow

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/middleware"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorkflowService struct {
	limit int
}

func (f *fakeWorkflowService) GetGraph(ctx context.Context, userID uuid.UUID, limit int) (*entity.WorkflowGraph, error) {
	f.limit = limit
	return &entity.WorkflowGraph{
		Nodes: []entity.WorkflowNode{{ID: "a.com", Label: "a.com (click:1)", Host: "a.com", Stats: map[string]int{"click": 1}}},
		Edges: []entity.WorkflowEdge{},
	}, nil
}

func TestGetGraph(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("handler-secret")
	token, err := utils.GenerateToken(secret, time.Hour, uuid.Must(uuid.NewV4()), "alice")
	require.NoError(t, err)

	srv := &fakeWorkflowService{}
	h := NewWorkflowHandler(srv, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := gin.New()
	r.GET("/workflow/graph", middleware.AuthenticationMiddleware(secret), h.GetGraph)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/workflow/graph")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 500, srv.limit)
	assert.JSONEq(t,
		`{"data":{"nodes":[{"id":"a.com","label":"a.com (click:1)","host":"a.com","stats":{"click":1}}],"edges":[]},"success":true}`,
		rec.Body.String())

	rec = get("/workflow/graph?limit=2000")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2000, srv.limit)

	assert.Equal(t, http.StatusBadRequest, get("/workflow/graph?limit=2001").Code)
	assert.Equal(t, http.StatusBadRequest, get("/workflow/graph?limit=abc").Code)
}
