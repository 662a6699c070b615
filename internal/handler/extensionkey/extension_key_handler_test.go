package extensionkey

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	service "github.com/ZainyAct/browser-memory/internal/service/extensionkey"
	"github.com/ZainyAct/browser-memory/middleware"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeyService struct {
	keys map[uuid.UUID]entity.ExtensionKey
}

func (f *fakeKeyService) Create(ctx context.Context, userID uuid.UUID, req entity.CreateExtensionKeyRequest) (*entity.ExtensionKey, error) {
	key := entity.ExtensionKey{ID: uuid.Must(uuid.NewV4()), UserID: userID, Name: req.Name, APIKey: "bm_secret", IsActive: true}
	f.keys[key.ID] = key
	return &key, nil
}

func (f *fakeKeyService) List(ctx context.Context, userID uuid.UUID) ([]entity.ExtensionKeyPublic, error) {
	out := []entity.ExtensionKeyPublic{}
	for _, k := range f.keys {
		if k.UserID == userID {
			out = append(out, entity.ExtensionKeyPublic{ID: k.ID, Name: k.Name, IsActive: k.IsActive})
		}
	}
	return out, nil
}

func (f *fakeKeyService) Revoke(ctx context.Context, userID, id uuid.UUID) error {
	k, ok := f.keys[id]
	if !ok || k.UserID != userID {
		return service.ErrKeyNotFound
	}
	delete(f.keys, id)
	return nil
}

func (f *fakeKeyService) ValidateAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionKey, error) {
	return nil, service.ErrInvalidAPIKey
}

func TestExtensionKeyLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("handler-secret")
	token, err := utils.GenerateToken(secret, time.Hour, uuid.Must(uuid.NewV4()), "alice")
	require.NoError(t, err)

	srv := &fakeKeyService{keys: map[uuid.UUID]entity.ExtensionKey{}}
	h := NewExtensionKeyHandler(srv, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := gin.New()
	keys := r.Group("/extension/keys", middleware.AuthenticationMiddleware(secret))
	keys.POST("", h.CreateKey)
	keys.GET("", h.ListKeys)
	keys.DELETE("/:id", h.RevokeKey)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/extension/keys", `{"name":"laptop"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"apiKey":"bm_secret"`)

	rec = do(http.MethodPost, "/extension/keys", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodGet, "/extension/keys", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"laptop"`)
	assert.NotContains(t, rec.Body.String(), "bm_secret")

	var id uuid.UUID
	for k := range srv.keys {
		id = k
	}

	rec = do(http.MethodDelete, "/extension/keys/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodDelete, "/extension/keys/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodDelete, "/extension/keys/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
