package extensionkey

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeyRepo struct {
	mu       sync.Mutex
	keys     []entity.ExtensionKey
	lastUsed chan string
}

func newFakeKeyRepo() *fakeKeyRepo {
	return &fakeKeyRepo{lastUsed: make(chan string, 4)}
}

func (f *fakeKeyRepo) Create(ctx context.Context, key *entity.ExtensionKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key.ID = uuid.Must(uuid.NewV4())
	key.APIKey = "bm_" + key.ID.String()
	key.IsActive = true
	key.CreatedAt = time.Now()
	f.keys = append(f.keys, *key)
	return nil
}

func (f *fakeKeyRepo) GetByAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range f.keys {
		if k.APIKey == apiKey && k.IsActive {
			k := k
			return &k, nil
		}
	}
	return nil, nil
}

func (f *fakeKeyRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.ExtensionKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.ExtensionKey
	for _, k := range f.keys {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeKeyRepo) Revoke(ctx context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, k := range f.keys {
		if k.ID == id && k.UserID == userID && k.IsActive {
			f.keys[i].IsActive = false
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeKeyRepo) UpdateLastUsed(ctx context.Context, apiKey string) error {
	f.lastUsed <- apiKey
	return nil
}

func newTestService(repo *fakeKeyRepo) ExtensionKeyService {
	return NewExtensionKeyService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateListAndRevoke(t *testing.T) {
	repo := newFakeKeyRepo()
	s := newTestService(repo)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	key, err := s.Create(ctx, userID, entity.CreateExtensionKeyRequest{Name: "laptop"})
	require.NoError(t, err)
	assert.NotEmpty(t, key.APIKey)
	assert.Equal(t, userID, key.UserID)

	keys, err := s.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "laptop", keys[0].Name)
	assert.True(t, keys[0].IsActive)

	require.NoError(t, s.Revoke(ctx, userID, key.ID))
	assert.ErrorIs(t, s.Revoke(ctx, userID, key.ID), ErrKeyNotFound)
	assert.ErrorIs(t, s.Revoke(ctx, uuid.Must(uuid.NewV4()), key.ID), ErrKeyNotFound)

	_, err = s.ValidateAPIKey(ctx, key.APIKey)
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestValidateAPIKeyRecordsUse(t *testing.T) {
	repo := newFakeKeyRepo()
	s := newTestService(repo)
	ctx := context.Background()

	key, err := s.Create(ctx, uuid.Must(uuid.NewV4()), entity.CreateExtensionKeyRequest{Name: "desktop"})
	require.NoError(t, err)

	got, err := s.ValidateAPIKey(ctx, key.APIKey)
	require.NoError(t, err)
	assert.Equal(t, key.ID, got.ID)

	select {
	case used := <-repo.lastUsed:
		assert.Equal(t, key.APIKey, used)
	case <-time.After(time.Second):
		t.Fatal("last use was not recorded")
	}
}

func TestValidateAPIKeyRejectsUnknown(t *testing.T) {
	s := newTestService(newFakeKeyRepo())

	_, err := s.ValidateAPIKey(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	_, err = s.ValidateAPIKey(context.Background(), "bm_missing")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}
