package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareEvent(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	e := entity.Event{Type: "click"}
	prepareEvent(&e, now)

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.NotNil(t, e.Metadata)
	assert.Equal(t, "2024-05-01T10:00:00.000000Z", e.CreatedAt)

	kept := entity.Event{CreatedAt: "2024-01-01T00:00:00Z", Metadata: entity.Metadata{"k": "v"}}
	prepareEvent(&kept, now)
	assert.Equal(t, "2024-01-01T00:00:00Z", kept.CreatedAt)
	assert.Equal(t, "v", kept.Metadata["k"])
}

func TestBatchCreate_Empty(t *testing.T) {
	repo := NewEventRepository(nil)
	assert.NoError(t, repo.BatchCreate(context.Background(), nil))
}

func TestBatchCreate_WrapsErrors(t *testing.T) {
	db, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	err = NewEventRepository(db).BatchCreate(context.Background(), []entity.Event{{Type: "click"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}
