package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	uuid2 "github.com/gofrs/uuid"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MemoryRepository interface {
	BatchCreate(ctx context.Context, memories []entity.Memory) error
	Search(ctx context.Context, filter entity.MemorySearchFilter) ([]entity.Memory, error)
	ListRecent(ctx context.Context, userID uuid2.UUID, limit int) ([]entity.Memory, error)
}

type memoryRepository struct {
	db *sqlx.DB
}

func NewMemoryRepository(db *sqlx.DB) MemoryRepository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) BatchCreate(ctx context.Context, memories []entity.Memory) error {
	if len(memories) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO memories (id, user_id, window_start, window_end, url_host, summary_text, created_at)
		VALUES (:id, :user_id, :window_start, :window_end, :url_host, :summary_text, :created_at)`

	now := time.Now()
	for i := range memories {
		memories[i].ID = uuid2.UUID(uuid.New())
		memories[i].CreatedAt = now
	}

	_, err = tx.NamedExecContext(ctx, query, memories)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Search matches memories by full-text rank first, falling back to a substring match
// for terms the text search configuration drops (hostnames, short tokens).
func (r *memoryRepository) Search(ctx context.Context, filter entity.MemorySearchFilter) ([]entity.Memory, error) {
	memories := []entity.Memory{}

	query := `
		SELECT id, user_id, window_start, window_end, url_host, summary_text, created_at
		FROM memories
		WHERE user_id = $1
			AND (to_tsvector('english', summary_text) @@ plainto_tsquery('english', $2)
				OR summary_text ILIKE $3)
		ORDER BY ts_rank(to_tsvector('english', summary_text), plainto_tsquery('english', $2)) DESC,
			created_at DESC
		LIMIT $4`

	err := r.db.SelectContext(ctx, &memories, query,
		filter.UserID, filter.Query, "%"+escapeLike(filter.Query)+"%", filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}

	return memories, nil
}

func (r *memoryRepository) ListRecent(ctx context.Context, userID uuid2.UUID, limit int) ([]entity.Memory, error) {
	memories := []entity.Memory{}

	query := `
		SELECT id, user_id, window_start, window_end, url_host, summary_text, created_at
		FROM memories
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &memories, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}

	return memories, nil
}
