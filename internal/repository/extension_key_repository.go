// internal/repository/extension_key_repository.go
package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
)

const apiKeyPrefix = "bm_"

type ExtensionKeyRepository interface {
	Create(ctx context.Context, key *entity.ExtensionKey) error
	GetByAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionKey, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.ExtensionKey, error)
	Revoke(ctx context.Context, userID, id uuid.UUID) error
	UpdateLastUsed(ctx context.Context, apiKey string) error
}

type extensionKeyRepository struct {
	db *sqlx.DB
}

func NewExtensionKeyRepository(db *sqlx.DB) ExtensionKeyRepository {
	return &extensionKeyRepository{db: db}
}

func (r *extensionKeyRepository) Create(ctx context.Context, key *entity.ExtensionKey) error {
	key.ID = uuid.Must(uuid.NewV4())
	key.CreatedAt = time.Now()
	key.UpdatedAt = key.CreatedAt
	key.IsActive = true

	apiKey, err := generateAPIKey()
	if err != nil {
		return fmt.Errorf("failed to generate API key: %w", err)
	}
	key.APIKey = apiKey

	query := `
		INSERT INTO extension_keys (id, user_id, name, api_key, is_active, created_at, updated_at)
		VALUES (:id, :user_id, :name, :api_key, :is_active, :created_at, :updated_at)`

	_, err = r.db.NamedExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to create extension key: %w", err)
	}

	return nil
}

func (r *extensionKeyRepository) GetByAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionKey, error) {
	var key entity.ExtensionKey
	query := `SELECT * FROM extension_keys WHERE api_key = $1 AND is_active = true`

	err := r.db.GetContext(ctx, &key, query, apiKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get extension key: %w", err)
	}

	return &key, nil
}

func (r *extensionKeyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.ExtensionKey, error) {
	keys := []entity.ExtensionKey{}
	query := `SELECT * FROM extension_keys WHERE user_id = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &keys, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list extension keys: %w", err)
	}

	return keys, nil
}

func (r *extensionKeyRepository) Revoke(ctx context.Context, userID, id uuid.UUID) error {
	query := `
		UPDATE extension_keys
		SET is_active = false, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2 AND is_active = true`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke extension key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *extensionKeyRepository) UpdateLastUsed(ctx context.Context, apiKey string) error {
	query := `
		UPDATE extension_keys
		SET last_used_at = CURRENT_TIMESTAMP
		WHERE api_key = $1 AND is_active = true`

	_, err := r.db.ExecContext(ctx, query, apiKey)
	if err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}

	return nil
}

// generateAPIKey relies on 256 bits of entropy; the unique index on api_key rejects the
// astronomically unlikely collision.
func generateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return apiKeyPrefix + hex.EncodeToString(bytes), nil
}
