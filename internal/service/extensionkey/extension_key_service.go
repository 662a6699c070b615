package extensionkey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/internal/repository"
	"github.com/gofrs/uuid"
)

var (
	ErrKeyNotFound   = errors.New("extension key not found")
	ErrInvalidAPIKey = errors.New("invalid or inactive API key")
)

const lastUsedTimeout = 5 * time.Second

type ExtensionKeyService interface {
	Create(ctx context.Context, userID uuid.UUID, req entity.CreateExtensionKeyRequest) (*entity.ExtensionKey, error)
	List(ctx context.Context, userID uuid.UUID) ([]entity.ExtensionKeyPublic, error)
	Revoke(ctx context.Context, userID, id uuid.UUID) error
	ValidateAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionKey, error)
}

type extensionKeyService struct {
	repo   repository.ExtensionKeyRepository
	logger *slog.Logger
}

func NewExtensionKeyService(repo repository.ExtensionKeyRepository, logger *slog.Logger) ExtensionKeyService {
	return &extensionKeyService{
		repo:   repo,
		logger: logger,
	}
}

// Create issues a new key. The secret is only ever returned here.
func (s *extensionKeyService) Create(ctx context.Context, userID uuid.UUID, req entity.CreateExtensionKeyRequest) (*entity.ExtensionKey, error) {
	key := &entity.ExtensionKey{
		UserID: userID,
		Name:   req.Name,
	}

	if err := s.repo.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to create extension key: %w", err)
	}

	return key, nil
}

func (s *extensionKeyService) List(ctx context.Context, userID uuid.UUID) ([]entity.ExtensionKeyPublic, error) {
	keys, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list extension keys: %w", err)
	}

	public := make([]entity.ExtensionKeyPublic, len(keys))
	for i, key := range keys {
		public[i] = toPublicKey(key)
	}

	return public, nil
}

func (s *extensionKeyService) Revoke(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.Revoke(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("failed to revoke extension key: %w", err)
	}

	return nil
}

func (s *extensionKeyService) ValidateAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionKey, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	key, err := s.repo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to validate API key: %w", err)
	}
	if key == nil {
		return nil, ErrInvalidAPIKey
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lastUsedTimeout)
		defer cancel()
		if err := s.repo.UpdateLastUsed(ctx, apiKey); err != nil {
			s.logger.Warn("failed to update key last use", slog.String("key_id", key.ID.String()), slog.Any("error", err))
		}
	}()

	return key, nil
}

func toPublicKey(key entity.ExtensionKey) entity.ExtensionKeyPublic {
	return entity.ExtensionKeyPublic{
		ID:         key.ID,
		Name:       key.Name,
		IsActive:   key.IsActive,
		CreatedAt:  key.CreatedAt,
		LastUsedAt: key.LastUsedAt,
	}
}
