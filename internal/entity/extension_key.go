package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

// ExtensionKey is an API key the browser extension sends as X-API-Key.
type ExtensionKey struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	Name       string     `json:"name" db:"name"`
	APIKey     string     `json:"apiKey,omitempty" db:"api_key"`
	IsActive   bool       `json:"isActive" db:"is_active"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
	LastUsedAt *time.Time `json:"lastUsedAt" db:"last_used_at"`
}

type ExtensionKeyPublic struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
}

type CreateExtensionKeyRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100"`
}
