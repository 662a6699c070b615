package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

// Memory is a rendered digest of one host's activity within a window.
// WindowStart and WindowEnd are nil when no event in the batch carried a usable timestamp.
type Memory struct {
	ID          uuid.UUID  `json:"id,omitzero" db:"id"`
	UserID      uuid.UUID  `json:"user_id,omitzero" db:"user_id"`
	WindowStart *time.Time `json:"window_start" db:"window_start"`
	WindowEnd   *time.Time `json:"window_end" db:"window_end"`
	URLHost     string     `json:"url_host" db:"url_host"`
	SummaryText string     `json:"summary_text" db:"summary_text"`
	CreatedAt   time.Time  `json:"created_at,omitzero" db:"created_at"`
}

type SummarizeRequest struct {
	Minutes int `json:"minutes" binding:"omitempty,min=1,max=1440"`
}

type SummarizeResult struct {
	CreatedMemories int    `json:"created_memories"`
	Reason          string `json:"reason,omitempty"`
}

type MemorySearchFilter struct {
	UserID uuid.UUID
	Query  string
	Limit  int
}
