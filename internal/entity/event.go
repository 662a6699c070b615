package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gofrs/uuid"
)

const UnknownEventType = "unknown"

// Event is one captured browser interaction. CreatedAt holds an ISO-8601 string as
// delivered by the store or the caller; it may be empty or unparsable.
type Event struct {
	ID          uuid.UUID `json:"id,omitzero" db:"id"`
	UserID      uuid.UUID `json:"user_id,omitzero" db:"user_id"`
	Type        string    `json:"type" db:"type"`
	URL         string    `json:"url,omitempty" db:"url"`
	Title       string    `json:"title,omitempty" db:"title"`
	TextContent string    `json:"text_content,omitempty" db:"text_content"`
	Selector    string    `json:"selector,omitempty" db:"selector"`
	Metadata    Metadata  `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   string    `json:"created_at,omitempty" db:"created_at"`
}

// EventType returns the event's type tag, or "unknown" when it has none.
func (e Event) EventType() string {
	if e.Type == "" {
		return UnknownEventType
	}
	return e.Type
}

// Host returns the comparable host key of the event's URL, or "unknown".
func (e Event) Host() string {
	return utils.HostOrUnknown(e.URL)
}

// Time parses CreatedAt. ok is false when the timestamp is missing or unparsable.
func (e Event) Time() (time.Time, bool) {
	return utils.ParseTimestamp(e.CreatedAt)
}

// Metadata is an open-ended key/value bag stored as JSONB.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Metadata", value)
	}

	out := Metadata{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode metadata: %w", err)
	}
	*m = out
	return nil
}

type CreateEventRequest struct {
	Type        string   `json:"type" binding:"required,max=64"`
	URL         *string  `json:"url,omitempty" binding:"omitempty,max=4096"`
	Title       *string  `json:"title,omitempty" binding:"omitempty,max=1024"`
	TextContent *string  `json:"text_content,omitempty" binding:"omitempty,max=4096"`
	Selector    *string  `json:"selector,omitempty" binding:"omitempty,max=1024"`
	Metadata    Metadata `json:"metadata,omitempty"`
}

type BatchCreateEventRequest struct {
	Events []CreateEventRequest `json:"events" binding:"required,dive"`
}

type IngestResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped,omitempty"`
}

// EventFilter scopes a fetch to one user. Events are returned newest first unless
// Ascending is set.
type EventFilter struct {
	UserID    uuid.UUID
	Since     *time.Time
	Limit     int
	Ascending bool
}
