package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	uuid2 "github.com/gofrs/uuid"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type EventRepository interface {
	BatchCreate(ctx context.Context, events []entity.Event) error
	ListByUser(ctx context.Context, filter entity.EventFilter) ([]entity.Event, error)
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

// created_at is rendered as a fixed-width UTC ISO string so callers can order it lexically.
const eventColumns = `
	id,
	user_id,
	COALESCE(type, '') AS type,
	COALESCE(url, '') AS url,
	COALESCE(title, '') AS title,
	COALESCE(text_content, '') AS text_content,
	COALESCE(selector, '') AS selector,
	metadata,
	to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US"Z"') AS created_at`

const insertEventQuery = `
	INSERT INTO events (id, user_id, type, url, title, text_content, selector, metadata, created_at)
	VALUES (:id, :user_id, :type, NULLIF(:url, ''), NULLIF(:title, ''), NULLIF(:text_content, ''),
	        NULLIF(:selector, ''), :metadata, CAST(:created_at AS timestamptz))`

func (r *eventRepository) BatchCreate(ctx context.Context, events []entity.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for i := range events {
		prepareEvent(&events[i], now)
	}

	_, err = tx.NamedExecContext(ctx, insertEventQuery, events)
	if err != nil {
		return fmt.Errorf("failed to create events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}

	return nil
}

func prepareEvent(event *entity.Event, now time.Time) {
	event.ID = uuid2.UUID(uuid.New())
	if event.Metadata == nil {
		event.Metadata = entity.Metadata{}
	}
	if event.CreatedAt == "" {
		event.CreatedAt = utils.FormatTimestamp(now)
	}
}

func (r *eventRepository) ListByUser(ctx context.Context, filter entity.EventFilter) ([]entity.Event, error) {
	events := []entity.Event{}

	query := "SELECT " + eventColumns + " FROM events WHERE user_id = $1"
	args := []interface{}{filter.UserID}
	argIndex := 2

	if filter.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filter.Since)
		argIndex++
	}

	if filter.Ascending {
		query += " ORDER BY events.created_at ASC"
	} else {
		query += " ORDER BY events.created_at DESC"
	}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}
