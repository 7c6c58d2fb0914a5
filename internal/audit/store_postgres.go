package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "dataspace/pkg/domain"
)

// PostgresStore persists audit events in the audit_events table. Inserts only;
// the schema carries no UPDATE or DELETE path (see migrations/0001_init.sql).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (id, transfer_id, action, actor, metadata, ts)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(event.ID),
		uuid.UUID(event.TransferID),
		string(event.Action),
		event.Actor,
		event.Metadata,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByTransfer(ctx context.Context, transferID id.TransferID) ([]Event, error) {
	query := `
		SELECT id, transfer_id, action, actor, metadata, ts
		FROM audit_events
		WHERE transfer_id = $1
		ORDER BY ts ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(transferID))
	if err != nil {
		return nil, fmt.Errorf("list audit events by transfer: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) ListByTimeRange(ctx context.Context, from, to time.Time) ([]Event, error) {
	query := `
		SELECT id, transfer_id, action, actor, metadata, ts
		FROM audit_events
		WHERE ts >= $1 AND ts <= $2
		ORDER BY ts ASC
	`
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list audit events by time range: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	events := make([]Event, 0)
	for rows.Next() {
		var (
			eventID    uuid.UUID
			transferID uuid.UUID
			action     string
			e          Event
		)
		if err := rows.Scan(&eventID, &transferID, &action, &e.Actor, &e.Metadata, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.ID = id.EventID(eventID)
		e.TransferID = id.TransferID(transferID)
		e.Action = Action(action)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
