package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "dataspace/pkg/domain"
)

// PostgresStore persists transfers in the transfers table (see
// migrations/0001_init.sql). Updates go through optimistic row replacement;
// the database provides the single-writer-per-row consistency the state
// machine relies on.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, t Transfer) error {
	query := `
		INSERT INTO transfers (id, consumer_id, provider_id, data_type, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(t.ID), t.ConsumerID, t.ProviderID, t.DataType, string(t.State), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, transferID id.TransferID) (Transfer, error) {
	query := `
		SELECT id, consumer_id, provider_id, data_type, state, created_at, updated_at
		FROM transfers
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(transferID))

	var (
		rawID    uuid.UUID
		rawState string
		t        Transfer
	)
	err := row.Scan(&rawID, &t.ConsumerID, &t.ProviderID, &t.DataType, &rawState, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Transfer{}, ErrNotFound
	}
	if err != nil {
		return Transfer{}, fmt.Errorf("find transfer: %w", err)
	}
	t.ID = id.TransferID(rawID)
	t.State = State(rawState)
	return t, nil
}

func (s *PostgresStore) Update(ctx context.Context, t Transfer) error {
	query := `
		UPDATE transfers
		SET state = $2, updated_at = $3
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, uuid.UUID(t.ID), string(t.State), t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, q ListQuery) (Page, error) {
	field := q.SortField
	if !ValidSortField(field) {
		field = "created_at"
	}
	direction := "ASC"
	if q.Desc {
		direction = "DESC"
	}

	// field passed the allowlist above; direction is one of two literals.
	query := fmt.Sprintf(`
		SELECT id, consumer_id, provider_id, data_type, state, created_at
		FROM transfers
		ORDER BY %s %s
		LIMIT $1 OFFSET $2
	`, field, direction)

	rows, err := s.db.QueryContext(ctx, query, q.Size, q.Page*q.Size)
	if err != nil {
		return Page{}, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	items := make([]Summary, 0, q.Size)
	for rows.Next() {
		var (
			rawID    uuid.UUID
			rawState string
			s        Summary
		)
		if err := rows.Scan(&rawID, &s.ConsumerID, &s.ProviderID, &s.DataType, &rawState, &s.CreatedAt); err != nil {
			return Page{}, fmt.Errorf("scan transfer row: %w", err)
		}
		s.ID = id.TransferID(rawID)
		s.State = State(rawState)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("iterate transfers: %w", err)
	}

	total, err := s.Count(ctx)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Page: q.Page, Size: q.Size, Total: total}, nil
}

func (s *PostgresStore) CountByState(ctx context.Context) (map[string]int64, error) {
	return s.countGrouped(ctx, "state")
}

func (s *PostgresStore) CountByDataType(ctx context.Context) (map[string]int64, error) {
	return s.countGrouped(ctx, "data_type")
}

func (s *PostgresStore) countGrouped(ctx context.Context, column string) (map[string]int64, error) {
	// column is a compile-time constant at both call sites.
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM transfers GROUP BY %s`, column, column)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count transfers by %s: %w", column, err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			key   string
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scan grouped count: %w", err)
		}
		out[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grouped counts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transfers`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count transfers: %w", err)
	}
	return total, nil
}
