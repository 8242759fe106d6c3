package repository

import (
	"context"
	"database/sql"
)

// StreamRepo handles revenue streams.
type StreamRepo struct {
	db *sql.DB
}

func NewStreamRepo(db *sql.DB) *StreamRepo { return &StreamRepo{db: db} }

func (r *StreamRepo) Upsert(ctx context.Context, s Stream) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO revenue_streams(id, name, kind, sort_order)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 kind=excluded.kind,
	 sort_order=excluded.sort_order;
	`, s.ID, s.Name, s.Kind, s.SortOrder)
	return err
}

func (r *StreamRepo) List(ctx context.Context) ([]Stream, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, kind, sort_order, created_at FROM revenue_streams ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Stream
	for rows.Next() {
		var s Stream
		if err := rows.Scan(&s.ID, &s.Name, &s.Kind, &s.SortOrder, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ByName returns the stream with the given name, or nil if absent.
func (r *StreamRepo) ByName(ctx context.Context, name string) (*Stream, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, kind, sort_order, created_at FROM revenue_streams WHERE name = ?`, name)
	var s Stream
	if err := row.Scan(&s.ID, &s.Name, &s.Kind, &s.SortOrder, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
