package repository

import (
	"context"
	"database/sql"
)

// GroupRepo handles client groups.
type GroupRepo struct {
	db *sql.DB
}

func NewGroupRepo(db *sql.DB) *GroupRepo { return &GroupRepo{db: db} }

func (r *GroupRepo) Upsert(ctx context.Context, g Group) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO client_groups(id, name, sort_order)
	VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 sort_order=excluded.sort_order;
	`, g.ID, g.Name, g.SortOrder)
	return err
}

func (r *GroupRepo) List(ctx context.Context) ([]Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, sort_order FROM client_groups ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ByName returns the group with the given name, or nil if absent.
func (r *GroupRepo) ByName(ctx context.Context, name string) (*Group, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, sort_order FROM client_groups WHERE name = ?`, name)
	var g Group
	if err := row.Scan(&g.ID, &g.Name, &g.SortOrder); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
