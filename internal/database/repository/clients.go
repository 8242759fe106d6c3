package repository

import (
	"context"
	"database/sql"
)

// ClientRepo handles clients.
type ClientRepo struct {
	db *sql.DB
}

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

func (r *ClientRepo) Upsert(ctx context.Context, c Client) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO clients(id, name, group_id, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 group_id=excluded.group_id,
	 updated_at=CURRENT_TIMESTAMP;
	`, c.ID, c.Name, c.GroupID)
	return err
}

func (r *ClientRepo) List(ctx context.Context) ([]Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, group_id, created_at, updated_at FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanClient(row scanner) (Client, error) {
	var c Client
	var group sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &group, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Client{}, err
	}
	if group.Valid {
		c.GroupID = &group.String
	}
	return c, nil
}
