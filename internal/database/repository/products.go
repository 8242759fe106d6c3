package repository

import (
	"context"
	"database/sql"
)

// ProductRepo handles products.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Upsert(ctx context.Context, p Product) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO products(id, name, stream_id, list_price_cents, created_at, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 stream_id=excluded.stream_id,
	 list_price_cents=excluded.list_price_cents,
	 updated_at=CURRENT_TIMESTAMP;
	`, p.ID, p.Name, p.StreamID, p.ListPriceCents)
	return err
}

func (r *ProductRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, stream_id, list_price_cents, created_at, updated_at FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ByName returns the product with the given name, or nil if absent.
func (r *ProductRepo) ByName(ctx context.Context, name string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, stream_id, list_price_cents, created_at, updated_at FROM products WHERE name = ?`, name)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func scanProduct(row scanner) (Product, error) {
	var p Product
	var stream sql.NullString
	var price sql.NullInt64
	if err := row.Scan(&p.ID, &p.Name, &stream, &price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	if stream.Valid {
		p.StreamID = &stream.String
	}
	if price.Valid {
		p.ListPriceCents = &price.Int64
	}
	return p, nil
}
