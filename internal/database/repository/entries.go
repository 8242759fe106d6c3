package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// EntryFilters defines list filters.
type EntryFilters struct {
	StreamID string
	ClientID string
	Month    time.Time // use first day of month; zero time = no month filter
	Search   string
}

// EntryRepo handles revenue entries.
type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

func (r *EntryRepo) Insert(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO revenue_entries(
	 id, stream_id, product_id, client_id, date, amount_cents, description,
	 external_id, source_hash, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		e.ID, e.StreamID, e.ProductID, e.ClientID, e.Date, e.AmountCents,
		e.Description, e.ExternalID, e.SourceHash)
	return err
}

func (r *EntryRepo) List(ctx context.Context, f EntryFilters) ([]Entry, error) {
	var where []string
	var args []interface{}

	if f.StreamID != "" {
		where = append(where, "stream_id = ?")
		args = append(args, f.StreamID)
	}
	if f.ClientID != "" {
		where = append(where, "client_id = ?")
		args = append(args, f.ClientID)
	}
	if !f.Month.IsZero() {
		start, end := monthBounds(f.Month)
		where = append(where, "date >= ? AND date < ?")
		args = append(args, start, end)
	}
	if f.Search != "" {
		where = append(where, "description LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	query := "SELECT id, stream_id, product_id, client_id, date, amount_cents, description, external_id, source_hash, created_at, updated_at FROM revenue_entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// StreamTotal aggregates a month per stream.
type StreamTotal struct {
	StreamID   string
	TotalCents int64
	Entries    int
}

func (r *EntryRepo) SumByStreamForMonth(ctx context.Context, month time.Time) ([]StreamTotal, error) {
	start, end := monthBounds(month)
	rows, err := r.db.QueryContext(ctx, `
	SELECT stream_id, SUM(amount_cents) as total, COUNT(*)
	FROM revenue_entries
	WHERE date >= ? AND date < ?
	GROUP BY stream_id
	ORDER BY total DESC;
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StreamTotal
	for rows.Next() {
		var st StreamTotal
		if err := rows.Scan(&st.StreamID, &st.TotalCents, &st.Entries); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// ProductTotal aggregates a month per product.
type ProductTotal struct {
	ProductID  string
	TotalCents int64
	Entries    int
}

func (r *EntryRepo) SumByProductForMonth(ctx context.Context, month time.Time) ([]ProductTotal, error) {
	start, end := monthBounds(month)
	rows, err := r.db.QueryContext(ctx, `
	SELECT COALESCE(product_id, ''), SUM(amount_cents) as total, COUNT(*)
	FROM revenue_entries
	WHERE date >= ? AND date < ?
	GROUP BY product_id
	ORDER BY total DESC;
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProductTotal
	for rows.Next() {
		var pt ProductTotal
		if err := rows.Scan(&pt.ProductID, &pt.TotalCents, &pt.Entries); err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

// GroupTotal aggregates a month per client group.
type GroupTotal struct {
	GroupID    string
	TotalCents int64
	Clients    int
}

func (r *EntryRepo) SumByGroupForMonth(ctx context.Context, month time.Time) ([]GroupTotal, error) {
	start, end := monthBounds(month)
	rows, err := r.db.QueryContext(ctx, `
	SELECT COALESCE(c.group_id, ''), SUM(e.amount_cents) as total, COUNT(DISTINCT e.client_id)
	FROM revenue_entries e
	LEFT JOIN clients c ON c.id = e.client_id
	WHERE e.date >= ? AND e.date < ?
	GROUP BY c.group_id
	ORDER BY total DESC;
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GroupTotal
	for rows.Next() {
		var gt GroupTotal
		if err := rows.Scan(&gt.GroupID, &gt.TotalCents, &gt.Clients); err != nil {
			return nil, err
		}
		out = append(out, gt)
	}
	return out, rows.Err()
}

// TotalsForMonth returns the month's grand total and entry count.
func (r *EntryRepo) TotalsForMonth(ctx context.Context, month time.Time) (totalCents int64, entries int, err error) {
	start, end := monthBounds(month)
	row := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount_cents), 0), COUNT(*) FROM revenue_entries WHERE date >= ? AND date < ?`, start, end)
	err = row.Scan(&totalCents, &entries)
	return
}

func monthBounds(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// scanEntry handles nullable fields for both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var product, client, external, source sql.NullString
	if err := row.Scan(&e.ID, &e.StreamID, &product, &client, &e.Date, &e.AmountCents,
		&e.Description, &external, &source, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Entry{}, err
	}
	if product.Valid {
		e.ProductID = &product.String
	}
	if client.Valid {
		e.ClientID = &client.String
	}
	if external.Valid {
		e.ExternalID = &external.String
	}
	if source.Valid {
		e.SourceHash = &source.String
	}
	return e, nil
}
