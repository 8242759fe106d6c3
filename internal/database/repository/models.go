package repository

import "time"

// Stream kinds.
const (
	StreamRecurring = "recurring"
	StreamOneOff    = "oneoff"
)

// Stream represents a revenue stream row.
type Stream struct {
	ID        string
	Name      string
	Kind      string
	SortOrder int
	CreatedAt time.Time
}

// Group represents a client group row.
type Group struct {
	ID        string
	Name      string
	SortOrder int
}

// Client represents a client row.
type Client struct {
	ID        string
	Name      string
	GroupID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product represents a product row.
type Product struct {
	ID             string
	Name           string
	StreamID       *string
	ListPriceCents *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Entry represents a revenue entry row.
type Entry struct {
	ID          string
	StreamID    string
	ProductID   *string
	ClientID    *string
	Date        time.Time
	AmountCents int64
	Description string
	ExternalID  *string
	SourceHash  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
