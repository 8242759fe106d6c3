package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"revdash/internal/database"
	"revdash/internal/database/repository"
)

func newTestDB(t *testing.T) (*sql.DB, *repository.EntryRepo, *repository.StreamRepo, *repository.ProductRepo, *repository.ClientRepo, *repository.GroupRepo, func() *IngestService) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	entries := repository.NewEntryRepo(db)
	streams := repository.NewStreamRepo(db)
	products := repository.NewProductRepo(db)
	clients := repository.NewClientRepo(db)
	groups := repository.NewGroupRepo(db)
	svc := func() *IngestService {
		return &IngestService{Entries: entries, Streams: streams, Products: products, Clients: clients}
	}
	return db, entries, streams, products, clients, groups, svc
}

func TestImportCSV(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, entries, streams, products, clients, _, newSvc := newTestDB(t)
	svc := newSvc()

	data := strings.Join([]string{
		"2026-02-03,Subscriptions,Pro Plan,Acme Corp,199.00,monthly renewal",
		"2026-02-10,Services,,Globex,1500,onboarding workshop",
		"2026-02-11,Subscriptions,Pro Plan,ACME Corp.,199.00,second seat",
	}, "\n")

	res, err := svc.ImportCSV(ctx, strings.NewReader(data), time.UTC)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 3, res.Imported)
	require.Equal(t, 0, res.Skipped)

	// "ACME Corp." fuzzy-matches "Acme Corp": two clients total, not three.
	require.Equal(t, 2, res.ClientsCreated)
	cs, err := clients.List(ctx)
	require.NoError(t, err)
	require.Len(t, cs, 2)

	ss, err := streams.List(ctx)
	require.NoError(t, err)
	require.Len(t, ss, 2)

	ps, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	require.Equal(t, "Pro Plan", ps[0].Name)

	all, err := entries.List(ctx, repository.EntryFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, e := range all {
		require.NotNil(t, e.SourceHash)
		require.NotEmpty(t, e.StreamID)
	}

	// Re-import should skip every row via source hash.
	res2, err := newSvc().ImportCSV(ctx, strings.NewReader(data), time.UTC)
	require.NoError(t, err)
	require.Equal(t, 0, res2.Imported)
	require.Equal(t, 3, res2.Skipped)
	require.Empty(t, res2.Errors)
}

func TestImportCSVCollectsLineErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, entries, _, _, _, _, newSvc := newTestDB(t)

	data := strings.Join([]string{
		"2026-02-03,Subscriptions,Pro Plan,Acme Corp,199.00,ok row",
		"not-a-date,Subscriptions,,,10.00,bad date",
		"2026-02-04,Subscriptions,,,,missing amount",
		"2026-02-05,,,,12.00,missing stream",
	}, "\n")

	res, err := newSvc().ImportCSV(ctx, strings.NewReader(data), time.UTC)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 3)

	all, err := entries.List(ctx, repository.EntryFilters{})
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestDollarsToCents(t *testing.T) {
	t.Parallel()

	cases := map[string]int64{
		"199.00":    19900,
		"1500":      150000,
		"$1,234.56": 123456,
		"-20":       -2000,
		"0.1":       10,
	}
	for raw, want := range cases {
		got, err := dollarsToCents(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got, raw)
	}
	_, err := dollarsToCents("")
	require.Error(t, err)
	_, err = dollarsToCents("abc")
	require.Error(t, err)
}

func TestMatchClient(t *testing.T) {
	t.Parallel()

	clients := []repository.Client{
		{ID: "1", Name: "Acme Corp"},
		{ID: "2", Name: "Globex"},
	}
	require.NotNil(t, matchClient("ACME Corp.", clients))
	require.Equal(t, "1", matchClient("acme corp", clients).ID)
	require.Nil(t, matchClient("Initech", clients))
	require.Nil(t, matchClient("Glorbox Industries", clients))
}
