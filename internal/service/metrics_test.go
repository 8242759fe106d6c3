package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"revdash/internal/database/repository"
)

func TestMetricsRollups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, entries, streams, products, clients, groups, _ := newTestDB(t)
	svc := &MetricsService{Entries: entries, Streams: streams, Products: products, Clients: clients, Groups: groups}

	subs := repository.Stream{ID: uuid.NewString(), Name: "Subscriptions", Kind: repository.StreamRecurring, SortOrder: 0}
	services := repository.Stream{ID: uuid.NewString(), Name: "Services", Kind: repository.StreamOneOff, SortOrder: 1}
	require.NoError(t, streams.Upsert(ctx, subs))
	require.NoError(t, streams.Upsert(ctx, services))

	enterprise := repository.Group{ID: uuid.NewString(), Name: "Enterprise"}
	require.NoError(t, groups.Upsert(ctx, enterprise))

	acme := repository.Client{ID: uuid.NewString(), Name: "Acme Corp", GroupID: &enterprise.ID}
	globex := repository.Client{ID: uuid.NewString(), Name: "Globex"} // ungrouped
	require.NoError(t, clients.Upsert(ctx, acme))
	require.NoError(t, clients.Upsert(ctx, globex))

	pro := repository.Product{ID: uuid.NewString(), Name: "Pro Plan", StreamID: &subs.ID}
	require.NoError(t, products.Upsert(ctx, pro))

	month := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	add := func(stream string, product, client *string, day int, cents int64) {
		e := repository.Entry{
			ID:          uuid.NewString(),
			StreamID:    stream,
			ProductID:   product,
			ClientID:    client,
			Date:        month.AddDate(0, 0, day-1),
			AmountCents: cents,
		}
		require.NoError(t, entries.Insert(ctx, e))
	}
	add(subs.ID, &pro.ID, &acme.ID, 3, 19900)
	add(subs.ID, &pro.ID, &globex.ID, 5, 19900)
	add(services.ID, nil, &acme.ID, 10, 150000)
	// outside the month, must not count
	add(services.ID, nil, &acme.ID, 40, 999999)

	sum, err := svc.Summary(ctx, month)
	require.NoError(t, err)
	require.Equal(t, int64(189800), sum.TotalCents)
	require.Equal(t, 3, sum.Entries)
	require.Equal(t, int64(39800), sum.RecurringCents)
	require.Equal(t, int64(150000), sum.OneOffCents)

	rows, err := svc.StreamOverview(ctx, month)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Services", rows[0].Name)
	require.Equal(t, int64(150000), rows[0].TotalCents)
	require.InDelta(t, 150000.0/189800.0, rows[0].Share, 1e-9)
	require.Equal(t, "Subscriptions", rows[1].Name)
	require.Equal(t, 2, rows[1].Entries)

	ranking, err := svc.ProductRanking(ctx, month)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	require.Equal(t, "(no product)", ranking[0].Name)
	require.Equal(t, "Pro Plan", ranking[1].Name)
	require.Equal(t, 2, ranking[1].Entries)
	require.Equal(t, "Subscriptions", ranking[1].StreamName)

	rollup, err := svc.GroupRollup(ctx, month)
	require.NoError(t, err)
	require.Len(t, rollup, 2)
	require.Equal(t, "Enterprise", rollup[0].Name)
	require.Equal(t, int64(169900), rollup[0].TotalCents)
	require.Equal(t, 1, rollup[0].Clients)
	require.Equal(t, "(ungrouped)", rollup[1].Name)
	require.Equal(t, int64(19900), rollup[1].TotalCents)
}

func TestStreamOverviewIncludesIdleStreams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, entries, streams, products, clients, groups, _ := newTestDB(t)
	svc := &MetricsService{Entries: entries, Streams: streams, Products: products, Clients: clients, Groups: groups}

	st := repository.Stream{ID: uuid.NewString(), Name: "Licensing", Kind: repository.StreamRecurring}
	require.NoError(t, streams.Upsert(ctx, st))

	rows, err := svc.StreamOverview(ctx, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(0), rows[0].TotalCents)
	require.Equal(t, 0.0, rows[0].Share)
}
