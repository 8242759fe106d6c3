package service

import (
	"context"
	"sort"
	"time"

	"revdash/internal/database/repository"
)

// MetricsService turns repository aggregates into the rows the dashboard
// panes render. All amounts stay in cents until presentation.
type MetricsService struct {
	Entries  *repository.EntryRepo
	Streams  *repository.StreamRepo
	Products *repository.ProductRepo
	Clients  *repository.ClientRepo
	Groups   *repository.GroupRepo
}

// MonthSummary is the headline figure set shared by all tabs.
type MonthSummary struct {
	TotalCents     int64
	Entries        int
	RecurringCents int64
	OneOffCents    int64
}

// StreamRow is one line of the Revenue Streams tab.
type StreamRow struct {
	StreamID   string
	Name       string
	Kind       string
	TotalCents int64
	Entries    int
	Share      float64 // fraction of the month's total, 0 when total is 0
}

// ProductRow is one line of the Products tab. Entries counts revenue entries
// attributed to the product this month, not units sold.
type ProductRow struct {
	ProductID  string
	Name       string
	StreamName string
	TotalCents int64
	Entries    int
}

// GroupRow is one line of the Client Groups tab.
type GroupRow struct {
	GroupID    string
	Name       string
	Clients    int
	TotalCents int64
}

// Summary computes the month's headline figures.
func (s *MetricsService) Summary(ctx context.Context, month time.Time) (MonthSummary, error) {
	total, entries, err := s.Entries.TotalsForMonth(ctx, month)
	if err != nil {
		return MonthSummary{}, err
	}
	sum := MonthSummary{TotalCents: total, Entries: entries}

	kinds, err := s.streamKinds(ctx)
	if err != nil {
		return MonthSummary{}, err
	}
	totals, err := s.Entries.SumByStreamForMonth(ctx, month)
	if err != nil {
		return MonthSummary{}, err
	}
	for _, st := range totals {
		if kinds[st.StreamID] == repository.StreamRecurring {
			sum.RecurringCents += st.TotalCents
		} else {
			sum.OneOffCents += st.TotalCents
		}
	}
	return sum, nil
}

// StreamOverview lists streams with month totals, largest first. Streams with
// no entries this month still appear with zero totals.
func (s *MetricsService) StreamOverview(ctx context.Context, month time.Time) ([]StreamRow, error) {
	streams, err := s.Streams.List(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.Entries.SumByStreamForMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]repository.StreamTotal, len(totals))
	var monthTotal int64
	for _, st := range totals {
		byID[st.StreamID] = st
		monthTotal += st.TotalCents
	}

	rows := make([]StreamRow, 0, len(streams))
	for _, st := range streams {
		row := StreamRow{StreamID: st.ID, Name: st.Name, Kind: st.Kind}
		if t, ok := byID[st.ID]; ok {
			row.TotalCents = t.TotalCents
			row.Entries = t.Entries
			if monthTotal != 0 {
				row.Share = float64(t.TotalCents) / float64(monthTotal)
			}
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalCents > rows[j].TotalCents })
	return rows, nil
}

// ProductRanking lists products with revenue this month, best seller first.
func (s *MetricsService) ProductRanking(ctx context.Context, month time.Time) ([]ProductRow, error) {
	products, err := s.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	streamName, err := s.streamNames(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]repository.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	totals, err := s.Entries.SumByProductForMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	rows := make([]ProductRow, 0, len(totals))
	for _, pt := range totals {
		row := ProductRow{ProductID: pt.ProductID, Name: "(no product)", TotalCents: pt.TotalCents, Entries: pt.Entries}
		if p, ok := byID[pt.ProductID]; ok {
			row.Name = p.Name
			if p.StreamID != nil {
				row.StreamName = streamName[*p.StreamID]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GroupRollup lists client groups with month revenue and distinct clients.
func (s *MetricsService) GroupRollup(ctx context.Context, month time.Time) ([]GroupRow, error) {
	groups, err := s.Groups.List(ctx)
	if err != nil {
		return nil, err
	}
	name := make(map[string]string, len(groups))
	for _, g := range groups {
		name[g.ID] = g.Name
	}

	totals, err := s.Entries.SumByGroupForMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	rows := make([]GroupRow, 0, len(totals))
	for _, gt := range totals {
		row := GroupRow{GroupID: gt.GroupID, Name: "(ungrouped)", Clients: gt.Clients, TotalCents: gt.TotalCents}
		if n, ok := name[gt.GroupID]; ok && n != "" {
			row.Name = n
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *MetricsService) streamKinds(ctx context.Context) (map[string]string, error) {
	streams, err := s.Streams.List(ctx)
	if err != nil {
		return nil, err
	}
	kinds := make(map[string]string, len(streams))
	for _, st := range streams {
		kinds[st.ID] = st.Kind
	}
	return kinds, nil
}

func (s *MetricsService) streamNames(ctx context.Context) (map[string]string, error) {
	streams, err := s.Streams.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(streams))
	for _, st := range streams {
		names[st.ID] = st.Name
	}
	return names, nil
}
