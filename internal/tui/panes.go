package tui

import (
	"context"
	"fmt"
	"time"

	"revdash/internal/service"
)

// paneDeps is what every tab pane needs to load and format its rows.
type paneDeps struct {
	ctx      context.Context
	metrics  *service.MetricsService
	month    time.Time
	currency string
}

// monthMsg tells mounted panes the reporting month changed (or that they
// should reload after an import/reset).
type monthMsg time.Time

func timeOf(m monthMsg) time.Time { return time.Time(m) }

func money(cents int64, symbol string) string {
	return fmt.Sprintf("%s%.2f", symbol, float64(cents)/100)
}

func percent(share float64) string {
	return fmt.Sprintf("%5.1f%%", share*100)
}
