package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"revdash/internal/service"
)

type streamsLoadedMsg struct {
	rows    []service.StreamRow
	summary service.MonthSummary
	err     error
}

// streamsPane renders per-stream revenue for the selected month.
type streamsPane struct {
	deps    paneDeps
	rows    []service.StreamRow
	summary service.MonthSummary
	cursor  int
	err     error
}

func newStreamsPane(deps paneDeps) *streamsPane {
	return &streamsPane{deps: deps}
}

func (p *streamsPane) Init() tea.Cmd { return p.load() }

func (p *streamsPane) load() tea.Cmd {
	return func() tea.Msg {
		rows, err := p.deps.metrics.StreamOverview(p.deps.ctx, p.deps.month)
		if err != nil {
			return streamsLoadedMsg{err: err}
		}
		summary, err := p.deps.metrics.Summary(p.deps.ctx, p.deps.month)
		if err != nil {
			return streamsLoadedMsg{err: err}
		}
		return streamsLoadedMsg{rows: rows, summary: summary}
	}
}

func (p *streamsPane) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case monthMsg:
		p.deps.month = timeOf(m)
		return p, p.load()
	case streamsLoadedMsg:
		p.rows, p.summary, p.err = m.rows, m.summary, m.err
		if p.cursor >= len(p.rows) {
			p.cursor = 0
		}
	case tea.KeyMsg:
		switch m.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.rows)-1 {
				p.cursor++
			}
		}
	}
	return p, nil
}

func (p *streamsPane) View() string {
	if p.err != nil {
		return "error: " + p.err.Error()
	}
	cur := p.deps.currency
	out := fmt.Sprintf("Total: %s  Entries: %d  Recurring: %s  One-off: %s\n\n",
		money(p.summary.TotalCents, cur), p.summary.Entries,
		money(p.summary.RecurringCents, cur), money(p.summary.OneOffCents, cur))
	if len(p.rows) == 0 {
		return out + "(no revenue streams)"
	}
	for i, r := range p.rows {
		marker := " "
		if i == p.cursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-24s %-9s %12s  %4d entries  %s\n",
			marker, r.Name, r.Kind, money(r.TotalCents, cur), r.Entries, percent(r.Share))
	}
	return out
}
