package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"revdash/internal/service"
)

type productsLoadedMsg struct {
	rows []service.ProductRow
	err  error
}

// productsPane ranks products by month revenue.
type productsPane struct {
	deps   paneDeps
	rows   []service.ProductRow
	cursor int
	err    error
}

func newProductsPane(deps paneDeps) *productsPane {
	return &productsPane{deps: deps}
}

func (p *productsPane) Init() tea.Cmd { return p.load() }

func (p *productsPane) load() tea.Cmd {
	return func() tea.Msg {
		rows, err := p.deps.metrics.ProductRanking(p.deps.ctx, p.deps.month)
		return productsLoadedMsg{rows: rows, err: err}
	}
}

func (p *productsPane) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case monthMsg:
		p.deps.month = timeOf(m)
		return p, p.load()
	case productsLoadedMsg:
		p.rows, p.err = m.rows, m.err
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

func (p *productsPane) View() string {
	if p.err != nil {
		return "error: " + p.err.Error()
	}
	if len(p.rows) == 0 {
		return "(no product revenue this month)"
	}
	var out string
	for i, r := range p.rows {
		marker := " "
		if i == p.cursor {
			marker = "▶"
		}
		stream := r.StreamName
		if stream == "" {
			stream = "-"
		}
		out += fmt.Sprintf("%s %-28s %-16s %5d entries  %12s\n",
			marker, r.Name, stream, r.Entries, money(r.TotalCents, p.deps.currency))
	}
	return out
}
