package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"revdash/internal/service"
)

type groupsLoadedMsg struct {
	rows []service.GroupRow
	err  error
}

// clientGroupsPane rolls month revenue up by client group.
type clientGroupsPane struct {
	deps   paneDeps
	rows   []service.GroupRow
	cursor int
	err    error
}

func newClientGroupsPane(deps paneDeps) *clientGroupsPane {
	return &clientGroupsPane{deps: deps}
}

func (p *clientGroupsPane) Init() tea.Cmd { return p.load() }

func (p *clientGroupsPane) load() tea.Cmd {
	return func() tea.Msg {
		rows, err := p.deps.metrics.GroupRollup(p.deps.ctx, p.deps.month)
		return groupsLoadedMsg{rows: rows, err: err}
	}
}

func (p *clientGroupsPane) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case monthMsg:
		p.deps.month = timeOf(m)
		return p, p.load()
	case groupsLoadedMsg:
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

func (p *clientGroupsPane) View() string {
	if p.err != nil {
		return "error: " + p.err.Error()
	}
	if len(p.rows) == 0 {
		return "(no client revenue this month)"
	}
	var out string
	for i, r := range p.rows {
		marker := " "
		if i == p.cursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-24s %4d clients  %12s\n",
			marker, r.Name, r.Clients, money(r.TotalCents, p.deps.currency))
	}
	return out
}
