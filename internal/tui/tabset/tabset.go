// Package tabset implements a single-selection tab container: an ordered set
// of uniquely-keyed tabs of which exactly one is active and rendered.
package tabset

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ID identifies one tab within a selector. Unique across the configured set.
type ID string

// Tab pairs an ID and display title with a content factory. Content is not
// invoked until the tab is first activated; the produced model is kept for
// the life of the selector.
type Tab struct {
	ID      ID
	Title   string
	Content func() tea.Model
}

var (
	// ErrDuplicateTab reports two configured tabs sharing an ID.
	ErrDuplicateTab = errors.New("tabset: duplicate tab id")
	// ErrUnknownTab reports an ID outside the configured set.
	ErrUnknownTab = errors.New("tabset: unknown tab id")
)

// Selector owns the active tab selection and the mounted pane models.
// One selector, one selection; instances share nothing.
type Selector struct {
	tabs    []Tab
	mounted []tea.Model
	active  int
}

// New validates the configuration and returns a selector with defaultID
// active. Duplicate IDs and a default outside the set are configuration
// errors; they surface here, not at selection time.
func New(tabs []Tab, defaultID ID) (*Selector, error) {
	seen := make(map[ID]struct{}, len(tabs))
	for _, t := range tabs {
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTab, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	active := -1
	for i, t := range tabs {
		if t.ID == defaultID {
			active = i
			break
		}
	}
	if active < 0 {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownTab, defaultID)
	}
	return &Selector{
		tabs:    tabs,
		mounted: make([]tea.Model, len(tabs)),
		active:  active,
	}, nil
}

// Current returns the active tab's ID.
func (s *Selector) Current() ID {
	return s.tabs[s.active].ID
}

// Init mounts the default tab and returns its Init command.
func (s *Selector) Init() tea.Cmd {
	return s.mount(s.active)
}

// Select activates id. An ID outside the configured set returns
// ErrUnknownTab and leaves the selection unchanged. On a tab's first
// activation the returned command is the mounted model's Init.
func (s *Selector) Select(id ID) (tea.Cmd, error) {
	for i, t := range s.tabs {
		if t.ID == id {
			s.active = i
			return s.mount(i), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTab, id)
}

// Next cycles to the following tab, wrapping after the last.
func (s *Selector) Next() tea.Cmd {
	s.active = (s.active + 1) % len(s.tabs)
	return s.mount(s.active)
}

// Prev cycles to the preceding tab, wrapping before the first.
func (s *Selector) Prev() tea.Cmd {
	s.active = (s.active - 1 + len(s.tabs)) % len(s.tabs)
	return s.mount(s.active)
}

// SelectIndex activates the tab at position i in configuration order.
// Out-of-range indexes are ignored.
func (s *Selector) SelectIndex(i int) tea.Cmd {
	if i < 0 || i >= len(s.tabs) {
		return nil
	}
	s.active = i
	return s.mount(i)
}

// Len returns the number of configured tabs.
func (s *Selector) Len() int { return len(s.tabs) }

// mount lazily constructs the pane model for tab i.
func (s *Selector) mount(i int) tea.Cmd {
	if s.mounted[i] != nil {
		return nil
	}
	if s.tabs[i].Content == nil {
		return nil
	}
	s.mounted[i] = s.tabs[i].Content()
	return s.mounted[i].Init()
}

// Update routes msg to the active pane only. Inactive panes keep their state
// but receive nothing.
func (s *Selector) Update(msg tea.Msg) tea.Cmd {
	m := s.mounted[s.active]
	if m == nil {
		return nil
	}
	next, cmd := m.Update(msg)
	s.mounted[s.active] = next
	return cmd
}

// Broadcast sends msg to every mounted pane. Used for app-level state all
// panes track, like the reporting month or the window size.
func (s *Selector) Broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, m := range s.mounted {
		if m == nil {
			continue
		}
		next, cmd := m.Update(msg)
		s.mounted[i] = next
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Mounted reports whether tab id's content has been produced. Mainly for
// tests asserting lazy mounting.
func (s *Selector) Mounted(id ID) bool {
	for i, t := range s.tabs {
		if t.ID == id {
			return s.mounted[i] != nil
		}
	}
	return false
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true, true, false, true).
			BorderForeground(lipgloss.Color("63"))
	inactiveTabStyle = lipgloss.NewStyle().
				Faint(true).
				Padding(0, 2).
				Border(lipgloss.RoundedBorder(), true, true, false, true).
				BorderForeground(lipgloss.Color("240"))
)

// View renders the trigger strip followed by the active pane's content.
func (s *Selector) View() string {
	triggers := make([]string, 0, len(s.tabs))
	for i, t := range s.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title)
		if i == s.active {
			triggers = append(triggers, activeTabStyle.Render(label))
		} else {
			triggers = append(triggers, inactiveTabStyle.Render(label))
		}
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Bottom, triggers...)

	var body string
	if m := s.mounted[s.active]; m != nil {
		body = m.View()
	}
	var b strings.Builder
	b.WriteString(strip)
	b.WriteString("\n")
	b.WriteString(body)
	return b.String()
}
