package tabset

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type stubPane struct {
	label   string
	updates int
}

func (p *stubPane) Init() tea.Cmd { return nil }
func (p *stubPane) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	p.updates++
	return p, nil
}
func (p *stubPane) View() string { return "pane:" + p.label }

func makeTab(id ID, title string, pane *stubPane, mounts *int) Tab {
	return Tab{ID: id, Title: title, Content: func() tea.Model {
		if mounts != nil {
			*mounts++
		}
		return pane
	}}
}

func threeTabs(mounts map[ID]*int, panes map[ID]*stubPane) []Tab {
	out := make([]Tab, 0, 3)
	for _, id := range []ID{"streams", "products", "clientgroups"} {
		title := map[ID]string{
			"streams":      "Revenue Streams",
			"products":     "Products",
			"clientgroups": "Client Groups",
		}[id]
		pane := &stubPane{label: string(id)}
		count := 0
		if panes != nil {
			panes[id] = pane
		}
		if mounts != nil {
			mounts[id] = &count
		}
		out = append(out, makeTab(id, title, pane, &count))
	}
	return out
}

func TestNewDefaultsToConfiguredTab(t *testing.T) {
	s, err := New(threeTabs(nil, nil), "streams")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := s.Current(); got != "streams" {
		t.Fatalf("Current() = %q, want streams", got)
	}
}

func TestNewRejectsUnknownDefault(t *testing.T) {
	_, err := New(threeTabs(nil, nil), "billing")
	if !errors.Is(err, ErrUnknownTab) {
		t.Fatalf("err = %v, want ErrUnknownTab", err)
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	tabs := threeTabs(nil, nil)
	tabs = append(tabs, Tab{ID: "products", Title: "Products Again"})
	_, err := New(tabs, "streams")
	if !errors.Is(err, ErrDuplicateTab) {
		t.Fatalf("err = %v, want ErrDuplicateTab", err)
	}
}

func TestSelectScenario(t *testing.T) {
	s, err := New(threeTabs(nil, nil), "streams")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := s.Current(); got != "streams" {
		t.Fatalf("initial Current() = %q", got)
	}
	if _, err := s.Select("products"); err != nil {
		t.Fatalf("Select(products): %v", err)
	}
	if got := s.Current(); got != "products" {
		t.Fatalf("Current() = %q, want products", got)
	}
	if _, err := s.Select("clientgroups"); err != nil {
		t.Fatalf("Select(clientgroups): %v", err)
	}
	if got := s.Current(); got != "clientgroups" {
		t.Fatalf("Current() = %q, want clientgroups", got)
	}
}

func TestSelectUnknownLeavesStateUnchanged(t *testing.T) {
	s, err := New(threeTabs(nil, nil), "products")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = s.Select("stale")
	if !errors.Is(err, ErrUnknownTab) {
		t.Fatalf("err = %v, want ErrUnknownTab", err)
	}
	if got := s.Current(); got != "products" {
		t.Fatalf("selection changed on invalid select: %q", got)
	}
}

func TestContentMountsLazilyAndOnce(t *testing.T) {
	mounts := map[ID]*int{}
	s, err := New(threeTabs(mounts, nil), "streams")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for id, n := range mounts {
		if *n != 0 {
			t.Fatalf("tab %s mounted before activation", id)
		}
	}
	_ = s.Init()
	if *mounts["streams"] != 1 {
		t.Fatalf("default tab mounts = %d, want 1", *mounts["streams"])
	}
	if *mounts["products"] != 0 || s.Mounted("products") {
		t.Fatalf("inactive tab mounted eagerly")
	}
	_, _ = s.Select("products")
	_, _ = s.Select("streams")
	_, _ = s.Select("products")
	if *mounts["products"] != 1 {
		t.Fatalf("re-activation re-ran content factory: %d mounts", *mounts["products"])
	}
}

func TestUpdateReachesActivePaneOnly(t *testing.T) {
	panes := map[ID]*stubPane{}
	s, err := New(threeTabs(nil, panes), "streams")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = s.Init()
	_, _ = s.Select("products")
	_ = s.Update(tea.KeyMsg{Type: tea.KeyDown})
	if panes["products"].updates != 1 {
		t.Fatalf("active pane updates = %d, want 1", panes["products"].updates)
	}
	if panes["streams"].updates != 0 {
		t.Fatalf("inactive pane received update")
	}
}

func TestViewShowsExactlyActiveContent(t *testing.T) {
	s, err := New(threeTabs(nil, nil), "streams")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = s.Init()
	_, _ = s.Select("clientgroups")
	view := s.View()
	if !strings.Contains(view, "pane:clientgroups") {
		t.Fatalf("view missing active pane content:\n%s", view)
	}
	for _, other := range []string{"pane:streams", "pane:products"} {
		if strings.Contains(view, other) {
			t.Fatalf("view contains inactive pane content %q:\n%s", other, view)
		}
	}
}

func TestNextPrevWrapAround(t *testing.T) {
	s, err := New(threeTabs(nil, nil), "streams")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = s.Next()
	if got := s.Current(); got != "products" {
		t.Fatalf("after Next: %q", got)
	}
	_ = s.Next()
	_ = s.Next()
	if got := s.Current(); got != "streams" {
		t.Fatalf("Next did not wrap: %q", got)
	}
	_ = s.Prev()
	if got := s.Current(); got != "clientgroups" {
		t.Fatalf("Prev did not wrap: %q", got)
	}
}

func TestBroadcastReachesMountedPanes(t *testing.T) {
	panes := map[ID]*stubPane{}
	s, err := New(threeTabs(nil, panes), "streams")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = s.Init()
	_, _ = s.Select("products")
	_ = s.Broadcast(tea.WindowSizeMsg{Width: 80, Height: 24})
	if panes["streams"].updates != 1 || panes["products"].updates != 1 {
		t.Fatalf("broadcast counts: streams=%d products=%d", panes["streams"].updates, panes["products"].updates)
	}
	if panes["clientgroups"].updates != 0 {
		t.Fatalf("broadcast reached unmounted pane")
	}
}
