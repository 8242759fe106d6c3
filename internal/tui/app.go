package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"revdash/internal/config"
	"revdash/internal/service"
	"revdash/internal/tui/tabset"
)

// Tab identifiers. The selector rejects anything outside this set.
const (
	TabStreams      tabset.ID = "streams"
	TabProducts     tabset.ID = "products"
	TabClientGroups tabset.ID = "clientgroups"
)

// Services bundles what the app drives.
type Services struct {
	Metrics     *service.MetricsService
	Ingest      *service.IngestService
	Maintenance *service.MaintenanceService
}

type modalState string

const (
	modalNone         modalState = ""
	modalImport       modalState = "import"
	modalConfirmReset modalState = "confirmReset"
)

// App ties the tab selector, modals and status line together.
type App struct {
	ctx      context.Context
	cfg      config.Config
	services Services
	selector *tabset.Selector
	keys     keyMap
	log      zerolog.Logger

	month  time.Time
	tz     *time.Location
	status string
	modal  modalState

	importPath string
	lastImport *service.IngestResult
}

// New builds the root model. Tab configuration problems (duplicate or
// unknown IDs) are reported here and are fatal for the caller.
func New(ctx context.Context, cfg config.Config, services Services, tz *time.Location, log zerolog.Logger) (*App, error) {
	if tz == nil {
		tz = time.Local
	}
	month := time.Now().UTC()

	deps := paneDeps{ctx: ctx, metrics: services.Metrics, month: month, currency: cfg.UI.CurrencySymbol}
	tabs := []tabset.Tab{
		{ID: TabStreams, Title: "Revenue Streams", Content: func() tea.Model { return newStreamsPane(deps) }},
		{ID: TabProducts, Title: "Products", Content: func() tea.Model { return newProductsPane(deps) }},
		{ID: TabClientGroups, Title: "Client Groups", Content: func() tea.Model { return newClientGroupsPane(deps) }},
	}
	selector, err := tabset.New(tabs, TabStreams)
	if err != nil {
		return nil, fmt.Errorf("configure tabs: %w", err)
	}

	return &App{
		ctx:        ctx,
		cfg:        cfg,
		services:   services,
		selector:   selector,
		keys:       defaultKeyMap(),
		log:        log,
		month:      month,
		tz:         tz,
		importPath: cfg.Import.DefaultCSV,
	}, nil
}

// CurrentTab exposes the active selection for tests and the header.
func (a *App) CurrentTab() tabset.ID { return a.selector.Current() }

func (a *App) Init() tea.Cmd {
	return a.selector.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch {
		case key.Matches(m, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(m, a.keys.NextTab):
			return a, a.selector.Next()
		case key.Matches(m, a.keys.PrevTab):
			return a, a.selector.Prev()
		case key.Matches(m, a.keys.PrevMonth):
			a.month = a.month.AddDate(0, -1, 0)
			return a, a.selector.Broadcast(monthMsg(a.month))
		case key.Matches(m, a.keys.NextMonth):
			a.month = a.month.AddDate(0, 1, 0)
			return a, a.selector.Broadcast(monthMsg(a.month))
		case key.Matches(m, a.keys.Import):
			a.modal = modalImport
			a.status = ""
			return a, nil
		case key.Matches(m, a.keys.Reset):
			a.modal = modalConfirmReset
			return a, nil
		}
		switch m.String() {
		case "1":
			return a, a.selector.SelectIndex(0)
		case "2":
			return a, a.selector.SelectIndex(1)
		case "3":
			return a, a.selector.SelectIndex(2)
		}
		return a, a.selector.Update(m)
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
		a.log.Error().Err(m.error).Msg("tui action failed")
	case ingestDoneMsg:
		a.lastImport = &m.Result
		summary := fmt.Sprintf("imported %d, skipped %d", m.Result.Imported, m.Result.Skipped)
		if m.Result.ClientsCreated > 0 {
			summary += fmt.Sprintf(", %d new clients", m.Result.ClientsCreated)
		}
		if len(m.Result.Errors) > 0 {
			summary += fmt.Sprintf(", errors %d", len(m.Result.Errors))
		}
		a.status = summary
		return a, a.selector.Broadcast(monthMsg(a.month))
	case resetDoneMsg:
		if a.services.Ingest != nil {
			a.services.Ingest.Invalidate()
		}
		a.status = "database reset - import to repopulate"
		return a, a.selector.Broadcast(monthMsg(a.month))
	default:
		// pane data arrives here; panes ignore messages that are not theirs
		return a, a.selector.Broadcast(msg)
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmReset:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			return a, a.resetCmd()
		case "n", "N", "esc":
			a.modal = modalNone
		}
	case modalImport:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.status = ""
		case tea.KeyEnter:
			path := strings.TrimSpace(a.importPath)
			if path == "" {
				a.status = "enter a CSV path"
				return a, nil
			}
			a.modal = modalNone
			return a, a.ingestCmd(path)
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(a.importPath) > 0 {
				a.importPath = a.importPath[:len(a.importPath)-1]
			}
		case tea.KeySpace:
			a.importPath += " "
		case tea.KeyRunes:
			a.importPath += string(m.Runes)
		}
	}
	return a, nil
}

func (a *App) ingestCmd(path string) tea.Cmd {
	abs := path
	if !filepath.IsAbs(path) {
		if p, err := filepath.Abs(path); err == nil {
			abs = p
		}
	}
	a.status = "importing..."
	if a.services.Ingest == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("ingest service not configured")} }
	}
	return func() tea.Msg {
		f, err := os.Open(abs)
		if err != nil {
			return errMsg{fmt.Errorf("open %s: %w", abs, err)}
		}
		defer f.Close()

		res, err := a.services.Ingest.ImportCSV(a.ctx, f, a.tz)
		if err != nil {
			return errMsg{err}
		}
		return ingestDoneMsg{Result: res}
	}
}

func (a *App) resetCmd() tea.Cmd {
	return func() tea.Msg {
		if a.services.Maintenance == nil {
			return errMsg{fmt.Errorf("maintenance not configured")}
		}
		if err := a.services.Maintenance.Reset(a.ctx); err != nil {
			return errMsg{err}
		}
		return resetDoneMsg{}
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (a *App) View() string {
	header := headerStyle.Render("revdash — " + a.month.Format("January 2006"))
	body := a.selector.View()

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	if a.modal != modalNone {
		b.WriteString(a.renderModal())
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(statusStyle.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(a.helpLine()))
	return b.String()
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalImport:
		body := "Import CSV\n" + a.importPath + "\n[enter] Import  [esc] Cancel"
		if a.lastImport != nil {
			body += fmt.Sprintf("\nLast import: %d imported, %d skipped, %d errors",
				a.lastImport.Imported, a.lastImport.Skipped, len(a.lastImport.Errors))
			if len(a.lastImport.Errors) > 0 {
				body += "\nFirst error: " + a.lastImport.Errors[0].Error()
			}
		}
		return modalStyle.Render(body)
	case modalConfirmReset:
		return modalStyle.Render("Reset database?\nThis will delete all data.\n[y] Yes  [n] No")
	default:
		return ""
	}
}

func (a *App) helpLine() string {
	parts := make([]string, 0, 8)
	parts = append(parts, "[1-3] jump")
	for _, b := range a.keys.helpBindings() {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}

// messages
type statusMsg string

type errMsg struct{ error }

type ingestDoneMsg struct {
	Result service.IngestResult
}

type resetDoneMsg struct{}
