// Package tui implements the full-screen watch view. It periodically
// re-runs the upstream comparison and renders the per-server table with
// a rolling health sparkline, without touching the time-series store.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/report"
	"github.com/dilasgoi/eessi-monitor/internal/tui/components"
	"github.com/dilasgoi/eessi-monitor/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultWatchInterval is how often the watch view refreshes when the
// caller does not override it.
const DefaultWatchInterval = 60 * time.Second

// healthWindow caps the sparkline history kept in memory.
const healthWindow = 120

// RefreshFunc produces a fresh set of comparison records. The watch
// model calls it once per tick, off the Update loop.
type RefreshFunc func(ctx context.Context) ([]domain.SyncRecord, error)

// WatchOptions configures RunWatch.
type WatchOptions struct {
	Repository string
	Interval   time.Duration
	Refresh    RefreshFunc
}

// --- Messages ---

type refreshTickMsg struct{}

type refreshResultMsg struct {
	records []domain.SyncRecord
	err     error
}

// --- Watch model ---

type watchModel struct {
	repository string
	interval   time.Duration
	refresh    RefreshFunc

	records     []domain.SyncRecord
	summary     domain.SyncSummary
	healthy     []float64 // healthy percentage per completed refresh
	lastRefresh time.Time
	err         error

	loading bool
	spinner spinner.Model

	width  int
	height int
}

// RunWatch opens the watch TUI and blocks until the user quits.
func RunWatch(opts WatchOptions) error {
	if opts.Refresh == nil {
		return fmt.Errorf("watch: no refresh function configured")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultWatchInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	m := watchModel{
		repository: opts.Repository,
		interval:   opts.Interval,
		refresh:    opts.Refresh,
		loading:    true,
		spinner:    s,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run watch view: %w", err)
	}
	return nil
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.doRefresh())
}

// doRefresh runs one comparison pass in a tea command.
func (m watchModel) doRefresh() tea.Cmd {
	refresh := m.refresh
	return func() tea.Msg {
		records, err := refresh(context.Background())
		return refreshResultMsg{records: records, err: err}
	}
}

// scheduleTick queues the next periodic refresh.
func (m watchModel) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.doRefresh())
			}
		}
		return m, nil

	case refreshTickMsg:
		if m.loading {
			// A manual refresh is already in flight; just rearm the timer.
			return m, m.scheduleTick()
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.doRefresh())

	case refreshResultMsg:
		m.loading = false
		m.lastRefresh = time.Now()
		m.err = msg.err
		if msg.err == nil {
			m.records = msg.records
			m.summary = domain.Summarize(msg.records)
			m.healthy = append(m.healthy, healthPercent(msg.records))
			if len(m.healthy) > healthWindow {
				m.healthy = m.healthy[len(m.healthy)-healthWindow:]
			}
		}
		return m, m.scheduleTick()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "watch", m.repository)
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "r", Desc: "refresh"},
		{Key: "q", Desc: "quit"},
	})

	status := m.statusLine()
	statusBar := components.StatusBar(m.width, status, m.err != nil)

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := lipgloss.Height(statusBar)
	contentH := m.height - headerH - footerH - statusH
	if contentH < 1 {
		contentH = 1
	}

	content := lipgloss.NewStyle().
		Padding(1, 2).
		Render(m.renderContent())
	content = lipgloss.Place(m.width, contentH, lipgloss.Left, lipgloss.Top, content)

	view := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
	return padToHeight(view, m.width, m.height)
}

func (m watchModel) renderContent() string {
	if len(m.records) == 0 {
		if m.loading {
			return m.spinner.View() + "  checking upstream servers..."
		}
		if m.err != nil {
			return styles.ErrorText.Render(fmt.Sprintf("refresh failed: %v", m.err))
		}
		return styles.MutedText.Render("no comparison results yet")
	}

	var table strings.Builder
	report.WriteSyncTable(&table, m.records)

	summary := fmt.Sprintf("%d synchronized, %d out of sync, %d unreachable",
		m.summary.Synchronized, m.summary.OutOfSync, m.summary.Unreachable)
	if m.summary.LatestServer != "" {
		summary += fmt.Sprintf("  (freshest: %s rev %d)", m.summary.LatestServer, m.summary.LatestRevision)
	}

	chartWidth := m.width - 4
	spark := components.HealthSparkline("Sync health", m.healthy, chartWidth)

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.TrimRight(table.String(), "\n"),
		"",
		styles.MutedText.Render(summary),
		"",
		spark,
	)
}

func (m watchModel) statusLine() string {
	if m.err != nil {
		return fmt.Sprintf("last refresh failed: %v", m.err)
	}
	if m.loading {
		return m.spinner.View() + " refreshing..."
	}
	if m.lastRefresh.IsZero() {
		return "waiting for first refresh"
	}
	return fmt.Sprintf("last refresh %s, next in %s",
		m.lastRefresh.Format("15:04:05"), m.interval)
}

// healthPercent is the share of records that came back synchronized,
// as a 0-100 value for the sparkline.
func healthPercent(records []domain.SyncRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var healthy int
	for _, rec := range records {
		if rec.Status == domain.StatusSynchronized {
			healthy++
		}
	}
	return float64(healthy) / float64(len(records)) * 100
}

// padToHeight ensures the view string has exactly `height` lines so the
// alt screen renderer always repaints the full terminal.
func padToHeight(view string, width, height int) string {
	if height <= 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
