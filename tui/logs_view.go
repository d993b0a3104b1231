// ABOUTME: Activity log table view with action and date filters
// ABOUTME: Reads the persisted sequence newest first on every render
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/userdesk/models"
)

// actionFilters are the selectable action filters; empty means no filter.
var actionFilters = []string{
	"",
	models.ActionUserCreated,
	models.ActionUserDeleted,
	models.ActionPasswordReset,
}

type logsState struct {
	actionIndex int
	dateFilter  string
	typingDate  bool
	selectedRow int
}

func newLogsState() logsState {
	return logsState{}
}

func (l logsState) actionFilter() string {
	return actionFilters[l.actionIndex]
}

func (m Model) renderLogsView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("USERDESK"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	action := m.logs.actionFilter()
	if action == "" {
		action = "(all)"
	}
	s.WriteString(fmt.Sprintf("Action: %s", action))

	if m.logs.typingDate {
		s.WriteString(fmt.Sprintf("   Date: %s█\n\n", m.logs.dateFilter))
	} else if m.logs.dateFilter != "" {
		s.WriteString(fmt.Sprintf("   Date: %s\n\n", m.logs.dateFilter))
	} else {
		s.WriteString("   Date: (all)\n\n")
	}

	s.WriteString(m.renderLogsTable())
	s.WriteString("\n")
	s.WriteString(m.renderLogsHelp())
	return s.String()
}

func (m Model) renderLogsTable() string {
	entries := m.admin.ListLogs(m.logs.actionFilter(), m.logs.dateFilter)

	if len(entries) == 0 {
		return "No activity recorded."
	}

	columns := []table.Column{
		{Title: "Action", Width: 18},
		{Title: "Target User", Width: 26},
		{Title: "Timestamp", Width: 22},
	}

	var rows []table.Row
	for _, entry := range entries {
		rows = append(rows, table.Row{
			entry.Action,
			entry.TargetUsername,
			entry.Timestamp,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(tableHeight(m.height)),
	)

	if m.logs.selectedRow < len(rows) {
		t.SetCursor(m.logs.selectedRow)
	}

	return t.View()
}

func (m Model) renderLogsHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"a: Cycle action filter",
		"/: Date filter",
		"c: Clear filters",
		"u/tab: Users",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleLogsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.logs.typingDate {
		return m.handleDateFilterKeys(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.logs.selectedRow > 0 {
			m.logs.selectedRow--
		}
	case "down", "j":
		m.logs.selectedRow++
	case "a":
		m.logs.actionIndex = (m.logs.actionIndex + 1) % len(actionFilters)
		m.logs.selectedRow = 0
	case "/":
		m.logs.typingDate = true
	case "c":
		// Clearing both filters is equivalent to no filtering
		m.logs.actionIndex = 0
		m.logs.dateFilter = ""
		m.logs.selectedRow = 0
	case "u", "tab", "esc":
		m.viewMode = ViewUsers
	}

	return m, nil
}

func (m Model) handleDateFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.logs.typingDate = false
		m.logs.selectedRow = 0
	case "backspace":
		if len(m.logs.dateFilter) > 0 {
			m.logs.dateFilter = m.logs.dateFilter[:len(m.logs.dateFilter)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.logs.dateFilter += string(msg.Runes)
		}
	}
	return m, nil
}
