// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen console for user administration and the activity log
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/userdesk/handlers"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewUsers ViewMode = iota
	ViewLogs
	ViewEdit
	ViewConfirm
	ViewNotice
)

// Model is the main bubbletea model
type Model struct {
	admin    *handlers.AdminHandlers
	viewMode ViewMode

	// Users view state
	selectedRow int
	searchTerm  string
	searching   bool

	// Edit view state
	form formState

	// Confirmation state
	pending handlers.PendingAction

	// Notice state (password disclosure)
	notice string

	// Logs view state
	logs logsState

	// Status line shown under the users table
	status string

	// UI state
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(admin *handlers.AdminHandlers) Model {
	return Model{
		admin:  admin,
		width:  80,
		height: 24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewUsers:
		return m.renderUsersView()
	case ViewLogs:
		return m.renderLogsView()
	case ViewEdit:
		return m.renderEditView()
	case ViewConfirm:
		return m.renderConfirmView()
	case ViewNotice:
		return m.renderNoticeView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit, except while typing in a form or search field
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewUsers:
		return m.handleUsersKeys(msg)
	case ViewLogs:
		return m.handleLogsKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewConfirm:
		return m.handleConfirmKeys(msg)
	case ViewNotice:
		return m.handleNoticeKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// tableHeight keeps the embedded tables usable on very small terminals.
func tableHeight(windowHeight int) int {
	h := windowHeight - 12
	if h < 5 {
		h = 5
	}
	return h
}

func (m Model) renderTabs() string {
	tabs := []string{"Users", "Activity Log"}
	var rendered []string

	for i, tab := range tabs {
		active := (i == 0 && m.viewMode == ViewUsers) || (i == 1 && m.viewMode == ViewLogs)
		if active {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
