// ABOUTME: Confirmation dialogs for delete and password reset
// ABOUTME: Cancel drops the staged action without touching store or log
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/userdesk/handlers"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(64).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)

	noticeBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(1, 2).
			Width(64).
			Align(lipgloss.Center)
)

func (m Model) renderConfirmView() string {
	var title, message, warning, confirmLabel string

	switch m.pending.Kind {
	case handlers.PendingDelete:
		title = warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
		message = fmt.Sprintf("Are you sure you want to delete the user '%s'?", m.pending.User.Username)
		warning = "This action cannot be undone!"
		confirmLabel = "Yes, Delete (y)"
	case handlers.PendingReset:
		title = warningStyle.Render("PASSWORD RESET CONFIRMATION")
		message = fmt.Sprintf("Reset the password for user '%s'?", m.pending.User.Username)
		warning = "A temporary password will be generated."
		confirmLabel = "Yes, Reset (y)"
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render(confirmLabel),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		"",
		warning,
		"",
		buttons,
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		result, err := m.admin.Confirm(m.pending.Token)
		if err != nil {
			m.status = "Error: " + err.Error()
			m.viewMode = ViewUsers
			return m, nil
		}

		switch result.Kind {
		case handlers.PendingDelete:
			m.status = fmt.Sprintf("User deleted: %s", result.User.Username)
			m.selectedRow = 0
			m.viewMode = ViewUsers
		case handlers.PendingReset:
			m.notice = fmt.Sprintf(
				"Password for user '%s' has been reset to '%s'.\nThe user must change it at next login.",
				result.User.Username, result.TempPassword,
			)
			m.viewMode = ViewNotice
		}

	case "n", "N", "esc":
		_ = m.admin.Cancel(m.pending.Token)
		m.viewMode = ViewUsers
	}

	return m, nil
}

// renderNoticeView shows the blocking password-disclosure notice.
func (m Model) renderNoticeView() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("PASSWORD RESET"),
		"",
		m.notice,
		"",
		helpStyle.Render("Press any key to continue"),
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		noticeBoxStyle.Render(content),
	)
}

func (m Model) handleNoticeKeys(tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.viewMode = ViewUsers
	return m, nil
}
