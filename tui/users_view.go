// ABOUTME: Users table view with live search
// ABOUTME: Entry point for edit, delete, and password-reset flows
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/userdesk/models"
)

func (m Model) renderUsersView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("USERDESK"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching {
		s.WriteString(fmt.Sprintf("Search: %s█\n\n", m.searchTerm))
	} else if m.searchTerm != "" {
		s.WriteString(fmt.Sprintf("Search: %s (press / to edit, esc to clear)\n\n", m.searchTerm))
	}

	s.WriteString(m.renderUsersTable())
	s.WriteString("\n")

	if m.status != "" {
		s.WriteString(statusStyle.Render(m.status))
		s.WriteString("\n")
	}

	s.WriteString(m.renderUsersHelp())
	return s.String()
}

func (m Model) visibleUsers() []models.User {
	return m.admin.ListUsers(m.searchTerm)
}

func (m Model) renderUsersTable() string {
	users := m.visibleUsers()

	columns := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Username", Width: 24},
		{Title: "Email", Width: 32},
		{Title: "Role", Width: 16},
		{Title: "Must Change PW", Width: 14},
	}

	var rows []table.Row
	for _, u := range users {
		change := ""
		if u.ForcePasswordChange {
			change = "yes"
		}

		role := string(u.Role)
		if color, ok := models.RoleColors[u.Role]; ok {
			role = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(role)
		}

		rows = append(rows, table.Row{
			fmt.Sprintf("%d", u.ID),
			u.Username,
			u.Email,
			role,
			change,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(tableHeight(m.height)),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderUsersHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"/: Search",
		"n: New",
		"e: Edit",
		"d: Delete",
		"r: Reset password",
		"l: Activity log",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleUsersKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.visibleUsers())-1 {
			m.selectedRow++
		}
	case "/":
		m.searching = true
		m.status = ""
	case "esc":
		m.searchTerm = ""
		m.selectedRow = 0
	case "l", "tab":
		m.viewMode = ViewLogs
		m.logs = newLogsState()
		m.status = ""
	case "n":
		m.form = newUserForm(nil)
		m.viewMode = ViewEdit
		m.status = ""
	case "e", "enter":
		if u, ok := m.selectedUser(); ok {
			m.form = newUserForm(&u)
			m.viewMode = ViewEdit
			m.status = ""
		}
	case "d":
		if u, ok := m.selectedUser(); ok {
			pending, err := m.admin.RequestDelete(u.ID)
			if err != nil {
				m.status = "Error: " + err.Error()
				break
			}
			m.pending = pending
			m.viewMode = ViewConfirm
		}
	case "r":
		if u, ok := m.selectedUser(); ok {
			pending, err := m.admin.RequestPasswordReset(u.ID)
			if err != nil {
				m.status = "Error: " + err.Error()
				break
			}
			m.pending = pending
			m.viewMode = ViewConfirm
		}
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.selectedRow = 0
	case "backspace":
		if len(m.searchTerm) > 0 {
			m.searchTerm = m.searchTerm[:len(m.searchTerm)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.searchTerm += string(msg.Runes)
			m.selectedRow = 0
		}
	}
	return m, nil
}

func (m Model) selectedUser() (models.User, bool) {
	users := m.visibleUsers()
	if m.selectedRow < len(users) {
		return users[m.selectedRow], true
	}
	return models.User{}, false
}
