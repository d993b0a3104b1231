// ABOUTME: User create/edit form view
// ABOUTME: Validation failures stay on the form; nothing mutates until save
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/userdesk/handlers"
	"github.com/harperreed/userdesk/models"
)

type formState struct {
	inputs     []textinput.Model
	focusIndex int
	editingID  *int
	roleIndex  int
	force      bool
	errMsg     string
}

// newUserForm builds the form, pre-populated when editing. The password
// field exists only for new users; editing leaves credentials untouched.
func newUserForm(u *models.User) formState {
	f := formState{
		roleIndex: len(models.Roles) - 1, // default role is the last declared
	}

	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 100

	f.inputs = []textinput.Model{username, email}

	if u == nil {
		password := textinput.New()
		password.Placeholder = "Password"
		password.CharLimit = 100
		password.EchoMode = textinput.EchoPassword
		f.inputs = append(f.inputs, password)
	} else {
		id := u.ID
		f.editingID = &id
		f.inputs[0].SetValue(u.Username)
		f.inputs[1].SetValue(u.Email)
		f.force = u.ForcePasswordChange
		for i, r := range models.Roles {
			if r == u.Role {
				f.roleIndex = i
			}
		}
	}

	f.inputs[0].Focus()
	return f
}

func (f *formState) role() models.Role {
	return models.Roles[f.roleIndex]
}

func (m Model) renderEditView() string {
	var s strings.Builder

	if m.form.editingID == nil {
		s.WriteString(titleStyle.Render("NEW USER"))
	} else {
		s.WriteString(titleStyle.Render(fmt.Sprintf("EDIT USER #%d", *m.form.editingID)))
	}
	s.WriteString("\n\n")

	for i, input := range m.form.inputs {
		if i == m.form.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString(fmt.Sprintf("\n  Role: %s (ctrl+r to cycle)\n", m.form.role()))

	force := "no"
	if m.form.force {
		force = "yes"
	}
	s.WriteString(fmt.Sprintf("  Must change password: %s (ctrl+f to toggle)\n", force))

	if m.form.errMsg != "" {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(m.form.errMsg))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Tab: Next field • Enter: Save • Esc: Cancel"))
	return s.String()
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewUsers
		return m, nil
	case "tab":
		m.form.focusIndex = (m.form.focusIndex + 1) % len(m.form.inputs)
		m.updateFormFocus()
		return m, nil
	case "ctrl+r":
		m.form.roleIndex = (m.form.roleIndex + 1) % len(models.Roles)
		return m, nil
	case "ctrl+f":
		m.form.force = !m.form.force
		return m, nil
	case "enter":
		return m.saveForm()
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focusIndex], cmd = m.form.inputs[m.form.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) updateFormFocus() {
	for i := range m.form.inputs {
		if i == m.form.focusIndex {
			m.form.inputs[i].Focus()
		} else {
			m.form.inputs[i].Blur()
		}
	}
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	input := handlers.SaveUserInput{
		ID:                  m.form.editingID,
		Username:            m.form.inputs[0].Value(),
		Email:               m.form.inputs[1].Value(),
		Role:                m.form.role(),
		ForcePasswordChange: m.form.force,
	}
	if m.form.editingID == nil {
		input.Password = m.form.inputs[2].Value()
	}

	u, err := m.admin.SaveUser(input)
	if err != nil {
		// Save aborted, nothing mutated; keep the operator on the form.
		m.form.errMsg = err.Error()
		return m, nil
	}

	if m.form.editingID == nil {
		m.status = fmt.Sprintf("User created: %s (ID %d)", u.Username, u.ID)
	} else {
		m.status = fmt.Sprintf("User updated: %s", u.Username)
	}
	m.viewMode = ViewUsers
	return m, nil
}
