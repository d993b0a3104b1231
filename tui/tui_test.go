// ABOUTME: Tests for TUI state transitions
// ABOUTME: Drives the bubbletea model with key events and checks outcomes
package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/userdesk/activity"
	"github.com/harperreed/userdesk/handlers"
	"github.com/harperreed/userdesk/kv"
	"github.com/harperreed/userdesk/models"
	"github.com/harperreed/userdesk/store"
)

func setupModel(t *testing.T) (Model, *handlers.AdminHandlers) {
	t.Helper()

	logger := activity.NewLogger(kv.NewTestStore(t)).WithDiagnostics(log.New(io.Discard))
	st := store.NewUserStore(logger, store.SeedUsers())
	admin := handlers.NewAdminHandlers(st, logger)
	return NewModel(admin), admin
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

func TestInitialViewRendersUsers(t *testing.T) {
	m, _ := setupModel(t)

	out := m.View()
	assert.Contains(t, out, "USERDESK")
	assert.Contains(t, out, "ana.silva")
	assert.Contains(t, out, "fabio.lima")
}

func TestSearchNarrowsTable(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "/")
	m = typeText(m, "bruno")
	m = press(m, "enter")

	out := m.View()
	assert.Contains(t, out, "bruno.costa")
	assert.NotContains(t, out, "carla.dias")
}

func TestDeleteStagesConfirmation(t *testing.T) {
	m, admin := setupModel(t)

	m = press(m, "d")
	require.Equal(t, ViewConfirm, m.viewMode)
	assert.Contains(t, m.View(), "ana.silva")

	// Nothing mutated while the dialog is open.
	assert.Len(t, admin.ListUsers(""), 6)
	assert.Empty(t, admin.ListLogs("", ""))
}

func TestDeleteCancelKeepsUser(t *testing.T) {
	m, admin := setupModel(t)

	m = press(m, "d")
	m = press(m, "n")

	assert.Equal(t, ViewUsers, m.viewMode)
	assert.Len(t, admin.ListUsers(""), 6)
	assert.Empty(t, admin.ListLogs("", ""))
}

func TestDeleteConfirmRemovesUserAndLogs(t *testing.T) {
	m, admin := setupModel(t)

	m = press(m, "d")
	m = press(m, "y")

	assert.Equal(t, ViewUsers, m.viewMode)
	assert.Len(t, admin.ListUsers(""), 5)

	logs := admin.ListLogs(models.ActionUserDeleted, "")
	require.Len(t, logs, 1)
	assert.Equal(t, "ana.silva", logs[0].TargetUsername)
}

func TestResetConfirmShowsTempPasswordNotice(t *testing.T) {
	m, admin := setupModel(t)

	m = press(m, "r")
	require.Equal(t, ViewConfirm, m.viewMode)

	m = press(m, "y")
	require.Equal(t, ViewNotice, m.viewMode)
	assert.Contains(t, m.View(), store.TempPassword())

	// Any key dismisses the notice.
	m = press(m, "x")
	assert.Equal(t, ViewUsers, m.viewMode)

	u, err := admin.GetUser(1)
	require.NoError(t, err)
	assert.True(t, u.ForcePasswordChange)
}

func TestResetCancelLeavesFlagUnset(t *testing.T) {
	m, admin := setupModel(t)

	m = press(m, "r")
	m = press(m, "esc")

	assert.Equal(t, ViewUsers, m.viewMode)
	u, err := admin.GetUser(1)
	require.NoError(t, err)
	assert.False(t, u.ForcePasswordChange)
	assert.Empty(t, admin.ListLogs("", ""))
}

func TestNewUserFormValidation(t *testing.T) {
	m, admin := setupModel(t)

	m = press(m, "n")
	require.Equal(t, ViewEdit, m.viewMode)

	// Saving an empty form keeps the operator on the form with an error.
	m = press(m, "enter")
	assert.Equal(t, ViewEdit, m.viewMode)
	assert.True(t, strings.Contains(m.View(), "username is required"))
	assert.Len(t, admin.ListUsers(""), 6)
}

func TestNewUserFormSaves(t *testing.T) {
	m, admin := setupModel(t)

	m = press(m, "n")
	m = typeText(m, "gabriela.nunes")
	m = press(m, "tab")
	m = typeText(m, "gabriela.nunes@example.com")
	m = press(m, "tab")
	m = typeText(m, "secret")
	m = press(m, "enter")

	assert.Equal(t, ViewUsers, m.viewMode)

	users := admin.ListUsers("gabriela")
	require.Len(t, users, 1)
	assert.Equal(t, 7, users[0].ID)
	assert.Equal(t, models.DefaultRole(), users[0].Role)

	logs := admin.ListLogs(models.ActionUserCreated, "")
	require.Len(t, logs, 1)
}

func TestEditFormHasNoPasswordField(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "e")
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Len(t, m.form.inputs, 2)

	m = press(m, "esc")
	assert.Equal(t, ViewUsers, m.viewMode)
}

func TestLogsViewFilterCycle(t *testing.T) {
	m, _ := setupModel(t)

	// Generate one deletion entry, then open the log view.
	m = press(m, "d")
	m = press(m, "y")
	m = press(m, "l")
	require.Equal(t, ViewLogs, m.viewMode)

	out := m.View()
	assert.Contains(t, out, models.ActionUserDeleted)

	// Cycle to "User Created": the deletion entry disappears.
	m = press(m, "a")
	out = m.View()
	assert.Contains(t, out, "No activity recorded.")

	// Clearing filters brings everything back.
	m = press(m, "c")
	assert.Contains(t, m.View(), models.ActionUserDeleted)
}

func TestWindowResize(t *testing.T) {
	m, _ := setupModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}
