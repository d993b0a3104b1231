// ABOUTME: Tests for the JSON HTTP API
// ABOUTME: Exercises user CRUD, confirmation flows, and log filtering
package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/userdesk/activity"
	"github.com/harperreed/userdesk/handlers"
	"github.com/harperreed/userdesk/kv"
	"github.com/harperreed/userdesk/models"
	"github.com/harperreed/userdesk/store"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := activity.NewLogger(kv.NewTestStore(t)).WithDiagnostics(log.New(io.Discard))
	st := store.NewUserStore(logger, store.SeedUsers())
	admin := handlers.NewAdminHandlers(st, logger)

	srv := NewServer(admin)
	srv.diag = log.New(io.Discard)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func TestListUsers(t *testing.T) {
	ts := setupServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []models.User
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Len(t, users, 6)
}

func TestListUsersFiltered(t *testing.T) {
	ts := setupServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/users?q=ANA", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []models.User
	require.NoError(t, json.Unmarshal(body, &users))
	require.Len(t, users, 2)
	assert.Equal(t, "ana.silva", users[0].Username)
}

func TestCreateUser(t *testing.T) {
	ts := setupServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/users", map[string]interface{}{
		"username": "gabriela.nunes",
		"email":    "gabriela.nunes@example.com",
		"password": "initial-secret",
		"role":     "Coordinator",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var u models.User
	require.NoError(t, json.Unmarshal(body, &u))
	assert.Equal(t, 7, u.ID)
	assert.Equal(t, models.RoleCoordinator, u.Role)
}

func TestCreateUserValidationError(t *testing.T) {
	ts := setupServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/users", map[string]interface{}{
		"username": "nobody",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody map[string]string
	require.NoError(t, json.Unmarshal(body, &errBody))
	assert.Contains(t, errBody["error"], "email")
}

func TestUpdateUser(t *testing.T) {
	ts := setupServer(t)

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/users/4", map[string]interface{}{
		"username": "daniel.gomes",
		"email":    "daniel.gomes@corp.example.com",
		"role":     "Manager",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var u models.User
	require.NoError(t, json.Unmarshal(body, &u))
	assert.Equal(t, 4, u.ID)
	assert.Equal(t, models.RoleManager, u.Role)
}

func TestUpdateMissingUser(t *testing.T) {
	ts := setupServer(t)

	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/api/users/99", map[string]interface{}{
		"username": "ghost",
		"email":    "ghost@example.com",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteConfirmFlow(t *testing.T) {
	ts := setupServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/users/2/delete", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var pending struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &pending))
	assert.Equal(t, "bruno.costa", pending.User.Username)

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/confirmations/"+pending.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 2, result.User.ID)

	// User is gone and the deletion was logged.
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Len(t, users, 5)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/logs?action=User+Deleted", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []models.ActivityLog
	require.NoError(t, json.Unmarshal(body, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "bruno.costa", logs[0].TargetUsername)
}

func TestCancelDeleteLeavesStateUntouched(t *testing.T) {
	ts := setupServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/users/3/delete", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var pending struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &pending))

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/confirmations/"+pending.Token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Len(t, users, 6)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/logs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []models.ActivityLog
	require.NoError(t, json.Unmarshal(body, &logs))
	assert.Empty(t, logs)
}

func TestResetPasswordFlowDisclosesTempPassword(t *testing.T) {
	ts := setupServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/users/1/reset-password", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var pending struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &pending))

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/confirmations/"+pending.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		User         models.User `json:"user"`
		TempPassword string      `json:"tempPassword"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.User.ForcePasswordChange)
	assert.Equal(t, store.TempPassword(), result.TempPassword)
}

func TestConfirmUnknownToken(t *testing.T) {
	ts := setupServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/confirmations/1b4e28ba-2fa1-11d2-883f-0016d3cca427", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConfirmMalformedToken(t *testing.T) {
	ts := setupServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/confirmations/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogsDateFilter(t *testing.T) {
	ts := setupServer(t)

	// Generate one entry today.
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/users", map[string]interface{}{
		"username": "temp.user",
		"email":    "temp.user@example.com",
		"password": "x",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/logs?date=1999-01-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []models.ActivityLog
	require.NoError(t, json.Unmarshal(body, &logs))
	assert.Empty(t, logs)
}
