// ABOUTME: Tests for user administration models
// ABOUTME: Validates role set, defaults, and ActivityLog JSON serialization
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoleIsLastDeclared(t *testing.T) {
	assert.Equal(t, RoleCollaborator, DefaultRole())
	assert.Equal(t, DefaultRole(), Roles[len(Roles)-1])
}

func TestRoleValid(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.Valid(), "role %s should be valid", r)
	}
	assert.False(t, Role("Intern").Valid())
	assert.False(t, Role("").Valid())
}

func TestEveryRoleHasDisplayColor(t *testing.T) {
	for _, r := range Roles {
		color, ok := RoleColors[r]
		assert.True(t, ok, "role %s has no color", r)
		assert.NotEmpty(t, color)
	}
}

func TestActivityLogJSONSerialization(t *testing.T) {
	entry := ActivityLog{
		ID:             "log-01HX3Q0WZV",
		Action:         ActionUserCreated,
		TargetUsername: "ana.silva",
		Timestamp:      "2024-01-05T10:00:00Z",
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded ActivityLog
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, entry, decoded)

	// Field names are part of the stored blob format.
	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"id", "action", "targetUsername", "timestamp"} {
		assert.Contains(t, raw, key)
	}
}
