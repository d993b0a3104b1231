// ABOUTME: Data models for user administration
// ABOUTME: Defines User, Role, and ActivityLog structs
package models

type Role string

const (
	RoleSuperintendent Role = "Superintendent"
	RoleManager        Role = "Manager"
	RoleCoordinator    Role = "Coordinator"
	RoleCollaborator   Role = "Collaborator"
)

// Roles lists every role in declaration order. The last entry is the
// default offered when creating a new user.
var Roles = []Role{
	RoleSuperintendent,
	RoleManager,
	RoleCoordinator,
	RoleCollaborator,
}

// DefaultRole returns the role preselected for new users.
func DefaultRole() Role {
	return Roles[len(Roles)-1]
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// RoleColors maps each role to its ANSI display color. Pure presentation,
// consumed by the TUI table renderer.
var RoleColors = map[Role]string{
	RoleSuperintendent: "170",
	RoleManager:        "39",
	RoleCoordinator:    "114",
	RoleCollaborator:   "245",
}

type User struct {
	ID                  int    `json:"id"`
	Username            string `json:"username"`
	Email               string `json:"email"`
	Role                Role   `json:"role"`
	ForcePasswordChange bool   `json:"forcePasswordChange"`
}

// ActivityLog is one audit event. TargetUsername is a denormalized copy of
// the acted-upon user's name, not a foreign key; it stays valid after the
// user is deleted.
type ActivityLog struct {
	ID             string `json:"id"`
	Action         string `json:"action"`
	TargetUsername string `json:"targetUsername"`
	Timestamp      string `json:"timestamp"`
}

// Activity actions recorded by the user store.
const (
	ActionUserCreated   = "User Created"
	ActionUserDeleted   = "User Deleted"
	ActionPasswordReset = "Password Reset"
)
