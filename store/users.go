// ABOUTME: In-memory user store for the current session
// ABOUTME: Holds the authoritative ordered user list; no durable backing
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/userdesk/models"
)

// ErrUserNotFound is returned when a mutation targets an id that is not in
// the collection. Surfaced explicitly rather than silently no-opping, since
// silent no-ops mask programming errors.
var ErrUserNotFound = errors.New("user not found")

// Recorder receives one audit event per create, delete, and password reset.
// Implementations must be best-effort; the store never inspects a result.
type Recorder interface {
	Record(action, targetUsername string)
}

type noopRecorder struct{}

func (noopRecorder) Record(string, string) {}

// UserStore maintains the ordered in-memory user list. Mutations serialize
// under the lock; the HTTP surface adds concurrent readers, so reads take
// the shared lock.
type UserStore struct {
	mu       sync.RWMutex
	users    []models.User
	recorder Recorder
}

// NewUserStore creates a store pre-populated with seed and wired to the
// given recorder. Seeding emits no activity events. A nil recorder disables
// event emission.
func NewUserStore(recorder Recorder, seed []models.User) *UserStore {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	users := make([]models.User, len(seed))
	copy(users, seed)
	return &UserStore{
		users:    users,
		recorder: recorder,
	}
}

// List returns a copy of the user list in insertion order.
func (s *UserStore) List() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Get returns the user with the given id.
func (s *UserStore) Get(id int) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("%w: %d", ErrUserNotFound, id)
}

// Create appends a new user with an identifier strictly greater than every
// identifier currently present (1 + max, 0 when empty). Identifiers freed
// by deleting the highest-id user are therefore reused by a later create.
// Emits one "User Created" event.
func (s *UserStore) Create(u models.User) models.User {
	s.mu.Lock()
	maxID := 0
	for _, existing := range s.users {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	u.ID = maxID + 1
	s.users = append(s.users, u)
	s.mu.Unlock()

	s.recorder.Record(models.ActionUserCreated, u.Username)
	return u
}

// Update replaces the mutable fields of the user with the given id. The
// identifier never changes and no activity event is emitted.
func (s *UserStore) Update(id int, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Username = u.Username
			s.users[i].Email = u.Email
			s.users[i].Role = u.Role
			s.users[i].ForcePasswordChange = u.ForcePasswordChange
			return s.users[i], nil
		}
	}
	return models.User{}, fmt.Errorf("%w: %d", ErrUserNotFound, id)
}

// Delete removes the user with the given id and emits one "User Deleted"
// event carrying the removed username.
func (s *UserStore) Delete(id int) (models.User, error) {
	s.mu.Lock()
	var removed models.User
	found := false
	for i := range s.users {
		if s.users[i].ID == id {
			removed = s.users[i]
			s.users = append(s.users[:i], s.users[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return models.User{}, fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}

	s.recorder.Record(models.ActionUserDeleted, removed.Username)
	return removed, nil
}

// ResetPassword marks the user as required to change their credential at
// next login and emits one "Password Reset" event. There is no credential
// store; the user-visible temporary password is the TempPassword stub.
func (s *UserStore) ResetPassword(id int) (models.User, error) {
	s.mu.Lock()
	var target models.User
	found := false
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].ForcePasswordChange = true
			target = s.users[i]
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return models.User{}, fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}

	s.recorder.Record(models.ActionPasswordReset, target.Username)
	return target, nil
}

// Filter returns the users whose username or email contains term as a
// case-insensitive substring, preserving order. An empty term returns the
// input unchanged.
func Filter(users []models.User, term string) []models.User {
	if term == "" {
		return users
	}
	needle := strings.ToLower(term)

	filtered := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// TempPassword returns the simulated temporary password disclosed after a
// confirmed reset. Deterministic and non-secret; a placeholder, not real
// credential issuance.
func TempPassword() string {
	return fmt.Sprintf("Userdesk@%d", time.Now().Year())
}

// SeedUsers returns the default accounts loaded at startup. Users live only
// in session memory, so the seed recreates a familiar starting state.
func SeedUsers() []models.User {
	return []models.User{
		{ID: 1, Username: "ana.silva", Email: "ana.silva@example.com", Role: models.RoleSuperintendent},
		{ID: 2, Username: "bruno.costa", Email: "bruno.costa@example.com", Role: models.RoleManager, ForcePasswordChange: true},
		{ID: 3, Username: "carla.dias", Email: "carla.dias@example.com", Role: models.RoleCoordinator},
		{ID: 4, Username: "daniel.gomes", Email: "daniel.gomes@example.com", Role: models.RoleCollaborator},
		{ID: 5, Username: "eliana.faria", Email: "eliana.faria@example.com", Role: models.RoleManager},
		{ID: 6, Username: "fabio.lima", Email: "fabio.lima@example.com", Role: models.RoleCollaborator, ForcePasswordChange: true},
	}
}
