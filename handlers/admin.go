// ABOUTME: Administrative operation handlers shared by TUI, CLI, and HTTP
// ABOUTME: Implements save validation and two-step confirmation flows
package handlers

import (
	"errors"
	"fmt"
	"net/mail"
	"sync"

	"github.com/google/uuid"

	"github.com/harperreed/userdesk/activity"
	"github.com/harperreed/userdesk/models"
	"github.com/harperreed/userdesk/store"
)

// ErrValidation wraps all boundary validation failures. The save is aborted
// and nothing is mutated or logged.
var ErrValidation = errors.New("validation failed")

// ErrUnknownToken is returned when a confirmation token is not pending.
var ErrUnknownToken = errors.New("unknown confirmation token")

// PendingKind distinguishes the staged destructive actions.
type PendingKind int

const (
	PendingDelete PendingKind = iota
	PendingReset
)

// PendingAction is a staged delete or password reset awaiting an explicit
// confirm or cancel. Nothing is mutated and nothing is logged until the
// confirm arrives.
type PendingAction struct {
	Token uuid.UUID
	Kind  PendingKind
	User  models.User
}

// ConfirmResult reports the applied action. TempPassword is set only for
// password resets; it is the one place a "credential" is surfaced, and it
// is explicitly non-cryptographic.
type ConfirmResult struct {
	Kind         PendingKind
	User         models.User
	TempPassword string
}

// AdminHandlers orchestrates the user store and activity log behind every
// operator surface.
type AdminHandlers struct {
	store  *store.UserStore
	logger *activity.Logger

	mu      sync.Mutex
	pending map[uuid.UUID]PendingAction
}

func NewAdminHandlers(st *store.UserStore, logger *activity.Logger) *AdminHandlers {
	return &AdminHandlers{
		store:   st,
		logger:  logger,
		pending: make(map[uuid.UUID]PendingAction),
	}
}

// SaveUserInput carries the user form. A nil ID means create; a non-nil ID
// means edit. Password is required only for create and is otherwise unused:
// there is no credential store to apply it to.
type SaveUserInput struct {
	ID                  *int
	Username            string
	Email               string
	Password            string
	Role                models.Role
	ForcePasswordChange bool
}

func (in *SaveUserInput) validate() error {
	if in.Username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if in.ID == nil && in.Password == "" {
		return fmt.Errorf("%w: password is required for new users", ErrValidation)
	}
	if in.Role == "" {
		in.Role = models.DefaultRole()
	}
	if !in.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}
	return nil
}

// SaveUser validates and applies a create or edit. Creates emit one
// "User Created" event; edits emit nothing.
func (h *AdminHandlers) SaveUser(in SaveUserInput) (models.User, error) {
	if err := in.validate(); err != nil {
		return models.User{}, err
	}

	u := models.User{
		Username:            in.Username,
		Email:               in.Email,
		Role:                in.Role,
		ForcePasswordChange: in.ForcePasswordChange,
	}

	if in.ID == nil {
		return h.store.Create(u), nil
	}
	return h.store.Update(*in.ID, u)
}

// ListUsers returns users matching the case-insensitive substring query
// over username and email. An empty query returns everyone.
func (h *AdminHandlers) ListUsers(query string) []models.User {
	return store.Filter(h.store.List(), query)
}

// GetUser returns a single user by id.
func (h *AdminHandlers) GetUser(id int) (models.User, error) {
	return h.store.Get(id)
}

// RequestDelete stages a deletion and returns the pending action holding
// its confirmation token. The store is untouched until Confirm.
func (h *AdminHandlers) RequestDelete(id int) (PendingAction, error) {
	return h.stage(id, PendingDelete)
}

// RequestPasswordReset stages a password reset.
func (h *AdminHandlers) RequestPasswordReset(id int) (PendingAction, error) {
	return h.stage(id, PendingReset)
}

func (h *AdminHandlers) stage(id int, kind PendingKind) (PendingAction, error) {
	u, err := h.store.Get(id)
	if err != nil {
		return PendingAction{}, err
	}

	action := PendingAction{
		Token: uuid.New(),
		Kind:  kind,
		User:  u,
	}

	h.mu.Lock()
	h.pending[action.Token] = action
	h.mu.Unlock()

	return action, nil
}

// Confirm applies a staged action. The target is re-resolved by id, so a
// user deleted between staging and confirming surfaces as not found.
func (h *AdminHandlers) Confirm(token uuid.UUID) (ConfirmResult, error) {
	h.mu.Lock()
	action, ok := h.pending[token]
	if ok {
		delete(h.pending, token)
	}
	h.mu.Unlock()

	if !ok {
		return ConfirmResult{}, ErrUnknownToken
	}

	switch action.Kind {
	case PendingDelete:
		u, err := h.store.Delete(action.User.ID)
		if err != nil {
			return ConfirmResult{}, err
		}
		return ConfirmResult{Kind: PendingDelete, User: u}, nil

	case PendingReset:
		u, err := h.store.ResetPassword(action.User.ID)
		if err != nil {
			return ConfirmResult{}, err
		}
		return ConfirmResult{
			Kind:         PendingReset,
			User:         u,
			TempPassword: store.TempPassword(),
		}, nil
	}

	return ConfirmResult{}, fmt.Errorf("unhandled pending kind %d", action.Kind)
}

// Cancel drops a staged action. No mutation, no log entry.
func (h *AdminHandlers) Cancel(token uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.pending[token]; !ok {
		return ErrUnknownToken
	}
	delete(h.pending, token)
	return nil
}

// ListLogs returns activity entries newest first, narrowed by the optional
// exact action and calendar-date prefix filters.
func (h *AdminHandlers) ListLogs(actionFilter, dateFilter string) []models.ActivityLog {
	return activity.Filter(h.logger.ReadAll(), actionFilter, dateFilter)
}
