// ABOUTME: JSON HTTP API exposing the admin operations on localhost
// ABOUTME: Thin layer over handlers; destructive actions are two-step
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harperreed/userdesk/handlers"
	"github.com/harperreed/userdesk/models"
	"github.com/harperreed/userdesk/store"
)

type Server struct {
	admin *handlers.AdminHandlers
	diag  *log.Logger
}

func NewServer(admin *handlers.AdminHandlers) *Server {
	return &Server{
		admin: admin,
		diag:  log.Default(),
	}
}

// Handler returns the route table. Exposed separately from Start for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("PUT /api/users/{id}", s.handleUpdateUser)
	mux.HandleFunc("POST /api/users/{id}/delete", s.handleRequestDelete)
	mux.HandleFunc("POST /api/users/{id}/reset-password", s.handleRequestReset)
	mux.HandleFunc("POST /api/confirmations/{token}", s.handleConfirm)
	mux.HandleFunc("DELETE /api/confirmations/{token}", s.handleCancel)
	mux.HandleFunc("GET /api/logs", s.handleListLogs)

	return mux
}

func (s *Server) Start(addr string) error {
	s.diag.Info("starting admin API", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

type userPayload struct {
	Username            string      `json:"username"`
	Email               string      `json:"email"`
	Password            string      `json:"password,omitempty"`
	Role                models.Role `json:"role,omitempty"`
	ForcePasswordChange bool        `json:"forcePasswordChange"`
}

type pendingResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type confirmResponse struct {
	User         models.User `json:"user"`
	TempPassword string      `json:"tempPassword,omitempty"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users := s.admin.ListUsers(r.URL.Query().Get("q"))
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.admin.SaveUser(handlers.SaveUserInput{
		Username:            payload.Username,
		Email:               payload.Email,
		Password:            payload.Password,
		Role:                payload.Role,
		ForcePasswordChange: payload.ForcePasswordChange,
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.admin.SaveUser(handlers.SaveUserInput{
		ID:                  &id,
		Username:            payload.Username,
		Email:               payload.Email,
		Password:            payload.Password,
		Role:                payload.Role,
		ForcePasswordChange: payload.ForcePasswordChange,
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleRequestDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	pending, err := s.admin.RequestDelete(id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, pendingResponse{
		Token: pending.Token.String(),
		User:  pending.User,
	})
}

func (s *Server) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	pending, err := s.admin.RequestPasswordReset(id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, pendingResponse{
		Token: pending.Token.String(),
		User:  pending.User,
	})
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	token, ok := s.pathToken(w, r)
	if !ok {
		return
	}

	result, err := s.admin.Confirm(token)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, confirmResponse{
		User:         result.User,
		TempPassword: result.TempPassword,
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	token, ok := s.pathToken(w, r)
	if !ok {
		return
	}

	if err := s.admin.Cancel(token); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logs := s.admin.ListLogs(q.Get("action"), q.Get("date"))
	s.writeJSON(w, http.StatusOK, logs)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func (s *Server) pathToken(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	token, err := uuid.Parse(r.PathValue("token"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid confirmation token")
		return uuid.Nil, false
	}
	return token, true
}

// writeFailure maps handler errors to HTTP status codes.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, handlers.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrUserNotFound), errors.Is(err, handlers.ErrUnknownToken):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.diag.Error("request failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.diag.Error("failed to encode response", "err", err)
	}
}
