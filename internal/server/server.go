// Package server exposes the conversation engine over HTTP for the web UI.
// Handlers are thin: they decode, call the controller or a collaborator,
// and encode. Lifecycle rules live in internal/session.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"vaani/internal/auth"
	"vaani/internal/chat"
	"vaani/internal/session"
	"vaani/internal/store"
)

// Server wires the lifecycle controller and its collaborators to HTTP.
type Server struct {
	controller *session.Controller
	store      store.Store
	logger     *slog.Logger
}

// New creates a Server around the given controller and store.
func New(controller *session.Controller, st store.Store, logger *slog.Logger) *Server {
	return &Server{controller: controller, store: st, logger: logger}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/auth", s.handleAuth)
	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("POST /api/session/new", s.handleNewChat)
	mux.HandleFunc("GET /api/conversations", s.handleListConversations)
	mux.HandleFunc("POST /api/conversations/{id}/select", s.handleSelectConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", s.handleDeleteConversation)
	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sessionView is the active-session payload returned by several endpoints.
type sessionView struct {
	State    string         `json:"state"`
	ActiveID string         `json:"active_id,omitempty"`
	Busy     bool           `json:"busy"`
	Messages []chat.Message `json:"messages"`
}

func (s *Server) sessionView() sessionView {
	return sessionView{
		State:    s.controller.State().String(),
		ActiveID: s.controller.ActiveID(),
		Busy:     s.controller.Busy(),
		Messages: s.controller.Messages(),
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Message string `json:"message"`
}

// handleChat appends the user's message, waits for the completion, and
// returns the assistant reply. Provider failures still yield a 200 with
// fallback content; only protocol misuse is an HTTP error.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	reply, err := s.controller.Send(r.Context(), req.Message)
	if errors.Is(err, session.ErrBusy) {
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if errors.Is(err, session.ErrEmptyMessage) {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("send failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{Message: reply.Content})
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Action   string `json:"action"`
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := auth.Authenticate(req.Action, req.Email, req.Password)
	if err != nil {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleNewChat(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.NewChat(); errors.Is(err, session.ErrBusy) {
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List()
	if err != nil {
		s.logger.Error("failed to list conversations", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

// handleSelectConversation loads a stored conversation into the active
// stream. Selecting an id that no longer exists is not an error; the
// session is simply returned unchanged.
func (s *Server) handleSelectConversation(w http.ResponseWriter, r *http.Request) {
	s.controller.SelectConversation(r.PathValue("id"))
	s.writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.DeleteConversation(r.PathValue("id")); err != nil {
		if errors.Is(err, session.ErrBusy) {
			s.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Error("failed to delete conversation", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.sessionView())
}
