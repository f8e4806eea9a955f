package http

import (
	"net/http"

	"asceta/portal/internal/access"
	"asceta/portal/internal/apperr"
	"asceta/portal/internal/identity"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req identity.RegisterInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	session, err := s.identity.Register(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapSession(session))
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req identity.AdmissionInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	session, err := s.identity.Apply(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapSession(session))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req identity.LoginInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	session, err := s.identity.Login(r.Context(), req)
	if err != nil {
		s.deny(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSession(session))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	account, ok := access.AccountFrom(r.Context())
	if !ok {
		fail(w, r, apperr.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, mapAccount(account))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	account, ok := access.AccountFrom(r.Context())
	if !ok {
		fail(w, r, apperr.ErrUnauthenticated)
		return
	}
	var req identity.ProfileInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	updated, err := s.identity.UpdateProfile(r.Context(), account, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapAccount(updated))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.Logout(r.Context(), claimsFromContext(r.Context())); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user_not_found")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.identity.Deactivate(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func mapSession(session identity.Session) sessionResponse {
	return sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Account:   mapAccount(session.Account),
	}
}
