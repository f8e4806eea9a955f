package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"asceta/portal/internal/identity"
	"asceta/portal/internal/model"
	"asceta/portal/internal/repository"
)

type accaddRegisterRequest struct {
	ExternalUserID string `json:"externalUserId" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	FullName       string `json:"fullName" validate:"required"`
}

type accaddRegisterResponse struct {
	Message string             `json:"message"`
	User    accaddUserResponse `json:"user"`
}

// handleAccaddRegister records a diploma-program user whose identity lives
// with the external auth provider. Repeat calls return the stored user.
func (s *Server) handleAccaddRegister(w http.ResponseWriter, r *http.Request) {
	var req accaddRegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	req.ExternalUserID = strings.TrimSpace(req.ExternalUserID)
	if err := s.validate.Struct(req); err != nil {
		fail(w, r, identity.ValidationError(err))
		return
	}

	existing, err := s.store.FindAccaddUser(r.Context(), req.Email, req.ExternalUserID)
	if err == nil {
		writeJSON(w, http.StatusOK, accaddRegisterResponse{Message: "user already registered", User: mapAccaddUser(existing)})
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		fail(w, r, storeFailure(err, "user_not_found"))
		return
	}

	now := s.now().UTC()
	user := model.AccaddUser{
		ID:              uuid.NewString(),
		Email:           req.Email,
		FullName:        req.FullName,
		ExternalUserID:  req.ExternalUserID,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateAccaddUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost a race with a concurrent registration of the same user.
			if existing, findErr := s.store.FindAccaddUser(r.Context(), req.Email, req.ExternalUserID); findErr == nil {
				writeJSON(w, http.StatusOK, accaddRegisterResponse{Message: "user already registered", User: mapAccaddUser(existing)})
				return
			}
		}
		fail(w, r, storeFailure(err, "user_not_found"))
		return
	}
	writeJSON(w, http.StatusCreated, accaddRegisterResponse{Message: "user registered", User: mapAccaddUser(user)})
}

func (s *Server) handleAccaddStatus(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "email")))
	user, err := s.store.GetAccaddUserByEmail(r.Context(), email)
	if err != nil {
		fail(w, r, storeFailure(err, "user_not_found"))
		return
	}
	writeJSON(w, http.StatusOK, mapAccaddUser(user))
}
