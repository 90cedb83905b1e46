package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/groblegark/trellis/internal/model"
)

type identityWebhookInput struct {
	Subject string     `json:"subject"`
	Email   string     `json:"email"`
	Name    string     `json:"name"`
	Plan    model.Plan `json:"plan"`
}

// handleIdentityWebhook handles POST /v1/identity/webhook. The identity
// provider calls this on signup and profile changes; the user row is
// upserted keyed by the provider subject.
func (s *WorkspaceServer) handleIdentityWebhook(w http.ResponseWriter, r *http.Request) {
	var in identityWebhookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	if in.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if in.Plan == "" {
		in.Plan = model.PlanFree
	}
	if !in.Plan.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown plan")
		return
	}

	user := &model.User{
		ID:        in.Subject,
		Email:     in.Email,
		Name:      in.Name,
		Plan:      in.Plan,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.UpsertUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to upsert user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleListUsers handles GET /v1/users.
func (s *WorkspaceServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []*model.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// handleGetUser handles GET /v1/users/{id}.
func (s *WorkspaceServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateUserInput struct {
	Email *string     `json:"email"`
	Name  *string     `json:"name"`
	Plan  *model.Plan `json:"plan"`
}

// handleUpdateUser handles PATCH /v1/users/{id}.
func (s *WorkspaceServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in updateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "user not found")
		return
	}

	if in.Email != nil {
		if *in.Email == "" {
			writeError(w, http.StatusBadRequest, "email cannot be empty")
			return
		}
		user.Email = *in.Email
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Plan != nil {
		if !in.Plan.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown plan")
			return
		}
		user.Plan = *in.Plan
	}

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		writeStoreError(w, err, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleDeleteUser handles DELETE /v1/users/{id}. Owned projects cascade.
func (s *WorkspaceServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleUserStats handles GET /v1/users/{id}/stats.
func (s *WorkspaceServer) handleUserStats(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.GetUser(r.Context(), id); err != nil {
		writeStoreError(w, err, "user not found")
		return
	}

	stats, err := s.store.GetUserStats(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get user stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
