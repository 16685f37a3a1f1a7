package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/caselight/caselight/internal/storage"
)

// MatterRequest represents a matter creation request
type MatterRequest struct {
	Name string `json:"name"`
}

// MatterResponse represents a matter in API responses
type MatterResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// handleListMatters returns all matters for the authenticated reviewer
func (s *Server) handleListMatters(w http.ResponseWriter, r *http.Request) {
	reviewerID := reviewerIDFromContext(r.Context())
	if reviewerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	uid, err := uuid.Parse(reviewerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid reviewer id")
		return
	}

	matters, err := s.matterRepo.GetByOwnerID(r.Context(), uid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch matters")
		return
	}

	response := make([]MatterResponse, 0, len(matters))
	for _, m := range matters {
		response = append(response, MatterResponse{
			ID:        m.ID.String(),
			Name:      m.Name,
			CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt: m.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	respondJSON(w, http.StatusOK, response)
}

// handleCreateMatter creates a new matter
func (s *Server) handleCreateMatter(w http.ResponseWriter, r *http.Request) {
	reviewerID := reviewerIDFromContext(r.Context())
	if reviewerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	uid, err := uuid.Parse(reviewerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid reviewer id")
		return
	}

	var req MatterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	matter := &storage.Matter{
		OwnerID: uid,
		Name:    req.Name,
	}

	if err := s.matterRepo.Create(r.Context(), matter); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create matter")
		return
	}

	respondJSON(w, http.StatusCreated, MatterResponse{
		ID:        matter.ID.String(),
		Name:      matter.Name,
		CreatedAt: matter.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: matter.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// handleDeleteMatter deletes a matter owned by the reviewer
func (s *Server) handleDeleteMatter(w http.ResponseWriter, r *http.Request) {
	reviewerID := reviewerIDFromContext(r.Context())
	if reviewerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	matterID, err := uuid.Parse(chi.URLParam(r, "matterID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid matter id")
		return
	}

	matter, err := s.matterRepo.GetByID(r.Context(), matterID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch matter")
		return
	}
	if matter == nil {
		respondError(w, http.StatusNotFound, "matter not found")
		return
	}
	if matter.OwnerID.String() != reviewerID {
		respondError(w, http.StatusForbidden, "access denied")
		return
	}

	if err := s.matterRepo.Delete(r.Context(), matterID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete matter")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
