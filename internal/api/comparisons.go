package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/caselight/caselight/internal/compare"
	"github.com/caselight/caselight/internal/storage"
	"github.com/caselight/caselight/pkg/models"
)

// CreateComparisonRequest is the input contract for running a comparison
type CreateComparisonRequest struct {
	MatterID        string `json:"matter_id"`
	SourceAType     string `json:"source_a_type"`
	SourceAID       int    `json:"source_a_id"`
	SourceBType     string `json:"source_b_type"`
	SourceBID       int    `json:"source_b_id"`
	DetectConflicts bool   `json:"detect_conflicts"`
}

// ComparisonResponse represents a stored comparison in API responses
type ComparisonResponse struct {
	ID        string                  `json:"id"`
	MatterID  string                  `json:"matter_id"`
	Result    models.ComparisonResult `json:"result"`
	CreatedBy string                  `json:"created_by"`
	CreatedAt string                  `json:"created_at"`
}

func toComparisonResponse(c *storage.Comparison) ComparisonResponse {
	return ComparisonResponse{
		ID:        c.ID.String(),
		MatterID:  c.MatterID.String(),
		Result:    c.Result,
		CreatedBy: c.CreatedBy.String(),
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// handleCreateComparison runs a comparison and persists the result
func (s *Server) handleCreateComparison(w http.ResponseWriter, r *http.Request) {
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

	var req CreateComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SourceAType == "" || req.SourceBType == "" {
		respondError(w, http.StatusBadRequest, "source types are required")
		return
	}

	matterID, err := uuid.Parse(req.MatterID)
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
	if matter.OwnerID != uid {
		respondError(w, http.StatusForbidden, "access denied")
		return
	}

	result, err := s.compareService.Compare(r.Context(), compare.Options{
		SourceAType:     req.SourceAType,
		SourceAID:       req.SourceAID,
		SourceBType:     req.SourceBType,
		SourceBID:       req.SourceBID,
		DetectConflicts: req.DetectConflicts,
	})
	if err != nil {
		if errors.Is(err, compare.ErrSourceNotFound) {
			respondError(w, http.StatusNotFound, "source not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "comparison failed")
		return
	}

	comparison := &storage.Comparison{
		MatterID:  matterID,
		Result:    *result,
		CreatedBy: uid,
	}
	if err := s.comparisonRepo.Create(r.Context(), comparison); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save comparison")
		return
	}

	respondJSON(w, http.StatusCreated, toComparisonResponse(comparison))
}

// handleGetComparison returns a stored comparison owned by the reviewer
func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	reviewerID := reviewerIDFromContext(r.Context())
	if reviewerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "comparisonID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comparison id")
		return
	}

	comparison, err := s.comparisonRepo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch comparison")
		return
	}
	if comparison == nil {
		respondError(w, http.StatusNotFound, "comparison not found")
		return
	}

	if !s.reviewerOwnsMatter(w, r, comparison.MatterID, reviewerID) {
		return
	}

	respondJSON(w, http.StatusOK, toComparisonResponse(comparison))
}

// handleListComparisons returns all comparisons for a matter
func (s *Server) handleListComparisons(w http.ResponseWriter, r *http.Request) {
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

	comparisons, err := s.comparisonRepo.ListByMatter(r.Context(), matterID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch comparisons")
		return
	}

	response := make([]ComparisonResponse, 0, len(comparisons))
	for _, c := range comparisons {
		response = append(response, toComparisonResponse(c))
	}

	respondJSON(w, http.StatusOK, response)
}

// reviewerOwnsMatter checks that the matter exists and belongs to the
// reviewer, writing the error response itself when it does not.
func (s *Server) reviewerOwnsMatter(w http.ResponseWriter, r *http.Request, matterID uuid.UUID, reviewerID string) bool {
	matter, err := s.matterRepo.GetByID(r.Context(), matterID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch matter")
		return false
	}
	if matter == nil || matter.OwnerID.String() != reviewerID {
		respondError(w, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

// handleResolveConflict marks one conflict of a comparison as resolved
func (s *Server) handleResolveConflict(w http.ResponseWriter, r *http.Request) {
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

	comparisonID, err := uuid.Parse(chi.URLParam(r, "comparisonID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comparison id")
		return
	}

	conflictIndex, err := strconv.Atoi(chi.URLParam(r, "conflictIndex"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid conflict index")
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comparison, err := s.comparisonRepo.GetByID(r.Context(), comparisonID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch comparison")
		return
	}
	if comparison == nil {
		respondError(w, http.StatusNotFound, "comparison not found")
		return
	}
	if !s.reviewerOwnsMatter(w, r, comparison.MatterID, reviewerID) {
		return
	}

	err = s.comparisonRepo.ResolveConflict(r.Context(), comparisonID, conflictIndex, req.Notes, uid)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
	case errors.Is(err, storage.ErrComparisonNotFound):
		respondError(w, http.StatusNotFound, "comparison not found")
	case errors.Is(err, storage.ErrConflictIndex):
		respondError(w, http.StatusBadRequest, "conflict index out of range")
	case errors.Is(err, storage.ErrAlreadyResolved):
		respondError(w, http.StatusConflict, "conflict already resolved")
	default:
		respondError(w, http.StatusInternalServerError, "failed to resolve conflict")
	}
}
