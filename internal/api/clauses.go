package api

import (
	"encoding/json"
	"net/http"

	"github.com/caselight/caselight/internal/compare"
	"github.com/caselight/caselight/pkg/models"
)

// CompareClausesRequest carries two versions of a clause set
type CompareClausesRequest struct {
	Before []models.Clause `json:"before"`
	After  []models.Clause `json:"after"`
}

// CompareClausesResponse is the clause diff plus a similarity summary
type CompareClausesResponse struct {
	Diff    *models.ClauseSetDiff     `json:"diff"`
	Summary compare.SimilaritySummary `json:"summary"`
}

// handleCompareClauses diffs two clause-set versions
func (s *Server) handleCompareClauses(w http.ResponseWriter, r *http.Request) {
	var req CompareClausesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Before) == 0 && len(req.After) == 0 {
		respondError(w, http.StatusBadRequest, "at least one clause set is required")
		return
	}

	diff, summary := s.compareService.CompareClauses(req.Before, req.After)

	respondJSON(w, http.StatusOK, CompareClausesResponse{
		Diff:    diff,
		Summary: summary,
	})
}
