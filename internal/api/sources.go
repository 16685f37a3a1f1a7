package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// SourceResponse represents a resolved source in API responses
type SourceResponse struct {
	Type     string `json:"type"`
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Citation string `json:"citation,omitempty"`
}

// SimilarSourceResponse pairs a candidate source with its similarity
type SimilarSourceResponse struct {
	Source     SourceResponse `json:"source"`
	Similarity float64        `json:"similarity"`
}

// handleGetSource resolves a source descriptor to its stored text
func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	sourceType := chi.URLParam(r, "sourceType")
	sourceID, err := strconv.Atoi(chi.URLParam(r, "sourceID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid source id")
		return
	}

	src, err := s.sourceRepo.Resolve(r.Context(), sourceType, sourceID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve source")
		return
	}
	if src == nil {
		respondError(w, http.StatusNotFound, "source not found")
		return
	}

	respondJSON(w, http.StatusOK, SourceResponse{
		Type:     src.SourceType,
		ID:       src.SourceID,
		Text:     src.Text,
		Citation: src.Citation,
	})
}

// handleFindSimilarSources suggests candidate excerpts to compare
// against the given source, ranked by embedding similarity
func (s *Server) handleFindSimilarSources(w http.ResponseWriter, r *http.Request) {
	sourceType := chi.URLParam(r, "sourceType")
	sourceID, err := strconv.Atoi(chi.URLParam(r, "sourceID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid source id")
		return
	}

	src, err := s.sourceRepo.Resolve(r.Context(), sourceType, sourceID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve source")
		return
	}
	if src == nil {
		respondError(w, http.StatusNotFound, "source not found")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	threshold := 0.75
	if v := r.URL.Query().Get("threshold"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			threshold = f
		}
	}

	candidates, err := s.sourceRepo.FindSimilar(r.Context(), src.Embedding, limit, threshold)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to find similar sources")
		return
	}

	response := make([]SimilarSourceResponse, 0, len(candidates))
	for _, c := range candidates {
		// The query source itself is always its own best match.
		if c.Source.SourceType == sourceType && c.Source.SourceID == sourceID {
			continue
		}
		response = append(response, SimilarSourceResponse{
			Source: SourceResponse{
				Type:     c.Source.SourceType,
				ID:       c.Source.SourceID,
				Text:     c.Source.Text,
				Citation: c.Source.Citation,
			},
			Similarity: c.Similarity,
		})
	}

	respondJSON(w, http.StatusOK, response)
}
