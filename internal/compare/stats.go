package compare

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/caselight/caselight/pkg/models"
)

// SimilaritySummary aggregates similarity scores across the modified
// clauses of a clause-set diff.
type SimilaritySummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// SummarizeClauseSimilarity reduces the modified-clause similarity
// scores to summary statistics for report rendering. Added and removed
// clauses carry no similarity score and are excluded.
func SummarizeClauseSimilarity(changes []models.ClauseChange) SimilaritySummary {
	scores := make([]float64, 0, len(changes))
	for _, c := range changes {
		if c.Kind == models.ChangeModified {
			scores = append(scores, float64(c.Similarity))
		}
	}

	if len(scores) == 0 {
		return SimilaritySummary{}
	}

	summary := SimilaritySummary{
		Count: len(scores),
		Mean:  stat.Mean(scores, nil),
		Min:   floats.Min(scores),
		Max:   floats.Max(scores),
	}
	if len(scores) > 1 {
		summary.StdDev = stat.StdDev(scores, nil)
	}
	return summary
}
