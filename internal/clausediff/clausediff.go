// Package clausediff compares two versions of an ordered clause set and
// weights each change by the risk tier of the clause's category.
package clausediff

import (
	"math"

	"github.com/caselight/caselight/internal/textcmp"
	"github.com/caselight/caselight/pkg/models"
)

// Modified clauses scoring at or above this similarity are routine edits.
const lowSimilarityCutoff = 50

var criticalCategories = map[string]bool{
	"liability":          true,
	"indemnification":    true,
	"termination":        true,
	"force-majeure":      true,
	"dispute-resolution": true,
}

var highRiskCategories = map[string]bool{
	"warranties":      true,
	"representations": true,
	"ip-ownership":    true,
	"confidentiality": true,
	"payment-terms":   true,
}

// DiffClauseSets compares two clause sets keyed by clause id. A clause
// present only in before is removed, only in after is added, and present
// in both with different text is modified (carrying a word-level diff).
// Removed and modified clauses are emitted in before order, additions
// appended in after order, so output is deterministic without sorting.
func DiffClauseSets(before, after []models.Clause) *models.ClauseSetDiff {
	beforeByID := make(map[int]models.Clause, len(before))
	for _, c := range before {
		beforeByID[c.ID] = c
	}
	afterByID := make(map[int]models.Clause, len(after))
	for _, c := range after {
		afterByID[c.ID] = c
	}

	result := &models.ClauseSetDiff{Changes: make([]models.ClauseChange, 0)}

	for _, c := range before {
		updated, ok := afterByID[c.ID]
		if !ok {
			result.Changes = append(result.Changes, models.ClauseChange{
				Kind:        models.ChangeRemoved,
				ClauseID:    c.ID,
				SectionName: c.SectionName,
				Category:    c.Category,
				OldText:     c.Text,
				RiskLevel:   riskOf(c.Category, models.ChangeRemoved, 0),
			})
			result.Removed++
			continue
		}

		if updated.Text != c.Text {
			score := textcmp.Similarity(c.Text, updated.Text)
			result.Changes = append(result.Changes, models.ClauseChange{
				Kind:        models.ChangeModified,
				ClauseID:    c.ID,
				SectionName: updated.SectionName,
				Category:    updated.Category,
				OldText:     c.Text,
				NewText:     updated.Text,
				Similarity:  score,
				RiskLevel:   riskOf(updated.Category, models.ChangeModified, score),
				Diff:        textcmp.Diff(c.Text, updated.Text),
			})
			result.Modified++
		}
	}

	for _, c := range after {
		if _, ok := beforeByID[c.ID]; ok {
			continue
		}
		result.Changes = append(result.Changes, models.ClauseChange{
			Kind:        models.ChangeAdded,
			ClauseID:    c.ID,
			SectionName: c.SectionName,
			Category:    c.Category,
			NewText:     c.Text,
			RiskLevel:   riskOf(c.Category, models.ChangeAdded, 0),
		})
		result.Added++
	}

	result.SimilarityScore = overallScore(len(before), len(after),
		result.Added+result.Removed+result.Modified)

	return result
}

// riskOf weights a clause change by the risk tier of its category.
// Removing a critical-tier clause is always critical; a heavy rewrite
// (similarity below the cutoff) keeps the category tier with unmatched
// categories landing at medium; light edits rate low regardless of
// category; additions rate one tier below removals.
func riskOf(category string, kind models.ChangeKind, similarity int) models.Severity {
	switch kind {
	case models.ChangeRemoved:
		switch {
		case criticalCategories[category]:
			return models.SeverityCritical
		case highRiskCategories[category]:
			return models.SeverityHigh
		default:
			return models.SeverityLow
		}
	case models.ChangeModified:
		if similarity >= lowSimilarityCutoff {
			return models.SeverityLow
		}
		switch {
		case criticalCategories[category]:
			return models.SeverityCritical
		case highRiskCategories[category]:
			return models.SeverityHigh
		default:
			return models.SeverityMedium
		}
	default:
		switch {
		case criticalCategories[category]:
			return models.SeverityHigh
		case highRiskCategories[category]:
			return models.SeverityMedium
		default:
			return models.SeverityLow
		}
	}
}

// overallScore rates how much of the larger clause set survived
// unchanged, 0-100. Wholesale replacement can drive the unchanged count
// negative (every id removed plus every id added); that floors at 0.
func overallScore(beforeLen, afterLen, changed int) int {
	total := beforeLen
	if afterLen > total {
		total = afterLen
	}
	if total == 0 {
		return 100
	}

	unchanged := total - changed
	if unchanged < 0 {
		unchanged = 0
	}
	return int(math.Round(float64(unchanged) / float64(total) * 100))
}
