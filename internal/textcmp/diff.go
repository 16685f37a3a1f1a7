package textcmp

import (
	"strings"
	"unicode/utf8"

	"github.com/caselight/caselight/pkg/models"
)

const contextRadius = 50

// Diff aligns the words of original and modified with a greedy
// two-pointer scan and reports additions, deletions and modifications in
// position order. The alignment is greedy, not LCS-minimal: reordered or
// repeated words can produce a locally plausible but non-minimal edit
// script. The severity rules were tuned against exactly this behavior,
// so it is kept rather than upgraded to a true LCS diff.
func Diff(original, modified string) []models.TextDifference {
	diffs := make([]models.TextDifference, 0)

	orig := strings.Fields(original)
	mod := strings.Fields(modified)

	i, j := 0, 0
	posOrig, posMod := 0, 0

	for i < len(orig) || j < len(mod) {
		if i >= len(orig) {
			added := strings.Join(mod[j:], " ")
			diffs = append(diffs, models.TextDifference{
				Kind:     models.DiffAddition,
				After:    added,
				Position: posOrig,
				Length:   len(added),
				Context:  contextAround(modified, posMod),
				Severity: models.SeverityMedium,
			})
			break
		}
		if j >= len(mod) {
			removed := strings.Join(orig[i:], " ")
			diffs = append(diffs, models.TextDifference{
				Kind:     models.DiffDeletion,
				Before:   removed,
				Position: posOrig,
				Length:   len(removed),
				Context:  contextAround(original, posOrig),
				Severity: models.SeverityMedium,
			})
			break
		}

		if orig[i] == mod[j] {
			posOrig += len(orig[i]) + 1
			posMod += len(mod[j]) + 1
			i++
			j++
			continue
		}

		wordDistance := EditDistance(orig[i], mod[j])
		switch {
		case wordDistance <= 3:
			diffs = append(diffs, models.TextDifference{
				Kind:     models.DiffModification,
				Before:   orig[i],
				After:    mod[j],
				Position: posOrig,
				Length:   len(mod[j]),
				Context:  contextAround(original, posOrig),
				Severity: ClassifyWordSeverity(orig[i], mod[j]),
			})
			posOrig += len(orig[i]) + 1
			posMod += len(mod[j]) + 1
			i++
			j++
		case i+1 < len(orig) && orig[i+1] == mod[j]:
			// Dropping one word from the original realigns the streams.
			diffs = append(diffs, models.TextDifference{
				Kind:     models.DiffDeletion,
				Before:   orig[i],
				Position: posOrig,
				Length:   len(orig[i]),
				Context:  contextAround(original, posOrig),
				Severity: models.SeverityMedium,
			})
			posOrig += len(orig[i]) + 1
			i++
		case j+1 < len(mod) && mod[j+1] == orig[i]:
			// One inserted word in the modified text realigns the streams.
			diffs = append(diffs, models.TextDifference{
				Kind:     models.DiffAddition,
				After:    mod[j],
				Position: posOrig,
				Length:   len(mod[j]),
				Context:  contextAround(modified, posMod),
				Severity: models.SeverityMedium,
			})
			posMod += len(mod[j]) + 1
			j++
		default:
			// Outright replacement with no nearby realignment.
			diffs = append(diffs, models.TextDifference{
				Kind:     models.DiffModification,
				Before:   orig[i],
				After:    mod[j],
				Position: posOrig,
				Length:   len(mod[j]),
				Context:  contextAround(original, posOrig),
				Severity: models.SeverityHigh,
			})
			posOrig += len(orig[i]) + 1
			posMod += len(mod[j]) + 1
			i++
			j++
		}
	}

	return diffs
}

// contextAround returns up to contextRadius characters either side of
// pos, with "..." markers where the window is truncated. Window edges
// back off to rune boundaries so multibyte text is never cut mid-rune.
func contextAround(text string, pos int) string {
	if text == "" {
		return ""
	}

	start := pos - contextRadius
	if start < 0 {
		start = 0
	}
	if start > len(text) {
		start = len(text)
	}
	end := pos + contextRadius
	if end > len(text) {
		end = len(text)
	}

	for start > 0 && start < len(text) && !utf8.RuneStart(text[start]) {
		start--
	}
	for end > start && end < len(text) && !utf8.RuneStart(text[end]) {
		end--
	}

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet = snippet + "..."
	}
	return snippet
}
