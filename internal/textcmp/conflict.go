package textcmp

import (
	"regexp"
	"strings"

	"github.com/caselight/caselight/pkg/models"
)

const (
	contradictionThreshold = 70
	discrepancyThreshold   = 60
)

var (
	sentenceEndRe = regexp.MustCompile(`[.!?]+`)
	numberRe      = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// DetectConflicts cross-compares every sentence of textA against every
// sentence of textB and flags direct contradictions (one side negates a
// statement the other makes) and numeric discrepancies (different
// numbers in otherwise similar sentences). A single sentence pair can
// emit both kinds. Cost is O(sentences(A) * sentences(B)); callers bound
// input size.
func DetectConflicts(textA, textB string, refA, refB models.SourceRef) []models.DetectedConflict {
	conflicts := make([]models.DetectedConflict, 0)

	sentencesA := SplitSentences(textA)
	sentencesB := SplitSentences(textB)

	for _, sa := range sentencesA {
		for _, sb := range sentencesB {
			negA := HasNegation(sa)
			negB := HasNegation(sb)

			score := Similarity(stripNegations(sa), stripNegations(sb))

			if negA != negB && score > contradictionThreshold {
				conflicts = append(conflicts, models.DetectedConflict{
					Kind:        models.KindConflict,
					Severity:    models.SeverityCritical,
					Description: "Direct contradiction detected: one statement negates the other",
					SourceA:     sentenceRef(refA, sa),
					SourceB:     sentenceRef(refB, sb),
					Confidence:  score,
				})
			}

			numsA := numberRe.FindAllString(sa, -1)
			numsB := numberRe.FindAllString(sb, -1)
			if len(numsA) > 0 && len(numsB) > 0 && score > discrepancyThreshold && numsA[0] != numsB[0] {
				conflicts = append(conflicts, models.DetectedConflict{
					Kind:        models.KindDiscrepancy,
					Severity:    models.SeverityHigh,
					Description: "Numeric discrepancy detected: different numbers in similar contexts",
					SourceA:     sentenceRef(refA, sa),
					SourceB:     sentenceRef(refB, sb),
					Confidence:  score,
				})
			}
		}
	}

	return conflicts
}

// SplitSentences breaks text on sentence terminators, trimming
// whitespace and dropping empties.
func SplitSentences(text string) []string {
	parts := sentenceEndRe.Split(text, -1)

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// HasNegation reports whether the sentence contains a negation token.
func HasNegation(sentence string) bool {
	return negationRe.MatchString(sentence)
}

func stripNegations(sentence string) string {
	return strings.ToLower(strings.TrimSpace(negationRe.ReplaceAllString(sentence, "")))
}

// sentenceRef snapshots the triggering sentence onto a copy of the
// parent source ref.
func sentenceRef(ref models.SourceRef, sentence string) models.SourceRef {
	ref.Text = sentence
	return ref
}
