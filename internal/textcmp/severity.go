package textcmp

import (
	"regexp"
	"strings"

	"github.com/caselight/caselight/pkg/models"
)

var (
	negationRe = regexp.MustCompile(`(?i)\b(not|no|never|neither|wasn't|weren't|didn't|don't|doesn't|isn't|aren't)\b`)
	numericRe  = regexp.MustCompile(`^\d+$`)
)

// ClassifyWordSeverity rates how consequential replacing wordA with
// wordB is. Negation flips are critical and numeric changes high; small
// spelling deltas rate low and everything else medium.
func ClassifyWordSeverity(wordA, wordB string) models.Severity {
	if negationRe.MatchString(wordA) || negationRe.MatchString(wordB) {
		return models.SeverityCritical
	}
	if numericRe.MatchString(wordA) && numericRe.MatchString(wordB) && wordA != wordB {
		return models.SeverityHigh
	}
	if EditDistance(strings.ToLower(wordA), strings.ToLower(wordB)) <= 2 {
		return models.SeverityLow
	}
	return models.SeverityMedium
}
