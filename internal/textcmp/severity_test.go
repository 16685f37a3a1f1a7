package textcmp

import (
	"testing"

	"github.com/caselight/caselight/pkg/models"
)

func TestClassifyWordSeverity(t *testing.T) {
	tests := []struct {
		name  string
		wordA string
		wordB string
		want  models.Severity
	}{
		{"negation in first word", "not", "now", models.SeverityCritical},
		{"negation in second word", "ever", "never", models.SeverityCritical},
		{"contraction negation", "wasn't", "was", models.SeverityCritical},
		{"differing numbers", "500", "600", models.SeverityHigh},
		{"close spelling", "lessee", "lessees", models.SeverityLow},
		{"case only", "Contract", "contract", models.SeverityLow},
		{"distant words", "plaintiff", "defendant", models.SeverityMedium},
		{"number vs word", "500", "five", models.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyWordSeverity(tt.wordA, tt.wordB); got != tt.want {
				t.Errorf("ClassifyWordSeverity(%q, %q) = %s, want %s", tt.wordA, tt.wordB, got, tt.want)
			}
		})
	}
}
