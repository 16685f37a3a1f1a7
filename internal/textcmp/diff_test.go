package textcmp

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/caselight/caselight/pkg/models"
)

func TestDiffIdenticalTexts(t *testing.T) {
	texts := []string{
		"",
		"The cat sat",
		"Payment of $500 is due monthly.",
		"multi\nline\ttext with   odd whitespace",
	}

	for _, s := range texts {
		if diffs := Diff(s, s); len(diffs) != 0 {
			t.Errorf("Diff(%q, %q) = %d differences, want 0", s, s, len(diffs))
		}
	}
}

func TestDiffSingleWordModification(t *testing.T) {
	diffs := Diff("The cat sat", "The dog sat")

	if len(diffs) != 1 {
		t.Fatalf("expected exactly one difference, got %d", len(diffs))
	}

	d := diffs[0]
	if d.Kind != models.DiffModification {
		t.Errorf("expected modification, got %s", d.Kind)
	}
	if d.Before != "cat" || d.After != "dog" {
		t.Errorf("expected cat -> dog, got %q -> %q", d.Before, d.After)
	}
	if d.Position != 4 {
		t.Errorf("expected position 4, got %d", d.Position)
	}
}

func TestDiffOneWordDeletion(t *testing.T) {
	diffs := Diff("The quick brown fox", "The brown fox")

	if len(diffs) != 1 {
		t.Fatalf("expected exactly one difference, got %d", len(diffs))
	}

	d := diffs[0]
	if d.Kind != models.DiffDeletion {
		t.Errorf("expected deletion, got %s", d.Kind)
	}
	if d.Before != "quick" {
		t.Errorf("expected deleted word %q, got %q", "quick", d.Before)
	}
	if d.Severity != models.SeverityMedium {
		t.Errorf("expected medium severity, got %s", d.Severity)
	}
}

func TestDiffOneWordInsertion(t *testing.T) {
	diffs := Diff("The brown fox", "The quick brown fox")

	if len(diffs) != 1 {
		t.Fatalf("expected exactly one difference, got %d", len(diffs))
	}

	d := diffs[0]
	if d.Kind != models.DiffAddition {
		t.Errorf("expected addition, got %s", d.Kind)
	}
	if d.After != "quick" {
		t.Errorf("expected inserted word %q, got %q", "quick", d.After)
	}
}

func TestDiffTrailingAdditionCollapsed(t *testing.T) {
	diffs := Diff("Payment is due", "Payment is due on the first business day")

	if len(diffs) != 1 {
		t.Fatalf("expected one collapsed addition, got %d differences", len(diffs))
	}
	if diffs[0].Kind != models.DiffAddition {
		t.Errorf("expected addition, got %s", diffs[0].Kind)
	}
	if diffs[0].After != "on the first business day" {
		t.Errorf("unexpected added text %q", diffs[0].After)
	}
}

func TestDiffTrailingDeletionCollapsed(t *testing.T) {
	diffs := Diff("Payment is due on the first business day", "Payment is due")

	if len(diffs) != 1 {
		t.Fatalf("expected one collapsed deletion, got %d differences", len(diffs))
	}
	if diffs[0].Kind != models.DiffDeletion {
		t.Errorf("expected deletion, got %s", diffs[0].Kind)
	}
	if diffs[0].Before != "on the first business day" {
		t.Errorf("unexpected deleted text %q", diffs[0].Before)
	}
}

func TestDiffNegationFlipIsCritical(t *testing.T) {
	diffs := Diff("The agreement was valid", "The agreement not valid")

	var found bool
	for _, d := range diffs {
		if d.Kind == models.DiffModification && d.Severity == models.SeverityCritical {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a critical modification for a negation flip, got %+v", diffs)
	}
}

func TestDiffNumericChangeIsHigh(t *testing.T) {
	diffs := Diff("costs 500 dollars", "costs 600 dollars")

	if len(diffs) != 1 {
		t.Fatalf("expected one difference, got %d", len(diffs))
	}
	if diffs[0].Severity != models.SeverityHigh {
		t.Errorf("expected high severity for numeric change, got %s", diffs[0].Severity)
	}
}

func TestDiffUnrelatedReplacementIsHigh(t *testing.T) {
	diffs := Diff("alpha ends here", "terminology ends here")

	if len(diffs) != 1 {
		t.Fatalf("expected one difference, got %d", len(diffs))
	}
	if diffs[0].Kind != models.DiffModification || diffs[0].Severity != models.SeverityHigh {
		t.Errorf("expected a high-severity replacement, got %+v", diffs[0])
	}
}

func TestDiffPositionsAscending(t *testing.T) {
	diffs := Diff(
		"The lessee shall pay 500 to the lessor every month without exception",
		"The tenant shall pay 600 to the lessor every week without exception",
	)

	if len(diffs) < 2 {
		t.Fatalf("expected multiple differences, got %d", len(diffs))
	}
	for k := 1; k < len(diffs); k++ {
		if diffs[k].Position < diffs[k-1].Position {
			t.Errorf("positions not ascending: %d before %d", diffs[k-1].Position, diffs[k].Position)
		}
	}
}

func TestDiffContextTruncation(t *testing.T) {
	long := strings.Repeat("word ", 40) + "middle " + strings.Repeat("word ", 40)
	changed := strings.Repeat("word ", 40) + "centre " + strings.Repeat("word ", 40)

	diffs := Diff(long, changed)
	if len(diffs) != 1 {
		t.Fatalf("expected one difference, got %d", len(diffs))
	}

	ctx := diffs[0].Context
	if !strings.HasPrefix(ctx, "...") || !strings.HasSuffix(ctx, "...") {
		t.Errorf("expected truncation markers on both sides, got %q", ctx)
	}
	if !strings.Contains(ctx, "middle") {
		t.Errorf("expected changed word inside context window, got %q", ctx)
	}
}

func TestContextAroundMultibyte(t *testing.T) {
	// Every rune is two bytes, so naive byte slicing would land mid-rune.
	text := strings.Repeat("é", 60)

	for _, pos := range []int{0, 1, 51, 71, len(text)} {
		ctx := contextAround(text, pos)
		if !utf8.ValidString(ctx) {
			t.Errorf("contextAround(%d) produced invalid UTF-8: %q", pos, ctx)
		}
	}

	ctx := contextAround(text, 71)
	if !strings.HasPrefix(ctx, "...") || !strings.HasSuffix(ctx, "...") {
		t.Errorf("expected truncation markers on both sides, got %q", ctx)
	}
}

func TestDiffMultibyteContextValid(t *testing.T) {
	before := strings.Repeat("première ", 20) + "clause " + strings.Repeat("première ", 20)
	after := strings.Repeat("première ", 20) + "raison " + strings.Repeat("première ", 20)

	for _, d := range Diff(before, after) {
		if !utf8.ValidString(d.Context) {
			t.Errorf("difference context is invalid UTF-8: %q", d.Context)
		}
	}
}
