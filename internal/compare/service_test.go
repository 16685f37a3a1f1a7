package compare

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/caselight/caselight/pkg/models"
)

// stubFetcher serves canned texts keyed by "type/id" and counts lookups.
type stubFetcher struct {
	sources map[string]ResolvedSource
	calls   int
	err     error
}

func key(sourceType string, id int) string {
	return sourceType + "/" + strconv.Itoa(id)
}

func (f *stubFetcher) FetchSource(ctx context.Context, sourceType string, id int) (*ResolvedSource, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	src, ok := f.sources[key(sourceType, id)]
	if !ok {
		return nil, nil
	}
	return &src, nil
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		sources: map[string]ResolvedSource{
			key("fact", 1):       {Text: "The contract was signed on March 1.", Citation: "Exhibit A"},
			key("deposition", 2): {Text: "The contract was not signed on March 1.", Citation: "Depo Tr. 14:3"},
			key("fact", 3):       {Text: "Payment of $500 is due monthly."},
			key("fact", 4):       {Text: "Payment of $600 is due monthly."},
		},
	}
}

func TestCompareContradiction(t *testing.T) {
	svc := NewService(newStubFetcher(), nil, Config{})

	result, err := svc.Compare(context.Background(), Options{
		SourceAType:     "fact",
		SourceAID:       1,
		SourceBType:     "deposition",
		SourceBID:       2,
		DetectConflicts: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(result.Conflicts) != 1 {
		t.Fatalf("expected one conflict, got %d", len(result.Conflicts))
	}
	if result.Conflicts[0].Severity != models.SeverityCritical {
		t.Errorf("expected critical conflict, got %s", result.Conflicts[0].Severity)
	}
	if result.CriticalConflicts != 1 {
		t.Errorf("expected critical counter 1, got %d", result.CriticalConflicts)
	}
	if result.SourceA.Citation != "Exhibit A" {
		t.Errorf("expected citation carried onto source ref, got %q", result.SourceA.Citation)
	}
}

func TestCompareCountInvariants(t *testing.T) {
	svc := NewService(newStubFetcher(), nil, Config{})

	result, err := svc.Compare(context.Background(), Options{
		SourceAType:     "fact",
		SourceAID:       3,
		SourceBType:     "fact",
		SourceBID:       4,
		DetectConflicts: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.TotalDifferences != len(result.Differences) {
		t.Errorf("total differences %d != len(differences) %d",
			result.TotalDifferences, len(result.Differences))
	}

	counted := result.CriticalConflicts + result.HighConflicts +
		result.MediumConflicts + result.LowConflicts + result.InfoConflicts
	if counted != len(result.Conflicts) {
		t.Errorf("severity counters sum to %d, want %d", counted, len(result.Conflicts))
	}
	if result.HighConflicts == 0 {
		t.Error("expected a high-severity numeric discrepancy")
	}
}

func TestCompareSkipsConflictsWhenDisabled(t *testing.T) {
	svc := NewService(newStubFetcher(), nil, Config{})

	result, err := svc.Compare(context.Background(), Options{
		SourceAType: "fact",
		SourceAID:   1,
		SourceBType: "deposition",
		SourceBID:   2,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(result.Conflicts) != 0 {
		t.Errorf("expected no conflicts when detection disabled, got %d", len(result.Conflicts))
	}
	if result.SimilarityScore <= 0 {
		t.Error("similarity must always be computed")
	}
	if len(result.Differences) == 0 {
		t.Error("differences must always be computed")
	}
}

func TestCompareDeterministic(t *testing.T) {
	opts := Options{
		SourceAType:     "fact",
		SourceAID:       1,
		SourceBType:     "deposition",
		SourceBID:       2,
		DetectConflicts: true,
	}

	// No cache, so both runs recompute from scratch.
	svc := NewService(newStubFetcher(), &NoOpCache{}, Config{})

	first, err := svc.Compare(context.Background(), opts)
	if err != nil {
		t.Fatalf("first compare: %v", err)
	}
	second, err := svc.Compare(context.Background(), opts)
	if err != nil {
		t.Fatalf("second compare: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different results:\n%+v\n%+v", first, second)
	}
}

func TestCompareSourceNotFound(t *testing.T) {
	svc := NewService(newStubFetcher(), nil, Config{})

	_, err := svc.Compare(context.Background(), Options{
		SourceAType: "fact",
		SourceAID:   1,
		SourceBType: "fact",
		SourceBID:   9,
	})

	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestCompareFetcherErrorWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(&stubFetcher{err: boom}, nil, Config{})

	_, err := svc.Compare(context.Background(), Options{SourceAType: "fact", SourceAID: 1})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

func TestCompareCacheHitReusesResult(t *testing.T) {
	fetcher := newStubFetcher()
	svc := NewService(fetcher, NewMemoryCache(), Config{})

	opts := Options{SourceAType: "fact", SourceAID: 1, SourceBType: "deposition", SourceBID: 2}

	first, err := svc.Compare(context.Background(), opts)
	if err != nil {
		t.Fatalf("first compare: %v", err)
	}
	second, err := svc.Compare(context.Background(), opts)
	if err != nil {
		t.Fatalf("second compare: %v", err)
	}

	// Sources are unchanged, so the second run is a cache hit.
	if first != second {
		t.Error("expected the cached result on an unchanged source pair")
	}

	// Resolution happens on every run so source edits are never missed.
	if fetcher.calls != 4 {
		t.Errorf("expected both runs to resolve sources, got %d fetches", fetcher.calls)
	}
}

func TestCompareSnapshotsCurrentText(t *testing.T) {
	fetcher := newStubFetcher()
	svc := NewService(fetcher, NewMemoryCache(), Config{})

	opts := Options{SourceAType: "fact", SourceAID: 3, SourceBType: "fact", SourceBID: 4}

	first, err := svc.Compare(context.Background(), opts)
	if err != nil {
		t.Fatalf("first compare: %v", err)
	}
	if first.SourceA.Text != "Payment of $500 is due monthly." {
		t.Fatalf("unexpected first snapshot %q", first.SourceA.Text)
	}

	// The stored source changes between runs; the snapshot must follow.
	fetcher.sources[key("fact", 3)] = ResolvedSource{Text: "Payment of $900 is due monthly."}

	second, err := svc.Compare(context.Background(), opts)
	if err != nil {
		t.Fatalf("second compare: %v", err)
	}
	if second.SourceA.Text != "Payment of $900 is due monthly." {
		t.Errorf("expected the updated text in the snapshot, got %q", second.SourceA.Text)
	}
}

func TestCacheKeyVariesWithResolvedText(t *testing.T) {
	opts := Options{SourceAType: "fact", SourceAID: 1, SourceBType: "fact", SourceBID: 2}
	a := ResolvedSource{Text: "Payment of $500 is due monthly."}
	b := ResolvedSource{Text: "Payment of $600 is due monthly."}

	if CacheKey(opts, a, b) == CacheKey(opts, b, b) {
		t.Error("expected different keys for different resolved texts")
	}
	if CacheKey(opts, a, b) != CacheKey(opts, a, b) {
		t.Error("expected a stable key for identical inputs")
	}

	edited := Options{SourceAType: "fact", SourceAID: 1, SourceBType: "fact", SourceBID: 2, DetectConflicts: true}
	if CacheKey(opts, a, b) == CacheKey(edited, a, b) {
		t.Error("expected different keys for different options")
	}
}

func TestCompareTruncatesOversizedText(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "word "
	}

	fetcher := &stubFetcher{sources: map[string]ResolvedSource{
		key("fact", 1): {Text: long},
		key("fact", 2): {Text: long},
	}}
	svc := NewService(fetcher, nil, Config{MaxTextLen: 50})

	result, err := svc.Compare(context.Background(), Options{
		SourceAType: "fact", SourceAID: 1, SourceBType: "fact", SourceBID: 2,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.SourceA.Text) != 50 {
		t.Errorf("expected text capped at 50, got %d", len(result.SourceA.Text))
	}
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("é", 30)

	got := truncate(text, 25)

	if len(got) > 25 {
		t.Fatalf("expected at most 25 bytes, got %d", len(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
	if len(got) != 24 {
		t.Errorf("expected the cut to back off to 24 bytes, got %d", len(got))
	}
}

func TestCompareClauses(t *testing.T) {
	svc := NewService(newStubFetcher(), nil, Config{})

	before := []models.Clause{
		{ID: 1, Category: "indemnification", Text: "Vendor shall indemnify the client."},
		{ID: 2, Category: "payment-terms", Text: "Payment is due within 30 days."},
	}
	after := []models.Clause{
		{ID: 2, Category: "payment-terms", Text: "Payment is due within 45 days."},
	}

	diff, summary := svc.CompareClauses(before, after)

	if diff.Removed != 1 || diff.Modified != 1 {
		t.Fatalf("unexpected change counts: %+v", diff)
	}
	if summary.Count != 1 {
		t.Errorf("expected one scored modification, got %d", summary.Count)
	}
	if summary.Mean != float64(diff.Changes[1].Similarity) {
		t.Errorf("mean %f does not match the single similarity %d",
			summary.Mean, diff.Changes[1].Similarity)
	}
}

func TestSummarizeClauseSimilarity(t *testing.T) {
	changes := []models.ClauseChange{
		{Kind: models.ChangeModified, Similarity: 80},
		{Kind: models.ChangeModified, Similarity: 60},
		{Kind: models.ChangeRemoved},
		{Kind: models.ChangeAdded},
	}

	summary := SummarizeClauseSimilarity(changes)

	if summary.Count != 2 {
		t.Fatalf("expected two scored changes, got %d", summary.Count)
	}
	if summary.Mean != 70 {
		t.Errorf("expected mean 70, got %f", summary.Mean)
	}
	if summary.Min != 60 || summary.Max != 80 {
		t.Errorf("expected min 60 max 80, got %f / %f", summary.Min, summary.Max)
	}
	if math.Abs(summary.StdDev-math.Sqrt(200)) > 1e-9 {
		t.Errorf("expected sample std dev sqrt(200), got %f", summary.StdDev)
	}
}

func TestSummarizeClauseSimilarityEmpty(t *testing.T) {
	if got := SummarizeClauseSimilarity(nil); got != (SimilaritySummary{}) {
		t.Errorf("expected zero summary, got %+v", got)
	}
}
