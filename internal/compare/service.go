// Package compare orchestrates the comparison engine: it resolves
// source descriptors to text, runs the similarity, diff and conflict
// passes and aggregates the result.
package compare

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/caselight/caselight/internal/clausediff"
	"github.com/caselight/caselight/internal/textcmp"
	"github.com/caselight/caselight/pkg/models"
)

// ErrSourceNotFound is returned when a source descriptor resolves to
// nothing. Resolution is a lookup, not a transient fault; the caller
// should not retry.
var ErrSourceNotFound = errors.New("source not found")

// ResolvedSource is the literal text a source descriptor resolves to.
type ResolvedSource struct {
	Text     string
	Citation string
}

// SourceFetcher resolves source descriptors to their stored text. A nil
// result with a nil error means the descriptor matched nothing.
type SourceFetcher interface {
	FetchSource(ctx context.Context, sourceType string, id int) (*ResolvedSource, error)
}

// Options select the sources to compare and whether to run the
// sentence-level conflict detector, which is quadratic and optional.
type Options struct {
	SourceAType     string `json:"source_a_type"`
	SourceAID       int    `json:"source_a_id"`
	SourceBType     string `json:"source_b_type"`
	SourceBID       int    `json:"source_b_id"`
	DetectConflicts bool   `json:"detect_conflicts"`
}

// Config bounds input size so the quadratic diff and conflict passes
// stay tractable on oversized excerpts.
type Config struct {
	MaxTextLen int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		MaxTextLen: 20000,
	}
}

// Service runs comparisons against a source fetcher, with an optional
// result cache.
type Service struct {
	fetcher SourceFetcher
	cache   Cache
	config  Config
}

// NewService creates a comparison service. A nil cache disables caching.
func NewService(fetcher SourceFetcher, cache Cache, config Config) *Service {
	if config.MaxTextLen <= 0 {
		config.MaxTextLen = DefaultConfig().MaxTextLen
	}
	if cache == nil {
		cache = &NoOpCache{}
	}

	return &Service{
		fetcher: fetcher,
		cache:   cache,
		config:  config,
	}
}

// Compare resolves both descriptors, scores their similarity, computes
// the word-level diff and, when requested, the sentence-level conflicts.
// Once the texts are resolved the computation is a pure function of its
// inputs: identical resolved inputs always produce an identical result,
// which is what makes the cache sound. Resolution always happens, so a
// source edit changes the key and the result snapshots the current text.
func (s *Service) Compare(ctx context.Context, opts Options) (*models.ComparisonResult, error) {
	srcA, err := s.resolve(ctx, opts.SourceAType, opts.SourceAID)
	if err != nil {
		return nil, err
	}
	srcB, err := s.resolve(ctx, opts.SourceBType, opts.SourceBID)
	if err != nil {
		return nil, err
	}

	textA := truncate(srcA.Text, s.config.MaxTextLen)
	textB := truncate(srcB.Text, s.config.MaxTextLen)

	key := CacheKey(opts,
		ResolvedSource{Text: textA, Citation: srcA.Citation},
		ResolvedSource{Text: textB, Citation: srcB.Citation})
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	refA := models.SourceRef{Type: opts.SourceAType, ID: opts.SourceAID, Text: textA, Citation: srcA.Citation}
	refB := models.SourceRef{Type: opts.SourceBType, ID: opts.SourceBID, Text: textB, Citation: srcB.Citation}

	result := &models.ComparisonResult{
		SourceA:         refA,
		SourceB:         refB,
		SimilarityScore: textcmp.Similarity(textA, textB),
		Differences:     textcmp.Diff(textA, textB),
		Conflicts:       make([]models.DetectedConflict, 0),
	}

	if opts.DetectConflicts {
		result.Conflicts = textcmp.DetectConflicts(textA, textB, refA, refB)
		sort.SliceStable(result.Conflicts, func(i, j int) bool {
			return models.SeverityOrder(result.Conflicts[i].Severity) > models.SeverityOrder(result.Conflicts[j].Severity)
		})
	}

	result.TallyCounts()

	s.cache.Set(key, result)
	return result, nil
}

// CompareClauses diffs two clause versions and summarizes the
// modified-clause similarity scores for report rendering.
func (s *Service) CompareClauses(before, after []models.Clause) (*models.ClauseSetDiff, SimilaritySummary) {
	diff := clausediff.DiffClauseSets(before, after)
	return diff, SummarizeClauseSimilarity(diff.Changes)
}

func (s *Service) resolve(ctx context.Context, sourceType string, id int) (*ResolvedSource, error) {
	src, err := s.fetcher.FetchSource(ctx, sourceType, id)
	if err != nil {
		return nil, fmt.Errorf("fetch source %s/%d: %w", sourceType, id, err)
	}
	if src == nil {
		return nil, fmt.Errorf("source %s/%d: %w", sourceType, id, ErrSourceNotFound)
	}
	return src, nil
}

// truncate caps text at max bytes, backing the cut off to a rune
// boundary so multibyte input never ends mid-rune.
func truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
