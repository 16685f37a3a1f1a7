package models

import (
	"time"
)

// Severity ranks how consequential a detected difference or conflict is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// SeverityOrder returns a sortable rank for a severity, higher meaning
// more severe. Unknown severities rank below info.
func SeverityOrder(s Severity) int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// DiffKind tags a word-level difference.
type DiffKind string

const (
	DiffAddition     DiffKind = "addition"
	DiffDeletion     DiffKind = "deletion"
	DiffModification DiffKind = "modification"
)

// ConflictKind tags a detected conflict.
type ConflictKind string

const (
	KindConflict    ConflictKind = "conflict"
	KindDiscrepancy ConflictKind = "discrepancy"
)

// SourceRef identifies a compared source and snapshots the literal text
// used at comparison time. Comparisons are not re-evaluated if the
// underlying source later changes.
type SourceRef struct {
	Type     string `json:"type"`
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Citation string `json:"citation,omitempty"`
}

// TextDifference is a single word-level change between two texts,
// ordered by position ascending within a comparison.
type TextDifference struct {
	Kind     DiffKind `json:"kind"`
	Before   string   `json:"before,omitempty"`
	After    string   `json:"after,omitempty"`
	Position int      `json:"position"`
	Length   int      `json:"length"`
	Context  string   `json:"context"`
	Severity Severity `json:"severity"`
}

// DetectedConflict is a contradiction or numeric discrepancy found
// between two sentences. Resolved starts false; the only mutation
// allowed after creation is an explicit resolution.
type DetectedConflict struct {
	Kind            ConflictKind `json:"kind"`
	Severity        Severity     `json:"severity"`
	Description     string       `json:"description"`
	SourceA         SourceRef    `json:"source_a"`
	SourceB         SourceRef    `json:"source_b"`
	Confidence      int          `json:"confidence"`
	Resolved        bool         `json:"resolved"`
	ResolutionNotes string       `json:"resolution_notes,omitempty"`
	ResolvedBy      string       `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time   `json:"resolved_at,omitempty"`
}

// ComparisonResult is the full output of one comparison run. Info
// conflicts are counted separately and excluded from the four named
// severity counters, which mirror the four columns report templates
// render.
type ComparisonResult struct {
	SourceA           SourceRef          `json:"source_a"`
	SourceB           SourceRef          `json:"source_b"`
	Differences       []TextDifference   `json:"differences"`
	Conflicts         []DetectedConflict `json:"conflicts"`
	SimilarityScore   int                `json:"similarity_score"`
	TotalDifferences  int                `json:"total_differences"`
	CriticalConflicts int                `json:"critical_conflicts"`
	HighConflicts     int                `json:"high_conflicts"`
	MediumConflicts   int                `json:"medium_conflicts"`
	LowConflicts      int                `json:"low_conflicts"`
	InfoConflicts     int                `json:"info_conflicts"`
}

// TallyCounts recomputes TotalDifferences and the per-severity conflict
// counters from the differences and conflicts slices.
func (r *ComparisonResult) TallyCounts() {
	r.TotalDifferences = len(r.Differences)
	r.CriticalConflicts = 0
	r.HighConflicts = 0
	r.MediumConflicts = 0
	r.LowConflicts = 0
	r.InfoConflicts = 0

	for _, c := range r.Conflicts {
		switch c.Severity {
		case SeverityCritical:
			r.CriticalConflicts++
		case SeverityHigh:
			r.HighConflicts++
		case SeverityMedium:
			r.MediumConflicts++
		case SeverityLow:
			r.LowConflicts++
		case SeverityInfo:
			r.InfoConflicts++
		}
	}
}

// Clause is a single contract clause version.
type Clause struct {
	ID          int    `json:"id"`
	SectionName string `json:"section_name"`
	Category    string `json:"category"`
	Text        string `json:"text"`
	Order       int    `json:"order"`
}

// ChangeKind tags a clause-level change.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// ClauseChange is one detected change between two clause versions.
// Similarity is only meaningful for modified clauses.
type ClauseChange struct {
	Kind        ChangeKind       `json:"kind"`
	ClauseID    int              `json:"clause_id"`
	SectionName string           `json:"section_name"`
	Category    string           `json:"category"`
	OldText     string           `json:"old_text,omitempty"`
	NewText     string           `json:"new_text,omitempty"`
	Similarity  int              `json:"similarity"`
	RiskLevel   Severity         `json:"risk_level"`
	Diff        []TextDifference `json:"diff,omitempty"`
}

// ClauseSetDiff is the result of comparing two clause sets.
type ClauseSetDiff struct {
	Changes         []ClauseChange `json:"changes"`
	Added           int            `json:"added"`
	Removed         int            `json:"removed"`
	Modified        int            `json:"modified"`
	SimilarityScore int            `json:"similarity_score"`
}
