package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caselight/caselight/pkg/models"
)

var (
	ErrComparisonNotFound = errors.New("comparison not found")
	ErrAlreadyResolved    = errors.New("conflict already resolved")
	ErrConflictIndex      = errors.New("conflict index out of range")
)

// Comparison is a persisted comparison run. Differences and conflicts
// are stored as jsonb and marshalled explicitly to and from the typed
// structures. Rows are append-only except for conflict resolution.
type Comparison struct {
	ID        uuid.UUID
	MatterID  uuid.UUID
	Result    models.ComparisonResult
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// ComparisonRepository defines the interface for comparison storage
// operations.
type ComparisonRepository interface {
	Create(ctx context.Context, comparison *Comparison) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comparison, error)
	ListByMatter(ctx context.Context, matterID uuid.UUID) ([]*Comparison, error)
	ResolveConflict(ctx context.Context, comparisonID uuid.UUID, conflictIndex int, notes string, actorID uuid.UUID) error
}

// PostgresComparisonRepository implements ComparisonRepository using
// PostgreSQL.
type PostgresComparisonRepository struct {
	db *sql.DB
}

// NewPostgresComparisonRepository creates a new PostgresComparisonRepository
func NewPostgresComparisonRepository(db *sql.DB) *PostgresComparisonRepository {
	return &PostgresComparisonRepository{db: db}
}

// Create inserts a new comparison into the database
func (r *PostgresComparisonRepository) Create(ctx context.Context, comparison *Comparison) error {
	if comparison.ID == uuid.Nil {
		comparison.ID = uuid.New()
	}
	if comparison.CreatedAt.IsZero() {
		comparison.CreatedAt = time.Now()
	}

	sourceA, err := json.Marshal(comparison.Result.SourceA)
	if err != nil {
		return fmt.Errorf("marshal source a: %w", err)
	}
	sourceB, err := json.Marshal(comparison.Result.SourceB)
	if err != nil {
		return fmt.Errorf("marshal source b: %w", err)
	}
	differences, err := json.Marshal(comparison.Result.Differences)
	if err != nil {
		return fmt.Errorf("marshal differences: %w", err)
	}
	conflicts, err := json.Marshal(comparison.Result.Conflicts)
	if err != nil {
		return fmt.Errorf("marshal conflicts: %w", err)
	}

	query := `
		INSERT INTO comparisons (id, matter_id, source_a, source_b, similarity_score, differences, conflicts, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		comparison.ID,
		comparison.MatterID,
		sourceA,
		sourceB,
		comparison.Result.SimilarityScore,
		differences,
		conflicts,
		comparison.CreatedBy,
		comparison.CreatedAt,
	)

	return err
}

// GetByID retrieves a comparison by its ID
func (r *PostgresComparisonRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comparison, error) {
	query := `
		SELECT id, matter_id, source_a, source_b, similarity_score, differences, conflicts, created_by, created_at
		FROM comparisons
		WHERE id = $1
	`

	comparison, err := scanComparison(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return comparison, nil
}

// ListByMatter retrieves all comparisons for a matter, newest first
func (r *PostgresComparisonRepository) ListByMatter(ctx context.Context, matterID uuid.UUID) ([]*Comparison, error) {
	query := `
		SELECT id, matter_id, source_a, source_b, similarity_score, differences, conflicts, created_by, created_at
		FROM comparisons
		WHERE matter_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, matterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comparisons []*Comparison
	for rows.Next() {
		comparison, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		comparisons = append(comparisons, comparison)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return comparisons, nil
}

// ResolveConflict marks one conflict of a stored comparison resolved.
// The row is locked for the duration so concurrent reviewer actions
// cannot both resolve the same conflict: resolution only proceeds when
// the conflict is currently unresolved.
func (r *PostgresComparisonRepository) ResolveConflict(ctx context.Context, comparisonID uuid.UUID, conflictIndex int, notes string, actorID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx,
		`SELECT conflicts FROM comparisons WHERE id = $1 FOR UPDATE`,
		comparisonID,
	).Scan(&raw)

	if err == sql.ErrNoRows {
		return ErrComparisonNotFound
	}
	if err != nil {
		return err
	}

	var conflicts []models.DetectedConflict
	if err := json.Unmarshal(raw, &conflicts); err != nil {
		return fmt.Errorf("unmarshal conflicts: %w", err)
	}

	if conflictIndex < 0 || conflictIndex >= len(conflicts) {
		return ErrConflictIndex
	}
	if conflicts[conflictIndex].Resolved {
		return ErrAlreadyResolved
	}

	now := time.Now()
	conflicts[conflictIndex].Resolved = true
	conflicts[conflictIndex].ResolutionNotes = notes
	conflicts[conflictIndex].ResolvedBy = actorID.String()
	conflicts[conflictIndex].ResolvedAt = &now

	updated, err := json.Marshal(conflicts)
	if err != nil {
		return fmt.Errorf("marshal conflicts: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE comparisons SET conflicts = $2 WHERE id = $1`,
		comparisonID, updated,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComparison(row rowScanner) (*Comparison, error) {
	comparison := &Comparison{}
	var sourceA, sourceB, differences, conflicts []byte

	err := row.Scan(
		&comparison.ID,
		&comparison.MatterID,
		&sourceA,
		&sourceB,
		&comparison.Result.SimilarityScore,
		&differences,
		&conflicts,
		&comparison.CreatedBy,
		&comparison.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(sourceA, &comparison.Result.SourceA); err != nil {
		return nil, fmt.Errorf("unmarshal source a: %w", err)
	}
	if err := json.Unmarshal(sourceB, &comparison.Result.SourceB); err != nil {
		return nil, fmt.Errorf("unmarshal source b: %w", err)
	}
	if err := json.Unmarshal(differences, &comparison.Result.Differences); err != nil {
		return nil, fmt.Errorf("unmarshal differences: %w", err)
	}
	if err := json.Unmarshal(conflicts, &comparison.Result.Conflicts); err != nil {
		return nil, fmt.Errorf("unmarshal conflicts: %w", err)
	}

	comparison.Result.TallyCounts()

	return comparison, nil
}
