package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/pgvector/pgvector-go"
)

// SourceText is an excerpt of record: the literal text a comparison
// reads for a given source descriptor. The embedding column is written
// by the ingestion pipeline; this service only reads it to suggest
// comparison candidates.
type SourceText struct {
	SourceType string
	SourceID   int
	Text       string
	Citation   string
	Embedding  pgvector.Vector
	CreatedAt  time.Time
}

// SourceRepository resolves source descriptors and suggests candidate
// excerpts for pairing.
type SourceRepository interface {
	Resolve(ctx context.Context, sourceType string, id int) (*SourceText, error)
	FindSimilar(ctx context.Context, embedding pgvector.Vector, limit int, threshold float64) ([]*SourceWithSimilarity, error)
}

// SourceWithSimilarity pairs a source excerpt with its similarity score
// against a query embedding.
type SourceWithSimilarity struct {
	Source     *SourceText
	Similarity float64
}

// PostgresSourceRepository implements SourceRepository using PostgreSQL
// with pgvector.
type PostgresSourceRepository struct {
	db *sql.DB
}

// NewPostgresSourceRepository creates a new PostgresSourceRepository
func NewPostgresSourceRepository(db *sql.DB) *PostgresSourceRepository {
	return &PostgresSourceRepository{db: db}
}

// Resolve returns the stored text for a descriptor, or nil when the
// descriptor matches nothing.
func (r *PostgresSourceRepository) Resolve(ctx context.Context, sourceType string, id int) (*SourceText, error) {
	query := `
		SELECT source_type, source_id, text, COALESCE(citation, ''), embedding, created_at
		FROM source_texts
		WHERE source_type = $1 AND source_id = $2
	`

	src := &SourceText{}
	err := r.db.QueryRowContext(ctx, query, sourceType, id).Scan(
		&src.SourceType,
		&src.SourceID,
		&src.Text,
		&src.Citation,
		&src.Embedding,
		&src.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return src, nil
}

// FindSimilar finds source excerpts similar to the given embedding using
// pgvector cosine distance, for suggesting comparison pairs.
func (r *PostgresSourceRepository) FindSimilar(ctx context.Context, embedding pgvector.Vector, limit int, threshold float64) ([]*SourceWithSimilarity, error) {
	if limit <= 0 {
		limit = 10
	}
	if threshold <= 0 {
		threshold = 0.75
	}

	// Cosine distance is 1 - cosine_similarity, so similarity >= threshold
	// means distance <= 1 - threshold.
	query := `
		SELECT source_type, source_id, text, COALESCE(citation, ''), embedding, created_at,
		       1 - (embedding <=> $1) AS similarity
		FROM source_texts
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, embedding, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*SourceWithSimilarity
	for rows.Next() {
		src := &SourceText{}
		var similarity float64
		err := rows.Scan(
			&src.SourceType,
			&src.SourceID,
			&src.Text,
			&src.Citation,
			&src.Embedding,
			&src.CreatedAt,
			&similarity,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, &SourceWithSimilarity{Source: src, Similarity: similarity})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
