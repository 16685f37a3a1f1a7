package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresRepository implements ReviewerRepository using PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new reviewer into the database
func (r *PostgresRepository) Create(ctx context.Context, reviewer *Reviewer) error {
	reviewer.ID = uuid.New().String()

	query := `
		INSERT INTO reviewers (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		reviewer.ID,
		reviewer.Email,
		reviewer.PasswordHash,
		reviewer.CreatedAt,
		reviewer.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create reviewer: %w", err)
	}

	return nil
}

// GetByID retrieves a reviewer by their ID
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Reviewer, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM reviewers
		WHERE id = $1
	`

	reviewer := &Reviewer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reviewer.ID,
		&reviewer.Email,
		&reviewer.PasswordHash,
		&reviewer.CreatedAt,
		&reviewer.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrReviewerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reviewer: %w", err)
	}

	return reviewer, nil
}

// GetByEmail retrieves a reviewer by their email
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Reviewer, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM reviewers
		WHERE email = $1
	`

	reviewer := &Reviewer{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&reviewer.ID,
		&reviewer.Email,
		&reviewer.PasswordHash,
		&reviewer.CreatedAt,
		&reviewer.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrReviewerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reviewer: %w", err)
	}

	return reviewer, nil
}
