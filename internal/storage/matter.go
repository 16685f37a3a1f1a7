package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Matter represents a legal matter owning a set of comparisons
type Matter struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatterRepository defines the interface for matter storage operations
type MatterRepository interface {
	Create(ctx context.Context, matter *Matter) error
	GetByID(ctx context.Context, id uuid.UUID) (*Matter, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Matter, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresMatterRepository implements MatterRepository using PostgreSQL
type PostgresMatterRepository struct {
	db *sql.DB
}

// NewPostgresMatterRepository creates a new PostgresMatterRepository
func NewPostgresMatterRepository(db *sql.DB) *PostgresMatterRepository {
	return &PostgresMatterRepository{db: db}
}

// Create inserts a new matter into the database
func (r *PostgresMatterRepository) Create(ctx context.Context, matter *Matter) error {
	if matter.ID == uuid.Nil {
		matter.ID = uuid.New()
	}

	now := time.Now()
	if matter.CreatedAt.IsZero() {
		matter.CreatedAt = now
	}
	if matter.UpdatedAt.IsZero() {
		matter.UpdatedAt = now
	}

	query := `
		INSERT INTO matters (id, owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		matter.ID,
		matter.OwnerID,
		matter.Name,
		matter.CreatedAt,
		matter.UpdatedAt,
	)

	return err
}

// GetByID retrieves a matter by its ID
func (r *PostgresMatterRepository) GetByID(ctx context.Context, id uuid.UUID) (*Matter, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at
		FROM matters
		WHERE id = $1
	`

	matter := &Matter{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&matter.ID,
		&matter.OwnerID,
		&matter.Name,
		&matter.CreatedAt,
		&matter.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return matter, nil
}

// GetByOwnerID retrieves all matters owned by a reviewer
func (r *PostgresMatterRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Matter, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at
		FROM matters
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matters []*Matter
	for rows.Next() {
		matter := &Matter{}
		err := rows.Scan(
			&matter.ID,
			&matter.OwnerID,
			&matter.Name,
			&matter.CreatedAt,
			&matter.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		matters = append(matters, matter)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return matters, nil
}

// Delete removes a matter from the database
func (r *PostgresMatterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM matters WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
