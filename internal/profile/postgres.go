package profile

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{db: db, logger: logger}
}

// Create inserts a new profile with a generated UUID.
func (r *PostgresRepository) Create(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO profiles (
			id, username, first_name, last_name, location,
			skills, rating, premium, badges, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Username, p.FirstName, p.LastName, p.Location,
		p.Skills, p.Rating, p.Premium, pq.Array(p.Badges),
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// Update modifies an existing profile.
func (r *PostgresRepository) Update(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE profiles SET
			username = $2, first_name = $3, last_name = $4, location = $5,
			skills = $6, rating = $7, premium = $8, badges = $9, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Username, p.FirstName, p.LastName, p.Location,
		p.Skills, p.Rating, p.Premium, pq.Array(p.Badges),
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// GetByID retrieves a profile by its ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Profile, error) {
	query := `
		SELECT id, username, first_name, last_name, location,
			skills, rating, premium, badges, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	var p Profile
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.Location,
		&p.Skills, &p.Rating, &p.Premium, pq.Array(&p.Badges),
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}
