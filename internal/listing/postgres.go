package listing

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
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

// Create inserts a new listing with a generated UUID.
func (r *PostgresRepository) Create(ctx context.Context, l *Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	query := `
		INSERT INTO listings (
			id, client_id, title, description, location,
			latitude, longitude, date, rate, industry, subcategory, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.ClientID, l.Title, l.Description, l.Location,
		l.Latitude, l.Longitude, l.Date, l.Rate, l.Industry, l.Subcategory, l.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

// Update modifies an existing listing.
func (r *PostgresRepository) Update(ctx context.Context, l *Listing) error {
	query := `
		UPDATE listings SET
			client_id = $2, title = $3, description = $4, location = $5,
			latitude = $6, longitude = $7, date = $8, rate = $9,
			industry = $10, subcategory = $11, active = $12, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query,
		l.ID, l.ClientID, l.Title, l.Description, l.Location,
		l.Latitude, l.Longitude, l.Date, l.Rate, l.Industry, l.Subcategory, l.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrListingNotFound
	}
	return nil
}

// GetByID retrieves a listing by its ID, excluding soft-deleted listings.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Listing, error) {
	query := `
		SELECT id, client_id, title, description, location,
			latitude, longitude, date, rate, industry, subcategory, active,
			created_at, updated_at
		FROM listings
		WHERE id = $1 AND deleted_at IS NULL
	`
	var l Listing
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.ClientID, &l.Title, &l.Description, &l.Location,
		&l.Latitude, &l.Longitude, &l.Date, &l.Rate, &l.Industry, &l.Subcategory, &l.Active,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &l, nil
}

// ListActive returns all active, non-deleted listings.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]*Listing, error) {
	query := `
		SELECT id, client_id, title, description, location,
			latitude, longitude, date, rate, industry, subcategory, active,
			created_at, updated_at
		FROM listings
		WHERE active = TRUE AND deleted_at IS NULL
		ORDER BY date ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active listings: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Warn("failed to close rows", "error", err)
		}
	}()

	var result []*Listing
	for rows.Next() {
		var l Listing
		if err := rows.Scan(
			&l.ID, &l.ClientID, &l.Title, &l.Description, &l.Location,
			&l.Latitude, &l.Longitude, &l.Date, &l.Rate, &l.Industry, &l.Subcategory, &l.Active,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		result = append(result, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return result, nil
}
