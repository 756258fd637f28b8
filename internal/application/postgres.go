package application

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"time"

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

// Create inserts a new application with a generated UUID. The unique index
// on (profile_id, listing_id) enforces one application per pair.
func (r *PostgresRepository) Create(ctx context.Context, a *Application) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	query := `
		INSERT INTO applications (id, profile_id, listing_id, status, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (profile_id, listing_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, a.ID, a.ProfileID, a.ListingID, string(a.Status), a.Date)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrDuplicateApplication
	}
	return nil
}

// UpdateStatus transitions an application to a new status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	query := `UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// HasApplied reports whether the candidate has an application for the listing.
func (r *PostgresRepository) HasApplied(ctx context.Context, profileID, listingID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE profile_id = $1 AND listing_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, profileID, listingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}
	return exists, nil
}

// CountSameDay returns the candidate's accepted or pending applications on
// the given calendar day.
func (r *PostgresRepository) CountSameDay(ctx context.Context, profileID string, date time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM applications
		WHERE profile_id = $1
		  AND status IN ('accepted', 'pending')
		  AND date::date = $2::date
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, profileID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count same-day applications: %w", err)
	}
	return count, nil
}
