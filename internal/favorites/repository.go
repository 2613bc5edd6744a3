package favorites

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements RepositoryInterface backed by Postgres
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new favorites repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Save inserts a favorite; returns false when it already existed
func (r *Repository) Save(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO favorites (user_id, listing_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, listing_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("failed to save favorite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Remove deletes a favorite; returns false when it did not exist
func (r *Repository) Remove(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns the user's saved listings joined with listing details,
// most recently saved first
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]*SavedListing, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM favorites WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count favorites: %w", err)
	}

	query := `
		SELECT f.listing_id, l.title, l.make, l.model, l.year, l.price_cents, l.status, f.created_at
		FROM favorites f
		JOIN listings l ON l.id = f.listing_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	saved := make([]*SavedListing, 0)
	for rows.Next() {
		s := &SavedListing{}
		if err := rows.Scan(
			&s.ListingID,
			&s.Title,
			&s.Make,
			&s.Model,
			&s.Year,
			&s.PriceCents,
			&s.Status,
			&s.SavedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan favorite: %w", err)
		}
		saved = append(saved, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return saved, total, nil
}
