package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
)

// Repository implements RepositoryInterface backed by Postgres
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new listings repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const listingColumns = "id, seller_id, title, make, model, year, mileage, price_cents, description, vin, city, zip_code, status, images, created_at, updated_at"

func scanListing(row pgx.Row) (*Listing, error) {
	l := &Listing{}
	err := row.Scan(
		&l.ID,
		&l.SellerID,
		&l.Title,
		&l.Make,
		&l.Model,
		&l.Year,
		&l.Mileage,
		&l.PriceCents,
		&l.Description,
		&l.VIN,
		&l.City,
		&l.ZipCode,
		&l.Status,
		&l.Images,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Create inserts a listing
func (r *Repository) Create(ctx context.Context, listing *Listing) error {
	query := `
		INSERT INTO listings (id, seller_id, title, make, model, year, mileage, price_cents, description, vin, city, zip_code, status, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.Exec(ctx, query,
		listing.ID,
		listing.SellerID,
		listing.Title,
		listing.Make,
		listing.Model,
		listing.Year,
		listing.Mileage,
		listing.PriceCents,
		listing.Description,
		listing.VIN,
		listing.City,
		listing.ZipCode,
		listing.Status,
		listing.Images,
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// GetByID fetches one listing
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = $1`, listingColumns)

	listing, err := scanListing(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("listing not found", err)
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

// List searches listings with filters, newest first
func (r *Repository) List(ctx context.Context, filters Filters, limit, offset int64) ([]*Listing, int64, error) {
	where, args := buildFilterClause(filters)

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM listings %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM listings %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, listingColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows, total)
}

// buildFilterClause builds the WHERE clause from the provided filters
func buildFilterClause(filters Filters) (string, []interface{}) {
	clauses := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filters.Status != "" {
		add("status = $%d", filters.Status)
	}
	if filters.Make != "" {
		add("make ILIKE $%d", filters.Make)
	}
	if filters.Model != "" {
		add("model ILIKE $%d", filters.Model)
	}
	if filters.City != "" {
		add("city ILIKE $%d", filters.City)
	}
	if filters.MinYear > 0 {
		add("year >= $%d", filters.MinYear)
	}
	if filters.MaxYear > 0 {
		add("year <= $%d", filters.MaxYear)
	}
	if filters.MinPrice > 0 {
		add("price_cents >= $%d", filters.MinPrice)
	}
	if filters.MaxPrice > 0 {
		add("price_cents <= $%d", filters.MaxPrice)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// ListBySeller returns a seller's listings in every state, newest first
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int64) ([]*Listing, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM listings WHERE seller_id = $1`, sellerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM listings
		WHERE seller_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, listingColumns)

	rows, err := r.db.Query(ctx, query, sellerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows, total)
}

func collectListings(rows pgx.Rows, total int64) ([]*Listing, int64, error) {
	result := make([]*Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan listing: %w", err)
		}
		result = append(result, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return result, total, nil
}

// Update replaces the mutable fields of a listing
func (r *Repository) Update(ctx context.Context, listing *Listing) error {
	query := `
		UPDATE listings
		SET title = $2, mileage = $3, price_cents = $4, description = $5, city = $6, zip_code = $7, images = $8, updated_at = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		listing.ID,
		listing.Title,
		listing.Mileage,
		listing.PriceCents,
		listing.Description,
		listing.City,
		listing.ZipCode,
		listing.Images,
		listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("listing not found", nil)
	}
	return nil
}

// UpdateStatus changes the lifecycle state of a listing
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status ListingStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE listings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update listing status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("listing not found", nil)
	}
	return nil
}
