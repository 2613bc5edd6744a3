package meetings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
)

// Repository implements RepositoryInterface backed by Postgres
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new meetings repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListSafeZones returns safe zones, optionally filtered by city
func (r *Repository) ListSafeZones(ctx context.Context, city string) ([]*SafeZone, error) {
	query := `
		SELECT id, name, address, city, zip_code, latitude, longitude, type, created_at
		FROM safe_zones
		WHERE ($1 = '' OR city ILIKE $1)
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("failed to list safe zones: %w", err)
	}
	defer rows.Close()

	zones := make([]*SafeZone, 0)
	for rows.Next() {
		zone := &SafeZone{}
		if err := rows.Scan(
			&zone.ID,
			&zone.Name,
			&zone.Address,
			&zone.City,
			&zone.ZipCode,
			&zone.Latitude,
			&zone.Longitude,
			&zone.Type,
			&zone.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan safe zone: %w", err)
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate safe zones: %w", err)
	}

	return zones, nil
}

// GetSafeZoneByID fetches one safe zone
func (r *Repository) GetSafeZoneByID(ctx context.Context, id uuid.UUID) (*SafeZone, error) {
	query := `
		SELECT id, name, address, city, zip_code, latitude, longitude, type, created_at
		FROM safe_zones
		WHERE id = $1`

	zone := &SafeZone{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&zone.ID,
		&zone.Name,
		&zone.Address,
		&zone.City,
		&zone.ZipCode,
		&zone.Latitude,
		&zone.Longitude,
		&zone.Type,
		&zone.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("safe zone not found", err)
		}
		return nil, fmt.Errorf("failed to get safe zone: %w", err)
	}
	return zone, nil
}

const meetingColumns = "id, conversation_id, listing_id, buyer_id, seller_id, safe_zone_id, proposed_by, scheduled_at, status, notes, created_at, updated_at"

func scanMeeting(row pgx.Row) (*Meeting, error) {
	m := &Meeting{}
	err := row.Scan(
		&m.ID,
		&m.ConversationID,
		&m.ListingID,
		&m.BuyerID,
		&m.SellerID,
		&m.SafeZoneID,
		&m.ProposedBy,
		&m.ScheduledAt,
		&m.Status,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CreateMeeting inserts a meeting
func (r *Repository) CreateMeeting(ctx context.Context, meeting *Meeting) error {
	query := `
		INSERT INTO meetings (id, conversation_id, listing_id, buyer_id, seller_id, safe_zone_id, proposed_by, scheduled_at, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		meeting.ID,
		meeting.ConversationID,
		meeting.ListingID,
		meeting.BuyerID,
		meeting.SellerID,
		meeting.SafeZoneID,
		meeting.ProposedBy,
		meeting.ScheduledAt,
		meeting.Status,
		meeting.Notes,
		meeting.CreatedAt,
		meeting.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// GetMeetingByID fetches one meeting
func (r *Repository) GetMeetingByID(ctx context.Context, id uuid.UUID) (*Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings WHERE id = $1`, meetingColumns)

	meeting, err := scanMeeting(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("meeting not found", err)
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

// ListMeetingsForUser returns a user's meetings, soonest first
func (r *Repository) ListMeetingsForUser(ctx context.Context, userID uuid.UUID, upcomingOnly bool, limit, offset int64) ([]*Meeting, int64, error) {
	countQuery := `
		SELECT COUNT(*) FROM meetings
		WHERE (buyer_id = $1 OR seller_id = $1)
		AND (NOT $2 OR (scheduled_at > NOW() AND status IN ('proposed', 'confirmed')))`

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, userID, upcomingOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM meetings
		WHERE (buyer_id = $1 OR seller_id = $1)
		AND (NOT $2 OR (scheduled_at > NOW() AND status IN ('proposed', 'confirmed')))
		ORDER BY scheduled_at ASC
		LIMIT $3 OFFSET $4`, meetingColumns)

	rows, err := r.db.Query(ctx, query, userID, upcomingOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	meetings := make([]*Meeting, 0)
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate meetings: %w", err)
	}

	return meetings, total, nil
}

// UpdateMeetingStatus changes the lifecycle state of a meeting
func (r *Repository) UpdateMeetingStatus(ctx context.Context, id uuid.UUID, status MeetingStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE meetings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update meeting status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("meeting not found", nil)
	}
	return nil
}
