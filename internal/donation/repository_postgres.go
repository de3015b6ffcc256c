package donation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const donationColumns = `
	id, donor_id, food_type, quantity_kg, expiry_hours, location, description,
	photo_url, status, reserved_by, created_at, expires_at, updated_at
`

func scanDonation(row pgx.Row) (*Donation, error) {
	var d Donation
	err := row.Scan(
		&d.ID,
		&d.DonorID,
		&d.FoodType,
		&d.QuantityKg,
		&d.ExpiryHours,
		&d.Location,
		&d.Description,
		&d.PhotoURL,
		&d.Status,
		&d.ReservedBy,
		&d.CreatedAt,
		&d.ExpiresAt,
		&d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, d *Donation) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO donations (
			id, donor_id, food_type, quantity_kg, expiry_hours, location,
			description, status, created_at, expires_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		d.ID, d.DonorID, d.FoodType, d.QuantityKg, d.ExpiryHours, d.Location,
		d.Description, d.Status, d.CreatedAt, d.ExpiresAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Donation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return scanDonation(r.db.QueryRow(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE id = $1`, id))
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*Donation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []*Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func (r *PostgresRepository) ListRecentByDonor(ctx context.Context, donorID string, limit int) ([]*Donation, error) {
	return r.list(ctx, `
		SELECT `+donationColumns+`
		FROM donations
		WHERE donor_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, donorID, limit)
}

func (r *PostgresRepository) ListAvailable(ctx context.Context, now time.Time, limit int) ([]*Donation, error) {
	return r.list(ctx, `
		SELECT `+donationColumns+`
		FROM donations
		WHERE status = 'AVAILABLE'
		  AND expires_at > $1
		ORDER BY expires_at ASC
		LIMIT $2
	`, now, limit)
}

func (r *PostgresRepository) TotalsByDonor(ctx context.Context, donorID string) (DonorTotals, error) {
	var totals DonorTotals
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity_kg) FILTER (WHERE status = 'PICKED_UP'), 0)::float8
		FROM donations
		WHERE donor_id = $1
	`, donorID).Scan(&totals.Count, &totals.PickedUpKg)
	return totals, err
}

// transition runs a conditional UPDATE and, when nothing matched, reloads the
// row to report why.
func (r *PostgresRepository) transition(
	ctx context.Context,
	id string,
	wantStatus string,
	donorID string,
	now time.Time,
	query string,
	args ...any,
) (*Donation, error) {

	d, err := scanDonation(r.db.QueryRow(ctx, query, args...))
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, classify(current, wantStatus, donorID, now)
}

func (r *PostgresRepository) Reserve(ctx context.Context, id, ngoID string, now time.Time) (*Donation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return r.transition(ctx, id, StatusAvailable, "", now, `
		UPDATE donations
		SET status = 'RESERVED', reserved_by = $2, updated_at = $3
		WHERE id = $1
		  AND status = 'AVAILABLE'
		  AND expires_at > $3
		RETURNING `+donationColumns,
		id, ngoID, now,
	)
}

func (r *PostgresRepository) MarkPickedUp(ctx context.Context, id, donorID string, now time.Time) (*Donation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return r.transition(ctx, id, StatusReserved, donorID, now, `
		UPDATE donations
		SET status = 'PICKED_UP', updated_at = $3
		WHERE id = $1
		  AND donor_id = $2
		  AND status = 'RESERVED'
		RETURNING `+donationColumns,
		id, donorID, now,
	)
}

func (r *PostgresRepository) SetPhotoURL(ctx context.Context, id, url string, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE donations SET photo_url = $2, updated_at = $3 WHERE id = $1
	`, id, url, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE donations
		SET status = 'EXPIRED', updated_at = $1
		WHERE status = 'AVAILABLE'
		  AND expires_at <= $1
	`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
