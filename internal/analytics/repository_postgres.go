package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, record *MealRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	items, err := json.Marshal(record.Items)
	if err != nil {
		return fmt.Errorf("encode meal items: %w", err)
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO meal_records (id, meal_type, served_on, footfall, items)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`,
		record.ID,
		record.MealType,
		record.ServedOn,
		record.Footfall,
		items,
	).Scan(&record.CreatedAt)
}

func (r *PostgresRepository) ListSince(ctx context.Context, since time.Time) ([]*MealRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, meal_type, served_on, footfall, items, created_at
		FROM meal_records
		WHERE served_on >= $1
		ORDER BY served_on ASC, created_at ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*MealRecord
	for rows.Next() {
		var (
			rec   MealRecord
			items []byte
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.MealType,
			&rec.ServedOn,
			&rec.Footfall,
			&items,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &rec.Items); err != nil {
			return nil, fmt.Errorf("decode meal items %s: %w", rec.ID, err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}
