package analytics

import (
	"context"
	"time"
)

type Repository interface {
	Save(ctx context.Context, record *MealRecord) error
	// ListSince returns records served on or after since, oldest first.
	ListSince(ctx context.Context, since time.Time) ([]*MealRecord, error)
}
