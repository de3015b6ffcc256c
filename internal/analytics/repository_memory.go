package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	records []*MealRecord
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Save(_ context.Context, record *MealRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	stored := *record
	stored.Items = append([]MealItem(nil), record.Items...)
	r.records = append(r.records, &stored)
	return nil
}

func (r *InMemoryRepository) ListSince(_ context.Context, since time.Time) ([]*MealRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*MealRecord
	for _, rec := range r.records {
		if !rec.ServedOn.Before(since) {
			c := *rec
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ServedOn.Before(out[j].ServedOn) })
	return out, nil
}
