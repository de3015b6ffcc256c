package donation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu        sync.RWMutex
	donations map[string]*Donation
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{donations: make(map[string]*Donation)}
}

func clone(d *Donation) *Donation {
	c := *d
	return &c
}

func (r *InMemoryRepository) Create(_ context.Context, d *Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	r.donations[d.ID] = clone(d)
	return nil
}

func (r *InMemoryRepository) FindByID(_ context.Context, id string) (*Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.donations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(d), nil
}

func (r *InMemoryRepository) ListRecentByDonor(_ context.Context, donorID string, limit int) ([]*Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Donation
	for _, d := range r.donations {
		if d.DonorID == donorID {
			out = append(out, clone(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (r *InMemoryRepository) ListAvailable(_ context.Context, now time.Time, limit int) ([]*Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Donation
	for _, d := range r.donations {
		if d.Status == StatusAvailable && d.ExpiresAt.After(now) {
			out = append(out, clone(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return truncate(out, limit), nil
}

func (r *InMemoryRepository) TotalsByDonor(_ context.Context, donorID string) (DonorTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var totals DonorTotals
	for _, d := range r.donations {
		if d.DonorID != donorID {
			continue
		}
		totals.Count++
		if d.Status == StatusPickedUp {
			totals.PickedUpKg += d.QuantityKg
		}
	}
	return totals, nil
}

func (r *InMemoryRepository) Reserve(_ context.Context, id, ngoID string, now time.Time) (*Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.donations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if d.Status != StatusAvailable || !d.ExpiresAt.After(now) {
		return nil, classify(d, StatusAvailable, "", now)
	}

	d.Status = StatusReserved
	d.ReservedBy = &ngoID
	d.UpdatedAt = now
	return clone(d), nil
}

func (r *InMemoryRepository) MarkPickedUp(_ context.Context, id, donorID string, now time.Time) (*Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.donations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if d.DonorID != donorID || d.Status != StatusReserved {
		return nil, classify(d, StatusReserved, donorID, now)
	}

	d.Status = StatusPickedUp
	d.UpdatedAt = now
	return clone(d), nil
}

func (r *InMemoryRepository) SetPhotoURL(_ context.Context, id, url string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.donations[id]
	if !ok {
		return ErrNotFound
	}
	d.PhotoURL = &url
	d.UpdatedAt = now
	return nil
}

func (r *InMemoryRepository) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, d := range r.donations {
		if d.Status == StatusAvailable && !d.ExpiresAt.After(now) {
			d.Status = StatusExpired
			d.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func truncate(list []*Donation, limit int) []*Donation {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
