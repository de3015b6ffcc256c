package donation

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("donation not found")
	ErrNotAvailable = errors.New("donation is no longer available")
	ErrExpired      = errors.New("donation has expired")
	ErrNotReserved  = errors.New("donation is not reserved")
	ErrNotOwner     = errors.New("donation belongs to another donor")
)

// DonorTotals is the raw aggregate behind Impact.
type DonorTotals struct {
	Count      int
	PickedUpKg float64
}

type Repository interface {
	Create(ctx context.Context, d *Donation) error
	FindByID(ctx context.Context, id string) (*Donation, error)
	ListRecentByDonor(ctx context.Context, donorID string, limit int) ([]*Donation, error)
	ListAvailable(ctx context.Context, now time.Time, limit int) ([]*Donation, error)
	TotalsByDonor(ctx context.Context, donorID string) (DonorTotals, error)

	// Reserve moves AVAILABLE to RESERVED if expires_at is after now.
	Reserve(ctx context.Context, id, ngoID string, now time.Time) (*Donation, error)
	// MarkPickedUp moves RESERVED to PICKED_UP for the owning donor.
	MarkPickedUp(ctx context.Context, id, donorID string, now time.Time) (*Donation, error)
	SetPhotoURL(ctx context.Context, id, url string, now time.Time) error
	// ExpireOverdue marks every AVAILABLE donation past its expiry as EXPIRED.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// classify explains why a conditional transition matched no row.
func classify(d *Donation, wantStatus, donorID string, now time.Time) error {
	switch {
	case donorID != "" && d.DonorID != donorID:
		return ErrNotOwner
	case wantStatus == StatusAvailable && d.Status == StatusAvailable && !d.ExpiresAt.After(now):
		return ErrExpired
	case wantStatus == StatusAvailable && d.Status == StatusExpired:
		return ErrExpired
	case wantStatus == StatusAvailable:
		return ErrNotAvailable
	default:
		return ErrNotReserved
	}
}
