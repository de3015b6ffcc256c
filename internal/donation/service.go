package donation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 50
)

var ErrInvalidInput = errors.New("invalid donation")

type Service struct {
	repo   Repository
	photos PhotoStore
	log    *zap.Logger
	now    func() time.Time
}

// NewService wires the donation service. photos may be nil, which disables uploads.
func NewService(repo Repository, photos PhotoStore, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		photos: photos,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// --------------------------------------------------
// Create donation
// --------------------------------------------------
func (s *Service) Create(ctx context.Context, donorID string, in CreateInput) (*Donation, error) {
	in.Location = strings.TrimSpace(in.Location)
	if in.QuantityKg <= 0 || in.ExpiryHours <= 0 || in.Location == "" || !isFoodType(in.FoodType) {
		return nil, ErrInvalidInput
	}

	now := s.now()
	d := &Donation{
		ID:          uuid.New().String(),
		DonorID:     donorID,
		FoodType:    in.FoodType,
		QuantityKg:  in.QuantityKg,
		ExpiryHours: in.ExpiryHours,
		Location:    in.Location,
		Description: strings.TrimSpace(in.Description),
		Status:      StatusAvailable,
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Duration(in.ExpiryHours) * time.Hour),
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.log.Info("donation created",
		zap.String("donation_id", d.ID),
		zap.String("donor_id", donorID),
		zap.String("food_type", d.FoodType),
		zap.Float64("quantity_kg", d.QuantityKg),
	)
	return d, nil
}

func isFoodType(t string) bool {
	for _, ft := range FoodTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// --------------------------------------------------
// Donor views
// --------------------------------------------------
func (s *Service) ListMine(ctx context.Context, donorID string, limit int) ([]*Donation, error) {
	donations, err := s.repo.ListRecentByDonor(ctx, donorID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	if donations == nil {
		donations = []*Donation{}
	}
	return donations, nil
}

func (s *Service) Impact(ctx context.Context, donorID string) (*Impact, error) {
	totals, err := s.repo.TotalsByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}

	saved := decimal.NewFromFloat(totals.PickedUpKg).Round(2)
	people := saved.Div(decimal.NewFromFloat(KgPerPerson)).Floor()

	return &Impact{
		TotalDonations: totals.Count,
		FoodSavedKg:    saved.InexactFloat64(),
		PeopleFed:      int(people.IntPart()),
	}, nil
}

// --------------------------------------------------
// NGO views
// --------------------------------------------------
func (s *Service) ListAvailable(ctx context.Context, limit int) ([]Listing, error) {
	now := s.now()

	donations, err := s.repo.ListAvailable(ctx, now, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, len(donations))
	for _, d := range donations {
		hours := d.ExpiresAt.Sub(now).Hours()
		listings = append(listings, Listing{
			Donation:  d,
			HoursLeft: decimal.NewFromFloat(math.Max(hours, 0)).Round(1).InexactFloat64(),
			Urgency:   Urgency(hours),
		})
	}
	return listings, nil
}

// Urgency buckets the time left before a donation expires.
func Urgency(hoursLeft float64) string {
	switch {
	case hoursLeft <= 4:
		return "high"
	case hoursLeft <= 8:
		return "medium"
	default:
		return "low"
	}
}

// --------------------------------------------------
// State transitions
// --------------------------------------------------
func (s *Service) Request(ctx context.Context, id, ngoID string) (*Donation, error) {
	d, err := s.repo.Reserve(ctx, id, ngoID, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info("donation reserved",
		zap.String("donation_id", id),
		zap.String("ngo_id", ngoID),
	)
	return d, nil
}

func (s *Service) ConfirmPickup(ctx context.Context, id, donorID string) (*Donation, error) {
	d, err := s.repo.MarkPickedUp(ctx, id, donorID, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info("donation picked up",
		zap.String("donation_id", id),
		zap.Float64("quantity_kg", d.QuantityKg),
	)
	return d, nil
}

// --------------------------------------------------
// Photo upload
// --------------------------------------------------
func (s *Service) AttachPhoto(
	ctx context.Context,
	id string,
	donorID string,
	filename string,
	body io.Reader,
) (string, error) {

	if s.photos == nil {
		return "", ErrStorageOff
	}

	ext, contentType, err := ValidatePhotoExtension(filename)
	if err != nil {
		return "", err
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if d.DonorID != donorID {
		return "", ErrNotOwner
	}

	key := fmt.Sprintf("donations/%s/%s%s", d.ID, uuid.New().String(), ext)
	url, err := s.photos.Upload(ctx, key, body, contentType)
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	if err := s.repo.SetPhotoURL(ctx, d.ID, url, s.now()); err != nil {
		return "", err
	}
	return url, nil
}

// ExpireOverdue runs one sweep and returns how many donations expired.
func (s *Service) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.repo.ExpireOverdue(ctx, s.now())
}
