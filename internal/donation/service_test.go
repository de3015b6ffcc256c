package donation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore records uploads in memory.
type fakeStore struct {
	keys  []string
	types []string
	err   error
}

func (f *fakeStore) Upload(_ context.Context, key string, body io.Reader, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	f.types = append(f.types, contentType)
	return "https://cdn.test/" + key, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(photos PhotoStore) (*Service, *InMemoryRepository, *clock) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, photos, zap.NewNop())
	clk := &clock{t: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	svc.now = clk.now
	return svc, repo, clk
}

func cookedInput(kg float64, hours int) CreateInput {
	return CreateInput{FoodType: "cooked", QuantityKg: kg, ExpiryHours: hours, Location: "Hostel 4 Mess"}
}

func TestCreate_SetsStatusAndExpiry(t *testing.T) {
	svc, _, clk := newTestService(nil)

	d, err := svc.Create(context.Background(), "donor-1", cookedInput(15, 6))
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, StatusAvailable, d.Status)
	assert.Equal(t, clk.t, d.CreatedAt)
	assert.Equal(t, clk.t.Add(6*time.Hour), d.ExpiresAt)
}

func TestCreate_RejectsInvalid(t *testing.T) {
	svc, _, _ := newTestService(nil)
	ctx := context.Background()

	cases := map[string]CreateInput{
		"zero quantity": {FoodType: "cooked", QuantityKg: 0, ExpiryHours: 4, Location: "x"},
		"zero expiry":   {FoodType: "cooked", QuantityKg: 1, ExpiryHours: 0, Location: "x"},
		"no location":   {FoodType: "cooked", QuantityKg: 1, ExpiryHours: 4, Location: "  "},
		"unknown type":  {FoodType: "frozen", QuantityKg: 1, ExpiryHours: 4, Location: "x"},
	}
	for name, in := range cases {
		_, err := svc.Create(ctx, "donor-1", in)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestListMine_NewestFirstWithLimit(t *testing.T) {
	svc, _, clk := newTestService(nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 12; i++ {
		d, err := svc.Create(ctx, "donor-1", cookedInput(1, 4))
		require.NoError(t, err)
		ids = append(ids, d.ID)
		clk.advance(time.Minute)
	}
	_, err := svc.Create(ctx, "donor-2", cookedInput(1, 4))
	require.NoError(t, err)

	list, err := svc.ListMine(ctx, "donor-1", 0)
	require.NoError(t, err)
	require.Len(t, list, DefaultListLimit)
	assert.Equal(t, ids[11], list[0].ID)
	assert.Equal(t, ids[2], list[9].ID)

	list, err = svc.ListMine(ctx, "donor-1", 500)
	require.NoError(t, err)
	assert.Len(t, list, 12)

	empty, err := svc.ListMine(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, clampLimit(-1))
	assert.Equal(t, DefaultListLimit, clampLimit(0))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxListLimit, clampLimit(51))
}

func TestListAvailable_OrderAndUrgency(t *testing.T) {
	svc, _, clk := newTestService(nil)
	ctx := context.Background()

	for _, hours := range []int{12, 3, 6} {
		_, err := svc.Create(ctx, "donor-1", cookedInput(5, hours))
		require.NoError(t, err)
	}
	clk.advance(30 * time.Minute)

	listings, err := svc.ListAvailable(ctx, 0)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	assert.Equal(t, 2.5, listings[0].HoursLeft)
	assert.Equal(t, "high", listings[0].Urgency)
	assert.Equal(t, 5.5, listings[1].HoursLeft)
	assert.Equal(t, "medium", listings[1].Urgency)
	assert.Equal(t, 11.5, listings[2].HoursLeft)
	assert.Equal(t, "low", listings[2].Urgency)
}

func TestListAvailable_SkipsReservedAndExpired(t *testing.T) {
	svc, _, clk := newTestService(nil)
	ctx := context.Background()

	short, err := svc.Create(ctx, "donor-1", cookedInput(5, 1))
	require.NoError(t, err)
	taken, err := svc.Create(ctx, "donor-1", cookedInput(5, 10))
	require.NoError(t, err)
	open, err := svc.Create(ctx, "donor-1", cookedInput(5, 10))
	require.NoError(t, err)

	_, err = svc.Request(ctx, taken.ID, "ngo-1")
	require.NoError(t, err)
	clk.advance(2 * time.Hour)

	listings, err := svc.ListAvailable(ctx, 0)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, open.ID, listings[0].ID)
	assert.NotEqual(t, short.ID, listings[0].ID)
}

func TestUrgencyBoundaries(t *testing.T) {
	assert.Equal(t, "high", Urgency(4))
	assert.Equal(t, "medium", Urgency(4.01))
	assert.Equal(t, "medium", Urgency(8))
	assert.Equal(t, "low", Urgency(8.5))
}

func TestRequestAndPickupFlow(t *testing.T) {
	svc, _, _ := newTestService(nil)
	ctx := context.Background()

	d, err := svc.Create(ctx, "donor-1", cookedInput(15, 6))
	require.NoError(t, err)

	reserved, err := svc.Request(ctx, d.ID, "ngo-1")
	require.NoError(t, err)
	assert.Equal(t, StatusReserved, reserved.Status)
	require.NotNil(t, reserved.ReservedBy)
	assert.Equal(t, "ngo-1", *reserved.ReservedBy)

	_, err = svc.Request(ctx, d.ID, "ngo-2")
	assert.ErrorIs(t, err, ErrNotAvailable)

	_, err = svc.ConfirmPickup(ctx, d.ID, "donor-2")
	assert.ErrorIs(t, err, ErrNotOwner)

	picked, err := svc.ConfirmPickup(ctx, d.ID, "donor-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPickedUp, picked.Status)

	_, err = svc.ConfirmPickup(ctx, d.ID, "donor-1")
	assert.ErrorIs(t, err, ErrNotReserved)
}

func TestRequest_Errors(t *testing.T) {
	svc, _, clk := newTestService(nil)
	ctx := context.Background()

	_, err := svc.Request(ctx, "missing", "ngo-1")
	assert.ErrorIs(t, err, ErrNotFound)

	d, err := svc.Create(ctx, "donor-1", cookedInput(2, 1))
	require.NoError(t, err)
	clk.advance(time.Hour)

	_, err = svc.Request(ctx, d.ID, "ngo-1")
	assert.ErrorIs(t, err, ErrExpired)

	n, err := svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = svc.Request(ctx, d.ID, "ngo-1")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestConfirmPickup_NotReserved(t *testing.T) {
	svc, _, _ := newTestService(nil)
	ctx := context.Background()

	d, err := svc.Create(ctx, "donor-1", cookedInput(2, 3))
	require.NoError(t, err)

	_, err = svc.ConfirmPickup(ctx, d.ID, "donor-1")
	assert.ErrorIs(t, err, ErrNotReserved)
}

func TestImpact(t *testing.T) {
	svc, _, _ := newTestService(nil)
	ctx := context.Background()

	for _, kg := range []float64{15, 8.3} {
		d, err := svc.Create(ctx, "donor-1", cookedInput(kg, 6))
		require.NoError(t, err)
		_, err = svc.Request(ctx, d.ID, "ngo-1")
		require.NoError(t, err)
		_, err = svc.ConfirmPickup(ctx, d.ID, "donor-1")
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "donor-1", cookedInput(20, 6))
	require.NoError(t, err)

	impact, err := svc.Impact(ctx, "donor-1")
	require.NoError(t, err)

	assert.Equal(t, 3, impact.TotalDonations)
	assert.Equal(t, 23.3, impact.FoodSavedKg)
	assert.Equal(t, 29, impact.PeopleFed)
}

func TestAttachPhoto(t *testing.T) {
	store := &fakeStore{}
	svc, repo, _ := newTestService(store)
	ctx := context.Background()

	d, err := svc.Create(ctx, "donor-1", cookedInput(2, 3))
	require.NoError(t, err)

	url, err := svc.AttachPhoto(ctx, d.ID, "donor-1", "Tray.JPG", bytes.NewBufferString("jpeg"))
	require.NoError(t, err)

	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "donations/"+d.ID+"/"))
	assert.True(t, strings.HasSuffix(store.keys[0], ".jpg"))
	assert.Equal(t, "image/jpeg", store.types[0])

	stored, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PhotoURL)
	assert.Equal(t, url, *stored.PhotoURL)
}

func TestAttachPhoto_Errors(t *testing.T) {
	ctx := context.Background()

	off, _, _ := newTestService(nil)
	_, err := off.AttachPhoto(ctx, "id", "donor-1", "a.png", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrStorageOff)

	svc, _, _ := newTestService(&fakeStore{})
	d, err := svc.Create(ctx, "donor-1", cookedInput(2, 3))
	require.NoError(t, err)

	_, err = svc.AttachPhoto(ctx, d.ID, "donor-1", "menu.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrPhotoExtension)

	_, err = svc.AttachPhoto(ctx, d.ID, "donor-2", "a.png", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNotOwner)

	broken, _, _ := newTestService(&fakeStore{err: errors.New("bucket gone")})
	d2, err := broken.Create(ctx, "donor-1", cookedInput(2, 3))
	require.NoError(t, err)
	_, err = broken.AttachPhoto(ctx, d2.ID, "donor-1", "a.webp", strings.NewReader(""))
	assert.ErrorContains(t, err, "bucket gone")
}

func TestValidatePhotoExtension(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.webp"} {
		_, _, err := ValidatePhotoExtension(name)
		assert.NoError(t, err, name)
	}

	_, _, err := ValidatePhotoExtension("noext")
	assert.Error(t, err)
	_, _, err = ValidatePhotoExtension("x.gif")
	assert.ErrorIs(t, err, ErrPhotoExtension)
}

func TestRunExpirySweeper(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	ctx := context.Background()

	d, err := svc.Create(ctx, "donor-1", cookedInput(2, 1))
	require.NoError(t, err)
	svc.now = func() time.Time { return d.ExpiresAt.Add(time.Second) }

	sweepCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		svc.RunExpirySweeper(sweepCtx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		stored, err := repo.FindByID(ctx, d.ID)
		return err == nil && stored.Status == StatusExpired
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
