package donation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"givebridge/pkg/platform/sentinel"
	"givebridge/pkg/requestcontext"
)

func seedDonation(t *testing.T, store *InMemoryStore, status Status) *Donation {
	t.Helper()
	d := &Donation{
		ID:              "d1",
		DonorID:         "donor-1",
		Title:           "Winter coats",
		Category:        "clothes",
		Quantity:        4,
		PickupLatitude:  44.7866,
		PickupLongitude: 20.4489,
		Status:          status,
		CreatedAt:       time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Create(context.Background(), d))
	return d
}

func reservedPatch(org, code string) Patch {
	reservedBy := org
	reservedAt := time.Date(2025, 5, 21, 10, 0, 0, 0, time.UTC)
	return Patch{
		ReservedBy: &reservedBy,
		Reservation: &ReservationDetails{
			PickupTime:       time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			PickupPersonName: "Ana",
			PickupPersonID:   "123456",
			VerificationCode: code,
		},
		ReservedAt: &reservedAt,
	}
}

func acceptDonation(t *testing.T, store *InMemoryStore, id string) {
	t.Helper()
	accepted := true
	_, err := store.CompareAndSwapStatus(context.Background(), id, StatusReserved, StatusReserved,
		Patch{BusinessConfirmed: &accepted})
	require.NoError(t, err)
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewInMemoryStore()
	seedDonation(t, store, StatusAvailable)

	got, err := store.Get(context.Background(), "d1")
	require.NoError(t, err)
	got.Status = StatusExpired

	again, err := store.Get(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, again.Status)
}

func TestGetUnknownID(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	store := NewInMemoryStore()
	d := seedDonation(t, store, StatusAvailable)
	err := store.Create(context.Background(), d)
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestCompareAndSwapReservesOnce(t *testing.T) {
	store := NewInMemoryStore()
	seedDonation(t, store, StatusAvailable)

	got, err := store.CompareAndSwapStatus(context.Background(), "d1", StatusAvailable, StatusReserved, reservedPatch("org-1", "482913"))
	require.NoError(t, err)
	assert.Equal(t, StatusReserved, got.Status)
	assert.Equal(t, "org-1", got.ReservedBy)
	require.NotNil(t, got.Reservation)
	assert.Equal(t, "482913", got.Reservation.VerificationCode)
	require.NotNil(t, got.ReservedAt)

	_, err = store.CompareAndSwapStatus(context.Background(), "d1", StatusAvailable, StatusReserved, reservedPatch("org-2", "999999"))
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestCompareAndSwapConcurrentReservers(t *testing.T) {
	store := NewInMemoryStore()
	seedDonation(t, store, StatusAvailable)

	const attempts = 32
	results := make(chan error, attempts)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			_, err := store.CompareAndSwapStatus(context.Background(), "d1", StatusAvailable, StatusReserved, reservedPatch("org-x", "111111"))
			results <- err
			return nil
		})
	}
	require.NoError(t, g.Wait())
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, sentinel.ErrConflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflicts)
}

func TestRejectionClearsReservation(t *testing.T) {
	store := NewInMemoryStore()
	seedDonation(t, store, StatusAvailable)
	_, err := store.CompareAndSwapStatus(context.Background(), "d1", StatusAvailable, StatusReserved, reservedPatch("org-1", "482913"))
	require.NoError(t, err)

	cleared := ""
	got, err := store.CompareAndSwapStatus(context.Background(), "d1", StatusReserved, StatusAvailable, Patch{
		ReservedBy:             &cleared,
		ClearReservation:       true,
		ClearBusinessConfirmed: true,
		ClearConfirmations:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, got.Status)
	assert.Empty(t, got.ReservedBy)
	assert.Nil(t, got.Reservation)
	assert.Nil(t, got.BusinessConfirmed)
	assert.Nil(t, got.ReservedAt)

	// a different organization can now reserve
	_, err = store.CompareAndSwapStatus(context.Background(), "d1", StatusAvailable, StatusReserved, reservedPatch("org-2", "700031"))
	require.NoError(t, err)
}

func TestApplyConfirmationRequiresAcceptedPickup(t *testing.T) {
	store := NewInMemoryStore()
	seedDonation(t, store, StatusAvailable)
	_, err := store.CompareAndSwapStatus(context.Background(), "d1", StatusAvailable, StatusReserved, reservedPatch("org-1", "482913"))
	require.NoError(t, err)

	// business confirmation still pending, so even the right code is refused
	_, err = store.ApplyConfirmation(context.Background(), "d1", PartyDonor, "482913")
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)
}

func TestApplyConfirmationVerifiesCode(t *testing.T) {
	store := NewInMemoryStore()
	seedDonation(t, store, StatusAvailable)
	_, err := store.CompareAndSwapStatus(context.Background(), "d1", StatusAvailable, StatusReserved, reservedPatch("org-1", "482913"))
	require.NoError(t, err)
	acceptDonation(t, store, "d1")

	_, err = store.ApplyConfirmation(context.Background(), "d1", PartyDonor, "000000")
	assert.ErrorIs(t, err, sentinel.ErrVerification)
}

func TestApplyConfirmationCompletesOnSecondParty(t *testing.T) {
	store := NewInMemoryStore()
	seedDonation(t, store, StatusAvailable)
	_, err := store.CompareAndSwapStatus(context.Background(), "d1", StatusAvailable, StatusReserved, reservedPatch("org-1", "482913"))
	require.NoError(t, err)
	acceptDonation(t, store, "d1")

	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	first, err := store.ApplyConfirmation(ctx, "d1", PartyDonor, "482913")
	require.NoError(t, err)
	assert.Equal(t, StatusReserved, first.Status)
	assert.True(t, first.DonorConfirmed)
	assert.False(t, first.RecipientConfirmed)
	assert.Nil(t, first.CompletedAt)

	second, err := store.ApplyConfirmation(ctx, "d1", PartyRecipient, "482913")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, second.Status)
	assert.True(t, second.RecipientConfirmed)
	require.NotNil(t, second.CompletedAt)
	assert.Equal(t, now, *second.CompletedAt)
}

func TestApplyConfirmationIsIdempotentPerParty(t *testing.T) {
	store := NewInMemoryStore()
	seedDonation(t, store, StatusAvailable)
	_, err := store.CompareAndSwapStatus(context.Background(), "d1", StatusAvailable, StatusReserved, reservedPatch("org-1", "482913"))
	require.NoError(t, err)
	acceptDonation(t, store, "d1")

	_, err = store.ApplyConfirmation(context.Background(), "d1", PartyDonor, "482913")
	require.NoError(t, err)

	_, err = store.ApplyConfirmation(context.Background(), "d1", PartyDonor, "482913")
	assert.ErrorIs(t, err, sentinel.ErrAlreadyConfirmed)

	got, err := store.Get(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, StatusReserved, got.Status)
}

func TestApplyConfirmationConcurrentPartiesCompleteOnce(t *testing.T) {
	store := NewInMemoryStore()
	seedDonation(t, store, StatusAvailable)
	_, err := store.CompareAndSwapStatus(context.Background(), "d1", StatusAvailable, StatusReserved, reservedPatch("org-1", "482913"))
	require.NoError(t, err)
	acceptDonation(t, store, "d1")

	var g errgroup.Group
	g.Go(func() error {
		_, err := store.ApplyConfirmation(context.Background(), "d1", PartyDonor, "482913")
		return err
	})
	g.Go(func() error {
		_, err := store.ApplyConfirmation(context.Background(), "d1", PartyRecipient, "482913")
		return err
	})
	require.NoError(t, g.Wait())

	got, err := store.Get(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestListFiltersByStatus(t *testing.T) {
	store := NewInMemoryStore()
	seedDonation(t, store, StatusAvailable)
	other := &Donation{ID: "d2", DonorID: "donor-2", Title: "Canned food", Category: "food", Quantity: 10, Status: StatusExpired}
	require.NoError(t, store.Create(context.Background(), other))

	available, err := store.List(context.Background(), StatusAvailable)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "d1", available[0].ID)

	all, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
