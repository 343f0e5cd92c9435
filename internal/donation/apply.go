package donation

import (
	"time"

	"givebridge/pkg/platform/sentinel"
)

// ApplyPatch applies lifecycle field updates to a record in place. Store
// implementations call it inside their atomic section so the patch lands in
// the same write as the status swap.
func ApplyPatch(d *Donation, patch Patch) {
	if patch.ReservedBy != nil {
		d.ReservedBy = *patch.ReservedBy
	}
	if patch.Reservation != nil {
		details := *patch.Reservation
		d.Reservation = &details
	}
	if patch.ClearReservation {
		d.Reservation = nil
		d.ReservedAt = nil
	}
	if patch.ReservedAt != nil {
		at := *patch.ReservedAt
		d.ReservedAt = &at
	}
	if patch.BusinessConfirmed != nil {
		v := *patch.BusinessConfirmed
		d.BusinessConfirmed = &v
	}
	if patch.ClearBusinessConfirmed {
		d.BusinessConfirmed = nil
	}
	if patch.ClearConfirmations {
		d.DonorConfirmed = false
		d.RecipientConfirmed = false
		d.DonorConfirmedAt = nil
		d.RecipientConfirmedAt = nil
	}
}

// ConfirmRecord validates and records one party's confirmation on d, deriving
// completion when the other party's flag is already set. It mutates d in
// place and must only be called inside a store's atomic section.
//
// Validation order matches the store contract: state before code before
// idempotency, so a caller in the wrong state learns that first.
func ConfirmRecord(d *Donation, party Party, verificationCode string, now time.Time) error {
	if !d.Confirmable() {
		return sentinel.ErrInvalidState
	}
	if d.Reservation.VerificationCode != verificationCode {
		return sentinel.ErrVerification
	}
	if d.ConfirmedBy(party) {
		return sentinel.ErrAlreadyConfirmed
	}

	at := now
	if party == PartyDonor {
		d.DonorConfirmed = true
		d.DonorConfirmedAt = &at
	} else {
		d.RecipientConfirmed = true
		d.RecipientConfirmedAt = &at
	}

	// Completion is derived inside the same write that records the second
	// confirmation; a separate read-then-update would lose the race between
	// two near-simultaneous confirmations.
	if d.DonorConfirmed && d.RecipientConfirmed {
		d.Status = StatusCompleted
		d.CompletedAt = &at
	}
	return nil
}
