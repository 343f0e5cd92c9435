package donation

import (
	"context"
	"time"
)

// Patch carries the lifecycle-owned fields applied in the same atomic write as
// a status swap. Nil pointer fields are left untouched; the Clear flags remove
// values explicitly so a rejection can wipe the reservation in one operation.
type Patch struct {
	ReservedBy  *string
	Reservation *ReservationDetails
	ReservedAt  *time.Time

	BusinessConfirmed      *bool
	ClearReservation       bool
	ClearBusinessConfirmed bool
	ClearConfirmations     bool
}

// Store is the single gateway to persisted donation records. Implementations
// must make CompareAndSwapStatus and ApplyConfirmation single atomic
// read-modify-write operations per donation id: concurrent reservers must
// never both observe success, and two racing confirmations must derive
// completion exactly once.
//
// Implementations return pkg/platform/sentinel errors for state facts
// (ErrNotFound, ErrConflict, ErrInvalidState, ErrVerification,
// ErrAlreadyConfirmed); services translate them into domain errors.
type Store interface {
	// Create inserts a new record. The record must already be normalized
	// (geo fallback applied) and in StatusAvailable.
	Create(ctx context.Context, d *Donation) error

	// Get returns a copy of the record or ErrNotFound.
	Get(ctx context.Context, id string) (*Donation, error)

	// List returns records filtered by status; an empty status lists all.
	// Read-only consumers (map display, export) use this and must never
	// mutate through any other path.
	List(ctx context.Context, status Status) ([]*Donation, error)

	// CompareAndSwapStatus atomically verifies the current status equals
	// expected, swaps it to next and applies patch in the same write.
	// Returns ErrConflict when the status no longer matches (first writer
	// wins) and ErrNotFound for unknown ids. The updated record is returned
	// on success.
	CompareAndSwapStatus(ctx context.Context, id string, expected, next Status, patch Patch) (*Donation, error)

	// ApplyConfirmation records one party's confirmation against the current
	// reservation. It fails with ErrNotFound, ErrInvalidState (not reserved
	// or pickup time not accepted), ErrVerification (code mismatch) or
	// ErrAlreadyConfirmed (idempotency boundary). When the other party's
	// flag is already set, the same atomic write also marks the donation
	// completed; completion is never a separate update.
	ApplyConfirmation(ctx context.Context, id string, party Party, verificationCode string) (*Donation, error)
}
