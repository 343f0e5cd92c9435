// Package donation owns the donation record and the atomic store primitives
// that every lifecycle transition goes through. Reservation and confirmation
// services never mutate a record except via this package's store contract.
package donation

import "time"

// Status enumerates the donation lifecycle states. Transitions are monotonic
// except the single permitted reserved -> available rollback on rejection.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// IsValid checks that the status is one of the supported enum values.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusCompleted, StatusExpired:
		return true
	}
	return false
}

// Terminal reports whether the store refuses to transition out of this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// Party identifies which side of the handshake is confirming.
type Party string

const (
	PartyDonor     Party = "donor"
	PartyRecipient Party = "recipient"
)

// ReservationDetails is set atomically with the available -> reserved swap and
// cleared on rejection. The verification code is the shared secret both
// parties present when confirming pickup.
type ReservationDetails struct {
	PickupTime       time.Time
	PickupPersonName string
	PickupPersonID   string
	VerificationCode string
}

// Donation is the persisted record. Content fields (title, category, quantity,
// coordinates) are set at creation and never touched by the lifecycle core.
type Donation struct {
	ID          string
	DonorID     string
	Title       string
	Description string
	Category    string
	Quantity    int

	PickupLatitude  float64
	PickupLongitude float64

	Status      Status
	ReservedBy  string
	Reservation *ReservationDetails

	// BusinessConfirmed is nil until the donor accepts or rejects the
	// proposed pickup time.
	BusinessConfirmed  *bool
	DonorConfirmed     bool
	RecipientConfirmed bool

	CreatedAt            time.Time
	ReservedAt           *time.Time
	DonorConfirmedAt     *time.Time
	RecipientConfirmedAt *time.Time
	CompletedAt          *time.Time
}

// Clone returns a deep copy so store callers cannot alias internal state.
func (d *Donation) Clone() *Donation {
	if d == nil {
		return nil
	}
	out := *d
	if d.Reservation != nil {
		details := *d.Reservation
		out.Reservation = &details
	}
	out.BusinessConfirmed = cloneBool(d.BusinessConfirmed)
	out.ReservedAt = cloneTime(d.ReservedAt)
	out.DonorConfirmedAt = cloneTime(d.DonorConfirmedAt)
	out.RecipientConfirmedAt = cloneTime(d.RecipientConfirmedAt)
	out.CompletedAt = cloneTime(d.CompletedAt)
	return &out
}

// ConfirmedBy reports whether the given party already confirmed this cycle.
func (d *Donation) ConfirmedBy(party Party) bool {
	if party == PartyDonor {
		return d.DonorConfirmed
	}
	return d.RecipientConfirmed
}

// Confirmable reports whether confirmations may be recorded: the donation must
// be reserved and the donor must have accepted the pickup time.
func (d *Donation) Confirmable() bool {
	return d.Status == StatusReserved &&
		d.BusinessConfirmed != nil && *d.BusinessConfirmed &&
		d.Reservation != nil
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
