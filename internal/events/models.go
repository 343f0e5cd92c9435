// Package events records donation lifecycle transitions for the external
// collaborators (notification lists, export tooling, ops dashboards). It is
// append-only: nothing in here can mutate a donation.
package events

import "time"

// Type labels a lifecycle transition.
type Type string

const (
	TypeDonationCreated Type = "donation.created"
	TypeReserved        Type = "donation.reserved"
	TypePickupAccepted  Type = "pickup.accepted"
	TypePickupRejected  Type = "pickup.rejected"
	TypePartyConfirmed  Type = "pickup.party_confirmed"
	TypeCompleted       Type = "donation.completed"
)

// Event is one lifecycle transition. Request metadata (request id, client IP,
// device) is attached by the publisher from the request context so services do
// not thread it through by hand.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	DonationID string    `json:"donation_id"`
	ActorID    string    `json:"actor_id"`
	Party      string    `json:"party,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	ClientIP   string    `json:"client_ip,omitempty"`
	Device     string    `json:"device,omitempty"`
}
