package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"givebridge/internal/donation"
	"givebridge/internal/reservation"
	dErrors "givebridge/pkg/domain-errors"
)

type donationResponse struct {
	ID          string `json:"id"`
	DonorID     string `json:"donorId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`

	PickupLatitude  float64 `json:"pickupLatitude"`
	PickupLongitude float64 `json:"pickupLongitude"`

	Status     string `json:"status"`
	ReservedBy string `json:"reservedBy,omitempty"`
	PickupTime string `json:"pickupTime,omitempty"`

	BusinessConfirmed  *bool `json:"businessConfirmed,omitempty"`
	DonorConfirmed     bool  `json:"donorConfirmed"`
	RecipientConfirmed bool  `json:"recipientConfirmed"`

	CreatedAt   time.Time  `json:"createdAt"`
	ReservedAt  *time.Time `json:"reservedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type reserveResponse struct {
	VerificationCode string `json:"verificationCode"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error   dErrors.Code `json:"error"`
	Message string       `json:"message,omitempty"`
}

// toDonationResponse maps the record to its wire form. The verification code
// never leaves the server except in the reserve response to the reserver.
func toDonationResponse(d *donation.Donation) donationResponse {
	out := donationResponse{
		ID:                 d.ID,
		DonorID:            d.DonorID,
		Title:              d.Title,
		Description:        d.Description,
		Category:           d.Category,
		Quantity:           d.Quantity,
		PickupLatitude:     d.PickupLatitude,
		PickupLongitude:    d.PickupLongitude,
		Status:             string(d.Status),
		ReservedBy:         d.ReservedBy,
		BusinessConfirmed:  d.BusinessConfirmed,
		DonorConfirmed:     d.DonorConfirmed,
		RecipientConfirmed: d.RecipientConfirmed,
		CreatedAt:          d.CreatedAt,
		ReservedAt:         d.ReservedAt,
		CompletedAt:        d.CompletedAt,
	}
	if d.Reservation != nil {
		out.PickupTime = d.Reservation.PickupTime.Format(reservation.PickupTimeLayout)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: code}
	var de *dErrors.Error
	if errors.As(err, &de) {
		resp.Message = de.Message
	}
	writeJSON(w, dErrors.ToHTTPStatus(code), resp)
}
