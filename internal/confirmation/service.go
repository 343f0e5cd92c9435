// Package confirmation records each party's pickup confirmation and derives
// completion. The coordinator never sets completed itself: the store marks it
// inside the same atomic write that records the second confirmation.
package confirmation

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"givebridge/internal/donation"
	"givebridge/internal/events"
	"givebridge/internal/platform/metrics"
	dErrors "givebridge/pkg/domain-errors"
	"givebridge/pkg/platform/sentinel"
)

var tracer = otel.Tracer("givebridge/confirmation")

// Service is the confirmation coordinator.
type Service struct {
	store   donation.Store
	events  *events.Publisher
	metrics *metrics.Metrics
}

func NewService(store donation.Store, publisher *events.Publisher, m *metrics.Metrics) *Service {
	return &Service{store: store, events: publisher, metrics: m}
}

// Confirm records callerID's confirmation with the shared verification code.
// The party is derived from identity: the donation's donor confirms as donor,
// the reserving organization as recipient; anyone else is forbidden.
func (s *Service) Confirm(ctx context.Context, donationID, callerID, verificationCode string) (*donation.Donation, error) {
	ctx, span := tracer.Start(ctx, "confirmation.confirm")
	defer span.End()

	if callerID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller is not authenticated")
	}
	if verificationCode == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "verificationCode is required")
	}

	current, err := s.store.Get(ctx, donationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load donation")
	}

	var party donation.Party
	switch callerID {
	case current.DonorID:
		party = donation.PartyDonor
	case current.ReservedBy:
		party = donation.PartyRecipient
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "caller is not a party to this donation")
	}
	span.SetAttributes(attribute.String("confirmation.party", string(party)))

	// Party resolution above is advisory only; the store re-validates state,
	// code and idempotency inside its atomic write.
	updated, err := s.store.ApplyConfirmation(ctx, donationID, party, verificationCode)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "donation not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			return nil, dErrors.New(dErrors.CodeInvalidState, "donation is not awaiting confirmation")
		case errors.Is(err, sentinel.ErrVerification):
			return nil, dErrors.New(dErrors.CodeVerification, "verification code does not match")
		case errors.Is(err, sentinel.ErrAlreadyConfirmed):
			return nil, dErrors.New(dErrors.CodeAlreadyConfirmed, "pickup already confirmed by this party")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "apply confirmation")
		}
	}

	if s.metrics != nil {
		s.metrics.Confirmations.WithLabelValues(string(party)).Inc()
	}
	s.events.Emit(ctx, events.Event{
		Type:       events.TypePartyConfirmed,
		DonationID: donationID,
		ActorID:    callerID,
		Party:      string(party),
	})

	if updated.Status == donation.StatusCompleted {
		if s.metrics != nil {
			s.metrics.Completions.Inc()
		}
		s.events.Emit(ctx, events.Event{
			Type:       events.TypeCompleted,
			DonationID: donationID,
			ActorID:    callerID,
		})
	}
	return updated, nil
}
