// Package reservation moves a donation from available to reserved and handles
// the donor's accept/reject of the proposed pickup time. Every transition is a
// single compare-and-swap against the donation store, so two organizations
// racing for the same donation resolve to exactly one winner.
package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"givebridge/internal/donation"
	"givebridge/internal/events"
	"givebridge/internal/platform/metrics"
	dErrors "givebridge/pkg/domain-errors"
	"givebridge/pkg/platform/sentinel"
	"givebridge/pkg/requestcontext"
)

// PickupTimeLayout is the wire format for proposed pickup times.
const PickupTimeLayout = "2006-01-02 15:04"

var tracer = otel.Tracer("givebridge/reservation")

// PickupDetails is the reserving organization's proposal.
type PickupDetails struct {
	PickupTime       string
	PickupPersonName string
	PickupPersonID   string
}

// Service is the reservation manager.
type Service struct {
	store   donation.Store
	codes   *CodeGenerator
	events  *events.Publisher
	metrics *metrics.Metrics
}

func NewService(store donation.Store, codes *CodeGenerator, publisher *events.Publisher, m *metrics.Metrics) *Service {
	return &Service{store: store, codes: codes, events: publisher, metrics: m}
}

// Reserve claims an available donation for reserverID. On success it returns
// the verification code; this is the only time the code is transmitted to the
// reserving organization. A lost race surfaces as CodeNotAvailable — callers
// re-fetch current state instead of retrying the same call.
func (s *Service) Reserve(ctx context.Context, donationID, reserverID string, details PickupDetails) (string, error) {
	ctx, span := tracer.Start(ctx, "reservation.reserve")
	defer span.End()

	if reserverID == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "caller is not authenticated")
	}
	pickupTime, err := validatePickupDetails(details)
	if err != nil {
		return "", err
	}

	code, err := s.codes.Generate()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "generate verification code")
	}

	if s.metrics != nil {
		s.metrics.ReservationAttempts.Inc()
	}

	reservedAt := requestcontext.Now(ctx)
	reservedBy := reserverID
	_, err = s.store.CompareAndSwapStatus(ctx, donationID, donation.StatusAvailable, donation.StatusReserved, donation.Patch{
		ReservedBy: &reservedBy,
		Reservation: &donation.ReservationDetails{
			PickupTime:       pickupTime,
			PickupPersonName: details.PickupPersonName,
			PickupPersonID:   details.PickupPersonID,
			VerificationCode: code,
		},
		ReservedAt: &reservedAt,
	})
	if err != nil {
		// A missing or expired donation is indistinguishable from a lost
		// race from the caller's point of view: the donation cannot be
		// reserved, re-fetch and show current state.
		if errors.Is(err, sentinel.ErrConflict) || errors.Is(err, sentinel.ErrNotFound) {
			if s.metrics != nil {
				s.metrics.ReservationConflicts.Inc()
			}
			span.RecordError(err)
			return "", dErrors.New(dErrors.CodeNotAvailable, "donation is not available")
		}
		span.RecordError(err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "reserve donation")
	}

	s.events.Emit(ctx, events.Event{
		Type:       events.TypeReserved,
		DonationID: donationID,
		ActorID:    reserverID,
	})
	return code, nil
}

// BusinessConfirm records the donor's decision on the proposed pickup time.
// Accepting opens the donation for confirmations; rejecting returns it to the
// pool, clearing the reservation in the same compare-and-swap.
func (s *Service) BusinessConfirm(ctx context.Context, donationID, callerID string, accept bool) (*donation.Donation, error) {
	ctx, span := tracer.Start(ctx, "reservation.business_confirm")
	defer span.End()

	current, err := s.store.Get(ctx, donationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load donation")
	}
	if current.DonorID != callerID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the donor can decide on the pickup time")
	}
	if current.Status != donation.StatusReserved {
		return nil, dErrors.New(dErrors.CodeInvalidState, "donation is not reserved")
	}
	if current.BusinessConfirmed != nil {
		return nil, dErrors.New(dErrors.CodeInvalidState, "pickup time already decided")
	}

	var updated *donation.Donation
	if accept {
		accepted := true
		updated, err = s.store.CompareAndSwapStatus(ctx, donationID, donation.StatusReserved, donation.StatusReserved, donation.Patch{
			BusinessConfirmed: &accepted,
		})
	} else {
		cleared := ""
		updated, err = s.store.CompareAndSwapStatus(ctx, donationID, donation.StatusReserved, donation.StatusAvailable, donation.Patch{
			ReservedBy:             &cleared,
			ClearReservation:       true,
			ClearBusinessConfirmed: true,
			ClearConfirmations:     true,
		})
	}
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, sentinel.ErrConflict) || errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidState, "reservation state changed, re-fetch the donation")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "apply pickup decision")
	}

	eventType := events.TypePickupAccepted
	if !accept {
		eventType = events.TypePickupRejected
		if s.metrics != nil {
			s.metrics.Rejections.Inc()
		}
	}
	s.events.Emit(ctx, events.Event{
		Type:       eventType,
		DonationID: donationID,
		ActorID:    callerID,
	})
	return updated, nil
}

func validatePickupDetails(details PickupDetails) (time.Time, error) {
	if strings.TrimSpace(details.PickupPersonName) == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "pickupPersonName is required")
	}
	if n := len(details.PickupPersonID); n < 6 || n > 20 {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "pickupPersonId must be 6-20 characters")
	}
	if details.PickupTime == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "pickupTime is required")
	}
	pickupTime, err := time.Parse(PickupTimeLayout, details.PickupTime)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "pickupTime must use format YYYY-MM-DD HH:MM")
	}
	return pickupTime, nil
}
