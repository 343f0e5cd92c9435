package handler_test

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"givebridge/internal/donation"
	"givebridge/internal/donation/handler"
	"givebridge/internal/donation/handler/mocks"
	"givebridge/internal/platform/middleware"
	"givebridge/internal/reservation"
	dErrors "givebridge/pkg/domain-errors"
	"givebridge/pkg/testutil"
)

// stubValidator accepts any non-empty token and uses it as the caller id, so
// tests pick their principal by choosing the bearer token.
type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*middleware.TokenClaims, error) {
	return &middleware.TokenClaims{CallerID: token}, nil
}

type fixture struct {
	router        http.Handler
	donations     *mocks.MockDonationService
	reservations  *mocks.MockReservationService
	confirmations *mocks.MockConfirmationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		donations:     mocks.NewMockDonationService(ctrl),
		reservations:  mocks.NewMockReservationService(ctrl),
		confirmations: mocks.NewMockConfirmationService(ctrl),
	}

	h := handler.New(f.donations, f.reservations, f.confirmations, slog.Default(), nil, stubValidator{})
	r := chi.NewRouter()
	h.Register(r)
	f.router = r
	return f
}

func authed(req *http.Request, callerID string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+callerID)
	return req
}

func sampleDonation(status donation.Status) *donation.Donation {
	d := &donation.Donation{
		ID:              "don-1",
		DonorID:         "donor-1",
		Title:           "winter jackets",
		Category:        "clothes",
		Quantity:        4,
		PickupLatitude:  45.2671,
		PickupLongitude: 19.8335,
		Status:          status,
		CreatedAt:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if status != donation.StatusAvailable {
		d.ReservedBy = "recipient-1"
		d.Reservation = &donation.ReservationDetails{
			PickupTime:       time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
			PickupPersonName: "Mira",
			PickupPersonID:   "0012345678",
			VerificationCode: "482913",
		}
	}
	return d
}

func TestReserve(t *testing.T) {
	details := reservation.PickupDetails{
		PickupTime:       "2026-03-02 14:00",
		PickupPersonName: "Mira",
		PickupPersonID:   "0012345678",
	}
	body := map[string]string{
		"pickupTime":       details.PickupTime,
		"pickupPersonName": details.PickupPersonName,
		"pickupPersonId":   details.PickupPersonID,
	}

	t.Run("returns the verification code on success", func(t *testing.T) {
		f := newFixture(t)
		f.reservations.EXPECT().
			Reserve(gomock.Any(), "don-1", "recipient-1", details).
			Return("482913", nil)

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/reserve", body), "recipient-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[struct {
			VerificationCode string `json:"verificationCode"`
		}](t, rr)
		assert.Equal(t, "482913", resp.VerificationCode)
	})

	t.Run("lost race maps to 409 not_available", func(t *testing.T) {
		f := newFixture(t)
		f.reservations.EXPECT().
			Reserve(gomock.Any(), "don-1", "recipient-2", details).
			Return("", dErrors.New(dErrors.CodeNotAvailable, "donation is not available"))

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/reserve", body), "recipient-2")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "not_available")
	})

	t.Run("invalid pickup details map to 400", func(t *testing.T) {
		f := newFixture(t)
		f.reservations.EXPECT().
			Reserve(gomock.Any(), "don-1", "recipient-1", gomock.Any()).
			Return("", dErrors.New(dErrors.CodeValidation, "pickup person name is required"))

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/reserve", map[string]string{"pickupTime": details.PickupTime}), "recipient-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_failed")
	})

	t.Run("malformed body is rejected before the service", func(t *testing.T) {
		f := newFixture(t)

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/reserve", nil), "recipient-1")
		req.Body = http.NoBody
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_failed")
	})

	t.Run("missing bearer token is rejected", func(t *testing.T) {
		f := newFixture(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/reserve", body)
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("non-JSON content type is rejected", func(t *testing.T) {
		f := newFixture(t)

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/reserve", body), "recipient-1")
		req.Header.Set("Content-Type", "text/plain")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusUnsupportedMediaType)
	})
}

func TestBusinessConfirm(t *testing.T) {
	t.Run("accept returns the reserved status", func(t *testing.T) {
		f := newFixture(t)
		accepted := sampleDonation(donation.StatusReserved)
		yes := true
		accepted.BusinessConfirmed = &yes
		f.reservations.EXPECT().
			BusinessConfirm(gomock.Any(), "don-1", "donor-1", true).
			Return(accepted, nil)

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/business-confirm", map[string]bool{"accept": true}), "donor-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[struct {
			Status string `json:"status"`
		}](t, rr)
		assert.Equal(t, "reserved", resp.Status)
	})

	t.Run("reject returns the rolled back status", func(t *testing.T) {
		f := newFixture(t)
		f.reservations.EXPECT().
			BusinessConfirm(gomock.Any(), "don-1", "donor-1", false).
			Return(sampleDonation(donation.StatusAvailable), nil)

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/business-confirm", map[string]bool{"accept": false}), "donor-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[struct {
			Status string `json:"status"`
		}](t, rr)
		assert.Equal(t, "available", resp.Status)
	})

	t.Run("missing accept field is a validation error", func(t *testing.T) {
		f := newFixture(t)

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/business-confirm", map[string]string{}), "donor-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_failed")
	})

	t.Run("non-donor caller maps to 403", func(t *testing.T) {
		f := newFixture(t)
		f.reservations.EXPECT().
			BusinessConfirm(gomock.Any(), "don-1", "stranger", true).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "only the donor may confirm the pickup time"))

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/business-confirm", map[string]bool{"accept": true}), "stranger")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	t.Run("repeated decision maps to 409", func(t *testing.T) {
		f := newFixture(t)
		f.reservations.EXPECT().
			BusinessConfirm(gomock.Any(), "don-1", "donor-1", true).
			Return(nil, dErrors.New(dErrors.CodeInvalidState, "pickup time already decided"))

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/business-confirm", map[string]bool{"accept": true}), "donor-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "invalid_state")
	})
}

func TestConfirm(t *testing.T) {
	body := map[string]string{"verificationCode": "482913"}

	t.Run("second confirmation reports completed", func(t *testing.T) {
		f := newFixture(t)
		done := sampleDonation(donation.StatusCompleted)
		f.confirmations.EXPECT().
			Confirm(gomock.Any(), "don-1", "recipient-1", "482913").
			Return(done, nil)

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/confirm", body), "recipient-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[struct {
			Status string `json:"status"`
		}](t, rr)
		assert.Equal(t, "completed", resp.Status)
	})

	t.Run("wrong code maps to 400 verification_failed", func(t *testing.T) {
		f := newFixture(t)
		f.confirmations.EXPECT().
			Confirm(gomock.Any(), "don-1", "recipient-1", "482913").
			Return(nil, dErrors.New(dErrors.CodeVerification, "verification code does not match"))

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/confirm", body), "recipient-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "verification_failed")
	})

	t.Run("third party maps to 403", func(t *testing.T) {
		f := newFixture(t)
		f.confirmations.EXPECT().
			Confirm(gomock.Any(), "don-1", "stranger", "482913").
			Return(nil, dErrors.New(dErrors.CodeForbidden, "caller is not a party to this donation"))

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/confirm", body), "stranger")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	t.Run("repeat confirmation maps to 409 already_confirmed", func(t *testing.T) {
		f := newFixture(t)
		f.confirmations.EXPECT().
			Confirm(gomock.Any(), "don-1", "donor-1", "482913").
			Return(nil, dErrors.New(dErrors.CodeAlreadyConfirmed, "donor already confirmed"))

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations/don-1/confirm", body), "donor-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "already_confirmed")
	})
}

func TestCreateAndRead(t *testing.T) {
	t.Run("create accepts numeric and string coordinates", func(t *testing.T) {
		f := newFixture(t)
		f.donations.EXPECT().
			Create(gomock.Any(), donation.CreateInput{
				DonorID:      "donor-1",
				Title:        "winter jackets",
				Category:     "clothes",
				Quantity:     4,
				RawLatitude:  "45.2671",
				RawLongitude: "19.8335",
			}).
			Return(sampleDonation(donation.StatusAvailable), nil)

		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/donations", map[string]any{
			"title":           "winter jackets",
			"category":        "clothes",
			"quantity":        4,
			"pickupLatitude":  45.2671,
			"pickupLongitude": "19.8335",
		}), "donor-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}](t, rr)
		assert.Equal(t, "don-1", resp.ID)
		assert.Equal(t, "available", resp.Status)
	})

	t.Run("get returns the record without the verification code", func(t *testing.T) {
		f := newFixture(t)
		f.donations.EXPECT().
			Get(gomock.Any(), "don-1").
			Return(sampleDonation(donation.StatusReserved), nil)

		req := authed(testutil.NewJSONRequest(t, http.MethodGet, "/donations/don-1", nil), "recipient-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		body := string(testutil.ReadBody(t, rr))
		assert.Contains(t, body, `"pickupTime":"2026-03-02 14:00"`)
		assert.NotContains(t, body, "482913")
	})

	t.Run("get unknown id maps to 404", func(t *testing.T) {
		f := newFixture(t)
		f.donations.EXPECT().
			Get(gomock.Any(), "missing").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "donation not found"))

		req := authed(testutil.NewJSONRequest(t, http.MethodGet, "/donations/missing", nil), "recipient-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("list forwards the status filter", func(t *testing.T) {
		f := newFixture(t)
		f.donations.EXPECT().
			List(gomock.Any(), "available").
			Return([]*donation.Donation{sampleDonation(donation.StatusAvailable)}, nil)

		req := authed(testutil.NewJSONRequest(t, http.MethodGet, "/donations?status=available", nil), "recipient-1")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[[]struct {
			ID string `json:"id"`
		}](t, rr)
		require.Len(t, *resp, 1)
		assert.Equal(t, "don-1", (*resp)[0].ID)
	})
}
