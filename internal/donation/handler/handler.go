// Package handler is the thin HTTP layer over the donation lifecycle. It
// decodes requests, resolves the authenticated caller, delegates to the
// domain services and translates their errors; no business rule lives here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"givebridge/internal/donation"
	"givebridge/internal/platform/metrics"
	"givebridge/internal/platform/middleware"
	"givebridge/internal/reservation"
	dErrors "givebridge/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/services.go -package=mocks

// DonationService covers record creation and read access.
type DonationService interface {
	Create(ctx context.Context, in donation.CreateInput) (*donation.Donation, error)
	Get(ctx context.Context, id string) (*donation.Donation, error)
	List(ctx context.Context, status string) ([]*donation.Donation, error)
}

// ReservationService is the reservation manager surface.
type ReservationService interface {
	Reserve(ctx context.Context, donationID, reserverID string, details reservation.PickupDetails) (string, error)
	BusinessConfirm(ctx context.Context, donationID, callerID string, accept bool) (*donation.Donation, error)
}

// ConfirmationService is the confirmation coordinator surface.
type ConfirmationService interface {
	Confirm(ctx context.Context, donationID, callerID, verificationCode string) (*donation.Donation, error)
}

// Handler handles donation lifecycle endpoints.
type Handler struct {
	logger        *slog.Logger
	donations     DonationService
	reservations  ReservationService
	confirmations ConfirmationService
	metrics       *metrics.Metrics
	validator     middleware.TokenValidator
}

func New(
	donations DonationService,
	reservations ReservationService,
	confirmations ConfirmationService,
	logger *slog.Logger,
	m *metrics.Metrics,
	validator middleware.TokenValidator,
) *Handler {
	return &Handler{
		logger:        logger,
		donations:     donations,
		reservations:  reservations,
		confirmations: confirmations,
		metrics:       m,
		validator:     validator,
	}
}

// Register mounts the donation routes with their middleware chain.
func (h *Handler) Register(r chi.Router) {
	dr := chi.NewRouter()
	dr.Use(middleware.Recovery(h.logger))
	dr.Use(middleware.RequestID)
	dr.Use(middleware.Logger(h.logger))
	dr.Use(middleware.Timeout(30 * time.Second))
	dr.Use(middleware.ClientMetadata)
	dr.Use(middleware.ContentTypeJSON)
	if h.metrics != nil {
		dr.Use(middleware.Latency(h.metrics))
	}
	dr.Use(middleware.RequireAuth(h.validator, h.logger))

	dr.Post("/donations", h.handleCreate)
	dr.Get("/donations", h.handleList)
	dr.Get("/donations/{id}", h.handleGet)
	dr.Post("/donations/{id}/reserve", h.handleReserve)
	dr.Post("/donations/{id}/business-confirm", h.handleBusinessConfirm)
	dr.Post("/donations/{id}/confirm", h.handleConfirm)

	r.Mount("/", dr)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid create donation request", err)
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	created, err := h.donations.Create(ctx, donation.CreateInput{
		DonorID:      middleware.GetCallerID(ctx),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Quantity:     req.Quantity,
		RawLatitude:  rawCoordinate(req.PickupLatitude),
		RawLongitude: rawCoordinate(req.PickupLongitude),
	})
	if err != nil {
		h.fail(ctx, w, "create donation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDonationResponse(created))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.donations.List(ctx, r.URL.Query().Get("status"))
	if err != nil {
		h.fail(ctx, w, "list donations", err)
		return
	}
	out := make([]donationResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDonationResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.donations.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "get donation", err)
		return
	}
	writeJSON(w, http.StatusOK, toDonationResponse(d))
}

func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid reserve request", err)
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	code, err := h.reservations.Reserve(ctx, chi.URLParam(r, "id"), middleware.GetCallerID(ctx), reservation.PickupDetails{
		PickupTime:       req.PickupTime,
		PickupPersonName: req.PickupPersonName,
		PickupPersonID:   req.PickupPersonID,
	})
	if err != nil {
		h.fail(ctx, w, "reserve donation", err)
		return
	}
	writeJSON(w, http.StatusCreated, reserveResponse{VerificationCode: code})
}

func (h *Handler) handleBusinessConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req businessConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid business-confirm request", err)
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if req.Accept == nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "accept is required"))
		return
	}

	updated, err := h.reservations.BusinessConfirm(ctx, chi.URLParam(r, "id"), middleware.GetCallerID(ctx), *req.Accept)
	if err != nil {
		h.fail(ctx, w, "business-confirm donation", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: string(updated.Status)})
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid confirm request", err)
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	updated, err := h.confirmations.Confirm(ctx, chi.URLParam(r, "id"), middleware.GetCallerID(ctx), req.VerificationCode)
	if err != nil {
		h.fail(ctx, w, "confirm donation", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: string(updated.Status)})
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}

// fail logs and writes a domain error. Internal errors get a 500 without
// leaking the underlying cause.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+op,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, dErrors.New(dErrors.CodeInternal, "failed to "+op))
		return
	}
	h.warn(ctx, "rejected "+op, err)
	writeError(w, err)
}
