package donation

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"givebridge/internal/events"
	dErrors "givebridge/pkg/domain-errors"
	"givebridge/pkg/platform/sentinel"
	"givebridge/pkg/requestcontext"
)

// validCategories is the allowlist for donation content categories.
var validCategories = map[string]bool{
	"food":       true,
	"clothes":    true,
	"furniture":  true,
	"appliances": true,
	"hygiene":    true,
	"books":      true,
	"toys":       true,
	"other":      true,
}

// CreateInput is the donor-supplied content for a new donation. Coordinates
// arrive raw; normalization happens exactly once here, at the store boundary.
type CreateInput struct {
	DonorID      string
	Title        string
	Description  string
	Category     string
	Quantity     int
	RawLatitude  string
	RawLongitude string
}

// Service owns record creation and read access. Lifecycle transitions live in
// the reservation and confirmation services; this one never changes status.
type Service struct {
	store     Store
	geo       *GeoNormalizer
	publisher *events.Publisher
}

func NewService(store Store, geo *GeoNormalizer, publisher *events.Publisher) *Service {
	return &Service{store: store, geo: geo, publisher: publisher}
}

// Create validates content, normalizes the pickup coordinate and inserts the
// record as available.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Donation, error) {
	if in.DonorID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller is not authenticated")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if in.Quantity <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "quantity must be positive")
	}
	if !validCategories[in.Category] {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown category: "+in.Category)
	}

	id := uuid.NewString()
	lat, lng := s.geo.Normalize(id, in.RawLatitude, in.RawLongitude)

	d := &Donation{
		ID:              id,
		DonorID:         in.DonorID,
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Category:        in.Category,
		Quantity:        in.Quantity,
		PickupLatitude:  lat,
		PickupLongitude: lng,
		Status:          StatusAvailable,
		CreatedAt:       requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create donation")
	}

	s.publisher.Emit(ctx, events.Event{
		Type:       events.TypeDonationCreated,
		DonationID: d.ID,
		ActorID:    d.DonorID,
	})
	return d, nil
}

// Get returns a single record for the read-only consumers.
func (s *Service) Get(ctx context.Context, id string) (*Donation, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get donation")
	}
	return d, nil
}

// List returns records filtered by status. An empty filter lists everything;
// an unknown status is a validation error rather than an empty result.
func (s *Service) List(ctx context.Context, status string) ([]*Donation, error) {
	filter := Status(status)
	if status != "" && !filter.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown status: "+status)
	}
	out, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list donations")
	}
	return out, nil
}
