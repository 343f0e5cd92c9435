package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about the donation record, not validation
// failures:
// - ErrNotFound: donation does not exist in the store
// - ErrConflict: compare-and-swap saw a different status than expected
// - ErrInvalidState: donation in wrong state for the requested operation
// - ErrVerification: supplied verification code does not match the reservation
// - ErrAlreadyConfirmed: the party already confirmed this reservation cycle
// - ErrUnavailable: backing store temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidState     = errors.New("invalid state")
	ErrVerification     = errors.New("verification code mismatch")
	ErrAlreadyConfirmed = errors.New("already confirmed")
	ErrUnavailable      = errors.New("unavailable")
)
