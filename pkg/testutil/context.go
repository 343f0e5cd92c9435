package testutil

import (
	"net/http"
	"time"

	"givebridge/pkg/requestcontext"
)

// WithCaller adds an authenticated caller id to the request context,
// simulating what the auth middleware does for authenticated requests.
func WithCaller(req *http.Request, callerID string) *http.Request {
	ctx := requestcontext.WithCallerID(req.Context(), callerID)
	return req.WithContext(ctx)
}

// WithFrozenTime pins the request time so store timestamps are deterministic.
func WithFrozenTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
