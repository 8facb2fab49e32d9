package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. blank destination, end date before start date).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller does not own the resource.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition is returned when a trip or payment is not in a state
// that allows the requested operation, including the loser of a race on a
// conditional status update. Handlers should map this to HTTP 409.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConflict is returned when a unique resource already exists (e.g. an
// email address that is already registered). Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when credentials or tokens are missing, wrong,
// or expired. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRateLimited is returned when the itinerary generator is temporarily
// unavailable: the upstream rate-limited us, the local concurrency limit is
// saturated, or the circuit breaker is open. Callers may retry later.
// Handlers should map this to HTTP 429.
var ErrRateLimited = errors.New("rate limited")

// ErrGenerationFailed is returned when the itinerary generator failed
// permanently (e.g. malformed upstream response). Handlers should map this to HTTP 502.
var ErrGenerationFailed = errors.New("itinerary generation failed")
