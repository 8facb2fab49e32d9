package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tripplanner/backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// retryAfterSeconds is sent with every 429 response.
const retryAfterSeconds = "10"

// statusClientClosedRequest is logged when the caller went away before the
// response was ready. Nothing useful can be written back.
const statusClientClosedRequest = 499

// errorMapping ties a domain sentinel to its HTTP status and error code.
// Order matters only for errors that wrap more than one sentinel.
var errorMapping = []struct {
	sentinel error
	status   int
	code     string
}{
	{domain.ErrValidation, http.StatusBadRequest, "validation_error"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	{domain.ErrGenerationFailed, http.StatusBadGateway, "generation_failed"},
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// requestError writes a 400 for input rejected before reaching the service
// layer (malformed body, bad path or query parameter).
func requestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody("validation_error", message))
}

// writeError maps err onto the error taxonomy and writes the response.
// subject names what was being looked up (e.g. "trip") for 404 messages.
// Unmapped errors are logged and reported as a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, subject string) {
	for _, m := range errorMapping {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		msg := unwrapMessage(err, m.sentinel)
		if m.sentinel == domain.ErrNotFound && msg == m.sentinel.Error() && subject != "" {
			msg = subject + " not found"
		}
		if m.status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", retryAfterSeconds)
		}
		if m.status >= http.StatusInternalServerError {
			s.log.WarnContext(r.Context(), "upstream failure", "error", err)
		}
		writeJSON(w, m.status, errorBody(m.code, msg))
		return
	}

	switch {
	case errors.Is(err, context.Canceled):
		s.log.InfoContext(r.Context(), "request cancelled by client", "error", err)
		w.WriteHeader(statusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		s.log.WarnContext(r.Context(), "request timed out", "error", err)
		writeJSON(w, http.StatusGatewayTimeout, errorBody("timeout", "request timed out"))
	default:
		s.log.ErrorContext(r.Context(), "internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal", "internal server error"))
	}
}

// unwrapMessage extracts the human-readable part that follows the sentinel in
// a wrapped error chain.
// e.g. "service.TripService.Confirm: invalid status transition: trip is not draft" → "trip is not draft"
// When nothing follows the sentinel its own message is returned.
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && len(msg) > i+len(marker) {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}
