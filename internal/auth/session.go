package auth

import (
	"context"

	"github.com/google/uuid"
)

// Session identifies the authenticated caller of one request. It is created
// by the authentication middleware and never outlives the request.
type Session struct {
	UserID uuid.UUID
	Email  string
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the Session stored in ctx, if any.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
