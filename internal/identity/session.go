package identity

import (
	"net/http"

	"github.com/campus-sentry/campus-sentry/internal/identity/jwt"
	"github.com/campus-sentry/campus-sentry/internal/pkg/ctxlog"
)

// SessionCookie is the name of the session token cookie.
const SessionCookie = "auth-token"

// Sessions reads and fully verifies the session token on inbound requests.
// This is the authoritative check; the route guard's unverified decode is
// advisory only.
type Sessions struct {
	codec *jwt.Codec
}

// NewSessions creates a session accessor backed by the token codec.
func NewSessions(codec *jwt.Codec) *Sessions {
	return &Sessions{codec: codec}
}

// CurrentUser returns the verified claim set for the request's session, or
// nil if the request carries no valid session. "No session" is a normal
// state, not an error; verification failures are logged and collapsed to nil
// so callers treat unauthenticated uniformly.
func (s *Sessions) CurrentUser(r *http.Request) *jwt.Claims {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := s.codec.Verify(cookie.Value)
	if err != nil {
		ctxlog.FromContext(r.Context()).Debug("session verification failed", "error", err)
		return nil
	}

	return claims
}
