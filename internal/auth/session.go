package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hugh/go-rental/internal/database/models"
)

// SessionCookieName is the cookie the login endpoint sets.
const SessionCookieName = "auth_token"

// ErrUnauthenticated is the only error ResolveSession reports. Malformed,
// expired and revoked-by-deactivation tokens are deliberately
// indistinguishable to callers.
var ErrUnauthenticated = errors.New("not authenticated")

type Session struct {
	User   *models.User
	Claims *Claims
}

// TokenFromRequest returns the bearer token from the session cookie, falling
// back to the Authorization header.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// ResolveSession verifies the token and loads the live user row. The active
// flag is checked on every call, not at issue time.
func (s *Service) ResolveSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUnauthenticated
	}

	return &Session{User: user, Claims: claims}, nil
}
