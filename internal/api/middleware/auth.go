package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/tenancy"
)

type contextKey string

const (
	UserKey   contextKey = "user"
	ClaimsKey contextKey = "claims"
)

// Session resolves the request's token into a live user and stores the user,
// the token claims and the tenancy scope in the request context.
func Session(resolver auth.SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := resolver.ResolveSession(r.Context(), auth.TokenFromRequest(r))
			if err != nil {
				handleUnauthorized(w, r)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserKey, session.User)
			ctx = context.WithValue(ctx, ClaimsKey, session.Claims)
			ctx = tenancy.WithScope(ctx, tenancy.ForUser(session.User.ID, session.User.IsAdmin))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// handleUnauthorized returns appropriate response based on request type
func handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	if isWebRequest(r) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}

// isWebRequest reports a browser page load rather than an API call.
func isWebRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html") && !strings.HasPrefix(r.URL.Path, "/api/")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Helper functions to extract values from context
func GetUser(ctx context.Context) *models.User {
	if u, ok := ctx.Value(UserKey).(*models.User); ok {
		return u
	}
	return nil
}

func GetClaims(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(ClaimsKey).(*auth.Claims); ok {
		return c
	}
	return nil
}

func GetUserID(ctx context.Context) uuid.UUID {
	if u := GetUser(ctx); u != nil {
		return u.ID
	}
	return uuid.Nil
}

// RequireAdmin rejects sessions of non-admin users. It reads the live user
// row, so a demoted admin loses access immediately.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		if user == nil {
			handleUnauthorized(w, r)
			return
		}
		if !user.IsAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rotationAllowed are the paths reachable while a password change is pending,
// mapped to the only method allowed there. An empty method allows any.
var rotationAllowed = map[string]string{
	"/change-password":             "",
	"/login":                       "",
	"/api/v1/auth/change-password": "",
	"/api/v1/auth/logout":          "",
	"/api/v1/auth/me":              http.MethodGet,
}

func allowedDuringRotation(r *http.Request) bool {
	method, ok := rotationAllowed[strings.TrimSuffix(r.URL.Path, "/")]
	return ok && (method == "" || method == r.Method)
}

// RotationGate blocks everything except the password change flow while the
// session's token carries the must_change_password flag. The flag is read
// from the token, so it stays set until the user logs in again.
func RotationGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil || !claims.MustChangePassword || allowedDuringRotation(r) {
			next.ServeHTTP(w, r)
			return
		}

		if isWebRequest(r) {
			http.Redirect(w, r, "/change-password", http.StatusSeeOther)
			return
		}
		writeError(w, http.StatusForbidden, "Password change required")
	})
}
