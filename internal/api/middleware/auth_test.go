package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/tenancy"
	"github.com/hugh/go-rental/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func TestSession_ValidToken_AuthorizationHeader(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	handler := Session(tc.AuthService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		require.NotNil(t, user)
		assert.Equal(t, tc.User.ID, user.ID)
		assert.Equal(t, tc.User.ID, GetUserID(r.Context()))
		assert.Equal(t, tc.User.Email, GetClaims(r.Context()).Email)
		assert.Equal(t, tenancy.ForUser(tc.User.ID, false), tenancy.FromContext(r.Context()))
		okHandler(w, r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, testutil.AuthenticatedRequest(t, "GET", "/api/v1/owners", nil, tc.Token))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestSession_ValidToken_Cookie(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	handler := Session(tc.AuthService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, tenancy.FromContext(r.Context()).IsAdmin)
		okHandler(w, r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, testutil.CookieRequest(t, "GET", "/dashboard", nil, tc.AdminToken))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSession_CookieWinsOverHeader(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	handler := Session(tc.AuthService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tc.Admin.ID, GetUserID(r.Context()))
		okHandler(w, r)
	}))

	req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/owners", nil, tc.Token)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: tc.AdminToken})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSession_Rejections(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	inactive, inactiveToken := tc.NewUser(t, testutil.Inactive())
	require.False(t, inactive.IsActive)

	tests := []struct {
		name  string
		token string
	}{
		{"no_token", ""},
		{"garbage", "not-a-jwt"},
		{"tampered", tc.Token + "x"},
		{"inactive_user", inactiveToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Session(tc.AuthService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("Handler should not be called")
			}))

			req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/owners", nil, tt.token)
			req.Header.Set("Accept", "application/json")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestSession_NoToken_WebRequest(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	handler := Session(tc.AuthService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSession_DeactivationRevokesLiveToken(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	handler := Session(tc.AuthService)(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, testutil.AuthenticatedRequest(t, "GET", "/api/v1/owners", nil, tc.Token))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := tc.AuthService.SetActive(testutil.TestContext(t), tc.Admin.ID, tc.User.ID, false)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, testutil.AuthenticatedRequest(t, "GET", "/api/v1/owners", nil, tc.Token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	handler := Session(tc.AuthService)(RequireAdmin(http.HandlerFunc(okHandler)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, testutil.AuthenticatedRequest(t, "GET", "/api/v1/users", nil, tc.Token))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, testutil.AuthenticatedRequest(t, "GET", "/api/v1/users", nil, tc.AdminToken))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	RequireAdmin(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRotationGate(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	_, flaggedToken := tc.NewUser(t, testutil.MustChangePassword())
	handler := Session(tc.AuthService)(RotationGate(http.HandlerFunc(okHandler)))

	tests := []struct {
		name     string
		token    string
		method   string
		path     string
		accept   string
		status   int
		location string
	}{
		{"unflagged_passes", tc.Token, "GET", "/api/v1/owners", "application/json", http.StatusOK, ""},
		{"api_blocked", flaggedToken, "GET", "/api/v1/owners", "application/json", http.StatusForbidden, ""},
		{"page_redirected", flaggedToken, "GET", "/dashboard", "text/html", http.StatusSeeOther, "/change-password"},
		{"change_password_api_allowed", flaggedToken, "POST", "/api/v1/auth/change-password", "application/json", http.StatusOK, ""},
		{"change_password_page_allowed", flaggedToken, "GET", "/change-password", "text/html", http.StatusOK, ""},
		{"logout_allowed", flaggedToken, "POST", "/api/v1/auth/logout", "application/json", http.StatusOK, ""},
		{"me_allowed", flaggedToken, "GET", "/api/v1/auth/me", "application/json", http.StatusOK, ""},
		{"trailing_slash_allowed", flaggedToken, "GET", "/api/v1/auth/me/", "application/json", http.StatusOK, ""},
		{"profile_update_blocked", flaggedToken, "PUT", "/api/v1/auth/me", "application/json", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.AuthenticatedRequest(t, tt.method, tt.path, nil, tt.token)
			req.Header.Set("Accept", tt.accept)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
			if tt.status == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"Password change required"}`, rec.Body.String())
			}
		})
	}
}
