package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/go-rental/internal/api"
	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/testutil"
	"github.com/hugh/go-rental/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*api.Router, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	templates, err := web.LoadTemplates()
	require.NoError(t, err)
	static, err := web.GetStaticFS()
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		DB:          tc.DB,
		Logger:      tc.Logger,
		AuthService: tc.AuthService,
		Guard:       tc.Guard,
		Rental:      tc.Rental,
		Templates:   templates,
		StaticFS:    static,
	})
	return router, tc
}

func do(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRouter_OnboardingFlow(t *testing.T) {
	router, tc := newTestRouter(t)
	defer tc.Cleanup()

	// The administrator provisions an account with a temporary password.
	rr := do(router, testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"email":                "landlord@example.com",
		"password":             "temporary123",
		"name":                 "Landlord",
		"must_change_password": true,
	}, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	loginAs := func(password string) string {
		rr := do(router, testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "landlord@example.com",
			"password": password,
		}))
		testutil.AssertStatus(t, rr, http.StatusOK)
		var resp dto.AuthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		return resp.Token
	}

	token := loginAs("temporary123")

	rr = do(router, testutil.CookieRequest(t, http.MethodGet, "/api/v1/owners", nil, token))
	testutil.AssertStatus(t, rr, http.StatusForbidden)
	var gated dto.ErrorResponse
	testutil.ParseJSONResponse(t, rr, &gated)
	assert.Equal(t, "Password change required", gated.Error)

	// A trailing slash does not escape the gate's allow-list.
	rr = do(router, testutil.CookieRequest(t, http.MethodGet, "/api/v1/auth/me/", nil, token))
	assert.NotEqual(t, http.StatusForbidden, rr.Code)

	rr = do(router, testutil.CookieRequest(t, http.MethodPost, "/api/v1/auth/change-password", map[string]string{
		"current_password": "temporary123",
		"new_password":     "permanent456",
	}, token))
	testutil.AssertStatus(t, rr, http.StatusOK)

	token = loginAs("permanent456")

	rr = do(router, testutil.CookieRequest(t, http.MethodPost, "/api/v1/owners", map[string]string{
		"name":     "Primeiro Proprietário",
		"document": "52998224725",
	}, token))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = do(router, testutil.CookieRequest(t, http.MethodGet, "/api/v1/owners", nil, token))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var page dto.PaginatedResponse
	testutil.ParseJSONResponse(t, rr, &page)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PerPage)

	// Regular users cannot reach administration.
	rr = do(router, testutil.CookieRequest(t, http.MethodGet, "/api/v1/users", nil, token))
	testutil.AssertStatus(t, rr, http.StatusForbidden)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router, tc := newTestRouter(t)
	defer tc.Cleanup()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"health", "/health", http.StatusOK},
		{"ready", "/ready", http.StatusOK},
		{"metrics", "/metrics", http.StatusOK},
		{"login page", "/login", http.StatusOK},
		{"stylesheet", "/static/css/app.css", http.StatusOK},
		{"api without session", "/api/v1/owners", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(router, testutil.UnauthenticatedRequest(t, http.MethodGet, tt.path, nil))
			testutil.AssertStatus(t, rr, tt.wantStatus)
		})
	}
}

func TestRouter_AdminRoutes(t *testing.T) {
	router, tc := newTestRouter(t)
	defer tc.Cleanup()

	rr := do(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/users", nil, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = do(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/plans/basico", nil, tc.Token))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = do(router, testutil.AuthenticatedRequest(t, http.MethodPut, "/api/v1/plans/basico", map[string]int{"max_owners": 2}, tc.Token))
	testutil.AssertStatus(t, rr, http.StatusForbidden)

	rr = do(router, testutil.AuthenticatedRequest(t, http.MethodPut, "/api/v1/plans/basico", map[string]int{"max_owners": 2}, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusOK)
}
