package handlers_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/api/handlers"
	"github.com/hugh/go-rental/internal/api/middleware"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func setupAdminTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	users := handlers.NewUserHandler(tc.AuthService, tc.Logger)
	plans := handlers.NewPlanHandler(tc.Guard, tc.Logger)
	owners := handlers.NewOwnerHandler(tc.Rental, tc.Logger)

	r, protected := sessionRouter(tc)
	protected.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", users.List)
			r.Get("/{id}", users.Get)
			r.Put("/{id}", users.Update)
			r.Delete("/{id}", users.Delete)
			r.Post("/{id}/activate", users.Activate)
			r.Post("/{id}/deactivate", users.Deactivate)
			r.Put("/{id}/plan", users.SetPlan)
		})
		r.Route("/plans", func(r chi.Router) {
			r.Get("/", plans.List)
			r.Get("/usage", plans.Usage)
			r.Get("/check/{kind}", plans.Check)
			r.Get("/{id}", plans.Get)
			r.With(middleware.RequireAdmin).Put("/{id}", plans.Update)
		})
		r.Get("/owners", owners.List)
	})

	return r, tc
}

func TestUserHandler_AdminOnly(t *testing.T) {
	router, tc := setupAdminTestRouter(t)
	defer tc.Cleanup()

	rr := serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/users", nil, tc.Token))
	testutil.AssertStatus(t, rr, http.StatusForbidden)

	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/users", nil, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp dto.PaginatedResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.EqualValues(t, 2, resp.Total)
}

func TestUserHandler_Deactivate(t *testing.T) {
	router, tc := setupAdminTestRouter(t)
	defer tc.Cleanup()

	target, targetToken := tc.NewUser(t)

	rr := serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/owners", nil, targetToken))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/users/"+target.ID.String()+"/deactivate", nil, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp dto.UserDTO
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.False(t, resp.IsActive)

	// The still unexpired token is refused from now on.
	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/owners", nil, targetToken))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/users/"+target.ID.String()+"/activate", nil, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/owners", nil, targetToken))
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestUserHandler_SelfActions(t *testing.T) {
	router, tc := setupAdminTestRouter(t)
	defer tc.Cleanup()

	self := tc.Admin.ID.String()

	rr := serve(router, testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/users/"+self+"/deactivate", nil, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/v1/users/"+self, nil, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestUserHandler_SetPlan(t *testing.T) {
	router, tc := setupAdminTestRouter(t)
	defer tc.Cleanup()

	path := "/api/v1/users/" + tc.User.ID.String() + "/plan"

	rr := serve(router, testutil.AuthenticatedRequest(t, http.MethodPut, path, map[string]string{"plan_id": models.PlanProfessional}, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp dto.UserDTO
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, models.PlanProfessional, resp.PlanID)

	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodPut, path, map[string]string{"plan_id": "platinum"}, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/plans/usage", nil, tc.Token))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var usage dto.UsageResponse
	testutil.ParseJSONResponse(t, rr, &usage)
	assert.Equal(t, models.PlanProfessional, usage.Plan)
	assert.Equal(t, 25, usage.Usage["owners"].Limit)
}

func TestUserHandler_NotFound(t *testing.T) {
	router, tc := setupAdminTestRouter(t)
	defer tc.Cleanup()

	rr := serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/users/"+uuid.New().String(), nil, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestPlanHandler_Check(t *testing.T) {
	router, tc := setupAdminTestRouter(t)
	defer tc.Cleanup()

	testutil.CreateTestOwner(t, tc.DB, tc.User.ID, "One")
	testutil.CreateTestOwner(t, tc.DB, tc.User.ID, "Two")

	t.Run("regular user", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/plans/check/owners", nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var res quota.Result
		testutil.ParseJSONResponse(t, rr, &res)
		assert.True(t, res.Allowed)
		assert.EqualValues(t, 2, res.Current)
		assert.Equal(t, 10, res.Limit)
		assert.Equal(t, 20, res.Percent)
	})

	t.Run("admin is unlimited", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/plans/check/tenants", nil, tc.AdminToken))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var res quota.Result
		testutil.ParseJSONResponse(t, rr, &res)
		assert.True(t, res.Unlimited)
		assert.Equal(t, quota.Unlimited, res.Limit)
	})

	t.Run("unknown kind", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/plans/check/receipts", nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestPlanHandler_Update(t *testing.T) {
	router, tc := setupAdminTestRouter(t)
	defer tc.Cleanup()

	path := "/api/v1/plans/" + models.PlanBasic
	body := map[string]interface{}{"max_owners": 3, "is_active": false}

	rr := serve(router, testutil.AuthenticatedRequest(t, http.MethodPut, path, body, tc.Token))
	testutil.AssertStatus(t, rr, http.StatusForbidden)

	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodPut, path, map[string]interface{}{"max_owners": 0}, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodPut, path, body, tc.AdminToken))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var plan models.Plan
	testutil.ParseJSONResponse(t, rr, &plan)
	assert.Equal(t, 3, plan.MaxOwners)
	assert.False(t, plan.IsActive)

	t.Run("inactive plans are hidden from regular users", func(t *testing.T) {
		var listed []models.Plan
		rr := serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/plans", nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.ParseJSONResponse(t, rr, &listed)
		assert.Len(t, listed, 2)

		rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/plans", nil, tc.AdminToken))
		testutil.ParseJSONResponse(t, rr, &listed)
		assert.Len(t, listed, 3)
	})

	rr = serve(router, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/plans/unknown", nil, tc.Token))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}
