package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/api/middleware"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/tenancy"
)

type PlanHandler struct {
	guard  *quota.Guard
	logger *slog.Logger
}

func NewPlanHandler(guard *quota.Guard, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{guard: guard, logger: logger}
}

// List handles GET /api/v1/plans. Administrators also see inactive plans.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	plans, err := h.guard.ListPlans(r.Context(), user == nil || !user.IsAdmin)
	if err != nil {
		writeServiceError(w, h.logger, err, "Plan")
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// Get handles GET /api/v1/plans/{id}
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.guard.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "Plan")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Update handles PUT /api/v1/plans/{id}
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePlanRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	plan, err := h.guard.UpdatePlan(r.Context(), chi.URLParam(r, "id"), req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Plan")
		return
	}

	h.logger.Info("plan updated", "plan", plan.ID, "by", middleware.GetUserID(r.Context()))
	writeJSON(w, http.StatusOK, plan)
}

// Usage handles GET /api/v1/plans/usage
func (h *PlanHandler) Usage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.guard.Usage(r.Context(), tenancy.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err, "Plan")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUsageResponse(usage))
}

// Check handles GET /api/v1/plans/check/{kind}
func (h *PlanHandler) Check(w http.ResponseWriter, r *http.Request) {
	kind, err := quota.ParseKind(chi.URLParam(r, "kind"))
	if errors.Is(err, quota.ErrUnknownKind) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Kind must be one of: owners, properties, tenants"})
		return
	}

	res, err := h.guard.Check(r.Context(), tenancy.FromContext(r.Context()), kind)
	if err != nil {
		writeServiceError(w, h.logger, err, "Plan")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
