package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/api/middleware"
	"github.com/hugh/go-rental/internal/auth"
)

// UserHandler serves the administrator's account management endpoints.
type UserHandler struct {
	authService *auth.Service
	logger      *slog.Logger
}

func NewUserHandler(authService *auth.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{authService: authService, logger: logger}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := parsePagination(r)

	users, total, err := h.authService.ListUsers(r.Context(), pagination.Offset(), pagination.PerPage)
	if err != nil {
		writeServiceError(w, h.logger, err, "User")
		return
	}

	response := make([]dto.UserDTO, len(users))
	for i := range users {
		response[i] = dto.NewUserDTO(&users[i])
	}
	writeJSON(w, http.StatusOK, dto.NewPaginatedResponse(response, total, pagination))
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "user")
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserDTO(user))
}

// Update handles PUT /api/v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "user")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateUser(r.Context(), id, req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserDTO(user))
}

// Delete handles DELETE /api/v1/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "user")
	if !ok {
		return
	}

	if err := h.authService.DeleteUser(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		writeServiceError(w, h.logger, err, "User")
		return
	}

	h.logger.Info("user deleted", "user_id", id, "by", middleware.GetUserID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// Activate handles POST /api/v1/users/{id}/activate
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate handles POST /api/v1/users/{id}/deactivate. Live tokens of the
// user stop working on their next request.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := parseID(w, r, "user")
	if !ok {
		return
	}

	user, err := h.authService.SetActive(r.Context(), middleware.GetUserID(r.Context()), id, active)
	if err != nil {
		writeServiceError(w, h.logger, err, "User")
		return
	}

	h.logger.Info("user activation changed", "user_id", id, "active", active)
	writeJSON(w, http.StatusOK, dto.NewUserDTO(user))
}

// SetPlan handles PUT /api/v1/users/{id}/plan
func (h *UserHandler) SetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "user")
	if !ok {
		return
	}

	var req dto.SetPlanRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.authService.SetPlan(r.Context(), id, req.PlanID)
	if err != nil {
		writeServiceError(w, h.logger, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserDTO(user))
}
