package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/hugh/go-rental/internal/tenancy"
)

type OwnerHandler struct {
	svc    *rental.Service
	logger *slog.Logger
}

func NewOwnerHandler(svc *rental.Service, logger *slog.Logger) *OwnerHandler {
	return &OwnerHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/owners
func (h *OwnerHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := parsePagination(r)

	owners, total, err := h.svc.ListOwners(r.Context(), tenancy.FromContext(r.Context()), pageOf(pagination))
	if err != nil {
		writeServiceError(w, h.logger, err, "Owner")
		return
	}

	response := make([]dto.OwnerResponse, len(owners))
	for i := range owners {
		response[i] = dto.NewOwnerResponse(&owners[i])
	}
	writeJSON(w, http.StatusOK, dto.NewPaginatedResponse(response, total, pagination))
}

// Create handles POST /api/v1/owners
func (h *OwnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOwnerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	owner, err := h.svc.CreateOwner(r.Context(), tenancy.FromContext(r.Context()), req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Owner")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewOwnerResponse(owner))
}

// Get handles GET /api/v1/owners/{id}
func (h *OwnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "owner")
	if !ok {
		return
	}

	owner, err := h.svc.GetOwner(r.Context(), tenancy.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Owner")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewOwnerResponse(owner))
}

// Update handles PUT /api/v1/owners/{id}
func (h *OwnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "owner")
	if !ok {
		return
	}

	var req dto.UpdateOwnerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	owner, err := h.svc.UpdateOwner(r.Context(), tenancy.FromContext(r.Context()), id, req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Owner")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewOwnerResponse(owner))
}

// Delete handles DELETE /api/v1/owners/{id}
func (h *OwnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "owner")
	if !ok {
		return
	}

	if err := h.svc.DeleteOwner(r.Context(), tenancy.FromContext(r.Context()), id); err != nil {
		writeServiceError(w, h.logger, err, "Owner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
