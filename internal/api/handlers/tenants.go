package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/hugh/go-rental/internal/tenancy"
)

type TenantHandler struct {
	svc    *rental.Service
	logger *slog.Logger
}

func NewTenantHandler(svc *rental.Service, logger *slog.Logger) *TenantHandler {
	return &TenantHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/tenants
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := parsePagination(r)

	propertyID, ok := queryUUID(w, r, "property_id")
	if !ok {
		return
	}
	active, ok := queryBool(w, r, "active")
	if !ok {
		return
	}

	tenants, total, err := h.svc.ListTenants(r.Context(), tenancy.FromContext(r.Context()),
		rental.TenantFilter{PropertyID: propertyID, Active: active}, pageOf(pagination))
	if err != nil {
		writeServiceError(w, h.logger, err, "Tenant")
		return
	}

	response := make([]dto.TenantResponse, len(tenants))
	for i := range tenants {
		response[i] = dto.NewTenantResponse(&tenants[i])
	}
	writeJSON(w, http.StatusOK, dto.NewPaginatedResponse(response, total, pagination))
}

// Create handles POST /api/v1/tenants
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTenantRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	tenant, err := h.svc.CreateTenant(r.Context(), tenancy.FromContext(r.Context()), req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Tenant")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewTenantResponse(tenant))
}

// Get handles GET /api/v1/tenants/{id}
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "tenant")
	if !ok {
		return
	}

	tenant, err := h.svc.GetTenant(r.Context(), tenancy.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Tenant")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewTenantResponse(tenant))
}

// Update handles PUT /api/v1/tenants/{id}
func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "tenant")
	if !ok {
		return
	}

	var req dto.UpdateTenantRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	tenant, err := h.svc.UpdateTenant(r.Context(), tenancy.FromContext(r.Context()), id, req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Tenant")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewTenantResponse(tenant))
}

// Delete handles DELETE /api/v1/tenants/{id}
func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "tenant")
	if !ok {
		return
	}

	if err := h.svc.DeleteTenant(r.Context(), tenancy.FromContext(r.Context()), id); err != nil {
		writeServiceError(w, h.logger, err, "Tenant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LastReceipt handles GET /api/v1/tenants/{id}/receipts/last
func (h *TenantHandler) LastReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "tenant")
	if !ok {
		return
	}

	rec, err := h.svc.LastReceipt(r.Context(), tenancy.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Receipt")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewReceiptResponse(rec))
}
