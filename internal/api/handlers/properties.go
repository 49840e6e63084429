package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/hugh/go-rental/internal/tenancy"
)

type PropertyHandler struct {
	svc    *rental.Service
	logger *slog.Logger
}

func NewPropertyHandler(svc *rental.Service, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/properties
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := parsePagination(r)

	ownerID, ok := queryUUID(w, r, "owner_id")
	if !ok {
		return
	}

	properties, total, err := h.svc.ListProperties(r.Context(), tenancy.FromContext(r.Context()),
		rental.PropertyFilter{OwnerID: ownerID}, pageOf(pagination))
	if err != nil {
		writeServiceError(w, h.logger, err, "Property")
		return
	}

	response := make([]dto.PropertyResponse, len(properties))
	for i := range properties {
		response[i] = dto.NewPropertyResponse(&properties[i])
	}
	writeJSON(w, http.StatusOK, dto.NewPaginatedResponse(response, total, pagination))
}

// Create handles POST /api/v1/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePropertyRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	property, err := h.svc.CreateProperty(r.Context(), tenancy.FromContext(r.Context()), req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Property")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewPropertyResponse(property))
}

// Get handles GET /api/v1/properties/{id}
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "property")
	if !ok {
		return
	}

	property, err := h.svc.GetProperty(r.Context(), tenancy.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Property")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPropertyResponse(property))
}

// Update handles PUT /api/v1/properties/{id}
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "property")
	if !ok {
		return
	}

	var req dto.UpdatePropertyRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	property, err := h.svc.UpdateProperty(r.Context(), tenancy.FromContext(r.Context()), id, req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Property")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPropertyResponse(property))
}

// Delete handles DELETE /api/v1/properties/{id}
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "property")
	if !ok {
		return
	}

	if err := h.svc.DeleteProperty(r.Context(), tenancy.FromContext(r.Context()), id); err != nil {
		writeServiceError(w, h.logger, err, "Property")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
