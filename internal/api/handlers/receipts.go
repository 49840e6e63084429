package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/receipt"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/hugh/go-rental/internal/tenancy"
)

type ReceiptHandler struct {
	svc    *rental.Service
	logger *slog.Logger
}

func NewReceiptHandler(svc *rental.Service, logger *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/receipts
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := parsePagination(r)

	var (
		filter rental.ReceiptFilter
		ok     bool
	)
	if filter.TenantID, ok = queryUUID(w, r, "tenant_id"); !ok {
		return
	}
	if filter.PropertyID, ok = queryUUID(w, r, "property_id"); !ok {
		return
	}
	if filter.OwnerID, ok = queryUUID(w, r, "owner_id"); !ok {
		return
	}
	if filter.Month, ok = queryInt(w, r, "month"); !ok {
		return
	}
	if filter.Year, ok = queryInt(w, r, "year"); !ok {
		return
	}
	if filter.Paid, ok = queryBool(w, r, "paid"); !ok {
		return
	}

	receipts, total, err := h.svc.ListReceipts(r.Context(), tenancy.FromContext(r.Context()), filter, pageOf(pagination))
	if err != nil {
		writeServiceError(w, h.logger, err, "Receipt")
		return
	}

	response := make([]dto.ReceiptResponse, len(receipts))
	for i := range receipts {
		response[i] = dto.NewReceiptResponse(&receipts[i])
	}
	writeJSON(w, http.StatusOK, dto.NewPaginatedResponse(response, total, pagination))
}

// Create handles POST /api/v1/receipts
func (h *ReceiptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReceiptRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rec, err := h.svc.CreateReceipt(r.Context(), tenancy.FromContext(r.Context()), req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Receipt")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewReceiptResponse(rec))
}

// Generate handles POST /api/v1/receipts/generate
func (h *ReceiptHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateReceiptRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rec, err := h.svc.GenerateReceipt(r.Context(), tenancy.FromContext(r.Context()), req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Receipt")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewReceiptResponse(rec))
}

// Get handles GET /api/v1/receipts/{id}
func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "receipt")
	if !ok {
		return
	}

	rec, err := h.svc.GetReceipt(r.Context(), tenancy.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Receipt")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewReceiptResponse(rec))
}

// Update handles PUT /api/v1/receipts/{id}
func (h *ReceiptHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "receipt")
	if !ok {
		return
	}

	var req dto.UpdateReceiptRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rec, err := h.svc.UpdateReceipt(r.Context(), tenancy.FromContext(r.Context()), id, req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Receipt")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewReceiptResponse(rec))
}

// Delete handles DELETE /api/v1/receipts/{id}
func (h *ReceiptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "receipt")
	if !ok {
		return
	}

	if err := h.svc.DeleteReceipt(r.Context(), tenancy.FromContext(r.Context()), id); err != nil {
		writeServiceError(w, h.logger, err, "Receipt")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Pay handles POST /api/v1/receipts/{id}/pay
func (h *ReceiptHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "receipt")
	if !ok {
		return
	}

	var req dto.PayReceiptRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rec, err := h.svc.PayReceipt(r.Context(), tenancy.FromContext(r.Context()), id, *req.PaidAt.Ptr())
	if err != nil {
		writeServiceError(w, h.logger, err, "Receipt")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewReceiptResponse(rec))
}

// Words handles GET /api/v1/receipts/{id}/words
func (h *ReceiptHandler) Words(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "receipt")
	if !ok {
		return
	}

	rec, err := h.svc.GetReceipt(r.Context(), tenancy.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Receipt")
		return
	}

	words, err := receipt.AmountInWords(rec.Total)
	if errors.Is(err, receipt.ErrAmountTooLarge) {
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "Amount too large to spell out"})
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, err, "Receipt")
		return
	}
	writeJSON(w, http.StatusOK, dto.WordsResponse{
		Period:       dto.Period(rec),
		Total:        dto.Money(rec.Total),
		TotalInWords: words,
	})
}
