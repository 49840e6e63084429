package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/rental"
)

// validatable is implemented by every request DTO.
type validatable interface {
	Validate() map[string]string
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeRequest reads and validates a JSON body, answering 400 itself on
// failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, req validatable) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return false
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return false
	}
	return true
}

// parseID reads the {id} URL parameter.
func parseID(w http.ResponseWriter, r *http.Request, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + resource + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(r *http.Request) dto.PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	p := dto.PaginationParams{Page: page, PerPage: perPage}
	p.Normalize()
	return p
}

func pageOf(p dto.PaginationParams) rental.Page {
	return rental.Page{Offset: p.Offset(), Limit: p.PerPage}
}

// queryUUID parses an optional UUID query filter. ok is false when the value
// is present but malformed; the 400 has been written.
func queryUUID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{name: "Invalid ID"},
		})
		return nil, false
	}
	return &id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{name: "Must be a number"},
		})
		return nil, false
	}
	return &n, true
}

func queryBool(w http.ResponseWriter, r *http.Request, name string) (*bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{name: "Must be true or false"},
		})
		return nil, false
	}
	return &b, true
}

// writeServiceError maps typed service errors onto HTTP responses. Anything
// unrecognized is logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error, resource string) {
	var (
		validationErr *rental.ValidationError
		conflictErr   *rental.ConflictError
		exceededErr   *quota.ExceededError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: validationErr.Fields})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: conflictErr.Message})
	case errors.As(err, &exceededErr):
		writeJSON(w, http.StatusForbidden, dto.QuotaErrorResponse{
			Error:   "Plan limit reached",
			Kind:    string(exceededErr.Kind),
			Plan:    exceededErr.Plan,
			Current: exceededErr.Current,
			Limit:   exceededErr.Limit,
		})
	case errors.Is(err, rental.ErrNotFound), errors.Is(err, auth.ErrUserNotFound), errors.Is(err, quota.ErrPlanNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: resource + " not found"})
	case errors.Is(err, auth.ErrUserExists):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Email already registered"})
	case errors.Is(err, auth.ErrPlanNotFound):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"plan_id": "Plan not found or inactive"},
		})
	case errors.Is(err, auth.ErrSelfAction):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "This operation is not allowed on your own account"})
	default:
		logger.Error("request failed", "resource", resource, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}
