package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-rental/internal/api/middleware"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/hugh/go-rental/internal/tenancy"
	"github.com/hugh/go-rental/internal/web"
)

// DashboardHandler serves the HTML pages. Forms post to the JSON API.
type DashboardHandler struct {
	guard     *quota.Guard
	rental    *rental.Service
	templates *web.Templates
	logger    *slog.Logger
}

func NewDashboardHandler(guard *quota.Guard, svc *rental.Service, templates *web.Templates, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		guard:     guard,
		rental:    svc,
		templates: templates,
		logger:    logger,
	}
}

type usageItem struct {
	Label string
	quota.Result
}

type usageView struct {
	PlanName string
	Items    []usageItem
}

var kindLabels = map[quota.Kind]string{
	quota.KindOwners:     "Proprietários",
	quota.KindProperties: "Imóveis",
	quota.KindTenants:    "Inquilinos",
}

const openReceiptsShown = 10

func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	scope := tenancy.FromContext(r.Context())

	usage, err := h.guard.Usage(r.Context(), scope)
	if err != nil {
		h.fail(w, "loading usage", err)
		return
	}
	view := usageView{PlanName: usage.Plan.Name}
	for _, kind := range quota.Kinds {
		view.Items = append(view.Items, usageItem{Label: kindLabels[kind], Result: usage.Kinds[kind]})
	}

	unpaid := false
	open, _, err := h.rental.ListReceipts(r.Context(), scope,
		rental.ReceiptFilter{Paid: &unpaid},
		rental.Page{Limit: openReceiptsShown},
	)
	if err != nil {
		h.fail(w, "loading open receipts", err)
		return
	}

	h.render(w, http.StatusOK, "dashboard.html", map[string]interface{}{
		"User":         user,
		"Usage":        view,
		"OpenReceipts": open,
	})
}

func (h *DashboardHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login.html", map[string]interface{}{})
}

// ChangePassword renders the rotation form. Required is set when the
// session is held at the rotation gate.
func (h *DashboardHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	h.render(w, http.StatusOK, "change_password.html", map[string]interface{}{
		"User":     middleware.GetUser(r.Context()),
		"Required": claims != nil && claims.MustChangePassword,
	})
}

func (h *DashboardHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func (h *DashboardHandler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	if h.templates == nil {
		http.Error(w, "Templates not loaded", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, name, data); err != nil {
		h.logger.Error("rendering template", "template", name, "error", err)
	}
}
