package billinghandler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timerecon/internal/domain/billing"
	"timerecon/internal/transport/http/api"
	"timerecon/internal/transport/http/middleware"
	"timerecon/internal/transport/http/shared"
)

type Handler struct {
	Service *billing.Service
}

func NewHandler(service *billing.Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes mounts the billing surface. Everything under /billing
// requires authentication.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/billing", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleSummary)
		r.Get("/statement", h.handleStatement)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	year, month, err := shared.YearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
		return
	}

	summary, err := h.Service.Summarize(r.Context(), year, month, r.URL.Query().Get("projectCode"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "billing_failed", "failed to build billing summary", requestID)
		return
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	year, month, err := shared.YearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="billing-%04d-%02d.pdf"`, year, month))
	if err := h.Service.WriteStatement(r.Context(), w, year, month, r.URL.Query().Get("projectCode")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "statement_failed", "failed to render statement", requestID)
	}
}
