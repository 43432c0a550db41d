package timesheethandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"timerecon/internal/domain/audit"
	"timerecon/internal/domain/recon"
	"timerecon/internal/ingest"
	"timerecon/internal/transport/http/api"
	"timerecon/internal/transport/http/middleware"
	"timerecon/internal/transport/http/shared"
)

type Handler struct {
	Service *recon.Service
	Audit   *audit.Service
}

func NewHandler(service *recon.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) audit(r *http.Request, action, entityType, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.Email
	}
	err := h.Audit.Record(r.Context(), actor, action, entityType, entityID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), details)
	if err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timesheets", func(r chi.Router) {
		r.Post("/upload", h.handleUpload)
		r.Post("/upload-grid", h.handleUploadGrid)
		r.Get("/report", h.handleReport)
		r.Get("/report/export", h.handleReportExport)
		r.Get("/daily", h.handleDaily)
		r.Get("/projects", h.handleProjects)
		r.Get("/months", h.handleMonths)
		r.Post("/reminders", h.handleReminders)
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	file, _, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "missing_file", "multipart field 'file' is required", requestID)
		return
	}
	defer file.Close()

	summary, err := h.Service.IngestWorkbook(r.Context(), file)
	if err != nil {
		var schemaErr *ingest.SchemaError
		if errors.As(err, &schemaErr) {
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_workbook", schemaErr.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "ingest_failed", "failed to ingest workbook", requestID)
		return
	}
	h.audit(r, "timesheets.upload", "ingest", summary.BatchID, summary)
	api.Success(w, summary, requestID)
}

func (h *Handler) handleUploadGrid(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	year, month, err := shared.YearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
		return
	}
	source := recon.Source(strings.ToUpper(r.URL.Query().Get("source")))
	if source != recon.SourceCG && source != recon.SourceCiti {
		api.Fail(w, http.StatusBadRequest, "invalid_source", "source must be CG or CITI", requestID)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "missing_file", "multipart field 'file' is required", requestID)
		return
	}
	defer file.Close()

	summary, err := h.Service.IngestGrid(r.Context(), file, source, year, month)
	if err != nil {
		var schemaErr *ingest.SchemaError
		if errors.As(err, &schemaErr) {
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_workbook", schemaErr.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "ingest_failed", "failed to ingest grid", requestID)
		return
	}
	h.audit(r, "timesheets.upload_grid", "ingest", summary.BatchID, summary)
	api.Success(w, summary, requestID)
}

func (h *Handler) reportFromQuery(w http.ResponseWriter, r *http.Request) (*recon.Report, bool) {
	requestID := middleware.GetRequestID(r.Context())

	year, month, err := shared.YearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
		return nil, false
	}
	status := recon.Status(r.URL.Query().Get("status"))
	project := r.URL.Query().Get("projectCode")

	report, err := h.Service.Report(r.Context(), year, month, status, project)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", requestID)
		return nil, false
	}
	return report, true
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.reportFromQuery(w, r)
	if !ok {
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReportExport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.reportFromQuery(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="report-%04d-%02d.xlsx"`, report.Year, report.Month))
	if err := recon.WriteReportXLSX(w, report); err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export report", requestID)
	}
}

func (h *Handler) handleDaily(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	year, month, err := shared.YearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		api.Fail(w, http.StatusBadRequest, "missing_email", "email query parameter is required", requestID)
		return
	}

	detail, err := h.Service.Daily(r.Context(), email, year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "daily_failed", "failed to load daily detail", requestID)
		return
	}
	api.Success(w, detail, requestID)
}

func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	year, month, err := shared.YearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
		return
	}
	projects, err := h.Service.Projects(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "projects_failed", "failed to list projects", requestID)
		return
	}
	if projects == nil {
		projects = []string{}
	}
	api.Success(w, projects, requestID)
}

func (h *Handler) handleMonths(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	months, err := h.Service.Months(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "months_failed", "failed to list months", requestID)
		return
	}
	if months == nil {
		months = []string{}
	}
	api.Success(w, months, requestID)
}

type remindersRequest struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	TargetIDs []string `json:"targetIds"`
	Status    string   `json:"status"`
}

func (h *Handler) handleReminders(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload remindersRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.Year < 2000 || payload.Month < 1 || payload.Month > 12 {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "year and month are required", requestID)
		return
	}

	targets, err := h.Service.TriggerReminders(r.Context(), payload.Year, payload.Month, payload.TargetIDs, recon.Status(payload.Status))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminders_failed", "failed to trigger reminders", requestID)
		return
	}
	if targets == nil {
		targets = []recon.ReminderTarget{}
	}
	h.audit(r, "timesheets.reminders", "month",
		fmt.Sprintf("%04d-%02d", payload.Year, payload.Month),
		map[string]any{"updated": len(targets), "targetIds": payload.TargetIDs, "status": payload.Status})
	api.Success(w, map[string]any{"updated": len(targets), "targets": targets}, requestID)
}
