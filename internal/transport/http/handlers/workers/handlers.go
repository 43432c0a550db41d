package workerhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"timerecon/internal/domain/audit"
	"timerecon/internal/domain/worker"
	"timerecon/internal/transport/http/api"
	"timerecon/internal/transport/http/middleware"
	"timerecon/internal/transport/http/shared"
)

type Handler struct {
	Service *worker.Service
	Audit   *audit.Service
}

func NewHandler(service *worker.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) audit(r *http.Request, action, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.Email
	}
	err := h.Audit.Record(r.Context(), actor, action, "worker", entityID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), details)
	if err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/workers", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{workerID}", h.handleGet)
		r.Put("/{workerID}", h.handleUpdate)
		r.Post("/{workerID}/onboard", h.handleOnboard)
		r.Post("/{workerID}/deboard", h.handleDeboard)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	profiles, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "workers_list_failed", "failed to list workers", requestID)
		return
	}
	if profiles == nil {
		profiles = []worker.Profile{}
	}
	api.Success(w, profiles, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	profile, err := h.Service.Get(r.Context(), chi.URLParam(r, "workerID"))
	if err != nil {
		if errors.Is(err, worker.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "worker not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "worker_get_failed", "failed to load worker", requestID)
		return
	}
	api.Success(w, profile, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload worker.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("citiEmail", payload.CitiEmail, "citi email is required")
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "worker_create_failed", "failed to create worker", requestID)
		return
	}
	h.audit(r, "workers.create", created.ID, created)
	api.Created(w, created, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload worker.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	payload.ID = chi.URLParam(r, "workerID")

	updated, err := h.Service.Update(r.Context(), payload)
	if err != nil {
		if errors.Is(err, worker.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "worker not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "worker_update_failed", "failed to update worker", requestID)
		return
	}
	h.audit(r, "workers.update", updated.ID, updated)
	api.Success(w, updated, requestID)
}

func (h *Handler) handleOnboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	profile, err := h.Service.Onboard(r.Context(), chi.URLParam(r, "workerID"))
	if err != nil {
		if errors.Is(err, worker.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "worker not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "worker_onboard_failed", "failed to onboard worker", requestID)
		return
	}
	h.audit(r, "workers.onboard", profile.ID, profile)
	api.Success(w, profile, requestID)
}

type deboardRequest struct {
	EndDate string `json:"endDate"`
}

func (h *Handler) handleDeboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload deboardRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	var end time.Time
	if payload.EndDate != "" {
		parsed, err := shared.ParseDate(payload.EndDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "endDate must be YYYY-MM-DD", requestID)
			return
		}
		end = parsed
	}

	profile, err := h.Service.Deboard(r.Context(), chi.URLParam(r, "workerID"), end)
	if err != nil {
		if errors.Is(err, worker.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "worker not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "worker_deboard_failed", "failed to deboard worker", requestID)
		return
	}
	h.audit(r, "workers.deboard", profile.ID, profile)
	api.Success(w, profile, requestID)
}
