package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"timerecon/internal/domain/audit"
	"timerecon/internal/domain/leave"
	"timerecon/internal/transport/http/api"
	"timerecon/internal/transport/http/middleware"
	"timerecon/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Audit   *audit.Service
}

func NewHandler(service *leave.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleSubmit)
		r.Post("/{requestID}/approve", h.handleApprove)
		r.Post("/{requestID}/reject", h.handleReject)
	})
}

type submitRequest struct {
	CitiEmail string `json:"citiEmail"`
	WorkerID  string `json:"workerId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	LeaveType string `json:"leaveType"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("citiEmail", payload.CitiEmail, "citi email is required")
	v.Enum("leaveType", payload.LeaveType, []string{"Annual", "Sick", "Casual", "Unpaid"},
		"must be one of Annual, Sick, Casual or Unpaid")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.Submit(r.Context(), leave.Request{
		CitiEmail: payload.CitiEmail,
		WorkerID:  payload.WorkerID,
		StartDate: start,
		EndDate:   end,
		LeaveType: payload.LeaveType,
		Reason:    payload.Reason,
	})
	if err != nil {
		if errors.Is(err, leave.ErrInvalidRange) {
			api.Fail(w, http.StatusBadRequest, "invalid_range", "end date must not precede start date", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_create_failed", "failed to create leave request", requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		year = time.Now().UTC().Year()
	}
	requests, err := h.Service.ListByYear(r.Context(), year, r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, leave.ErrInvalidStatus) {
			api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be Pending, Approved or Rejected", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", requestID)
		return
	}
	if requests == nil {
		requests = []leave.Request{}
	}
	api.Success(w, requests, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, leave.StatusApproved)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, leave.StatusRejected)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, status string) {
	requestID := middleware.GetRequestID(r.Context())

	updated, err := h.Service.SetStatus(r.Context(), chi.URLParam(r, "requestID"), status)
	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_update_failed", "failed to update leave request", requestID)
		return
	}
	if h.Audit != nil {
		actor := ""
		if user, ok := middleware.GetUser(r.Context()); ok {
			actor = user.Email
		}
		err := h.Audit.Record(r.Context(), actor, "leave."+strings.ToLower(status), "leave_request",
			updated.ID, requestID, shared.ClientIP(r), updated)
		if err != nil {
			slog.Warn("audit leave transition failed", "err", err)
		}
	}
	api.Success(w, updated, requestID)
}
