package chathandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timerecon/internal/domain/chatquery"
	"timerecon/internal/transport/http/api"
	"timerecon/internal/transport/http/middleware"
)

type Handler struct {
	Service *chatquery.Service
}

func NewHandler(service *chatquery.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/query", h.handleQuery)
}

type queryRequest struct {
	Query string `json:"query"`
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload queryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	result, err := h.Service.Run(r.Context(), payload.Query)
	if err != nil {
		switch {
		case errors.Is(err, chatquery.ErrNotSelect),
			errors.Is(err, chatquery.ErrMultiStatement),
			errors.Is(err, chatquery.ErrForbiddenWord),
			errors.Is(err, chatquery.ErrTableNotAllowed):
			api.Fail(w, http.StatusBadRequest, "query_rejected", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to run query", requestID)
		}
		return
	}
	api.Success(w, result, requestID)
}
