package authhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"timerecon/internal/auth"
	"timerecon/internal/transport/http/api"
	"timerecon/internal/transport/http/middleware"
)

// Handler authenticates the configured admin account and issues JWTs.
type Handler struct {
	AdminEmail   string
	PasswordHash string
	Secret       string
	TokenTTL     time.Duration
}

func NewHandler(adminEmail, passwordHash, secret string, ttl time.Duration) *Handler {
	return &Handler{AdminEmail: adminEmail, PasswordHash: passwordHash, Secret: secret, TokenTTL: ttl}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password are required", requestID)
		return
	}

	if email != strings.ToLower(h.AdminEmail) || auth.CheckPassword(h.PasswordHash, payload.Password) != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{Email: email, Role: auth.RoleAdmin}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", requestID)
		return
	}

	api.Success(w, map[string]any{
		"token":     token,
		"expiresIn": int(h.TokenTTL.Seconds()),
	}, requestID)
}
