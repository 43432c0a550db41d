package authhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"timerecon/internal/auth"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return NewHandler("admin@example.com", hash, "test-secret", time.Hour)
}

func postLogin(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	h.HandleLogin(rr, req)
	return rr
}

func TestHandleLogin(t *testing.T) {
	h := newTestHandler(t)

	rr := postLogin(t, h, `{"email":"Admin@Example.com","password":"correct-horse"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success || envelope.Data.Token == "" {
		t.Fatalf("bad envelope: %s", rr.Body.String())
	}

	claims, err := auth.ParseToken("test-secret", envelope.Data.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Email != "admin@example.com" || claims.Role != auth.RoleAdmin {
		t.Fatalf("bad claims %+v", claims)
	}
}

func TestHandleLoginRejections(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"email":"admin@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"email":"other@example.com","password":"correct-horse"}`, http.StatusUnauthorized},
		{"missing fields", `{"email":"admin@example.com"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if rr := postLogin(t, h, tc.body); rr.Code != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, rr.Code, tc.want)
		}
	}
}
