package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"timerecon/internal/auth"
)

func TestAuthAndRequireAuth(t *testing.T) {
	secret := "test-secret"
	protected := Auth(secret)(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok || user.Email != "admin@example.com" {
			t.Fatalf("claims not propagated: %+v ok=%v", user, ok)
		}
		w.WriteHeader(http.StatusOK)
	})))

	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous request: got %d, want 401", rr.Code)
	}

	token, err := auth.GenerateToken(secret, auth.Claims{Email: "admin@example.com", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("authenticated request: got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: got %d, want 401", rr.Code)
	}
}
