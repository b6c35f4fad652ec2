package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"limo-booking/pkg/utils"

	"go.uber.org/zap"
)

func authHandler(t *testing.T) (http.Handler, *string) {
	t.Helper()

	var seenEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, _ := utils.GetAdminFromContext(r.Context())
		seenEmail = email
		w.WriteHeader(http.StatusOK)
	})

	jwtConfig := utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1}
	return AdminAuth(jwtConfig, zap.NewNop())(next), &seenEmail
}

func TestAdminAuthMissingToken(t *testing.T) {
	handler, _ := authHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestAdminAuthInvalidToken(t *testing.T) {
	handler, _ := authHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestAdminAuthWrongSecret(t *testing.T) {
	handler, _ := authHandler(t)

	token, _, err := utils.GenerateToken("boss@limo.test", "admin", "other-secret", 1)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestAdminAuthNonAdminRole(t *testing.T) {
	handler, _ := authHandler(t)

	token, _, err := utils.GenerateToken("driver@limo.test", "driver", "test-secret", 1)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
}

func TestAdminAuthBearerToken(t *testing.T) {
	handler, seenEmail := authHandler(t)

	token, _, err := utils.GenerateToken("boss@limo.test", "admin", "test-secret", 1)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if *seenEmail != "boss@limo.test" {
		t.Fatalf("admin identity not on context: %q", *seenEmail)
	}
}

func TestAdminAuthCookieFallback(t *testing.T) {
	handler, seenEmail := authHandler(t)

	token, _, err := utils.GenerateToken("boss@limo.test", "admin", "test-secret", 1)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if *seenEmail != "boss@limo.test" {
		t.Fatalf("admin identity not on context: %q", *seenEmail)
	}
}
