package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/anavarro/tillpoint-backend/pkg/auth"
	"github.com/anavarro/tillpoint-backend/pkg/config"
	"github.com/anavarro/tillpoint-backend/pkg/enums"
)

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "tillpoint",
		ExpirationMinutes: 30,
	}
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	mw := Auth(authTestConfig(), nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatal("handler should not run without credentials")
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	mw := Auth(authTestConfig(), nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsOperatorContext(t *testing.T) {
	cfg := authTestConfig()
	operatorID := uuid.New()

	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		OperatorID: operatorID,
		Register:   "till-01",
		Role:       enums.OperatorRoleCashier,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	mw := Auth(cfg, nil)
	var gotOperator, gotRole, gotRegister string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOperator = OperatorIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotRegister = RegisterFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotOperator != operatorID.String() {
		t.Fatalf("expected operator %s got %s", operatorID, gotOperator)
	}
	if gotRole != string(enums.OperatorRoleCashier) {
		t.Fatalf("unexpected role %s", gotRole)
	}
	if gotRegister != "till-01" {
		t.Fatalf("unexpected register %s", gotRegister)
	}
}
