package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mustToken(t *testing.T, secret []byte, orgID, role string) string {
	t.Helper()
	claims := Claims{
		OrganizationID: orgID,
		Role:           role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dispatcher-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func wrapOK(mw *Middleware) http.Handler {
	return mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestMiddleware_NoToken(t *testing.T) {
	mw := NewMiddleware([]byte("test-secret"), NewDefaultPolicy())
	req := httptest.NewRequest(http.MethodGet, "/ops/status", nil)
	resp := httptest.NewRecorder()
	wrapOK(mw).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestMiddleware_MetricsExempt(t *testing.T) {
	mw := NewMiddleware([]byte("test-secret"), NewDefaultPolicy())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	wrapOK(mw).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestMiddleware_ViewerForbiddenOpsPost(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "org-1", "viewer")
	mw := NewMiddleware(secret, NewDefaultPolicy())

	req := httptest.NewRequest(http.MethodPost, "/ops/outages/node-1/flag", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	wrapOK(mw).ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestMiddleware_OperatorAllowedOpsPost(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "org-1", "operator")
	mw := NewMiddleware(secret, NewDefaultPolicy())

	req := httptest.NewRequest(http.MethodPost, "/ops/outages/node-1/flag", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	wrapOK(mw).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestMiddleware_ReportsNeedAdmin(t *testing.T) {
	secret := []byte("test-secret")
	mw := NewMiddleware(secret, NewDefaultPolicy())

	for role, want := range map[string]int{
		"operator": http.StatusForbidden,
		"admin":    http.StatusOK,
	} {
		token := mustToken(t, secret, "org-1", role)
		req := httptest.NewRequest(http.MethodGet, "/reports/export", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		wrapOK(mw).ServeHTTP(resp, req)
		if resp.Code != want {
			t.Fatalf("role %s: expected %d, got %d", role, want, resp.Code)
		}
	}
}

func TestMiddleware_IdentityInContext(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "org-556677889", "viewer")
	mw := NewMiddleware(secret, NewDefaultPolicy())

	var gotOrg string
	var gotRole Role
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrg = OrganizationFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/ops/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotOrg != "org-556677889" || gotRole != RoleViewer {
		t.Fatalf("identity = %q %q", gotOrg, gotRole)
	}
}

func TestParseJWT_RejectsUnknownRole(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "org-1", "superuser")
	if _, err := ParseJWT(token, secret); err == nil {
		t.Fatalf("unknown role accepted")
	}
}
