package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartcity-ops/internal/session"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New()
	c, err := NewClient(srv.URL, sess)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, sess
}

func TestDoTokenlessRequestOmitsAuthorization(t *testing.T) {
	var auth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	})
	if err := c.Do(context.Background(), http.MethodGet, "/ping/", nil, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if auth != "" {
		t.Fatalf("Authorization = %q, want empty", auth)
	}
}

func TestDoToleratesEmptyBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	var out map[string]any
	if err := c.Do(context.Background(), http.MethodDelete, "/waste-bins/x/", nil, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out != nil {
		t.Fatalf("out = %v", out)
	}
}

func TestFailureParsesJSONBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"name":["required"]}`))
	})
	err := c.Do(context.Background(), http.MethodPost, "/organizations/", map[string]any{}, nil)
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("err = %v", err)
	}
	if te.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", te.Status)
	}
	body, ok := te.Body.(map[string]any)
	if !ok {
		t.Fatalf("body = %T %v", te.Body, te.Body)
	}
	if _, ok := body["name"]; !ok {
		t.Fatalf("body = %v", body)
	}
}

func TestFailureKeepsRawNonJSONBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>Server Error</html>", http.StatusBadGateway)
	})
	err := c.Do(context.Background(), http.MethodGet, "/waste-bins/", nil, nil)
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("err = %v", err)
	}
	if te.Raw == "" {
		t.Fatalf("raw body lost")
	}
	if !IsStatus(err, http.StatusBadGateway) {
		t.Fatalf("IsStatus failed for %v", err)
	}
}

func Test401ClearsTokenButKeepsCSRF(t *testing.T) {
	c, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Invalid token."}`, http.StatusUnauthorized)
	})
	sess.SetToken("stale")
	sess.SetCSRFToken("csrf-1")

	err := c.Do(context.Background(), http.MethodGet, "/waste-bins/", nil, nil)
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v", err)
	}
	if sess.Token() != "" {
		t.Fatalf("token survived")
	}
	if sess.CSRFToken() != "csrf-1" {
		t.Fatalf("csrf token dropped with the bearer")
	}
}
