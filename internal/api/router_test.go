package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/api/handler"
	"github.com/sould/property-match/internal/core/service"
)

const testSecret = "router-secret"

func newTestRouter(health map[string]handler.Pinger) http.Handler {
	return NewRouter(Deps{
		JWTSecret: testSecret,
		Health:    health,
		Logger:    zerolog.Nop(),
		Registry:  prometheus.NewRegistry(),
	})
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   "u1",
		"role": role,
		"typ":  service.TokenTypeAccess,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(map[string]handler.Pinger{
		"mongo": func(context.Context) error { return nil },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"mongo":{"status":"ok"}`) {
		t.Fatalf("readiness: got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ReadinessDegraded(t *testing.T) {
	r := newTestRouter(map[string]handler.Pinger{
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "degraded") {
		t.Fatalf("expected degraded 503, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_PrivateRoutesRequireToken(t *testing.T) {
	r := newTestRouter(nil)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/v1/profile"},
		{http.MethodGet, "/v1/filters"},
		{http.MethodGet, "/v1/properties/search"},
		{http.MethodGet, "/v1/properties/selections/c1"},
		{http.MethodPost, "/v1/invitations"},
		{http.MethodPut, "/v1/invitations/i1/accept"},
		{http.MethodDelete, "/v1/comments/c1"},
		{http.MethodPost, "/v1/auth/reset-password"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"success":false`) {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestRouter_AdminRoutesRequireSuperAdmin(t *testing.T) {
	r := newTestRouter(nil)
	for _, role := range []string{"user", "admin"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		req.Header.Set("Authorization", bearer(t, role))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("role %q: expected 403, got %d", role, rec.Code)
		}
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(nil)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "propertymatch_requests_total") {
		t.Fatalf("expected HTTP request counter in output")
	}
}
