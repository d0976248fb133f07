package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/store"
)

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := auth.BearerToken(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	req.Header.Set("Authorization", "Basic abc123")
	if got := auth.BearerToken(req); got != "" {
		t.Fatalf("expected empty token for non-bearer scheme, got %q", got)
	}

	req.Header.Set("Authorization", "Bearer the-token")
	if got := auth.BearerToken(req); got != "the-token" {
		t.Fatalf("expected token, got %q", got)
	}
}

func TestRequireSession(t *testing.T) {
	tm := auth.NewTokenManager("testsecret", time.Hour)
	var captured auth.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = auth.SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := auth.RequireSession(tm)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	protected.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	token, err := tm.Issue(auth.Session{Email: "mia@taskflow.dev", Role: store.RoleMember})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = httptest.NewRecorder()
	protected.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", res.Code)
	}
	if captured.Email != "mia@taskflow.dev" || captured.Role != store.RoleMember {
		t.Fatalf("unexpected session in context %+v", captured)
	}
}

func TestRequireRole(t *testing.T) {
	tm := auth.NewTokenManager("testsecret", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminOnly := auth.RequireRole(tm, store.RoleAdmin)(next)

	send := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		res := httptest.NewRecorder()
		adminOnly.ServeHTTP(res, req)
		return res
	}

	if res := send(""); res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	memberToken, err := tm.Issue(auth.Session{Email: "mia@taskflow.dev", Role: store.RoleMember})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if res := send(memberToken); res.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d", res.Code)
	}

	adminToken, err := tm.Issue(auth.Session{Email: "admin@taskflow.dev", Role: store.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if res := send(adminToken); res.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", res.Code)
	}
}
