package app_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-hq/taskflow/internal/app"
	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/observability"
	"github.com/taskflow-hq/taskflow/internal/platform/kv"
	"github.com/taskflow-hq/taskflow/internal/projects"
	"github.com/taskflow-hq/taskflow/internal/store"
	"github.com/taskflow-hq/taskflow/internal/tasks"
	"github.com/taskflow-hq/taskflow/internal/users"
)

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()
	seed := store.Seed{
		Users: []store.User{
			{Email: "admin@x.com", PasswordHash: "h", Role: store.RoleAdmin},
		},
		Projects: []store.Project{
			{ID: 1, Name: "Alpha", Owner: "admin@x.com"},
		},
	}
	st := store.New(context.Background(), kv.NewMemory(seed.Payload()), seed, nil)
	tm := auth.NewTokenManager("testsecret", time.Hour)

	router := app.NewRouter(app.RouterParams{
		Logger:          slog.Default(),
		Config:          &app.Config{AppEnv: "development", AppRequestTimeout: 30 * time.Second},
		TokenManager:    tm,
		AuthHandler:     auth.NewHandler(nil, auth.NewService(st), tm),
		ProjectsHandler: projects.NewHandler(nil, projects.NewService(st)),
		TasksHandler:    tasks.NewHandler(nil, tasks.NewService(st)),
		UsersHandler:    users.NewHandler(nil, users.NewService(st)),
		Metrics:         observability.NewMetrics(),
	})
	return router, tm
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, res.Code)
}

func TestSecurityHeadersApplied(t *testing.T) {
	router, _ := newTestRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))
}

func TestDataRoutesRequireSession(t *testing.T) {
	router, tm := newTestRouter(t)

	for _, path := range []string{"/api/projects", "/api/tasks", "/api/stats", "/api/admin/users"} {
		res := httptest.NewRecorder()
		router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, res.Code, path)
	}

	token, err := tm.Issue(auth.Session{Email: "admin@x.com", Role: store.RoleAdmin})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	assert.True(t, strings.Contains(res.Body.String(), `"Alpha"`), res.Body.String())
}
