package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesmith/internal/config"
	"pagesmith/internal/handler"
	"pagesmith/internal/repository/jsonfile"
	"pagesmith/internal/security"
	"pagesmith/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"),
		[]byte("<html>home</html>"), 0o644))

	cfg := &config.Config{
		Port:           "0",
		StaticDir:      staticDir,
		EditsFile:      filepath.Join(t.TempDir(), "edits.json"),
		EditorUsername: "Robbie",
		EditorPassword: "pw",
		SessionSecret:  "test-secret",
		AllowedOrigins: "*",
		Environment:    "staging",
	}

	repo := jsonfile.NewStore(cfg.EditsFile)
	codec := security.NewTokenCodec(cfg.SessionSecret)
	svc := service.NewEditorService(service.Credentials{
		Username: cfg.EditorUsername,
		Password: cfg.EditorPassword,
	}, codec, repo, cfg.StaticDir)

	srv := New(cfg, handler.NewEditorHandler(svc, false), repo, codec)
	t.Cleanup(func() { srv.loginLimiter.Stop() })

	return srv.Handler()
}

func TestServer_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"readiness", http.MethodGet, "/health/ready", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"public edits read", http.MethodGet, "/api/editor/edits?page=/", http.StatusOK},
		{"session check", http.MethodGet, "/api/editor/session", http.StatusOK},
		{"save without session", http.MethodPost, "/api/editor/edits", http.StatusUnauthorized},
		{"static root", http.MethodGet, "/", http.StatusOK},
		{"static missing", http.MethodGet, "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestServer_LoginRateLimited(t *testing.T) {
	router := newTestRouter(t)

	var lastCode int
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/editor/login",
			strings.NewReader(`{"username":"Robbie","password":"wrong"}`))
		req.RemoteAddr = "10.1.1.1:9999"
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		lastCode = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode,
		"sustained login attempts from one IP should hit the limiter")
}

func TestServer_StaticServesPages(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), "home")
}
