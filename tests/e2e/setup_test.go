//go:build e2e
// +build e2e

// Package e2e exercises the full HTTP surface: login, session handling,
// edit persistence and static serving, through the assembled router.
package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"pagesmith/internal/config"
	"pagesmith/internal/handler"
	"pagesmith/internal/repository/jsonfile"
	"pagesmith/internal/security"
	"pagesmith/internal/server"
	"pagesmith/internal/service"
)

const (
	testUsername = "Robbie"
	testPassword = "e2e-password"
)

// newTestServer builds the real router on temp-dir storage and a small
// static tree, served via httptest.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	staticDir := t.TempDir()
	writeStatic(t, staticDir, "index.html",
		`<html><body><main><h1 id="title">Home</h1></main></body></html>`)
	writeStatic(t, staticDir, "about/index.html",
		`<html><body><main><h1 id="aboutTitle">About</h1></main></body></html>`)

	cfg := &config.Config{
		Port:           "0",
		StaticDir:      staticDir,
		EditsFile:      filepath.Join(t.TempDir(), "edits.json"),
		EditorUsername: testUsername,
		EditorPassword: testPassword,
		SessionSecret:  "e2e-secret",
		AllowedOrigins: "*",
		Environment:    "staging",
	}

	repo := jsonfile.NewStore(cfg.EditsFile)
	codec := security.NewTokenCodec(cfg.SessionSecret)
	svc := service.NewEditorService(service.Credentials{
		Username: cfg.EditorUsername,
		Password: cfg.EditorPassword,
	}, codec, repo, cfg.StaticDir)

	srv := server.New(cfg, handler.NewEditorHandler(svc, false), repo, codec)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func writeStatic(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestClient wraps an http.Client with a cookie jar and JSON helpers.
type TestClient struct {
	t       *testing.T
	base    string
	client  *http.Client
	cookies []*http.Cookie
}

func NewTestClient(t *testing.T, ts *httptest.Server) *TestClient {
	return &TestClient{t: t, base: ts.URL, client: ts.Client()}
}

func (c *TestClient) do(method, path string, body any) *http.Response {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		c.t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}

	if cookies := resp.Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}

	return resp
}

func (c *TestClient) Get(path string) *http.Response {
	return c.do(http.MethodGet, path, nil)
}

func (c *TestClient) Post(path string, body any) *http.Response {
	return c.do(http.MethodPost, path, body)
}

func (c *TestClient) Login(username, password string) *http.Response {
	return c.Post("/api/editor/login", map[string]string{
		"username": username,
		"password": password,
	})
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
