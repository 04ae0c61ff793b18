package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pagesmith/internal/domain"
	"pagesmith/internal/middleware"
	"pagesmith/internal/observability"
	"pagesmith/internal/security"
	"pagesmith/internal/service"
)

// maxBodyBytes bounds editor API request bodies.
const maxBodyBytes = 1 << 20

// EditorHandler handles the editor session and edit persistence endpoints.
type EditorHandler struct {
	editorService *service.EditorService
	secureCookies bool
}

// NewEditorHandler creates a new editor handler. secureCookies should be set
// in production-like environments so the session cookie is HTTPS-only.
func NewEditorHandler(editorService *service.EditorService, secureCookies bool) *EditorHandler {
	return &EditorHandler{
		editorService: editorService,
		secureCookies: secureCookies,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SaveEditsRequest represents an edit save request
type SaveEditsRequest struct {
	Page    string         `json:"page"`
	Content map[string]any `json:"content"`
	Style   map[string]any `json:"style"`
}

// Login handles editor login and sets the session cookie
func (h *EditorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	token, err := h.editorService.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			http.Error(w, `{"error":"Invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		http.Error(w, `{"error":"Login failed"}`, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(security.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, map[string]bool{"ok": true})
}

// Logout clears the session cookie. It is idempotent: logging out without a
// session is still a success.
func (h *EditorHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, map[string]bool{"ok": true})
}

// Session reports whether the request carries a valid session cookie. It
// never errors; an absent or invalid cookie is just "not authenticated".
func (h *EditorHandler) Session(w http.ResponseWriter, r *http.Request) {
	authenticated := false
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		_, authenticated = h.editorService.SessionFromToken(cookie.Value)
	}

	writeJSON(w, map[string]bool{"authenticated": authenticated})
}

// GetEdits returns the persisted EditSet for a page. Public: visitors need
// it to render edited content.
func (h *EditorHandler) GetEdits(w http.ResponseWriter, r *http.Request) {
	page, edits, err := h.editorService.EditsForPage(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		http.Error(w, `{"error":"Failed to load edits"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"page":    page,
		"content": edits.Content,
		"style":   edits.Style,
	})
}

// SaveEdits merges the submitted edits into the page's stored EditSet.
// Requires a valid session (enforced by the Auth middleware).
func (h *EditorHandler) SaveEdits(w http.ResponseWriter, r *http.Request) {
	var req SaveEditsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if err := h.editorService.SaveEdits(r.Context(), req.Page, req.Content, req.Style); err != nil {
		observability.FromContext(r.Context()).Error("failed to save edits",
			"page", req.Page, "error", err.Error())
		http.Error(w, `{"error":"Failed to save edits"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
