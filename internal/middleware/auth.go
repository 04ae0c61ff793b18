package middleware

import (
	"context"
	"net/http"

	"pagesmith/internal/observability"
	"pagesmith/internal/security"
)

// SessionCookie is the name of the editor session cookie.
const SessionCookie = "ps_editor_session"

type contextKey string

const editorKey contextKey = "editor"

// Auth verifies the session cookie against the token codec and injects the
// editor's username into the request context. There is no server-side
// session lookup; the signed token is the whole session.
func Auth(codec *security.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				http.Error(w, `{"error":"Not authenticated"}`, http.StatusUnauthorized)
				return
			}

			payload, ok := codec.Verify(cookie.Value)
			if !ok {
				http.Error(w, `{"error":"Not authenticated"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), editorKey, payload.Username)
			ctx = observability.WithEditor(ctx, payload.Username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetEditor returns the authenticated editor's username from the context.
func GetEditor(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(editorKey).(string)
	return username, ok
}
