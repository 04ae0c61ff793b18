package service

import (
	"context"
	"crypto/subtle"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pagesmith/internal/domain"
	"pagesmith/internal/observability"
	"pagesmith/internal/sanitize"
	"pagesmith/internal/security"
	"pagesmith/internal/selector"
)

// Credentials holds the single configured editor account. When PasswordHash
// is set it is a bcrypt hash and takes precedence over the plaintext
// Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// EditorService orchestrates editor login, session verification and the
// read/merge/write cycle against the edit store.
type EditorService struct {
	creds     Credentials
	codec     *security.TokenCodec
	repo      domain.EditRepository
	staticDir string

	// serializes the read-merge-write cycle in SaveEdits; concurrent saves
	// from multiple editors are out of scope but two requests from the same
	// editor must not interleave their merges
	mu sync.Mutex
}

// NewEditorService creates the editor service. staticDir may be empty to
// disable stale-selector detection.
func NewEditorService(creds Credentials, codec *security.TokenCodec, repo domain.EditRepository, staticDir string) *EditorService {
	return &EditorService{
		creds:     creds,
		codec:     codec,
		repo:      repo,
		staticDir: staticDir,
	}
}

// Login checks the provided credentials and issues a session token. Both
// username and password are compared in constant time; a bcrypt hash is used
// for the password when one is configured. Failures carry no detail beyond
// domain.ErrInvalidCredentials.
func (s *EditorService) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1

	var passOK bool
	if s.creds.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	}

	if !userOK || !passOK {
		observability.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(s.creds.Username)
	if err != nil {
		observability.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", err
	}

	observability.LoginAttemptsTotal.WithLabelValues("success").Inc()
	observability.FromContext(ctx).Info("editor logged in", "username", s.creds.Username)
	return token, nil
}

// SessionFromToken verifies a session token and returns the editor's
// username. All invalid tokens yield ("", false).
func (s *EditorService) SessionFromToken(token string) (string, bool) {
	payload, ok := s.codec.Verify(token)
	if !ok {
		return "", false
	}
	return payload.Username, true
}

// EditsForPage returns the persisted EditSet for a normalized page path.
// Pages without edits get an empty set; the maps are always non-nil.
func (s *EditorService) EditsForPage(ctx context.Context, page string) (string, domain.EditSet, error) {
	page = sanitize.PagePath(page)

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return page, domain.NewEditSet(), err
	}

	return page, all[page].Normalize(), nil
}

// SaveEdits sanitizes the incoming payloads, merges them selector-by-selector
// into the page's existing EditSet (an incoming selector replaces the stored
// entry wholesale, untouched selectors are preserved) and persists the full
// store.
func (s *EditorService) SaveEdits(ctx context.Context, page string, content, style map[string]any) error {
	page = sanitize.PagePath(page)
	cleanContent := sanitize.Content(content)
	cleanStyle := sanitize.Style(style)

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}

	merged := all[page].Normalize()

	for sel, text := range cleanContent {
		merged.Content[sel] = text
	}

	// last write wins per selector: an incoming style block replaces the
	// stored block for that selector rather than merging into it
	for sel, block := range cleanStyle {
		merged.Style[sel] = block
	}

	all[page] = merged

	if err := s.repo.SaveAll(ctx, all); err != nil {
		return err
	}

	observability.EditSavesTotal.Inc()
	s.reportStaleSelectors(ctx, page, cleanContent, cleanStyle)
	return nil
}

// reportStaleSelectors checks each saved selector against the page's static
// HTML and logs the ones that no longer match. Selector addresses are
// structure-dependent, so edits recorded before a template change can go
// stale silently; this surfaces them without failing the save.
func (s *EditorService) reportStaleSelectors(ctx context.Context, page string, content map[string]string, style map[string]map[string]string) {
	if s.staticDir == "" {
		return
	}

	f, err := os.Open(s.pageFile(page))
	if err != nil {
		return
	}
	defer f.Close()

	doc, err := selector.Parse(f)
	if err != nil {
		return
	}

	selectors := make(map[string]struct{}, len(content)+len(style))
	for sel := range content {
		selectors[sel] = struct{}{}
	}
	for sel := range style {
		selectors[sel] = struct{}{}
	}

	saveID := uuid.New().String()
	log := observability.FromContext(ctx)

	for sel := range selectors {
		if doc.Match(sel) == nil {
			observability.StaleSelectorsTotal.Inc()
			log.Warn("saved selector no longer matches page structure",
				"save_id", saveID,
				"page", page,
				"selector", sel)
		}
	}
}

// pageFile maps a normalized page path to the static file that serves it.
func (s *EditorService) pageFile(page string) string {
	clean := filepath.Join(s.staticDir, filepath.FromSlash(strings.TrimPrefix(page, "/")))

	info, err := os.Stat(clean)
	if err == nil && info.IsDir() {
		return filepath.Join(clean, "index.html")
	}
	if strings.HasSuffix(page, "/") {
		return filepath.Join(clean, "index.html")
	}
	return clean
}
