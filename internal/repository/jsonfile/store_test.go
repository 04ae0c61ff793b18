package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesmith/internal/domain"
)

func TestStore_LoadAll_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing", "edits.json"))

	edits, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, edits)
	assert.NotNil(t, edits)
}

func TestStore_LoadAll_CorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{not json"},
		{"json array", `["a","b"]`},
		{"json string", `"hello"`},
		{"empty file", ""},
		{"null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "edits.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			store := NewStore(path)
			edits, err := store.LoadAll(context.Background())
			require.NoError(t, err, "read path must fail open")
			assert.Empty(t, edits)
		})
	}
}

func TestStore_SaveAll_RoundTrip(t *testing.T) {
	// Parent directory does not exist yet; SaveAll must create it
	path := filepath.Join(t.TempDir(), "data", "edits.json")
	store := NewStore(path)
	ctx := context.Background()

	in := domain.PageEdits{
		"/about/": {
			Content: map[string]string{"#title": "Hello"},
			Style:   map[string]map[string]string{"#title": {"color": "red"}},
		},
	}

	require.NoError(t, store.SaveAll(ctx, in))

	out, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStore_SaveAll_PrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.json")
	store := NewStore(path)

	edits := domain.PageEdits{
		"/": {Content: map[string]string{"#a": "x"}, Style: map[string]map[string]string{}},
	}
	require.NoError(t, store.SaveAll(context.Background(), edits))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "\n  "), "store file should be indented: %s", raw)
}

func TestStore_SaveAll_OverwritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.json")
	store := NewStore(path)
	ctx := context.Background()

	first := domain.PageEdits{
		"/": {Content: map[string]string{"#a": "x"}, Style: map[string]map[string]string{}},
	}
	require.NoError(t, store.SaveAll(ctx, first))

	second := domain.PageEdits{
		"/about/": {Content: map[string]string{"#b": "y"}, Style: map[string]map[string]string{}},
	}
	require.NoError(t, store.SaveAll(ctx, second))

	out, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, out, "save replaces the mapping wholesale, it does not merge")
}

func TestStore_LoadAll_NormalizesNilMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"/": {}}`), 0o644))

	store := NewStore(path)
	edits, err := store.LoadAll(context.Background())
	require.NoError(t, err)

	set, ok := edits["/"]
	require.True(t, ok)
	assert.NotNil(t, set.Content)
	assert.NotNil(t, set.Style)
}

func TestStore_SaveAll_NoLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "edits.json"))

	require.NoError(t, store.SaveAll(context.Background(), domain.PageEdits{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "edits.json", entries[0].Name())
}
