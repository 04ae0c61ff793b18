package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
)

// EditSet holds the persisted overrides for one page: text content keyed by
// element selector, and style properties keyed by selector then property name.
type EditSet struct {
	Content map[string]string            `json:"content"`
	Style   map[string]map[string]string `json:"style"`
}

// NewEditSet returns an EditSet with initialized maps.
func NewEditSet() EditSet {
	return EditSet{
		Content: make(map[string]string),
		Style:   make(map[string]map[string]string),
	}
}

// Normalize replaces nil maps with empty ones so callers and JSON encoding
// never see null sub-objects.
func (e EditSet) Normalize() EditSet {
	if e.Content == nil {
		e.Content = make(map[string]string)
	}
	if e.Style == nil {
		e.Style = make(map[string]map[string]string)
	}
	return e
}

// PageEdits maps a normalized page path to its EditSet.
type PageEdits map[string]EditSet

// EditRepository defines the interface for edit persistence.
// SaveAll replaces the whole mapping; merging is the caller's job.
type EditRepository interface {
	LoadAll(ctx context.Context) (PageEdits, error)
	SaveAll(ctx context.Context, edits PageEdits) error
}
