// Package sanitize validates and bounds untrusted edit payloads before they
// reach the store. All functions are pure and total: they never fail, they
// only filter.
package sanitize

import (
	"strings"
	"unicode/utf8"
)

const (
	maxSelectorLen = 300
	maxContentLen  = 5000
	maxStyleLen    = 64
	maxPagePathLen = 200
)

// allowedStyleProperties is the fixed allow-list of editable style properties.
var allowedStyleProperties = map[string]bool{
	"color":           true,
	"backgroundColor": true,
	"borderColor":     true,
}

// Content filters a raw content payload down to selector → string entries
// within bounds. Values are kept verbatim; no HTML escaping happens here
// because the client inserts them as text content, never as markup.
func Content(raw map[string]any) map[string]string {
	clean := make(map[string]string)

	for selector, value := range raw {
		if utf8.RuneCountInString(selector) > maxSelectorLen {
			continue
		}

		text, ok := value.(string)
		// limits count characters, not bytes; multibyte copy near the
		// boundary must not be dropped
		if !ok || utf8.RuneCountInString(text) > maxContentLen {
			continue
		}

		clean[selector] = text
	}

	return clean
}

// Style filters a raw style payload down to selector → property → value
// entries. Properties outside the allow-list are dropped, as are selectors
// whose cleaned block ends up empty.
func Style(raw map[string]any) map[string]map[string]string {
	clean := make(map[string]map[string]string)

	for selector, block := range raw {
		if utf8.RuneCountInString(selector) > maxSelectorLen {
			continue
		}

		props, ok := block.(map[string]any)
		if !ok {
			continue
		}

		cleanBlock := make(map[string]string)
		for property, value := range props {
			if !allowedStyleProperties[property] {
				continue
			}

			text, ok := value.(string)
			if !ok || utf8.RuneCountInString(text) > maxStyleLen {
				continue
			}

			cleanBlock[property] = text
		}

		if len(cleanBlock) > 0 {
			clean[selector] = cleanBlock
		}
	}

	return clean
}

// PagePath normalizes an untrusted page path. Anything that is not an
// absolute path, is too long, or contains a parent-directory traversal token
// collapses to the root path.
func PagePath(raw any) string {
	path, ok := raw.(string)
	if !ok {
		return "/"
	}

	if !strings.HasPrefix(path, "/") {
		return "/"
	}

	if utf8.RuneCountInString(path) > maxPagePathLen || strings.Contains(path, "..") {
		return "/"
	}

	return path
}
