// Package selector computes and resolves the structural element addresses
// used as keys in persisted edit sets.
//
// A selector is one of:
//   - the fixed root selector ("main")
//   - "#id" for elements carrying an id attribute
//   - a chain "main > tag:nth-of-type(k) > ..." addressing an element by its
//     position among same-tag siblings at every level below the root
//
// The scheme is deterministic for a fixed DOM shape and is used purely as an
// opaque key. It is structure-dependent: inserting an earlier sibling of the
// same tag shifts the nth-of-type indices below it and silently detaches any
// edits recorded against the old addresses. That is a known limitation of
// the addressing scheme, not something this package tries to repair.
package selector

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RootSelector addresses the page's root content container.
const RootSelector = "main"

// Page wraps a parsed HTML document together with its root content
// container, against which selectors are computed and resolved.
type Page struct {
	doc  *html.Node
	root *html.Node
}

// Parse reads an HTML document and locates its root container: the first
// <main> element, falling back to <body> for pages without one.
func Parse(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	root := findElement(doc, atom.Main)
	if root == nil {
		root = findElement(doc, atom.Body)
	}
	if root == nil {
		return nil, fmt.Errorf("document has no root container")
	}

	return &Page{doc: doc, root: root}, nil
}

// Root returns the page's root content container.
func (p *Page) Root() *html.Node {
	return p.root
}

// Resolve computes the selector for an element. It returns false for
// non-element nodes and for elements outside the root container that carry
// no id attribute.
func (p *Page) Resolve(n *html.Node) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}

	if n == p.root {
		return RootSelector, true
	}

	if id := attrValue(n, "id"); id != "" {
		return "#" + id, true
	}

	var segments []string
	for cur := n; cur != p.root; cur = cur.Parent {
		if cur == nil || cur.Type != html.ElementNode {
			return "", false
		}
		segments = append(segments, fmt.Sprintf("%s:nth-of-type(%d)", cur.Data, nthOfType(cur)))
	}

	// segments were collected element-first; flip to ancestor-first
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}

	return RootSelector + " > " + strings.Join(segments, " > "), true
}

// Match resolves a selector back to an element, or nil when nothing matches.
// It understands exactly the grammar Resolve emits.
func (p *Page) Match(sel string) *html.Node {
	if sel == RootSelector {
		return p.root
	}

	if id, ok := strings.CutPrefix(sel, "#"); ok {
		return findByID(p.doc, id)
	}

	rest, ok := strings.CutPrefix(sel, RootSelector+" > ")
	if !ok {
		return nil
	}

	cur := p.root
	for _, segment := range strings.Split(rest, " > ") {
		tag, k, ok := parseSegment(segment)
		if !ok {
			return nil
		}
		cur = childByTypeIndex(cur, tag, k)
		if cur == nil {
			return nil
		}
	}

	return cur
}

// nthOfType returns the 1-based index of n among preceding element siblings
// sharing its tag name, counting n itself.
func nthOfType(n *html.Node) int {
	k := 1
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode && sib.Data == n.Data {
			k++
		}
	}
	return k
}

// childByTypeIndex returns the k-th element child of parent with the given
// tag, 1-based.
func childByTypeIndex(parent *html.Node, tag string, k int) *html.Node {
	count := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != tag {
			continue
		}
		count++
		if count == k {
			return c
		}
	}
	return nil
}

// parseSegment splits "tag:nth-of-type(k)" into its parts.
func parseSegment(segment string) (string, int, bool) {
	tag, rest, found := strings.Cut(segment, ":nth-of-type(")
	if !found || tag == "" || !strings.HasSuffix(rest, ")") {
		return "", 0, false
	}

	k, err := strconv.Atoi(strings.TrimSuffix(rest, ")"))
	if err != nil || k < 1 {
		return "", 0, false
	}

	return tag, k, true
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attrValue(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
