// Package htmldoc is a native page host: a parsed HTML document that can
// dispatch simulated clicks to the tracker.
package htmldoc

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"clicktrack/internal/classify"

	"golang.org/x/net/html"
)

// Document implements tracker.Host over an x/net/html tree.
type Document struct {
	root *html.Node

	mu        sync.Mutex
	location  *url.URL
	claimed   bool
	listeners []func(classify.Element)
}

// Parse reads an HTML page that is served at location.
func Parse(r io.Reader, location *url.URL) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if location == nil {
		location = &url.URL{Path: "/"}
	}
	return &Document{root: root, location: location}, nil
}

// Claim is the page-wide load guard.
func (d *Document) Claim() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.claimed {
		return false
	}
	d.claimed = true
	return true
}

func (d *Document) OnClick(fn func(classify.Element)) {
	d.mu.Lock()
	d.listeners = append(d.listeners, fn)
	d.mu.Unlock()
}

// Listeners is the number of registered click listeners.
func (d *Document) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// Location returns a copy of the page URL.
func (d *Document) Location() *url.URL {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := *d.location
	return &u
}

// Navigate changes the page URL in place, like history.pushState.
func (d *Document) Navigate(u *url.URL) {
	d.mu.Lock()
	d.location = u
	d.mu.Unlock()
}

// Click dispatches a click on target to every listener in registration order.
func (d *Document) Click(target *Element) {
	d.mu.Lock()
	ls := make([]func(classify.Element), len(d.listeners))
	copy(ls, d.listeners)
	d.mu.Unlock()

	for _, fn := range ls {
		if target == nil {
			fn(nil)
			continue
		}
		fn(target)
	}
}

// Find returns every element accepted by match, in document order.
func (d *Document) Find(match func(*Element) bool) []*Element {
	var out []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if e := (&Element{n: n}); match(e) {
				out = append(out, e)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return out
}

// FindAttr returns the first element whose attribute name equals value.
func (d *Document) FindAttr(name, value string) *Element {
	found := d.Find(func(e *Element) bool {
		v, ok := e.Attr(name)
		return ok && v == value
	})
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// ByID returns the element with the given id attribute.
func (d *Document) ByID(id string) *Element {
	return d.FindAttr("id", id)
}

// Lookup resolves a CLI click reference: an id, then a CTA id, then a nav item.
func (d *Document) Lookup(ref string) *Element {
	for _, attr := range []string{"id", classify.AttrCTAID, classify.AttrNavItem} {
		if e := d.FindAttr(attr, ref); e != nil {
			return e
		}
	}
	return nil
}

// Element wraps an element node.
type Element struct {
	n *html.Node
}

func (e *Element) TagName() string {
	return e.n.Data
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// Parent returns the enclosing element, or nil at <html>.
func (e *Element) Parent() classify.Element {
	for p := e.n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return &Element{n: p}
		}
		if p.Type == html.DocumentNode {
			break
		}
	}
	return nil
}

// Text is the concatenated, whitespace-collapsed text content.
func (e *Element) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
