package classify

import "strings"

// Marker attributes read from host-page markup.
const (
	AttrEvent   = "data-simple-event"
	AttrCTAID   = "data-cta-id"
	AttrHost    = "data-host"
	AttrFile    = "data-file"
	AttrType    = "data-type"
	AttrNavItem = "data-simple-nav-item"
	AttrHref    = "href"
)

// Element is the read-only view of a DOM element the classifier needs.
// Parent returns nil at the root.
type Element interface {
	TagName() string
	Attr(name string) (string, bool)
	Parent() Element
}

// attr returns a non-empty attribute value. Empty attributes count as unset.
func attr(el Element, name string) (string, bool) {
	v, ok := el.Attr(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func isAnchor(el Element) bool {
	return strings.EqualFold(el.TagName(), "a")
}

// instrumented mirrors the selector
//
//	[data-simple-event], [data-simple-nav-item], a[href]
//
// where attribute presence alone is enough.
func instrumented(el Element) bool {
	if _, ok := el.Attr(AttrEvent); ok {
		return true
	}
	if _, ok := el.Attr(AttrNavItem); ok {
		return true
	}
	if isAnchor(el) {
		_, ok := el.Attr(AttrHref)
		return ok
	}
	return false
}

// Closest returns el or its nearest ancestor that carries a marker or is a link.
func Closest(el Element) Element {
	for ; el != nil; el = el.Parent() {
		if instrumented(el) {
			return el
		}
	}
	return nil
}
