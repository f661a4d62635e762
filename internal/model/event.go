// internal/model/event.go
package model

// Kind
// ------------------------------------------------------------
// Closed set of analytic event names a click can map to.
// A click produces exactly one Kind or nothing.
type Kind string

const (
	KindCTA          Kind = "click_cta"
	KindOutbound     Kind = "click_outbound"
	KindDownload     Kind = "download_asset"
	KindContactEmail Kind = "click_contact_email"
	KindNav          Kind = "click_nav"
)

// Kinds lists every Kind.
var Kinds = []Kind{KindCTA, KindOutbound, KindDownload, KindContactEmail, KindNav}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

// Payload
// ------------------------------------------------------------
// Flat string map attached to an event. A key that is absent is
// "undefined": it is neither stored nor serialized. Values are always
// plain strings so the payload is safe to encode as-is.
type Payload map[string]string

// Set stores v under key only when ok is true, so the (value, ok)
// results of the extraction helpers can be passed straight through.
func (p Payload) Set(key, v string, ok bool) Payload {
	if ok {
		p[key] = v
	}
	return p
}

// Event
// ------------------------------------------------------------
// One emitted analytics event (name + payload + page url).
// Built once by the transport and never mutated afterwards.
// The JSON shape is the collection endpoint contract:
//
//	{"name":"click_cta","payload":{"cta_id":"hero"},"url":"/docs?x=1"}
type Event struct {
	Name    Kind    `json:"name"`
	Payload Payload `json:"payload"`
	URL     string  `json:"url"`
}

// NewEvent copies payload so later writes by the caller cannot reach the event.
// A nil payload becomes an empty object.
func NewEvent(name Kind, payload Payload, url string) Event {
	p := make(Payload, len(payload))
	for k, v := range payload {
		p[k] = v
	}
	return Event{Name: name, Payload: p, URL: url}
}
