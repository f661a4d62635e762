// Package panel renders debug-mode events into an on-page overlay.
//
// The overlay is a development aid only: nothing in classification or
// delivery depends on it.
package panel

import (
	"html/template"
	"io"
	"sync"

	"clicktrack/internal/model"

	json "github.com/goccy/go-json"
)

// Stable element ids used by test harnesses to locate the overlay.
const (
	RootID = "__analytics_debug"
	ListID = "__analytics_debug_list"
	Title  = "Analytics Debug (dev only)"
)

// Entry is one rendered event: the name and the pretty-printed payload.
type Entry struct {
	Name string
	Body string
}

// Format pretty-prints ev.Payload with two-space indentation.
func Format(ev model.Event) Entry {
	p := ev.Payload
	if p == nil {
		p = model.Payload{}
	}
	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		// Payload is map[string]string
		body = []byte("{}")
	}
	return Entry{Name: string(ev.Name), Body: string(body)}
}

// HTML is the native panel: it keeps entries in memory, newest first,
// and writes them out as a standalone overlay fragment.
type HTML struct {
	mu      sync.Mutex
	created bool
	entries []Entry
}

func NewHTML() *HTML {
	return &HTML{}
}

// Ensure creates the overlay once. Later calls do nothing.
func (p *HTML) Ensure() {
	p.mu.Lock()
	p.created = true
	p.mu.Unlock()
}

// Created reports whether the overlay exists.
func (p *HTML) Created() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}

// Render prepends ev, creating the overlay first if needed.
func (p *HTML) Render(ev model.Event) {
	e := Format(ev)
	p.mu.Lock()
	p.created = true
	p.entries = append([]Entry{e}, p.entries...)
	p.mu.Unlock()
}

// Entries returns the rendered entries, newest first.
func (p *HTML) Entries() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

var overlay = template.Must(template.New("overlay").Parse(`<div id="{{.RootID}}" style="position:fixed;right:12px;bottom:12px;width:360px;max-height:60vh;overflow:auto;z-index:99999;background:rgba(17,24,39,0.95);color:#fff;font-family:system-ui,-apple-system,Segoe UI,Roboto,sans-serif;font-size:13px;border-radius:8px;padding:8px;box-shadow:0 8px 30px rgba(2,6,23,0.4)">
<div style="font-weight:600;margin-bottom:6px">{{.Title}}</div>
<div id="{{.ListID}}">
{{- range .Entries}}
<div style="border-top:1px solid rgba(255,255,255,0.06);padding-top:8px;margin-top:8px"><div style="font-weight:600">{{.Name}}</div><div style="opacity:.85;font-size:12px;white-space:pre-wrap;">{{.Body}}</div></div>
{{- end}}
</div>
</div>
`))

// WriteHTML writes the overlay markup. Nothing is written before the
// overlay has been created.
func (p *HTML) WriteHTML(w io.Writer) error {
	if !p.Created() {
		return nil
	}
	return overlay.Execute(w, struct {
		RootID, ListID, Title string
		Entries               []Entry
	}{RootID, ListID, Title, p.Entries()})
}

// Renderer is anything that can display an event.
type Renderer interface {
	Render(model.Event)
}

// Multi fans an event out to several renderers in order.
type Multi []Renderer

func (m Multi) Render(ev model.Event) {
	for _, r := range m {
		if r != nil {
			r.Render(ev)
		}
	}
}

// Ensure creates every member overlay that supports it.
func (m Multi) Ensure() {
	for _, r := range m {
		if e, ok := r.(interface{ Ensure() }); ok {
			e.Ensure()
		}
	}
}
