//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"clicktrack/internal/model"
	"clicktrack/internal/panel"
)

// EventsGlobal is the window array mirroring the debug event log.
const EventsGlobal = "__SIMPLENEVENTS__"

const (
	rootStyle = "position:fixed;right:12px;bottom:12px;width:360px;max-height:60vh;overflow:auto;z-index:99999;" +
		"background:rgba(17,24,39,0.95);color:#fff;font-family:system-ui,-apple-system,Segoe UI,Roboto,sans-serif;" +
		"font-size:13px;border-radius:8px;padding:8px;box-shadow:0 8px 30px rgba(2,6,23,0.4)"
	entryStyle = "border-top:1px solid rgba(255,255,255,0.06);padding-top:8px;margin-top:8px"
	bodyStyle  = "opacity:.85;font-size:12px;white-space:pre-wrap;"
)

// DOMPanel is the fixed-position overlay.
type DOMPanel struct {
	document js.Value
}

func NewDOMPanel() *DOMPanel {
	return &DOMPanel{document: js.Global().Get("document")}
}

func (p *DOMPanel) div(style, text string) js.Value {
	d := p.document.Call("createElement", "div")
	if style != "" {
		d.Get("style").Set("cssText", style)
	}
	if text != "" {
		d.Set("textContent", text)
	}
	return d
}

// Ensure creates the overlay unless an element with RootID already exists.
func (p *DOMPanel) Ensure() {
	if present(p.document.Call("getElementById", panel.RootID)) {
		return
	}
	body := p.document.Get("body")
	if !present(body) {
		return
	}
	root := p.div(rootStyle, "")
	root.Set("id", panel.RootID)
	root.Call("appendChild", p.div("font-weight:600;margin-bottom:6px", panel.Title))

	list := p.div("", "")
	list.Set("id", panel.ListID)
	root.Call("appendChild", list)

	body.Call("appendChild", root)
}

// Render prepends an entry, building the overlay first if the body was
// missing at Ensure time. Text goes through textContent, never innerHTML.
func (p *DOMPanel) Render(ev model.Event) {
	list := p.document.Call("getElementById", panel.ListID)
	if !present(list) {
		p.Ensure()
		list = p.document.Call("getElementById", panel.ListID)
	}
	if !present(list) {
		return
	}
	e := panel.Format(ev)
	el := p.div(entryStyle, "")
	el.Call("appendChild", p.div("font-weight:600", e.Name))
	el.Call("appendChild", p.div(bodyStyle, e.Body))
	list.Call("prepend", el)
}

// EventMirror pushes every debug event onto window.__SIMPLENEVENTS__.
type EventMirror struct{}

func (EventMirror) Ensure() { events() }

func (EventMirror) Render(ev model.Event) {
	payload := make(map[string]any, len(ev.Payload))
	for k, v := range ev.Payload {
		payload[k] = v
	}
	events().Call("push", js.ValueOf(map[string]any{
		"name":    string(ev.Name),
		"payload": payload,
		"url":     ev.URL,
	}))
}

func events() js.Value {
	w := js.Global()
	arr := w.Get(EventsGlobal)
	if !present(arr) {
		arr = w.Get("Array").New()
		w.Set(EventsGlobal, arr)
	}
	return arr
}
