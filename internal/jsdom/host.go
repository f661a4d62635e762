//go:build js && wasm

package jsdom

import (
	"net/url"
	"syscall/js"

	"clicktrack/internal/classify"
)

// LoadedFlag is the window global that marks a page as instrumented.
const LoadedFlag = "__SIMPLE_ANALYTICS_LOADED__"

// Page implements tracker.Host for window/document.
type Page struct {
	window   js.Value
	document js.Value
}

func NewPage() *Page {
	w := js.Global()
	return &Page{window: w, document: w.Get("document")}
}

// Claim checks and sets the window-level guard, so a second copy of the
// script (even a separately loaded wasm module) stays inert.
func (p *Page) Claim() bool {
	if p.window.Get(LoadedFlag).Truthy() {
		return false
	}
	p.window.Set(LoadedFlag, true)
	return true
}

// OnClick adds a capture-phase listener on document. The js.Func lives
// as long as the page, so it is never released.
func (p *Page) OnClick(fn func(classify.Element)) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		fn(elementOf(args[0].Get("target")))
		return nil
	})
	p.document.Call("addEventListener", "click", cb, true)
}

// Location parses window.location.href; nil if it cannot be parsed.
func (p *Page) Location() *url.URL {
	href := p.window.Get("location").Get("href")
	if href.Type() != js.TypeString {
		return nil
	}
	u, err := url.Parse(href.String())
	if err != nil {
		return nil
	}
	return u
}
