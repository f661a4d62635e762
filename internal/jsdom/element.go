//go:build js && wasm

// Package jsdom binds the tracker to a live browser page through syscall/js.
package jsdom

import (
	"syscall/js"

	"clicktrack/internal/classify"
)

const elementNode = 1

// Element wraps a DOM element.
type Element struct {
	v js.Value
}

func present(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}

// elementOf returns the element v is, or the element containing it,
// or nil when there is none.
func elementOf(v js.Value) classify.Element {
	if !present(v) {
		return nil
	}
	if nt := v.Get("nodeType"); nt.Type() == js.TypeNumber && nt.Int() != elementNode {
		v = v.Get("parentElement")
		if !present(v) {
			return nil
		}
	}
	return &Element{v: v}
}

func (e *Element) TagName() string {
	t := e.v.Get("tagName")
	if t.Type() != js.TypeString {
		return ""
	}
	return t.String()
}

// Attr is getAttribute; a null result means the attribute is absent.
func (e *Element) Attr(name string) (string, bool) {
	if e.v.Get("getAttribute").Type() != js.TypeFunction {
		return "", false
	}
	a := e.v.Call("getAttribute", name)
	if a.Type() != js.TypeString {
		return "", false
	}
	return a.String(), true
}

func (e *Element) Parent() classify.Element {
	p := e.v.Get("parentElement")
	if !present(p) {
		return nil
	}
	return &Element{v: p}
}
