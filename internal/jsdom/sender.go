//go:build js && wasm

package jsdom

import (
	"context"
	"fmt"
	"syscall/js"

	"clicktrack/internal/metrics"
	"clicktrack/internal/transport"
)

// Sender is the browser delivery chain: sendBeacon, then fetch.
func Sender(m *metrics.Metrics) transport.Sender {
	return transport.Fallback{Primary: Beacon{}, Secondary: Fetch{}, Metrics: m}
}

// jsCall turns a thrown JS exception into an error.
func jsCall(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("js: %v", r)
		}
	}()
	fn()
	return nil
}

func jsonBlob(body []byte) js.Value {
	parts := js.Global().Get("Array").New(string(body))
	opts := js.Global().Get("Object").New()
	opts.Set("type", "application/json")
	return js.Global().Get("Blob").New(parts, opts)
}

// Beacon queues the body with navigator.sendBeacon, which survives page unload.
type Beacon struct{}

func (Beacon) Send(_ context.Context, path string, body []byte) error {
	nav := js.Global().Get("navigator")
	if !present(nav) || nav.Get("sendBeacon").Type() != js.TypeFunction {
		return transport.ErrUnavailable
	}
	if !present(js.Global().Get("Blob")) {
		return transport.ErrUnavailable
	}
	return jsCall(func() {
		// the boolean result is ignored: a queued beacon is the best we get
		nav.Call("sendBeacon", path, jsonBlob(body))
	})
}

// ignore is the shared rejection handler for fetch promises.
var ignore = js.FuncOf(func(js.Value, []js.Value) any { return nil })

// Fetch POSTs with keepalive and discards the promise.
type Fetch struct{}

func (Fetch) Send(_ context.Context, path string, body []byte) error {
	fetch := js.Global().Get("fetch")
	if fetch.Type() != js.TypeFunction {
		return transport.ErrUnavailable
	}
	return jsCall(func() {
		headers := js.Global().Get("Object").New()
		headers.Set("Content-Type", "application/json")

		init := js.Global().Get("Object").New()
		init.Set("method", "POST")
		init.Set("headers", headers)
		init.Set("body", string(body))
		init.Set("keepalive", true)

		fetch.Invoke(path, init).Call("catch", ignore)
	})
}
