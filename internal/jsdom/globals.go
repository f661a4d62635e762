//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"clicktrack/internal/config"
	"clicktrack/internal/model"
	"clicktrack/internal/tracker"
)

// HelpersGlobal is where the helper namespace is published.
const HelpersGlobal = "AnalyticsHelpers"

// page globals that configure the tracker, set before the script loads
var globalKeys = map[string]string{
	config.KeyDebug:        "__SIMPLENALYTICS_DEBUG__",
	config.KeyCaptureEmail: "__SIMPLENALYTICS_CAPTURE_EMAIL__",
	config.KeyCollectPath:  "__SIMPLENALYTICS_COLLECT_PATH__",
}

var boolKeys = map[string]bool{
	config.KeyDebug:        true,
	config.KeyCaptureEmail: true,
}

// Lookup is a config.Lookup over window globals. Falsy globals are unset;
// truthy ones are "true" for flags and String(v) otherwise.
func Lookup(key string) (string, bool) {
	name, ok := globalKeys[key]
	if !ok {
		return "", false
	}
	v := js.Global().Get(name)
	if !v.Truthy() {
		return "", false
	}
	if boolKeys[key] {
		return "true", true
	}
	if v.Type() == js.TypeString {
		return v.String(), true
	}
	return js.Global().Call("String", v).String(), true
}

func optional(v string, ok bool) any {
	if !ok {
		return js.Undefined()
	}
	return v
}

func arg(args []js.Value, i int) string {
	if i >= len(args) || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

// payloadOf keeps only primitive values of a JS object.
func payloadOf(v js.Value) model.Payload {
	p := model.Payload{}
	if v.Type() != js.TypeObject {
		return p
	}
	keys := js.Global().Get("Object").Call("keys", v)
	for i := 0; i < keys.Length(); i++ {
		k := keys.Index(i).String()
		f := v.Get(k)
		switch f.Type() {
		case js.TypeString:
			p[k] = f.String()
		case js.TypeNumber, js.TypeBoolean:
			p[k] = js.Global().Call("String", f).String()
		}
	}
	return p
}

// Expose publishes window.AnalyticsHelpers for test harnesses.
func Expose(tr *tracker.Tracker) {
	h := tr.Helpers()
	obj := js.Global().Get("Object").New()

	obj.Set("normalizeHost", js.FuncOf(func(_ js.Value, args []js.Value) any {
		return h.NormalizeHost(arg(args, 0))
	}))
	obj.Set("fileTypeFromPath", js.FuncOf(func(_ js.Value, args []js.Value) any {
		return optional(h.FileTypeFromPath(arg(args, 0)))
	}))
	obj.Set("sanitizeEmail", js.FuncOf(func(_ js.Value, args []js.Value) any {
		return optional(h.SanitizeEmail(arg(args, 0)))
	}))
	obj.Set("sendEvent", js.FuncOf(func(_ js.Value, args []js.Value) any {
		var payload js.Value
		if len(args) > 1 {
			payload = args[1]
		}
		h.Emit(model.Kind(arg(args, 0)), payloadOf(payload))
		return nil
	}))

	js.Global().Set(HelpersGlobal, obj)
}
