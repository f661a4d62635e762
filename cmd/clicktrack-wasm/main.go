//go:build js && wasm

// Command clicktrack-wasm is the in-page build:
//
//	GOOS=js GOARCH=wasm go build -o analytics.wasm ./cmd/clicktrack-wasm
//
// Page globals (__SIMPLENALYTICS_DEBUG__ and friends) must be set before
// the module is instantiated.
package main

import (
	"clicktrack/internal/config"
	"clicktrack/internal/jsdom"
	"clicktrack/internal/logger"
	"clicktrack/internal/metrics"
	"clicktrack/internal/panel"
	"clicktrack/internal/tracker"

	"github.com/rs/zerolog"
)

func main() {
	// a bad global must not break the host page: fall back to defaults
	cfg, err := config.LoadFrom(jsdom.Lookup)
	if err != nil {
		cfg, _ = config.LoadFrom(nil)
	}

	var lg zerolog.Logger
	if cfg.DebugEnabled {
		lg = logger.Init(cfg)
	} else {
		lg = zerolog.Nop()
	}

	m := metrics.New()
	opts := []tracker.Option{
		tracker.WithLogger(lg),
		tracker.WithMetrics(m),
		tracker.WithSender(jsdom.Sender(m)),
		tracker.WithInlineSend(),
	}
	if cfg.DebugEnabled {
		opts = append(opts, tracker.WithPanel(panel.Multi{jsdom.EventMirror{}, jsdom.NewDOMPanel()}))
	}

	tr := tracker.New(cfg, jsdom.NewPage(), opts...)
	if !tr.Init() {
		// another copy already instruments this page
		return
	}
	jsdom.Expose(tr)

	// keep the Go runtime alive for the js.Func callbacks
	select {}
}
