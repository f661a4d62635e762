package transport

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"

	"clicktrack/internal/classify"
	"clicktrack/internal/metrics"
	"clicktrack/internal/model"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Recorder receives every event in debug mode (the debug event log).
type Recorder interface {
	Append(model.Event)
}

// Renderer displays an event in debug mode (the debug panel).
type Renderer interface {
	Render(model.Event)
}

// Options configures a Transport. Without a Sender, production events
// are counted as send errors and dropped.
type Options struct {
	Debug       bool
	CollectPath string
	Location    func() *url.URL // current page; nil means "/"

	Sender   Sender   // production delivery
	Inline   bool     // call Sender on the emitting goroutine (for non-blocking primitives like sendBeacon)
	Recorder Recorder // debug only
	Renderer Renderer // debug only

	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// Transport turns (name, payload) into an Event and routes it.
//
//   - debug: Recorder + Renderer + a debug log record, never the network
//   - otherwise: JSON encode and hand off to Sender on a new goroutine
//
// Delivery is at-most-once: no retries, no acknowledgement, and every
// failure is dropped after a debug-level log.
type Transport struct {
	opts     Options
	inflight sync.WaitGroup
}

func New(opts Options) *Transport {
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	return &Transport{opts: opts}
}

// Emit builds and routes one event, returning what was built.
func (t *Transport) Emit(name model.Kind, payload model.Payload) model.Event {
	ev := model.NewEvent(name, payload, PageURL(t.location()))
	atomic.AddInt64(&t.opts.Metrics.EventsEmittedTotal, 1)

	if t.opts.Debug {
		atomic.AddInt64(&t.opts.Metrics.EventsDebugTotal, 1)
		if t.opts.Recorder != nil {
			t.opts.Recorder.Append(ev)
		}
		if t.opts.Renderer != nil {
			t.opts.Renderer.Render(ev)
		}
		t.opts.Logger.Debug().
			Str("event", string(ev.Name)).
			Interface("payload", ev.Payload).
			Str("url", ev.URL).
			Msg("analytics event")
		return ev
	}

	body, err := json.Marshal(ev)
	if err != nil {
		t.opts.Logger.Debug().Err(err).Msg("analytics encode failed")
		return ev
	}
	t.dispatch(body)
	return ev
}

// dispatch is fire-and-forget: nothing waits on the goroutine and nothing
// cancels it.
func (t *Transport) dispatch(body []byte) {
	if t.opts.Sender == nil {
		atomic.AddInt64(&t.opts.Metrics.SendErrorsTotal, 1)
		return
	}
	if t.opts.Inline {
		t.deliver(body)
		return
	}
	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		t.deliver(body)
	}()
}

func (t *Transport) deliver(body []byte) {
	if err := t.send(body); err != nil {
		atomic.AddInt64(&t.opts.Metrics.SendErrorsTotal, 1)
		t.opts.Logger.Debug().Err(err).Str("path", t.opts.CollectPath).Msg("analytics send failed")
		return
	}
	atomic.AddInt64(&t.opts.Metrics.SendsTotal, 1)
}

func (t *Transport) send(body []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panic: %v", r)
		}
	}()
	return t.opts.Sender.Send(context.Background(), t.opts.CollectPath, body)
}

// Wait blocks until in-flight sends finish or ctx ends. Page code never
// calls it; short-lived native processes use it before exiting.
func (t *Transport) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Transport) location() *url.URL {
	if t.opts.Location == nil {
		return nil
	}
	return t.opts.Location()
}

// PageURL is the event url field: path plus query of the current page.
func PageURL(u *url.URL) string {
	if u == nil {
		return "/"
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + classify.EncodeQuery(u.RawQuery)
	}
	return p
}
