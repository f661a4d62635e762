package tracker

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"clicktrack/internal/classify"
	"clicktrack/internal/config"
	"clicktrack/internal/debuglog"
	"clicktrack/internal/metrics"
	"clicktrack/internal/model"
	"clicktrack/internal/panel"
	"clicktrack/internal/transport"

	"github.com/rs/zerolog"
)

// Host is the page the tracker instruments.
type Host interface {
	// Claim marks the page as instrumented. Only the first caller gets true,
	// which keeps a twice-included script from listening twice.
	Claim() bool

	// OnClick registers one capture-phase, document-level click listener.
	OnClick(func(target classify.Element))

	// Location is the current page URL.
	Location() *url.URL
}

// Tracker is one instrumentation context: configuration, classifier,
// transport and (in debug mode) the event log and panel. Nothing is
// shared between trackers, so tests can build as many as they like.
type Tracker struct {
	cfg  config.Config
	host Host

	classifier *classify.Classifier
	transport  *transport.Transport
	events     *debuglog.Log
	panel      transport.Renderer

	lg      zerolog.Logger
	metrics *metrics.Metrics

	once        sync.Once
	initialized atomic.Bool
}

// Option customizes New.
type Option func(*settings)

type settings struct {
	lg      zerolog.Logger
	metrics *metrics.Metrics
	sender  transport.Sender
	inline  bool
	panel   transport.Renderer
	rules   []classify.Rule
}

func WithLogger(lg zerolog.Logger) Option { return func(s *settings) { s.lg = lg } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *settings) { s.metrics = m } }

// WithSender replaces the default HTTP sender.
func WithSender(snd transport.Sender) Option { return func(s *settings) { s.sender = snd } }

// WithInlineSend calls the sender inside the click handler instead of on
// a new goroutine. Only for senders that never block.
func WithInlineSend() Option { return func(s *settings) { s.inline = true } }

// WithPanel replaces the default in-memory HTML panel.
func WithPanel(r transport.Renderer) Option { return func(s *settings) { s.panel = r } }

func WithRules(rules []classify.Rule) Option { return func(s *settings) { s.rules = rules } }

// New wires a Tracker. It does not touch the page until Init.
func New(cfg config.Config, host Host, opts ...Option) *Tracker {
	s := settings{lg: zerolog.Nop()}
	for _, o := range opts {
		o(&s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}

	copts := []classify.Option{classify.WithFullEmail(cfg.CaptureFullEmail)}
	if s.rules != nil {
		copts = append(copts, classify.WithRules(s.rules))
	}

	t := &Tracker{
		cfg:        cfg,
		host:       host,
		classifier: classify.New(copts...),
		lg:         s.lg,
		metrics:    s.metrics,
	}

	topts := transport.Options{
		Debug:       cfg.DebugEnabled,
		CollectPath: cfg.CollectPath,
		Location:    host.Location,
		Logger:      s.lg,
		Metrics:     s.metrics,
	}
	if cfg.DebugEnabled {
		t.events = debuglog.New()
		t.panel = s.panel
		if t.panel == nil {
			t.panel = panel.NewHTML()
		}
		topts.Recorder = t.events
		topts.Renderer = t.panel
	} else {
		topts.Sender = s.sender
		topts.Inline = s.inline
		if topts.Sender == nil {
			topts.Sender = &transport.HTTPSender{
				Client: &http.Client{Timeout: cfg.SendTimeout},
				Base:   host.Location,
			}
		}
	}
	t.transport = transport.New(topts)

	return t
}

// Init registers the click listener and, in debug mode, creates the
// panel. It is idempotent per tracker and per page: it returns false
// when this tracker already ran or another one claimed the page.
func (t *Tracker) Init() bool {
	registered := false
	t.once.Do(func() {
		if !t.host.Claim() {
			t.lg.Debug().Msg("analytics already loaded on this page")
			return
		}
		t.host.OnClick(t.HandleClick)
		if e, ok := t.panel.(interface{ Ensure() }); ok && t.cfg.DebugEnabled {
			e.Ensure()
		}
		t.initialized.Store(true)
		registered = true
	})
	return registered
}

// Initialized reports whether this tracker owns the page listener.
func (t *Tracker) Initialized() bool {
	return t.initialized.Load()
}

// HandleClick classifies target and emits at most one event.
// It never panics: failures are counted and, in debug mode, logged.
func (t *Tracker) HandleClick(target classify.Element) {
	defer func() {
		if r := recover(); r != nil {
			atomic.AddInt64(&t.metrics.HandlerPanicsTotal, 1)
			if t.cfg.DebugEnabled {
				t.lg.Error().Interface("panic", r).Msg("analytics handler error")
			}
		}
	}()

	atomic.AddInt64(&t.metrics.ClicksTotal, 1)

	res, ok := t.classifier.Classify(t.host.Location(), target)
	if !ok {
		atomic.AddInt64(&t.metrics.ClicksUnmatchedTotal, 1)
		return
	}
	t.transport.Emit(res.Kind, res.Payload)
}

// Emit sends a caller-built event through the same path as clicks.
func (t *Tracker) Emit(name model.Kind, payload model.Payload) model.Event {
	return t.transport.Emit(name, payload)
}

// Events is the debug event log, or nil outside debug mode.
func (t *Tracker) Events() *debuglog.Log {
	return t.events
}

// Panel is the debug renderer, or nil outside debug mode.
func (t *Tracker) Panel() transport.Renderer {
	return t.panel
}

func (t *Tracker) Metrics() *metrics.Metrics {
	return t.metrics
}

func (t *Tracker) Config() config.Config {
	return t.cfg
}

// Wait blocks until in-flight sends finish or ctx ends.
func (t *Tracker) Wait(ctx context.Context) error {
	return t.transport.Wait(ctx)
}
