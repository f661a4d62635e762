package tracker

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"clicktrack/internal/classify"
	"clicktrack/internal/config"
	"clicktrack/internal/htmldoc"
	"clicktrack/internal/model"
	"clicktrack/internal/panel"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexHTML = `<!doctype html>
<html><body>
<header>
  <nav>
    <a data-simple-nav-item="paper" href="paper.html">Paper</a>
    <a data-simple-nav-item="" href="about.html">About</a>
  </nav>
</header>
<main>
  <a id="paper-card" data-simple-event="click_cta" data-cta-id="paper_card" href="paper.html">Paper</a>
  <a id="repo-card" href="https://github.com/rmax-ai/governance-primitives"><span id="repo-label">Code</span></a>
  <a id="contact" href="mailto:hello@rmax.ai?subject=Hi">Contact</a>
  <a id="pdf" href="/assets/paper.PDF?download=1">PDF</a>
  <a id="arxiv-pdf" href="https://arxiv.org/pdf/2501.00001.pdf">arXiv</a>
  <a id="zenodo" data-simple-event="click_outbound" data-host="www.Zenodo.org" href="https://doi.org/10.5281/zenodo.1">DOI</a>
  <button id="dataset" data-simple-event="download_asset" data-file="/data/prompts.csv">Dataset</button>
  <button id="plain">Nothing here</button>
</main>
</body></html>`

func newDoc(t *testing.T) *htmldoc.Document {
	t.Helper()
	u, err := url.Parse("https://www.rmax.ai/docs/index.html?lang=en")
	require.NoError(t, err)
	d, err := htmldoc.Parse(strings.NewReader(indexHTML), u)
	require.NoError(t, err)
	return d
}

func debugConfig() config.Config {
	return config.Config{DebugEnabled: true, CollectPath: config.DefaultCollectPath}
}

func click(t *testing.T, d *htmldoc.Document, id string) {
	t.Helper()
	el := d.ByID(id)
	require.NotNil(t, el, id)
	d.Click(el)
}

func TestClickEventsDebug(t *testing.T) {
	cases := []struct {
		id      string
		kind    model.Kind
		payload model.Payload
	}{
		{"paper-card", model.KindCTA, model.Payload{"cta_id": "paper_card"}},
		{"repo-label", model.KindOutbound, model.Payload{"host": "github.com", "path": "/rmax-ai/governance-primitives"}},
		{"contact", model.KindContactEmail, model.Payload{"email": "@rmax.ai"}},
		{"pdf", model.KindDownload, model.Payload{"file": "/assets/paper.PDF?download=1", "type": "pdf"}},
		{"arxiv-pdf", model.KindOutbound, model.Payload{"host": "arxiv.org", "path": "/pdf/2501.00001.pdf"}},
		{"zenodo", model.KindOutbound, model.Payload{"host": "zenodo.org", "path": "/10.5281/zenodo.1"}},
		{"dataset", model.KindDownload, model.Payload{"file": "/data/prompts.csv", "type": "csv"}},
	}

	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			d := newDoc(t)
			tr := New(debugConfig(), d)
			require.True(t, tr.Init())

			click(t, d, tc.id)

			events := tr.Events().Events()
			require.Len(t, events, 1)
			assert.Equal(t, tc.kind, events[0].Name)
			assert.Equal(t, tc.payload, events[0].Payload)
			assert.Equal(t, "/docs/index.html?lang=en", events[0].URL)
		})
	}
}

func TestNavAndCTANeverDownloadHTML(t *testing.T) {
	d := newDoc(t)
	tr := New(debugConfig(), d)
	tr.Init()

	d.Click(d.FindAttr(classify.AttrNavItem, "paper"))
	click(t, d, "paper-card")

	names := tr.Events().Names()
	assert.Equal(t, []model.Kind{model.KindNav, model.KindCTA}, names)
	assert.NotContains(t, names, model.KindDownload)

	events := tr.Events().Events()
	assert.Equal(t, "paper", events[0].Payload["item"])
	assert.Equal(t, "paper_card", events[1].Payload["cta_id"])
}

func TestUnmatchedClicks(t *testing.T) {
	d := newDoc(t)
	tr := New(debugConfig(), d)
	tr.Init()

	click(t, d, "plain")
	d.Click(d.FindAttr(classify.AttrNavItem, "")) // empty marker, same-host html link
	d.Click(nil)

	assert.Zero(t, tr.Events().Len())
	assert.Equal(t, int64(3), atomic.LoadInt64(&tr.Metrics().ClicksUnmatchedTotal))
}

func TestInitIsIdempotent(t *testing.T) {
	d := newDoc(t)
	first := New(debugConfig(), d)
	second := New(debugConfig(), d)

	assert.True(t, first.Init())
	assert.False(t, first.Init())
	assert.False(t, second.Init(), "page already claimed")
	assert.True(t, first.Initialized())
	assert.False(t, second.Initialized())
	assert.Equal(t, 1, d.Listeners())

	click(t, d, "paper-card")
	assert.Equal(t, 1, first.Events().Len())
	assert.Zero(t, second.Events().Len())
}

func TestDebugPanelCreatedOnInit(t *testing.T) {
	d := newDoc(t)
	p := panel.NewHTML()
	tr := New(debugConfig(), d, WithPanel(p))

	assert.False(t, p.Created())
	tr.Init()
	assert.True(t, p.Created())

	click(t, d, "contact")
	click(t, d, "paper-card")

	entries := p.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "click_cta", entries[0].Name)
	assert.Equal(t, "click_contact_email", entries[1].Name)
}

func TestFullEmailCapture(t *testing.T) {
	d := newDoc(t)
	cfg := debugConfig()
	cfg.CaptureFullEmail = true
	tr := New(cfg, d)
	tr.Init()

	click(t, d, "contact")
	assert.Equal(t, "hello@rmax.ai", tr.Events().Events()[0].Payload["email"])
	email, ok := tr.Helpers().SanitizeEmail("mailto:hello@rmax.ai")
	assert.True(t, ok)
	assert.Equal(t, "hello@rmax.ai", email)
}

func TestHandlerPanicIsSwallowed(t *testing.T) {
	var buf bytes.Buffer
	d := newDoc(t)
	boom := []classify.Rule{{
		Name:    "boom",
		Kind:    model.KindCTA,
		Match:   func(classify.Click) bool { panic("broken rule") },
		Payload: func(classify.Click) model.Payload { return nil },
	}}
	tr := New(debugConfig(), d, WithRules(boom), WithLogger(zerolog.New(&buf)))
	tr.Init()

	assert.NotPanics(t, func() { click(t, d, "paper-card") })
	assert.Equal(t, int64(1), atomic.LoadInt64(&tr.Metrics().HandlerPanicsTotal))
	assert.Contains(t, buf.String(), "analytics handler error")
}

func TestHandlerPanicSilentOutsideDebug(t *testing.T) {
	var buf bytes.Buffer
	d := newDoc(t)
	boom := []classify.Rule{{
		Name:    "boom",
		Kind:    model.KindCTA,
		Match:   func(classify.Click) bool { panic("broken rule") },
		Payload: func(classify.Click) model.Payload { return nil },
	}}
	tr := New(config.Config{}, d, WithRules(boom), WithLogger(zerolog.New(&buf)))
	tr.Init()

	click(t, d, "paper-card")
	assert.Zero(t, buf.Len())
	assert.Nil(t, tr.Events())
}

type captureSender struct {
	mu     sync.Mutex
	paths  []string
	bodies [][]byte
}

func (c *captureSender) Send(_ context.Context, path string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
	c.bodies = append(c.bodies, body)
	return nil
}

func TestProductionSends(t *testing.T) {
	d := newDoc(t)
	snd := &captureSender{}
	tr := New(config.Config{CollectPath: "/collect"}, d, WithSender(snd))
	tr.Init()

	click(t, d, "repo-card")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, tr.Wait(ctx))

	snd.mu.Lock()
	defer snd.mu.Unlock()
	require.Len(t, snd.bodies, 1)
	assert.Equal(t, "/collect", snd.paths[0])

	var ev model.Event
	require.NoError(t, json.Unmarshal(snd.bodies[0], &ev))
	assert.Equal(t, model.KindOutbound, ev.Name)
	assert.Equal(t, "github.com", ev.Payload["host"])
	assert.Nil(t, tr.Panel())
}

func TestHelpers(t *testing.T) {
	d := newDoc(t)
	tr := New(debugConfig(), d)
	h := tr.Helpers()

	assert.Equal(t, "github.com", h.NormalizeHost("www.GitHub.com"))

	ext, ok := h.FileTypeFromPath("/path/to/file.PDF?download=1")
	assert.True(t, ok)
	assert.Equal(t, "pdf", ext)

	_, ok = h.FileTypeFromPath("/paper.html")
	assert.False(t, ok)

	email, _ := h.SanitizeEmail("mailto:hello@rmax.ai")
	assert.Equal(t, "@rmax.ai", email)

	ev := h.Emit(model.KindNav, model.Payload{"item": "manual"})
	assert.Equal(t, "/docs/index.html?lang=en", ev.URL)
	assert.Equal(t, 1, tr.Events().Len())
}
