package panel

import (
	"bytes"
	"strings"
	"testing"

	"clicktrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	e := Format(model.NewEvent(model.KindOutbound, model.Payload{"path": "/x", "host": "github.com"}, "/"))

	assert.Equal(t, "click_outbound", e.Name)
	assert.Equal(t, "{\n  \"host\": \"github.com\",\n  \"path\": \"/x\"\n}", e.Body)

	assert.Equal(t, "{}", Format(model.Event{Name: model.KindCTA}).Body)
}

func TestRenderNewestFirst(t *testing.T) {
	p := NewHTML()
	assert.False(t, p.Created())

	p.Render(model.NewEvent(model.KindNav, model.Payload{"item": "paper"}, "/"))
	p.Render(model.NewEvent(model.KindCTA, model.Payload{"cta_id": "paper_card"}, "/"))

	require.True(t, p.Created())
	entries := p.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "click_cta", entries[0].Name)
	assert.Equal(t, "click_nav", entries[1].Name)
}

func TestWriteHTML(t *testing.T) {
	p := NewHTML()

	var buf bytes.Buffer
	require.NoError(t, p.WriteHTML(&buf))
	assert.Zero(t, buf.Len(), "no overlay before creation")

	p.Ensure()
	p.Ensure()
	p.Render(model.NewEvent(model.KindCTA, model.Payload{"cta_id": "<script>"}, "/"))

	require.NoError(t, p.WriteHTML(&buf))
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, `id="`+RootID+`"`))
	assert.Contains(t, out, `id="`+ListID+`"`)
	assert.Contains(t, out, Title)
	assert.Contains(t, out, "click_cta")
	assert.NotContains(t, out, "<script>")
}

func TestMulti(t *testing.T) {
	a, b := NewHTML(), NewHTML()
	m := Multi{a, nil, b}

	m.Ensure()
	assert.True(t, a.Created())
	assert.True(t, b.Created())

	m.Render(model.NewEvent(model.KindNav, nil, "/"))
	assert.Len(t, a.Entries(), 1)
	assert.Len(t, b.Entries(), 1)
}
