package htmldoc

import (
	"net/url"
	"strings"
	"testing"

	"clicktrack/internal/classify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html>
<html><body>
<nav><a id="nav-paper" data-simple-nav-item="paper" href="paper.html">Paper</a></nav>
<main>
  <a id="card" data-simple-event="click_cta" data-cta-id="paper_card" href="paper.html"><span id="inner">Read the <b>paper</b></span></a>
  <button id="plain">Nothing</button>
</main>
</body></html>`

func parse(t *testing.T) *Document {
	t.Helper()
	u, _ := url.Parse("https://rmax.ai/docs/index.html")
	d, err := Parse(strings.NewReader(page), u)
	require.NoError(t, err)
	return d
}

func TestElementTree(t *testing.T) {
	d := parse(t)

	inner := d.ByID("inner")
	require.NotNil(t, inner)
	assert.Equal(t, "span", inner.TagName())
	assert.Equal(t, "Read the paper", inner.Text())

	parent := inner.Parent()
	require.NotNil(t, parent)
	id, ok := parent.Attr("id")
	require.True(t, ok)
	assert.Equal(t, "card", id)

	// walk to the root
	var last classify.Element = inner
	for p := last.Parent(); p != nil; p = p.Parent() {
		last = p
	}
	assert.Equal(t, "html", last.TagName())

	_, ok = inner.Attr("href")
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	d := parse(t)

	assert.Equal(t, "nav-paper", attrOf(d.Lookup("paper"), "id"))
	assert.Equal(t, "card", attrOf(d.Lookup("paper_card"), "id"))
	assert.Equal(t, "plain", attrOf(d.Lookup("plain"), "id"))
	assert.Nil(t, d.Lookup("missing"))
}

func attrOf(e *Element, name string) string {
	if e == nil {
		return ""
	}
	v, _ := e.Attr(name)
	return v
}

func TestClaimAndDispatch(t *testing.T) {
	d := parse(t)
	require.True(t, d.Claim())
	require.False(t, d.Claim())

	var got []string
	d.OnClick(func(el classify.Element) {
		v, _ := el.Attr("id")
		got = append(got, v)
	})
	assert.Equal(t, 1, d.Listeners())

	d.Click(d.ByID("plain"))
	assert.Equal(t, []string{"plain"}, got)
}

func TestLocationIsCopy(t *testing.T) {
	d := parse(t)
	u := d.Location()
	u.Path = "/elsewhere"
	assert.Equal(t, "/docs/index.html", d.Location().Path)

	next, _ := url.Parse("https://rmax.ai/paper.html")
	d.Navigate(next)
	assert.Equal(t, "/paper.html", d.Location().Path)
}
