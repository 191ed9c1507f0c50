package page

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/hrygo/folio/plugin/render"
)

func TestHTMLDocumentSetHTML(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader(`<html><body><table><tbody id="rows"><tr><td>old</td></tr></tbody></table><div id="grid">old</div></body></html>`))
	require.NoError(t, err)

	_, ok := doc.Container("absent")
	assert.False(t, ok)

	grid, ok := doc.Container("grid")
	require.True(t, ok)
	require.NoError(t, grid.SetHTML(render.Fragment(`<div class="col-12">a</div><div class="col-12">b</div>`)))
	assert.Equal(t, `<div class="col-12">a</div><div class="col-12">b</div>`, innerHTML(t, doc, "grid"))

	// fragments are parsed in the context of the container
	rows, ok := doc.Container("rows")
	require.True(t, ok)
	require.NoError(t, rows.SetHTML(render.Fragment(`<tr><td>new</td></tr>`)))
	assert.Equal(t, `<tr><td>new</td></tr>`, innerHTML(t, doc, "rows"))

	var buf bytes.Buffer
	require.NoError(t, doc.Render(&buf))
	assert.Contains(t, buf.String(), `<div id="grid"><div class="col-12">a</div>`)
	assert.NotContains(t, buf.String(), "old")
}

func TestHTMLDocumentWalk(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader(`<ul><li class="term-card x" data-term="ADF">a</li><li class="term">b</li></ul>`))
	require.NoError(t, err)

	var terms []string
	doc.Walk(func(n *html.Node) {
		if HasClass(n, "term-card") {
			v, _ := Attr(n, "data-term")
			terms = append(terms, v)
		}
	})
	assert.Equal(t, []string{"ADF"}, terms)
}
