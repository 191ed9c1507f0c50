package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// md renders HTML written in a description as escaped text.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(util.Prioritized(literalHTMLRenderer{}, 100)),
	),
)

// goldmark leaves these unescaped in text and never uses them as delimiters.
var markdownReplacer = strings.NewReplacer(
	"'", "&#039;",
	"`", "&#096;",
)

// Markdown renders src as a description fragment. On a conversion error the
// source is rendered as escaped text.
func Markdown(src string) Fragment {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		var b Builder
		return b.Text(src).Build()
	}
	return Fragment(markdownReplacer.Replace(buf.String()))
}

// literalHTMLRenderer shows raw HTML nodes as text instead of dropping them.
type literalHTMLRenderer struct{}

func (r literalHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
}

func (r literalHTMLRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		_, _ = w.WriteString(EscapeText(string(seg.Value(source))))
	}
	return ast.WalkSkipChildren, nil
}

func (r literalHTMLRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if entering {
		_, _ = w.WriteString("<p>")
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			_, _ = w.WriteString(EscapeText(string(line.Value(source))))
		}
		return ast.WalkContinue, nil
	}
	if n.HasClosure() {
		_, _ = w.WriteString(EscapeText(string(n.ClosureLine.Value(source))))
	}
	_, _ = w.WriteString("</p>\n")
	return ast.WalkContinue, nil
}
