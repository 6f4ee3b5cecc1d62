// Package markdown renders Markdown to HTML with goldmark. Headings and
// their content are wrapped in section elements that carry the heading's
// attributes, so `## Details {#details .collapse}` yields a collapsible
// section.
package markdown

import (
	"bytes"

	"github.com/fwojciec/collapse"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Ensure Renderer implements collapse.Renderer.
var _ collapse.Renderer = (*Renderer)(nil)

// Renderer converts Markdown to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// HighlightStyle is the chroma style used for fenced code blocks.
const HighlightStyle = "github"

// NewRenderer returns a Renderer. Extra goldmark options are applied after
// the defaults.
func NewRenderer(options ...goldmark.Option) *Renderer {
	options = append([]goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(HighlightStyle),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAttribute(),
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(NewSectionTransformer(), 2000),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(NewSectionRenderer(), 2000),
			),
		),
	}, options...)
	return &Renderer{md: goldmark.New(options...)}
}

// Render converts Markdown source to an HTML fragment.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", collapse.Errorf(collapse.EINTERNAL, "failed to render markdown: %v", err)
	}
	return buf.String(), nil
}
