package markdown_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/collapse"
	"github.com/fwojciec/collapse/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Renderer implements collapse.Renderer at compile time.
var _ collapse.Renderer = (*markdown.Renderer)(nil)

func render(t *testing.T, src string) *goquery.Document {
	t.Helper()
	out, err := markdown.NewRenderer().Render([]byte(src))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("heading attributes move to the section", func(t *testing.T) {
		t.Parallel()

		doc := render(t, "## Details {#details .collapse}\n\nHidden text.\n")

		section := doc.Find("section")
		require.Equal(t, 1, section.Length())
		id, _ := section.Attr("id")
		assert.Equal(t, "details", id)
		assert.True(t, section.HasClass("collapse"))
		assert.True(t, section.HasClass("level2"))

		heading := section.Children().First()
		assert.Equal(t, "h2", goquery.NodeName(heading))
		_, hasID := heading.Attr("id")
		assert.False(t, hasID)
		_, hasClass := heading.Attr("class")
		assert.False(t, hasClass)
		assert.Equal(t, "Hidden text.", section.Find("p").Text())
	})

	t.Run("sections nest by level", func(t *testing.T) {
		t.Parallel()

		doc := render(t, "# One\n\nintro\n\n## Sub\n\nsub text\n\n# Two\n\nmore\n")

		assert.Equal(t, 2, doc.Find("body > section.level1").Length())
		assert.Equal(t, 1, doc.Find("section#one > section#sub.level2").Length())
		assert.Equal(t, 0, doc.Find("section#two section").Length())
		assert.Equal(t, "more", doc.Find("section#two > p").Text())
	})

	t.Run("content before the first heading stays outside", func(t *testing.T) {
		t.Parallel()

		doc := render(t, "preface\n\n# One\n\nbody\n")

		assert.Equal(t, "preface", doc.Find("body > p").First().Text())
		assert.Equal(t, 1, doc.Find("section").Length())
	})

	t.Run("raw HTML passes through", func(t *testing.T) {
		t.Parallel()

		doc := render(t, "<div class=\"collapse\">\n\nhidden\n\n</div>\n")

		assert.Equal(t, 1, doc.Find("div.collapse").Length())
	})

	t.Run("tables use GFM", func(t *testing.T) {
		t.Parallel()

		doc := render(t, "| a | b |\n|---|---|\n| 1 | 2 |\n")

		assert.Equal(t, 1, doc.Find("table").Length())
	})

	t.Run("fenced code is highlighted", func(t *testing.T) {
		t.Parallel()

		doc := render(t, "## Code {#code .collapse}\n\n```go\nfunc main() {}\n```\n")

		pre := doc.Find("section#code pre")
		require.Equal(t, 1, pre.Length())
		style, ok := pre.Attr("style")
		assert.True(t, ok)
		assert.NotEmpty(t, style)
		assert.Contains(t, pre.Text(), "func main() {}")
	})
}
