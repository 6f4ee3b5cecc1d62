package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/collapse"
	"github.com/fwojciec/collapse/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements collapse.Converter at compile time.
var _ collapse.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts a flattened section", func(t *testing.T) {
		t.Parallel()

		html := `<section id="details"><h2>Details</h2><p>Hidden <strong>text</strong>.</p></section>`

		md, err := htmltomarkdown.NewConverter("").Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "## Details")
		assert.Contains(t, md, "Hidden **text**.")
	})

	t.Run("converts code blocks with language hint", func(t *testing.T) {
		t.Parallel()

		html := `<pre><code class="language-go">package main
</code></pre>`

		md, err := htmltomarkdown.NewConverter("").Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "```go")
		assert.Contains(t, md, "package main")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<div class="tableWrapper"><table>
<thead><tr><th>Name</th><th>Age</th></tr></thead>
<tbody><tr><td>Alice</td><td>30</td></tr></tbody>
</table></div>`

		md, err := htmltomarkdown.NewConverter("").Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Name")
		assert.Contains(t, md, "Alice")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("resolves relative links against the domain", func(t *testing.T) {
		t.Parallel()

		html := `<p>See <a href="/docs/intro">intro</a>.</p>`

		md, err := htmltomarkdown.NewConverter("https://example.com").Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[intro](https://example.com/docs/intro)")
	})

	t.Run("keeps relative links without a domain", func(t *testing.T) {
		t.Parallel()

		html := `<p>See <a href="/docs/intro">intro</a>.</p>`

		md, err := htmltomarkdown.NewConverter("").Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[intro](/docs/intro)")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter("").Convert("  ")

		require.Error(t, err)
		assert.Equal(t, collapse.EINVALID, collapse.ErrorCode(err))
	})
}
