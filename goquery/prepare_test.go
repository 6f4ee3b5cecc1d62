package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/collapse"
	"github.com/fwojciec/collapse/goquery"
	"github.com/fwojciec/collapse/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_PrepareCollapseBlocks(t *testing.T) {
	t.Parallel()

	t.Run("section gets control after its first element child", func(t *testing.T) {
		t.Parallel()

		p := preparedPage(t, `<section id="s" class="collapse"><h2>Title</h2><p>Body</p></section>`)

		control := find(t, p, "#s > h2 + input.disclosure-button")
		typ, _ := attrOf(control, "type")
		label, _ := attrOf(control, "aria-label")
		assert.Equal(t, "checkbox", typ)
		assert.Equal(t, collapse.DefaultAriaLabel, label)
		_, checked := attrOf(control, "checked")
		assert.False(t, checked)

		section := find(t, p, "#s")
		assert.Equal(t, []string{"collapse"}, classesOf(section))
		assert.True(t, p.IsCollapsed(section))
		assert.Equal(t, 1, p.Tree().Len())
	})

	t.Run("heading opts out", func(t *testing.T) {
		t.Parallel()

		p := preparedPage(t, `<h2 id="h" class="collapse">Title</h2>`)

		_, ok := attrOf(find(t, p, "#h"), "class")
		assert.False(t, ok, "empty class attribute should be dropped")
		assert.Equal(t, 0, count(p, ".disclosure-button"))
		assert.Equal(t, 0, p.Tree().Len())
	})

	t.Run("heading keeps its other classes", func(t *testing.T) {
		t.Parallel()

		p := preparedPage(t, `<h2 id="h" class="big collapse">Title</h2>`)

		assert.Equal(t, []string{"big"}, classesOf(find(t, p, "#h")))
	})

	t.Run("only child of a div promotes the div", func(t *testing.T) {
		t.Parallel()

		p := preparedPage(t, `<div id="d"><p id="p" class="collapse">Text</p></div>`)

		block := find(t, p, "#d")
		assert.Equal(t, []string{"collapse"}, classesOf(block))
		require.NotNil(t, block.FirstChild)
		assert.Equal(t, []string{"disclosure-button"}, classesOf(block.FirstChild))
		_, ok := attrOf(find(t, p, "#p"), "class")
		assert.False(t, ok)
	})

	t.Run("anything else is wrapped", func(t *testing.T) {
		t.Parallel()

		p := preparedPage(t, `<div id="d"><p>Before</p><blockquote id="q" class="collapse">Quote</blockquote></div>`)

		quote := find(t, p, "#q")
		wrapper := quote.Parent
		require.NotNil(t, wrapper)
		assert.Equal(t, "div", wrapper.Data)
		assert.Equal(t, []string{"collapse"}, classesOf(wrapper))
		parentID, _ := attrOf(wrapper.Parent, "id")
		assert.Equal(t, "d", parentID)
		assert.Equal(t, []string{"disclosure-button"}, classesOf(wrapper.FirstChild))
		assert.Equal(t, quote, wrapper.LastChild)
		assert.Empty(t, classesOf(quote))
	})

	t.Run("block containing the hash target starts expanded", func(t *testing.T) {
		t.Parallel()

		rec := &mock.Recorder{}
		p := preparedPage(t,
			`<section id="a" class="collapse"><h2>A</h2><p id="target">x</p></section>`+
				`<section id="b" class="collapse"><h2>B</h2><p>y</p></section>`,
			goquery.WithHash("#target"), goquery.WithNotifier(rec))

		a := find(t, p, "#a")
		b := find(t, p, "#b")
		assert.Contains(t, classesOf(a), "expanded")
		assert.False(t, p.IsCollapsed(a))
		_, checked := attrOf(p.ControlFor(a), "checked")
		assert.True(t, checked)

		assert.NotContains(t, classesOf(b), "expanded")
		assert.True(t, p.IsCollapsed(b))

		assert.Equal(t, []collapse.Event{{Name: collapse.EventCollapseStateDidChange, Source: collapse.SourcePrepare}}, rec.Events())
	})

	t.Run("one notification for several expanded blocks", func(t *testing.T) {
		t.Parallel()

		rec := &mock.Recorder{}
		preparedPage(t,
			`<section id="a" class="collapse"><h2>A</h2><section id="b" class="collapse"><h3>B</h3><p id="deep">x</p></section></section>`,
			goquery.WithHash("#deep"), goquery.WithNotifier(rec))

		assert.Equal(t, 1, rec.Count(collapse.EventCollapseStateDidChange, collapse.SourcePrepare))
	})

	t.Run("no notification without a hash target", func(t *testing.T) {
		t.Parallel()

		rec := &mock.Recorder{}
		preparedPage(t, `<section class="collapse"><h2>A</h2></section>`, goquery.WithNotifier(rec))

		assert.Empty(t, rec.Events())
	})

	t.Run("nested blocks link to their enclosing block", func(t *testing.T) {
		t.Parallel()

		p := preparedPage(t, `<section id="a" class="collapse"><h2>A</h2><section id="b" class="collapse"><h3>B</h3></section></section>`)

		a, ok := p.BlockID(find(t, p, "#a"))
		require.True(t, ok)
		b, ok := p.BlockID(find(t, p, "#b"))
		require.True(t, ok)
		assert.Equal(t, a, p.Tree().Parent(b))
		assert.Equal(t, collapse.NoBlock, p.Tree().Parent(a))
	})

	t.Run("custom aria label", func(t *testing.T) {
		t.Parallel()

		opts := collapse.DefaultOptions()
		opts.AriaLabel = "Toggle"
		p := preparedPage(t, `<section id="s" class="collapse"><h2>A</h2></section>`, goquery.WithOptions(opts))

		label, _ := attrOf(p.ControlFor(find(t, p, "#s")), "aria-label")
		assert.Equal(t, "Toggle", label)
	})

	t.Run("preparing again changes nothing", func(t *testing.T) {
		t.Parallel()

		p := preparedPage(t, `<div><p>a</p><p class="collapse">b</p></div><section class="collapse"><h2>S</h2></section>`)
		before, err := p.HTML()
		require.NoError(t, err)

		p.PrepareCollapseBlocks(p.Document().Selection)

		after, err := p.HTML()
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, 2, count(p, ".disclosure-button"))
	})

	t.Run("adopts already prepared markup", func(t *testing.T) {
		t.Parallel()

		p := preparedPage(t, `<div id="d" class="collapse expanded"><input type="checkbox" class="disclosure-button" checked="checked"><p>x</p></div>`)

		d := find(t, p, "#d")
		assert.Equal(t, 1, count(p, ".disclosure-button"))
		_, ok := p.BlockID(d)
		assert.True(t, ok)
		assert.False(t, p.IsCollapsed(d))
	})
}

func TestPage_PrepareCollapseBlocks_Deterministic(t *testing.T) {
	t.Parallel()

	body := `<section id="s" class="collapse"><h2>S</h2><div><pre class="collapse"><code>x</code></pre></div>` +
		`<p class="collapse">p</p><h3 class="collapse">h</h3></section>`

	fingerprint := func() uint64 {
		p := preparedPage(t, body, goquery.WithHash("#s"))
		fp, err := p.Fingerprint()
		require.NoError(t, err)
		return fp
	}

	first := fingerprint()
	for range 5 {
		assert.Equal(t, first, fingerprint())
	}

	t.Run("queries before preparation do not change the result", func(t *testing.T) {
		t.Parallel()

		body := `<div class="collapse" id="a"><p id="x">x</p><p>y</p></div>`
		p := newPage(t, body)

		assert.True(t, p.IsWithinCollapsedBlock(find(t, p, "#x")))
		assert.False(t, p.ExpandCollapseBlocksToReveal(find(t, p, "#x")))
		assert.Equal(t, 0, p.Tree().Len())

		p.PrepareCollapseBlocks(p.Document().Selection)

		assert.Equal(t, 1, count(p, "input.disclosure-button"))
		assert.True(t, p.IsWithinCollapsedBlock(find(t, p, "#x")))
		got, err := p.HTML()
		require.NoError(t, err)
		want, err := preparedPage(t, body).HTML()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestPage_Rewrite(t *testing.T) {
	t.Parallel()

	t.Run("prepares when collapsing is allowed", func(t *testing.T) {
		t.Parallel()

		p := newPage(t, `<section class="collapse"><h2>S</h2></section>`)
		p.Rewrite(p.Document().Selection)

		assert.Equal(t, 1, count(p, ".disclosure-button"))
		assert.Equal(t, 1, count(p, ".collapse"))
	})

	t.Run("flattens when collapsing is not allowed", func(t *testing.T) {
		t.Parallel()

		opts := collapse.DefaultOptions()
		opts.CollapseAllowed = false
		p := newPage(t, `<section class="collapse"><h2>S</h2></section>`, goquery.WithOptions(opts))
		p.Rewrite(p.Document().Selection)

		assert.Equal(t, 0, count(p, ".disclosure-button"))
		assert.Equal(t, 0, count(p, ".collapse"))
	})
}

func TestNewPage_InvalidOptions(t *testing.T) {
	t.Parallel()

	opts := collapse.DefaultOptions()
	opts.PopFrameSelector = "[["
	_, err := goquery.ParsePage(strings.NewReader("<p>x</p>"), goquery.WithOptions(opts))
	require.Error(t, err)
	assert.Equal(t, collapse.EINVALID, collapse.ErrorCode(err))
}
