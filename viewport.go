package collapse

import "golang.org/x/net/html"

// Viewport answers geometry questions about rendered elements.
type Viewport interface {
	// IsOnScreen reports whether any part of n is inside the viewport.
	IsOnScreen(n *html.Node) bool

	// Top returns the distance of n's top edge from the top of the
	// viewport. Negative values are above the viewport.
	Top(n *html.Node) float64
}

// Scroller scrolls elements into view. The main document and pop-frames
// each have one.
type Scroller interface {
	ScrollIntoView(n *html.Node)
}

// ScrollerFunc adapts a function to Scroller.
type ScrollerFunc func(n *html.Node)

// ScrollIntoView calls f(n).
func (f ScrollerFunc) ScrollIntoView(n *html.Node) {
	f(n)
}

// Selection is a live text selection. Anchor is the node where the
// selection starts; Text is the selected text.
type Selection struct {
	Anchor *html.Node
	Text   string
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.Anchor == nil || len(s.Text) == 0
}

// Revealer is the query API other page subsystems (sidenotes, transclusion,
// pop-frames) use to check and change the visibility of content.
type Revealer interface {
	// IsWithinCollapsedBlock reports whether n is hidden by a collapsed
	// block anywhere in its ancestor chain.
	IsWithinCollapsedBlock(n *html.Node) bool

	// RevealElement expands every block hiding n and, if scroll is set,
	// scrolls n into view after layout settles. It reports whether any block
	// was expanded.
	RevealElement(n *html.Node, scroll bool) bool

	// HashTargetedElement returns the element targeted by the current URL
	// hash, or nil.
	HashTargetedElement() *html.Node
}
