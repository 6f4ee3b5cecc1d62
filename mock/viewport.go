package mock

import (
	"github.com/fwojciec/collapse"
	"golang.org/x/net/html"
)

var _ collapse.Viewport = (*Viewport)(nil)

// Viewport is a mock implementation of collapse.Viewport.
type Viewport struct {
	IsOnScreenFn func(n *html.Node) bool
	TopFn        func(n *html.Node) float64
}

func (v *Viewport) IsOnScreen(n *html.Node) bool {
	if v.IsOnScreenFn == nil {
		return true
	}
	return v.IsOnScreenFn(n)
}

func (v *Viewport) Top(n *html.Node) float64 {
	if v.TopFn == nil {
		return 0
	}
	return v.TopFn(n)
}

var _ collapse.Scroller = (*Scroller)(nil)

// Scroller is a mock implementation of collapse.Scroller that records the
// nodes it was asked to scroll to.
type Scroller struct {
	ScrollIntoViewFn func(n *html.Node)
	Scrolled         []*html.Node
}

func (s *Scroller) ScrollIntoView(n *html.Node) {
	s.Scrolled = append(s.Scrolled, n)
	if s.ScrollIntoViewFn != nil {
		s.ScrollIntoViewFn(n)
	}
}
