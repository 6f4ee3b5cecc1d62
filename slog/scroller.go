package slog

import (
	"log/slog"
	"strings"

	"github.com/fwojciec/collapse"
	"golang.org/x/net/html"
)

// Ensure LoggingScroller implements collapse.Scroller.
var _ collapse.Scroller = (*LoggingScroller)(nil)

// LoggingScroller wraps a Scroller and logs scroll requests.
type LoggingScroller struct {
	next   collapse.Scroller
	logger *slog.Logger
	name   string
}

// NewLoggingScroller creates a new LoggingScroller. name tells the main
// document scroller apart from the pop-frame one.
func NewLoggingScroller(next collapse.Scroller, name string, logger *slog.Logger) *LoggingScroller {
	return &LoggingScroller{next: next, logger: logger, name: name}
}

// ScrollIntoView logs the request and delegates to the wrapped scroller.
func (s *LoggingScroller) ScrollIntoView(n *html.Node) {
	s.logger.Info("scroll into view",
		"scroller", s.name,
		"element", Describe(n),
	)
	s.next.ScrollIntoView(n)
}

// Describe renders a short selector-like description of n, such as
// section#intro.collapse.
func Describe(n *html.Node) string {
	for n != nil && n.Type != html.ElementNode {
		n = n.Parent
	}
	if n == nil {
		return "(none)"
	}
	var b strings.Builder
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		switch a.Key {
		case "id":
			b.WriteString("#")
			b.WriteString(a.Val)
		case "class":
			for _, c := range strings.Fields(a.Val) {
				b.WriteString(".")
				b.WriteString(c)
			}
		}
	}
	return b.String()
}
