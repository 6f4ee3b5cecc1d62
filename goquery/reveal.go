package goquery

import (
	"github.com/fwojciec/collapse"
	"golang.org/x/net/html"
)

// IsCollapsed reports whether block is collapsed. Unregistered elements are
// judged by their expanded class.
func (p *Page) IsCollapsed(block *html.Node) bool {
	if id, ok := p.blocks[block]; ok {
		return p.tree.IsCollapsed(id)
	}
	return !hasClass(block, ClassExpanded)
}

// IsWithinCollapsedBlock reports whether n is hidden by a collapsed block.
// Non-element nodes are judged by their parent element. Candidates that are
// not prepared yet are judged by their expanded class and stay unregistered.
func (p *Page) IsWithinCollapsedBlock(n *html.Node) bool {
	el := elementOf(n)
	if el == nil {
		return false
	}
	for n := el; n != nil; n = n.Parent {
		if id, ok := p.blocks[n]; ok {
			return p.tree.IsWithinCollapsed(id)
		}
		if isPreparedBlock(n) {
			return p.tree.IsWithinCollapsed(p.register(n, stateByClass(n)))
		}
		if hasClass(n, ClassCollapse) && !hasClass(n, ClassExpanded) {
			return true
		}
	}
	return false
}

// ExpandCollapseBlocksToReveal expands every collapsed block hiding n,
// innermost first, and reports whether any block was expanded. At most one
// SourceExpandToReveal notification is sent per call.
func (p *Page) ExpandCollapseBlocksToReveal(n *html.Node) bool {
	el := elementOf(n)
	if el == nil {
		return false
	}
	return p.tree.ExpandToReveal(p.enclosingBlock(el), p.notifier)
}

// RevealElement expands the blocks hiding n and, if scroll is set, scrolls
// n into view once layout settles. It reports whether any block expanded.
func (p *Page) RevealElement(n *html.Node, scroll bool) bool {
	if n == nil {
		return false
	}
	expanded := p.ExpandCollapseBlocksToReveal(n)
	if scroll {
		scroller := p.scrollerFor(n)
		p.afterLayout(func() {
			scroller.ScrollIntoView(n)
		})
	}
	return expanded
}

// RevealTarget reveals the hash target and scrolls to it. A
// targetDidReveal notification is sent only if blocks had to be expanded.
func (p *Page) RevealTarget() bool {
	target := p.HashTargetedElement()
	if target == nil {
		return false
	}
	if !p.RevealElement(target, true) {
		return false
	}
	p.notify(collapse.Event{Name: collapse.EventTargetDidReveal})
	return true
}

// LayoutDidComplete is called once hash handling is set up after the page
// is laid out. It reveals the current target and from then on reveals the
// target on every hash change.
func (p *Page) LayoutDidComplete() {
	p.RevealTarget()
	p.armed = true
}

// SetHash records a location hash change. Before LayoutDidComplete the
// hash only affects preparation; afterwards the new target is revealed.
func (p *Page) SetHash(hash string) {
	p.hash = hash
	if p.armed {
		p.RevealTarget()
	}
}

// SelectionDidChange reveals the start of a non-empty selection without
// scrolling, so find-in-page hits inside collapsed blocks become visible.
func (p *Page) SelectionDidChange(sel collapse.Selection) {
	if sel.IsEmpty() {
		return
	}
	p.ExpandCollapseBlocksToReveal(sel.Anchor)
}
