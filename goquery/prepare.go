package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/collapse"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Rewrite runs the structural pass selected by the page options: when
// collapsing is allowed the fragment's blocks are prepared, otherwise they
// are permanently flattened.
func (p *Page) Rewrite(frag *goquery.Selection) {
	if p.opts.CollapseAllowed {
		p.PrepareCollapseBlocks(frag)
		return
	}
	p.ExpandLockCollapseBlocks(frag)
}

// PrepareCollapseBlocks turns every element in frag carrying the collapse
// class into a block with a disclosure control. Candidates are handled in
// document order:
//
//   - a section keeps its class and gets the control after its first
//     element child;
//   - a heading opts out and loses the class;
//   - an element that is the only element child of a div promotes that div
//     to the block and gives it the control as first child;
//   - anything else is wrapped in a new div block.
//
// A block starts expanded when the hash target is the candidate or inside
// it. If any block started expanded, one SourcePrepare notification is sent
// after the pass.
func (p *Page) PrepareCollapseBlocks(frag *goquery.Selection) {
	target := p.HashTargetedElement()
	startedExpanded := false

	for _, candidate := range frag.FindMatcher(collapseSelector).Nodes {
		if _, ok := p.blocks[candidate]; ok {
			continue
		}
		if findControl(candidate) != nil {
			// Already prepared markup; adopt it as is.
			p.enclosingBlock(candidate)
			continue
		}

		expanded := target != nil && contains(candidate, target)

		var block *html.Node
		switch {
		case candidate.DataAtom == atom.Section:
			block = candidate
			control := p.newControl(expanded)
			if first := firstElementChild(candidate); first != nil {
				candidate.InsertBefore(control, first.NextSibling)
			} else {
				candidate.InsertBefore(control, candidate.FirstChild)
			}
		case isHeading(candidate):
			removeClass(candidate, ClassCollapse)
			continue
		case candidate.Parent != nil && candidate.Parent.DataAtom == atom.Div && elementChildCount(candidate.Parent) == 1:
			block = candidate.Parent
			removeClass(candidate, ClassCollapse)
			addClass(block, ClassCollapse)
			block.InsertBefore(p.newControl(expanded), block.FirstChild)
		default:
			block = newElement(atom.Div, html.Attribute{Key: "class", Val: ClassCollapse})
			removeClass(candidate, ClassCollapse)
			wrap(candidate, block)
			block.InsertBefore(p.newControl(expanded), candidate)
		}

		state := collapse.Collapsed
		if expanded {
			state = collapse.Expanded
			startedExpanded = true
		}
		setClass(block, ClassExpanded, expanded)
		p.register(block, state)
	}

	if startedExpanded {
		p.notify(collapse.Event{Name: collapse.EventCollapseStateDidChange, Source: collapse.SourcePrepare})
	}
}

func (p *Page) newControl(checked bool) *html.Node {
	control := newElement(atom.Input,
		html.Attribute{Key: "type", Val: "checkbox"},
		html.Attribute{Key: "class", Val: ClassDisclosureButton},
		html.Attribute{Key: "aria-label", Val: p.opts.AriaLabel},
	)
	setChecked(control, checked)
	return control
}

// ExpandLockCollapseBlocks permanently flattens every block in frag:
// controls are removed, the collapse and expanded classes are stripped and
// a redundant plain div level is unwrapped. Each block that was collapsed
// sends one SourceExpandLock notification. Flattened blocks leave the
// registry.
func (p *Page) ExpandLockCollapseBlocks(frag *goquery.Selection) {
	for _, control := range frag.FindMatcher(controlSelector).Nodes {
		detach(control)
	}

	for _, block := range frag.FindMatcher(collapseSelector).Nodes {
		wasCollapsed := p.IsCollapsed(block)

		if id, ok := p.blocks[block]; ok {
			// Detach the element first so the state change is not projected
			// back onto markup that is being flattened.
			p.nodes[id] = nil
			delete(p.blocks, block)
			p.tree.SetState(id, collapse.Expanded)
		}

		removeClass(block, ClassCollapse)
		removeClass(block, ClassExpanded)

		if child := firstElementChild(block); child != nil && isPlainDiv(child) && isOnlyChild(child) {
			unwrap(child)
		} else if isPlainDiv(block) && child != nil && isOnlyChild(child) {
			unwrap(block)
		}

		if wasCollapsed {
			p.notify(collapse.Event{Name: collapse.EventCollapseStateDidChange, Source: collapse.SourceExpandLock})
		}
	}
}

// isPlainDiv reports whether n is a div without classes.
func isPlainDiv(n *html.Node) bool {
	return n.DataAtom == atom.Div && className(n) == ""
}
