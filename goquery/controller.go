package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/collapse"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// disclosure is the interaction state attached to one control.
type disclosure struct {
	id      collapse.BlockID
	control *html.Node
	hover   collapse.Hover

	dwell   collapse.Timer
	restore collapse.Timer
}

// Controller handles user interaction with the disclosure controls of a
// page: toggling, expand-on-hover and the scroll corrections that follow a
// state change. All inputs must arrive on the scheduler's goroutine.
type Controller struct {
	page      *Page
	viewport  collapse.Viewport
	scheduler collapse.Scheduler

	attached  map[collapse.BlockID]*disclosure
	byControl map[*html.Node]*disclosure
}

// NewController returns a Controller for page.
func NewController(page *Page, viewport collapse.Viewport, scheduler collapse.Scheduler) *Controller {
	return &Controller{
		page:      page,
		viewport:  viewport,
		scheduler: scheduler,
		attached:  make(map[collapse.BlockID]*disclosure),
		byControl: make(map[*html.Node]*disclosure),
	}
}

// Activate attaches interaction handling to every control in frag that is
// not attached yet and returns how many were attached. It does nothing when
// collapsing is not allowed.
func (c *Controller) Activate(frag *goquery.Selection) int {
	if !c.page.opts.CollapseAllowed {
		return 0
	}
	count := 0
	for _, control := range frag.FindMatcher(controlSelector).Nodes {
		if _, ok := c.byControl[control]; ok {
			continue
		}
		id := c.page.enclosingBlock(control)
		if id == collapse.NoBlock {
			continue
		}
		if _, ok := c.attached[id]; ok {
			continue
		}
		d := &disclosure{id: id, control: control}
		c.attached[id] = d
		c.byControl[control] = d
		count++
	}
	return count
}

// IsAttached reports whether control has interaction handling.
func (c *Controller) IsAttached(control *html.Node) bool {
	_, ok := c.byControl[control]
	return ok
}

// HoverState returns the hover state of control.
func (c *Controller) HoverState(control *html.Node) collapse.HoverState {
	if d, ok := c.byControl[control]; ok {
		return d.hover.State()
	}
	return collapse.HoverIdle
}

// Toggle handles the user changing control to checked. It reports whether
// the control is attached.
func (c *Controller) Toggle(control *html.Node, checked bool) bool {
	d, ok := c.byControl[control]
	if !ok {
		return false
	}
	c.stateChanged(d, checked)
	return true
}

// PointerEnter handles the pointer entering control.
func (c *Controller) PointerEnter(control *html.Node) {
	if d, ok := c.byControl[control]; ok {
		c.apply(d, d.hover.Enter())
	}
}

// PointerLeaveControl handles the pointer leaving control.
func (c *Controller) PointerLeaveControl(control *html.Node) {
	if d, ok := c.byControl[control]; ok {
		c.apply(d, d.hover.LeaveControl())
	}
}

// PointerLeaveBlock handles the pointer leaving the block enclosing n.
func (c *Controller) PointerLeaveBlock(n *html.Node) {
	if d := c.disclosureFor(n); d != nil {
		c.apply(d, d.hover.LeaveBlock())
	}
}

// Click handles a click on n. Clicks propagate, so every temporarily
// expanded block enclosing n is committed.
func (c *Controller) Click(n *html.Node) {
	el := elementOf(n)
	if el == nil {
		return
	}
	for _, id := range c.page.tree.Ancestors(c.page.enclosingBlock(el)) {
		if d, ok := c.attached[id]; ok {
			c.apply(d, d.hover.Click())
		}
	}
}

func (c *Controller) disclosureFor(n *html.Node) *disclosure {
	el := elementOf(n)
	if el == nil {
		return nil
	}
	return c.attached[c.page.enclosingBlock(el)]
}

func (c *Controller) apply(d *disclosure, action collapse.HoverAction) {
	switch action {
	case collapse.HoverStartTimer:
		c.stopDwell(d)
		d.dwell = c.scheduler.AfterFunc(c.page.opts.HoverDelay, func() {
			d.dwell = nil
			c.apply(d, d.hover.Fire(c.page.tree.IsCollapsed(d.id)))
		})
	case collapse.HoverCancelTimer:
		c.stopDwell(d)
	case collapse.HoverExpand:
		c.stateChanged(d, true)
		addClass(d.control, ClassExpandedTemp)
	case collapse.HoverCommit:
		removeClass(d.control, ClassExpandedTemp)
	case collapse.HoverRevert:
		c.stateChanged(d, false)
		removeClass(d.control, ClassExpandedTemp)
	}
}

func (c *Controller) stopDwell(d *disclosure) {
	if d.dwell != nil {
		d.dwell.Stop()
		d.dwell = nil
	}
}

// stateChanged applies a new control state to its block. The notification
// is sent even when the block element is gone.
func (c *Controller) stateChanged(d *disclosure, checked bool) {
	state := collapse.Collapsed
	if checked {
		state = collapse.Expanded
	}
	c.page.tree.SetState(d.id, state)
	setChecked(d.control, checked)

	if block := c.page.Block(d.id); block != nil {
		if !checked {
			c.suppressTransition(d)
		}
		resetCodeHeight(block)

		// A block collapsed from the bottom may now be above the viewport; one
		// expanded from the bottom may have its top above it.
		if (!checked && !c.viewport.IsOnScreen(block)) || (checked && c.viewport.Top(block) < 0) {
			c.scrollIntoView(block)
		}
	}

	c.page.notify(collapse.Event{Name: collapse.EventCollapseStateDidChange, Source: collapse.SourceDisclosureButton})
}

// scrollIntoView scrolls pop-frame blocks right away and main document
// blocks once layout completes.
func (c *Controller) scrollIntoView(block *html.Node) {
	if c.page.inPopFrame(block) {
		c.page.popScroller.ScrollIntoView(block)
		return
	}
	scroller := c.page.scroller
	c.page.afterLayout(func() {
		scroller.ScrollIntoView(block)
	})
}

func (c *Controller) suppressTransition(d *disclosure) {
	if d.restore != nil {
		d.restore.Stop()
	}
	setStyleProperty(d.control, "transition", "none")
	d.restore = c.scheduler.AfterFunc(c.page.opts.TransitionSuppression, func() {
		d.restore = nil
		removeStyleProperty(d.control, "transition")
	})
}

// resetCodeHeight clears a fixed height on the code element of a block
// ending in a code listing.
func resetCodeHeight(block *html.Node) {
	pre := lastElementChild(block)
	if pre == nil || pre.DataAtom != atom.Pre {
		return
	}
	code := lastElementChild(pre)
	if code == nil || code.DataAtom != atom.Code {
		return
	}
	removeStyleProperty(code, "height")
}
