package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/fwojciec/collapse"
	"github.com/fwojciec/collapse/bloom"
	"github.com/fwojciec/collapse/bus"
	"github.com/fwojciec/collapse/goquery"
	colslog "github.com/fwojciec/collapse/slog"
	"golang.org/x/net/html"
)

// Run executes the replay command.
func (c *ReplayCmd) Run(deps *Dependencies) error {
	script, err := readScript(c.Script)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", collapse.ErrorMessage(err))
		return err
	}

	ctx := deps.Ctx
	out := deps.Stdout
	var clock replayClock = newVirtualClock()
	if c.Realtime {
		clock = newRealtimeClock(ctx)
	}
	defer clock.Close()

	events := colslog.NewLoggingBus(bus.New(), deps.Logger)
	for _, name := range []collapse.EventName{collapse.EventCollapseStateDidChange, collapse.EventTargetDidReveal} {
		events.Subscribe(name, func(e collapse.Event) {
			if e.Source != "" {
				fmt.Fprintf(out, "  event %s (%s)\n", e.Name, e.Source)
				return
			}
			fmt.Fprintf(out, "  event %s\n", e.Name)
		})
	}

	scroller := func(name string) collapse.Scroller {
		printer := collapse.ScrollerFunc(func(n *html.Node) {
			fmt.Fprintf(out, "  scroll %s %s\n", name, colslog.Describe(n))
		})
		return colslog.NewLoggingScroller(printer, name, deps.Logger)
	}

	opts := []goquery.PageOption{
		goquery.WithOptions(deps.Config.Options()),
		goquery.WithNotifier(events),
		goquery.WithScheduler(clock),
		goquery.WithScroller(scroller("main")),
		goquery.WithPopFrameScroller(scroller("popframe")),
	}
	if script.Location != "" {
		u, err := url.Parse(script.Location)
		if err != nil {
			err = collapse.Errorf(collapse.EINVALID, "invalid script location %q: %v", script.Location, err)
			fmt.Fprintf(deps.Stderr, "error: %s\n", collapse.ErrorMessage(err))
			return err
		}
		opts = append(opts, goquery.WithLocation(u))
	}
	if script.Hash != "" {
		opts = append(opts, goquery.WithHash(normalizeHash(script.Hash)))
	}

	r := &replayer{viewport: newScriptViewport()}
	var setupErr error
	if err := clock.Do(ctx, func() {
		setupErr = r.setup(ctx, deps, c.Input, clock, opts)
	}); err != nil {
		return err
	}
	if setupErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", collapse.ErrorMessage(setupErr))
		return setupErr
	}

	for i := range script.Steps {
		step := &script.Steps[i]
		var stepErr error
		if err := clock.Do(ctx, func() {
			fmt.Fprintf(out, "step %d: %s\n", i+1, describeStep(step))
			stepErr = r.run(step)
		}); err != nil {
			return err
		}
		if stepErr == nil && step.Action() == "wait" {
			stepErr = clock.Wait(ctx, step.Wait)
		}
		if stepErr != nil {
			err := fmt.Errorf("step %d: %w", i+1, stepErr)
			fmt.Fprintf(deps.Stderr, "error: step %d: %s\n", i+1, collapse.ErrorMessage(err))
			return err
		}
	}

	var content string
	var renderErr error
	if err := clock.Do(ctx, func() {
		for _, u := range r.prefetcher.Prefetched() {
			fmt.Fprintf(out, "prefetched %s\n", u)
		}
		content, renderErr = r.page.HTML()
	}); err != nil {
		return err
	}
	if renderErr != nil {
		return renderErr
	}
	fmt.Fprintln(out, content)
	return nil
}

func readScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, collapse.Errorf(collapse.ENOTFOUND, "script not found: %s", path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseScript(f)
}

// replayer applies script steps to a page.
type replayer struct {
	page       *goquery.Page
	controller *goquery.Controller
	prefetcher *goquery.Prefetcher
	viewport   *scriptViewport
}

// setup loads and prepares the page and activates its controls.
func (r *replayer) setup(ctx context.Context, deps *Dependencies, input string, clock replayClock, opts []goquery.PageOption) error {
	page, err := loadPage(ctx, deps, input, opts...)
	if err != nil {
		return err
	}

	frag := page.Document().Selection
	if err := goquery.NewRewriter().Rewrite(frag); err != nil {
		return err
	}
	page.Rewrite(frag)

	r.page = page
	r.controller = goquery.NewController(page, r.viewport, clock)
	attached := r.controller.Activate(frag)
	r.prefetcher = goquery.NewPrefetcher(page, clock, bloom.NewFilter(bloom.DefaultCapacity, bloom.DefaultFPRate))

	fmt.Fprintf(deps.Stdout, "prepared %d blocks, %d controls\n", len(page.Blocks()), attached)
	return nil
}

func (r *replayer) run(step *Step) error {
	switch step.Action() {
	case "hash":
		r.page.SetHash(normalizeHash(*step.Hash))
	case "layout":
		r.page.LayoutDidComplete()
	case "select":
		n, err := r.find(step.Select)
		if err != nil {
			return err
		}
		text := r.page.Document().FindNodes(n).Text()
		r.page.SelectionDidChange(collapse.Selection{Anchor: n, Text: text})
	case "hover":
		control, _, err := r.control(step.Hover)
		if err != nil {
			return err
		}
		r.controller.PointerEnter(control)
	case "leave":
		control, _, err := r.control(step.Leave)
		if err != nil {
			return err
		}
		r.controller.PointerLeaveControl(control)
	case "leaveBlock":
		n, err := r.find(step.LeaveBlock)
		if err != nil {
			return err
		}
		r.controller.PointerLeaveBlock(n)
	case "click":
		n, err := r.find(step.Click)
		if err != nil {
			return err
		}
		r.controller.Click(n)
	case "toggle":
		control, block, err := r.control(step.Toggle)
		if err != nil {
			return err
		}
		checked := r.page.IsCollapsed(block)
		if step.Checked != nil {
			checked = *step.Checked
		}
		if !r.controller.Toggle(control, checked) {
			return collapse.Errorf(collapse.EINVALID, "control at %q is not active", step.Toggle)
		}
	case "wait":
		// The clock lets the time pass once the step returns.
	case "offscreen":
		n, err := r.find(step.Offscreen)
		if err != nil {
			return err
		}
		r.viewport.hide(n)
	case "onscreen":
		n, err := r.find(step.Onscreen)
		if err != nil {
			return err
		}
		r.viewport.show(n)
	case "prefetch":
		n, err := r.find(step.Prefetch)
		if err != nil {
			return err
		}
		r.prefetcher.PointerOver(n)
	case "unhover":
		n, err := r.find(step.Unhover)
		if err != nil {
			return err
		}
		r.prefetcher.PointerOut(n, nil)
	}
	return nil
}

// find returns the first element matching selector.
func (r *replayer) find(selector string) (*html.Node, error) {
	s := r.page.Document().Find(selector)
	if s.Length() == 0 {
		return nil, collapse.Errorf(collapse.ENOTFOUND, "no element matches %q", selector)
	}
	return s.Get(0), nil
}

// control returns the disclosure control named by selector and its block.
func (r *replayer) control(selector string) (control, block *html.Node, err error) {
	n, err := r.find(selector)
	if err != nil {
		return nil, nil, err
	}
	s := r.page.Document().FindNodes(n)
	if s.HasClass(goquery.ClassDisclosureButton) {
		control = n
	}
	b := s.Closest("." + goquery.ClassCollapse)
	if b.Length() == 0 {
		return nil, nil, collapse.Errorf(collapse.ENOTFOUND, "no collapse block at %q", selector)
	}
	block = b.Get(0)
	if control == nil {
		control = r.page.ControlFor(block)
	}
	if control == nil {
		return nil, nil, collapse.Errorf(collapse.ENOTFOUND, "no disclosure control at %q", selector)
	}
	return control, block, nil
}

func describeStep(s *Step) string {
	action := s.Action()
	switch action {
	case "hash":
		return action + " " + *s.Hash
	case "layout":
		return action
	case "wait":
		return action + " " + s.Wait.String()
	case "toggle":
		if s.Checked != nil {
			return fmt.Sprintf("%s %s checked=%t", action, s.Toggle, *s.Checked)
		}
		return action + " " + s.Toggle
	}
	return action + " " + s.argument()
}

func (s *Step) argument() string {
	for _, v := range []string{s.Select, s.Hover, s.Leave, s.LeaveBlock, s.Click, s.Offscreen, s.Onscreen, s.Prefetch, s.Unhover} {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ collapse.Viewport = (*scriptViewport)(nil)

// scriptViewport is a viewport in which every element is on screen at the
// top of the viewport unless a step moved it off screen.
type scriptViewport struct {
	hidden map[*html.Node]bool
}

func newScriptViewport() *scriptViewport {
	return &scriptViewport{hidden: make(map[*html.Node]bool)}
}

func (v *scriptViewport) hide(n *html.Node) { v.hidden[n] = true }
func (v *scriptViewport) show(n *html.Node) { delete(v.hidden, n) }

func (v *scriptViewport) IsOnScreen(n *html.Node) bool {
	return !v.hidden[n]
}

// Top reports hidden elements as above the viewport.
func (v *scriptViewport) Top(n *html.Node) float64 {
	if v.hidden[n] {
		return -1
	}
	return 0
}
