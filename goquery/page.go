// Package goquery implements collapsible blocks over HTML documents parsed
// with goquery and golang.org/x/net/html.
package goquery

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/collapse"
	"golang.org/x/net/html"
)

// Ensure Page implements collapse.Revealer.
var _ collapse.Revealer = (*Page)(nil)

// Page is a parsed document with its registry of collapse blocks. The block
// tree owns every registered block's state; the collapse and expanded
// classes and the controls' checked attributes are projected from it.
//
// A Page is not safe for concurrent use. Drive it from a single goroutine,
// such as a runloop.Loop.
type Page struct {
	doc  *goquery.Document
	tree *collapse.Tree

	blocks map[*html.Node]collapse.BlockID
	nodes  []*html.Node // block element by id; nil once flattened

	location *url.URL
	hash     string
	armed    bool

	opts        collapse.Options
	popFrame    cascadia.Selector
	notifier    collapse.Notifier
	scheduler   collapse.Scheduler
	scroller    collapse.Scroller
	popScroller collapse.Scroller
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithOptions sets the page options.
func WithOptions(opts collapse.Options) PageOption {
	return func(p *Page) {
		p.opts = opts
	}
}

// WithNotifier sets where the page sends its events.
func WithNotifier(n collapse.Notifier) PageOption {
	return func(p *Page) {
		p.notifier = n
	}
}

// WithScheduler sets the scheduler used to defer scrolling until layout
// settles. Without one, deferred work runs immediately.
func WithScheduler(s collapse.Scheduler) PageOption {
	return func(p *Page) {
		p.scheduler = s
	}
}

// WithScroller sets the main document scroller.
func WithScroller(s collapse.Scroller) PageOption {
	return func(p *Page) {
		p.scroller = s
	}
}

// WithPopFrameScroller sets the scroller for content inside pop-frames.
func WithPopFrameScroller(s collapse.Scroller) PageOption {
	return func(p *Page) {
		p.popScroller = s
	}
}

// WithHash sets the initial location hash, including the leading '#'.
func WithHash(hash string) PageOption {
	return func(p *Page) {
		p.hash = hash
	}
}

// WithLocation sets the page location. Its fragment becomes the initial
// location hash.
func WithLocation(u *url.URL) PageOption {
	return func(p *Page) {
		p.location = u
		if u != nil && u.Fragment != "" {
			p.hash = "#" + u.EscapedFragment()
		}
	}
}

// NewPage returns a Page over doc.
func NewPage(doc *goquery.Document, opts ...PageOption) (*Page, error) {
	p := &Page{
		doc:         doc,
		tree:        collapse.NewTree(),
		blocks:      make(map[*html.Node]collapse.BlockID),
		opts:        collapse.DefaultOptions(),
		scroller:    collapse.ScrollerFunc(func(*html.Node) {}),
		popScroller: collapse.ScrollerFunc(func(*html.Node) {}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.opts.Validate(); err != nil {
		return nil, err
	}
	sel, err := cascadia.Compile(p.opts.PopFrameSelector)
	if err != nil {
		return nil, collapse.Errorf(collapse.EINVALID, "invalid pop-frame selector %q: %v", p.opts.PopFrameSelector, err)
	}
	p.popFrame = sel
	p.tree.Observe(p.project)
	return p, nil
}

// ParsePage parses an HTML document from r.
func ParsePage(r io.Reader, opts ...PageOption) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, collapse.Errorf(collapse.EINVALID, "failed to parse HTML: %v", err)
	}
	return NewPage(doc, opts...)
}

// Document returns the underlying document.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Tree returns the block tree.
func (p *Page) Tree() *collapse.Tree {
	return p.tree
}

// Options returns the page options.
func (p *Page) Options() collapse.Options {
	return p.opts
}

// HTML renders the document.
func (p *Page) HTML() (string, error) {
	var buf bytes.Buffer
	for _, n := range p.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", collapse.Errorf(collapse.EINTERNAL, "failed to render HTML: %v", err)
		}
	}
	return buf.String(), nil
}

// Fingerprint returns a hash of the rendered document. Two pages with the
// same markup have the same fingerprint.
func (p *Page) Fingerprint() (uint64, error) {
	s, err := p.HTML()
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64String(s), nil
}

// ElementByID returns the element whose id attribute is id, or nil.
func (p *Page) ElementByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	var found *html.Node
	p.doc.FindMatcher(cascadia.Selector(func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = s.Get(0)
		return false
	})
	return found
}

// Block returns the block element registered under id, or nil.
func (p *Page) Block(id collapse.BlockID) *html.Node {
	if id < 0 || int(id) >= len(p.nodes) {
		return nil
	}
	return p.nodes[id]
}

// BlockID returns the id of the registered block element n.
func (p *Page) BlockID(n *html.Node) (collapse.BlockID, bool) {
	id, ok := p.blocks[n]
	return id, ok
}

// ControlFor returns the disclosure control of block, or nil.
func (p *Page) ControlFor(block *html.Node) *html.Node {
	if block == nil {
		return nil
	}
	return findControl(block)
}

// Blocks returns all registered block elements in registration order.
func (p *Page) Blocks() []*html.Node {
	var out []*html.Node
	for _, n := range p.nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// register adds block to the tree with state unless it is already known.
// The enclosing block is registered first so the parent link is available.
func (p *Page) register(block *html.Node, state collapse.State) collapse.BlockID {
	if id, ok := p.blocks[block]; ok {
		return id
	}
	parent := p.enclosingBlock(block.Parent)
	id := p.tree.Add(parent, state)
	p.blocks[block] = id
	p.nodes = append(p.nodes, block)
	return id
}

// enclosingBlock returns the innermost block that is n or contains n.
// Blocks prepared outside this page (collapse class plus a control) are
// registered on the way, taking their state from the expanded class.
// Candidates without a control are not blocks yet and are skipped.
func (p *Page) enclosingBlock(n *html.Node) collapse.BlockID {
	for ; n != nil; n = n.Parent {
		if id, ok := p.blocks[n]; ok {
			return id
		}
		if isPreparedBlock(n) {
			return p.register(n, stateByClass(n))
		}
	}
	return collapse.NoBlock
}

func isPreparedBlock(n *html.Node) bool {
	return hasClass(n, ClassCollapse) && findControl(n) != nil
}

func stateByClass(n *html.Node) collapse.State {
	if hasClass(n, ClassExpanded) {
		return collapse.Expanded
	}
	return collapse.Collapsed
}

// project writes a state change through to markup.
func (p *Page) project(id collapse.BlockID, state collapse.State) {
	block := p.Block(id)
	if block == nil {
		return
	}
	expanded := state == collapse.Expanded
	setClass(block, ClassExpanded, expanded)
	if control := findControl(block); control != nil {
		setChecked(control, expanded)
	}
}

func (p *Page) notify(e collapse.Event) {
	if p.notifier != nil {
		p.notifier.Notify(e)
	}
}

func (p *Page) afterLayout(f func()) {
	if p.scheduler == nil {
		f()
		return
	}
	p.scheduler.AfterLayout(f)
}

func (p *Page) inPopFrame(n *html.Node) bool {
	return closest(n, p.popFrame) != nil
}

// scrollerFor returns the scroller responsible for n.
func (p *Page) scrollerFor(n *html.Node) collapse.Scroller {
	if p.inPopFrame(n) {
		return p.popScroller
	}
	return p.scroller
}

// Location returns the page location, or nil if it is unknown.
func (p *Page) Location() *url.URL {
	return p.location
}

// Hash returns the current location hash.
func (p *Page) Hash() string {
	return p.hash
}

// HashTargetedElement returns the element whose id equals the decoded
// location hash, or nil when the hash is empty or matches nothing.
func (p *Page) HashTargetedElement() *html.Node {
	if len(p.hash) <= 1 || !strings.HasPrefix(p.hash, "#") {
		return nil
	}
	id, err := url.PathUnescape(p.hash[1:])
	if err != nil {
		id = p.hash[1:]
	}
	return p.ElementByID(id)
}
