package goquery

import (
	"net/url"

	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/collapse"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	anchorSelector = cascadia.MustCompile("a[href]")
	headSelector   = cascadia.MustCompile("head")
)

// Prefetcher prefetches the target of a link once the pointer has rested
// on it for the prefetch delay, by appending a prefetch hint to the
// document head. Each URL is prefetched at most once.
type Prefetcher struct {
	page      *Page
	scheduler collapse.Scheduler
	seen      collapse.URLFilter

	pending    collapse.Timer
	prefetched []string
}

// NewPrefetcher returns a Prefetcher for page.
func NewPrefetcher(page *Page, scheduler collapse.Scheduler, seen collapse.URLFilter) *Prefetcher {
	return &Prefetcher{
		page:      page,
		scheduler: scheduler,
		seen:      seen,
	}
}

// Prefetched returns the URLs prefetched so far, in order.
func (p *Prefetcher) Prefetched() []string {
	return p.prefetched
}

// PointerOver handles the pointer moving over n. If n is inside an
// eligible link, its prefetch is scheduled.
func (p *Prefetcher) PointerOver(n *html.Node) {
	link := closest(n, anchorSelector)
	target, ok := p.eligible(link)
	if !ok {
		return
	}
	p.cancel()
	p.pending = p.scheduler.AfterFunc(p.page.opts.PrefetchDelay, func() {
		p.pending = nil
		p.prefetch(target)
	})
}

// PointerOut handles the pointer leaving n for related. Moving within the
// same link keeps the pending prefetch.
func (p *Prefetcher) PointerOut(n, related *html.Node) {
	if related != nil {
		if link := closest(related, anchorSelector); link != nil && link == closest(n, anchorSelector) {
			return
		}
	}
	p.cancel()
}

func (p *Prefetcher) cancel() {
	if p.pending != nil {
		p.pending.Stop()
		p.pending = nil
	}
}

// eligible reports whether link may be prefetched and returns its
// absolute URL.
func (p *Prefetcher) eligible(link *html.Node) (string, bool) {
	if link == nil {
		return "", false
	}
	href, _ := attr(link, "href")
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	loc := p.page.Location()
	if loc != nil {
		u = loc.ResolveReference(u)
	}

	_, marked := attr(link, "data-instant")
	if _, optOut := attr(link, "data-no-instant"); optOut {
		return "", false
	}
	if p.page.opts.PrefetchWhitelist && !marked {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if loc != nil && u.Scheme == "http" && loc.Scheme == "https" {
		return "", false
	}
	if u.RawQuery != "" && !p.page.opts.AllowQueryString && !marked {
		return "", false
	}
	if loc != nil && u.Fragment != "" && u.Path == loc.Path && u.RawQuery == loc.RawQuery {
		return "", false
	}
	return u.String(), true
}

func (p *Prefetcher) prefetch(target string) {
	if p.seen.TestAndAdd(target) {
		return
	}
	head := headSelector.MatchFirst(p.page.doc.Get(0))
	if head == nil {
		return
	}
	head.AppendChild(newElement(atom.Link,
		html.Attribute{Key: "rel", Val: "prefetch"},
		html.Attribute{Key: "href", Val: target},
	))
	p.prefetched = append(p.prefetched, target)
}
