package goquery

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/dlclark/regexp2"
	"github.com/fwojciec/collapse"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Classes added by the rewriter.
const (
	ClassTableWrapper    = "tableWrapper"
	ClassCaptionWrapper  = "caption-wrapper"
	ClassFullWidth       = "full-width"
	ClassSectionLinkDown = "section-link-down"
	ClassSectionLinkUp   = "section-link-up"
)

var (
	linkTextSelector = cascadia.MustCompile("p a, p a *")
	metadataSelector = cascadia.MustCompile("header *, #page-metadata *")
	selfLinkSelector = cascadia.MustCompile("#markdownBody :not(h1):not(h2):not(h3):not(h4):not(h5):not(h6) > a[href^='#']" +
		":not(.footnote-ref):not(.footnote-back):not(.sidenote-self-link):not(.sidenote-back):not(.sidenote)")
	sectionSelector = cascadia.MustCompile("#markdownBody section[id]")

	linkSlash = regexp.MustCompile(`(\w[/])(\w)`)
)

// quoteRule replaces straight quotes with typographic ones.
type quoteRule struct {
	re   *regexp2.Regexp
	repl string
}

func newQuoteRule(expr, repl string) quoteRule {
	return quoteRule{
		re:   regexp2.MustCompile(expr, regexp2.ECMAScript|regexp2.IgnoreCase),
		repl: repl,
	}
}

// Applied in order to every text node.
var quoteRules = []quoteRule{
	// opening "
	newQuoteRule(`([^A-Za-z0-9_\)]|^)"(\S)`, "$1\u201c$2"),
	// closing "
	newQuoteRule(`(\u201c[^"]*)"([^"]*$|[^\u201c"]*\u201c)`, "$1\u201d$2"),
	// " at end of word
	newQuoteRule(`([^0-9])"`, "$1\u201d"),
	newQuoteRule(`"(.+?)"`, "\u201c$1\u201d"),
	// opening '
	newQuoteRule(`(\W|^)'(\S)`, "$1\u2018$2"),
	// possessive
	newQuoteRule(`([a-z])'([a-z])`, "$1\u2019$2"),
	// abbreviated years like '93
	newQuoteRule(`(\u2018)([0-9]{2}[^\u2019]*)(\u2018([^0-9]|$)|$|\u2019[a-z])`, "\u2019$2$3"),
	// closing '
	newQuoteRule(`((\u2018[^']*)|[a-z])'([^0-9]|$)`, "$1\u2019$3"),
	// backwards apostrophe
	newQuoteRule(`(\B|^)\u2018(?=([^\u2018\u2019]*\u2019\b)*([^\u2018\u2019]*\B\W[\u2018\u2019]\b|[^\u2018\u2019]*$))`, "$1\u2019"),
}

// Rewriter applies the cosmetic rewrites a page gets on load. It holds no
// state and can be shared.
type Rewriter struct{}

// NewRewriter returns a new Rewriter.
func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// Rewrite runs every rewrite on frag in order.
func (r *Rewriter) Rewrite(frag *goquery.Selection) error {
	r.WrapTables(frag)
	r.UnwrapSourceCode(frag)
	r.WrapCaptions(frag)
	r.BreakLinkSlashes(frag)
	if err := r.RectifyQuotes(frag); err != nil {
		return err
	}
	r.MarkSectionLinks(frag)
	return nil
}

// WrapTables puts each table in a div.tableWrapper. A div that holds
// nothing but the table becomes the wrapper.
func (r *Rewriter) WrapTables(frag *goquery.Selection) {
	frag.Find("table").Each(func(_ int, s *goquery.Selection) {
		table := s.Get(0)
		if parent := table.Parent; parent != nil && parent.Data == "div" && elementChildCount(parent) == 1 {
			addClass(parent, ClassTableWrapper)
			return
		}
		s.WrapHtml(`<div class="` + ClassTableWrapper + `"></div>`)
	})
}

// UnwrapSourceCode replaces each div.sourceCode with its contents.
func (r *Rewriter) UnwrapSourceCode(frag *goquery.Selection) {
	for _, n := range frag.Find("div.sourceCode").Nodes {
		unwrap(n)
	}
}

// WrapCaptions moves the caption of every figure with media into a
// span.caption-wrapper at the end of the figure and copies the media's
// float and full-width marks onto the figure.
func (r *Rewriter) WrapCaptions(frag *goquery.Selection) {
	frag.Find("figure").Each(func(_ int, fig *goquery.Selection) {
		media := fig.Find("img").First()
		if media.Length() == 0 {
			media = fig.Find("video").First()
		}
		caption := fig.Find("figcaption").First()
		if media.Length() == 0 || caption.Length() == 0 {
			return
		}

		figure := media.Closest("figure")
		wrapper := newElement(atom.Span, html.Attribute{Key: "class", Val: ClassCaptionWrapper})
		detach(caption.Get(0))
		wrapper.AppendChild(caption.Get(0))
		figure.Get(0).AppendChild(wrapper)

		for _, class := range []string{"float-left", "float-right"} {
			if media.HasClass(class) {
				figure.AddClass(class)
			}
		}
	})
	frag.Find("img." + ClassFullWidth).Each(func(_ int, img *goquery.Selection) {
		img.Closest("figure").AddClass(ClassFullWidth)
	})
}

// BreakLinkSlashes inserts a zero-width space after each slash between word
// characters in link text inside paragraphs, so long paths can wrap.
func (r *Rewriter) BreakLinkSlashes(frag *goquery.Selection) {
	forEachLeafText(frag.FindMatcher(linkTextSelector), func(n *html.Node) {
		n.Data = linkSlash.ReplaceAllString(n.Data, "${1}\u200b${2}")
	})
}

// RectifyQuotes replaces straight quotes with typographic quotes in the
// page header and metadata.
func (r *Rewriter) RectifyQuotes(frag *goquery.Selection) error {
	return eachLeafText(frag.FindMatcher(metadataSelector), func(n *html.Node) error {
		text := n.Data
		for _, rule := range quoteRules {
			out, err := rule.re.Replace(text, rule.repl, -1, -1)
			if err != nil {
				return collapse.Errorf(collapse.EINTERNAL, "failed to rectify quotes: %v", err)
			}
			text = out
		}
		n.Data = text
		return nil
	})
}

// MarkSectionLinks classifies in-page links to sections as pointing down
// (to a later section) or up (to an earlier or enclosing one).
func (r *Rewriter) MarkSectionLinks(frag *goquery.Selection) {
	root := frag.Get(0)
	if root == nil {
		return
	}
	for root.Parent != nil {
		root = root.Parent
	}

	order := make(map[*html.Node]int)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		order[n] = len(order)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	sections := make(map[string]*html.Node)
	for _, n := range sectionSelector.MatchAll(root) {
		id, _ := attr(n, "id")
		if _, ok := sections[id]; !ok {
			sections[id] = n
		}
	}

	for _, link := range frag.FindMatcher(selfLinkSelector).Nodes {
		href, _ := attr(link, "href")
		section, ok := sections[href[1:]]
		if !ok {
			continue
		}
		if order[section] > order[link] {
			addClass(link, ClassSectionLinkDown)
		} else {
			addClass(link, ClassSectionLinkUp)
		}
	}
}

// forEachLeafText calls fn on every text node directly inside the elements
// of s.
func forEachLeafText(s *goquery.Selection, fn func(n *html.Node)) {
	for _, el := range s.Nodes {
		for c := el.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				fn(c)
			}
		}
	}
}

// eachLeafText is forEachLeafText for callbacks that can fail. It stops at
// the first error.
func eachLeafText(s *goquery.Selection, fn func(n *html.Node) error) error {
	for _, el := range s.Nodes {
		for c := el.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.TextNode {
				continue
			}
			if err := fn(c); err != nil {
				return err
			}
		}
	}
	return nil
}
