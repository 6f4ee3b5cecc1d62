package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/collapse/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// newPage parses body into a full document.
func newPage(t *testing.T, body string, opts ...goquery.PageOption) *goquery.Page {
	t.Helper()
	doc := "<!DOCTYPE html><html><head><title>t</title></head><body>" + body + "</body></html>"
	p, err := goquery.ParsePage(strings.NewReader(doc), opts...)
	require.NoError(t, err)
	return p
}

// preparedPage parses body and prepares its collapse blocks.
func preparedPage(t *testing.T, body string, opts ...goquery.PageOption) *goquery.Page {
	t.Helper()
	p := newPage(t, body, opts...)
	p.PrepareCollapseBlocks(p.Document().Selection)
	return p
}

// find returns the single element matching sel.
func find(t *testing.T, p *goquery.Page, sel string) *html.Node {
	t.Helper()
	s := p.Document().Find(sel)
	require.Equal(t, 1, s.Length(), "expected exactly one match for %q", sel)
	return s.Get(0)
}

func count(p *goquery.Page, sel string) int {
	return p.Document().Find(sel).Length()
}

func attrOf(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func classesOf(n *html.Node) []string {
	v, _ := attrOf(n, "class")
	return strings.Fields(v)
}
