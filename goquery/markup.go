package goquery

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markup contract shared with the page's stylesheet.
const (
	ClassCollapse         = "collapse"
	ClassExpanded         = "expanded"
	ClassDisclosureButton = "disclosure-button"
	ClassExpandedTemp     = "expanded-temp"
)

var (
	collapseSelector = cascadia.MustCompile("." + ClassCollapse)
	controlSelector  = cascadia.MustCompile("." + ClassDisclosureButton)
)

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// setStyleProperty sets one declaration of the inline style of n, keeping
// the others.
func setStyleProperty(n *html.Node, prop, val string) {
	decls := styleDeclarations(n)
	decl := prop + ": " + val
	for i, d := range decls {
		if styleProperty(d) == prop {
			decls[i] = decl
			setAttr(n, "style", strings.Join(decls, "; "))
			return
		}
	}
	setAttr(n, "style", strings.Join(append(decls, decl), "; "))
}

// removeStyleProperty drops one declaration of the inline style of n. The
// attribute goes away with its last declaration.
func removeStyleProperty(n *html.Node, prop string) {
	decls := styleDeclarations(n)
	kept := decls[:0]
	for _, d := range decls {
		if styleProperty(d) != prop {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", strings.Join(kept, "; "))
}

func styleDeclarations(n *html.Node) []string {
	v, _ := attr(n, "style")
	var decls []string
	for _, d := range strings.Split(v, ";") {
		if d = strings.TrimSpace(d); d != "" {
			decls = append(decls, d)
		}
	}
	return decls
}

func styleProperty(decl string) string {
	prop, _, _ := strings.Cut(decl, ":")
	return strings.ToLower(strings.TrimSpace(prop))
}

func className(n *html.Node) string {
	v, _ := attr(n, "class")
	return strings.TrimSpace(v)
}

func hasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(className(n)) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	if current := className(n); current != "" {
		setAttr(n, "class", current+" "+class)
		return
	}
	setAttr(n, "class", class)
}

// removeClass removes class and drops the class attribute once it is empty.
func removeClass(n *html.Node, class string) {
	if _, ok := attr(n, "class"); !ok {
		return
	}
	fields := strings.Fields(className(n))
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(n, "class")
		return
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

func setClass(n *html.Node, class string, on bool) {
	if on {
		addClass(n, class)
	} else {
		removeClass(n, class)
	}
}

func isChecked(n *html.Node) bool {
	_, ok := attr(n, "checked")
	return ok
}

func setChecked(n *html.Node, checked bool) {
	if checked {
		setAttr(n, "checked", "checked")
	} else {
		removeAttr(n, "checked")
	}
}

// elementOf resolves n to itself if it is an element, otherwise to its
// nearest element ancestor.
func elementOf(n *html.Node) *html.Node {
	for n != nil && n.Type != html.ElementNode {
		n = n.Parent
	}
	return n
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func lastElementChild(n *html.Node) *html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func elementChildCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}

// isOnlyChild reports whether n has no sibling elements and no sibling text
// other than whitespace.
func isOnlyChild(n *html.Node) bool {
	if n == nil || n.Parent == nil {
		return false
	}
	for s := n.Parent.FirstChild; s != nil; s = s.NextSibling {
		if s == n {
			continue
		}
		switch s.Type {
		case html.ElementNode:
			return false
		case html.TextNode:
			if strings.TrimSpace(s.Data) != "" {
				return false
			}
		}
	}
	return true
}

// unwrap replaces n with its children.
func unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

// wrap inserts wrapper in n's place and moves n into it.
func wrap(n, wrapper *html.Node) {
	if parent := n.Parent; parent != nil {
		parent.InsertBefore(wrapper, n)
		parent.RemoveChild(n)
	}
	wrapper.AppendChild(n)
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// contains reports whether b is a or a descendant of a.
func contains(a, b *html.Node) bool {
	for ; b != nil; b = b.Parent {
		if b == a {
			return true
		}
	}
	return false
}

func closest(n *html.Node, sel cascadia.Selector) *html.Node {
	for n = elementOf(n); n != nil; n = n.Parent {
		if n.Type == html.ElementNode && sel.Match(n) {
			return n
		}
	}
	return nil
}

func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func newElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

// findControl returns the disclosure control that is a direct child of
// block, or nil.
func findControl(block *html.Node) *html.Node {
	for c := block.FirstChild; c != nil; c = c.NextSibling {
		if hasClass(c, ClassDisclosureButton) {
			return c
		}
	}
	return nil
}
