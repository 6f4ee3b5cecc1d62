package markdown

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Section is an ast.Node that groups a heading with the content that follows
// it, up to the next heading of the same or a higher level.
type Section struct {
	ast.BaseBlock

	Level int
}

func (n *Section) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Level": fmt.Sprint(n.Level)}, nil)
}

// KindSection is the ast.NodeKind corresponding to Section.
var KindSection = ast.NewNodeKind("Section")

func (n *Section) Kind() ast.NodeKind {
	return KindSection
}

// NewSection returns a Section for a heading of the given level.
func NewSection(level int) *Section {
	return &Section{Level: level}
}

// sectionTransformer satisfies the parser.ASTTransformer interface.
type sectionTransformer struct{}

// NewSectionTransformer returns a parser.ASTTransformer that wraps every
// heading and its content in a Section. The heading's attributes move to the
// section, which also gets a levelN class.
func NewSectionTransformer() parser.ASTTransformer {
	return &sectionTransformer{}
}

func (sectionTransformer) Transform(doc *ast.Document, r text.Reader, pc parser.Context) {
	wrapSections(doc, doc.FirstChild())
}

// wrapSections wraps the headings among parent's children, starting at
// from.
func wrapSections(parent ast.Node, from ast.Node) {
	for current := from; current != nil; {
		heading, ok := current.(*ast.Heading)
		if !ok {
			current = current.NextSibling()
			continue
		}

		section := NewSection(heading.Level)
		next := heading.NextSibling()
		parent.InsertBefore(parent, heading, section)
		section.AppendChild(section, heading)
		for next != nil {
			if h, ok := next.(*ast.Heading); ok && h.Level <= heading.Level {
				break
			}
			following := next.NextSibling()
			section.AppendChild(section, next)
			next = following
		}
		moveAttributes(heading, section)
		wrapSections(section, heading.NextSibling())
		current = next
	}
}

func moveAttributes(heading *ast.Heading, section *Section) {
	class := fmt.Sprintf("level%d", heading.Level)
	for _, a := range heading.Attributes() {
		if string(a.Name) == "class" {
			if v, ok := a.Value.([]byte); ok && len(v) > 0 {
				class = string(v) + " " + class
			}
			continue
		}
		section.SetAttribute(a.Name, a.Value)
	}
	section.SetAttributeString("class", []byte(class))
	heading.RemoveAttributes()
}

// sectionRenderer satisfies various renderer interfaces.
type sectionRenderer struct{}

// NewSectionRenderer returns a renderer.NodeRenderer that renders a Section
// node as a section element.
func NewSectionRenderer() renderer.NodeRenderer {
	return sectionRenderer{}
}

// RegisterFuncs registers KindSection with renderSection.
func (s sectionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSection, s.renderSection)
}

func (sectionRenderer) renderSection(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<section")
		html.RenderAttributes(w, node, nil)
		_, _ = w.WriteString(">\n")
	} else {
		_, _ = w.WriteString("</section>\n")
	}
	return ast.WalkContinue, nil
}
