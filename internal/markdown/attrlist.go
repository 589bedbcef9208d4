package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	attrListPattern = regexp.MustCompile(`^\{:?[ \t]*([^{}\n]*?)[ \t]*\}`)
	attrTokenPattern = regexp.MustCompile(
		`^(?:#([\w:-]+)|\.([\w-]+)|([A-Za-z_][\w:.-]*)=(?:"([^"]*)"|'([^']*)'|([^\s"'}]+)))[ \t]*`)
	trailingAttrListPattern = regexp.MustCompile(`[ \t]*\{:[ \t]*[^{}\n]*\}[ \t]*$`)
)

type attr struct {
	name, value string
}

// parseAttrList reads an attribute list such as {: #id .cls width=300} at the
// start of b. It returns the attributes and the number of bytes consumed.
// Anything that is not entirely made of #id, .class and key=value tokens is
// rejected so ordinary braces stay text.
func parseAttrList(b []byte) ([]attr, int, bool) {
	m := attrListPattern.FindSubmatchIndex(b)
	if m == nil {
		return nil, 0, false
	}
	body := b[m[2]:m[3]]
	var attrs []attr
	for len(body) > 0 {
		t := attrTokenPattern.FindSubmatch(body)
		if t == nil {
			return nil, 0, false
		}
		switch {
		case t[1] != nil:
			attrs = append(attrs, attr{"id", string(t[1])})
		case t[2] != nil:
			attrs = append(attrs, attr{"class", string(t[2])})
		default:
			value := t[4]
			if value == nil {
				value = t[5]
			}
			if value == nil {
				value = t[6]
			}
			attrs = append(attrs, attr{strings.ToLower(string(t[3])), string(value)})
		}
		body = body[len(t[0]):]
	}
	if len(attrs) == 0 {
		return nil, 0, false
	}
	return attrs, m[1], true
}

// applyAttrs sets attrs on node. Classes accumulate; the link destination and
// image source cannot be overridden.
func applyAttrs(node ast.Node, attrs []attr) {
	for _, a := range attrs {
		switch a.name {
		case "href", "src":
			continue
		case "class":
			if v, ok := node.AttributeString("class"); ok {
				if prev, ok := v.([]byte); ok {
					a.value = string(prev) + " " + a.value
				}
			}
		}
		node.SetAttributeString(a.name, []byte(a.value))
	}
}

// attrListParser attaches an attribute list written directly after a link or
// image: ![cat](/media/cat.png){: width=300}.
type attrListParser struct{}

func (p *attrListParser) Trigger() []byte {
	return []byte{'{'}
}

func (p *attrListParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	target := parent.LastChild()
	switch target.(type) {
	case *ast.Image, *ast.Link:
	default:
		return nil
	}
	line, segment := block.PeekLine()
	attrs, n, ok := parseAttrList(line)
	if !ok {
		return nil
	}
	applyAttrs(target, attrs)
	block.Advance(n)
	return ast.NewTextSegment(text.NewSegment(segment.Start+n, segment.Start+n))
}

// attrListParagraph moves a trailing "{: .cls}" line onto its paragraph.
type attrListParagraph struct{}

func (t *attrListParagraph) Transform(node *ast.Paragraph, reader text.Reader, pc parser.Context) {
	lines := node.Lines()
	if lines.Len() < 2 {
		return
	}
	source := reader.Source()
	last := lines.At(lines.Len() - 1)
	value := util.TrimRightSpace(util.TrimLeftSpace(last.Value(source)))
	attrs, n, ok := parseAttrList(value)
	if !ok || n != len(value) {
		return
	}
	applyAttrs(node, attrs)
	lines.SetSliced(0, lines.Len()-1)
	prev := lines.At(lines.Len() - 1)
	lines.Set(lines.Len()-1, prev.TrimRightSpace(source))
}

// attrListHeadings handles "# Title {: .cls}". The brace-only form is already
// parsed by goldmark's heading attributes.
type attrListHeadings struct{}

func (t *attrListHeadings) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			trailingAttrList(h, source)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}

func trailingAttrList(h *ast.Heading, source []byte) {
	// Inline parsing may split the tail into several adjacent text nodes.
	var texts []*ast.Text
	for c := h.LastChild(); c != nil; c = c.PreviousSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			break
		}
		if len(texts) > 0 && texts[len(texts)-1].Segment.Start != t.Segment.Stop {
			break
		}
		texts = append(texts, t)
	}
	if len(texts) == 0 {
		return
	}

	start, stop := texts[len(texts)-1].Segment.Start, texts[0].Segment.Stop
	tail := source[start:stop]
	loc := trailingAttrListPattern.FindIndex(tail)
	if loc == nil {
		return
	}
	attrs, _, ok := parseAttrList(bytes.TrimSpace(tail[loc[0]:]))
	if !ok {
		return
	}
	applyAttrs(h, attrs)

	cut := start + loc[0]
	for _, t := range texts {
		if t.Segment.Start >= cut {
			h.RemoveChild(h, t)
			continue
		}
		seg := t.Segment.WithStop(cut)
		t.Segment = seg.TrimRightSpace(source)
		break
	}
}

// attrListRenderer renders links and images with every attribute set on the
// node. goldmark's own renderers filter out names such as "name".
type attrListRenderer struct {
	html.Config
}

func (r *attrListRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindImage, r.renderImage)
}

func (r *attrListRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<a href="`)
	if r.Unsafe || !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		r.Writer.Write(w, n.Title)
		_ = w.WriteByte('"')
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, nil)
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func (r *attrListRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	_, _ = w.WriteString(`<img src="`)
	if r.Unsafe || !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`" alt="`)
	r.renderAlt(w, source, n)
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		r.Writer.Write(w, n.Title)
		_ = w.WriteByte('"')
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, nil)
	}
	if r.XHTML {
		_, _ = w.WriteString(" />")
	} else {
		_, _ = w.WriteString(">")
	}
	return ast.WalkSkipChildren, nil
}

func (r *attrListRenderer) renderAlt(w util.BufWriter, source []byte, n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			r.Writer.Write(w, t.Segment.Value(source))
		case *ast.String:
			r.Writer.Write(w, t.Value)
		default:
			r.renderAlt(w, source, c)
		}
	}
}

type attrListExtension struct{}

// AttributeList reads {: #id .class key=value} lists written after links and
// images, on the last line of a paragraph and at the end of a heading.
var AttributeList goldmark.Extender = &attrListExtension{}

func (e *attrListExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(&attrListParser{}, 990)),
		parser.WithParagraphTransformers(util.Prioritized(&attrListParagraph{}, 500)),
		parser.WithASTTransformers(util.Prioritized(&attrListHeadings{}, 500)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&attrListRenderer{Config: html.NewConfig()}, 500),
	))
}
