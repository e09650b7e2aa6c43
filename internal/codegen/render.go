package codegen

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/g5becks/mdxc/internal/parser"
)

// renderer writes the JSX body of _createMdxContent. Markdown elements go
// through _components so they can be overridden; authored JSX is kept as
// written.
type renderer struct {
	buf      strings.Builder
	elements []string
}

func (r *renderer) use(name string) string {
	if !lo.Contains(r.elements, name) {
		r.elements = append(r.elements, name)
	}
	return "_components." + name
}

func (r *renderer) open(name string, attrs ...string) {
	r.buf.WriteString("<" + r.use(name) + strings.Join(attrs, "") + ">")
}

func (r *renderer) close(name string) {
	r.buf.WriteString("</" + r.use(name) + ">")
}

func (r *renderer) void(name string, attrs ...string) {
	r.buf.WriteString("<" + r.use(name) + strings.Join(attrs, "") + " />")
}

func (r *renderer) newline() {
	r.buf.WriteString(`{"\n"}`)
}

func (r *renderer) text(s string) {
	if s == "" {
		return
	}
	r.buf.WriteString("{" + jsString(s) + "}")
}

// blocks renders flow content. edges adds line breaks before the first and
// after the last child, as inside containers.
func (r *renderer) blocks(nodes []*parser.Node, edges bool) {
	written := 0
	for _, n := range nodes {
		if n.Type == parser.NodeESM {
			continue
		}
		if written > 0 || edges {
			r.newline()
		}
		r.node(n)
		written++
	}
	if edges && written > 0 {
		r.newline()
	}
}

func (r *renderer) inline(nodes []*parser.Node) {
	for _, n := range nodes {
		r.node(n)
	}
}

func (r *renderer) node(n *parser.Node) {
	switch n.Type {
	case parser.NodeRoot:
		r.blocks(n.Children, false)

	case parser.NodeParagraph:
		r.open("p")
		r.inline(n.Children)
		r.close("p")

	case parser.NodeHeading:
		name := "h" + strconv.Itoa(min(max(n.Depth, 1), 6))
		r.open(name)
		r.inline(n.Children)
		r.close(name)

	case parser.NodeThematicBreak:
		r.void("hr")

	case parser.NodeBlockquote:
		r.open("blockquote")
		r.blocks(n.Children, true)
		r.close("blockquote")

	case parser.NodeList:
		name := "ul"
		var attrs []string
		if n.Ordered {
			name = "ol"
			if n.Start != 1 {
				attrs = append(attrs, " start={"+strconv.Itoa(n.Start)+"}")
			}
		}
		r.open(name, attrs...)
		r.blocks(n.Children, true)
		r.close(name)

	case parser.NodeListItem:
		r.listItem(n)

	case parser.NodeCode:
		var attrs []string
		if n.Lang != "" {
			attrs = append(attrs, attr("className", "language-"+n.Lang))
		}
		r.open("pre")
		r.open("code", attrs...)
		r.text(n.Value + "\n")
		r.close("code")
		r.close("pre")

	case parser.NodeHTML, parser.NodeText:
		r.text(n.Value)

	case parser.NodeEmphasis:
		r.wrap("em", n.Children)

	case parser.NodeStrong:
		r.wrap("strong", n.Children)

	case parser.NodeDelete:
		r.wrap("del", n.Children)

	case parser.NodeInlineCode:
		r.open("code")
		r.text(n.Value)
		r.close("code")

	case parser.NodeBreak:
		r.void("br")
		r.newline()

	case parser.NodeLink:
		attrs := []string{attr("href", n.URL)}
		if n.Title != "" {
			attrs = append(attrs, attr("title", n.Title))
		}
		r.open("a", attrs...)
		r.inline(n.Children)
		r.close("a")

	case parser.NodeImage:
		attrs := []string{attr("src", n.URL), attr("alt", n.Alt)}
		if n.Title != "" {
			attrs = append(attrs, attr("title", n.Title))
		}
		r.void("img", attrs...)

	case parser.NodeTable:
		r.table(n)

	case parser.NodeExpression:
		r.buf.WriteString(n.Value)

	case parser.NodeJSXElement:
		r.element(n)
	}
}

func (r *renderer) wrap(name string, children []*parser.Node) {
	r.open(name)
	r.inline(children)
	r.close(name)
}

// listItem unwraps paragraphs in tight lists.
func (r *renderer) listItem(n *parser.Node) {
	r.open("li")
	if n.Spread {
		r.blocks(n.Children, true)
	} else {
		for i, child := range n.Children {
			if i > 0 {
				r.newline()
			}
			if child.Type == parser.NodeParagraph {
				r.inline(child.Children)
				continue
			}
			r.node(child)
		}
	}
	r.close("li")
}

func (r *renderer) table(n *parser.Node) {
	head, body := lo.FilterReject(n.Children, func(row *parser.Node, _ int) bool {
		return row.Header
	})

	r.open("table")
	for _, section := range []struct {
		name string
		rows []*parser.Node
	}{{"thead", head}, {"tbody", body}} {
		if len(section.rows) == 0 {
			continue
		}
		r.newline()
		r.open(section.name)
		for _, row := range section.rows {
			r.newline()
			r.row(row)
		}
		r.newline()
		r.close(section.name)
	}
	r.newline()
	r.close("table")
}

func (r *renderer) row(n *parser.Node) {
	r.open("tr")
	for _, cell := range n.Children {
		name := "td"
		if cell.Header {
			name = "th"
		}

		var attrs []string
		if align := alignValue(cell.Align); align != "" {
			attrs = append(attrs, ` style={{textAlign: "`+align+`"}}`)
		}

		r.newline()
		r.open(name, attrs...)
		r.inline(cell.Children)
		r.close(name)
	}
	r.newline()
	r.close("tr")
}

func alignValue(a parser.Align) string {
	switch a {
	case parser.AlignLeft:
		return "left"
	case parser.AlignRight:
		return "right"
	case parser.AlignCenter:
		return "center"
	default:
		return ""
	}
}

func (r *renderer) element(n *parser.Node) {
	if n.SelfClosing {
		r.buf.WriteString(n.Value)
		return
	}

	r.buf.WriteString(n.Value)
	if hasFlowChildren(n.Children) {
		r.blocks(n.Children, true)
	} else {
		r.inline(n.Children)
	}
	r.buf.WriteString("</" + n.Name + ">")
}

func hasFlowChildren(nodes []*parser.Node) bool {
	return lo.SomeBy(nodes, func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeParagraph, parser.NodeHeading, parser.NodeThematicBreak,
			parser.NodeBlockquote, parser.NodeList, parser.NodeCode,
			parser.NodeHTML, parser.NodeTable:
			return true
		case parser.NodeJSXElement, parser.NodeExpression:
			return n.Flow
		default:
			return false
		}
	})
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	quoted, err := encodeJSON(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return quoted
}

// attr renders a JSX attribute, falling back to an expression container
// when the value cannot be written as a plain quoted string.
func attr(name, value string) string {
	if strings.ContainsAny(value, "\"\\{}<>&\n") {
		return " " + name + "={" + jsString(value) + "}"
	}
	return " " + name + `="` + value + `"`
}
