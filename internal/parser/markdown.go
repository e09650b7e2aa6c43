package parser

import (
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	mdparser "github.com/gomarkdown/markdown/parser"
)

func markdownExtensions(gfm bool) mdparser.Extensions {
	ext := mdparser.NoIntraEmphasis |
		mdparser.FencedCode |
		mdparser.SpaceHeadings |
		mdparser.BackslashLineBreak |
		mdparser.OrderedListStart |
		mdparser.NoEmptyLineBeforeBlock
	if gfm {
		ext |= mdparser.Tables | mdparser.Strikethrough | mdparser.Autolink
	}
	return ext
}

// markdown parses src[start:end] as Markdown and converts the result into
// MDX nodes, restoring any JSX and expressions found inline.
func (p *flowParser) markdown(start, end int) ([]*Node, error) {
	text := p.src[start:end]
	var tokens []token
	if p.format == FormatMDX {
		var err error
		text, tokens, err = p.protect(start, end)
		if err != nil {
			return nil, err
		}
	}

	if len(p.stack) > 1 {
		text = dedent(text)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	md := mdparser.NewWithExtensions(markdownExtensions(p.gfm))
	root := md.Parse([]byte(text))

	c := &converter{
		p:       p,
		tokens:  tokens,
		markers: make(map[*Node]tag),
	}
	nodes, err := c.blocks(root.GetChildren())
	if err != nil {
		return nil, err
	}

	pos := p.idx.position(start, end)
	for _, n := range nodes {
		n.Position = pos
	}
	return nodes, nil
}

// phrasing parses the content of a single-line flow element. A lone
// paragraph is unwrapped so the children sit directly in the element.
func (p *flowParser) phrasing(start, end int) ([]*Node, error) {
	if isBlank(p.src[start:end]) {
		return nil, nil
	}

	nodes, err := p.markdown(start, end)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 1 && nodes[0].Type == NodeParagraph {
		return nodes[0].Children, nil
	}
	return nodes, nil
}

type converter struct {
	p       *flowParser
	tokens  []token
	markers map[*Node]tag
}

func (c *converter) blocks(children []ast.Node) ([]*Node, error) {
	var out []*Node
	for _, child := range children {
		nodes, err := c.block(child)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func (c *converter) block(node ast.Node) ([]*Node, error) {
	switch n := node.(type) {
	case *ast.Paragraph:
		children, err := c.inline(n.Children, "paragraph")
		if err != nil || len(children) == 0 {
			return nil, err
		}
		return []*Node{{Type: NodeParagraph, Children: children}}, nil

	case *ast.Heading:
		children, err := c.inline(n.Children, "heading")
		if err != nil {
			return nil, err
		}
		return []*Node{{Type: NodeHeading, Depth: n.Level, Children: children}}, nil

	case *ast.BlockQuote:
		children, err := c.blocks(n.Children)
		if err != nil {
			return nil, err
		}
		return []*Node{{Type: NodeBlockquote, Children: children}}, nil

	case *ast.List:
		list := &Node{
			Type:    NodeList,
			Ordered: n.ListFlags&ast.ListTypeOrdered != 0,
			Start:   n.Start,
			Spread:  !n.Tight,
		}
		if list.Ordered && list.Start == 0 {
			list.Start = 1
		}
		items, err := c.blocks(n.Children)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			item.Spread = list.Spread
		}
		list.Children = items
		return []*Node{list}, nil

	case *ast.ListItem:
		children, err := c.blocks(n.Children)
		if err != nil {
			return nil, err
		}
		return []*Node{{Type: NodeListItem, Children: children}}, nil

	case *ast.CodeBlock:
		lang, meta := splitInfo(string(n.Info))
		return []*Node{{
			Type:  NodeCode,
			Lang:  lang,
			Meta:  meta,
			Value: restoreRaw(strings.TrimSuffix(string(n.Literal), "\n"), c.tokens),
		}}, nil

	case *ast.HorizontalRule:
		return []*Node{{Type: NodeThematicBreak}}, nil

	case *ast.Table:
		return c.table(n)

	case *ast.HTMLBlock:
		return []*Node{{Type: NodeHTML, Value: restoreRaw(strings.TrimRight(string(n.Literal), "\n"), c.tokens)}}, nil

	default:
		if container := node.AsContainer(); container != nil {
			return c.blocks(container.Children)
		}
		children, err := c.inline([]ast.Node{node}, "paragraph")
		if err != nil || len(children) == 0 {
			return nil, err
		}
		return []*Node{{Type: NodeParagraph, Children: children}}, nil
	}
}

func splitInfo(info string) (lang, meta string) {
	info = strings.TrimSpace(info)
	if info == "" {
		return "", ""
	}
	lang, meta, _ = strings.Cut(info, " ")
	return lang, strings.TrimSpace(meta)
}

func (c *converter) table(n *ast.Table) ([]*Node, error) {
	table := &Node{Type: NodeTable}

	addRow := func(row *ast.TableRow, header bool) error {
		r := &Node{Type: NodeTableRow, Header: header}
		for _, cell := range row.Children {
			tc, ok := cell.(*ast.TableCell)
			if !ok {
				continue
			}
			children, err := c.inline(tc.Children, "tableCell")
			if err != nil {
				return err
			}
			r.Children = append(r.Children, &Node{
				Type:     NodeTableCell,
				Header:   header || tc.IsHeader,
				Align:    cellAlign(tc.Align),
				Children: children,
			})
		}
		table.Children = append(table.Children, r)
		return nil
	}

	for _, section := range n.Children {
		if row, ok := section.(*ast.TableRow); ok {
			if err := addRow(row, false); err != nil {
				return nil, err
			}
			continue
		}

		_, header := section.(*ast.TableHeader)
		for _, child := range section.GetChildren() {
			row, ok := child.(*ast.TableRow)
			if !ok {
				continue
			}
			if err := addRow(row, header); err != nil {
				return nil, err
			}
		}
	}

	return []*Node{table}, nil
}

func cellAlign(flags ast.CellAlignFlags) Align {
	switch flags {
	case ast.TableAlignmentCenter:
		return AlignCenter
	case ast.TableAlignmentLeft:
		return AlignLeft
	case ast.TableAlignmentRight:
		return AlignRight
	default:
		return AlignNone
	}
}

// inline converts phrasing content and folds restored JSX tags into
// elements. within names the enclosing construct for error messages.
func (c *converter) inline(children []ast.Node, within string) ([]*Node, error) {
	var flat []*Node
	for _, child := range children {
		nodes, err := c.phrase(child)
		if err != nil {
			return nil, err
		}
		flat = append(flat, nodes...)
	}
	return c.fold(mergeText(flat), within)
}

func (c *converter) phrase(node ast.Node) ([]*Node, error) {
	switch n := node.(type) {
	case *ast.Text:
		return c.splitText(string(n.Literal)), nil

	case *ast.Emph:
		return c.wrap(NodeEmphasis, n.Children, "emphasis")

	case *ast.Strong:
		return c.wrap(NodeStrong, n.Children, "strong")

	case *ast.Del:
		return c.wrap(NodeDelete, n.Children, "delete")

	case *ast.Code:
		return []*Node{{Type: NodeInlineCode, Value: restoreRaw(string(n.Literal), c.tokens)}}, nil

	case *ast.Link:
		nodes, err := c.wrap(NodeLink, n.Children, "link")
		if err != nil {
			return nil, err
		}
		nodes[0].URL = restoreRaw(string(n.Destination), c.tokens)
		nodes[0].Title = unescapeText(restoreRaw(string(n.Title), c.tokens))
		return nodes, nil

	case *ast.Image:
		return []*Node{{
			Type:  NodeImage,
			URL:   restoreRaw(string(n.Destination), c.tokens),
			Title: unescapeText(restoreRaw(string(n.Title), c.tokens)),
			Alt:   unescapeText(restoreRaw(plainText(n), c.tokens)),
		}}, nil

	case *ast.Hardbreak:
		return []*Node{{Type: NodeBreak}}, nil

	case *ast.Softbreak:
		return []*Node{{Type: NodeText, Value: "\n"}}, nil

	case *ast.NonBlockingSpace:
		return []*Node{{Type: NodeText, Value: "\u00a0"}}, nil

	case *ast.HTMLSpan:
		return []*Node{{Type: NodeText, Value: restoreRaw(string(n.Literal), c.tokens)}}, nil

	default:
		if leaf := node.AsLeaf(); leaf != nil {
			return c.splitText(string(leaf.Literal)), nil
		}
		var out []*Node
		for _, child := range node.GetChildren() {
			nodes, err := c.phrase(child)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil
	}
}

func (c *converter) wrap(typ NodeType, children []ast.Node, within string) ([]*Node, error) {
	inner, err := c.inline(children, within)
	if err != nil {
		return nil, err
	}
	return []*Node{{Type: typ, Children: inner}}, nil
}

// splitText turns text containing placeholders into text, expression and
// tag marker nodes.
func (c *converter) splitText(s string) []*Node {
	matches := placeholderRegex.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		if s == "" {
			return nil
		}
		return []*Node{{Type: NodeText, Value: unescapeText(s)}}
	}

	var out []*Node
	last := 0
	for _, m := range matches {
		if m[0] > last {
			out = append(out, &Node{Type: NodeText, Value: unescapeText(s[last:m[0]])})
		}
		last = m[1]

		idx, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil || idx >= len(c.tokens) {
			out = append(out, &Node{Type: NodeText, Value: s[m[0]:m[1]]})
			continue
		}

		tok := c.tokens[idx]
		pos := c.p.idx.position(tok.start, tok.end)
		if tok.expression {
			out = append(out, &Node{Type: NodeExpression, Value: tok.raw, Position: pos})
			continue
		}

		marker := &Node{Type: NodeJSXTag, Name: tok.tag.name, Value: tok.raw, Position: pos}
		c.markers[marker] = tok.tag
		out = append(out, marker)
	}
	if last < len(s) {
		out = append(out, &Node{Type: NodeText, Value: unescapeText(s[last:])})
	}
	return out
}

type frame struct {
	open     tag
	children []*Node
}

// fold pairs tag markers at one nesting level into JSX elements. Markers
// that pair across Markdown constructs, such as `*<b>x*</b>`, are errors.
func (c *converter) fold(nodes []*Node, within string) ([]*Node, error) {
	stack := []*frame{{}}

	for _, n := range nodes {
		top := stack[len(stack)-1]
		t, isMarker := c.markers[n]
		if !isMarker {
			top.children = append(top.children, n)
			continue
		}

		switch {
		case t.selfClosing:
			top.children = append(top.children, c.element(t, t.end, nil))

		case t.closing:
			if len(stack) == 1 {
				return nil, c.p.errorSpan(t.start, t.end, "unexpected-closing-tag",
					"Unexpected closing tag `%s`, expected an open tag first", t.label())
			}
			if top.open.name != t.name {
				return nil, c.p.errorSpan(t.start, t.end, "end-tag-mismatch",
					"Unexpected closing tag `%s`, expected corresponding closing tag for `%s` (%s)",
					t.label(), top.open.label(), c.p.idx.position(top.open.start, top.open.end))
			}
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, c.element(top.open, t.end, top.children))

		default:
			stack = append(stack, &frame{open: t})
		}
	}

	if len(stack) > 1 {
		open := stack[len(stack)-1].open
		return nil, c.p.errorSpan(open.start, open.end, "unclosed-element",
			"Expected a closing tag for `%s` (%s) before the end of `%s`",
			open.label(), c.p.idx.position(open.start, open.end), within)
	}

	return stack[0].children, nil
}

func (c *converter) element(t tag, end int, children []*Node) *Node {
	return &Node{
		Type:        NodeJSXElement,
		SelfClosing: t.selfClosing,
		Name:        t.name,
		Value:       t.raw,
		Children:    children,
		Position:    c.p.idx.position(t.start, end),
	}
}

func mergeText(nodes []*Node) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Type == NodeText && len(out) > 0 && out[len(out)-1].Type == NodeText {
			prev := out[len(out)-1]
			out[len(out)-1] = &Node{Type: NodeText, Value: prev.Value + n.Value}
			continue
		}
		out = append(out, n)
	}
	return out
}

func plainText(node ast.Node) string {
	var buf strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Literal)
		case *ast.Code:
			buf.Write(t.Literal)
		}
		return ast.GoToNext
	})
	return buf.String()
}
