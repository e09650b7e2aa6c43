package parser

import (
	"strings"
)

type fence struct {
	open   bool
	char   byte
	length int
}

// openFence detects a fenced code opener. Indentation is not limited
// because MDX has no indented code blocks.
func openFence(line string) (fence, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < 3 || (trimmed[0] != '`' && trimmed[0] != '~') {
		return fence{}, false
	}

	char := trimmed[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == char {
		n++
	}
	if n < 3 {
		return fence{}, false
	}
	if char == '`' && strings.IndexByte(trimmed[n:], '`') >= 0 {
		return fence{}, false
	}

	return fence{open: true, char: char, length: n}, true
}

func (f fence) closedBy(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	n := 0
	for n < len(trimmed) && trimmed[n] == f.char {
		n++
	}
	return n >= f.length && strings.TrimSpace(trimmed[n:]) == ""
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

type flowParser struct {
	scanner
	format   Format
	gfm      bool
	doc      *Document
	stack    []*Node
	openTags []tag
	pending  int
}

func newFlowParser(src string, opts Options, format Format) *flowParser {
	root := &Node{Type: NodeRoot}
	return &flowParser{
		scanner: scanner{src: src, idx: newLineIndex(src)},
		format:  format,
		gfm:     opts.GFM,
		doc:     &Document{Root: root, Format: format},
		stack:   []*Node{root},
		pending: -1,
	}
}

func (p *flowParser) parse(start int) error {
	pos := start
	prevBlank := true
	var code fence

	for pos < len(p.src) {
		lineEnd := strings.IndexByte(p.src[pos:], '\n')
		next := len(p.src)
		if lineEnd < 0 {
			lineEnd = len(p.src)
		} else {
			lineEnd += pos
			next = lineEnd + 1
		}
		line := p.src[pos:lineEnd]

		if code.open {
			if code.closedBy(line) {
				code = fence{}
			}
			p.markPending(pos)
			pos, prevBlank = next, false
			continue
		}

		if f, ok := openFence(line); ok {
			code = f
			p.markPending(pos)
			pos, prevBlank = next, false
			continue
		}

		if p.format == FormatMarkdown || isBlank(line) {
			p.markPending(pos)
			pos, prevBlank = next, isBlank(line)
			continue
		}

		trimmed := strings.TrimLeft(line, " \t")
		at := pos + len(line) - len(trimmed)

		switch {
		case len(p.stack) == 1 && at == pos && isESMStart(trimmed) && (prevBlank || p.pending < 0):
			end, err := p.scanESM(pos)
			if err != nil {
				return err
			}
			if err := p.flush(pos); err != nil {
				return err
			}
			p.append(&Node{
				Type:     NodeESM,
				Value:    strings.TrimRight(p.src[pos:end], " \t\n"),
				Position: p.idx.position(pos, end),
			})
			pos, prevBlank = end, true
			continue

		case trimmed[0] == '{':
			end, handled, err := p.flowExpression(pos, at)
			if err != nil {
				return err
			}
			if handled {
				pos, prevBlank = end, true
				continue
			}

		case trimmed[0] == '<' && looksLikeTag(p.src, at):
			end, handled, err := p.flowJSX(pos, at)
			if err != nil {
				return err
			}
			if handled {
				pos, prevBlank = end, true
				continue
			}
		}

		p.markPending(pos)
		pos, prevBlank = next, false
	}

	if err := p.flush(len(p.src)); err != nil {
		return err
	}

	if len(p.openTags) > 0 {
		open := p.openTags[len(p.openTags)-1]
		return p.errorSpan(open.start, open.end, "unclosed-element",
			"Expected a closing tag for `%s` (%s) before the end of document",
			open.label(), p.idx.position(open.start, open.end))
	}

	return nil
}

func (p *flowParser) markPending(pos int) {
	if p.pending < 0 {
		p.pending = pos
	}
}

func (p *flowParser) flush(end int) error {
	if p.pending < 0 {
		return nil
	}

	start := p.pending
	p.pending = -1
	if isBlank(p.src[start:end]) {
		return nil
	}

	nodes, err := p.markdown(start, end)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		p.append(n)
	}
	return nil
}

func (p *flowParser) append(n *Node) {
	top := p.stack[len(p.stack)-1]
	top.Children = append(top.Children, n)
}

func (p *flowParser) reference(t tag) {
	if t.closing || t.name == "" {
		return
	}
	p.doc.References = append(p.doc.References, Reference{
		Name:     t.name,
		Position: p.idx.position(t.start, t.end),
	})
}

func (p *flowParser) flowExpression(lineStart, at int) (int, bool, error) {
	end, err := p.scanExpression(at)
	if err != nil {
		return 0, false, err
	}

	next, ok := restOfLineBlank(p.src, end)
	if !ok {
		return 0, false, nil
	}

	if err := p.flush(lineStart); err != nil {
		return 0, false, err
	}

	p.append(&Node{
		Type:     NodeExpression,
		Flow:     true,
		Value:    p.src[at:end],
		Position: p.idx.position(at, end),
	})
	return next, true, nil
}

func (p *flowParser) flowJSX(lineStart, at int) (int, bool, error) {
	tags, end, onlyTags, err := p.scanTagRun(at)
	if err != nil {
		return 0, false, err
	}

	if onlyTags {
		if err := p.flush(lineStart); err != nil {
			return 0, false, err
		}
		for _, t := range tags {
			if err := p.applyFlowTag(t); err != nil {
				return 0, false, err
			}
		}
		return end, true, nil
	}

	open := tags[0]
	if open.closing || open.selfClosing {
		return 0, false, nil
	}

	closing, found := p.findClosing(open)
	if !found {
		return 0, false, nil
	}

	next, ok := restOfLineBlank(p.src, closing.end)
	if !ok {
		return 0, false, nil
	}

	if err := p.flush(lineStart); err != nil {
		return 0, false, err
	}

	p.reference(open)
	children, err := p.phrasing(open.end, closing.start)
	if err != nil {
		return 0, false, err
	}

	p.append(&Node{
		Type:     NodeJSXElement,
		Flow:     true,
		Name:     open.name,
		Value:    open.raw,
		Children: children,
		Position: p.idx.position(open.start, closing.end),
	})
	return next, true, nil
}

// scanTagRun scans consecutive tags from at. onlyTags reports whether the
// line holds nothing but tags, in which case end is the next line offset.
func (p *flowParser) scanTagRun(at int) (tags []tag, end int, onlyTags bool, err error) {
	i := at
	for {
		t, scanErr := p.scanTag(i)
		if scanErr != nil {
			return nil, 0, false, scanErr
		}
		tags = append(tags, t)

		i = skipInlineSpace(p.src, t.end)
		if i >= len(p.src) {
			return tags, len(p.src), true, nil
		}
		if p.src[i] == '\n' {
			return tags, i + 1, true, nil
		}
		if p.src[i] != '<' {
			return tags, 0, false, nil
		}
	}
}

func (p *flowParser) applyFlowTag(t tag) error {
	switch {
	case t.closing:
		if len(p.openTags) == 0 {
			return p.errorSpan(t.start, t.end, "unexpected-closing-tag",
				"Unexpected closing tag `%s`, expected an open tag first", t.label())
		}

		open := p.openTags[len(p.openTags)-1]
		if open.name != t.name {
			return p.errorSpan(t.start, t.end, "end-tag-mismatch",
				"Unexpected closing tag `%s`, expected corresponding closing tag for `%s` (%s)",
				t.label(), open.label(), p.idx.position(open.start, open.end))
		}

		top := p.stack[len(p.stack)-1]
		top.Position.End = p.idx.point(t.end)
		p.stack = p.stack[:len(p.stack)-1]
		p.openTags = p.openTags[:len(p.openTags)-1]

	case t.selfClosing:
		p.reference(t)
		p.append(&Node{
			Type:        NodeJSXElement,
			Flow:        true,
			SelfClosing: true,
			Name:        t.name,
			Value:       t.raw,
			Position:    p.idx.position(t.start, t.end),
		})

	default:
		p.reference(t)
		el := &Node{
			Type:     NodeJSXElement,
			Flow:     true,
			Name:     t.name,
			Value:    t.raw,
			Position: p.idx.position(t.start, t.end),
		}
		p.append(el)
		p.stack = append(p.stack, el)
		p.openTags = append(p.openTags, t)
	}

	return nil
}

// findClosing looks for the tag closing open within the same paragraph.
// Scan failures are not reported here; the inline pass reports them.
func (p *flowParser) findClosing(open tag) (tag, bool) {
	depth := 0
	found := tag{}
	ok := false

	_ = p.walkInline(open.end, len(p.src), func(ev inlineEvent) bool {
		switch ev.kind {
		case eventBlankLine:
			return false
		case eventTag:
			t := ev.tag
			switch {
			case t.selfClosing:
			case t.closing && depth == 0:
				found, ok = t, t.name == open.name
				return false
			case t.closing:
				depth--
			default:
				depth++
			}
		}
		return true
	})

	return found, ok
}

func (p *flowParser) scanESM(pos int) (int, error) {
	i := pos
	for {
		lineEnd := strings.IndexByte(p.src[i:], '\n')
		if lineEnd < 0 {
			if !bracketsBalanced(p.src[pos:]) {
				return 0, p.eof(len(p.src), "in import/exports", "a corresponding closing bracket")
			}
			return len(p.src), nil
		}

		next := i + lineEnd + 1
		if isBlank(p.src[i:next]) && bracketsBalanced(p.src[pos:i]) {
			return i, nil
		}
		i = next
		if i >= len(p.src) {
			if !bracketsBalanced(p.src[pos:]) {
				return 0, p.eof(len(p.src), "in import/exports", "a corresponding closing bracket")
			}
			return len(p.src), nil
		}
	}
}

// bracketsBalanced reports whether every bracket in a JavaScript snippet is
// closed, ignoring brackets inside strings, templates and comments.
func bracketsBalanced(code string) bool {
	s := scanner{src: code}
	depth := 0
	for i := 0; i < len(code); {
		switch code[i] {
		case '{', '(', '[':
			depth++
			i++
		case '}', ')', ']':
			depth--
			i++
		case '"', '\'':
			i = skipQuoted(code, i)
		case '`':
			end, ok := s.skipTemplate(i)
			if !ok {
				return false
			}
			i = end
		case '/':
			end, ok := skipComment(code, i)
			if !ok {
				return false
			}
			i = end
		default:
			i++
		}
	}
	return depth <= 0
}
