package parser

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

type inlineEventKind int

const (
	eventTag inlineEventKind = iota
	eventExpression
	eventBlankLine
)

type inlineEvent struct {
	kind  inlineEventKind
	tag   tag
	start int
	end   int
}

// Placeholders stand in for JSX and expressions while gomarkdown parses the
// surrounding Markdown. They use private-use runes so Markdown never treats
// them as syntax.
const (
	placeholderOpen  = "\uE000"
	placeholderClose = "\uE001"
)

var placeholderRegex = regexp.MustCompile(`\x{E000}(\d+)\x{E001}`)

type token struct {
	expression bool
	tag        tag
	raw        string
	start      int
	end        int
}

// walkInline visits the JSX tags, expressions and blank lines in
// src[start:end], skipping fenced code, code spans and escapes. The walk
// stops early when fn returns false.
func (p *flowParser) walkInline(start, end int, fn func(inlineEvent) bool) error {
	i := start
	lineStart := start == 0 || p.src[start-1] == '\n'
	var code fence

	for i < end {
		if lineStart {
			lineStart = false
			lineEnd := strings.IndexByte(p.src[i:end], '\n')
			next := end
			if lineEnd < 0 {
				lineEnd = end
			} else {
				lineEnd += i
				next = lineEnd + 1
			}
			line := p.src[i:lineEnd]

			if code.open {
				if code.closedBy(line) {
					code = fence{}
				}
				i, lineStart = next, true
				continue
			}
			if f, ok := openFence(line); ok {
				code = f
				i, lineStart = next, true
				continue
			}
			if isBlank(line) {
				if !fn(inlineEvent{kind: eventBlankLine, start: i, end: lineEnd}) {
					return nil
				}
				i, lineStart = next, true
				continue
			}
		}

		switch c := p.src[i]; {
		case c == '\n':
			i++
			lineStart = true
		case c == '\\':
			if i+1 < end && p.src[i+1] != '\n' {
				i += 2
			} else {
				i++
			}
		case c == '`':
			i = skipCodeSpan(p.src, i, end)
		case c == '{':
			e, err := p.scanExpression(i)
			if err != nil {
				return err
			}
			if e > end {
				return p.unclosedExpression(i)
			}
			if !fn(inlineEvent{kind: eventExpression, start: i, end: e}) {
				return nil
			}
			i = e
		case c == '<' && looksLikeTag(p.src, i):
			t, err := p.scanTag(i)
			if err != nil {
				return err
			}
			if t.end > end {
				return p.eof(end, "in tag", "`>` to end the tag")
			}
			if !fn(inlineEvent{kind: eventTag, tag: t, start: i, end: t.end}) {
				return nil
			}
			i = t.end
		default:
			i++
		}
	}

	return nil
}

// skipCodeSpan returns the offset after the code span opened by the
// backtick run at i, or after the run itself when nothing closes it before
// the paragraph ends.
func skipCodeSpan(src string, i, end int) int {
	n := 0
	for i+n < end && src[i+n] == '`' {
		n++
	}

	limit := end
	if blank := strings.Index(src[i:end], "\n\n"); blank >= 0 {
		limit = i + blank
	}

	j := i + n
	for j < limit {
		if src[j] != '`' {
			j++
			continue
		}
		run := 0
		for j+run < limit && src[j+run] == '`' {
			run++
		}
		if run == n {
			return j + run
		}
		j += run
	}

	return i + n
}

// protect replaces the JSX and expressions in src[start:end] with
// placeholders and checks that tags balance within each paragraph.
func (p *flowParser) protect(start, end int) (string, []token, error) {
	var (
		out    strings.Builder
		tokens []token
		open   []tag
	)
	last := start

	unclosed := func(t tag) error {
		return p.errorSpan(t.start, t.end, "unclosed-element",
			"Expected a closing tag for `%s` (%s) before the end of `paragraph`",
			t.label(), p.idx.position(t.start, t.end))
	}

	var failure error
	err := p.walkInline(start, end, func(ev inlineEvent) bool {
		switch ev.kind {
		case eventBlankLine:
			if len(open) > 0 {
				failure = unclosed(open[len(open)-1])
				return false
			}
			return true

		case eventTag:
			t := ev.tag
			switch {
			case t.closing && len(open) == 0:
				failure = p.errorSpan(t.start, t.end, "unexpected-closing-tag",
					"Unexpected closing tag `%s`, expected an open tag first", t.label())
				return false
			case t.closing && open[len(open)-1].name != t.name:
				o := open[len(open)-1]
				failure = p.errorSpan(t.start, t.end, "end-tag-mismatch",
					"Unexpected closing tag `%s`, expected corresponding closing tag for `%s` (%s)",
					t.label(), o.label(), p.idx.position(o.start, o.end))
				return false
			case t.closing:
				open = open[:len(open)-1]
			case t.selfClosing:
				p.reference(t)
			default:
				p.reference(t)
				open = append(open, t)
			}
		}

		out.WriteString(p.src[last:ev.start])
		out.WriteString(placeholderOpen + strconv.Itoa(len(tokens)) + placeholderClose)
		tokens = append(tokens, token{
			expression: ev.kind == eventExpression,
			tag:        ev.tag,
			raw:        p.src[ev.start:ev.end],
			start:      ev.start,
			end:        ev.end,
		})
		last = ev.end
		return true
	})
	if err != nil {
		return "", nil, err
	}
	if failure != nil {
		return "", nil, failure
	}
	if len(open) > 0 {
		return "", nil, unclosed(open[len(open)-1])
	}

	out.WriteString(p.src[last:end])
	return out.String(), tokens, nil
}

// restoreRaw puts the original source back in place of placeholders, for
// contexts such as code and URLs where JSX has no meaning.
func restoreRaw(s string, tokens []token) string {
	if !strings.Contains(s, placeholderOpen) {
		return s
	}
	return placeholderRegex.ReplaceAllStringFunc(s, func(m string) string {
		idx, err := strconv.Atoi(m[len(placeholderOpen) : len(m)-len(placeholderClose)])
		if err != nil || idx >= len(tokens) {
			return m
		}
		return tokens[idx].raw
	})
}

// dedent removes the indentation shared by every non-blank line, so
// Markdown nested in indented JSX is not read as indented code.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	prefix := ""
	first := true

	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = indent, false
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	if prefix == "" {
		return s
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

func unescapeText(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return html.UnescapeString(s)
}
