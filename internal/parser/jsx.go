package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tag struct {
	name        string
	raw         string
	closing     bool
	selfClosing bool
	start       int
	end         int
}

func (t tag) label() string {
	if t.closing {
		return "</" + t.name + ">"
	}
	return "<" + t.name + ">"
}

type scanner struct {
	src string
	idx *lineIndex
}

func (s *scanner) errorAt(offset int, ruleID, format string, args ...any) *SyntaxError {
	p := s.idx.point(offset)
	return &SyntaxError{
		Reason: fmt.Sprintf(format, args...),
		RuleID: ruleID,
		Start:  p,
		End:    p,
	}
}

func (s *scanner) errorSpan(start, end int, ruleID, format string, args ...any) *SyntaxError {
	pos := s.idx.position(start, end)
	return &SyntaxError{
		Reason: fmt.Sprintf(format, args...),
		RuleID: ruleID,
		Start:  pos.Start,
		End:    pos.End,
	}
}

func (s *scanner) unexpected(offset int, context string) *SyntaxError {
	r, _ := utf8.DecodeRuneInString(s.src[offset:])
	return s.errorAt(offset, "unexpected-character", "Unexpected character `%c` (U+%04X) %s", r, r, context)
}

func (s *scanner) eof(offset int, construct, expected string) *SyntaxError {
	return s.errorAt(offset, "unexpected-eof", "Unexpected end of file %s, expected %s", construct, expected)
}

// scanExpression scans a braced JavaScript expression starting at pos and
// returns the offset just past its closing brace.
func (s *scanner) scanExpression(pos int) (int, error) {
	depth := 0
	i := pos
	for i < len(s.src) {
		switch c := s.src[i]; c {
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
			if depth == 0 {
				return i, nil
			}
		case '"', '\'':
			i = skipQuoted(s.src, i)
		case '`':
			end, ok := s.skipTemplate(i)
			if !ok {
				return 0, s.unclosedExpression(pos)
			}
			i = end
		case '/':
			end, ok := skipComment(s.src, i)
			if !ok {
				return 0, s.unclosedExpression(pos)
			}
			i = end
		default:
			i++
		}
	}

	return 0, s.unclosedExpression(pos)
}

func (s *scanner) unclosedExpression(pos int) *SyntaxError {
	return s.errorAt(pos, "unclosed-expression",
		"Unexpected end of file in expression, expected a corresponding closing brace for `{`")
}

func (s *scanner) skipTemplate(pos int) (int, bool) {
	i := pos + 1
	for i < len(s.src) {
		switch s.src[i] {
		case '\\':
			i += 2
		case '`':
			return i + 1, true
		case '$':
			if i+1 < len(s.src) && s.src[i+1] == '{' {
				end, err := s.scanExpression(i + 1)
				if err != nil {
					return 0, false
				}
				i = end
				continue
			}
			i++
		default:
			i++
		}
	}
	return 0, false
}

// skipQuoted skips a single or double quoted string. JavaScript strings
// cannot span lines, so a quote without a partner on the same line is
// treated as a plain character.
func skipQuoted(src string, pos int) int {
	quote := src[pos]
	for i := pos + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '\n':
			return pos + 1
		case quote:
			return i + 1
		}
	}
	return pos + 1
}

func skipComment(src string, pos int) (int, bool) {
	if pos+1 >= len(src) {
		return pos + 1, true
	}
	switch src[pos+1] {
	case '/':
		end := strings.IndexByte(src[pos:], '\n')
		if end < 0 {
			return len(src), true
		}
		return pos + end, true
	case '*':
		end := strings.Index(src[pos+2:], "*/")
		if end < 0 {
			return 0, false
		}
		return pos + 2 + end + 2, true
	default:
		return pos + 1, true
	}
}

// scanTag scans one JSX tag (opening, closing, self-closing or fragment)
// starting at the `<` at pos.
func (s *scanner) scanTag(pos int) (tag, error) {
	t := tag{start: pos}
	i := pos + 1
	if i < len(s.src) && s.src[i] == '/' {
		t.closing = true
		i++
	}
	if i >= len(s.src) {
		return t, s.eof(i, "before name", "a character that can start a name, such as a letter, `$`, or `_`")
	}

	if s.src[i] == '>' {
		t.end = i + 1
		t.raw = s.src[pos:t.end]
		return t, nil
	}

	nameStart := i
	r, size := utf8.DecodeRuneInString(s.src[i:])
	if !isNameStart(r) {
		hint := ""
		if r == '!' {
			hint = " (note: to create a comment in MDX, use `{/* text */}`)"
		}
		return t, s.unexpected(i, "before name, expected a character that can start a name, such as a letter, `$`, or `_`"+hint)
	}
	i += size
	for i < len(s.src) {
		r, size = utf8.DecodeRuneInString(s.src[i:])
		if !isNameChar(r) && r != '.' && r != ':' {
			break
		}
		i += size
	}
	t.name = s.src[nameStart:i]

	for {
		i = skipSpace(s.src, i)
		if i >= len(s.src) {
			return t, s.eof(i, "in tag", "`>` to end the tag")
		}

		c := s.src[i]
		switch {
		case c == '>':
			t.end = i + 1
			t.raw = s.src[pos:t.end]
			return t, nil
		case t.closing:
			return t, s.unexpected(i, "after name, expected `>` to end the closing tag")
		case c == '/':
			if i+1 < len(s.src) && s.src[i+1] == '>' {
				t.selfClosing = true
				t.end = i + 2
				t.raw = s.src[pos:t.end]
				return t, nil
			}
			if i+1 >= len(s.src) {
				return t, s.eof(i+1, "after self-closing slash", "`>` to end the tag")
			}
			return t, s.unexpected(i+1, "after self-closing slash, expected `>` to end the tag")
		case c == '{':
			end, err := s.scanExpression(i)
			if err != nil {
				return t, err
			}
			i = end
		default:
			end, err := s.scanAttribute(i)
			if err != nil {
				return t, err
			}
			i = end
		}
	}
}

func (s *scanner) scanAttribute(pos int) (int, error) {
	r, size := utf8.DecodeRuneInString(s.src[pos:])
	if !isNameStart(r) {
		return 0, s.unexpected(pos, "before attribute name, expected a character that can start an attribute name, such as a letter, `$`, or `_`; `=` to initialize a value; or the end of the tag")
	}

	i := pos + size
	for i < len(s.src) {
		r, size = utf8.DecodeRuneInString(s.src[i:])
		if !isNameChar(r) && r != ':' {
			break
		}
		i += size
	}

	j := skipSpace(s.src, i)
	if j >= len(s.src) || s.src[j] != '=' {
		return i, nil
	}

	j = skipSpace(s.src, j+1)
	if j >= len(s.src) {
		return 0, s.eof(j, "before attribute value", "a character that can start an attribute value, such as `\"`, `'`, or `{`")
	}

	switch quote := s.src[j]; quote {
	case '"', '\'':
		end := strings.IndexByte(s.src[j+1:], quote)
		if end < 0 {
			return 0, s.eof(len(s.src), "in attribute value", fmt.Sprintf("a corresponding closing quote `%c`", quote))
		}
		return j + 1 + end + 1, nil
	case '{':
		return s.scanExpression(j)
	default:
		return 0, s.unexpected(j, "before attribute value, expected a character that can start an attribute value, such as `\"`, `'`, or `{`")
	}
}

// looksLikeTag reports whether the `<` at i starts JSX rather than a literal
// less-than sign followed by a space, digit or operator.
func looksLikeTag(src string, i int) bool {
	if i+1 >= len(src) {
		return false
	}
	switch src[i+1] {
	case '/', '>', '!':
		return true
	}
	r, _ := utf8.DecodeRuneInString(src[i+1:])
	return isNameStart(r)
}

func isNameStart(r rune) bool {
	return unicode.IsLetter(r) || r == '$' || r == '_'
}

func isNameChar(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == '-'
}

func skipSpace(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\n') {
		i++
	}
	return i
}

func skipInlineSpace(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

// restOfLineBlank reports whether only spaces or tabs remain on the line
// starting at i, and returns the offset of the next line.
func restOfLineBlank(src string, i int) (int, bool) {
	i = skipInlineSpace(src, i)
	if i >= len(src) {
		return len(src), true
	}
	if src[i] == '\n' {
		return i + 1, true
	}
	return 0, false
}

// IsComponentName reports whether a JSX name refers to a binding rather
// than an intrinsic element.
func IsComponentName(name string) bool {
	if name == "" || strings.ContainsAny(name, "-:") {
		return false
	}
	if strings.Contains(name, ".") {
		return true
	}
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
