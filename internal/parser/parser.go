package parser

import (
	"fmt"
)

// Format selects which syntax extensions are recognized.
type Format int

const (
	FormatMDX Format = iota
	FormatMarkdown
	FormatDetect
)

func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatDetect:
		return "detect"
	default:
		return "mdx"
	}
}

// ParseFormat maps "mdx", "md" and "detect" to a Format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "mdx":
		return FormatMDX, true
	case "md":
		return FormatMarkdown, true
	case "detect":
		return FormatDetect, true
	default:
		return FormatMDX, false
	}
}

// Options controls a single Parse call.
type Options struct {
	Format      Format
	Filepath    string
	Frontmatter bool
	GFM         bool
}

type NodeType int

const (
	NodeRoot NodeType = iota
	NodeESM
	NodeExpression
	NodeJSXElement
	NodeJSXTag
	NodeParagraph
	NodeHeading
	NodeThematicBreak
	NodeBlockquote
	NodeList
	NodeListItem
	NodeCode
	NodeHTML
	NodeText
	NodeEmphasis
	NodeStrong
	NodeDelete
	NodeInlineCode
	NodeBreak
	NodeLink
	NodeImage
	NodeTable
	NodeTableRow
	NodeTableCell
)

type Align int

const (
	AlignNone Align = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// Node is a single MDX tree node. Only the fields relevant to Type are set.
type Node struct {
	Type     NodeType
	Children []*Node
	Value    string
	Name     string
	Depth    int
	Ordered  bool
	Start    int
	Spread   bool
	Header   bool
	Flow     bool
	Lang     string
	Meta     string
	URL      string
	Title    string
	Alt      string
	Align    Align
	Position Position

	// SelfClosing marks JSX elements written as `<X />`.
	SelfClosing bool
}

// Reference records a JSX element name that appears in the document.
type Reference struct {
	Name     string
	Position Position
}

// Document is the result of parsing one MDX source.
type Document struct {
	Root        *Node
	Frontmatter map[string]any
	References  []Reference
	Bindings    []string
	// Imports holds the positions of ESM blocks that load another module
	// with `import` or `export ... from`.
	Imports []Position
	Format  Format
}

type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Position struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func (p Position) String() string {
	return p.Start.String() + "-" + p.End.String()
}

// SyntaxError reports malformed MDX with the place it was found.
type SyntaxError struct {
	Reason string
	RuleID string
	Start  Point
	End    Point
}

func (e *SyntaxError) Error() string {
	if e.Start.Line == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Start, e.Reason)
}
