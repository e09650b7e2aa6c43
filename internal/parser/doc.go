// Package parser reads MDX source into a tree of Markdown, JSX, expression
// and ESM nodes.
//
// Flow constructs (ESM, JSX tag lines, flow expressions) are found by a line
// scanner. The Markdown between them is handed to gomarkdown after JSX and
// expressions have been swapped for placeholders, and the resulting tree is
// converted back with the original JSX restored.
package parser
