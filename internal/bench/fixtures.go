package bench

import (
	"fmt"
	"strings"
)

// Fixtures returns the generated small, medium and large documents used when
// no input files are given.
func Fixtures() []Input {
	return []Input{
		{Name: "small", Content: Generate(1)},
		{Name: "medium", Content: Generate(10)},
		{Name: "large", Content: Generate(50)},
	}
}

// Generate builds a document with the given number of sections. Each section
// mixes headings, prose, a fenced code block, a list and a JSX component, with
// a table every tenth section.
func Generate(sections int) string {
	var b strings.Builder

	b.WriteString("import { CustomComponent } from './components.js'\n\n")
	b.WriteString("# Performance Test\n\n")
	fmt.Fprintf(&b, "This document has %d sections of mixed content.\n\n", sections)

	for i := 1; i <= sections; i++ {
		fmt.Fprintf(&b, "## Section %d\n\n", i)
		fmt.Fprintf(&b, "This is section %d. It has *emphasis*, **strong text**, `inline code` and a [link](https://example.com/%d).\n\n", i, i)
		b.WriteString("Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\n\n")

		b.WriteString("```javascript\n")
		fmt.Fprintf(&b, "function example%d() {\n", i)
		fmt.Fprintf(&b, "  const value = %d\n", i*10)
		b.WriteString("  return value * 2\n")
		b.WriteString("}\n")
		b.WriteString("```\n\n")

		fmt.Fprintf(&b, "### Features of Section %d\n\n", i)
		for j := 1; j <= 3; j++ {
			fmt.Fprintf(&b, "- Feature %d.%d: description of the feature\n", i, j)
		}
		b.WriteString("\n")

		fmt.Fprintf(&b, "<CustomComponent id=\"%d\" title=\"Section %d\">\n", i, i)
		fmt.Fprintf(&b, "  This is a custom component in section %d with {%d * 2} computed.\n", i, i)
		b.WriteString("</CustomComponent>\n\n")

		if i%10 == 0 {
			b.WriteString("| Column 1 | Column 2 | Column 3 |\n")
			b.WriteString("|----------|----------|----------|\n")
			for j := 1; j <= 5; j++ {
				fmt.Fprintf(&b, "| Row %d-1 | Row %d-2 | Row %d-3 |\n", j, j, j)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
