// Package codegen turns a parsed MDX document into a JavaScript module whose
// default export is the MDXContent component. The output still contains JSX;
// internal/lower compiles it away.
package codegen

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/g5becks/mdxc/internal/parser"
)

type Options struct {
	// Development adds the source place of each component reference to the
	// missing reference error.
	Development bool
}

var (
	layoutRegex         = regexp.MustCompile(`(?m)^export\s+default\s+`)
	layoutReexportRegex = regexp.MustCompile(`(?m)^export\s*\{\s*default\s*\}\s*from\s*(['"][^'"\n]+['"])\s*;?`)
)

var missingReference = strings.ReplaceAll(`function _missingMdxReference(id, component, place) {
  throw new Error("Expected " + (component ? "component" : "object") + " ~" + id + "~ to be defined: you likely forgot to import, pass, or provide it." + (place ? "\nIt's referenced in your code at ~" + place + "~" : ""));
}
`, "~", "`")

// Generate builds the module source for doc.
func Generate(doc *parser.Document, opts Options) (string, error) {
	var out strings.Builder

	hasLayout, err := writeESM(&out, doc)
	if err != nil {
		return "", err
	}

	bound := append([]string{"props"}, doc.Bindings...)
	if hasLayout {
		bound = append(bound, "MDXLayout")
	}

	if doc.Frontmatter != nil && !lo.Contains(bound, "frontmatter") {
		data, err := encodeJSON(doc.Frontmatter)
		if err != nil {
			return "", oops.
				Code("FRONTMATTER_ENCODE_FAILED").
				Wrapf(err, "encoding frontmatter")
		}
		out.WriteString("export const frontmatter = " + data + ";\n")
	}

	r := &renderer{}
	r.node(doc.Root)

	refs := missingRefs(doc.References, bound)

	out.WriteString("function _createMdxContent(props) {\n")
	writeComponents(&out, r.elements, refs)
	guarded := make(map[string]bool)
	for _, ref := range refs {
		writeGuards(&out, ref, opts.Development, guarded)
	}
	out.WriteString("  return <>" + r.buf.String() + "</>;\n}\n")

	out.WriteString("export default function MDXContent(props = {}) {\n")
	if hasLayout {
		out.WriteString("  return <MDXLayout {...props}><_createMdxContent {...props} /></MDXLayout>;\n")
	} else {
		out.WriteString("  const {wrapper: MDXLayout} = props.components || ({});\n")
		out.WriteString("  return MDXLayout ? <MDXLayout {...props}><_createMdxContent {...props} /></MDXLayout> : _createMdxContent(props);\n")
	}
	out.WriteString("}\n")

	if len(refs) > 0 {
		out.WriteString(missingReference)
	}

	return out.String(), nil
}

// writeESM hoists import/export blocks and turns a default export into the
// MDXLayout binding.
func writeESM(out *strings.Builder, doc *parser.Document) (bool, error) {
	var layout *parser.Node

	for _, n := range doc.Root.Children {
		if n.Type != parser.NodeESM {
			continue
		}

		count := len(layoutRegex.FindAllStringIndex(n.Value, -1)) +
			len(layoutReexportRegex.FindAllStringIndex(n.Value, -1))
		if (count > 0 && layout != nil) || count > 1 {
			previous := n
			if layout != nil {
				previous = layout
			}
			return false, &parser.SyntaxError{
				Reason: "Cannot specify multiple layouts (previous: " + previous.Position.String() + ")",
				RuleID: "duplicate-layout",
				Start:  n.Position.Start,
				End:    n.Position.End,
			}
		}
		if count == 1 {
			layout = n
		}

		code := layoutReexportRegex.ReplaceAllString(n.Value, "import MDXLayout from $1;")
		code = layoutRegex.ReplaceAllString(code, "const MDXLayout = ")
		out.WriteString(code)
		out.WriteString("\n")
	}

	return layout != nil, nil
}

type reference struct {
	name  string
	place string
}

// missingRefs returns the component references not bound in module scope,
// in first-use order.
func missingRefs(refs []parser.Reference, bound []string) []reference {
	var out []reference
	seen := make(map[string]bool)

	for _, ref := range refs {
		if !parser.IsComponentName(ref.Name) || seen[ref.Name] {
			continue
		}
		root, _, _ := strings.Cut(ref.Name, ".")
		if lo.Contains(bound, root) {
			continue
		}
		seen[ref.Name] = true
		out = append(out, reference{name: ref.Name, place: ref.Position.String()})
	}

	return out
}

func writeComponents(out *strings.Builder, elements []string, refs []reference) {
	roots := lo.Uniq(lo.Map(refs, func(ref reference, _ int) string {
		root, _, _ := strings.Cut(ref.name, ".")
		return root
	}))

	if len(elements) == 0 && len(roots) == 0 {
		return
	}

	out.WriteString("  const _components = {\n")
	for _, el := range elements {
		out.WriteString("    " + el + ": " + strconv.Quote(el) + ",\n")
	}
	out.WriteString("    ...props.components\n  }")
	if len(roots) > 0 {
		out.WriteString(", {" + strings.Join(roots, ", ") + "} = _components")
	}
	out.WriteString(";\n")
}

// writeGuards checks each step of a member reference, so `<a.b>` reports a
// missing `a` before a missing `a.b`.
func writeGuards(out *strings.Builder, ref reference, development bool, guarded map[string]bool) {
	parts := strings.Split(ref.name, ".")
	for i := range parts {
		path := strings.Join(parts[:i+1], ".")
		if guarded[path] {
			continue
		}
		guarded[path] = true
		component := i == len(parts)-1

		args := strconv.Quote(path) + ", " + strconv.FormatBool(component)
		if development {
			args += ", " + strconv.Quote(ref.place)
		}
		out.WriteString("  if (!" + path + ") _missingMdxReference(" + args + ");\n")
	}
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
