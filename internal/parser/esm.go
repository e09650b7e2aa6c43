package parser

import (
	"regexp"
	"strings"
)

var (
	importClauseRegex = regexp.MustCompile(`(?s)\bimport\s+([^'"]+?)\s+from\s*['"]`)
	exportDeclRegex   = regexp.MustCompile(`(?m)^\s*export\s+(?:const|let|var)\s+([A-Za-z_$][\w$]*)`)
	exportFuncRegex   = regexp.MustCompile(`(?m)^\s*export\s+(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)`)
	exportClassRegex  = regexp.MustCompile(`(?m)^\s*export\s+class\s+([A-Za-z_$][\w$]*)`)
	identRegex        = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	moduleLoadRegex   = regexp.MustCompile(`(?m)^\s*(?:import(?:\s+[\w$]|\s*[*{'"])|export\s*(?:\*|\{[^}]*\})[^;'"]*?\bfrom\s*['"])`)
)

// isESMStart reports whether a top-level line opens an import or export
// statement.
func isESMStart(line string) bool {
	for _, keyword := range []string{"import", "export"} {
		if !strings.HasPrefix(line, keyword) {
			continue
		}
		rest := line[len(keyword):]
		if rest == "" {
			return false
		}
		switch rest[0] {
		case ' ', '\t', '{', '*', '"', '\'':
			return true
		}
	}
	return false
}

// collectBindings returns the local names declared by the document's
// import and export statements, in source order without duplicates.
func collectBindings(root *Node) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, child := range root.Children {
		if child.Type != NodeESM {
			continue
		}
		for _, name := range esmBindings(child.Value) {
			add(name)
		}
	}
	return names
}

// collectImports returns the positions of ESM blocks that load modules.
func collectImports(root *Node) []Position {
	var positions []Position
	for _, child := range root.Children {
		if child.Type == NodeESM && moduleLoadRegex.MatchString(child.Value) {
			positions = append(positions, child.Position)
		}
	}
	return positions
}

func esmBindings(code string) []string {
	var names []string

	for _, m := range importClauseRegex.FindAllStringSubmatch(code, -1) {
		names = append(names, importClauseNames(m[1])...)
	}
	for _, re := range []*regexp.Regexp{exportDeclRegex, exportFuncRegex, exportClassRegex} {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			names = append(names, m[1])
		}
	}

	return names
}

// importClauseNames splits `Default, * as ns` or `{a, b as c}` style import
// clauses into the local names they bind.
func importClauseNames(clause string) []string {
	var names []string

	clause = strings.TrimSpace(clause)
	if open := strings.IndexByte(clause, '{'); open >= 0 {
		closeIdx := strings.IndexByte(clause, '}')
		if closeIdx < open {
			closeIdx = len(clause)
		}
		for _, specifier := range strings.Split(clause[open+1:closeIdx], ",") {
			if name := localName(specifier); name != "" {
				names = append(names, name)
			}
		}
		clause = clause[:open] + clause[min(closeIdx+1, len(clause)):]
	}

	for _, part := range strings.Split(clause, ",") {
		if name := localName(part); name != "" {
			names = append(names, name)
		}
	}

	return names
}

func localName(specifier string) string {
	fields := strings.Fields(specifier)
	if len(fields) == 0 {
		return ""
	}

	name := fields[len(fields)-1]
	if len(fields) != 1 && (len(fields) < 3 || fields[len(fields)-2] != "as") {
		return ""
	}

	if !identRegex.MatchString(name) {
		return ""
	}
	return name
}
