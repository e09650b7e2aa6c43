package parser

// Parse turns MDX (or plain Markdown) source into a Document. Syntax
// problems are returned as *SyntaxError.
func Parse(source string, opts Options) (*Document, error) {
	src := NormalizeNewlines(StripBOM(source))
	format := ResolveFormat(opts.Format, opts.Filepath)

	p := newFlowParser(src, opts, format)

	start := 0
	if opts.Frontmatter {
		var err error
		if start, err = p.frontmatter(); err != nil {
			return nil, err
		}
	}

	if err := p.parse(start); err != nil {
		return nil, err
	}

	p.doc.Bindings = collectBindings(p.doc.Root)
	p.doc.Imports = collectImports(p.doc.Root)
	p.doc.Root.Position = p.idx.position(0, len(src))
	return p.doc, nil
}
