// Package compiler runs the MDX pipeline: parse the document, generate the
// JSX program and lower it for the configured runtime.
package compiler

import (
	"errors"

	"github.com/samber/oops"

	"github.com/g5becks/mdxc/internal/codegen"
	"github.com/g5becks/mdxc/internal/lower"
	"github.com/g5becks/mdxc/internal/parser"
)

// Compile turns MDX source into a JavaScript module. Every failure, including a
// panic inside the pipeline, is returned as *Error.
func Compile(source string, opts Options) (code string, err error) {
	recovered := oops.
		In("compiler").
		With("file", opts.Filepath).
		Recover(func() {
			code, err = compile(source, opts)
		})
	if recovered != nil {
		return "", &Error{
			Kind:   KindInternal,
			Reason: recovered.Error(),
			File:   opts.Filepath,
			cause:  recovered,
		}
	}
	return code, err
}

func compile(source string, opts Options) (string, error) {
	doc, err := parser.Parse(source, parser.Options{
		Format:      opts.Format,
		Filepath:    opts.Filepath,
		Frontmatter: opts.Frontmatter,
		GFM:         opts.GFM,
	})
	if err != nil {
		return "", wrap(err, source, opts.Filepath)
	}

	if opts.OutputFormat == OutputFunctionBody && len(doc.Imports) > 0 {
		return "", &Error{
			Kind:   KindSyntax,
			Reason: "Cannot use `import` or `export ... from` in function-body output",
			RuleID: "function-body-import",
			File:   opts.Filepath,
			Start:  doc.Imports[0].Start,
			End:    doc.Imports[0].End,
		}
	}

	program, err := codegen.Generate(doc, codegen.Options{Development: opts.Development})
	if err != nil {
		return "", wrap(err, source, opts.Filepath)
	}

	runtime := lower.Automatic
	if opts.JSXRuntime == RuntimeClassic {
		runtime = lower.Classic
	}

	code, err := lower.Transform(program, lower.Options{
		Module:             module(opts.OutputFormat),
		JSX:                opts.JSX,
		Runtime:            runtime,
		ImportSource:       opts.JSXImportSource,
		Pragma:             opts.Pragma,
		PragmaFrag:         opts.PragmaFrag,
		PragmaImportSource: opts.PragmaImportSource,
		Development:        opts.Development,
		Filepath:           opts.Filepath,
		Declared:           doc.Bindings,
	})
	if err != nil {
		return "", wrap(err, source, opts.Filepath)
	}

	return code, nil
}

func module(f OutputFormat) lower.Module {
	switch f {
	case OutputCJS:
		return lower.ModuleCommonJS
	case OutputFunctionBody:
		return lower.ModuleFunctionBody
	default:
		return lower.ModuleESM
	}
}

func wrap(err error, source, file string) *Error {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxError(syntaxErr, file)
	}

	var lowerErr *lower.Error
	if errors.As(err, &lowerErr) {
		return transformError(lowerErr, source, file)
	}

	return &Error{
		Kind:   KindInternal,
		Reason: err.Error(),
		File:   file,
		cause:  err,
	}
}
