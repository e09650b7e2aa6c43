// Package lower compiles the JSX in a generated MDX module into function
// calls for the configured runtime, using esbuild.
package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/samber/lo"
)

type Runtime int

const (
	Automatic Runtime = iota
	Classic
)

// Module is the shape of the emitted code.
type Module int

const (
	ModuleESM Module = iota
	ModuleCommonJS
	// ModuleFunctionBody is the body of a function whose first argument is
	// the runtime. Every require resolves to that argument and the module
	// exports are returned.
	ModuleFunctionBody
)

const (
	functionBodyPrologue = "const module = {exports: {}}, require = () => arguments[0];\n"
	functionBodyEpilogue = "return module.exports;\n"
)

type Options struct {
	Module Module
	// JSX keeps JSX in the output and only adds the runtime pragma comment.
	JSX                bool
	Runtime            Runtime
	ImportSource       string
	Pragma             string
	PragmaFrag         string
	PragmaImportSource string
	Development        bool
	Filepath           string
	// Declared lists names already bound in module scope. The pragma import
	// is skipped for them.
	Declared []string
}

// Error is an esbuild diagnostic. Line is 1-based and Column 0-based, as
// esbuild reports them, relative to the generated program.
type Error struct {
	Reason   string
	Line     int
	Column   int
	LineText string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column+1, e.Reason)
}

// Transform lowers program according to opts.
func Transform(program string, opts Options) (string, error) {
	if opts.JSX {
		code, err := transform(program, api.TransformOptions{JSX: api.JSXPreserve}, opts)
		if err != nil {
			return "", err
		}
		return pragmaComment(opts) + code, nil
	}

	if opts.Runtime == Classic {
		program = pragmaImports(opts) + program
		return transform(program, api.TransformOptions{
			JSX:         api.JSXTransform,
			JSXFactory:  opts.Pragma,
			JSXFragment: opts.PragmaFrag,
		}, opts)
	}

	return transform(program, api.TransformOptions{
		JSX:             api.JSXAutomatic,
		JSXImportSource: opts.ImportSource,
		JSXDev:          opts.Development,
	}, opts)
}

func transform(program string, base api.TransformOptions, opts Options) (string, error) {
	base.Loader = api.LoaderJSX
	base.Target = api.ESNext
	base.Charset = api.CharsetUTF8
	base.Sourcefile = opts.Filepath
	base.LogLevel = api.LogLevelSilent
	if opts.Module != ModuleESM {
		base.Format = api.FormatCommonJS
	}

	result := api.Transform(program, base)
	if len(result.Errors) > 0 {
		return "", toError(result.Errors[0])
	}

	if opts.Module == ModuleFunctionBody {
		return functionBodyPrologue + string(result.Code) + functionBodyEpilogue, nil
	}
	return string(result.Code), nil
}

func toError(msg api.Message) *Error {
	e := &Error{Reason: msg.Text}
	if msg.Location != nil {
		e.Line = msg.Location.Line
		e.Column = msg.Location.Column
		e.LineText = msg.Location.LineText
	}
	return e
}

// pragmaComment describes the runtime of preserved JSX so a later JSX
// compiler picks the same settings.
func pragmaComment(opts Options) string {
	if opts.Runtime == Classic {
		parts := []string{"@jsxRuntime classic", "@jsx " + opts.Pragma, "@jsxFrag " + opts.PragmaFrag}
		return "/*" + strings.Join(parts, " ") + "*/\n"
	}
	return "/*@jsxRuntime automatic @jsxImportSource " + opts.ImportSource + "*/\n"
}

// pragmaImports imports the root identifier of the classic pragma as the
// default export of PragmaImportSource. The fragment is expected to be
// reachable from the document or the pragma root.
func pragmaImports(opts Options) string {
	pragmaRoot := rootIdentifier(opts.Pragma)
	if opts.PragmaImportSource == "" || pragmaRoot == "" || lo.Contains(opts.Declared, pragmaRoot) {
		return ""
	}

	return "import " + pragmaRoot + " from " + strconv.Quote(opts.PragmaImportSource) + ";\n"
}

func rootIdentifier(expr string) string {
	root, _, _ := strings.Cut(strings.TrimSpace(expr), ".")
	return root
}
