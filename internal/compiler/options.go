package compiler

import "github.com/g5becks/mdxc/internal/parser"

type JSXRuntime int

const (
	RuntimeAutomatic JSXRuntime = iota
	RuntimeClassic
)

func (r JSXRuntime) String() string {
	if r == RuntimeClassic {
		return "classic"
	}
	return "automatic"
}

// ParseJSXRuntime maps "automatic" and "classic" to a JSXRuntime.
func ParseJSXRuntime(s string) (JSXRuntime, bool) {
	switch s {
	case "automatic":
		return RuntimeAutomatic, true
	case "classic":
		return RuntimeClassic, true
	default:
		return RuntimeAutomatic, false
	}
}

// OutputFormat is the module shape of the compiled code.
type OutputFormat int

const (
	OutputESM OutputFormat = iota
	OutputCJS
	// OutputFunctionBody is run with the runtime as the first function
	// argument and returns the exports. Documents may not import modules.
	OutputFunctionBody
)

func (f OutputFormat) String() string {
	switch f {
	case OutputCJS:
		return "cjs"
	case OutputFunctionBody:
		return "function-body"
	default:
		return "esm"
	}
}

// ParseOutputFormat maps "esm", "cjs" and "function-body" to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch s {
	case "esm":
		return OutputESM, true
	case "cjs":
		return OutputCJS, true
	case "function-body":
		return OutputFunctionBody, true
	default:
		return OutputESM, false
	}
}

// Options is the full compiler configuration.
type Options struct {
	Development        bool
	JSX                bool
	JSXRuntime         JSXRuntime
	JSXImportSource    string
	Pragma             string
	PragmaFrag         string
	PragmaImportSource string
	Format             parser.Format
	OutputFormat       OutputFormat
	Filepath           string
	Frontmatter        bool
	GFM                bool
}

// DefaultOptions returns the configuration used when nothing is overridden.
func DefaultOptions() Options {
	return Options{
		JSXRuntime:         RuntimeAutomatic,
		JSXImportSource:    "react",
		Pragma:             "React.createElement",
		PragmaFrag:         "React.Fragment",
		PragmaImportSource: "react",
		Format:             parser.FormatMDX,
		OutputFormat:       OutputESM,
	}
}
