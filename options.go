package mdxc

import (
	"github.com/g5becks/mdxc/internal/compiler"
	"github.com/g5becks/mdxc/internal/parser"
)

// CompileOptions overrides parts of the default configuration. Only non-nil
// fields are applied, so an explicit false or empty string still overrides.
type CompileOptions struct {
	Development        *bool   `json:"development,omitempty"          koanf:"development"`
	JSX                *bool   `json:"jsx,omitempty"                  koanf:"jsx"`
	JSXRuntime         *string `json:"jsx_runtime,omitempty"          koanf:"jsx_runtime"`
	JSXImportSource    *string `json:"jsx_import_source,omitempty"    koanf:"jsx_import_source"`
	Pragma             *string `json:"pragma,omitempty"               koanf:"pragma"`
	PragmaFrag         *string `json:"pragma_frag,omitempty"          koanf:"pragma_frag"`
	PragmaImportSource *string `json:"pragma_import_source,omitempty" koanf:"pragma_import_source"`
	Format             *string `json:"format,omitempty"               koanf:"format"`
	OutputFormat       *string `json:"output_format,omitempty"        koanf:"output_format"`
	Filepath           *string `json:"filepath,omitempty"             koanf:"filepath"`
	Frontmatter        *bool   `json:"frontmatter,omitempty"          koanf:"frontmatter"`
	GFM                *bool   `json:"gfm,omitempty"                  koanf:"gfm"`
}

// Config is the complete compiler configuration.
type Config = compiler.Options

// DefaultConfig returns the configuration used for every field that
// CompileOptions leaves unset: the automatic runtime importing from react,
// MDX input and ES module output.
func DefaultConfig() Config {
	return compiler.DefaultOptions()
}

// Resolve applies the present fields of opts on top of DefaultConfig.
// JSXRuntime, Format and OutputFormat values that are not recognized leave
// the default in place.
func Resolve(opts *CompileOptions) Config {
	return opts.apply(DefaultConfig())
}

func (o *CompileOptions) apply(cfg Config) Config {
	if o == nil {
		return cfg
	}

	setIf(&cfg.Development, o.Development)
	setIf(&cfg.JSX, o.JSX)
	setIf(&cfg.JSXImportSource, o.JSXImportSource)
	setIf(&cfg.Pragma, o.Pragma)
	setIf(&cfg.PragmaFrag, o.PragmaFrag)
	setIf(&cfg.PragmaImportSource, o.PragmaImportSource)
	setIf(&cfg.Filepath, o.Filepath)
	setIf(&cfg.Frontmatter, o.Frontmatter)
	setIf(&cfg.GFM, o.GFM)

	if o.JSXRuntime != nil {
		if runtime, ok := compiler.ParseJSXRuntime(*o.JSXRuntime); ok {
			cfg.JSXRuntime = runtime
		}
	}
	if o.Format != nil {
		if format, ok := parser.ParseFormat(*o.Format); ok {
			cfg.Format = format
		}
	}
	if o.OutputFormat != nil {
		if format, ok := compiler.ParseOutputFormat(*o.OutputFormat); ok {
			cfg.OutputFormat = format
		}
	}

	return cfg
}

// Merge returns a copy of o with the present fields of other laid over it.
func (o *CompileOptions) Merge(other *CompileOptions) *CompileOptions {
	var out CompileOptions
	if o != nil {
		out = *o
	}
	if other == nil {
		return &out
	}

	mergeIf(&out.Development, other.Development)
	mergeIf(&out.JSX, other.JSX)
	mergeIf(&out.JSXRuntime, other.JSXRuntime)
	mergeIf(&out.JSXImportSource, other.JSXImportSource)
	mergeIf(&out.Pragma, other.Pragma)
	mergeIf(&out.PragmaFrag, other.PragmaFrag)
	mergeIf(&out.PragmaImportSource, other.PragmaImportSource)
	mergeIf(&out.Format, other.Format)
	mergeIf(&out.OutputFormat, other.OutputFormat)
	mergeIf(&out.Filepath, other.Filepath)
	mergeIf(&out.Frontmatter, other.Frontmatter)
	mergeIf(&out.GFM, other.GFM)

	return &out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func mergeIf[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
