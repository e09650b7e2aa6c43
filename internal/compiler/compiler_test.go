package compiler_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g5becks/mdxc/internal/compiler"
	"github.com/g5becks/mdxc/internal/parser"
)

func TestDefaultOptions(t *testing.T) {
	opts := compiler.DefaultOptions()

	assert.False(t, opts.Development)
	assert.False(t, opts.JSX)
	assert.Equal(t, compiler.RuntimeAutomatic, opts.JSXRuntime)
	assert.Equal(t, "react", opts.JSXImportSource)
	assert.Equal(t, "React.createElement", opts.Pragma)
	assert.Equal(t, "React.Fragment", opts.PragmaFrag)
	assert.Equal(t, "react", opts.PragmaImportSource)
	assert.Equal(t, parser.FormatMDX, opts.Format)
	assert.Equal(t, compiler.OutputESM, opts.OutputFormat)
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want compiler.OutputFormat
		ok   bool
	}{
		{"esm", compiler.OutputESM, true},
		{"cjs", compiler.OutputCJS, true},
		{"function-body", compiler.OutputFunctionBody, true},
		{"commonjs", compiler.OutputESM, false},
		{"", compiler.OutputESM, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := compiler.ParseOutputFormat(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseOutputFormat(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
			if ok && got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestParseJSXRuntime(t *testing.T) {
	tests := []struct {
		in   string
		want compiler.JSXRuntime
		ok   bool
	}{
		{"automatic", compiler.RuntimeAutomatic, true},
		{"classic", compiler.RuntimeClassic, true},
		{"Classic", compiler.RuntimeAutomatic, false},
		{"", compiler.RuntimeAutomatic, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := compiler.ParseJSXRuntime(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseJSXRuntime(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCompile_Markdown(t *testing.T) {
	code, err := compiler.Compile("# Hello\n", compiler.DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, code, `"react/jsx-runtime"`)
	assert.Contains(t, code, "export default function MDXContent")
	assert.Contains(t, code, `"Hello"`)
}

func TestCompile_Classic(t *testing.T) {
	opts := compiler.DefaultOptions()
	opts.JSXRuntime = compiler.RuntimeClassic

	code, err := compiler.Compile("# Hello\n", opts)
	require.NoError(t, err)

	assert.Contains(t, code, `import React from "react";`)
	assert.Contains(t, code, "React.createElement(")
	assert.NotContains(t, code, "jsx-runtime")
}

func TestCompile_ClassicWithImportedPragma(t *testing.T) {
	opts := compiler.DefaultOptions()
	opts.JSXRuntime = compiler.RuntimeClassic

	code, err := compiler.Compile("import React from 'react'\n\n# Hello\n", opts)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(code, "import React from"))
}

func TestCompile_PreserveJSX(t *testing.T) {
	opts := compiler.DefaultOptions()
	opts.JSX = true

	code, err := compiler.Compile("# Hello\n", opts)
	require.NoError(t, err)

	assert.Contains(t, code, "/*@jsxRuntime automatic @jsxImportSource react*/")
	assert.Contains(t, code, "<_components.h1>")
	assert.NotContains(t, code, `"react/jsx-runtime"`)
}

func TestCompile_CommonJS(t *testing.T) {
	opts := compiler.DefaultOptions()
	opts.OutputFormat = compiler.OutputCJS

	code, err := compiler.Compile("import Chart from './chart.js'\n\n# Hello\n\n<Chart />\n", opts)
	require.NoError(t, err)

	assert.Contains(t, code, `require("react/jsx-runtime")`)
	assert.Contains(t, code, `require("./chart.js")`)
	assert.Contains(t, code, "module.exports")
	assert.NotContains(t, code, "export default")
}

func TestCompile_FunctionBody(t *testing.T) {
	opts := compiler.DefaultOptions()
	opts.OutputFormat = compiler.OutputFunctionBody

	code, err := compiler.Compile("export const meta = {title: 'x'}\n\n# Hello\n", opts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "const module = {exports: {}}, require = () => arguments[0];"))
	assert.True(t, strings.HasSuffix(code, "return module.exports;\n"))
	assert.Contains(t, code, "meta")
	assert.NotContains(t, code, "export const")
	assert.NotContains(t, code, "export default")
}

func TestCompile_FunctionBodyRejectsImports(t *testing.T) {
	opts := compiler.DefaultOptions()
	opts.OutputFormat = compiler.OutputFunctionBody
	opts.Filepath = "page.mdx"

	_, err := compiler.Compile("# Hello\n\nimport Chart from './chart.js'\n", opts)
	require.Error(t, err)

	var compileErr *compiler.Error
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, compiler.KindSyntax, compileErr.Kind)
	assert.Equal(t, "function-body-import", compileErr.RuleID)
	assert.Equal(t, 3, compileErr.Start.Line)
}

func TestCompile_Development(t *testing.T) {
	opts := compiler.DefaultOptions()
	opts.Development = true
	opts.Filepath = "page.mdx"

	code, err := compiler.Compile("<Note />\n", opts)
	require.NoError(t, err)

	assert.Contains(t, code, "jsx-dev-runtime")
	assert.Contains(t, code, `"1:1-1:9"`)
}

func TestCompile_SyntaxError(t *testing.T) {
	opts := compiler.DefaultOptions()
	opts.Filepath = "page.mdx"

	_, err := compiler.Compile("<Button>\n", opts)
	require.Error(t, err)

	var compileErr *compiler.Error
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, compiler.KindSyntax, compileErr.Kind)
	assert.Equal(t, "unclosed-element", compileErr.RuleID)
	assert.Equal(t, 1, compileErr.Start.Line)
	assert.Contains(t, compileErr.Error(), "page.mdx:1:1: ")
	assert.Contains(t, compileErr.Error(), "<Button>")

	var syntaxErr *parser.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestCompile_TransformError(t *testing.T) {
	_, err := compiler.Compile("export const a = ;\n", compiler.DefaultOptions())
	require.Error(t, err)

	var compileErr *compiler.Error
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, compiler.KindTransform, compileErr.Kind)
	assert.Equal(t, 1, compileErr.Start.Line)
	assert.Greater(t, compileErr.Start.Column, 1)
	assert.Contains(t, compileErr.Reason, "Could not compile JSX")
}

func TestCompile_MarkdownFormat(t *testing.T) {
	opts := compiler.DefaultOptions()
	opts.Format = parser.FormatDetect
	opts.Filepath = "readme.md"

	code, err := compiler.Compile("<Button>\n", opts)
	require.NoError(t, err)
	assert.NotContains(t, code, "_missingMdxReference")
}

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *compiler.Error
		want string
	}{
		{
			name: "file and position",
			err:  &compiler.Error{File: "a.mdx", Reason: "bad", Start: parser.Point{Line: 2, Column: 3}},
			want: "a.mdx:2:3: bad",
		},
		{
			name: "position only",
			err:  &compiler.Error{Reason: "bad", Start: parser.Point{Line: 2, Column: 3}},
			want: "2:3: bad",
		},
		{
			name: "file only",
			err:  &compiler.Error{File: "a.mdx", Reason: "bad"},
			want: "a.mdx: bad",
		},
		{
			name: "reason only",
			err:  &compiler.Error{Reason: "bad"},
			want: "bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompile_Concurrent(t *testing.T) {
	opts := compiler.DefaultOptions()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := compiler.Compile("# Title\n\n<Chart data={[1, 2]} />\n", opts)
			assert.NoError(t, err)
			assert.Contains(t, code, "MDXContent")
		}()
	}
	wg.Wait()
}
