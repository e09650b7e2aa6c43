// Package mdxc compiles MDX, Markdown with embedded JSX, ESM and
// expressions, into a JavaScript module whose default export is the
// MDXContent component. The module is an ES module unless OutputFormat asks
// for "cjs" or "function-body".
//
// Compile is safe for concurrent use. Options are optional per field: a nil
// field keeps the default from DefaultConfig.
//
//	result, err := mdxc.Compile("# Hello, {props.name}", &mdxc.CompileOptions{
//		JSXRuntime: lo.ToPtr("classic"),
//	})
package mdxc
