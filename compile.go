package mdxc

import (
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/mdxc/internal/compiler"
)

// CompileError carries the kind, rule and position of a failed compile.
// Errors returned by Compile wrap it; use errors.As to reach it.
type CompileError = compiler.Error

// CompileResult is the output of a successful Compile. Map is always nil:
// source maps are not generated. Timing is the engine time in milliseconds.
type CompileResult struct {
	Code   string  `json:"code"`
	Map    *string `json:"map,omitempty"`
	Timing float64 `json:"timing"`
}

// Compile compiles MDX source. On failure the error message starts with
// "MDX compilation failed".
func Compile(content string, options *CompileOptions) (*CompileResult, error) {
	cfg := Resolve(options)

	start := time.Now()
	code, err := compiler.Compile(content, cfg)
	elapsed := time.Since(start)

	if err != nil {
		return nil, oops.
			Code("MDX_COMPILE_FAILED").
			With("file", cfg.Filepath).
			With("runtime", cfg.JSXRuntime.String()).
			Wrapf(err, "MDX compilation failed")
	}

	return &CompileResult{
		Code:   code,
		Timing: float64(elapsed.Nanoseconds()) / float64(time.Millisecond),
	}, nil
}

// IsAvailable reports whether the compiler can be used. It always can.
func IsAvailable() bool {
	return true
}
