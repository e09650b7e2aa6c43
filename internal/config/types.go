package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/g5becks/mdxc"
)

const (
	DefaultOutput    = "dist"
	DefaultParallel  = 4
	DefaultExtension = ".js"
	maxParallel      = 64
)

func DefaultInclude() []string {
	return []string{"**/*.mdx", "**/*.md"}
}

func knownRuntimes() []string {
	return []string{"automatic", "classic"}
}

func knownFormats() []string {
	return []string{"mdx", "md", "detect"}
}

func knownOutputFormats() []string {
	return []string{"esm", "cjs", "function-body"}
}

type Config struct {
	Root      string              `koanf:"root"`
	Output    string              `koanf:"output"`
	Include   []string            `koanf:"include"   validate:"dive,required"`
	Exclude   []string            `koanf:"exclude"   validate:"dive,required"`
	Parallel  int                 `koanf:"parallel"  validate:"gte=1,lte=64"`
	Extension string              `koanf:"extension" validate:"startswith=."`
	Compile   mdxc.CompileOptions `koanf:"compile"`
	ConfigDir string              `koanf:"-"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}

	if len(c.Include) == 0 {
		c.Include = DefaultInclude()
	}

	if c.Parallel == 0 {
		c.Parallel = DefaultParallel
	}

	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
}

func (c *Config) Validate() error {
	valErr := newValidator().Struct(c)
	if valErr == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(valErr, &validationErrors) {
		return oops.
			Code("CONFIG_INVALID").
			Wrapf(valErr, "validating config")
	}

	return c.mapValidationError(validationErrors[0])
}

func (c *Config) mapValidationError(fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())

	switch {
	case field == "parallel":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "parallel").
			With("value", c.Parallel).
			Hint(fmt.Sprintf("Set parallel between 1 and %d", maxParallel)).
			Errorf("invalid parallel value %d", c.Parallel)

	case field == "extension":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "extension").
			With("value", c.Extension).
			Hint("Extensions start with a dot, for example \".js\" or \".jsx\"").
			Errorf("invalid output extension %q", c.Extension)

	case strings.HasPrefix(field, "include"), strings.HasPrefix(field, "exclude"):
		return oops.
			Code("CONFIG_INVALID").
			With("field", fe.Field()).
			Hint("Remove empty glob patterns").
			Errorf("empty pattern in %s", fe.Field())

	default:
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for field %q", field)
	}
}

// Warnings lists settings that are accepted but have no effect, such as an
// unknown jsx_runtime, with a suggestion when one is close.
func (c *Config) Warnings() []string {
	var warnings []string

	if v := c.Compile.JSXRuntime; v != nil && !lo.Contains(knownRuntimes(), *v) {
		warnings = append(warnings, unknownValue("jsx_runtime", *v, knownRuntimes()))
	}

	if v := c.Compile.Format; v != nil && !lo.Contains(knownFormats(), *v) {
		warnings = append(warnings, unknownValue("format", *v, knownFormats()))
	}

	if v := c.Compile.OutputFormat; v != nil && !lo.Contains(knownOutputFormats(), *v) {
		warnings = append(warnings, unknownValue("output_format", *v, knownOutputFormats()))
	}

	return warnings
}

func unknownValue(key, value string, known []string) string {
	msg := fmt.Sprintf("unknown %s %q is ignored", key, value)

	if matches := fuzzy.Find(strings.ToLower(value), known); len(matches) > 0 {
		return msg + fmt.Sprintf("; did you mean %q?", matches[0].Str)
	}

	return msg + fmt.Sprintf(" (expected one of: %s)", strings.Join(known, ", "))
}

// OutputPath maps a source file under Root to its compiled file under
// Output, replacing the extension.
func (c *Config) OutputPath(source string) (string, error) {
	rel, err := filepath.Rel(c.Root, source)
	if err != nil {
		return "", oops.
			With("source", source).
			Wrapf(err, "resolving %q relative to %q", source, c.Root)
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + c.Extension
	return filepath.Join(c.Output, rel), nil
}

func (c *Config) resolve(path string) string {
	if path == "" {
		return c.ConfigDir
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Clean(filepath.Join(c.ConfigDir, path))
}
