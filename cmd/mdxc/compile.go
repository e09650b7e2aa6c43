package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdxc"
	"github.com/g5becks/mdxc/internal/config"
	"github.com/g5becks/mdxc/internal/lockfile"
	"github.com/g5becks/mdxc/internal/source"
	"github.com/g5becks/mdxc/internal/ui"
)

func newCompileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Compile one MDX document from a file, URL or stdin",
		ArgsUsage: "[file|url|-]",
		Flags: append(compileFlags(),
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write output to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the compile result as JSON",
			},
		),
		Action: compileAction,
	}
}

func compileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "development", Usage: "Emit development runtime calls with source positions"},
		&cli.BoolFlag{Name: "jsx", Usage: "Keep JSX in the output instead of compiling it"},
		&cli.StringFlag{Name: "jsx-runtime", Usage: "JSX runtime: automatic or classic"},
		&cli.StringFlag{Name: "jsx-import-source", Usage: "Package providing the automatic runtime"},
		&cli.StringFlag{Name: "pragma", Usage: "Element factory for the classic runtime"},
		&cli.StringFlag{Name: "pragma-frag", Usage: "Fragment for the classic runtime"},
		&cli.StringFlag{Name: "pragma-import-source", Usage: "Module the classic pragma is imported from"},
		&cli.StringFlag{Name: "format", Usage: "Input format: mdx, md or detect"},
		&cli.StringFlag{Name: "output-format", Usage: "Output module: esm, cjs or function-body"},
		&cli.StringFlag{Name: "filepath", Usage: "Path used in diagnostics and format detection"},
		&cli.BoolFlag{Name: "frontmatter", Usage: "Parse YAML frontmatter and export it"},
		&cli.BoolFlag{Name: "gfm", Usage: "Enable GitHub Flavored Markdown"},
	}
}

// compileOptionsFromFlags copies only the flags the user set, so unset flags
// fall through to the config file and then the defaults.
func compileOptionsFromFlags(cmd *cli.Command) *mdxc.CompileOptions {
	opts := &mdxc.CompileOptions{}

	boolFlag := func(name string) *bool {
		if !cmd.IsSet(name) {
			return nil
		}
		return lo.ToPtr(cmd.Bool(name))
	}

	stringFlag := func(name string) *string {
		if !cmd.IsSet(name) {
			return nil
		}
		return lo.ToPtr(cmd.String(name))
	}

	opts.Development = boolFlag("development")
	opts.JSX = boolFlag("jsx")
	opts.JSXRuntime = stringFlag("jsx-runtime")
	opts.JSXImportSource = stringFlag("jsx-import-source")
	opts.Pragma = stringFlag("pragma")
	opts.PragmaFrag = stringFlag("pragma-frag")
	opts.PragmaImportSource = stringFlag("pragma-import-source")
	opts.Format = stringFlag("format")
	opts.OutputFormat = stringFlag("output-format")
	opts.Filepath = stringFlag("filepath")
	opts.Frontmatter = boolFlag("frontmatter")
	opts.GFM = boolFlag("gfm")

	return opts
}

func compileAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 1 {
		return oops.
			Code("INVALID_ARGS").
			Hint("Usage: mdxc compile [file|url|-]").
			Errorf("expected at most 1 argument, got %d", cmd.Args().Len())
	}

	cfg, err := config.LoadOptional(cmd.String("config"))
	if err != nil {
		return err
	}

	cfg.Compile = *cfg.Compile.Merge(compileOptionsFromFlags(cmd))
	printWarnings(cmd, cfg)

	input, err := source.New(cmd.Args().First(), cmd.Root().Reader).Read(ctx)
	if err != nil {
		return err
	}

	opts := &cfg.Compile
	if opts.Filepath == nil {
		opts = opts.Merge(&mdxc.CompileOptions{Filepath: lo.ToPtr(input.Name)})
	}

	logrus.WithFields(logrus.Fields{
		"input": input.Name,
		"bytes": len(input.Content),
	}).Debug("compiling")

	result, err := mdxc.Compile(string(input.Content), opts)
	if err != nil {
		return err
	}

	logrus.WithField("timing", result.Timing).Debug("compiled")

	data := []byte(result.Code)
	if cmd.Bool("json") {
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return oops.Wrapf(err, "encoding compile result")
		}
		data = append(data, '\n')
	}

	if out := cmd.String("out"); out != "" {
		return lockfile.WriteAtomic(out, data)
	}

	return writeAll(cmd.Root().Writer, data)
}

func printWarnings(cmd *cli.Command, cfg *config.Config) {
	warnings := cfg.Warnings()
	if len(warnings) == 0 {
		return
	}

	printer := ui.NewBuildPrinterWithWriter(cmd.Root().ErrWriter, false, false)
	for _, w := range warnings {
		printer.Warn(w)
	}
}

func writeAll(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return oops.Wrapf(err, "writing output")
	}

	return nil
}

