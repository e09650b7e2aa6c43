package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdxc/internal/lockfile"
)

const starterConfig = `# mdxc configuration

# Directory containing the sources, relative to this file.
root = "."
output = "dist"

include = ["**/*.mdx", "**/*.md"]
exclude = ["node_modules/**"]

parallel = 4
extension = ".js"

[compile]
jsx_runtime = "automatic"
jsx_import_source = "react"
# format = "detect"
# output_format = "esm"
# development = false
# frontmatter = true
# gfm = true
`

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter mdxc.toml in the current directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "Where to write the config file", Value: "mdxc.toml"},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if _, err := os.Stat(path); err == nil {
		return oops.
			Code("CONFIG_EXISTS").
			With("path", path).
			Hint("Edit the existing file or remove it first").
			Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return oops.Wrapf(err, "checking %q", path)
	}

	if err := lockfile.WriteAtomic(path, []byte(starterConfig)); err != nil {
		return err
	}

	_, err := fmt.Fprintf(cmd.Root().Writer, "created %s\n", path)
	return err
}
