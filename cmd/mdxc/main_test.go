package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g5becks/mdxc"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	root := newRootCommand()
	root.Reader = strings.NewReader(stdin)
	root.Writer = &stdout
	root.ErrWriter = io.Discard

	err := root.Run(context.Background(), append([]string{"mdxc"}, args...))
	return stdout.String(), err
}

func inTempDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestAvailable(t *testing.T) {
	out, err := runCLI(t, "", "available")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestCompileFromStdin(t *testing.T) {
	inTempDir(t)

	out, err := runCLI(t, "# Hello\n", "compile", "--jsx-runtime", "classic", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "React.createElement(")
	assert.Contains(t, out, "Hello")
}

func TestCompileJSON(t *testing.T) {
	inTempDir(t)

	out, err := runCLI(t, "# Hello\n", "compile", "--json")
	require.NoError(t, err)

	var result mdxc.CompileResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Contains(t, result.Code, "react/jsx-runtime")
	assert.Nil(t, result.Map)
	assert.GreaterOrEqual(t, result.Timing, 0.0)
}

func TestCompileFileToOut(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.mdx"), []byte("# Page\n"), 0o644))

	out, err := runCLI(t, "", "compile", "--out", "build/page.js", "page.mdx")
	require.NoError(t, err)
	assert.Empty(t, out)

	code, err := os.ReadFile(filepath.Join(dir, "build", "page.js"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "Page")
}

func TestCompileFlagsOverrideConfig(t *testing.T) {
	dir := inTempDir(t)
	config := "[compile]\njsx_runtime = \"classic\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mdxc.toml"), []byte(config), 0o644))

	fromConfig, err := runCLI(t, "# Hi\n", "compile")
	require.NoError(t, err)
	assert.Contains(t, fromConfig, "React.createElement(")

	fromFlag, err := runCLI(t, "# Hi\n", "compile", "--jsx-runtime", "automatic")
	require.NoError(t, err)
	assert.Contains(t, fromFlag, "react/jsx-runtime")
}

func TestCompileOutputFormat(t *testing.T) {
	inTempDir(t)

	out, err := runCLI(t, "# Hello\n", "compile", "--output-format", "cjs")
	require.NoError(t, err)
	assert.Contains(t, out, `require("react/jsx-runtime")`)
	assert.NotContains(t, out, "export default")
}

func TestCompileError(t *testing.T) {
	inTempDir(t)

	_, err := runCLI(t, "<Button>\n", "compile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MDX compilation failed")
}

func TestCompileTooManyArgs(t *testing.T) {
	inTempDir(t)

	_, err := runCLI(t, "", "compile", "a.mdx", "b.mdx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected at most 1 argument")
}

func TestInitAndBuild(t *testing.T) {
	dir := inTempDir(t)

	out, err := runCLI(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "created mdxc.toml")

	_, err = runCLI(t, "", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "intro.mdx"), []byte("# Intro\n"), 0o644))

	out, err = runCLI(t, "", "build", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"docs/intro.mdx"`)
	assert.FileExists(t, filepath.Join(dir, "dist", "docs", "intro.js"))
}

func TestBuildFailureReturnsError(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.mdx"), []byte("<Button>\n"), 0o644))

	_, err := runCLI(t, "", "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile")
}

func TestBenchJSON(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.mdx"), []byte("# Page\n"), 0o644))

	out, err := runCLI(t, "", "bench", "-n", "2", "--json", "page.mdx")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "page.mdx", rows[0]["name"])
	assert.EqualValues(t, 2, rows[0]["iterations"])
}

func TestBenchRejectsZeroIterations(t *testing.T) {
	_, err := runCLI(t, "", "bench", "-n", "0")
	require.Error(t, err)
}
