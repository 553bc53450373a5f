package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.toml")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "-version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "symfind v"+VERSION+"\n", stdout)
}

func TestRun_Usage(t *testing.T) {
	cases := [][]string{
		{},
		{"a.py", "b.py"},
		{"-no-such-flag", "a.py"},
	}
	for _, args := range cases {
		code, stdout, stderr := runCLI(t, args...)
		assert.Equal(t, exitUsage, code, "args %v", args)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "usage: symfind")
	}
}

func TestRun_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("import numpy as np\n"), 0o644))

	code, stdout, _ := runCLI(t, "-config", missingConfig(t), path)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "# "+path+"\n", strings.SplitAfter(stdout, "\n")[0])
	assert.Contains(t, stdout, `name: "np"`)
	assert.Contains(t, stdout, `qualified: "numpy"`)
	assert.True(t, strings.HasSuffix(stdout, " \"np\"\n"), stdout)
}

func TestRun_FormatFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	code, stdout, _ := runCLI(t, "-config", missingConfig(t), "-format", "tsv", path)
	require.Equal(t, exitOK, code)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "File\tName\tKind"))
	assert.True(t, strings.HasPrefix(lines[1], path+"\tx\tAssignment\t1\t1\t"))
}

func TestRun_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	code, _, stderr := runCLI(t, "-config", missingConfig(t), "-format", "yaml", path)
	assert.Equal(t, exitFatal, code)
	assert.Contains(t, stderr, "output.format")
}

func TestRun_MissingPath(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-config", missingConfig(t), filepath.Join(t.TempDir(), "nope.py"))
	assert.Equal(t, exitFatal, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "SOURCE_UNREADABLE")
}

func TestRun_OnErrorSkip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.py"), []byte("x = '\xff'\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.py"), []byte("y = 1\n"), 0o644))

	code, _, _ := runCLI(t, "-config", missingConfig(t), dir)
	assert.Equal(t, exitFatal, code)

	code, stdout, stderr := runCLI(t, "-config", missingConfig(t), "-on-error", "skip", dir)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, `name: "y"`)
	assert.Contains(t, stderr, "skipping file")
}

func TestRun_ConfigFileAndOutputPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(src, []byte("def main(): pass\n"), 0o644))
	outPath := filepath.Join(dir, "out", "bindings.json")
	metricsPath := filepath.Join(dir, "metrics.prom")
	cfgPath := filepath.Join(dir, "symfind.toml")
	content := "[output]\nformat = \"json\"\npath = \"" + filepath.ToSlash(outPath) + "\"\n" +
		"[observability]\nmetrics_file = \"" + filepath.ToSlash(metricsPath) + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	code, stdout, _ := runCLI(t, "-config", cfgPath, src)
	require.Equal(t, exitOK, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"main"`)

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "symfind_files_processed_total")
}
