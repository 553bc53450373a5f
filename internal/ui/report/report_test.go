package report

import (
	"context"
	"testing"

	"symfind/internal/engine/semantic"
	"symfind/internal/engine/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildReport(t *testing.T, src string, opts Options) *FileReport {
	t.Helper()
	parsed, err := source.NewPreparer(nil).PrepareSource(context.Background(), "pkg/mod.py", source.SourceTypePython, []byte(src))
	require.NoError(t, err)
	t.Cleanup(parsed.Close)

	w := semantic.New(parsed.Locator, semantic.NewModule(parsed.Path, parsed.SourceType, parsed.Root()), semantic.DefaultSettings())
	require.NoError(t, w.VisitAll(parsed.Root()))

	fr, err := Build("run-42", parsed, w, opts)
	require.NoError(t, err)
	return fr
}

func TestBuild(t *testing.T) {
	fr := buildReport(t, "import os\nx = 1\nx = os.sep\nfrom m import *\nprint(missing)\n", Options{})

	assert.Equal(t, Version, fr.Version)
	assert.Equal(t, "run-42", fr.RunID)
	assert.Equal(t, "pkg/mod.py", fr.Path)
	assert.Equal(t, "mod", fr.Module)
	assert.Equal(t, "Module", fr.ModuleKind)
	assert.Equal(t, "python", fr.Dialect)
	assert.Equal(t, 1, fr.Unresolved)
	assert.Equal(t, []string{"m"}, fr.StarImports)

	require.Len(t, fr.Bindings, 2)
	osRec, xRec := fr.Bindings[0], fr.Bindings[1]
	assert.Equal(t, "os", osRec.Name)
	assert.Equal(t, "Import", osRec.Kind)
	assert.Equal(t, 1, osRec.Line)
	assert.Equal(t, 8, osRec.Column)
	assert.Equal(t, 1, osRec.References)
	assert.Equal(t, "os", osRec.Qualified)

	assert.Equal(t, "x", xRec.Name)
	assert.Equal(t, 3, xRec.Line)
	assert.True(t, xRec.Shadowed)
	assert.Contains(t, xRec.Debug, `name: "x"`)
}

func TestBuild_IncludeBuiltins(t *testing.T) {
	without := buildReport(t, "x = 1\n", Options{})
	with := buildReport(t, "x = 1\n", Options{IncludeBuiltins: true})

	assert.Len(t, without.Bindings, 1)
	assert.Greater(t, len(with.Bindings), 100)
	last := with.Bindings[len(with.Bindings)-1]
	assert.Equal(t, "x", last.Name)
	assert.Equal(t, "Builtin", with.Bindings[0].Kind)
	assert.Zero(t, with.Bindings[0].Line)
}
