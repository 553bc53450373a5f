package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"symfind/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSourceType(t *testing.T) {
	cases := map[string]SourceType{
		"a.py":         SourceTypePython,
		"pkg/stub.pyi": SourceTypeStub,
		"nb.IPYNB":     SourceTypeNotebook,
		"script":       SourceTypePython,
		"notes.txt":    SourceTypePython,
	}
	for path, want := range cases {
		assert.Equal(t, want, DetectSourceType(path), path)
	}
	assert.Equal(t, "notebook", SourceTypeNotebook.String())
}

func TestPrepare_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFimport os\n"), 0o644))

	parsed, err := NewPreparer(nil).Prepare(context.Background(), path)
	require.NoError(t, err)
	defer parsed.Close()

	assert.Equal(t, "import os\n", string(parsed.Source))
	assert.Equal(t, "module", parsed.Root().Kind())
	assert.False(t, parsed.HasSyntaxErrors)
	assert.Equal(t, SourceTypePython, parsed.SourceType)
}

func TestPrepare_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.py")
	parsed, err := NewPreparer(nil).Prepare(context.Background(), path)

	require.Error(t, err)
	assert.Nil(t, parsed)
	assert.True(t, errors.IsCode(err, errors.CodeSourceUnreadable))
	assert.Contains(t, err.Error(), path)
}

func TestPrepareSource_InvalidUTF8(t *testing.T) {
	_, err := NewPreparer(nil).PrepareSource(context.Background(), "bad.py", SourceTypePython, []byte("x = '\xff'\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSourceUnreadable))
}

func TestPrepareSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPreparer(nil).PrepareSource(ctx, "a.py", SourceTypePython, []byte("x = 1\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSourceUnreadable))
}

func TestPrepareSource_SyntaxErrorStillParses(t *testing.T) {
	parsed := prepare(t, "def (:\n")
	assert.True(t, parsed.HasSyntaxErrors)
}

func TestPrepareSource_Notebook(t *testing.T) {
	nb := `{
  "cells": [
    {"cell_type": "code", "source": ["import os\n", "%matplotlib inline"]},
    {"cell_type": "markdown", "source": "# Title"},
    {"cell_type": "code", "source": "x = 1"}
  ],
  "metadata": {},
  "nbformat": 4,
  "nbformat_minor": 5
}`
	parsed, err := NewPreparer(nil).PrepareSource(context.Background(), "nb.ipynb", SourceTypeNotebook, []byte(nb))
	require.NoError(t, err)
	defer parsed.Close()

	assert.Equal(t, "import os\n#matplotlib inline\nx = 1\n", string(parsed.Source))
	assert.False(t, parsed.HasSyntaxErrors)
}

func TestPrepareSource_BadNotebook(t *testing.T) {
	for _, raw := range []string{`{"cells": [`, `{"cells": [{"cell_type": "code", "source": 42}]}`} {
		_, err := NewPreparer(nil).PrepareSource(context.Background(), "nb.ipynb", SourceTypeNotebook, []byte(raw))
		require.Error(t, err, raw)
		assert.True(t, errors.IsCode(err, errors.CodeSourceUnreadable), raw)
	}
}

func TestGrammarLoader(t *testing.T) {
	loader := NewGrammarLoader()
	require.NotNil(t, loader.Python())
	assert.Same(t, loader.Python(), loader.Language(LanguagePython))
	assert.Nil(t, loader.Language("go"))
}
