package formats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"symfind/internal/core/errors"
	"symfind/internal/ui/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *report.FileReport {
	return &report.FileReport{
		Version:    report.Version,
		RunID:      "run-1",
		Path:       "pkg/a.py",
		Dialect:    "python",
		Module:     "a",
		ModuleKind: "Module",
		Bindings: []report.Record{
			{
				Name: "os", Text: "os", Kind: "Import",
				Line: 1, Column: 8, Start: 7, End: 9, References: 2,
				Qualified: "os",
				Debug:     `Binding { id: 0, name: "os", kind: Import }`,
			},
			{
				Name: "x", Text: "x", Kind: "Assignment",
				Line: 2, Column: 1, Start: 10, End: 11, Shadowed: true,
				Flags: []string{"unpacked"},
			},
		},
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, FormatTSV, ""} {
		r, err := New(format)
		require.NoError(t, err, format)
		assert.NotNil(t, r)
	}
	_, err := New("yaml")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextRenderer{}).Render(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "# pkg/a.py", lines[0])
	assert.Equal(t, `Binding { id: 0, name: "os", kind: Import } "os"`, lines[1])
	assert.Equal(t, `Binding { name: "x", kind: Assignment, range: 10..11 } "x"`, lines[2])
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{}
	require.NoError(t, r.Render(&buf, sampleReport()))
	require.NoError(t, r.Render(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var decoded report.FileReport
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.Equal(t, 1, decoded.Version)
	assert.Equal(t, "run-1", decoded.RunID)
	require.Len(t, decoded.Bindings, 2)
	assert.Equal(t, "os", decoded.Bindings[0].Qualified)
	assert.Empty(t, decoded.Bindings[0].Debug)
	assert.NotContains(t, lines[0], "Debug")
	assert.NotContains(t, lines[0], `"scope"`)
}

func TestTSVRenderer_HeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	r := &TSVRenderer{}
	require.NoError(t, r.Render(&buf, sampleReport()))
	require.NoError(t, r.Render(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, strings.TrimSuffix(tsvHeader, "\n"), lines[0])
	assert.Equal(t, "pkg/a.py\tos\tImport\t1\t8\t7\t9\tfalse\t2\t\tos", lines[1])
	assert.Equal(t, "pkg/a.py\tx\tAssignment\t2\t1\t10\t11\ttrue\t0\tunpacked\t", lines[2])
	assert.NotEqual(t, lines[0], lines[3])
}
