package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepare(t *testing.T, src string) *Parsed {
	t.Helper()
	parsed, err := NewPreparer(nil).PrepareSource(context.Background(), "mod.py", SourceTypePython, []byte(src))
	require.NoError(t, err)
	t.Cleanup(parsed.Close)
	return parsed
}

func TestBuildIndex_LogicalLines(t *testing.T) {
	src := "x = 1\ny = (1,\n     2)\nz = 3; w = 4\n# note\na = \\\n    5\n"
	parsed := prepare(t, src)

	var texts []string
	for _, line := range parsed.Index.LogicalLines() {
		texts = append(texts, parsed.Locator.Slice(line.Range))
	}
	assert.Equal(t, []string{
		"x = 1",
		"y = (1,\n     2)",
		"z = 3;",
		"w = 4",
		"# note",
		"a = \\\n    5",
	}, texts)

	lines := parsed.Index.LogicalLines()
	assert.True(t, lines[4].CommentOnly)
	assert.False(t, lines[0].CommentOnly)
	assert.Equal(t, []int{6}, parsed.Index.ContinuationLines())
	require.Len(t, parsed.Index.CommentRanges(), 1)
	assert.Equal(t, "# note", parsed.Locator.Slice(parsed.Index.CommentRanges()[0]))
}

func TestBuildIndex_LineTokens(t *testing.T) {
	parsed := prepare(t, "import os\n")

	lines := parsed.Index.LogicalLines()
	require.Len(t, lines, 1)
	var kinds []string
	for _, tok := range parsed.Index.LineTokens(lines[0]) {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []string{"import", "identifier"}, kinds)
}

func TestBuildIndex_Empty(t *testing.T) {
	parsed := prepare(t, "")
	assert.Empty(t, parsed.Index.Tokens())
	assert.Empty(t, parsed.Index.LogicalLines())
}
