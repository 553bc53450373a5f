package source

import (
	"path/filepath"
	"strings"
)

// SourceType is the Python dialect a file is parsed as.
type SourceType int

const (
	SourceTypePython SourceType = iota
	SourceTypeStub
	SourceTypeNotebook
)

func (t SourceType) String() string {
	switch t {
	case SourceTypeStub:
		return "stub"
	case SourceTypeNotebook:
		return "notebook"
	default:
		return "python"
	}
}

// DetectSourceType classifies path by extension. Unknown extensions are
// treated as plain Python so that explicitly named files are always parsed.
func DetectSourceType(path string) SourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pyi":
		return SourceTypeStub
	case ".ipynb":
		return SourceTypeNotebook
	default:
		return SourceTypePython
	}
}
