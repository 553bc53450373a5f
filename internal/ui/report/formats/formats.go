package formats

import (
	"fmt"
	"io"

	"symfind/internal/core/errors"
	"symfind/internal/ui/report"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatTSV  = "tsv"
)

// Renderer writes file reports to w, one call per file.
type Renderer interface {
	Render(w io.Writer, fr *report.FileReport) error
}

// New returns the renderer for format.
func New(format string) (Renderer, error) {
	switch format {
	case FormatText, "":
		return &TextRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatTSV:
		return &TSVRenderer{}, nil
	}
	return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("unknown output format %q", format))
}
