package formats

import (
	"encoding/json"
	"io"

	"symfind/internal/ui/report"
)

// JSONRenderer writes one FileReport object per line.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, fr *report.FileReport) error {
	return json.NewEncoder(w).Encode(fr)
}
