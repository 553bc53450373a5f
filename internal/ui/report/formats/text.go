package formats

import (
	"fmt"
	"io"

	"symfind/internal/ui/report"
)

// TextRenderer prints one debug line per binding followed by its quoted name
// text, under a "# path" header.
type TextRenderer struct{}

func (r *TextRenderer) Render(w io.Writer, fr *report.FileReport) error {
	if _, err := fmt.Fprintf(w, "# %s\n", fr.Path); err != nil {
		return err
	}
	for _, rec := range fr.Bindings {
		debug := rec.Debug
		if debug == "" {
			debug = fmt.Sprintf("Binding { name: %q, kind: %s, range: %d..%d }", rec.Name, rec.Kind, rec.Start, rec.End)
		}
		if _, err := fmt.Fprintf(w, "%s %q\n", debug, rec.Text); err != nil {
			return err
		}
	}
	return nil
}
