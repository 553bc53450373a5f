package formats

import (
	"fmt"
	"io"
	"strings"

	"symfind/internal/ui/report"
)

const tsvHeader = "File\tName\tKind\tLine\tColumn\tStart\tEnd\tShadowed\tReferences\tFlags\tQualified\n"

// TSVRenderer writes a header once, then one row per binding.
type TSVRenderer struct {
	wroteHeader bool
}

func (t *TSVRenderer) Render(w io.Writer, fr *report.FileReport) error {
	var buf strings.Builder
	if !t.wroteHeader {
		buf.WriteString(tsvHeader)
		t.wroteHeader = true
	}
	for _, rec := range fr.Bindings {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%d\t%d\t%t\t%d\t%s\t%s\n",
			tsvField(fr.Path),
			tsvField(rec.Name),
			rec.Kind,
			rec.Line,
			rec.Column,
			rec.Start,
			rec.End,
			rec.Shadowed,
			rec.References,
			strings.Join(rec.Flags, ","),
			tsvField(rec.Qualified),
		))
	}
	_, err := io.WriteString(w, buf.String())
	return err
}
