package report

import (
	"symfind/internal/engine/semantic"
	"symfind/internal/engine/source"
)

// Version is bumped whenever Record or FileReport change shape.
const Version = 1

// Record is one module-level binding in reporting form. Every record belongs
// to the module scope, so none carries a scope field.
type Record struct {
	Name       string   `json:"name"`
	Text       string   `json:"text"`
	Kind       string   `json:"kind"`
	Line       int      `json:"line"`
	Column     int      `json:"column"`
	Start      uint     `json:"start"`
	End        uint     `json:"end"`
	Shadowed   bool     `json:"shadowed"`
	References int      `json:"references"`
	Flags      []string `json:"flags,omitempty"`
	Qualified  string   `json:"qualified,omitempty"`

	// Debug is the binding's debug rendering, used by the text format.
	Debug string `json:"-"`
}

type FileReport struct {
	Version      int      `json:"version"`
	RunID        string   `json:"run_id"`
	Path         string   `json:"path"`
	Dialect      string   `json:"dialect"`
	Module       string   `json:"module"`
	ModuleKind   string   `json:"module_kind"`
	SyntaxErrors bool     `json:"syntax_errors"`
	Bindings     []Record `json:"bindings"`
	Unresolved   int      `json:"unresolved"`
	StarImports  []string `json:"star_imports,omitempty"`
}

type Options struct {
	IncludeBuiltins bool
}

// Build converts the module scope of a finished walk into a report. Records
// follow the scope's insertion order.
func Build(runID string, parsed *source.Parsed, w *semantic.Walker, opts Options) (*FileReport, error) {
	global := w.GlobalScope()
	module := w.Model().Module()
	fr := &FileReport{
		Version:      Version,
		RunID:        runID,
		Path:         parsed.Path,
		Dialect:      parsed.SourceType.String(),
		Module:       module.Name,
		ModuleKind:   module.Kind.String(),
		SyntaxErrors: parsed.HasSyntaxErrors,
		Bindings:     make([]Record, 0, global.Len()),
		Unresolved:   len(w.UnresolvedReferences()),
		StarImports:  global.StarImports(),
	}

	for _, entry := range global.Bindings() {
		b, err := w.Binding(entry.Binding)
		if err != nil {
			return nil, err
		}
		if b.Kind == semantic.BindingBuiltin && !opts.IncludeBuiltins {
			continue
		}
		fr.Bindings = append(fr.Bindings, newRecord(b, parsed.Locator))
	}
	return fr, nil
}

func newRecord(b *semantic.Binding, locator *source.Locator) Record {
	rec := Record{
		Name:       b.Name,
		Text:       b.NameText(locator),
		Kind:       b.Kind.String(),
		Start:      b.Range.Start,
		End:        b.Range.End,
		Shadowed:   b.IsShadowing(),
		References: len(b.References()),
		Flags:      b.Flags.Names(),
		Qualified:  b.Qualified,
		Debug:      b.String(),
	}
	if b.Range.Len() > 0 {
		loc := locator.Location(b.Range.Start)
		rec.Line, rec.Column = loc.Line, loc.Column
	}
	return rec
}
