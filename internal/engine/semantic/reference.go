package semantic

import "symfind/internal/engine/source"

type ReferenceID int

// Reference is one load of a name.
type Reference struct {
	ID    ReferenceID
	Name  string
	Scope ScopeID
	Range source.TextRange
	// Binding is the resolved binding, or NoBinding.
	Binding BindingID
}

func (r *Reference) Resolved() bool {
	return r.Binding != NoBinding
}
