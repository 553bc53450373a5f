package semantic

import (
	"fmt"
	"strings"

	"symfind/internal/engine/source"
)

type BindingID int

// NoBinding marks an absent binding: an unresolved reference or a binding
// that shadows nothing.
const NoBinding BindingID = -1

type BindingKind int

const (
	BindingBuiltin BindingKind = iota
	BindingAnnotation
	BindingArgument
	BindingAssignment
	BindingAugmentedAssignment
	BindingNamedExprAssignment
	BindingLoopVar
	BindingWithItemVar
	BindingImport
	BindingFromImport
	BindingSubmoduleImport
	BindingFutureImport
	BindingFunctionDefinition
	BindingClassDefinition
	BindingTypeParam
	BindingTypeAlias
	BindingGlobal
	BindingNonlocal
	BindingBoundException
	BindingUnboundException
	BindingDeletion
	BindingMatchCapture
)

var bindingKindNames = [...]string{
	BindingBuiltin:             "Builtin",
	BindingAnnotation:          "Annotation",
	BindingArgument:            "Argument",
	BindingAssignment:          "Assignment",
	BindingAugmentedAssignment: "AugmentedAssignment",
	BindingNamedExprAssignment: "NamedExprAssignment",
	BindingLoopVar:             "LoopVar",
	BindingWithItemVar:         "WithItemVar",
	BindingImport:              "Import",
	BindingFromImport:          "FromImport",
	BindingSubmoduleImport:     "SubmoduleImport",
	BindingFutureImport:        "FutureImport",
	BindingFunctionDefinition:  "FunctionDefinition",
	BindingClassDefinition:     "ClassDefinition",
	BindingTypeParam:           "TypeParam",
	BindingTypeAlias:           "TypeAlias",
	BindingGlobal:              "Global",
	BindingNonlocal:            "Nonlocal",
	BindingBoundException:      "BoundException",
	BindingUnboundException:    "UnboundException",
	BindingDeletion:            "Deletion",
	BindingMatchCapture:        "MatchCapture",
}

func (k BindingKind) String() string {
	if int(k) >= 0 && int(k) < len(bindingKindNames) {
		return bindingKindNames[k]
	}
	return "Unknown"
}

// IsImport reports whether the kind introduces a module or module member.
func (k BindingKind) IsImport() bool {
	switch k {
	case BindingImport, BindingFromImport, BindingSubmoduleImport, BindingFutureImport:
		return true
	}
	return false
}

// unbinds reports kinds after which the name is unbound in its scope.
func (k BindingKind) unbinds() bool {
	return k == BindingDeletion || k == BindingUnboundException
}

type BindingFlags uint8

const (
	FlagAlias BindingFlags = 1 << iota
	FlagUnpacked
	FlagGlobal
	FlagNonlocal
	FlagPrivate
)

var flagNames = []struct {
	flag BindingFlags
	name string
}{
	{FlagAlias, "alias"},
	{FlagUnpacked, "unpacked"},
	{FlagGlobal, "global"},
	{FlagNonlocal, "nonlocal"},
	{FlagPrivate, "private"},
}

func (f BindingFlags) Has(flag BindingFlags) bool {
	return f&flag != 0
}

// Names returns the set flags in declaration order.
func (f BindingFlags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}

// Binding is one name introduction. Only its reference list changes after creation.
type Binding struct {
	ID    BindingID
	Name  string
	Kind  BindingKind
	Scope ScopeID
	Range source.TextRange
	// Shadowed is the binding of the same name in the same scope that this one
	// replaced, or NoBinding.
	Shadowed BindingID
	Flags    BindingFlags
	// Qualified is the dotted import path for import kinds ("os.path", ".utils.x").
	Qualified string

	references []ReferenceID
}

// References returns the ids of references resolved to this binding.
func (b *Binding) References() []ReferenceID {
	return append([]ReferenceID(nil), b.references...)
}

func (b *Binding) IsUsed() bool {
	return len(b.references) > 0
}

func (b *Binding) IsShadowing() bool {
	return b.Shadowed != NoBinding
}

// NameText returns the source text the binding was declared with. Builtins
// have no source range and report their name.
func (b *Binding) NameText(locator *source.Locator) string {
	if b.Range.Len() == 0 || locator == nil {
		return b.Name
	}
	return locator.Slice(b.Range)
}

func (b *Binding) String() string {
	shadowed := "none"
	if b.Shadowed != NoBinding {
		shadowed = fmt.Sprintf("%d", b.Shadowed)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Binding { id: %d, name: %q, kind: %s, range: %s, scope: %d, shadowed: %s, flags: [%s], references: %d",
		b.ID, b.Name, b.Kind, b.Range, b.Scope, shadowed, strings.Join(b.Flags.Names(), ", "), len(b.references))
	if b.Qualified != "" {
		fmt.Fprintf(&sb, ", qualified: %q", b.Qualified)
	}
	sb.WriteString(" }")
	return sb.String()
}

func isPrivateName(name string) bool {
	return strings.HasPrefix(name, "_") && !(strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"))
}
