package semantic

import "symfind/internal/engine/source"

type ScopeID int

const (
	// NoScope is the parent of the module scope.
	NoScope ScopeID = -1
	// GlobalScopeID is always the module scope of a walk.
	GlobalScopeID ScopeID = 0
)

type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeClass
	ScopeFunction
	ScopeLambda
	ScopeComprehension
	// ScopeType holds the type parameters of a generic def, class or alias.
	ScopeType
)

var scopeKindNames = [...]string{
	ScopeModule:        "Module",
	ScopeClass:         "Class",
	ScopeFunction:      "Function",
	ScopeLambda:        "Lambda",
	ScopeComprehension: "Comprehension",
	ScopeType:          "Type",
}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return "Unknown"
}

// ScopeEntry is one visible name of a scope and the binding it currently maps to.
type ScopeEntry struct {
	Name    string
	Binding BindingID
}

// Scope is a lexical region. Name lookups return the most recent binding;
// iteration follows the order in which names were first bound.
type Scope struct {
	ID     ScopeID
	Kind   ScopeKind
	Name   string
	Parent ScopeID
	Range  source.TextRange

	bindings    map[string]BindingID
	order       []string
	declared    map[string]BindingKind
	starImports []string
}

func newScope(id ScopeID, kind ScopeKind, name string, parent ScopeID, r source.TextRange) *Scope {
	return &Scope{
		ID:       id,
		Kind:     kind,
		Name:     name,
		Parent:   parent,
		Range:    r,
		bindings: make(map[string]BindingID),
	}
}

// Get returns the binding name currently maps to in this scope only.
func (s *Scope) Get(name string) (BindingID, bool) {
	id, ok := s.bindings[name]
	return id, ok
}

func (s *Scope) Has(name string) bool {
	_, ok := s.bindings[name]
	return ok
}

// Len returns the number of distinct names bound in the scope.
func (s *Scope) Len() int {
	return len(s.order)
}

// Bindings lists every visible name with its current binding, in
// first-insertion order.
func (s *Scope) Bindings() []ScopeEntry {
	out := make([]ScopeEntry, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, ScopeEntry{Name: name, Binding: s.bindings[name]})
	}
	return out
}

// StarImports lists the modules pulled in with "from m import *".
func (s *Scope) StarImports() []string {
	return append([]string(nil), s.starImports...)
}

// Declaration reports whether name was declared global or nonlocal here.
func (s *Scope) Declaration(name string) (BindingKind, bool) {
	kind, ok := s.declared[name]
	return kind, ok
}

func (s *Scope) IsFunctionLike() bool {
	return s.Kind == ScopeFunction || s.Kind == ScopeLambda
}

// add maps name to id and returns the binding it replaced, or NoBinding.
func (s *Scope) add(name string, id BindingID) BindingID {
	prev, ok := s.bindings[name]
	if !ok {
		s.order = append(s.order, name)
		prev = NoBinding
	}
	s.bindings[name] = id
	return prev
}

func (s *Scope) declare(name string, kind BindingKind) {
	if s.declared == nil {
		s.declared = make(map[string]BindingKind)
	}
	s.declared[name] = kind
}

func (s *Scope) addStarImport(module string) {
	s.starImports = append(s.starImports, module)
}
