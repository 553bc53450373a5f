package semantic

import (
	"symfind/internal/core/errors"
	"symfind/internal/engine/source"
)

// Model holds the scope, binding and reference tables of one module.
// Tables only grow; ids are indexes into them.
type Model struct {
	module     Module
	scopes     []*Scope
	bindings   []*Binding
	references []*Reference
	current    ScopeID
}

// NewModel creates a model with its module scope active.
func NewModel(module Module) *Model {
	m := &Model{module: module, current: NoScope}
	var r source.TextRange
	if module.Root != nil {
		r = source.NewRange(module.Root.StartByte(), module.Root.EndByte())
	}
	m.pushScope(ScopeModule, module.Name, r)
	return m
}

func (m *Model) Module() Module {
	return m.module
}

func (m *Model) GlobalScope() *Scope {
	return m.scopes[GlobalScopeID]
}

func (m *Model) CurrentScope() *Scope {
	return m.scopes[m.current]
}

// Scope returns the scope with the given id, or nil.
func (m *Model) Scope(id ScopeID) *Scope {
	if id < 0 || int(id) >= len(m.scopes) {
		return nil
	}
	return m.scopes[id]
}

func (m *Model) Scopes() []*Scope {
	return append([]*Scope(nil), m.scopes...)
}

// Binding returns the binding for id. Ids that were never issued by this
// model fail with UNKNOWN_BINDING_ID.
func (m *Model) Binding(id BindingID) (*Binding, error) {
	if id < 0 || int(id) >= len(m.bindings) {
		return nil, errors.AddContext(
			errors.New(errors.CodeUnknownBindingID, "binding id was not issued by this walk"),
			errors.CtxBinding, int(id),
		)
	}
	return m.bindings[id], nil
}

func (m *Model) Bindings() []*Binding {
	return append([]*Binding(nil), m.bindings...)
}

func (m *Model) References() []*Reference {
	return append([]*Reference(nil), m.references...)
}

// UnresolvedReferences returns the references that resolved to no binding.
func (m *Model) UnresolvedReferences() []*Reference {
	var out []*Reference
	for _, ref := range m.references {
		if !ref.Resolved() {
			out = append(out, ref)
		}
	}
	return out
}

func (m *Model) pushScope(kind ScopeKind, name string, r source.TextRange) ScopeID {
	id := ScopeID(len(m.scopes))
	m.scopes = append(m.scopes, newScope(id, kind, name, m.current, r))
	m.current = id
	return id
}

func (m *Model) popScope() {
	if m.current == GlobalScopeID {
		return
	}
	m.current = m.scopes[m.current].Parent
}

// bind records a binding of name in scope. Names declared global or
// nonlocal in that scope are redirected to the declared target scope.
func (m *Model) bind(scope ScopeID, name string, kind BindingKind, r source.TextRange, flags BindingFlags, qualified string) BindingID {
	if decl, ok := m.scopes[scope].Declaration(name); ok && kind != BindingGlobal && kind != BindingNonlocal {
		switch decl {
		case BindingGlobal:
			scope = GlobalScopeID
			flags |= FlagGlobal
		case BindingNonlocal:
			if target := m.nonlocalTarget(name, m.scopes[scope].Parent); target != NoScope {
				scope = target
			}
			flags |= FlagNonlocal
		}
	}
	if isPrivateName(name) {
		flags |= FlagPrivate
	}
	id := BindingID(len(m.bindings))
	b := &Binding{
		ID:        id,
		Name:      name,
		Kind:      kind,
		Scope:     scope,
		Range:     r,
		Flags:     flags,
		Qualified: qualified,
	}
	m.bindings = append(m.bindings, b)
	b.Shadowed = m.scopes[scope].add(name, id)
	return id
}

// restore points name in scope back at a previous binding without creating
// a new one.
func (m *Model) restore(scope ScopeID, name string, id BindingID) {
	m.scopes[scope].bindings[name] = id
}

// nonlocalTarget finds the nearest enclosing function scope that binds name.
func (m *Model) nonlocalTarget(name string, from ScopeID) ScopeID {
	for id := from; id != NoScope; id = m.scopes[id].Parent {
		s := m.scopes[id]
		if s.Kind == ScopeModule {
			break
		}
		if s.Kind == ScopeClass {
			continue
		}
		if s.Has(name) {
			return id
		}
	}
	return NoScope
}

// lookup resolves name from scope outward. Class scopes other than the
// starting one are skipped. Global and nonlocal declarations are followed to
// the binding they refer to. A deleted or unbound name resolves to nothing.
func (m *Model) lookup(name string, from ScopeID) BindingID {
	for id := from; id != NoScope; id = m.scopes[id].Parent {
		s := m.scopes[id]
		if id != from && s.Kind == ScopeClass {
			continue
		}
		bid, ok := s.Get(name)
		if !ok {
			continue
		}
		b := m.bindings[bid]
		switch {
		case b.Kind == BindingGlobal:
			if target, ok := m.GlobalScope().Get(name); ok {
				return m.live(target)
			}
			return bid
		case b.Kind == BindingNonlocal:
			if scope := m.nonlocalTarget(name, s.Parent); scope != NoScope {
				target, _ := m.scopes[scope].Get(name)
				return m.live(target)
			}
			return bid
		case b.Kind.unbinds():
			return NoBinding
		}
		return bid
	}
	return NoBinding
}

func (m *Model) live(id BindingID) BindingID {
	if m.bindings[id].Kind.unbinds() {
		return NoBinding
	}
	return id
}

// addReference records a load of name in the current scope and resolves it.
func (m *Model) addReference(name string, r source.TextRange) *Reference {
	ref := &Reference{
		ID:      ReferenceID(len(m.references)),
		Name:    name,
		Scope:   m.current,
		Range:   r,
		Binding: NoBinding,
	}
	m.references = append(m.references, ref)
	m.resolve(ref, ref.Scope)
	return ref
}

// resolve looks name up starting at scope and attaches the reference to
// the binding found.
func (m *Model) resolve(ref *Reference, scope ScopeID) bool {
	bid := m.lookup(ref.Name, scope)
	if bid == NoBinding {
		return false
	}
	ref.Binding = bid
	b := m.bindings[bid]
	b.references = append(b.references, ref.ID)
	return true
}
