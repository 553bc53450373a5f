package semantic

import (
	"fmt"

	"symfind/internal/core/errors"
	"symfind/internal/engine/source"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Settings tune a single walk.
type Settings struct {
	// Builtins binds the Python builtins and module dunders in the module scope.
	Builtins bool
	// Deferred re-resolves references left unresolved inside function bodies
	// once the whole module has been walked.
	Deferred bool
	// MaxDepth bounds syntax tree nesting.
	MaxDepth int
}

func DefaultSettings() Settings {
	return Settings{Builtins: true, Deferred: true, MaxDepth: 2000}
}

// NodeHandler processes one node kind. Handlers visit children themselves.
type NodeHandler func(w *Walker, node *sitter.Node)

type pendingReference struct {
	scope ScopeID
	ref   ReferenceID
}

// Walker performs the binding-collection pass over one module. It is not
// safe for concurrent use and is discarded after the file is reported.
type Walker struct {
	model    *Model
	locator  *source.Locator
	settings Settings
	handlers map[string]NodeHandler

	pending   []pendingReference
	depth     int
	err       error
	started   bool
	traversed bool
}

// New creates a walker with a single module scope.
func New(locator *source.Locator, module Module, settings Settings) *Walker {
	if settings.MaxDepth <= 0 {
		settings.MaxDepth = DefaultSettings().MaxDepth
	}
	w := &Walker{
		model:    NewModel(module),
		locator:  locator,
		settings: settings,
		handlers: pythonHandlers(),
	}
	if settings.Builtins {
		w.bindBuiltins()
	}
	return w
}

func (w *Walker) bindBuiltins() {
	var none source.TextRange
	for _, name := range pythonBuiltins {
		w.model.bind(GlobalScopeID, name, BindingBuiltin, none, 0, "")
	}
	for _, name := range moduleDunders {
		w.model.bind(GlobalScopeID, name, BindingBuiltin, none, 0, "")
	}
	if w.model.module.Kind == ModuleKindPackage {
		w.model.bind(GlobalScopeID, "__path__", BindingBuiltin, none, 0, "")
	}
}

// VisitAll walks root (the module root when nil) and then drains the
// deferred queue. A walker can traverse only once.
func (w *Walker) VisitAll(root *sitter.Node) error {
	if w.started {
		return errors.AddContext(
			errors.New(errors.CodeInternal, "walker already traversed its module"),
			errors.CtxOperation, "visit_all",
		)
	}
	w.started = true
	if root == nil {
		root = w.model.module.Root
	}
	if root == nil {
		return errors.New(errors.CodeValidationError, "no syntax tree to walk")
	}

	w.visit(root)
	if w.err != nil {
		return w.err
	}
	w.resolveDeferred()
	w.traversed = true
	return nil
}

// Traversed reports whether VisitAll completed.
func (w *Walker) Traversed() bool {
	return w.traversed
}

// GlobalScope returns the module scope. Its contents are only meaningful
// after VisitAll.
func (w *Walker) GlobalScope() *Scope {
	return w.model.GlobalScope()
}

func (w *Walker) Binding(id BindingID) (*Binding, error) {
	return w.model.Binding(id)
}

func (w *Walker) Scope(id ScopeID) *Scope {
	return w.model.Scope(id)
}

func (w *Walker) Scopes() []*Scope {
	return w.model.Scopes()
}

func (w *Walker) References() []*Reference {
	return w.model.References()
}

func (w *Walker) UnresolvedReferences() []*Reference {
	return w.model.UnresolvedReferences()
}

func (w *Walker) Model() *Model {
	return w.model
}

func (w *Walker) Locator() *source.Locator {
	return w.locator
}

func (w *Walker) visit(node *sitter.Node) {
	if node == nil || w.err != nil {
		return
	}
	w.depth++
	defer func() { w.depth-- }()
	if w.depth > w.settings.MaxDepth {
		w.err = errors.AddContext(
			errors.New(errors.CodeValidationError, fmt.Sprintf("syntax tree nesting exceeds %d levels", w.settings.MaxDepth)),
			errors.CtxPath, w.model.module.Path,
		)
		return
	}

	if handler, ok := w.handlers[node.Kind()]; ok {
		handler(w, node)
		return
	}
	w.visitChildren(node)
}

func (w *Walker) visitChildren(node *sitter.Node) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		w.visit(node.NamedChild(i))
	}
}

func (w *Walker) text(node *sitter.Node) string {
	return w.locator.Slice(nodeRange(node))
}

func nodeRange(node *sitter.Node) source.TextRange {
	return source.NewRange(node.StartByte(), node.EndByte())
}

// fieldChildren returns every child stored under field, in source order.
func fieldChildren(node *sitter.Node, field string) []*sitter.Node {
	var out []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.FieldNameForChild(uint32(i)) == field {
			out = append(out, node.Child(i))
		}
	}
	return out
}

func namedChildrenOfKind(node *sitter.Node, kinds ...string) []*sitter.Node {
	var out []*sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		for _, kind := range kinds {
			if child.Kind() == kind {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil || node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(0)
}

// load records a read of an identifier in the current scope.
func (w *Walker) load(node *sitter.Node) {
	ref := w.model.addReference(w.text(node), nodeRange(node))
	if ref.Resolved() || !w.settings.Deferred || !w.inFunctionBody(ref.Scope) {
		return
	}
	w.pending = append(w.pending, pendingReference{scope: ref.Scope, ref: ref.ID})
}

// inFunctionBody reports whether code in scope runs only when a function or
// lambda is called, after the module body has finished.
func (w *Walker) inFunctionBody(scope ScopeID) bool {
	for id := scope; id != NoScope; id = w.model.scopes[id].Parent {
		if w.model.scopes[id].IsFunctionLike() {
			return true
		}
	}
	return false
}

// resolveDeferred retries references that were unresolved when read inside a
// function body; their names may be bound later in the module.
func (w *Walker) resolveDeferred() {
	for len(w.pending) > 0 {
		item := w.pending[0]
		w.pending = w.pending[1:]
		ref := w.model.references[item.ref]
		if ref.Resolved() {
			continue
		}
		w.model.resolve(ref, item.scope)
	}
}

func (w *Walker) bind(node *sitter.Node, kind BindingKind, flags BindingFlags) BindingID {
	return w.model.bind(w.model.current, w.text(node), kind, nodeRange(node), flags, "")
}
