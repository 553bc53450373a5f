package semantic

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func pythonHandlers() map[string]NodeHandler {
	comprehension := (*Walker).visitComprehension
	return map[string]NodeHandler{
		"identifier":               (*Walker).load,
		"comment":                  func(*Walker, *sitter.Node) {},
		"attribute":                (*Walker).visitAttribute,
		"keyword_argument":         (*Walker).visitKeywordArgument,
		"member_type":              (*Walker).visitMemberType,
		"dotted_name":              (*Walker).visitDottedName,
		"import_statement":         (*Walker).visitImport,
		"import_from_statement":    (*Walker).visitImportFrom,
		"future_import_statement":  (*Walker).visitFutureImport,
		"decorated_definition":     (*Walker).visitDecorated,
		"function_definition":      (*Walker).visitFunction,
		"class_definition":         (*Walker).visitClass,
		"lambda":                   (*Walker).visitLambda,
		"list_comprehension":       comprehension,
		"set_comprehension":        comprehension,
		"dictionary_comprehension": comprehension,
		"generator_expression":     comprehension,
		"assignment":               (*Walker).visitAssignment,
		"augmented_assignment":     (*Walker).visitAugmentedAssignment,
		"named_expression":         (*Walker).visitNamedExpression,
		"binary_operator":          (*Walker).visitOperatorChain,
		"boolean_operator":         (*Walker).visitOperatorChain,
		"for_statement":            (*Walker).visitFor,
		"as_pattern":               (*Walker).visitWithTarget,
		"except_clause":            (*Walker).visitExcept,
		"except_group_clause":      (*Walker).visitExcept,
		"global_statement":         (*Walker).visitGlobal,
		"nonlocal_statement":       (*Walker).visitNonlocal,
		"delete_statement":         (*Walker).visitDelete,
		"case_clause":              (*Walker).visitCase,
		"type_alias_statement":     (*Walker).visitTypeAlias,
	}
}

// Only the object of an attribute access is a name load.
func (w *Walker) visitAttribute(node *sitter.Node) {
	w.visit(node.ChildByFieldName("object"))
}

func (w *Walker) visitKeywordArgument(node *sitter.Node) {
	w.visit(node.ChildByFieldName("value"))
}

func (w *Walker) visitMemberType(node *sitter.Node) {
	w.visit(firstNamedChild(node))
}

func (w *Walker) visitDottedName(node *sitter.Node) {
	w.visit(firstNamedChild(node))
}

// Imports

func (w *Walker) visitImport(node *sitter.Node) {
	for _, name := range fieldChildren(node, "name") {
		switch name.Kind() {
		case "dotted_name":
			full := w.text(name)
			kind := BindingImport
			if strings.Contains(full, ".") {
				kind = BindingSubmoduleImport
			}
			// "import a.b" binds the top-level package a.
			first := w.text(firstNamedChild(name))
			w.model.bind(w.model.current, first, kind, nodeRange(name), 0, full)
		case "aliased_import":
			module := name.ChildByFieldName("name")
			alias := name.ChildByFieldName("alias")
			if module == nil || alias == nil {
				continue
			}
			w.model.bind(w.model.current, w.text(alias), BindingImport, nodeRange(alias), FlagAlias, w.text(module))
		}
	}
}

func (w *Walker) visitImportFrom(node *sitter.Node) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}
	module := w.text(moduleNode)
	if len(namedChildrenOfKind(node, "wildcard_import")) > 0 {
		w.model.CurrentScope().addStarImport(module)
		return
	}
	for _, name := range fieldChildren(node, "name") {
		w.bindImportedMember(name, module, BindingFromImport)
	}
}

func (w *Walker) visitFutureImport(node *sitter.Node) {
	for _, name := range fieldChildren(node, "name") {
		w.bindImportedMember(name, "__future__", BindingFutureImport)
	}
}

func (w *Walker) bindImportedMember(name *sitter.Node, module string, kind BindingKind) {
	switch name.Kind() {
	case "dotted_name":
		member := w.text(name)
		w.model.bind(w.model.current, member, kind, nodeRange(name), 0, qualify(module, member))
	case "aliased_import":
		member := name.ChildByFieldName("name")
		alias := name.ChildByFieldName("alias")
		if member == nil || alias == nil {
			return
		}
		w.model.bind(w.model.current, w.text(alias), kind, nodeRange(alias), FlagAlias, qualify(module, w.text(member)))
	}
}

func qualify(module, member string) string {
	if strings.HasSuffix(module, ".") {
		return module + member
	}
	return module + "." + member
}

// Definitions

func (w *Walker) visitDecorated(node *sitter.Node) {
	for _, decorator := range namedChildrenOfKind(node, "decorator") {
		w.visit(decorator)
	}
	definition := node.ChildByFieldName("definition")
	if definition == nil {
		return
	}
	switch definition.Kind() {
	case "function_definition":
		w.visitFunction(definition)
	case "class_definition":
		w.visitClass(definition)
	}
}

func (w *Walker) visitFunction(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		w.visitChildren(node)
		return
	}
	name := w.text(nameNode)
	enclosing := w.model.current
	params := node.ChildByFieldName("parameters")

	typeParams := node.ChildByFieldName("type_parameters")
	if typeParams != nil {
		w.model.pushScope(ScopeType, name, nodeRange(node))
		w.bindTypeParams(typeParams)
	}
	w.visitParameterValues(params)
	w.visit(node.ChildByFieldName("return_type"))

	// The name is visible inside the body for recursion.
	w.model.bind(enclosing, name, BindingFunctionDefinition, nodeRange(nameNode), 0, "")

	w.model.pushScope(ScopeFunction, name, nodeRange(node))
	w.bindParameters(params)
	w.visit(node.ChildByFieldName("body"))
	w.model.popScope()
	if typeParams != nil {
		w.model.popScope()
	}
}

func (w *Walker) visitClass(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		w.visitChildren(node)
		return
	}
	name := w.text(nameNode)
	enclosing := w.model.current

	typeParams := node.ChildByFieldName("type_parameters")
	if typeParams != nil {
		w.model.pushScope(ScopeType, name, nodeRange(node))
		w.bindTypeParams(typeParams)
	}
	w.visit(node.ChildByFieldName("superclasses"))

	w.model.pushScope(ScopeClass, name, nodeRange(node))
	w.visit(node.ChildByFieldName("body"))
	w.model.popScope()
	if typeParams != nil {
		w.model.popScope()
	}

	// The class name is bound once the body has executed.
	w.model.bind(enclosing, name, BindingClassDefinition, nodeRange(nameNode), 0, "")
}

func (w *Walker) visitTypeAlias(node *sitter.Node) {
	left := firstNamedChild(node.ChildByFieldName("left"))
	if left == nil {
		w.visitChildren(node)
		return
	}
	var nameNode *sitter.Node
	var params []*sitter.Node
	switch left.Kind() {
	case "identifier":
		nameNode = left
	case "generic_type":
		nameNode = firstNamedChild(left)
		params = namedChildrenOfKind(left, "type_parameter")
	case "subscript":
		// "Alias[T]" may also parse as a subscript expression.
		nameNode = left.ChildByFieldName("value")
		params = fieldChildren(left, "subscript")
	}
	if nameNode == nil || nameNode.Kind() != "identifier" {
		w.visitChildren(node)
		return
	}

	w.bind(nameNode, BindingTypeAlias, 0)
	if len(params) > 0 {
		w.model.pushScope(ScopeType, w.text(nameNode), nodeRange(node))
		for _, param := range params {
			if param.Kind() == "type_parameter" {
				w.bindTypeParams(param)
				continue
			}
			w.bindTarget(param, BindingTypeParam, 0)
		}
	}
	w.visit(node.ChildByFieldName("right"))
	if len(params) > 0 {
		w.model.popScope()
	}
}

func (w *Walker) bindTypeParams(node *sitter.Node) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		param := firstNamedChild(node.NamedChild(i))
		if param == nil {
			continue
		}
		switch param.Kind() {
		case "identifier":
			w.bind(param, BindingTypeParam, 0)
		case "splat_type":
			if ident := firstNamedChild(param); ident != nil {
				w.bind(ident, BindingTypeParam, 0)
			}
		case "constrained_type":
			bound := param.NamedChild(0)
			if ident := firstNamedChild(bound); ident != nil && ident.Kind() == "identifier" {
				w.bind(ident, BindingTypeParam, 0)
			}
			if param.NamedChildCount() > 1 {
				w.visit(param.NamedChild(1))
			}
		default:
			w.visit(param)
		}
	}
}

// visitParameterValues visits defaults and annotations, which are evaluated
// in the enclosing scope.
func (w *Walker) visitParameterValues(params *sitter.Node) {
	if params == nil {
		return
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		switch param.Kind() {
		case "default_parameter":
			w.visit(param.ChildByFieldName("value"))
		case "typed_parameter":
			w.visit(param.ChildByFieldName("type"))
		case "typed_default_parameter":
			w.visit(param.ChildByFieldName("type"))
			w.visit(param.ChildByFieldName("value"))
		}
	}
}

func (w *Walker) bindParameters(params *sitter.Node) {
	if params == nil {
		return
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		switch param.Kind() {
		case "identifier":
			w.bind(param, BindingArgument, 0)
		case "default_parameter", "typed_default_parameter":
			w.bindParameterName(param.ChildByFieldName("name"))
		case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern", "tuple_pattern":
			w.bindParameterName(firstNamedChild(param))
		}
	}
}

func (w *Walker) bindParameterName(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier":
		w.bind(node, BindingArgument, 0)
	case "list_splat_pattern", "dictionary_splat_pattern":
		w.bindParameterName(firstNamedChild(node))
	case "tuple_pattern":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			w.bindParameterName(node.NamedChild(i))
		}
	}
}

func (w *Walker) visitLambda(node *sitter.Node) {
	params := node.ChildByFieldName("parameters")
	w.visitParameterValues(params)
	w.model.pushScope(ScopeLambda, "", nodeRange(node))
	w.bindParameters(params)
	w.visit(node.ChildByFieldName("body"))
	w.model.popScope()
}

// visitComprehension evaluates the first iterable in the enclosing scope and
// everything else in a new comprehension scope.
func (w *Walker) visitComprehension(node *sitter.Node) {
	clauses := namedChildrenOfKind(node, "for_in_clause", "if_clause")
	if len(clauses) == 0 {
		w.visitChildren(node)
		return
	}
	first := clauses[0]
	for _, iter := range fieldChildren(first, "right") {
		w.visit(iter)
	}

	w.model.pushScope(ScopeComprehension, "", nodeRange(node))
	for i, clause := range clauses {
		if clause.Kind() == "if_clause" {
			w.visitChildren(clause)
			continue
		}
		if i > 0 {
			for _, iter := range fieldChildren(clause, "right") {
				w.visit(iter)
			}
		}
		w.bindTarget(clause.ChildByFieldName("left"), BindingLoopVar, 0)
	}
	w.visit(node.ChildByFieldName("body"))
	w.model.popScope()
}

// Statements

func (w *Walker) visitAssignment(node *sitter.Node) {
	w.visit(node.ChildByFieldName("type"))

	// a = b = value: the value is evaluated once, targets bind left to right.
	targets := []*sitter.Node{node.ChildByFieldName("left")}
	value := node.ChildByFieldName("right")
	for value != nil && value.Kind() == "assignment" && value.ChildByFieldName("type") == nil {
		targets = append(targets, value.ChildByFieldName("left"))
		value = value.ChildByFieldName("right")
	}

	kind := BindingAssignment
	if value == nil {
		kind = BindingAnnotation
	}
	w.visit(value)
	for _, target := range targets {
		w.bindTarget(target, kind, 0)
	}
}

func (w *Walker) visitAugmentedAssignment(node *sitter.Node) {
	w.visit(node.ChildByFieldName("right"))
	left := node.ChildByFieldName("left")
	if left == nil {
		return
	}
	if left.Kind() != "identifier" {
		w.visit(left)
		return
	}
	w.load(left)
	w.bind(left, BindingAugmentedAssignment, 0)
}

// visitNamedExpression binds the walrus target in the nearest scope that is
// not a comprehension.
func (w *Walker) visitNamedExpression(node *sitter.Node) {
	w.visit(node.ChildByFieldName("value"))
	name := node.ChildByFieldName("name")
	if name == nil {
		return
	}
	scope := w.model.current
	for w.model.scopes[scope].Kind == ScopeComprehension {
		scope = w.model.scopes[scope].Parent
	}
	w.model.bind(scope, w.text(name), BindingNamedExprAssignment, nodeRange(name), 0, "")
}

// visitOperatorChain walks the left spine of "a + b + c ..." iteratively so a
// long chain costs one nesting level.
func (w *Walker) visitOperatorChain(node *sitter.Node) {
	kind := node.Kind()
	spine := []*sitter.Node{node}
	for left := node.ChildByFieldName("left"); left != nil && left.Kind() == kind; left = left.ChildByFieldName("left") {
		spine = append(spine, left)
	}
	w.visit(spine[len(spine)-1].ChildByFieldName("left"))
	for i := len(spine) - 1; i >= 0; i-- {
		w.visit(spine[i].ChildByFieldName("right"))
	}
}

func (w *Walker) visitFor(node *sitter.Node) {
	w.visit(node.ChildByFieldName("right"))
	w.bindTarget(node.ChildByFieldName("left"), BindingLoopVar, 0)
	w.visit(node.ChildByFieldName("body"))
	w.visit(node.ChildByFieldName("alternative"))
}

// visitWithTarget handles "expr as target" outside of match patterns.
func (w *Walker) visitWithTarget(node *sitter.Node) {
	w.visit(firstNamedChild(node))
	alias := node.ChildByFieldName("alias")
	if alias == nil {
		return
	}
	if alias.NamedChildCount() == 0 {
		w.bind(alias, BindingWithItemVar, 0)
		return
	}
	for i := uint(0); i < alias.NamedChildCount(); i++ {
		w.bindTarget(alias.NamedChild(i), BindingWithItemVar, 0)
	}
}

// visitExcept binds the exception name for the handler body only. After the
// handler the name is restored to its previous binding, or marked unbound.
func (w *Walker) visitExcept(node *sitter.Node) {
	values, alias := exceptParts(node)
	for _, value := range values {
		w.visit(value)
	}
	body := namedChildrenOfKind(node, "block")

	target := exceptName(alias)
	if target == nil {
		if alias != nil {
			w.bindTarget(alias, BindingBoundException, 0)
		}
		for _, block := range body {
			w.visit(block)
		}
		return
	}

	name := w.text(target)
	bound := w.bind(target, BindingBoundException, 0)
	b := w.model.bindings[bound]
	for _, block := range body {
		w.visit(block)
	}
	if b.Shadowed != NoBinding {
		w.model.restore(b.Scope, name, b.Shadowed)
		return
	}
	w.model.bind(b.Scope, name, BindingUnboundException, nodeRange(target), 0, "")
}

// exceptParts splits a handler header into the caught expressions and the
// alias node. Current grammars wrap "E as name" in an as_pattern; older ones
// use an alias field, and except* clauses may carry neither field.
func exceptParts(node *sitter.Node) ([]*sitter.Node, *sitter.Node) {
	if alias := node.ChildByFieldName("alias"); alias != nil {
		return fieldChildren(node, "value"), alias
	}
	var exprs []*sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "block", "comment", "line_continuation":
			continue
		}
		exprs = append(exprs, child)
	}
	switch {
	case len(exprs) == 1 && exprs[0].Kind() == "as_pattern":
		pattern := exprs[0]
		return []*sitter.Node{firstNamedChild(pattern)}, pattern.ChildByFieldName("alias")
	case len(exprs) == 2:
		return exprs[:1], exprs[1]
	}
	return exprs, nil
}

// exceptName returns the node holding a plain exception name, or nil when
// the alias is missing or is not a single identifier.
func exceptName(alias *sitter.Node) *sitter.Node {
	if alias == nil {
		return nil
	}
	switch alias.Kind() {
	case "identifier":
		return alias
	case "as_pattern_target":
		if alias.NamedChildCount() == 0 {
			return alias
		}
		if alias.NamedChildCount() == 1 && alias.NamedChild(0).Kind() == "identifier" {
			return alias.NamedChild(0)
		}
	}
	return nil
}

func (w *Walker) visitGlobal(node *sitter.Node) {
	w.declare(node, BindingGlobal)
}

func (w *Walker) visitNonlocal(node *sitter.Node) {
	w.declare(node, BindingNonlocal)
}

// declare records global or nonlocal names. The statements have no effect at
// module level.
func (w *Walker) declare(node *sitter.Node, kind BindingKind) {
	if w.model.current == GlobalScopeID {
		return
	}
	scope := w.model.CurrentScope()
	for _, ident := range namedChildrenOfKind(node, "identifier") {
		name := w.text(ident)
		flag := FlagGlobal
		if kind == BindingNonlocal {
			flag = FlagNonlocal
		}
		w.model.bind(scope.ID, name, kind, nodeRange(ident), flag, "")
		scope.declare(name, kind)
	}
}

func (w *Walker) visitDelete(node *sitter.Node) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		w.deleteTarget(node.NamedChild(i))
	}
}

func (w *Walker) deleteTarget(node *sitter.Node) {
	switch node.Kind() {
	case "identifier":
		w.load(node)
		w.bind(node, BindingDeletion, 0)
	case "expression_list", "tuple", "list", "parenthesized_expression":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			w.deleteTarget(node.NamedChild(i))
		}
	default:
		w.visit(node)
	}
}

// bindTarget binds every name in an assignment target. Attribute and
// subscript targets only load their operands.
func (w *Walker) bindTarget(node *sitter.Node, kind BindingKind, flags BindingFlags) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier":
		w.bind(node, kind, flags)
	case "pattern_list", "tuple_pattern", "list_pattern", "expression_list", "tuple", "list":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			w.bindTarget(node.NamedChild(i), kind, flags|FlagUnpacked)
		}
	case "parenthesized_expression", "list_splat_pattern", "list_splat":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			w.bindTarget(node.NamedChild(i), kind, flags)
		}
	case "comment":
	default:
		w.visit(node)
	}
}

// Match statements

func (w *Walker) visitCase(node *sitter.Node) {
	for _, pattern := range namedChildrenOfKind(node, "case_pattern") {
		w.bindPattern(pattern)
	}
	w.visit(node.ChildByFieldName("guard"))
	w.visit(node.ChildByFieldName("consequence"))
}

func (w *Walker) bindPattern(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "case_pattern", "union_pattern", "list_pattern", "tuple_pattern":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			w.bindPattern(node.NamedChild(i))
		}
	case "as_pattern":
		// case_pattern "as" identifier
		count := node.NamedChildCount()
		for i := uint(0); i+1 < count; i++ {
			w.bindPattern(node.NamedChild(i))
		}
		if count > 0 {
			if name := node.NamedChild(count - 1); name.Kind() == "identifier" {
				w.bind(name, BindingMatchCapture, 0)
			}
		}
	case "dotted_name":
		// A bare name captures; a dotted name is a value pattern.
		if node.NamedChildCount() == 1 {
			w.bind(node.NamedChild(0), BindingMatchCapture, 0)
			return
		}
		w.visitDottedName(node)
	case "splat_pattern":
		if name := firstNamedChild(node); name != nil && name.Kind() == "identifier" {
			w.bind(name, BindingMatchCapture, 0)
		}
	case "class_pattern":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.Kind() == "dotted_name" {
				w.visitDottedName(child)
				continue
			}
			w.bindPattern(child)
		}
	case "keyword_pattern":
		for i := uint(1); i < node.NamedChildCount(); i++ {
			w.bindPattern(node.NamedChild(i))
		}
	case "dict_pattern":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if node.FieldNameForNamedChild(uint32(i)) == "key" {
				if child.Kind() == "dotted_name" {
					w.visitDottedName(child)
				}
				continue
			}
			w.bindPattern(child)
		}
	}
}
