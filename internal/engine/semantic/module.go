package semantic

import (
	"path/filepath"
	"strings"

	"symfind/internal/engine/source"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type ModuleKind int

const (
	ModuleKindModule ModuleKind = iota
	// ModuleKindPackage is an __init__ file; it additionally binds __path__.
	ModuleKindPackage
)

func (k ModuleKind) String() string {
	if k == ModuleKindPackage {
		return "Package"
	}
	return "Module"
}

// Module is the root context of one walk.
type Module struct {
	Kind       ModuleKind
	Name       string
	Path       string
	SourceType source.SourceType
	Root       *sitter.Node
}

// NewModule derives kind and name from path. The name of a package is its
// directory name.
func NewModule(path string, sourceType source.SourceType, root *sitter.Node) Module {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	m := Module{
		Kind:       ModuleKindModule,
		Name:       stem,
		Path:       path,
		SourceType: sourceType,
		Root:       root,
	}
	if stem == "__init__" {
		m.Kind = ModuleKindPackage
		m.Name = filepath.Base(filepath.Dir(path))
	}
	return m
}
