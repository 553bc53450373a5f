package source

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

const LanguagePython = "python"

type GrammarLoader struct {
	languages map[string]*sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	return &GrammarLoader{
		languages: map[string]*sitter.Language{
			LanguagePython: sitter.NewLanguage(tree_sitter_python.Language()),
		},
	}
}

// Language returns the grammar registered for id, or nil.
func (gl *GrammarLoader) Language(id string) *sitter.Language {
	return gl.languages[id]
}

// Python returns the tree-sitter Python grammar.
func (gl *GrammarLoader) Python() *sitter.Language {
	return gl.languages[LanguagePython]
}
