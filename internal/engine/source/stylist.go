package source

import (
	"bytes"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Quote byte

const (
	QuoteDouble Quote = '"'
	QuoteSingle Quote = '\''
)

type LineEnding string

const (
	LineEndingLF   LineEnding = "\n"
	LineEndingCRLF LineEnding = "\r\n"
	LineEndingCR   LineEnding = "\r"
)

// Stylist records the formatting conventions of a file. Symbol resolution does
// not depend on it.
type Stylist struct {
	Indentation string
	Quote       Quote
	LineEnding  LineEnding
}

func DetectStylist(root *sitter.Node, locator *Locator, index *Index) Stylist {
	return Stylist{
		Indentation: detectIndentation(root, locator),
		Quote:       detectQuote(index, locator),
		LineEnding:  detectLineEnding(locator.Contents()),
	}
}

func detectIndentation(root *sitter.Node, locator *Locator) string {
	block := firstIndentedBlock(root, locator)
	if block == nil {
		return "    "
	}
	line := locator.Location(block.StartByte()).Line
	prefix := locator.Slice(NewRange(locator.LineStart(line), block.StartByte()))
	if prefix == "" || strings.TrimLeft(prefix, " \t") != "" {
		return "    "
	}
	return prefix
}

func firstIndentedBlock(node *sitter.Node, locator *Locator) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Kind() == "block" && node.StartByte() < node.EndByte() {
		if parent := node.Parent(); parent != nil &&
			locator.LineIndex(parent.StartByte()) != locator.LineIndex(node.StartByte()) {
			return node
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if found := firstIndentedBlock(node.NamedChild(i), locator); found != nil {
			return found
		}
	}
	return nil
}

// detectQuote prefers the first single-line string; triple-quoted strings
// (usually docstrings) only decide when nothing else is present.
func detectQuote(index *Index, locator *Locator) Quote {
	fallback := QuoteDouble
	sawTriple := false
	for _, tok := range index.Tokens() {
		if tok.Kind != "string_start" {
			continue
		}
		text := locator.Slice(tok.Range)
		if text == "" {
			continue
		}
		q := Quote(text[len(text)-1])
		if strings.HasSuffix(text, `"""`) || strings.HasSuffix(text, `'''`) {
			if !sawTriple {
				fallback = q
				sawTriple = true
			}
			continue
		}
		return q
	}
	return fallback
}

func detectLineEnding(contents []byte) LineEnding {
	idx := bytes.IndexAny(contents, "\r\n")
	if idx < 0 {
		return LineEndingLF
	}
	if contents[idx] == '\n' {
		return LineEndingLF
	}
	if idx+1 < len(contents) && contents[idx+1] == '\n' {
		return LineEndingCRLF
	}
	return LineEndingCR
}
