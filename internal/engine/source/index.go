package source

import (
	"bytes"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Token is a leaf of the syntax tree.
type Token struct {
	Kind  string
	Range TextRange
}

// LogicalLine groups the tokens of one Python logical line: physical lines
// joined by open brackets or backslash continuations, split at semicolons.
type LogicalLine struct {
	First       int // index of the first token
	Last        int // index of the last token, inclusive
	Range       TextRange
	CommentOnly bool
}

// Index holds the token stream of a file segmented into logical lines.
type Index struct {
	tokens            []Token
	lines             []LogicalLine
	comments          []TextRange
	continuationLines []int
}

func (ix *Index) Tokens() []Token { return ix.tokens }
func (ix *Index) LogicalLines() []LogicalLine { return ix.lines }
func (ix *Index) CommentRanges() []TextRange { return ix.comments }
func (ix *Index) ContinuationLines() []int { return ix.continuationLines }
func (ix *Index) LineTokens(line LogicalLine) []Token { return ix.tokens[line.First : line.Last+1] }

func BuildIndex(root *sitter.Node, locator *Locator) *Index {
	ix := &Index{}
	collectTokens(root, &ix.tokens)

	src := locator.Contents()
	depth := 0
	start := 0
	for i, tok := range ix.tokens {
		switch tok.Kind {
		case "comment":
			ix.comments = append(ix.comments, tok.Range)
		case "line_continuation":
			ix.continuationLines = append(ix.continuationLines, locator.Location(tok.Range.Start).Line)
		}
		if i > 0 {
			prev := ix.tokens[i-1]
			gap := src[prev.Range.End:tok.Range.Start]
			if bytes.ContainsAny(gap, "\r\n") {
				continued := isBackslashContinued(gap)
				if continued {
					ix.continuationLines = append(ix.continuationLines, locator.Location(prev.Range.End).Line)
				}
				if depth == 0 && !continued {
					ix.closeLine(start, i-1)
					start = i
				}
			}
		}

		switch tok.Kind {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth > 0 {
				depth--
			}
		case ";":
			if depth == 0 {
				ix.closeLine(start, i)
				start = i + 1
			}
		}
	}
	if start < len(ix.tokens) {
		ix.closeLine(start, len(ix.tokens)-1)
	}
	return ix
}

func (ix *Index) closeLine(first, last int) {
	if last < first {
		return
	}
	commentOnly := true
	for _, tok := range ix.tokens[first : last+1] {
		if tok.Kind != "comment" {
			commentOnly = false
			break
		}
	}
	ix.lines = append(ix.lines, LogicalLine{
		First:       first,
		Last:        last,
		Range:       NewRange(ix.tokens[first].Range.Start, ix.tokens[last].Range.End),
		CommentOnly: commentOnly,
	})
}

func collectTokens(node *sitter.Node, out *[]Token) {
	if node == nil {
		return
	}
	count := node.ChildCount()
	if count == 0 {
		if node.StartByte() == node.EndByte() {
			return
		}
		*out = append(*out, Token{
			Kind:  node.Kind(),
			Range: NewRange(node.StartByte(), node.EndByte()),
		})
		return
	}
	for i := uint(0); i < count; i++ {
		collectTokens(node.Child(i), out)
	}
}

func isBackslashContinued(gap []byte) bool {
	trimmed := bytes.TrimRight(gap, " \t\f")
	return bytes.Contains(trimmed, []byte("\\\n")) || bytes.Contains(trimmed, []byte("\\\r"))
}
