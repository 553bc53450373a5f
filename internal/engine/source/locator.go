package source

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// TextRange is a half-open byte range [Start, End) into decoded source text.
type TextRange struct {
	Start uint
	End   uint
}

func NewRange(start, end uint) TextRange {
	return TextRange{Start: start, End: end}
}

func (r TextRange) Len() uint {
	return r.End - r.Start
}

func (r TextRange) Contains(offset uint) bool {
	return offset >= r.Start && offset < r.End
}

func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// SourceLocation is a 1-based line and character column.
type SourceLocation struct {
	Line   int
	Column int
}

// Locator maps byte offsets to line/column positions. Lines end at "\n",
// "\r\n" or a lone "\r", matching Python's notion of a physical line.
type Locator struct {
	contents   []byte
	lineStarts []uint
}

func NewLocator(contents []byte) *Locator {
	starts := []uint{0}
	for i := 0; i < len(contents); i++ {
		switch contents[i] {
		case '\n':
			starts = append(starts, uint(i+1))
		case '\r':
			if i+1 < len(contents) && contents[i+1] == '\n' {
				i++
			}
			starts = append(starts, uint(i+1))
		}
	}
	return &Locator{contents: contents, lineStarts: starts}
}

func (l *Locator) Contents() []byte {
	return l.contents
}

// Slice returns the text covered by r, clamped to the source bounds.
func (l *Locator) Slice(r TextRange) string {
	end := min(r.End, uint(len(l.contents)))
	start := min(r.Start, end)
	return string(l.contents[start:end])
}

// LineCount returns the number of physical lines. An empty file has one line.
func (l *Locator) LineCount() int {
	return len(l.lineStarts)
}

// LineIndex returns the 0-based line containing offset.
func (l *Locator) LineIndex(offset uint) int {
	return sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	}) - 1
}

// LineStart returns the byte offset at which the 1-based line begins.
func (l *Locator) LineStart(line int) uint {
	if line < 1 {
		return 0
	}
	if line > len(l.lineStarts) {
		return uint(len(l.contents))
	}
	return l.lineStarts[line-1]
}

// Location converts offset to a 1-based line and a 1-based column counted in
// characters rather than bytes.
func (l *Locator) Location(offset uint) SourceLocation {
	offset = min(offset, uint(len(l.contents)))
	idx := l.LineIndex(offset)
	start := l.lineStarts[idx]
	return SourceLocation{
		Line:   idx + 1,
		Column: utf8.RuneCount(l.contents[start:offset]) + 1,
	}
}
