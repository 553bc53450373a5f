package source

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"symfind/internal/core/errors"
	"symfind/internal/shared/observability"

	sitter "github.com/tree-sitter/go-tree-sitter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parsed is the immutable output of source preparation for one file.
type Parsed struct {
	Path       string
	SourceType SourceType
	Source     []byte
	Tree       *sitter.Tree
	Locator    *Locator
	Index      *Index
	Stylist    Stylist
	// HasSyntaxErrors reports ERROR or MISSING nodes; the tree is still walkable.
	HasSyntaxErrors bool
}

// Root returns the module node.
func (p *Parsed) Root() *sitter.Node {
	return p.Tree.RootNode()
}

// Close releases the syntax tree. Nodes obtained from it must not be used afterwards.
func (p *Parsed) Close() {
	if p != nil && p.Tree != nil {
		p.Tree.Close()
		p.Tree = nil
	}
}

// Preparer turns file paths into parsed trees. It is safe for concurrent use.
type Preparer struct {
	loader *GrammarLoader
	pool   *ParserPool
}

func NewPreparer(loader *GrammarLoader) *Preparer {
	if loader == nil {
		loader = NewGrammarLoader()
	}
	return &Preparer{
		loader: loader,
		pool:   NewParserPool(loader.Python()),
	}
}

// Prepare reads, decodes and parses path. Every failure is reported with
// code SOURCE_UNREADABLE; no partial result is returned.
func (p *Preparer) Prepare(ctx context.Context, path string) (*Parsed, error) {
	sourceType := DetectSourceType(path)
	ctx, span := observability.Tracer.Start(ctx, "source.Prepare", trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("dialect", sourceType.String()),
	))
	defer span.End()

	raw, err := os.ReadFile(path)
	if err != nil {
		span.RecordError(err)
		return nil, unreadable(err, path, sourceType, "read failed")
	}
	return p.PrepareSource(ctx, path, sourceType, raw)
}

// PrepareSource parses already-read bytes as sourceType.
func (p *Preparer) PrepareSource(ctx context.Context, path string, sourceType SourceType, raw []byte) (*Parsed, error) {
	if err := ctx.Err(); err != nil {
		return nil, unreadable(err, path, sourceType, "preparation cancelled")
	}

	content, err := decode(raw, sourceType)
	if err != nil {
		return nil, unreadable(err, path, sourceType, "decode failed")
	}

	start := time.Now()
	tree := p.pool.Parse(content)
	observability.ParsingDuration.WithLabelValues(sourceType.String()).Observe(time.Since(start).Seconds())
	if tree == nil {
		return nil, unreadable(nil, path, sourceType, "parse failed")
	}

	root := tree.RootNode()
	locator := NewLocator(content)
	index := BuildIndex(root, locator)
	parsed := &Parsed{
		Path:            path,
		SourceType:      sourceType,
		Source:          content,
		Tree:            tree,
		Locator:         locator,
		Index:           index,
		Stylist:         DetectStylist(root, locator, index),
		HasSyntaxErrors: root.HasError(),
	}
	if parsed.HasSyntaxErrors {
		slog.Debug("source contains syntax errors", "path", path)
	}
	return parsed, nil
}

func decode(raw []byte, sourceType SourceType) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return nil, errors.New(errors.CodeSourceUnreadable, "source is not valid UTF-8")
	}
	if sourceType == SourceTypeNotebook {
		return notebookSource(raw)
	}
	return raw, nil
}

func unreadable(err error, path string, sourceType SourceType, msg string) error {
	var wrapped error
	if err == nil {
		wrapped = errors.New(errors.CodeSourceUnreadable, msg)
	} else {
		wrapped = errors.Wrap(err, errors.CodeSourceUnreadable, msg)
	}
	wrapped = errors.AddContext(wrapped, errors.CtxPath, path)
	return errors.AddContext(wrapped, errors.CtxDialect, sourceType.String())
}
