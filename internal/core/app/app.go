package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"symfind/internal/core/config"
	"symfind/internal/core/errors"
	"symfind/internal/engine/semantic"
	"symfind/internal/engine/source"
	"symfind/internal/shared/observability"
	"symfind/internal/shared/util"
	"symfind/internal/ui/report"
	"symfind/internal/ui/report/formats"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FileError records a file that failed under the skip policy.
type FileError struct {
	Path string
	Err  error
}

// Summary describes one ProcessPath run.
type Summary struct {
	RunID     string
	Processed []string
	Failed    []FileError
	// Filtered counts directory entries ignored by extension or exclude globs.
	Filtered int
}

// App runs the per-file pipeline: prepare, walk, report.
type App struct {
	Config *config.Config
	RunID  string

	preparer   *source.Preparer
	renderer   formats.Renderer
	extensions map[string]bool
	excludes   []glob.Glob

	outMu sync.Mutex
	out   io.Writer
}

// New builds an App writing rendered reports to out. cfg must already be
// validated.
func New(cfg *config.Config, out io.Writer) (*App, error) {
	renderer, err := formats.New(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	excludes, err := compileGlobs(cfg.Exclude.Files, "exclude file")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern")
	}
	extensions := make(map[string]bool, len(cfg.Languages.Python.Extensions))
	for _, ext := range cfg.Languages.Python.Extensions {
		extensions[strings.ToLower(ext)] = true
	}
	if out == nil {
		out = io.Discard
	}

	return &App{
		Config:     cfg,
		RunID:      uuid.NewString(),
		preparer:   source.NewPreparer(nil),
		renderer:   renderer,
		extensions: extensions,
		excludes:   excludes,
		out:        out,
	}, nil
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", label, p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// ProcessPath handles a directory (its direct children with a recognized
// extension, in name order) or a single file of any extension.
func (a *App) ProcessPath(ctx context.Context, path string) (*Summary, error) {
	summary := &Summary{RunID: a.RunID}

	info, err := os.Stat(path)
	if err != nil {
		return summary, errors.AddContext(
			errors.Wrap(err, errors.CodeSourceUnreadable, "cannot access path"),
			errors.CtxPath, path,
		)
	}

	files := []string{path}
	if info.IsDir() {
		var filtered int
		files, filtered, err = a.ScanDirectory(path)
		if err != nil {
			return summary, err
		}
		summary.Filtered = filtered
		observability.FilesProcessedTotal.WithLabelValues("skipped").Add(float64(filtered))
	}

	slog.Debug("processing path", "run_id", a.RunID, "path", path, "files", len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if _, err := a.ProcessFile(ctx, file); err != nil {
			if a.Config.Processing.OnError != config.OnErrorSkip {
				return summary, err
			}
			slog.Warn("skipping file", "run_id", a.RunID, "path", file, "error", err)
			summary.Failed = append(summary.Failed, FileError{Path: file, Err: err})
			continue
		}
		summary.Processed = append(summary.Processed, file)
	}
	return summary, nil
}

// ProcessFile analyzes path and writes the rendered report.
func (a *App) ProcessFile(ctx context.Context, path string) (*report.FileReport, error) {
	fr, err := a.Analyze(ctx, path)
	if err != nil {
		observability.FilesProcessedTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	if err := a.emit(fr); err != nil {
		observability.FilesProcessedTotal.WithLabelValues("failed").Inc()
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write report"), errors.CtxPath, path)
	}
	observability.FilesProcessedTotal.WithLabelValues("ok").Inc()
	return fr, nil
}

// Analyze runs preparation and a fresh walk over path. Nothing is shared
// between files.
func (a *App) Analyze(ctx context.Context, path string) (*report.FileReport, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Analyze", trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("run_id", a.RunID),
	))
	defer span.End()

	parsed, err := a.preparer.Prepare(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prepare failed")
		return nil, err
	}
	defer parsed.Close()

	w, err := a.walk(ctx, parsed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "walk failed")
		return nil, err
	}

	fr, err := report.Build(a.RunID, parsed, w, report.Options{IncludeBuiltins: a.Config.Output.IncludeBuiltins})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("bindings", len(fr.Bindings)))
	return fr, nil
}

func (a *App) walk(ctx context.Context, parsed *source.Parsed) (*semantic.Walker, error) {
	_, span := observability.Tracer.Start(ctx, "semantic.VisitAll")
	defer span.End()

	module := semantic.NewModule(parsed.Path, parsed.SourceType, parsed.Root())
	w := semantic.New(parsed.Locator, module, a.settings())

	heapBefore := util.ReadHeap()
	start := time.Now()
	if err := w.VisitAll(parsed.Root()); err != nil {
		span.RecordError(err)
		return nil, errors.AddContext(err, errors.CtxPath, parsed.Path)
	}
	observability.WalkDuration.Observe(time.Since(start).Seconds())
	heap := util.ReadHeap()
	observability.HeapAllocBytes.Set(float64(heap.AllocBytes))

	refs := w.References()
	unresolved := len(w.UnresolvedReferences())
	observability.BindingsTotal.Add(float64(len(w.Model().Bindings())))
	observability.ReferencesTotal.WithLabelValues("resolved").Add(float64(len(refs) - unresolved))
	observability.ReferencesTotal.WithLabelValues("unresolved").Add(float64(unresolved))
	slog.Debug("walk complete",
		"path", parsed.Path,
		"scopes", len(w.Scopes()),
		"references", len(refs),
		"unresolved", unresolved,
		"syntax_errors", parsed.HasSyntaxErrors,
		"heap_growth_bytes", heap.Growth(heapBefore),
	)
	return w, nil
}

func (a *App) settings() semantic.Settings {
	return semantic.Settings{
		Builtins: a.Config.Resolution.BuiltinsEnabled(),
		Deferred: a.Config.Resolution.DeferredEnabled(),
		MaxDepth: a.Config.Resolution.MaxDepth,
	}
}

func (a *App) emit(fr *report.FileReport) error {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	return a.renderer.Render(a.out, fr)
}
