package app

import (
	"context"
	"log/slog"

	"symfind/internal/core/watcher"
	"symfind/internal/shared/util"
)

// Watch reprocesses changed files under path until ctx is cancelled.
// Failures are logged; a bad edit must not end the session.
func (a *App) Watch(ctx context.Context, path string) error {
	limiter := util.NewLimiter(a.Config.Watch.MaxRunsPerSecond, 1)
	w, err := watcher.NewWatcher(watcher.Options{
		Debounce:     a.Config.Watch.Debounce,
		Extensions:   a.Config.Languages.Python.Extensions,
		ExcludeFiles: a.Config.Exclude.Files,
	}, func(paths []string) {
		a.HandleChanges(ctx, limiter, paths)
	})
	if err != nil {
		return err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return err
	}

	slog.Info("watching for changes", "run_id", a.RunID, "path", path)
	<-ctx.Done()
	return w.Close()
}

// HandleChanges processes each changed path, throttled by limiter.
func (a *App) HandleChanges(ctx context.Context, limiter *util.Limiter, paths []string) {
	for _, path := range paths {
		if err := limiter.Wait(ctx, 1); err != nil {
			return
		}
		if _, err := a.ProcessFile(ctx, path); err != nil {
			slog.Warn("failed to process changed file", "run_id", a.RunID, "path", path, "error", err)
		}
	}
}
