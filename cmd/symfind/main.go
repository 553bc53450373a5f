// # cmd/symfind/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"symfind/internal/core/app"
	"symfind/internal/core/config"
	"symfind/internal/shared/observability"
	"symfind/internal/shared/util"
)

const VERSION = "1.0.0"

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

type options struct {
	configPath string
	format     string
	onError    string
	watch      bool
	verbose    bool
	version    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("symfind", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "./symfind.toml", "Path to config file")
	fs.StringVar(&opts.format, "format", "", "Output format: text, json or tsv")
	fs.StringVar(&opts.onError, "on-error", "", "Per-file failure policy: abort or skip")
	fs.BoolVar(&opts.watch, "watch", false, "Re-run changed files after the initial pass")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: symfind [flags] <path>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return exitUsage
	}

	if opts.version {
		fmt.Fprintf(stdout, "symfind v%s\n", VERSION)
		return exitOK
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	path := fs.Arg(0)

	logLevel := slog.LevelInfo
	if opts.verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := loadConfig(opts, fs)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return exitFatal
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.SetupTracing(ctx, cfg.Observability.ServiceName, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		return exitFatal
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	out := stdout
	if cfg.Output.Path != "" {
		f, err := util.CreateWithDirs(cfg.Output.Path)
		if err != nil {
			slog.Error("failed to open output", "path", cfg.Output.Path, "error", err)
			return exitFatal
		}
		defer f.Close()
		out = f
	}

	a, err := app.New(cfg, out)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return exitFatal
	}

	summary, err := a.ProcessPath(ctx, path)
	writeMetrics(cfg)
	if err != nil {
		slog.Error("run failed", "run_id", a.RunID, "path", path, "error", err)
		return exitFatal
	}
	slog.Debug("run complete",
		"run_id", summary.RunID,
		"processed", len(summary.Processed),
		"failed", len(summary.Failed),
		"filtered", summary.Filtered,
		"heap_mb", util.ReadHeap().AllocMB(),
	)

	if !cfg.Watch.Enabled {
		return exitOK
	}
	if err := a.Watch(ctx, path); err != nil {
		slog.Error("watch failed", "error", err)
		return exitFatal
	}
	writeMetrics(cfg)
	return exitOK
}

// loadConfig applies file, environment and explicitly set flags in that
// order, then validates the result once.
func loadConfig(opts *options, fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	config.ApplyEnvOverrides(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Output.Format = opts.format
		case "on-error":
			cfg.Processing.OnError = opts.onError
		case "watch":
			cfg.Watch.Enabled = opts.watch
		}
	})

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeMetrics(cfg *config.Config) {
	if cfg.Observability.MetricsFile == "" {
		return
	}
	if err := observability.WriteMetricsFile(cfg.Observability.MetricsFile); err != nil {
		slog.Warn("failed to write metrics file", "path", cfg.Observability.MetricsFile, "error", err)
	}
}
