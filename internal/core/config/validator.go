package config

import (
	"fmt"
	"strings"

	"symfind/internal/shared/util"

	"github.com/gobwas/glob"
)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateLanguages(cfg *Config) error {
	for i, ext := range cfg.Languages.Python.Extensions {
		if ext == "" || ext == "." {
			return fmt.Errorf("languages.python.extensions[%d] must not be empty", i)
		}
		if util.ContainsPathSeparator(ext) {
			return fmt.Errorf("languages.python.extensions[%d] %q must not contain path separators", i, ext)
		}
	}
	return nil
}

func validateProcessing(cfg *Config) error {
	switch cfg.Processing.OnError {
	case OnErrorAbort, OnErrorSkip:
		return nil
	}
	return fmt.Errorf("processing.on_error must be one of: %s, %s (got %q)", OnErrorAbort, OnErrorSkip, cfg.Processing.OnError)
}

func validateResolution(cfg *Config) error {
	if cfg.Resolution.MaxDepth < 1 {
		return fmt.Errorf("resolution.max_depth must be >= 1, got %d", cfg.Resolution.MaxDepth)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Format {
	case FormatText, FormatJSON, FormatTSV:
		return nil
	}
	return fmt.Errorf("output.format must be one of: %s, %s, %s (got %q)", FormatText, FormatJSON, FormatTSV, cfg.Output.Format)
}

func validateExclude(cfg *Config) error {
	for i, pattern := range cfg.Exclude.Files {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude.files[%d] must not be empty", i)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.files[%d] %q: %w", i, pattern, err)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.MaxRunsPerSecond <= 0 {
		return fmt.Errorf("watch.max_runs_per_second must be > 0")
	}
	return nil
}
