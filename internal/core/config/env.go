package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: SYMFIND_[SECTION]_[KEY] (e.g., SYMFIND_OUTPUT_FORMAT).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.Processing.OnError, "SYMFIND_PROCESSING_ON_ERROR")

	setEnvInt(&cfg.Resolution.MaxDepth, "SYMFIND_RESOLUTION_MAX_DEPTH")

	setEnvString(&cfg.Output.Format, "SYMFIND_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.Path, "SYMFIND_OUTPUT_PATH")
	setEnvBool(&cfg.Output.IncludeBuiltins, "SYMFIND_OUTPUT_INCLUDE_BUILTINS")

	setEnvBool(&cfg.Watch.Enabled, "SYMFIND_WATCH_ENABLED")
	setEnvDuration(&cfg.Watch.Debounce, "SYMFIND_WATCH_DEBOUNCE")

	setEnvString(&cfg.Observability.OTLPEndpoint, "SYMFIND_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.MetricsFile, "SYMFIND_OBSERVABILITY_METRICS_FILE")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
