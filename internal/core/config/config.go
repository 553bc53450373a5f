package config

import "time"

const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"

	FormatText = "text"
	FormatJSON = "json"
	FormatTSV  = "tsv"

	DefaultPath = "./symfind.toml"
)

// Config is built once per run and treated as read-only afterwards.
type Config struct {
	Version       int           `toml:"version"`
	Languages     Languages     `toml:"languages"`
	Processing    Processing    `toml:"processing"`
	Resolution    Resolution    `toml:"resolution"`
	Exclude       Exclude       `toml:"exclude"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Languages struct {
	Python Language `toml:"python"`
}

type Language struct {
	// Extensions recognized in directory mode. File mode ignores them.
	Extensions []string `toml:"extensions"`
}

type Processing struct {
	// OnError is "abort" (first failing file ends the run) or "skip".
	OnError string `toml:"on_error"`
}

type Resolution struct {
	Builtins *bool `toml:"builtins"`
	Deferred *bool `toml:"deferred"`
	MaxDepth int   `toml:"max_depth"`
}

type Exclude struct {
	Files []string `toml:"files"`
}

type Output struct {
	Format          string `toml:"format"`
	Path            string `toml:"path"`
	IncludeBuiltins bool   `toml:"include_builtins"`
}

type Watch struct {
	Enabled          bool          `toml:"enabled"`
	Debounce         time.Duration `toml:"debounce"`
	MaxRunsPerSecond float64       `toml:"max_runs_per_second"`
}

type Observability struct {
	ServiceName  string `toml:"service_name"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	MetricsFile  string `toml:"metrics_file"`
}

// BuiltinsEnabled reports whether Python builtins are bound in the module scope.
// Defaults to true.
func (r Resolution) BuiltinsEnabled() bool {
	if r.Builtins == nil {
		return true
	}
	return *r.Builtins
}

// DeferredEnabled reports whether unresolved references in function bodies are
// re-resolved after the main walk. Defaults to true.
func (r Resolution) DeferredEnabled() bool {
	if r.Deferred == nil {
		return true
	}
	return *r.Deferred
}

// DefaultConfig returns the configuration used when no file is present:
//
//	languages.python.extensions = [".py"]
//	processing.on_error         = "abort"
//	resolution.builtins         = true
//	resolution.deferred         = true
//	resolution.max_depth        = 2000
//	output.format               = "text"
//	watch.debounce              = 500ms
//	watch.max_runs_per_second   = 4
//	observability.service_name  = "symfind"
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
