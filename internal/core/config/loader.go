package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateLanguages(&cfg); err != nil {
		return nil, err
	}
	if err := validateProcessing(&cfg); err != nil {
		return nil, err
	}
	if err := validateResolution(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}
	if err := validateExclude(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads path, falling back to DefaultConfig when the file does
// not exist. Any other read or validation failure is returned.
func LoadOrDefault(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultConfig(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Validate runs every check Load performs; used after flag overrides.
func Validate(cfg *Config) error {
	normalize(cfg)
	for _, check := range []func(*Config) error{
		validateVersion,
		validateLanguages,
		validateProcessing,
		validateResolution,
		validateOutput,
		validateExclude,
		validateWatch,
	} {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Languages.Python.Extensions) == 0 {
		cfg.Languages.Python.Extensions = []string{".py"}
	}

	if strings.TrimSpace(cfg.Processing.OnError) == "" {
		cfg.Processing.OnError = OnErrorAbort
	}

	if cfg.Resolution.MaxDepth <= 0 {
		cfg.Resolution.MaxDepth = 2000
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = FormatText
	}

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRunsPerSecond <= 0 {
		cfg.Watch.MaxRunsPerSecond = 4
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "symfind"
	}
}

func normalize(cfg *Config) {
	cfg.Processing.OnError = strings.ToLower(strings.TrimSpace(cfg.Processing.OnError))
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))

	exts := make([]string, 0, len(cfg.Languages.Python.Extensions))
	for _, ext := range cfg.Languages.Python.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	cfg.Languages.Python.Extensions = exts
}
