package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	domainerrors "typelint/internal/core/errors"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeValidationError, "decode config"),
			domainerrors.CtxPath, path,
		)
	}
	if err := finalize(&cfg); err != nil {
		return nil, domainerrors.AddContext(err, domainerrors.CtxPath, path)
	}
	return &cfg, nil
}

// LoadOptional behaves like Load but returns the defaults when path does not
// exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &Config{}
		if err := finalize(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, err
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// finalize runs defaults, normalization and validation on a decoded config.
func finalize(cfg *Config) error {
	ApplyEnvOverrides(cfg)
	applyDefaults(cfg)
	normalize(cfg)
	return Validate(cfg)
}

// Validate checks a finalized config, for callers that adjust it after Load.
func Validate(cfg *Config) error {
	validators := []func(*Config) error{
		validateVersion,
		validateFiles,
		validateTypeModules,
		validateExports,
		validateDuplicates,
		validateBarrel,
		validateOutput,
		validateWatch,
	}
	for _, validate := range validators {
		if err := validate(cfg); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.ProjectConfig) == "" {
		cfg.ProjectConfig = "tsconfig.json"
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".ts"}
	}
	if strings.TrimSpace(cfg.DeclarationExtension) == "" {
		cfg.DeclarationExtension = ".d.ts"
	}
	if len(cfg.TypeModules.Filenames) == 0 && len(cfg.TypeModules.Dirs) == 0 {
		cfg.TypeModules.Filenames = []string{"types.ts"}
		cfg.TypeModules.Dirs = []string{"types"}
	}
	if cfg.Exports.Lookahead <= 0 {
		cfg.Exports.Lookahead = 10
	}
	if cfg.Duplicates.MinFields <= 0 {
		cfg.Duplicates.MinFields = 2
	}
	if len(cfg.Barrel.Filenames) == 0 {
		cfg.Barrel.Filenames = []string{"index.ts"}
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
	if strings.TrimSpace(cfg.Output.FailOn) == "" {
		cfg.Output.FailOn = "medium"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.MaxRunsPerSecond == 0 {
		cfg.Watch.MaxRunsPerSecond = 2
	}
}

func normalize(cfg *Config) {
	cfg.ProjectConfig = strings.TrimSpace(cfg.ProjectConfig)
	cfg.DeclarationExtension = strings.TrimSpace(cfg.DeclarationExtension)
	cfg.Extensions = trimAll(cfg.Extensions)
	cfg.Exclude = trimAll(cfg.Exclude)
	cfg.TypeModules.Filenames = trimAll(cfg.TypeModules.Filenames)
	cfg.TypeModules.Dirs = trimAll(cfg.TypeModules.Dirs)
	cfg.Exports.Suppress = trimAll(cfg.Exports.Suppress)
	cfg.Barrel.Filenames = trimAll(cfg.Barrel.Filenames)
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Output.FailOn = strings.ToLower(strings.TrimSpace(cfg.Output.FailOn))
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
