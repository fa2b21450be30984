package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

var (
	validFormats = map[string]bool{"text": true, "json": true, "sarif": true}
	validFailOn  = map[string]bool{"low": true, "medium": true, "high": true, "critical": true, "never": true}
)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateFiles(cfg *Config) error {
	if cfg.ProjectConfig == "" {
		return fmt.Errorf("project_config must not be empty")
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extensions[%d] must start with '.', got %q", i, ext)
		}
	}
	if !strings.HasPrefix(cfg.DeclarationExtension, ".") {
		return fmt.Errorf("declaration_extension must start with '.', got %q", cfg.DeclarationExtension)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

func validateTypeModules(cfg *Config) error {
	for i, name := range cfg.TypeModules.Filenames {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("type_modules.filenames[%d] must be a base name, got %q", i, name)
		}
	}
	for i, dir := range cfg.TypeModules.Dirs {
		if strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("type_modules.dirs[%d] must be a single path segment, got %q", i, dir)
		}
	}
	return nil
}

func validateExports(cfg *Config) error {
	for i, p := range cfg.Exports.ValidatorPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("exports.validator_patterns[%d] is not a valid regular expression: %w", i, err)
		}
	}
	seen := make(map[string]bool, len(cfg.Exports.Suppress))
	for i, p := range cfg.Exports.Suppress {
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("exports.suppress[%d] is not a valid glob: %w", i, err)
		}
		if seen[p] {
			return fmt.Errorf("duplicate exports.suppress pattern %q", p)
		}
		seen[p] = true
	}
	return nil
}

func validateDuplicates(cfg *Config) error {
	if cfg.Duplicates.MinFields < 2 {
		return fmt.Errorf("duplicates.min_fields must be >= 2, got %d", cfg.Duplicates.MinFields)
	}
	return nil
}

func validateBarrel(cfg *Config) error {
	for i, name := range cfg.Barrel.Filenames {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("barrel.filenames[%d] must be a base name, got %q", i, name)
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if !validFormats[cfg.Output.Format] {
		return fmt.Errorf("output.format must be one of: text, json, sarif")
	}
	if !validFailOn[cfg.Output.FailOn] {
		return fmt.Errorf("output.fail_on must be one of: low, medium, high, critical, never")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.MaxRunsPerSecond < 0 {
		return fmt.Errorf("watch.max_runs_per_second must not be negative")
	}
	return nil
}
