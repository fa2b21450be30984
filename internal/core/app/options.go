package app

import (
	"strings"

	"typelint/internal/core/config"
	"typelint/internal/core/ports"
	"typelint/internal/engine/barrel"
	"typelint/internal/engine/duplicates"
	"typelint/internal/engine/enumerate"
	"typelint/internal/engine/exports"
	"typelint/internal/engine/finding"
	"typelint/internal/engine/inlinetypes"
	"typelint/internal/engine/source"
	"typelint/internal/engine/typeimports"
)

func enumerateOptions(cfg *config.Config) enumerate.Options {
	return enumerate.Options{
		ProjectConfig:        cfg.ProjectConfig,
		Extensions:           cfg.Extensions,
		DeclarationExtension: cfg.DeclarationExtension,
		Exclude:              cfg.Exclude,
	}
}

func typeModules(cfg *config.Config) source.TypeModules {
	return source.TypeModules{
		Filenames: cfg.TypeModules.Filenames,
		Dirs:      cfg.TypeModules.Dirs,
	}
}

func buildChecks(cfg *config.Config) ([]ports.FileCheck, ports.TypeExtractor, error) {
	tm := typeModules(cfg)
	var checks []ports.FileCheck

	if cfg.Exports.IsEnabled() {
		c, err := exports.NewCheck(exports.Options{
			Lookahead:         cfg.Exports.Lookahead,
			ValidatorPatterns: cfg.Exports.ValidatorPatterns,
			Suppress:          cfg.Exports.Suppress,
			TypeModules:       tm,
		})
		if err != nil {
			return nil, nil, err
		}
		checks = append(checks, c)
	}
	if cfg.Barrel.IsEnabled() {
		checks = append(checks, barrel.NewCheck(cfg.Barrel.Filenames))
	}
	if cfg.TypeImports.IsEnabled() {
		checks = append(checks, typeimports.NewCheck(tm))
	}
	if cfg.InlineTypes.IsEnabled() {
		checks = append(checks, inlinetypes.NewCheck(tm))
	}

	var types ports.TypeExtractor
	if cfg.Duplicates.IsEnabled() {
		types = duplicates.NewDetector(duplicates.Options{
			MinFields:           cfg.Duplicates.MinFields,
			NormalizeWhitespace: cfg.Duplicates.Normalize(),
			TypeModules:         tm,
		})
	}
	return checks, types, nil
}

// failThreshold maps output.fail_on to a severity; "never" disables
// severity-based failure and yields zero.
func failThreshold(raw string) (finding.Severity, error) {
	if strings.EqualFold(strings.TrimSpace(raw), "never") {
		return 0, nil
	}
	if strings.TrimSpace(raw) == "" {
		return finding.SeverityMedium, nil
	}
	return finding.ParseSeverity(raw)
}
