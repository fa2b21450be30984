// Package app wires configuration to the checks and runs cold analyses:
// enumerate, analyze files in parallel, then compare type definitions once
// every file is done.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"typelint/internal/core/config"
	"typelint/internal/core/ports"
	"typelint/internal/engine/duplicates"
	"typelint/internal/engine/enumerate"
	"typelint/internal/engine/finding"
	"typelint/internal/engine/source"
	"typelint/internal/shared/observability"
	"typelint/internal/shared/util"
)

type App struct {
	Config *config.Config

	checks      []ports.FileCheck
	types       ports.TypeExtractor
	enumOptions enumerate.Options
	failOn      finding.Severity
	failOnMatch bool
	workers     int
}

var _ ports.Analyzer = (*App)(nil)

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	checks, types, err := buildChecks(cfg)
	if err != nil {
		return nil, err
	}
	failOn, err := failThreshold(cfg.Output.FailOn)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &App{
		Config:      cfg,
		checks:      checks,
		types:       types,
		enumOptions: enumerateOptions(cfg),
		failOn:      failOn,
		failOnMatch: cfg.Duplicates.FailOnMatch,
		workers:     workers,
	}, nil
}

// EnumerateOptions exposes the enumeration settings so the watcher prunes the
// same directories the analysis skips.
func (a *App) EnumerateOptions() enumerate.Options {
	return a.enumOptions
}

type fileResult struct {
	violations []finding.Violation
	defs       []duplicates.TypeDefinition
	read       bool
}

// Analyze runs one complete analysis from a cold read of every file.
func (a *App) Analyze(ctx context.Context, req ports.AnalyzeRequest) (*ports.AnalysisResult, error) {
	start := time.Now()
	root, err := filepath.Abs(req.Root)
	if err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "analyze", attribute.String("root", root))
	defer span.End()

	phase := time.Now()
	files, err := enumerate.Files(ctx, root, a.enumOptions)
	if err != nil {
		return nil, err
	}
	observability.PhaseDuration.WithLabelValues("enumerate").Observe(time.Since(phase).Seconds())
	slog.Debug("enumerated project files", "root", root, "count", len(files))

	phase = time.Now()
	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.analyzeFile(path, util.RelSlash(root, path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze files: %w", err)
	}
	observability.PhaseDuration.WithLabelValues("analyze").Observe(time.Since(phase).Seconds())

	result := &ports.AnalysisResult{Root: root}
	var defs []duplicates.TypeDefinition
	for _, r := range results {
		if !r.read {
			continue
		}
		result.FilesScanned++
		result.Violations = append(result.Violations, r.violations...)
		defs = append(defs, r.defs...)
	}

	if a.types != nil {
		phase = time.Now()
		_, compareSpan := observability.StartSpan(ctx, "compare", attribute.Int("definitions", len(defs)))
		result.Matches = a.types.Compare(defs)
		compareSpan.End()
		observability.PhaseDuration.WithLabelValues("compare").Observe(time.Since(phase).Seconds())
		observability.TypeDefinitionsExtracted.Set(float64(len(defs)))
	}

	finding.Sort(result.Violations)
	result.Passed = a.passed(result)
	result.Duration = time.Since(start)
	record(result)

	span.SetAttributes(
		attribute.Int("files", result.FilesScanned),
		attribute.Int("violations", len(result.Violations)),
		attribute.Int("matches", len(result.Matches)),
	)
	return result, nil
}

func (a *App) analyzeFile(path, rel string) fileResult {
	f, err := source.Read(path)
	if err != nil {
		slog.Warn("skipping unreadable file", "path", path, "error", err)
		observability.FilesSkippedTotal.Inc()
		return fileResult{}
	}
	var out fileResult
	out.read = true
	for _, c := range a.checks {
		out.violations = append(out.violations, c.Run(f, rel)...)
	}
	if a.types != nil {
		out.defs = a.types.Extract(f, rel)
	}
	return out
}

func (a *App) passed(result *ports.AnalysisResult) bool {
	if a.failOnMatch && len(result.Matches) > 0 {
		return false
	}
	if a.failOn == 0 {
		return true
	}
	return !finding.AtLeast(result.Violations, a.failOn)
}

func record(result *ports.AnalysisResult) {
	observability.FilesScannedTotal.Add(float64(result.FilesScanned))
	for check, n := range finding.CountByCheck(result.Violations) {
		observability.ViolationsTotal.WithLabelValues(check).Add(float64(n))
	}
	for _, m := range result.Matches {
		observability.DuplicateMatchesTotal.WithLabelValues(string(m.Kind)).Inc()
	}
}

// FatalResult renders a missing project configuration as the single
// critical finding of a failed run.
func FatalResult(root string, projectConfig string, err error) *ports.AnalysisResult {
	abs, absErr := filepath.Abs(root)
	if absErr != nil {
		abs = root
	}
	if projectConfig == "" {
		projectConfig = enumerate.DefaultProjectConfig
	}
	msg := err.Error()
	if errors.Is(err, enumerate.ErrProjectNotFound) {
		msg = fmt.Sprintf("no %s found in %s", projectConfig, abs)
	}
	return &ports.AnalysisResult{
		Root: abs,
		Violations: []finding.Violation{{
			File:     filepath.Join(abs, projectConfig),
			Check:    finding.CheckConfig,
			Kind:     finding.KindMissingProjectConfig,
			Severity: finding.SeverityCritical,
			Message:  msg,
			Reason:   fmt.Sprintf("run typelint from the project root or create %s there", projectConfig),
		}},
	}
}
