package ports

import (
	"context"
	"io"
	"time"

	"typelint/internal/engine/duplicates"
	"typelint/internal/engine/finding"
	"typelint/internal/engine/source"
)

// FileCheck is a per-file check. Implementations read only f and must be
// safe to call from several goroutines at once.
type FileCheck interface {
	Name() string
	Run(f *source.File, rel string) []finding.Violation
}

// TypeExtractor feeds the global duplicate comparison.
type TypeExtractor interface {
	Extract(f *source.File, rel string) []duplicates.TypeDefinition
	Compare(defs []duplicates.TypeDefinition) []duplicates.Match
}

// AnalyzeRequest defines one analysis run.
type AnalyzeRequest struct {
	Root string
}

// AnalysisResult is everything a formatter needs to render a run.
type AnalysisResult struct {
	Root         string              `json:"root"`
	FilesScanned int                 `json:"files_scanned"`
	Violations   []finding.Violation `json:"violations"`
	Matches      []duplicates.Match  `json:"matches"`
	Passed       bool                `json:"passed"`
	Duration     time.Duration       `json:"duration_ns"`
}

// Analyzer abstracts a complete cold analysis run for driving adapters.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error)
}

// Formatter renders a result.
type Formatter interface {
	Name() string
	Format(w io.Writer, result *AnalysisResult) error
}
