package report

import (
	"encoding/json"
	"io"

	"typelint/internal/core/ports"
	"typelint/internal/engine/duplicates"
	"typelint/internal/engine/finding"
	"typelint/internal/shared/version"
)

// JSON writes the whole result as one indented document.
type JSON struct{}

func (JSON) Name() string { return FormatJSON }

type jsonSummary struct {
	Violations int            `json:"violations"`
	Matches    int            `json:"matches"`
	ByCheck    map[string]int `json:"by_check"`
}

type jsonDocument struct {
	Tool         string              `json:"tool"`
	Version      string              `json:"version"`
	Root         string              `json:"root"`
	FilesScanned int                 `json:"files_scanned"`
	Passed       bool                `json:"passed"`
	DurationMS   int64               `json:"duration_ms"`
	Summary      jsonSummary         `json:"summary"`
	Violations   []finding.Violation `json:"violations"`
	Matches      []duplicates.Match  `json:"matches"`
}

func (JSON) Format(w io.Writer, result *ports.AnalysisResult) error {
	doc := jsonDocument{
		Tool:         "typelint",
		Version:      version.Version,
		Root:         result.Root,
		FilesScanned: result.FilesScanned,
		Passed:       result.Passed,
		DurationMS:   result.Duration.Milliseconds(),
		Summary: jsonSummary{
			Violations: len(result.Violations),
			Matches:    len(result.Matches),
			ByCheck:    finding.CountByCheck(result.Violations),
		},
		Violations: result.Violations,
		Matches:    result.Matches,
	}
	if doc.Violations == nil {
		doc.Violations = []finding.Violation{}
	}
	if doc.Matches == nil {
		doc.Matches = []duplicates.Match{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
