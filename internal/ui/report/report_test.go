package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"typelint/internal/core/ports"
	"typelint/internal/engine/duplicates"
	"typelint/internal/engine/finding"
)

func sampleResult() *ports.AnalysisResult {
	fields := []duplicates.FieldDefinition{{Name: "id", Type: "string"}, {Name: "name", Type: "string"}}
	return &ports.AnalysisResult{
		Root:         "/proj",
		FilesScanned: 2,
		Violations: []finding.Violation{{
			File:     "/proj/src/a.ts",
			Line:     3,
			Check:    finding.CheckExports,
			Kind:     finding.KindNonFunctionalConstant,
			Message:  "non-functional constant export 'Config'",
			Severity: finding.SeverityMedium,
			Reason:   "literal-body",
		}},
		Matches: []duplicates.Match{{
			A:          duplicates.TypeDefinition{Name: "Customer", File: "/proj/src/types/a.ts", Line: 1, Fields: fields},
			B:          duplicates.TypeDefinition{Name: "User", File: "/proj/src/types/b.ts", Line: 4, Fields: fields},
			Kind:       duplicates.MatchExact,
			Suggestion: "Customer and User declare identical fields",
		}},
		Passed:   false,
		Duration: 1500 * time.Millisecond,
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	cases := map[string]string{"": FormatText, "text": FormatText, "JSON": FormatJSON, " sarif ": FormatSARIF}
	for in, want := range cases {
		f, err := New(in, Options{})
		if err != nil {
			t.Fatalf("New(%q): %v", in, err)
		}
		if f.Name() != want {
			t.Fatalf("New(%q).Name() = %q, want %q", in, f.Name(), want)
		}
	}
	if _, err := New("xml", Options{}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestTextFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := NewText(false).Format(&buf, sampleResult()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"MEDIUM",
		"src/a.ts:3",
		"non-functional constant export 'Config' [exports]",
		"literal-body",
		"Duplicate types",
		"exact: Customer and User declare identical fields",
		"duplicates",
		"FAIL 2 file(s) scanned, 1 violation(s), 1 duplicate suggestion(s) in 1.5s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/proj/") {
		t.Errorf("expected root-relative paths:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no escape sequences with color disabled:\n%s", out)
	}
}

func TestTextFormatPassing(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := NewText(false).Format(&buf, &ports.AnalysisResult{Root: "/proj", FilesScanned: 4, Passed: true})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "PASS 4 file(s) scanned, 0 violation(s)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Duplicate types") || strings.Contains(out, "TOTAL") {
		t.Fatalf("expected no detail sections:\n%s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := (JSON{}).Format(&buf, sampleResult()); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Tool       string `json:"tool"`
		Passed     bool   `json:"passed"`
		DurationMS int64  `json:"duration_ms"`
		Summary    struct {
			Violations int            `json:"violations"`
			Matches    int            `json:"matches"`
			ByCheck    map[string]int `json:"by_check"`
		} `json:"summary"`
		Violations []map[string]any `json:"violations"`
		Matches    []map[string]any `json:"matches"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Tool != "typelint" || doc.Passed || doc.DurationMS != 1500 {
		t.Fatalf("unexpected header: %+v", doc)
	}
	if doc.Summary.Violations != 1 || doc.Summary.Matches != 1 || doc.Summary.ByCheck["exports"] != 1 {
		t.Fatalf("unexpected summary: %+v", doc.Summary)
	}
	if doc.Violations[0]["severity"] != "MEDIUM" || doc.Violations[0]["line"] != float64(3) {
		t.Fatalf("unexpected violation: %v", doc.Violations[0])
	}
	if doc.Matches[0]["kind"] != "exact" {
		t.Fatalf("unexpected match: %v", doc.Matches[0])
	}
}

func TestJSONFormatEmptyListsAreArrays(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := (JSON{}).Format(&buf, &ports.AnalysisResult{Passed: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"violations": []`) || !strings.Contains(out, `"matches": []`) {
		t.Fatalf("expected empty arrays:\n%s", out)
	}
}

func TestSARIFFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := (SARIF{}).Format(&buf, sampleResult()); err != nil {
		t.Fatal(err)
	}
	var report sarifReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if report.Schema != sarifSchema || report.Version != sarifVersion {
		t.Fatalf("unexpected header %q %q", report.Schema, report.Version)
	}
	if len(report.Runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(report.Runs))
	}
	run := report.Runs[0]
	if _, err := uuid.Parse(run.AutomationDetails.GUID); err != nil {
		t.Errorf("automation guid %q: %v", run.AutomationDetails.GUID, err)
	}
	if got := run.OriginalURIBaseID[srcRoot].URI; got != "file:///proj/" {
		t.Errorf("base uri = %q", got)
	}

	rules := run.Tool.Driver.Rules
	if len(rules) != 2 || rules[0].ID != finding.KindNonFunctionalConstant || rules[1].ID != finding.KindStructuralDuplicate {
		t.Fatalf("unexpected rules: %+v", rules)
	}
	if rules[0].DefaultConfig.Level != "warning" || rules[1].DefaultConfig.Level != "note" {
		t.Errorf("unexpected rule levels: %+v", rules)
	}

	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	first := run.Results[0]
	loc := first.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/a.ts" || loc.ArtifactLocation.URIBaseID != srcRoot {
		t.Errorf("unexpected artifact location: %+v", loc.ArtifactLocation)
	}
	if loc.Region == nil || loc.Region.StartLine != 3 {
		t.Errorf("unexpected region: %+v", loc.Region)
	}
	if !strings.Contains(first.Message.Text, "(literal-body)") {
		t.Errorf("expected reason in message, got %q", first.Message.Text)
	}

	dup := run.Results[1]
	if dup.Level != "note" || len(dup.RelatedLocations) != 1 {
		t.Fatalf("unexpected duplicate result: %+v", dup)
	}
	if got := dup.RelatedLocations[0].PhysicalLocation.ArtifactLocation.URI; got != "src/types/b.ts" {
		t.Errorf("related uri = %q", got)
	}
}

func TestSARIFFormatEmpty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := (SARIF{}).Format(&buf, &ports.AnalysisResult{Passed: true}); err != nil {
		t.Fatal(err)
	}
	var report sarifReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Runs[0].Results) != 0 || len(report.Runs[0].Tool.Driver.Rules) != 0 {
		t.Fatalf("expected empty run, got %+v", report.Runs[0])
	}
}
