package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/google/uuid"

	"typelint/internal/core/ports"
	"typelint/internal/engine/finding"
	"typelint/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
	srcRoot      = "%SRCROOT%"
)

// SARIF emits one result per violation and per duplicate match. Rule IDs are
// the violation kinds.
type SARIF struct{}

func (SARIF) Name() string { return FormatSARIF }

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool                    `json:"tool"`
	AutomationDetails sarifAutomation              `json:"automationDetails"`
	OriginalURIBaseID map[string]sarifArtifactBase `json:"originalUriBaseIds,omitempty"`
	Results           []sarifResult                `json:"results"`
}

type sarifAutomation struct {
	GUID string `json:"guid"`
}

type sarifArtifactBase struct {
	URI string `json:"uri"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations,omitempty"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

var ruleCatalog = map[string]sarifRule{
	finding.KindTypeOutsideTypeModule: {
		Name:             "TypeOutsideTypeModule",
		ShortDescription: sarifMessage{Text: "Type-level declaration exported outside a type module."},
	},
	finding.KindNonFunctionalConstant: {
		Name:             "NonFunctionalConstantExport",
		ShortDescription: sarifMessage{Text: "Exported constant holds plain data instead of behavior."},
	},
	finding.KindFunctionalInTypeModule: {
		Name:             "FunctionalExportInTypeModule",
		ShortDescription: sarifMessage{Text: "Type module exports runtime behavior."},
	},
	finding.KindBarrelFile: {
		Name:             "BarrelFile",
		ShortDescription: sarifMessage{Text: "File only re-exports other modules."},
	},
	finding.KindValueImportFromTypeModule: {
		Name:             "ValueImportFromTypeModule",
		ShortDescription: sarifMessage{Text: "Type module imported without import type."},
	},
	finding.KindInlineObjectType: {
		Name:             "InlineObjectType",
		ShortDescription: sarifMessage{Text: "Inline object type in a function signature."},
	},
	finding.KindMissingProjectConfig: {
		Name:             "MissingProjectConfig",
		ShortDescription: sarifMessage{Text: "Project configuration file not found."},
	},
	finding.KindStructuralDuplicate: {
		Name:             "StructuralDuplicate",
		ShortDescription: sarifMessage{Text: "Type declarations in different files share a structure."},
	},
}

func (SARIF) Format(w io.Writer, result *ports.AnalysisResult) error {
	results := make([]sarifResult, 0, len(result.Violations)+len(result.Matches))
	levels := make(map[string]string)

	for _, v := range result.Violations {
		level := severityToLevel(v.Severity)
		levels[v.Kind] = maxLevel(levels[v.Kind], level)
		text := v.Message
		if v.Reason != "" {
			text += " (" + v.Reason + ")"
		}
		results = append(results, sarifResult{
			RuleID:    v.Kind,
			Level:     level,
			Message:   sarifMessage{Text: text},
			Locations: []sarifLocation{location(result.Root, v.File, v.Line)},
		})
	}

	for _, m := range result.Matches {
		v := m.Violation()
		level := severityToLevel(v.Severity)
		levels[v.Kind] = maxLevel(levels[v.Kind], level)
		related := location(result.Root, m.B.File, m.B.Line)
		related.ID = 1
		results = append(results, sarifResult{
			RuleID:           v.Kind,
			Level:            level,
			Message:          sarifMessage{Text: m.Suggestion},
			Locations:        []sarifLocation{location(result.Root, m.A.File, m.A.Line)},
			RelatedLocations: []sarifLocation{related},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "typelint",
						Version: version.Version,
						Rules:   buildRules(levels),
					},
				},
				AutomationDetails: sarifAutomation{GUID: uuid.New().String()},
				Results:           results,
			},
		},
	}
	if result.Root != "" {
		report.Runs[0].OriginalURIBaseID = map[string]sarifArtifactBase{
			srcRoot: {URI: "file://" + fileURIPath(result.Root) + "/"},
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// buildRules returns only the rules that have results, sorted by ID.
func buildRules(levels map[string]string) []sarifRule {
	ids := make([]string, 0, len(levels))
	for id := range levels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rules := make([]sarifRule, 0, len(ids))
	for _, id := range ids {
		rule := ruleCatalog[id]
		rule.ID = id
		if rule.Name == "" {
			rule.Name = id
		}
		rule.DefaultConfig = sarifRuleDefaultConfig{Level: levels[id]}
		rules = append(rules, rule)
	}
	return rules
}

func location(root, file string, line int) sarifLocation {
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       relativePath(root, file),
				URIBaseID: srcRoot,
			},
		},
	}
	if line > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: line}
	}
	return loc
}

func severityToLevel(s finding.Severity) string {
	switch {
	case s >= finding.SeverityHigh:
		return "error"
	case s == finding.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

var levelRank = map[string]int{"": 0, "note": 1, "warning": 2, "error": 3}

func maxLevel(a, b string) string {
	if levelRank[b] > levelRank[a] {
		return b
	}
	return a
}
