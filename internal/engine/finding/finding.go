// Package finding holds the violation records shared by every check.
package finding

import (
	"fmt"
	"sort"
	"strings"
)

type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityLow:      "LOW",
	SeverityMedium:   "MEDIUM",
	SeverityHigh:     "HIGH",
	SeverityCritical: "CRITICAL",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText renders the severity by name in json output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity accepts severity names case-insensitively.
func ParseSeverity(raw string) (Severity, error) {
	want := strings.ToUpper(strings.TrimSpace(raw))
	for sev, name := range severityNames {
		if name == want {
			return sev, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", raw)
}

// Check names
const (
	CheckConfig      = "config"
	CheckExports     = "exports"
	CheckDuplicates  = "duplicates"
	CheckBarrel      = "barrel"
	CheckTypeImports = "type_imports"
	CheckInlineTypes = "inline_types"
)

// Violation kinds
const (
	KindTypeOutsideTypeModule     = "type-outside-type-module"
	KindNonFunctionalConstant     = "non-functional-constant-export"
	KindFunctionalInTypeModule    = "functional-export-in-type-module"
	KindBarrelFile                = "barrel-file"
	KindValueImportFromTypeModule = "value-import-from-type-module"
	KindInlineObjectType          = "inline-object-type"
	KindMissingProjectConfig      = "missing-project-config"
	KindStructuralDuplicate       = "structural-duplicate"
)

// Violation is a single write-once finding. Line is 0 when the finding applies
// to the whole file.
type Violation struct {
	File     string   `json:"file"`
	Line     int      `json:"line,omitempty"`
	Check    string   `json:"check"`
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason,omitempty"`
}

// Sort orders violations by file path, then line, with check and message as
// tie-breakers so output is byte-stable across runs.
func Sort(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].File != vs[j].File {
			return vs[i].File < vs[j].File
		}
		if vs[i].Line != vs[j].Line {
			return vs[i].Line < vs[j].Line
		}
		if vs[i].Check != vs[j].Check {
			return vs[i].Check < vs[j].Check
		}
		return vs[i].Message < vs[j].Message
	})
}

// AtLeast returns true when any violation meets or exceeds min.
func AtLeast(vs []Violation, min Severity) bool {
	for _, v := range vs {
		if v.Severity >= min {
			return true
		}
	}
	return false
}

// CountByCheck tallies violations per check name.
func CountByCheck(vs []Violation) map[string]int {
	out := make(map[string]int)
	for _, v := range vs {
		out[v.Check]++
	}
	return out
}
