package duplicates

import (
	"fmt"
	"sort"
	"strings"

	"typelint/internal/engine/finding"
)

type MatchKind string

const (
	MatchExact               MatchKind = "exact"
	MatchOptionalVariance    MatchKind = "optional-variance"
	MatchSubset              MatchKind = "subset"
	MatchSuperset            MatchKind = "superset"
	MatchRequiredOpportunity MatchKind = "required-opportunity"
)

// Match relates two definitions from different files. A precedes B by key;
// Subset means A's fields are contained in B's, Superset the reverse.
type Match struct {
	A          TypeDefinition `json:"a"`
	B          TypeDefinition `json:"b"`
	Kind       MatchKind      `json:"kind"`
	Suggestion string         `json:"suggestion"`
}

// Violation renders m as a low-severity finding anchored at A.
func (m Match) Violation() finding.Violation {
	return finding.Violation{
		File:     m.A.File,
		Line:     m.A.Line,
		Check:    finding.CheckDuplicates,
		Kind:     finding.KindStructuralDuplicate,
		Message:  m.Suggestion,
		Severity: finding.SeverityLow,
		Reason:   string(m.Kind),
	}
}

type pairRule func(a, b TypeDefinition) (MatchKind, string, bool)

// Priority order; the first rule that matches a pair decides it.
var pairRules = []pairRule{
	exactRule,
	optionalVarianceRule,
	subsetRule,
	requiredOpportunityRule,
}

// Compare relates every pair of definitions drawn from different files. The
// result depends only on the set of definitions, not their order.
func Compare(defs []TypeDefinition) []Match {
	sorted := make([]TypeDefinition, 0, len(defs))
	for _, d := range defs {
		if len(d.Fields) >= DefaultMinFields {
			sorted = append(sorted, d)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Key() != sorted[j].Key() {
			return sorted[i].Key() < sorted[j].Key()
		}
		return sorted[i].Line < sorted[j].Line
	})

	seen := make(map[string]bool)
	var out []Match
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			if a.File == b.File {
				continue
			}
			pair := a.Key() + "\x00" + b.Key()
			if seen[pair] {
				continue
			}
			for _, rule := range pairRules {
				kind, suggestion, ok := rule(a, b)
				if !ok {
					continue
				}
				seen[pair] = true
				out = append(out, Match{A: a, B: b, Kind: kind, Suggestion: suggestion})
				break
			}
		}
	}
	return out
}

func location(d TypeDefinition) string {
	return fmt.Sprintf("%s (%s:%d)", d.Name, d.File, d.Line)
}

func signatureCounts(fields []FieldDefinition, keep func(FieldDefinition) bool) map[string]int {
	out := make(map[string]int, len(fields))
	for _, f := range fields {
		if keep == nil || keep(f) {
			out[f.Signature()]++
		}
	}
	return out
}

func sameCounts(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, n := range a {
		if b[k] != n {
			return false
		}
	}
	return true
}

func exactRule(a, b TypeDefinition) (MatchKind, string, bool) {
	if len(a.Fields) != len(b.Fields) {
		return "", "", false
	}
	if !sameCounts(signatureCounts(a.Fields, nil), signatureCounts(b.Fields, nil)) {
		return "", "", false
	}
	return MatchExact, fmt.Sprintf(
		"%s and %s declare identical fields; keep one and alias the other: type %s = %s",
		location(a), location(b), b.Name, a.Name,
	), true
}

func required(f FieldDefinition) bool { return !f.Optional }

func optionalVarianceRule(a, b TypeDefinition) (MatchKind, string, bool) {
	oa, ob := a.optionalCount(), b.optionalCount()
	if oa == 0 || ob == 0 || oa == ob {
		return "", "", false
	}
	ra, rb := signatureCounts(a.Fields, required), signatureCounts(b.Fields, required)
	if len(a.Fields)-oa != len(b.Fields)-ob || !sameCounts(ra, rb) {
		return "", "", false
	}
	return MatchOptionalVariance, fmt.Sprintf(
		"%s and %s share all required fields and differ only in optional fields (%d vs %d); extract the required fields into a base type and extend it",
		location(a), location(b), oa, ob,
	), true
}

func subsetRule(a, b TypeDefinition) (MatchKind, string, bool) {
	if len(a.Fields) == len(b.Fields) {
		return "", "", false
	}
	small, large, kind := a, b, MatchSubset
	if len(a.Fields) > len(b.Fields) {
		small, large, kind = b, a, MatchSuperset
	}
	have := signatureCounts(large.Fields, nil)
	for _, f := range small.Fields {
		if have[f.Signature()] == 0 {
			return "", "", false
		}
		have[f.Signature()]--
	}

	smallNames := make(map[string]bool, len(small.Fields))
	for _, f := range small.Fields {
		smallNames[f.Name] = true
	}
	var extra []string
	for _, f := range large.Fields {
		if !smallNames[f.Name] {
			extra = append(extra, "'"+f.Name+"'")
		}
	}
	return kind, fmt.Sprintf(
		"%s is a subset of %s; derive it as type %s = Omit<%s, %s>",
		location(small), location(large), small.Name, large.Name, strings.Join(extra, " | "),
	), true
}

func requiredOpportunityRule(a, b TypeDefinition) (MatchKind, string, bool) {
	if len(a.Fields) != len(b.Fields) {
		return "", "", false
	}
	oa, ob := a.optionalCount(), b.optionalCount()
	var strict, loose TypeDefinition
	switch {
	case oa == 0 && ob > 0:
		strict, loose = a, b
	case ob == 0 && oa > 0:
		strict, loose = b, a
	default:
		return "", "", false
	}

	types := make(map[string]string, len(loose.Fields))
	for _, f := range loose.Fields {
		types[f.Name] = f.Type
	}
	if len(types) != len(strict.Fields) {
		return "", "", false
	}
	for _, f := range strict.Fields {
		t, ok := types[f.Name]
		if !ok || t != f.Type {
			return "", "", false
		}
	}
	return MatchRequiredOpportunity, fmt.Sprintf(
		"%s is %s with every field required; derive it as type %s = Required<%s>",
		location(strict), location(loose), strict.Name, loose.Name,
	), true
}
