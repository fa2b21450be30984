// Package typeimports flags value imports whose specifier points at a type
// module. Only the path shape of the specifier is inspected.
package typeimports

import (
	"fmt"
	"regexp"
	"strings"

	"typelint/internal/engine/finding"
	"typelint/internal/engine/ignore"
	"typelint/internal/engine/source"
)

var importRe = regexp.MustCompile(`^import\s+(type\s+)?(.+?)\s*from\s*['"]([^'"]+)['"]`)

type Check struct {
	typeModules source.TypeModules
}

func NewCheck(tm source.TypeModules) *Check {
	if len(tm.Filenames) == 0 && len(tm.Dirs) == 0 {
		tm = source.DefaultTypeModules()
	}
	return &Check{typeModules: tm}
}

func (c *Check) Name() string { return finding.CheckTypeImports }

func (c *Check) Run(f *source.File, _ string) []finding.Violation {
	var out []finding.Violation
	for _, s := range source.Statements(f.Lines) {
		m := importRe.FindStringSubmatch(s.Text)
		if m == nil || m[1] != "" {
			continue
		}
		clause, spec := m[2], m[3]
		if !c.typeModules.MatchSpecifier(spec) || typeOnlyClause(clause) {
			continue
		}
		if ignore.AtLine(f.Lines, s.Line, ignore.MarkerTypeImport) {
			continue
		}
		out = append(out, finding.Violation{
			File:     f.Path,
			Line:     s.Line + 1,
			Check:    finding.CheckTypeImports,
			Kind:     finding.KindValueImportFromTypeModule,
			Severity: finding.SeverityMedium,
			Message:  fmt.Sprintf("value import from type module %q", spec),
			Reason:   "type modules only hold types; use `import type`",
		})
	}
	return out
}

// typeOnlyClause reports whether every named binding carries its own type
// modifier, as in `{ type A, type B }`.
func typeOnlyClause(clause string) bool {
	clause = strings.TrimSpace(clause)
	if !strings.HasPrefix(clause, "{") || !strings.HasSuffix(clause, "}") {
		return false
	}
	names := source.SplitTopLevel(clause[1:len(clause)-1], ",")
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "type ") {
			return false
		}
	}
	return true
}
