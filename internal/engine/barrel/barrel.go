// Package barrel flags files that only re-export other modules.
package barrel

import (
	"fmt"
	"path"
	"regexp"

	"typelint/internal/engine/finding"
	"typelint/internal/engine/ignore"
	"typelint/internal/engine/source"
	"typelint/internal/shared/util"
)

var reexportRe = regexp.MustCompile(`^export\s+(?:type\s+)?(?:\*(?:\s+as\s+[A-Za-z_$][\w$]*)?|\{[^}]*\})\s*from\s*['"][^'"]+['"]\s*;?$`)

type Check struct {
	filenames map[string]bool
}

func NewCheck(filenames []string) *Check {
	if len(filenames) == 0 {
		filenames = []string{"index.ts"}
	}
	set := make(map[string]bool, len(filenames))
	for _, name := range filenames {
		set[name] = true
	}
	return &Check{filenames: set}
}

func (c *Check) Name() string { return finding.CheckBarrel }

func (c *Check) Run(f *source.File, rel string) []finding.Violation {
	if !c.filenames[path.Base(util.NormalizePatternPath(rel))] {
		return nil
	}
	stmts := source.Statements(f.Lines)
	if len(stmts) == 0 {
		return nil
	}
	for _, s := range stmts {
		if !reexportRe.MatchString(s.Text) {
			return nil
		}
	}
	first := stmts[0].Line
	if ignore.AtLine(f.Lines, first, ignore.MarkerBarrel) {
		return nil
	}
	return []finding.Violation{{
		File:     f.Path,
		Line:     first + 1,
		Check:    finding.CheckBarrel,
		Kind:     finding.KindBarrelFile,
		Severity: finding.SeverityLow,
		Message:  fmt.Sprintf("barrel file only re-exports %d module(s)", len(stmts)),
		Reason:   "import from the defining module instead of routing through a barrel",
	}}
}
