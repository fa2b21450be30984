package exports

import (
	"path"

	"github.com/gobwas/glob"

	domainerrors "typelint/internal/core/errors"
	"typelint/internal/engine/finding"
	"typelint/internal/shared/util"
)

// SuppressList exempts whole files from the export check. A pattern matches
// either the root-relative path or the file's base name.
type SuppressList struct {
	patterns []glob.Glob
}

func NewSuppressList(raw []string) (SuppressList, error) {
	out := SuppressList{patterns: make([]glob.Glob, 0, len(raw))}
	for _, p := range raw {
		norm := util.NormalizePatternPath(p)
		if norm == "" {
			continue
		}
		g, err := glob.Compile(norm, '/')
		if err != nil {
			wrapped := domainerrors.AddContext(
				domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid suppression pattern"),
				domainerrors.CtxPattern, p,
			)
			return SuppressList{}, domainerrors.AddContext(wrapped, domainerrors.CtxCheck, finding.CheckExports)
		}
		out.patterns = append(out.patterns, g)
	}
	return out, nil
}

func (s SuppressList) Match(rel string) bool {
	rel = util.NormalizePatternPath(rel)
	base := path.Base(rel)
	for _, g := range s.patterns {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}
