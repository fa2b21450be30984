// Package exports flags exported declarations that sit on the wrong side of
// the type-module boundary: type-level declarations and literal constants
// outside type modules, and functional exports inside them.
package exports

import (
	"fmt"

	"typelint/internal/engine/finding"
	"typelint/internal/engine/ignore"
	"typelint/internal/engine/source"
)

type Options struct {
	Lookahead         int
	ValidatorPatterns []string
	Suppress          []string
	TypeModules       source.TypeModules
}

type Check struct {
	classifier  *Classifier
	suppress    SuppressList
	typeModules source.TypeModules
}

func NewCheck(opts Options) (*Check, error) {
	classifier, err := NewClassifier(opts.Lookahead, opts.ValidatorPatterns)
	if err != nil {
		return nil, err
	}
	suppress, err := NewSuppressList(opts.Suppress)
	if err != nil {
		return nil, err
	}
	tm := opts.TypeModules
	if len(tm.Filenames) == 0 && len(tm.Dirs) == 0 {
		tm = source.DefaultTypeModules()
	}
	return &Check{classifier: classifier, suppress: suppress, typeModules: tm}, nil
}

func (c *Check) Name() string { return finding.CheckExports }

// Run checks one file; rel is its root-relative path.
func (c *Check) Run(f *source.File, rel string) []finding.Violation {
	if c.suppress.Match(rel) {
		return nil
	}
	typeModule := c.typeModules.Match(rel)

	var out []finding.Violation
	for _, cand := range Scan(f) {
		if ignore.AtLine(f.Lines, cand.Line-1, ignore.MarkerExport) {
			continue
		}
		if v, ok := c.evaluate(f, cand, typeModule); ok {
			out = append(out, v)
		}
	}
	return out
}

func (c *Check) evaluate(f *source.File, cand Candidate, typeModule bool) (finding.Violation, bool) {
	v := finding.Violation{File: f.Path, Line: cand.Line, Check: finding.CheckExports}

	switch {
	case cand.Kind.TypeLevel():
		if typeModule {
			return v, false
		}
		v.Kind = finding.KindTypeOutsideTypeModule
		v.Severity = finding.SeverityHigh
		v.Message = fmt.Sprintf("%s %s is declared outside a type module", cand.Kind, cand.Name)
		v.Reason = "move type-level declarations into a types.ts file or a types/ directory"
		return v, true

	case cand.Kind == KindFunction || cand.Kind == KindClass:
		if !typeModule {
			return v, false
		}
		return c.misplacedFunctional(v, cand), true

	default:
		cls, rule := c.classifier.explain(f.Lines, cand.Line-1)
		if typeModule {
			if cls != Functional {
				return v, false
			}
			return c.misplacedFunctional(v, cand), true
		}
		if cls != LiteralConstant {
			return v, false
		}
		v.Kind = finding.KindNonFunctionalConstant
		v.Severity = finding.SeverityMedium
		v.Message = fmt.Sprintf("non-functional constant export %s belongs in a type module", cand.Name)
		v.Reason = fmt.Sprintf("initializer classified as %s (%s)", cls, rule)
		return v, true
	}
}

func (c *Check) misplacedFunctional(v finding.Violation, cand Candidate) finding.Violation {
	v.Kind = finding.KindFunctionalInTypeModule
	v.Severity = finding.SeverityHigh
	v.Message = fmt.Sprintf("functional export %s is misplaced in a type module", cand.Name)
	v.Reason = "type modules hold only type-shaped declarations; move runtime code to a regular module"
	return v
}
