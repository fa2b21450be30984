// Package inlinetypes flags object types written inline in function
// signatures outside type modules. Signatures are examined one line at a
// time.
package inlinetypes

import (
	"regexp"
	"strings"

	"typelint/internal/engine/finding"
	"typelint/internal/engine/ignore"
	"typelint/internal/engine/source"
)

const ident = `[A-Za-z_$][\w$]*`

var (
	functionHeadRe = regexp.MustCompile(`\bfunction\b\s*\*?\s*(?:` + ident + `)?\s*(?:<[^>]*>)?\s*\($`)
	methodHeadRe   = regexp.MustCompile(`^\s*(?:(?:public|private|protected|static|async|override|readonly)\s+)*(` + ident + `)\s*(?:<[^>]*>)?\s*\($`)
	arrowTailRe    = regexp.MustCompile(`^\s*(?::[^=]*)?=>`)
	bodyTailRe     = regexp.MustCompile(`^\s*(?::.*)?\{\s*\}?\s*$`)
	inlineParamRe  = regexp.MustCompile(`^(?:\.\.\.)?(?:` + ident + `|\{.*\}|\[.*\])\??\s*:\s*\{`)
	inlineReturnRe = regexp.MustCompile(`^\s*:\s*\{`)

	controlKeywords = map[string]bool{
		"if": true, "for": true, "while": true, "switch": true, "catch": true,
		"return": true, "function": true, "typeof": true, "await": true, "new": true,
	}
)

type Check struct {
	typeModules source.TypeModules
}

func NewCheck(tm source.TypeModules) *Check {
	if len(tm.Filenames) == 0 && len(tm.Dirs) == 0 {
		tm = source.DefaultTypeModules()
	}
	return &Check{typeModules: tm}
}

func (c *Check) Name() string { return finding.CheckInlineTypes }

func (c *Check) Run(f *source.File, rel string) []finding.Violation {
	if c.typeModules.Match(rel) {
		return nil
	}
	var out []finding.Violation
	for i, raw := range f.Lines {
		if source.IsCommentLine(raw) {
			continue
		}
		where, ok := inlineObjectType(source.CodeOnly(raw))
		if !ok || ignore.AtLine(f.Lines, i, ignore.MarkerInlineType) {
			continue
		}
		out = append(out, finding.Violation{
			File:     f.Path,
			Line:     i + 1,
			Check:    finding.CheckInlineTypes,
			Kind:     finding.KindInlineObjectType,
			Severity: finding.SeverityLow,
			Message:  "inline object type in " + where,
			Reason:   "declare a named type in a type module and reference it",
		})
	}
	return out
}

// inlineObjectType looks for a signature on code whose parameter list or
// return annotation is an object type literal.
func inlineObjectType(code string) (string, bool) {
	for open := strings.IndexByte(code, '('); open >= 0; {
		end := matchingParen(code, open)
		if end < 0 {
			return "", false
		}
		head, tail := code[:open+1], code[end+1:]
		if isSignature(head, tail) {
			for _, param := range source.SplitTopLevel(code[open+1:end], ",") {
				if inlineParamRe.MatchString(param) {
					return "parameter list", true
				}
			}
			if inlineReturnRe.MatchString(tail) {
				return "return type", true
			}
		}
		next := strings.IndexByte(code[open+1:], '(')
		if next < 0 {
			break
		}
		open += next + 1
	}
	return "", false
}

func isSignature(head, tail string) bool {
	if arrowTailRe.MatchString(tail) {
		return true
	}
	if functionHeadRe.MatchString(head) {
		return true
	}
	if m := methodHeadRe.FindStringSubmatch(head); m != nil && !controlKeywords[m[1]] {
		return bodyTailRe.MatchString(tail)
	}
	return false
}

func matchingParen(code string, open int) int {
	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
