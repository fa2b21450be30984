package exports

import (
	"regexp"
	"strings"

	"typelint/internal/engine/source"
)

type Kind string

const (
	KindTypeAlias Kind = "type"
	KindInterface Kind = "interface"
	KindEnum      Kind = "enum"
	KindConst     Kind = "const"
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
)

// TypeLevel reports whether the kind only exists at the type level.
func (k Kind) TypeLevel() bool {
	return k == KindTypeAlias || k == KindInterface || k == KindEnum
}

// Candidate is an exported declaration found while scanning a file. Line is
// 1-based.
type Candidate struct {
	Line int
	Text string
	Name string
	Kind Kind
}

const ident = `[A-Za-z_$][\w$]*`

// Order matters: "export const enum" must be seen as an enum before the
// const pattern gets a chance at it.
var candidatePatterns = []struct {
	kind Kind
	re   *regexp.Regexp
}{
	{KindTypeAlias, regexp.MustCompile(`^export\s+(?:declare\s+)?type\s+(` + ident + `)`)},
	{KindInterface, regexp.MustCompile(`^export\s+(?:declare\s+)?(?:default\s+)?interface\s+(` + ident + `)`)},
	{KindEnum, regexp.MustCompile(`^export\s+(?:declare\s+)?(?:const\s+)?enum\s+(` + ident + `)`)},
	{KindFunction, regexp.MustCompile(`^export\s+(?:default\s+)?(?:declare\s+)?(?:async\s+)?function\b\s*\*?\s*(` + ident + `)?`)},
	{KindClass, regexp.MustCompile(`^export\s+(?:default\s+)?(?:declare\s+)?(?:abstract\s+)?class\b\s*(` + ident + `)?`)},
	{KindConst, regexp.MustCompile(`^export\s+(?:declare\s+)?(?:const|let|var)\s+(` + ident + `)`)},
}

// Scan finds the exported declarations of f in line order.
func Scan(f *source.File) []Candidate {
	var out []Candidate
	commented := source.BlockCommentLines(f.Lines)
	for i, raw := range f.Lines {
		if commented[i] {
			continue
		}
		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(trimmed, "export") {
			continue
		}
		if c, ok := matchCandidate(trimmed); ok {
			c.Line = i + 1
			c.Text = raw
			out = append(out, c)
		}
	}
	return out
}

func matchCandidate(line string) (Candidate, bool) {
	for _, p := range candidatePatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" {
			name = "default"
		}
		return Candidate{Name: name, Kind: p.kind}, true
	}
	return Candidate{}, false
}
