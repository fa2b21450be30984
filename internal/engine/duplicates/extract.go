// Package duplicates finds composite type declarations in type modules whose
// field signatures overlap closely enough to be consolidated.
package duplicates

import (
	"regexp"
	"strings"

	"typelint/internal/engine/ignore"
	"typelint/internal/engine/source"
)

// DefaultMinFields is the smallest field count worth comparing.
const DefaultMinFields = 2

// FieldDefinition is one `name[?]: type` member of a declaration body.
type FieldDefinition struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
}

// Signature renders the field the way comparisons see it.
func (f FieldDefinition) Signature() string {
	if f.Optional {
		return f.Name + "?:" + f.Type
	}
	return f.Name + ":" + f.Type
}

// TypeDefinition is an extracted composite declaration. Line is 1-based.
type TypeDefinition struct {
	Name   string            `json:"name"`
	File   string            `json:"file"`
	Line   int               `json:"line"`
	Fields []FieldDefinition `json:"fields"`
}

// Key identifies a definition by origin file and name.
func (d TypeDefinition) Key() string {
	return d.File + ":" + d.Name
}

func (d TypeDefinition) optionalCount() int {
	n := 0
	for _, f := range d.Fields {
		if f.Optional {
			n++
		}
	}
	return n
}

type ExtractOptions struct {
	MinFields           int
	NormalizeWhitespace bool
}

type Extractor struct {
	minFields int
	normalize bool
}

func NewExtractor(opts ExtractOptions) *Extractor {
	minFields := opts.MinFields
	if minFields < DefaultMinFields {
		minFields = DefaultMinFields
	}
	return &Extractor{minFields: minFields, normalize: opts.NormalizeWhitespace}
}

const ident = `[A-Za-z_$][\w$]*`

var (
	typeDeclRe      = regexp.MustCompile(`^\s*(?:export\s+)?(?:declare\s+)?type\s+(` + ident + `)`)
	interfaceDeclRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?interface\s+(` + ident + `)\b[^{]*`)
	fieldRe         = regexp.MustCompile(`(?s)^(?:readonly\s+)?(` + ident + `|'[^']*'|"[^"]*")\s*(\?)?\s*:\s*(.+)$`)
)

// declarationAt reports the name declared on a code-only line and whether the
// body's opening brace is on that line. A type alias whose value is anything
// other than a brace-delimited body is not a composite declaration.
func declarationAt(code string) (name string, braceHere bool, ok bool) {
	if m := typeDeclRe.FindStringSubmatchIndex(code); m != nil {
		rest, closed := skipTypeParams(code[m[1]:])
		if !closed || !strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, "=>") {
			return "", false, false
		}
		rest = strings.TrimSpace(rest[1:])
		switch {
		case strings.HasPrefix(rest, "{"):
			return code[m[2]:m[3]], true, true
		case rest == "":
			return code[m[2]:m[3]], false, true
		}
		return "", false, false
	}
	if m := interfaceDeclRe.FindStringSubmatchIndex(code); m != nil {
		return code[m[2]:m[3]], strings.HasPrefix(code[m[1]:], "{"), true
	}
	return "", false, false
}

// skipTypeParams drops a leading, bracket-balanced type parameter list such
// as <K extends keyof T, V = T[K]> and returns the trimmed remainder. ok is
// false when the list is not closed on this line.
func skipTypeParams(s string) (rest string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<") {
		return s, true
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[i+1:]), true
			}
		}
	}
	return "", false
}

// Extract returns the composite declarations of f with at least the minimum
// field count. Declarations carrying the duplicate marker, and files carrying
// the file-level marker, yield nothing.
func (e *Extractor) Extract(f *source.File) []TypeDefinition {
	if ignore.InFile(f.Lines, ignore.FileMarkerDuplicates) {
		return nil
	}

	commented := source.BlockCommentLines(f.Lines)
	var out []TypeDefinition
	for i := 0; i < len(f.Lines); i++ {
		if commented[i] {
			continue
		}
		code := source.CodeOnly(f.Lines[i])
		name, braceHere, ok := declarationAt(code)
		if !ok {
			continue
		}
		start := i
		if !braceHere {
			next := nextCodeLine(f.Lines, commented, i+1)
			if next < 0 || !strings.HasPrefix(strings.TrimSpace(source.CodeOnly(f.Lines[next])), "{") {
				continue
			}
			start = next
		}

		body, end := braceBody(f.Lines, commented, start)
		if ignore.AtLine(f.Lines, i, ignore.MarkerDuplicate) {
			i = end
			continue
		}
		fields := e.fields(body)
		if len(fields) >= e.minFields {
			out = append(out, TypeDefinition{Name: name, File: f.Path, Line: i + 1, Fields: fields})
		}
		i = end
	}
	return out
}

func nextCodeLine(lines []string, commented []bool, from int) int {
	for j := from; j < len(lines); j++ {
		if !commented[j] && strings.TrimSpace(source.CodeOnly(lines[j])) != "" {
			return j
		}
	}
	return -1
}

// braceBody collects the text between the first '{' on lines[start] and its
// matching '}', with comments removed and strings intact. Lines marked in
// commented are passed over. An unbalanced body runs to the end of the file.
// end is the index of the last line consumed.
func braceBody(lines []string, commented []bool, start int) (string, int) {
	var b strings.Builder
	depth := 0
	opened := false
	var quote byte
	for i := start; i < len(lines); i++ {
		if commented[i] {
			continue
		}
		line := source.StripComments(lines[i])
		for j := 0; j < len(line); j++ {
			c := line[j]
			if quote != 0 {
				if c == '\\' && j+1 < len(line) {
					b.WriteByte(c)
					j++
					b.WriteByte(line[j])
					continue
				}
				if c == quote {
					quote = 0
				}
				b.WriteByte(c)
				continue
			}
			switch c {
			case '{':
				depth++
				if !opened {
					opened = true
					continue
				}
			case '}':
				depth--
				if opened && depth == 0 {
					return b.String(), i
				}
			case '\'', '"', '`':
				if opened {
					quote = c
				}
			}
			if opened {
				b.WriteByte(c)
			}
		}
		// Template literal types may span lines; plain quotes never do.
		if quote != '`' {
			quote = 0
		}
		if opened {
			b.WriteByte('\n')
		}
	}
	return b.String(), len(lines) - 1
}

func (e *Extractor) fields(body string) []FieldDefinition {
	var out []FieldDefinition
	for _, entry := range source.SplitTopLevel(body, ";,\n") {
		m := fieldRe.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		typ := strings.TrimSpace(m[3])
		if e.normalize {
			typ = source.CollapseSpace(typ)
		}
		if typ == "" {
			continue
		}
		out = append(out, FieldDefinition{
			Name:     strings.Trim(m[1], `'"`),
			Type:     typ,
			Optional: m[2] != "",
		})
	}
	return out
}
