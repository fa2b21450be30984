package source

import "strings"

// IsCommentLine reports whether the trimmed line is a comment or a block
// comment continuation.
func IsCommentLine(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "//") || strings.HasPrefix(t, "/*") || strings.HasPrefix(t, "*")
}

// CodeOnly removes comments from line and blanks the contents of string
// literals, keeping the quote characters so literal positions stay visible.
func CodeOnly(line string) string {
	return scan(line, false)
}

// StripComments removes comments from line and leaves string literals intact.
func StripComments(line string) string {
	return scan(line, true)
}

func scan(line string, keepStrings bool) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				if keepStrings && i+1 < len(line) {
					b.WriteByte(c)
					b.WriteByte(line[i+1])
				}
				i++
				continue
			}
			if c == quote {
				quote = 0
				b.WriteByte(c)
			} else if keepStrings {
				b.WriteByte(c)
			}
			continue
		}
		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(c)
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return strings.TrimRight(b.String(), " \t")
		case c == '/' && i+1 < len(line) && line[i+1] == '*':
			end := strings.Index(line[i+2:], "*/")
			if end < 0 {
				return strings.TrimRight(b.String(), " \t")
			}
			b.WriteByte(' ')
			i += end + 3
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Delta returns the count of open minus close in code.
func Delta(code string, open, close byte) int {
	d := 0
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case open:
			d++
		case close:
			d--
		}
	}
	return d
}

// NestingDelta sums the balance of (), [] and {} in code.
func NestingDelta(code string) int {
	return Delta(code, '(', ')') + Delta(code, '[', ']') + Delta(code, '{', '}')
}

// SplitTopLevel splits s at any byte in seps that sits outside (), [], {}
// and <> nesting and outside string literals. Empty parts are dropped and
// the rest trimmed.
func SplitTopLevel(s, seps string) []string {
	var parts []string
	depth := 0
	start := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}':
			depth--
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
		default:
			if depth == 0 && strings.IndexByte(seps, c) >= 0 {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					parts = append(parts, part)
				}
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		parts = append(parts, part)
	}
	return parts
}

// CollapseSpace trims s and reduces internal whitespace runs to one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
