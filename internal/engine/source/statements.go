package source

import "strings"

// Statement is a run of lines joined until braces balance. Line is the
// zero-based index of its first line.
type Statement struct {
	Line int
	Text string
}

// Statements groups the comment-free lines of f into brace-balanced
// statements. Lines inside block comments are skipped; blank lines never
// start a statement.
func Statements(lines []string) []Statement {
	var out []Statement
	var cur []string
	start := 0
	depth := 0
	commented := BlockCommentLines(lines)
	for i, raw := range lines {
		if commented[i] {
			continue
		}
		text := strings.TrimSpace(StripComments(raw))
		if text == "" {
			continue
		}
		if len(cur) == 0 {
			start = i
		}
		cur = append(cur, text)
		depth += Delta(CodeOnly(text), '{', '}')
		if depth <= 0 {
			out = append(out, Statement{Line: start, Text: strings.Join(cur, " ")})
			cur = nil
			depth = 0
		}
	}
	if len(cur) > 0 {
		out = append(out, Statement{Line: start, Text: strings.Join(cur, " ")})
	}
	return out
}

// BlockCommentLines marks the lines that belong entirely to a multi-line
// block comment: the lines after an unterminated "/*" up to and including the
// one holding "*/", plus the opening line itself when it starts with "/*".
func BlockCommentLines(lines []string) []bool {
	marked := make([]bool, len(lines))
	inBlock := false
	for i, line := range lines {
		if inBlock {
			marked[i] = true
			if strings.Contains(line, "*/") {
				inBlock = false
			}
			continue
		}
		inBlock = opensBlockComment(line)
		marked[i] = inBlock && strings.HasPrefix(strings.TrimSpace(line), "/*")
	}
	return marked
}

// opensBlockComment reports whether line leaves a "/*" open outside string
// literals and line comments.
func opensBlockComment(line string) bool {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return false
		case c == '/' && i+1 < len(line) && line[i+1] == '*':
			end := strings.Index(line[i+2:], "*/")
			if end < 0 {
				return true
			}
			i += end + 3
		}
	}
	return false
}
