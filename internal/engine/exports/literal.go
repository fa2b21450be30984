package exports

import (
	"regexp"
	"strings"

	"typelint/internal/engine/source"
)

const qualified = ident + `(?:\s*\??\.\s*` + ident + `)+`

var (
	qualifiedValueRe = regexp.MustCompile(`(?m)(?:^|[:\[,(])\s*` + qualified)
	constantValueRe  = regexp.MustCompile(`(?m)(?:^|[:\[,])\s*[A-Z][A-Z0-9_]+\s*(?:[,\]}]|$)`)
	callValueRe      = regexp.MustCompile(`(?m)(?:^|[:\[,(])\s*(?:new\s+)?` + ident + `(?:\s*\??\.\s*` + ident + `)*\s*(?:<[^()]*>)?\s*\(`)
	interpolationRe  = regexp.MustCompile("`[^`]*\\$\\{")

	objectRefEntryRe = regexp.MustCompile(`^(?:(?:` + ident + `|''|""|\[[^\]]*\])\s*:\s*)?(` + ident + `)$`)
	arrayRefEntryRe  = regexp.MustCompile(`^(` + ident + `)$`)

	literalKeywords = map[string]bool{
		"true":      true,
		"false":     true,
		"null":      true,
		"undefined": true,
		"NaN":       true,
		"Infinity":  true,
	}
)

// literalStart returns the initializer from its opening brace or bracket,
// looking through a primitive-wrapper call such as Object.freeze(...).
func literalStart(init string) (string, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(init, "await "))
	if m := callExprRe.FindStringSubmatch(s); m != nil && primitiveWrappers[m[1]] {
		s = strings.TrimSpace(s[len(m[0]):])
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s, true
	}
	return "", false
}

// closingIndex returns the index of the delimiter closing s[0], or -1 when
// the text ends first.
func closingIndex(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func literalBody(_ *Classifier, d *declaration) (Classification, bool) {
	start, ok := literalStart(d.init)
	if !ok {
		return 0, false
	}
	// d.init is single-line; the remainder of a multi-line literal lives in
	// the following statement lines.
	parts := append([]string{start}, d.statement[1:]...)
	body := strings.Join(parts, "\n")
	if end := closingIndex(body); end >= 0 {
		body = body[:end+1]
	}

	raw := strings.Join(d.raw, "\n")
	switch {
	case strings.Contains(body, "..."),
		interpolationRe.MatchString(raw),
		qualifiedValueRe.MatchString(body),
		constantValueRe.MatchString(body),
		callValueRe.MatchString(body):
		return RuntimeConstructed, true
	}

	if onlyReferences(body) {
		return RuntimeConstructed, true
	}
	return LiteralConstant, true
}

// onlyReferences reports whether every entry of the literal is a bare
// identifier or a key: identifier pair.
func onlyReferences(body string) bool {
	if len(body) < 2 {
		return false
	}
	inner := body[1:]
	if strings.HasSuffix(inner, "}") || strings.HasSuffix(inner, "]") {
		inner = inner[:len(inner)-1]
	}
	entries := source.SplitTopLevel(inner, ",")
	if len(entries) == 0 {
		return false
	}
	entryRe := objectRefEntryRe
	if body[0] == '[' {
		entryRe = arrayRefEntryRe
	}
	for _, entry := range entries {
		m := entryRe.FindStringSubmatch(source.CollapseSpace(entry))
		if m == nil || literalKeywords[m[1]] {
			return false
		}
	}
	return true
}
