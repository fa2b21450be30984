package exports

import (
	"fmt"
	"regexp"
	"strings"

	"typelint/internal/engine/source"
)

type Classification int

const (
	Functional Classification = iota + 1
	RuntimeConstructed
	RecognizedValidator
	LiteralConstant
)

func (c Classification) String() string {
	switch c {
	case Functional:
		return "functional"
	case RuntimeConstructed:
		return "runtime-constructed"
	case RecognizedValidator:
		return "recognized-validator"
	case LiteralConstant:
		return "literal-constant"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

const DefaultLookahead = 10

// DefaultValidatorPatterns match the namespaced factory calls of common
// runtime schema libraries.
var DefaultValidatorPatterns = []string{
	`\bz\.[A-Za-z]+\s*\(`,
	`\byup\.[A-Za-z]+\s*\(`,
	`\bJoi\.[A-Za-z]+\s*\(`,
	`\bv\.[A-Za-z]+\s*\(`,
	`\bt\.[A-Za-z]+\s*\(`,
	`\bType\.[A-Za-z]+\s*\(`,
	`\bSchema\.[A-Za-z]+\s*\(`,
}

// Classifier decides what an exported const binds. Rules run in a fixed
// order and the first rule that answers wins.
type Classifier struct {
	lookahead  int
	validators []*regexp.Regexp
}

func NewClassifier(lookahead int, validatorPatterns []string) (*Classifier, error) {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	if validatorPatterns == nil {
		validatorPatterns = DefaultValidatorPatterns
	}
	validators := make([]*regexp.Regexp, 0, len(validatorPatterns))
	for _, p := range validatorPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid validator pattern %q: %w", p, err)
		}
		validators = append(validators, re)
	}
	return &Classifier{lookahead: lookahead, validators: validators}, nil
}

// declaration is the bounded view of one const statement the rules inspect.
type declaration struct {
	// init is the code-only initializer text on the declaration line.
	init string
	// statement holds the code-only lines of the statement, declaration line
	// first, cut at the statement end, a new declaration or the window.
	statement []string
	// raw mirrors statement with string contents intact.
	raw []string
	// next is the first non-blank code line after the declaration line.
	next string
}

type rule struct {
	name  string
	apply func(c *Classifier, d *declaration) (Classification, bool)
}

var rules = []rule{
	{name: "functional-initializer", apply: functionalInitializer},
	{name: "construction-initializer", apply: constructionInitializer},
	{name: "call-initializer", apply: callInitializer},
	{name: "validator-builder", apply: validatorBuilder},
	{name: "literal-body", apply: literalBody},
	{name: "deferred-initializer", apply: deferredInitializer},
}

// Classify inspects the const declared on lines[idx].
func (c *Classifier) Classify(lines []string, idx int) Classification {
	cls, _ := c.explain(lines, idx)
	return cls
}

// explain also names the deciding rule, "default" when none answered.
func (c *Classifier) explain(lines []string, idx int) (Classification, string) {
	d := c.window(lines, idx)
	for _, r := range rules {
		if cls, ok := r.apply(c, d); ok {
			return cls, r.name
		}
	}
	return LiteralConstant, "default"
}

var (
	constDeclRe = regexp.MustCompile(`^\s*export\s+(?:declare\s+)?(?:const|let|var)\s+` + ident)
	newDeclRe   = regexp.MustCompile(`^\s*(?:export\s+|import\s|const\s|let\s|var\s|function\b|async\s+function\b|class\s|interface\s|type\s+` + ident + `|enum\s)`)
)

func (c *Classifier) window(lines []string, idx int) *declaration {
	d := &declaration{}
	if idx < 0 || idx >= len(lines) {
		return d
	}
	first := source.CodeOnly(lines[idx])
	if loc := constDeclRe.FindStringIndex(first); loc != nil {
		rest := first[loc[1]:]
		if eq := assignIndex(rest); eq >= 0 {
			d.init = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest[eq+1:]), ";"))
		}
	}
	d.statement = append(d.statement, first)
	d.raw = append(d.raw, lines[idx])

	depth := source.NestingDelta(first)
	open := depth > 0 || continues(first)
	chaining := d.init != ""
	for i := idx + 1; i < len(lines) && i <= idx+c.lookahead; i++ {
		code := source.CodeOnly(lines[i])
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if d.next == "" {
			d.next = trimmed
		}
		if !open && !strings.HasPrefix(trimmed, ".") {
			break
		}
		if depth <= 0 && newDeclRe.MatchString(code) {
			break
		}
		if chaining && strings.HasPrefix(trimmed, ".") {
			d.init += strings.TrimSuffix(trimmed, ";")
		} else {
			chaining = false
		}
		d.statement = append(d.statement, code)
		d.raw = append(d.raw, lines[i])
		depth += source.NestingDelta(code)
		open = depth > 0 || continues(code)
	}
	return d
}

// continues reports whether a line leaves its statement syntactically open.
func continues(code string) bool {
	t := strings.TrimSpace(code)
	if t == "" {
		return false
	}
	if strings.HasSuffix(t, ";") {
		return false
	}
	switch t[len(t)-1] {
	case '=', ',', '(', '[', '{', ':', '?', '|', '&', '+', '-', '.', '>':
		return true
	}
	return false
}

// assignIndex finds the initializer's "=" in the text after the declared
// name, skipping "==", "=>", "<=", ">=", "!=" and anything nested inside a
// type annotation.
func assignIndex(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}':
			depth--
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			if i+1 < len(s) && (s[i+1] == '=' || s[i+1] == '>') {
				i++
				continue
			}
			if i > 0 && strings.IndexByte("<>!=", s[i-1]) >= 0 {
				continue
			}
			return i
		}
	}
	return -1
}

var functionalMarkers = []*regexp.Regexp{
	regexp.MustCompile(`=>`),
	regexp.MustCompile(`\bfunction\b\s*\*?\s*(?:` + ident + `)?\s*\(`),
	regexp.MustCompile(`\bclass\b\s*(?:` + ident + `\s*)?(?:extends\b[^{]*)?\{`),
	regexp.MustCompile(`\basync\s*(?:\(|function\b|` + ident + `\s*=>)`),
}

func hasFunctionalMarker(code string) bool {
	for _, re := range functionalMarkers {
		if re.MatchString(code) {
			return true
		}
	}
	return false
}

func functionalInitializer(_ *Classifier, d *declaration) (Classification, bool) {
	for _, line := range d.statement {
		if hasFunctionalMarker(line) {
			return Functional, true
		}
	}
	return 0, false
}

var newExprRe = regexp.MustCompile(`^(?:await\s+)?new\s+[A-Za-z_$]`)

func constructionInitializer(_ *Classifier, d *declaration) (Classification, bool) {
	if newExprRe.MatchString(d.init) {
		return RuntimeConstructed, true
	}
	return 0, false
}

var (
	callExprRe = regexp.MustCompile(`^(?:await\s+)?(` + ident + `)((?:\s*\??\.\s*` + ident + `)*)\s*(?:<[^()]*>)?\s*\(`)

	// primitiveWrappers produce literal-like values when called.
	primitiveWrappers = map[string]bool{
		"String":  true,
		"Number":  true,
		"Boolean": true,
		"BigInt":  true,
		"Symbol":  true,
		"Object":  true,
	}
)

func isRuntimeCall(init string) bool {
	m := callExprRe.FindStringSubmatch(init)
	if m == nil {
		return false
	}
	return !primitiveWrappers[m[1]]
}

func callInitializer(_ *Classifier, d *declaration) (Classification, bool) {
	if !isRuntimeCall(d.init) {
		return 0, false
	}
	for _, line := range d.statement {
		if strings.Contains(line, "=>") {
			return 0, false
		}
	}
	return RuntimeConstructed, true
}

func (c *Classifier) isValidator(code string) bool {
	for _, re := range c.validators {
		if re.MatchString(code) {
			return true
		}
	}
	return false
}

func validatorBuilder(c *Classifier, d *declaration) (Classification, bool) {
	if c.isValidator(d.init) {
		return RecognizedValidator, true
	}
	for _, line := range d.statement[1:] {
		if c.isValidator(line) {
			return RecognizedValidator, true
		}
	}
	return 0, false
}

func deferredInitializer(_ *Classifier, d *declaration) (Classification, bool) {
	if d.init != "" || d.next == "" {
		return 0, false
	}
	if !strings.HasSuffix(strings.TrimSpace(d.statement[0]), "=") {
		return 0, false
	}
	if newExprRe.MatchString(d.next) || isRuntimeCall(d.next) {
		return RuntimeConstructed, true
	}
	return 0, false
}
