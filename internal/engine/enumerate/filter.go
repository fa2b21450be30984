package enumerate

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	domainerrors "typelint/internal/core/errors"
	"typelint/internal/shared/util"
)

// BaselineExcludes are always excluded: dependency cache, build output,
// version control, coverage and framework output directories.
var BaselineExcludes = []string{
	"**/node_modules",
	"**/dist",
	"**/build",
	"**/.git",
	"**/coverage",
	"**/.next",
	"**/.nuxt",
}

// Options configures enumeration beyond the project configuration.
type Options struct {
	ProjectConfig        string
	Extensions           []string
	DeclarationExtension string
	Exclude              []string
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.ProjectConfig) == "" {
		o.ProjectConfig = DefaultProjectConfig
	}
	if len(o.Extensions) == 0 {
		o.Extensions = []string{".ts"}
	}
	if strings.TrimSpace(o.DeclarationExtension) == "" {
		o.DeclarationExtension = ".d.ts"
	}
	return o
}

// matcher is an anchored glob: "*" stays within one segment and "**" spans
// zero or more whole segments.
type matcher struct {
	raw string
	// dir is the pattern with a trailing "/**" or "/**/*" removed, so the
	// directory itself can be pruned.
	dir string
}

func (m matcher) match(rel string) bool {
	ok, _ := doublestar.Match(m.raw, rel)
	return ok
}

func (m matcher) matchDir(rel string) bool {
	if m.match(rel) {
		return true
	}
	if m.dir == "" {
		return false
	}
	ok, _ := doublestar.Match(m.dir, rel)
	return ok
}

func compileMatcher(raw string) (matcher, bool, error) {
	p := util.NormalizePatternPath(raw)
	if p == "" {
		return matcher{}, false, nil
	}
	if !doublestar.ValidatePattern(p) {
		err := domainerrors.New(domainerrors.CodeValidationError, "invalid glob pattern")
		return matcher{}, false, domainerrors.AddContext(err, domainerrors.CtxPattern, raw)
	}
	m := matcher{raw: p}
	for _, suffix := range []string{"/**/*", "/**"} {
		if strings.HasSuffix(p, suffix) {
			m.dir = strings.TrimSuffix(p, suffix)
			break
		}
	}
	return m, true, nil
}

func compileMatchers(patterns []string) ([]matcher, error) {
	out := make([]matcher, 0, len(patterns))
	for _, raw := range patterns {
		m, ok, err := compileMatcher(raw)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// Filter decides membership for root-relative, slash-separated paths.
type Filter struct {
	include    []matcher
	exclude    []matcher
	extensions []string
	declExt    string
}

// NewFilter compiles the project's include list (defaulting to everything) and
// the union of the project's exclude list, the baseline and opts.Exclude.
func NewFilter(project *Project, opts Options) (*Filter, error) {
	opts = opts.withDefaults()

	includes := []string{"**/*"}
	if project != nil && len(project.Include) > 0 {
		includes = make([]string, 0, len(project.Include))
		for _, p := range project.Include {
			includes = append(includes, expandDirectoryInclude(p))
		}
	}
	inc, err := compileMatchers(includes)
	if err != nil {
		return nil, err
	}

	excludes := append([]string(nil), BaselineExcludes...)
	if project != nil {
		excludes = append(excludes, project.Exclude...)
	}
	excludes = append(excludes, opts.Exclude...)
	exc, err := compileMatchers(excludes)
	if err != nil {
		return nil, err
	}

	return &Filter{
		include:    inc,
		exclude:    exc,
		extensions: opts.Extensions,
		declExt:    opts.DeclarationExtension,
	}, nil
}

// expandDirectoryInclude turns a bare directory name into "<dir>/**/*".
func expandDirectoryInclude(p string) string {
	norm := util.NormalizePatternPath(p)
	if norm == "" || util.HasGlobMeta(norm) || path.Ext(norm) != "" {
		return norm
	}
	return norm + "/**/*"
}

// ExcludedDir reports whether the directory at rel must be pruned.
func (f *Filter) ExcludedDir(rel string) bool {
	for _, m := range f.exclude {
		if m.matchDir(rel) {
			return true
		}
	}
	return false
}

// HasSourceExtension reports whether name ends in a source extension and not
// in the declaration-only extension.
func (f *Filter) HasSourceExtension(name string) bool {
	if f.declExt != "" && strings.HasSuffix(name, f.declExt) {
		return false
	}
	for _, ext := range f.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Included reports whether the file at rel is a source file matched by an
// include pattern and by no exclude pattern. Files below a pruned directory
// are never included.
func (f *Filter) Included(rel string) bool {
	if !f.HasSourceExtension(rel) {
		return false
	}
	matched := false
	for _, m := range f.include {
		if m.match(rel) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, m := range f.exclude {
		if m.match(rel) {
			return false
		}
	}
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if f.ExcludedDir(dir) {
			return false
		}
	}
	return true
}
