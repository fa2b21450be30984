package source

import (
	"path"
	"strings"

	"typelint/internal/shared/util"
)

// TypeModules recognizes type modules by file name or directory segment.
type TypeModules struct {
	Filenames []string
	Dirs      []string
}

// DefaultTypeModules is the canonical convention: types.ts files and anything
// under a types/ directory.
func DefaultTypeModules() TypeModules {
	return TypeModules{Filenames: []string{"types.ts"}, Dirs: []string{"types"}}
}

// Match reports whether filePath is a type module.
func (t TypeModules) Match(filePath string) bool {
	p := util.NormalizePatternPath(filePath)
	base := path.Base(p)
	for _, name := range t.Filenames {
		if base == name {
			return true
		}
	}
	return t.hasDirSegment(path.Dir(p))
}

// MatchSpecifier reports whether a relative import specifier points at a type
// module, judging only from its path shape.
func (t TypeModules) MatchSpecifier(spec string) bool {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return false
	}
	p := strings.TrimSuffix(path.Clean(spec), "/")
	base := path.Base(p)
	for _, name := range t.Filenames {
		if base == name || base == strings.TrimSuffix(name, path.Ext(name)) {
			return true
		}
	}
	for _, dir := range t.Dirs {
		if base == dir {
			return true
		}
	}
	return t.hasDirSegment(path.Dir(p))
}

func (t TypeModules) hasDirSegment(dir string) bool {
	for _, seg := range strings.Split(dir, "/") {
		for _, d := range t.Dirs {
			if seg == d {
				return true
			}
		}
	}
	return false
}
