// Package report renders analysis results for people and for tools.
package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"typelint/internal/core/ports"
	"typelint/internal/shared/util"
)

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatText, FormatJSON, FormatSARIF}

// Options tune the human-facing formatter.
type Options struct {
	// Color enables lipgloss styling when the writer supports it.
	Color bool
}

// New returns the formatter registered under name.
func New(name string, opts Options) (ports.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatText:
		return NewText(opts.Color), nil
	case FormatJSON:
		return JSON{}, nil
	case FormatSARIF:
		return SARIF{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

// relativePath renders file relative to root with forward slashes, falling
// back to the input when it lies elsewhere.
func relativePath(root, file string) string {
	if root != "" && util.HasPathPrefix(file, root) {
		if rel, err := filepath.Rel(root, file); err == nil {
			file = rel
		}
	}
	return filepath.ToSlash(file)
}

func fileURIPath(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
