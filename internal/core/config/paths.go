package config

import (
	"os"
	"path/filepath"
	"strings"
)

// rootMarkers identify a project root, nearest first.
var rootMarkers = []string{
	"tsconfig.json",
	DefaultFile,
	".git",
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectProjectRoot walks up from each candidate looking for a root marker
// and falls back to the working directory.
func DetectProjectRoot(candidates []string) (string, error) {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range rootMarkers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
