// Package enumerate lists the project's source files: a pruning pre-order
// walk filtered by the tsconfig include/exclude globs plus explicit files.
package enumerate

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"

	"typelint/internal/shared/observability"
	"typelint/internal/shared/util"
)

// Files returns the deduplicated, sorted absolute paths of the project's
// source files. It fails with ErrProjectNotFound when root has no project
// configuration and with a VALIDATION_ERROR for malformed patterns.
func Files(ctx context.Context, root string, opts Options) ([]string, error) {
	ctx, span := observability.StartSpan(ctx, "enumerate", attribute.String("root", root))
	defer span.End()

	opts = opts.withDefaults()
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	project, filter, err := projectFilter(absRoot, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, name := range project.Files {
		p := filepath.Join(absRoot, filepath.FromSlash(name))
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			slog.Warn("explicit project file not found", "path", p)
			continue
		}
		if !filter.HasSourceExtension(p) {
			slog.Debug("explicit project file has no source extension", "path", p)
			continue
		}
		seen[p] = struct{}{}
	}

	err = Walk(ctx, absRoot, filter, func(path string) {
		seen[path] = struct{}{}
	})
	if err != nil {
		return nil, err
	}

	files := util.SortedStringKeys(seen)
	span.SetAttributes(attribute.Int("files", len(files)))
	return files, nil
}

// NewProjectFilter loads the project configuration under root and compiles
// its filter.
func NewProjectFilter(root string, opts Options) (*Filter, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	_, filter, err := projectFilter(absRoot, opts.withDefaults())
	return filter, err
}

func projectFilter(absRoot string, opts Options) (*Project, *Filter, error) {
	project, err := LoadProject(absRoot, opts.ProjectConfig)
	if err != nil {
		return nil, nil, err
	}
	filter, err := NewFilter(project, opts)
	if err != nil {
		return nil, nil, err
	}
	return project, filter, nil
}

// Walk visits every included file below root in pre-order, pruning excluded
// directories before descending. Unreadable entries are skipped.
func Walk(ctx context.Context, root string, filter *Filter, visit func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			slog.Debug("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel := util.RelSlash(root, path)
		if d.IsDir() {
			if rel != "" && filter.ExcludedDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if rel != "" && filter.Included(rel) {
			visit(path)
		}
		return nil
	})
}
