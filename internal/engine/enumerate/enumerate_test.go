package enumerate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "typelint/internal/core/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func relAll(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		require.True(t, filepath.IsAbs(f), "expected absolute path, got %s", f)
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestFilesMissingProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/a.ts": ""})

	files, err := Files(context.Background(), root, Options{})
	require.Error(t, err)
	assert.Nil(t, files)
	assert.True(t, errors.Is(err, ErrProjectNotFound))
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
}

func TestFilesDefaultIncludeAndBaselineExcludes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.json":                  `{}`,
		"src/b.ts":                       "",
		"src/a.ts":                       "",
		"src/types.d.ts":                 "",
		"src/readme.md":                  "",
		"node_modules/lib/index.ts":      "",
		"packages/x/node_modules/y/z.ts": "",
		"dist/out.ts":                    "",
		".git/hooks/h.ts":                "",
		"coverage/c.ts":                  "",
	})

	files, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "src/b.ts"}, relAll(t, root, files))
}

func TestFilesExcludePrunesSubtreeOnly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.json":         `{"exclude": ["src/legacy"]}`,
		"src/legacy/a.ts":       "",
		"src/legacy/deep/b.ts":  "",
		"src/legacy2/c.ts":      "",
		"src/current/legacy.ts": "",
	})

	files, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/current/legacy.ts", "src/legacy2/c.ts"}, relAll(t, root, files))
}

func TestFilesExcludeTrailingDoubleStarPrunesDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.json":       `{"exclude": ["gen/**"]}`,
		"gen/a.ts":            "",
		"generated/keep.ts":   "",
		"src/tests/x.spec.ts": "",
	})

	files, err := Files(context.Background(), root, Options{Exclude: []string{"**/*.spec.ts"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"generated/keep.ts"}, relAll(t, root, files))
}

func TestFilesDirectoryIncludeAndExplicitFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.json": `{
			// JSONC comments and trailing commas are accepted
			"include": ["src",],
			"files": ["scripts/build.ts", "src/a.ts", "missing.ts", "notes.txt"],
		}`,
		"src/a.ts":         "",
		"src/nested/b.ts":  "",
		"scripts/build.ts": "",
		"scripts/other.ts": "",
		"notes.txt":        "",
	})

	files, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"scripts/build.ts", "src/a.ts", "src/nested/b.ts"}, relAll(t, root, files))
}

func TestFilesInvalidPattern(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.json": `{"include": ["src/[abc"]}`,
		"src/a.ts":      "",
	})

	_, err := Files(context.Background(), root, Options{})
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError))
	assert.False(t, errors.Is(err, ErrProjectNotFound))
}

func TestFilesExtendsChain(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.base.json": `{"exclude": ["src/skip"]}`,
		"tsconfig.json":      `{"extends": "./tsconfig.base", "include": ["src/**/*"]}`,
		"src/a.ts":           "",
		"src/skip/b.ts":      "",
		"other/c.ts":         "",
	})

	files, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, relAll(t, root, files))
}

func TestFilesIsDeterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.json": `{}`,
		"z/a.ts":        "",
		"a/z.ts":        "",
		"m/m.ts":        "",
	})

	first, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)
	second, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.IsIncreasing(t, first)
}

func TestFilterGlobSemantics(t *testing.T) {
	t.Parallel()

	f, err := NewFilter(&Project{Include: []string{"a/**/b.ts", "src/*.ts"}}, Options{})
	require.NoError(t, err)

	cases := []struct {
		rel      string
		expected bool
	}{
		{rel: "a/b.ts", expected: true},
		{rel: "a/x/b.ts", expected: true},
		{rel: "a/x/y/b.ts", expected: true},
		{rel: "a/xb.ts", expected: false},
		{rel: "src/a.ts", expected: true},
		{rel: "src/x/a.ts", expected: false},
		{rel: "xsrc/a.ts", expected: false},
		{rel: "src/a.d.ts", expected: false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, f.Included(tc.rel), tc.rel)
	}
}

func TestFilterExcludedDir(t *testing.T) {
	t.Parallel()

	f, err := NewFilter(&Project{Exclude: []string{"tmp", "out/**/*"}}, Options{Exclude: []string{"vendor/**"}})
	require.NoError(t, err)

	assert.True(t, f.ExcludedDir("tmp"))
	assert.True(t, f.ExcludedDir("out"))
	assert.True(t, f.ExcludedDir("vendor"))
	assert.True(t, f.ExcludedDir("pkg/node_modules"))
	assert.False(t, f.ExcludedDir("src/tmp"))
	assert.False(t, f.ExcludedDir("src"))
}

func TestFilterIncludedRejectsPrunedAncestors(t *testing.T) {
	t.Parallel()

	f, err := NewFilter(&Project{Exclude: []string{"tmp", "out/**/*"}}, Options{Exclude: []string{"vendor/**"}})
	require.NoError(t, err)

	cases := []struct {
		rel      string
		expected bool
	}{
		{rel: "node_modules/x/i.ts", expected: false},
		{rel: "pkg/node_modules/lib/index.ts", expected: false},
		{rel: "tmp/a.ts", expected: false},
		{rel: "out/a/b.ts", expected: false},
		{rel: "vendor/lib/c.ts", expected: false},
		{rel: "src/tmp/a.ts", expected: true},
		{rel: "src/node_modules_like/a.ts", expected: true},
		{rel: "src/a.ts", expected: true},
		{rel: "a.ts", expected: true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, f.Included(tc.rel), tc.rel)
	}
}

func TestFilesSkipsUnreadableDirectory(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.json":   `{}`,
		"src/a.ts":        "",
		"src/locked/b.ts": "",
		"src/open/c.ts":   "",
		"src/zz/z.ts":     "",
	})
	locked := filepath.Join(root, "src", "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	files, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "src/open/c.ts", "src/zz/z.ts"}, relAll(t, root, files))
}

func TestFilterExtensions(t *testing.T) {
	t.Parallel()

	f, err := NewFilter(nil, Options{Extensions: []string{".ts", ".tsx"}})
	require.NoError(t, err)
	assert.True(t, f.Included("ui/button.tsx"))
	assert.True(t, f.Included("index.ts"))
	assert.False(t, f.Included("global.d.ts"))
	assert.False(t, f.Included("index.js"))
}

func TestWalkHonorsCancellation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.ts": ""})
	f, err := NewFilter(nil, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Walk(ctx, root, f, func(string) {})
	assert.ErrorIs(t, err, context.Canceled)
}
