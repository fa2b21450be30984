package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

var cleanProject = map[string]string{
	"tsconfig.json": `{ "include": ["src"] }`,
	"src/client.ts": "export function connect() {}\n",
	"src/types.ts":  "export interface Options {\n  url: string;\n}\n",
}

var dirtyProject = map[string]string{
	"tsconfig.json": `{ "include": ["src"] }`,
	"src/config.ts": "export const Config = { apiKey: 'k', timeout: 5000 };\n",
}

func TestVersion(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	assert.Equal(t, ExitPass, code)
	assert.Equal(t, "typelint dev\n", stdout)
}

func TestCheckPasses(t *testing.T) {
	root := writeProject(t, cleanProject)
	code, stdout, _ := execute(t, "check", root)
	assert.Equal(t, ExitPass, code)
	assert.Contains(t, stdout, "PASS 2 file(s) scanned")
}

func TestCheckFailsAsJSON(t *testing.T) {
	root := writeProject(t, dirtyProject)
	code, stdout, _ := execute(t, "check", root, "--format", "json")
	assert.Equal(t, ExitFail, code)

	var doc struct {
		Passed     bool `json:"passed"`
		Violations []struct {
			Severity string `json:"severity"`
			Line     int    `json:"line"`
		} `json:"violations"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.False(t, doc.Passed)
	require.Len(t, doc.Violations, 1)
	assert.Equal(t, "MEDIUM", doc.Violations[0].Severity)
	assert.Equal(t, 1, doc.Violations[0].Line)
}

func TestCheckFailOnThreshold(t *testing.T) {
	root := writeProject(t, dirtyProject)

	code, _, _ := execute(t, "check", root, "--fail-on", "high")
	assert.Equal(t, ExitPass, code)

	code, _, _ = execute(t, "check", root, "--fail-on", "never")
	assert.Equal(t, ExitPass, code)

	code, _, _ = execute(t, "check", root, "--fail-on", "LOW")
	assert.Equal(t, ExitFail, code)
}

func TestCheckReadsToolConfig(t *testing.T) {
	files := map[string]string{"typelint.toml": "[exports]\nenabled = false\n"}
	for k, v := range dirtyProject {
		files[k] = v
	}
	root := writeProject(t, files)

	code, stdout, _ := execute(t, "check", root)
	assert.Equal(t, ExitPass, code)
	assert.Contains(t, stdout, "0 violation(s)")
}

func TestCheckMissingProjectConfig(t *testing.T) {
	root := writeProject(t, map[string]string{"src/a.ts": "export const A = { a: 1 };\n"})

	code, stdout, _ := execute(t, "check", root)
	assert.Equal(t, ExitFail, code)
	assert.Contains(t, stdout, "CRITICAL")
	assert.Contains(t, stdout, "no tsconfig.json found in "+root)
	assert.Contains(t, stdout, "0 file(s) scanned")
	assert.Contains(t, stdout, "FAIL")
}

func TestCheckUsageErrors(t *testing.T) {
	root := writeProject(t, cleanProject)
	badConfig := writeProject(t, map[string]string{
		"tsconfig.json": `{}`,
		"typelint.toml": "[exports]\nvalidator_patterns = [\"(\"]\n",
	})
	badGlob := writeProject(t, map[string]string{
		"tsconfig.json": `{ "exclude": ["src/[abc"] }`,
		"src/a.ts":      "export function a() {}\n",
	})

	cases := map[string][]string{
		"UnknownFormat":     {"check", root, "--format", "xml"},
		"UnknownSeverity":   {"check", root, "--fail-on", "urgent"},
		"UnknownFlag":       {"check", root, "--nope"},
		"TooManyArgs":       {"check", root, root},
		"BadToolConfig":     {"check", badConfig},
		"BadProjectPattern": {"check", badGlob},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, _, stderr := execute(t, args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, "error:")
		})
	}
}

func TestCheckReportsErrorContext(t *testing.T) {
	root := writeProject(t, map[string]string{
		"tsconfig.json": `{ "exclude": ["src/[abc"] }`,
		"src/a.ts":      "export function a() {}\n",
	})

	code, _, stderr := execute(t, "check", root)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "[VALIDATION_ERROR] invalid glob pattern")
	assert.Contains(t, stderr, "pattern=src/[abc")
	assert.NotContains(t, stderr, "map[")
}

func TestCheckWritesReportAndMetrics(t *testing.T) {
	root := writeProject(t, dirtyProject)
	out := filepath.Join(t.TempDir(), "reports", "typelint.sarif")
	metrics := filepath.Join(t.TempDir(), "typelint.prom")

	code, stdout, _ := execute(t, "check", root, "--format", "sarif", "--output", out, "--metrics-out", metrics)
	assert.Equal(t, ExitFail, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ruleId": "non-functional-constant-export"`)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "typelint_files_scanned_total")
}

func TestCheckLogFile(t *testing.T) {
	root := writeProject(t, cleanProject)
	logPath := filepath.Join(t.TempDir(), "typelint.log")

	code, _, stderr := execute(t, "check", root, "--verbose", "--log-file", logPath)
	assert.Equal(t, ExitPass, code)
	assert.NotContains(t, stderr, "level=DEBUG")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=DEBUG")
}

func TestEnvironmentSelectsFormat(t *testing.T) {
	t.Setenv("TYPELINT_FORMAT", "json")
	root := writeProject(t, cleanProject)

	code, stdout, _ := execute(t, "check", root)
	assert.Equal(t, ExitPass, code)
	assert.True(t, json.Valid([]byte(stdout)), stdout)
}

func TestWatchStopsOnCancel(t *testing.T) {
	root := writeProject(t, cleanProject)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	code := Execute(ctx, []string{"watch", root}, &stdout, &stderr)
	assert.Equal(t, ExitPass, code)
	assert.Contains(t, stdout.String(), "PASS 2 file(s) scanned")
}

func TestWatchMissingProjectConfig(t *testing.T) {
	root := writeProject(t, map[string]string{"src/a.ts": "export function a() {}\n"})

	code, stdout, _ := execute(t, "watch", root)
	assert.Equal(t, ExitFail, code)
	assert.Contains(t, stdout, "no tsconfig.json found in")
}
