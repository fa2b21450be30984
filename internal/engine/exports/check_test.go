package exports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "typelint/internal/core/errors"
	"typelint/internal/engine/finding"
	"typelint/internal/engine/source"
)

func runCheck(t *testing.T, opts Options, rel, content string) []finding.Violation {
	t.Helper()
	c, err := NewCheck(opts)
	require.NoError(t, err)
	f := source.FromBytes("/repo/"+rel, []byte(content))
	return c.Run(f, rel)
}

func TestCheckLiteralConstantOutsideTypeModule(t *testing.T) {
	t.Parallel()

	got := runCheck(t, Options{}, "src/values.ts", "export const Config = { apiKey: 'k', timeout: 5000 };\n")
	require.Len(t, got, 1)
	v := got[0]
	assert.Equal(t, finding.SeverityMedium, v.Severity)
	assert.Equal(t, finding.KindNonFunctionalConstant, v.Kind)
	assert.Equal(t, finding.CheckExports, v.Check)
	assert.Equal(t, 1, v.Line)
	assert.Equal(t, "/repo/src/values.ts", v.File)
	assert.Contains(t, v.Message, "non-functional constant export")
	assert.Contains(t, v.Message, "Config")
}

func TestCheckRuntimeConstructedIsNotReported(t *testing.T) {
	t.Parallel()

	got := runCheck(t, Options{}, "src/client.ts", "export const client = http.create({ baseURL: 'x' });\n")
	assert.Empty(t, got)
}

func TestCheckTypeLevelOutsideTypeModule(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"export interface User {",
		"  id: string;",
		"}",
		"export type Id = string;",
		"export const enum Mode { A, B }",
		"export function load() {}",
		"export class Service {}",
	}, "\n")

	got := runCheck(t, Options{}, "src/user.ts", content)
	require.Len(t, got, 3)
	lines := []int{got[0].Line, got[1].Line, got[2].Line}
	assert.Equal(t, []int{1, 4, 5}, lines)
	for _, v := range got {
		assert.Equal(t, finding.KindTypeOutsideTypeModule, v.Kind)
		assert.Equal(t, finding.SeverityHigh, v.Severity)
	}
	assert.Contains(t, got[2].Message, "enum Mode")
}

func TestCheckTypeModule(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"export interface User { id: string }",
		"export type Id = string;",
		"export const Roles = ['admin', 'user'];",
		"export const cache = new Map<string, User>();",
		"export const format = (u: User) => u.id;",
		"export function helper() {}",
		"export default class {}",
	}, "\n")

	for _, rel := range []string{"src/types.ts", "src/types/user.ts"} {
		got := runCheck(t, Options{}, rel, content)
		require.Len(t, got, 3, rel)
		assert.Equal(t, []int{5, 6, 7}, []int{got[0].Line, got[1].Line, got[2].Line})
		for _, v := range got {
			assert.Equal(t, finding.KindFunctionalInTypeModule, v.Kind)
			assert.Equal(t, finding.SeverityHigh, v.Severity)
		}
		assert.Contains(t, got[2].Message, "default")
	}
}

func TestCheckCustomTypeModules(t *testing.T) {
	t.Parallel()

	opts := Options{TypeModules: source.TypeModules{Filenames: []string{"models.ts"}}}
	assert.Empty(t, runCheck(t, opts, "src/models.ts", "export interface A { a: string }"))
	assert.Len(t, runCheck(t, opts, "src/types.ts", "export interface A { a: string }"), 1)
}

func TestCheckIgnoreMarker(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"// typelint-ignore-export",
		"export const A = { a: 1 };",
		"export const C = { c: 3 };",
		"export const B = { b: 2 }; // typelint-ignore-export",
	}, "\n")

	got := runCheck(t, Options{}, "src/values.ts", content)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Line)
}

func TestCheckSkipsCommentedDeclarations(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"/*",
		"export const A = { a: 1 };",
		"*/",
		"// export const B = { b: 2 };",
	}, "\n")
	assert.Empty(t, runCheck(t, Options{}, "src/values.ts", content))
}

func TestCheckSuppressList(t *testing.T) {
	t.Parallel()

	opts := Options{Suppress: []string{"**/*.config.ts", "legacy.ts"}}
	content := "export const Config = { a: 1 };"

	assert.Empty(t, runCheck(t, opts, "src/app.config.ts", content))
	assert.Empty(t, runCheck(t, opts, "src/deep/legacy.ts", content))
	assert.Len(t, runCheck(t, opts, "src/values.ts", content), 1)
}

func TestNewCheckRejectsBadPatterns(t *testing.T) {
	t.Parallel()

	_, err := NewCheck(Options{Suppress: []string{"src/[abc"}})
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError))

	_, err = NewCheck(Options{ValidatorPatterns: []string{"("}})
	require.Error(t, err)
}

func TestScan(t *testing.T) {
	t.Parallel()

	f := source.FromBytes("x.ts", []byte(strings.Join([]string{
		"import { a } from './a';",
		"export type A = { a: string };",
		"export declare interface B {}",
		"export const enum C { X }",
		"export enum D { Y }",
		"export async function e() {}",
		"export default function () {}",
		"export abstract class F {}",
		"export let g = 1;",
		"export { a };",
		"  export const h = 2;",
	}, "\n")))

	got := Scan(f)
	type row struct {
		Line int
		Name string
		Kind Kind
	}
	rows := make([]row, 0, len(got))
	for _, c := range got {
		rows = append(rows, row{c.Line, c.Name, c.Kind})
	}
	assert.Equal(t, []row{
		{2, "A", KindTypeAlias},
		{3, "B", KindInterface},
		{4, "C", KindEnum},
		{5, "D", KindEnum},
		{6, "e", KindFunction},
		{7, "default", KindFunction},
		{8, "F", KindClass},
		{9, "g", KindConst},
		{11, "h", KindConst},
	}, rows)
	assert.True(t, KindEnum.TypeLevel())
	assert.False(t, KindConst.TypeLevel())
}
