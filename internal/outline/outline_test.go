// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package outline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cdecl/internal/analyzer"
	"github.com/petar-djukic/cdecl/pkg/types"
)

func TestOutline_DeclsFixture(t *testing.T) {
	src, err := os.ReadFile("testdata/decls.c")
	require.NoError(t, err)

	entries, err := Outline(context.Background(), src)
	require.NoError(t, err)

	funcs := entryNames(filterByKind(entries, KindFunction))
	assert.Contains(t, funcs, "myFunc")
	assert.Contains(t, funcs, "someFunc")
	assert.Contains(t, funcs, "main")

	typedefs := entryNames(filterByKind(entries, KindTypedef))
	assert.ElementsMatch(t, []string{"MyStruct_t", "intFunc"}, typedefs)
	assert.Equal(t, []string{"MyStruct"}, entryNames(filterByKind(entries, KindTag)))

	// Locals of main never reach the outline.
	all := entryNames(entries)
	assert.NotContains(t, all, "struct1")
	assert.NotContains(t, all, "func1")
	assert.NotContains(t, all, "n")
}

func TestOutline_DeclaratorForms(t *testing.T) {
	src := []byte(`int (*fp)(int);
int *f(void);
int a, *b, c[3];
typedef struct S { int x; } S_t;
enum Color { RED, GREEN };
`)
	entries, err := Outline(context.Background(), src)
	require.NoError(t, err)

	kinds := make(map[string]Kind)
	for _, e := range entries {
		kinds[e.Name] = e.Kind
	}
	want := map[string]Kind{
		"fp":    KindVariable,
		"f":     KindFunction,
		"a":     KindVariable,
		"b":     KindVariable,
		"c":     KindVariable,
		"S":     KindTag,
		"S_t":   KindTypedef,
		"Color": KindTag,
		"RED":   KindVariable,
		"GREEN": KindVariable,
	}
	assert.Equal(t, want, kinds)

	require.NotEmpty(t, entries)
	assert.Equal(t, "fp", entries[0].Name)
	assert.Equal(t, 1, entries[0].Line)
	assert.Equal(t, 7, entries[0].Column)
	assert.Equal(t, "int (*fp)(int);", entries[0].Signature)

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		assert.True(t, prev.Line < cur.Line || (prev.Line == cur.Line && prev.Column < cur.Column),
			"entries should be in source order: %v before %v", prev, cur)
	}
}

func TestOutline_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Outline(ctx, []byte("int x;\n"))
	assert.Error(t, err)
}

func TestCrossCheck_CleanForFixture(t *testing.T) {
	src, err := os.ReadFile("testdata/decls.c")
	require.NoError(t, err)

	entries, err := Outline(context.Background(), src)
	require.NoError(t, err)
	res, err := analyzer.AnalyzeSource(string(src), analyzer.Options{})
	require.NoError(t, err)

	assert.Empty(t, CrossCheck(entries, res))
}

func TestCrossCheck_ReportsMissingNames(t *testing.T) {
	entries := []Entry{
		{Name: "f", Kind: KindFunction, Line: 1, Column: 5},
		{Name: "g", Kind: KindVariable, Line: 2, Column: 5},
		{Name: "T", Kind: KindTypedef, Line: 3, Column: 13},
		{Name: "S", Kind: KindTag, Line: 4, Column: 8},
		{Name: "v", Kind: KindFunction, Line: 5, Column: 5},
	}
	res := &analyzer.Result{
		Globals: map[string]types.Symbol{
			"v": {Name: "v", Kind: types.Variable},
		},
	}

	diags := CrossCheck(entries, res)
	require.Len(t, diags, 5)
	for _, d := range diags {
		assert.Equal(t, types.Coverage, d.Kind)
		assert.Equal(t, types.SeverityWarning, d.Severity)
	}
	assert.Equal(t, "function 'f' is missing from the analyzed file scope", diags[0].Message)
	assert.Equal(t, types.Position{Line: 1, Column: 5}, diags[0].Pos)
	assert.Equal(t, "'v' outlines as a function but was analyzed as a variable", diags[4].Message)
}

func TestCrossCheck_SkipsErrorLinesAndPartialEntries(t *testing.T) {
	entries := []Entry{
		{Name: "broken", Kind: KindVariable, Line: 1, Column: 5},
		{Name: "partial", Kind: KindVariable, Line: 2, Column: 5, Partial: true},
	}
	res := &analyzer.Result{
		Diagnostics: []types.Diagnostic{
			{Severity: types.SeverityError, Kind: types.SyntaxError, Pos: types.Position{Line: 1, Column: 9}},
		},
	}
	assert.Empty(t, CrossCheck(entries, res))
}

func TestOutliner_CachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("int hello(void);\n"), 0o644))

	o := NewOutliner()
	first, err := o.File(context.Background(), path)
	require.NoError(t, err)
	second, err := o.File(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, Stats{ParseCount: 1, CacheHits: 1}, o.Stats())

	require.NoError(t, os.WriteFile(path, []byte("int goodbye(void);\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	third, err := o.File(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"goodbye"}, entryNames(third))
	assert.Equal(t, 2, o.Stats().ParseCount, "modified file should be re-parsed")
}

func TestOutliner_MissingFile(t *testing.T) {
	_, err := NewOutliner().File(context.Background(), filepath.Join(t.TempDir(), "nope.c"))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	entries := []Entry{
		{Name: "main", Kind: KindFunction, Line: 3, Signature: "int main(void) {"},
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "a.c", entries))
	assert.Equal(t, "a.c (1 names)\n  function main                    3  int main(void) {\n", buf.String())
}

// --- Test helpers ---

func filterByKind(entries []Entry, kind Kind) []Entry {
	var result []Entry
	for _, e := range entries {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

func entryNames(entries []Entry) []string {
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}
