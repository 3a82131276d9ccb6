// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petar-djukic/cdecl/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analyze runs the analyzer over src and fails the test on an internal
// error.
func analyze(t *testing.T, src string) *Result {
	t.Helper()
	res, err := AnalyzeSource(src, Options{})
	require.NoError(t, err)
	return res
}

func analyzeFile(t *testing.T, name string) *Result {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return analyze(t, string(data))
}

// errorsOf returns the error-severity diagnostics of kind.
func errorsOf(res *Result, kind types.DiagKind) []types.Diagnostic {
	var out []types.Diagnostic
	for _, d := range res.Diagnostics {
		if d.IsError() && d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func warningsOf(res *Result, kind types.DiagKind) []types.Diagnostic {
	var out []types.Diagnostic
	for _, d := range res.Diagnostics {
		if !d.IsError() && d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// declNamed returns the last declaration of name.
func declNamed(t *testing.T, res *Result, name string) types.Declaration {
	t.Helper()
	for i := len(res.Declarations) - 1; i >= 0; i-- {
		if res.Declarations[i].Name == name {
			return res.Declarations[i]
		}
	}
	require.Failf(t, "declaration not found", "no declaration of %q", name)
	return types.Declaration{}
}

func requireClean(t *testing.T, res *Result) {
	t.Helper()
	var msgs []string
	for _, d := range res.Diagnostics {
		msgs = append(msgs, d.Error())
	}
	require.Empty(t, msgs)
}

func TestAnalyze_DeclsFixture(t *testing.T) {
	res := analyzeFile(t, "decls.c")
	requireClean(t, res)

	for _, name := range []string{"myFunc", "someFunc", "main"} {
		sym, ok := res.Globals[name]
		require.True(t, ok, "global %s", name)
		assert.Equal(t, types.Function, sym.Kind)
		assert.True(t, sym.Defined)
		assert.Equal(t, 0, sym.Depth)
	}
	assert.Len(t, res.Globals, 3)
	assert.Contains(t, res.Typedefs, "MyStruct_t")
	assert.Contains(t, res.Typedefs, "intFunc")
	assert.Contains(t, res.Tags, "MyStruct")
	assert.Equal(t, []string{"stdio.h"}, res.Includes)

	someFunc := res.Globals["someFunc"]
	assert.Equal(t, "int (int, int)", someFunc.Type.String())

	z := declNamed(t, res, "z")
	assert.Equal(t, "int z[4]", types.Declarator(z.Type, "z"))
	require.NotNil(t, z.Initializer)
	assert.Len(t, z.Initializer.Elems, 4)

	w := declNamed(t, res, "w")
	require.Equal(t, types.KindArray, w.Type.Kind)
	assert.Equal(t, "n", w.Type.LengthExpr)
	assert.Equal(t, int64(-1), w.Type.Length)
	require.Equal(t, types.KindArray, w.Type.Elem.Kind)
	assert.Equal(t, "n", w.Type.Elem.LengthExpr)
	assert.Equal(t, "int w[n][n]", types.Declarator(w.Type, "w"))

	s1 := declNamed(t, res, "struct1")
	assert.True(t, s1.Type.Anonymous)
	require.Len(t, s1.Type.Fields, 2)
	assert.Equal(t, "a", s1.Type.Fields[0].Name)
	assert.Equal(t, "b", s1.Type.Fields[1].Name)

	s2 := declNamed(t, res, "struct2")
	s3 := declNamed(t, res, "struct3")
	assert.True(t, types.Equivalent(s2.Type, s3.Type))
	assert.False(t, types.Equal(s2.Type, s3.Type))

	str := declNamed(t, res, "str")
	assert.Equal(t, "char *str", types.Declarator(str.Type, "str"))
}

func TestAnalyze_FunctionPointerTypedefEquivalence(t *testing.T) {
	res := analyzeFile(t, "decls.c")

	func1 := declNamed(t, res, "func1")
	func2 := declNamed(t, res, "func2")
	assert.Equal(t, types.KindPointer, func1.Type.Kind)
	assert.Equal(t, types.KindTypedef, func2.Type.Kind)
	assert.True(t, types.Equivalent(func1.Type, func2.Type))
	assert.Equal(t, "pointer to function (int) returning int", types.Describe(func1.Type))
}

func TestAnalyze_ConstPointerFlags(t *testing.T) {
	res := analyzeFile(t, "decls.c")

	tests := []struct {
		name         string
		constPointer bool
		constPointee bool
		rendered     string
	}{
		{name: "p", constPointer: true, constPointee: false, rendered: "int *const p"},
		{name: "q", constPointer: false, constPointee: true, rendered: "const int *q"},
		{name: "r", constPointer: true, constPointee: true, rendered: "const int *const r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := declNamed(t, res, tt.name)
			require.Equal(t, types.KindPointer, d.Type.Kind)
			assert.Equal(t, tt.constPointer, d.Type.ConstPointer)
			assert.Equal(t, tt.constPointee, d.Type.ConstPointee)
			assert.Equal(t, tt.rendered, types.Declarator(d.Type, tt.name))
		})
	}
}

func TestAnalyze_MoapFixture(t *testing.T) {
	res := analyzeFile(t, "moap.c")
	requireClean(t, res)

	assert.Equal(t, []string{"stdio.h", "string.h"}, res.Includes)
	assert.Contains(t, res.Globals, "factRec")

	ms := declNamed(t, res, "ms")
	require.NotNil(t, ms.Initializer)
	require.Len(t, ms.Initializer.Elems, 2)
	assert.Equal(t, "x", ms.Initializer.Elems[0].Field)
	assert.Equal(t, "y", ms.Initializer.Elems[1].Field)

	another := declNamed(t, res, "anotherStruct")
	require.Len(t, another.Initializer.Elems, 2)
	assert.Equal(t, "x", another.Initializer.Elems[0].Field)
	assert.Equal(t, "9", another.Initializer.Elems[0].Value.Expr)

	charArr := declNamed(t, res, "charArr")
	assert.Equal(t, int64(20), charArr.Type.Length)
}

func TestAnalyze_VLADimension(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantDim   int
		wantOther int
	}{
		{
			name:    "initialized dimension is accepted",
			src:     "int main(void) {\n  int n = 2;\n  int w[n][n];\n  return 0;\n}",
			wantDim: 0,
		},
		{
			name:    "dimension assigned before use is accepted",
			src:     "int main(void) {\n  int n;\n  n = 4;\n  int w[n];\n  return 0;\n}",
			wantDim: 0,
		},
		{
			name:    "parameter dimension is accepted",
			src:     "void f(int n) {\n  int w[n][n];\n}",
			wantDim: 0,
		},
		{
			name:    "undeclared dimension",
			src:     "int main(void) {\n  int w[n][n];\n  return 0;\n}",
			wantDim: 2,
		},
		{
			name:    "uninitialized dimension",
			src:     "int main(void) {\n  int n;\n  int w[n][n];\n  return 0;\n}",
			wantDim: 2,
		},
		{
			name:    "variable dimension at file scope",
			src:     "int n = 3;\nint w[n];",
			wantDim: 1,
		},
		{
			name:    "negative dimension",
			src:     "int a[-1];",
			wantDim: 1,
		},
		{
			name:    "floating dimension",
			src:     "int main(void) {\n  double d = 2.0;\n  int a[d];\n  return 0;\n}",
			wantDim: 1,
		},
		{
			name:    "missing size in block",
			src:     "int main(void) {\n  int a[];\n  return 0;\n}",
			wantDim: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analyze(t, tt.src)
			assert.Len(t, errorsOf(res, types.InvalidArrayDimension), tt.wantDim)
			assert.Equal(t, tt.wantDim, types.CountErrors(res.Diagnostics))
		})
	}
}

func TestAnalyze_VLAUndeclaredHint(t *testing.T) {
	res := analyze(t, "int main(void) {\n  int count = 3;\n  int w[coutn];\n  return 0;\n}")
	dims := errorsOf(res, types.InvalidArrayDimension)
	require.Len(t, dims, 1)
	assert.Equal(t, types.Position{Line: 3, Column: 9}, dims[0].Pos)
	assert.Contains(t, dims[0].Message, "'coutn'")
}

func TestAnalyze_Shadowing(t *testing.T) {
	src := `int x = 1;
int main(void) {
    x = 2;
    {
        int x = 3;
        x = 4;
    }
    x = 5;
    return 0;
}`
	res := analyze(t, src)
	requireClean(t, res)

	depthByLine := make(map[int]int)
	for _, b := range res.Bindings {
		if b.Name == "x" {
			depthByLine[b.Pos.Line] = b.Depth
		}
	}
	assert.Equal(t, map[int]int{3: 0, 6: 2, 8: 0}, depthByLine)

	var depths []int
	for _, d := range res.Declarations {
		if d.Name == "x" {
			depths = append(depths, d.Depth)
		}
	}
	assert.Equal(t, []int{0, 2}, depths)
	assert.Equal(t, 0, res.Globals["x"].Depth)
}

func TestAnalyze_DuplicateCaseValue(t *testing.T) {
	src := `int main(void) {
    int x = 10;
    switch (x) {
        case 10:
            x = 1;
            break;
        case 10:
            y = 2;
            break;
    }
    return 0;
}`
	res := analyze(t, src)

	dups := errorsOf(res, types.DuplicateCaseValue)
	require.Len(t, dups, 1)
	assert.Equal(t, 7, dups[0].Pos.Line)
	assert.Equal(t, "previously used at 4:9", dups[0].Hint)

	unresolved := errorsOf(res, types.UnresolvedIdentifier)
	require.Len(t, unresolved, 1)
	assert.Equal(t, 8, unresolved[0].Pos.Line)
	assert.Equal(t, 2, types.CountErrors(res.Diagnostics))
}

func TestAnalyze_SwitchLabels(t *testing.T) {
	src := `enum Color { RED, GREEN, BLUE = 5 };
int main(void) {
    int c = 1;
    switch (c) {
    case RED: break;
    case GREEN: break;
    case 1: break;
    case BLUE: break;
    case 2 + 4: break;
    default: break;
    default: break;
    }
    return 0;
}`
	res := analyze(t, src)

	dups := errorsOf(res, types.DuplicateCaseValue)
	require.Len(t, dups, 2)
	assert.Equal(t, 7, dups[0].Pos.Line)
	assert.Equal(t, 11, dups[1].Pos.Line)
	assert.Equal(t, 2, types.CountErrors(res.Diagnostics))

	green := declNamed(t, res, "GREEN")
	assert.Equal(t, "1", green.Initializer.Expr)
	assert.True(t, green.Type.IsConst())
}

func TestAnalyze_CaseLabelErrors(t *testing.T) {
	src := `int main(void) {
    int x = 1;
    case 3: x = 2;
    switch (x) {
    case x: break;
    case 1.5: break;
    }
    return 0;
}`
	res := analyze(t, src)
	assert.Len(t, errorsOf(res, types.SyntaxError), 1)
	assert.Len(t, errorsOf(res, types.TypeMismatch), 2)
}

func TestAnalyze_StatementRecovery(t *testing.T) {
	src := `int main(void) {
    int a = 1;
    {
        int b = ;
        int c = 2;
        a = b + c;
    }
    a = c;
    return a;
}`
	res := analyze(t, src)

	syntax := errorsOf(res, types.SyntaxError)
	require.Len(t, syntax, 1)
	assert.Equal(t, 4, syntax[0].Pos.Line)

	unresolved := errorsOf(res, types.UnresolvedIdentifier)
	require.Len(t, unresolved, 1)
	assert.Equal(t, 8, unresolved[0].Pos.Line)
	assert.Equal(t, 2, types.CountErrors(res.Diagnostics))

	assert.Equal(t, 2, declNamed(t, res, "c").Depth)
}

func TestAnalyze_RecoveryAtFileScope(t *testing.T) {
	src := `int a = 1
int b = 2;
float c = ;
int d = a;`
	res := analyze(t, src)
	assert.Len(t, errorsOf(res, types.SyntaxError), 2)
	assert.Contains(t, res.Globals, "d")
}

func TestAnalyze_UnterminatedInputReportedOnce(t *testing.T) {
	res := analyze(t, "int main(void) {\n  int x = 1;\n  if (x) {\n    x = 2;")
	syntax := errorsOf(res, types.SyntaxError)
	require.Len(t, syntax, 1)
	assert.Contains(t, syntax[0].Message, "end of input")
}

func TestAnalyze_ConstViolations(t *testing.T) {
	src := `int main(void) {
    int x = 1, y = 2;
    int * const p = &x;
    const int * q = &x;
    const int * const r = &x;
    *p = 3;
    p = &y;
    *q = 4;
    q = &y;
    *r = 5;
    r = &y;
    const int c = 5;
    c += 1;
    return 0;
}`
	res := analyze(t, src)

	var lines []int
	for _, d := range errorsOf(res, types.TypeMismatch) {
		lines = append(lines, d.Pos.Line)
	}
	assert.Equal(t, []int{7, 8, 10, 11, 13}, lines)
	assert.Equal(t, 5, types.CountErrors(res.Diagnostics))
}

func TestAnalyze_ConstStructMember(t *testing.T) {
	src := `struct Pt { int x; int y; };
typedef struct Pt Pt_t;
int main(void) {
    const Pt_t a = {1, 2};
    a.x = 3;
    Pt_t b = a;
    b.y = 4;
    return 0;
}`
	res := analyze(t, src)
	mismatch := errorsOf(res, types.TypeMismatch)
	require.Len(t, mismatch, 1)
	assert.Equal(t, 5, mismatch[0].Pos.Line)
	assert.Contains(t, mismatch[0].Message, "const-qualified")
}

func TestAnalyze_LibraryHeaders(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantHint string
	}{
		{
			name:     "function without include",
			src:      "int main(void) {\n  printf(\"hi\\n\");\n  return 0;\n}",
			wantHint: "include <stdio.h> to declare 'printf'",
		},
		{
			name:     "object without include",
			src:      "int main(void) {\n  int *p = NULL;\n  return 0;\n}",
			wantHint: "'NULL' is defined in <stdio.h>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analyze(t, tt.src)
			unresolved := errorsOf(res, types.UnresolvedIdentifier)
			require.Len(t, unresolved, 1)
			assert.Equal(t, tt.wantHint, unresolved[0].Hint)
		})
	}

	res := analyze(t, "#include <stdlib.h>\nint main(void) {\n  int *p = malloc(sizeof(int) * 4);\n  free(p);\n  return 0;\n}")
	requireClean(t, res)
}

func TestAnalyze_CallArity(t *testing.T) {
	src := `#include <stdio.h>
int add(int a, int b);
int main(void) {
    int r = add(1);
    r = add(1, 2, 3);
    r = add(1, 2);
    printf();
    printf("%d %d\n", r, r);
    r();
    return r;
}`
	res := analyze(t, src)

	var msgs []string
	for _, d := range errorsOf(res, types.TypeMismatch) {
		msgs = append(msgs, d.Message)
	}
	assert.Equal(t, []string{
		"too few arguments to function 'add' (expected 2, have 1)",
		"too many arguments to function 'add' (expected 2, have 3)",
		"too few arguments to function 'printf' (expected at least 1, have 0)",
		"called object 'r' is not a function or function pointer",
	}, msgs)
}

func TestAnalyze_MemberAndIndexErrors(t *testing.T) {
	src := `struct Box { int width; int height; };
int main(void) {
    struct Box b;
    struct Box *bp = &b;
    int n = 0;
    b.widt = 1;
    n.width = 2;
    n[0] = 3;
    bp->height = 4;
    b->height = 5;
    return 0;
}`
	res := analyze(t, src)

	unresolved := errorsOf(res, types.UnresolvedIdentifier)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "did you mean 'width'?", unresolved[0].Hint)

	var lines []int
	for _, d := range errorsOf(res, types.TypeMismatch) {
		lines = append(lines, d.Pos.Line)
	}
	assert.Equal(t, []int{7, 8, 10}, lines)
}

func TestAnalyze_NoSuggestOption(t *testing.T) {
	src := "int main(void) {\n  int count = 1;\n  cout = 2;\n  return 0;\n}"

	res := analyze(t, src)
	unresolved := errorsOf(res, types.UnresolvedIdentifier)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "did you mean 'count'?", unresolved[0].Hint)

	res, err := AnalyzeSource(src, Options{NoSuggest: true})
	require.NoError(t, err)
	unresolved = errorsOf(res, types.UnresolvedIdentifier)
	require.Len(t, unresolved, 1)
	assert.Empty(t, unresolved[0].Hint)
}

func TestAnalyze_DuplicateDeclarations(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantDup int
	}{
		{name: "same block", src: "int main(void) {\n  int a = 1;\n  float a = 2;\n  return 0;\n}", wantDup: 1},
		{name: "tentative file scope", src: "int g;\nint g;\nint g = 1;", wantDup: 0},
		{name: "file scope redefinition", src: "int g = 1;\nint g = 2;", wantDup: 1},
		{name: "inner block shadows", src: "int main(void) {\n  int a = 1;\n  { int a = 2; }\n  return a;\n}", wantDup: 0},
		{name: "function redefinition", src: "int f(void) { return 1; }\nint f(void) { return 2; }", wantDup: 1},
		{name: "conflicting prototype", src: "int f(int);\ndouble f(int);", wantDup: 1},
		{name: "duplicate member", src: "struct S { int a; int a; };", wantDup: 1},
		{name: "struct redefinition", src: "struct S { int a; };\nstruct S { int b; };", wantDup: 1},
		{name: "duplicate parameter", src: "int f(int a, int a);", wantDup: 1},
		{name: "typedef and variable", src: "typedef int T;\nint T;", wantDup: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analyze(t, tt.src)
			assert.Len(t, errorsOf(res, types.DuplicateDeclaration), tt.wantDup)
			assert.Equal(t, tt.wantDup, types.CountErrors(res.Diagnostics))
		})
	}
}

func TestAnalyze_Initializers(t *testing.T) {
	src := `struct MyStruct { int x; float y; };
typedef struct MyStruct MyStruct_t;
int main(void) {
    MyStruct_t m = { .y = 1.5, .x = 3 };
    int a[] = {1, 2, 3};
    char s[] = "abc";
    int b[4] = {[2] = 5, 1};
    int grid[2][2] = {1, 2, 3, 4};
    return 0;
}`
	res := analyze(t, src)
	requireClean(t, res)

	m := declNamed(t, res, "m")
	require.Len(t, m.Initializer.Elems, 2)
	assert.Equal(t, "x", m.Initializer.Elems[0].Field)
	assert.Equal(t, "3", m.Initializer.Elems[0].Value.Expr)
	assert.Equal(t, "y", m.Initializer.Elems[1].Field)

	assert.Equal(t, int64(3), declNamed(t, res, "a").Type.Length)
	assert.Equal(t, int64(4), declNamed(t, res, "s").Type.Length)

	b := declNamed(t, res, "b")
	require.Len(t, b.Initializer.Elems, 2)
	assert.Equal(t, 2, b.Initializer.Elems[0].Index)
	assert.Equal(t, 3, b.Initializer.Elems[1].Index)

	grid := declNamed(t, res, "grid")
	require.Len(t, grid.Initializer.Elems, 2)
	assert.Len(t, grid.Initializer.Elems[1].Value.Elems, 2)
}

func TestAnalyze_InitializerShape(t *testing.T) {
	src := `struct P { int x; int y; };
int main(void) {
    struct P a = { .y = 1, 2 };
    int b[2] = {1, 2, 3, 4};
    struct P c = { .z = 1 };
    int d = {1, 2};
    return 0;
}`
	res := analyze(t, src)

	shape := warningsOf(res, types.InitializerShape)
	var lines []int
	for _, d := range shape {
		lines = append(lines, d.Pos.Line)
	}
	assert.Equal(t, []int{3, 3, 4, 6}, lines)

	unresolved := errorsOf(res, types.UnresolvedIdentifier)
	require.Len(t, unresolved, 1)
	assert.Contains(t, unresolved[0].Message, "no member named 'z'")
}

func TestAnalyze_UnknownTypeName(t *testing.T) {
	res := analyze(t, "int main(void) {\n  Foo x;\n  x = 1;\n  return 0;\n}")
	unresolved := errorsOf(res, types.UnresolvedIdentifier)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "unknown type name 'Foo'", unresolved[0].Message)
	assert.Equal(t, 1, types.CountErrors(res.Diagnostics))
	assert.True(t, declNamed(t, res, "x").Type.IsUnknown())
}

func TestAnalyze_Loops(t *testing.T) {
	src := `int main(void) {
    int i = 0;
    while (i < 3) { i++; if (i == 2) continue; }
    do { i--; } while (i > 0);
    for (int j = 0; j < 3; j++) { i += j; }
    break;
    return i;
}`
	res := analyze(t, src)
	syntax := errorsOf(res, types.SyntaxError)
	require.Len(t, syntax, 1)
	assert.Equal(t, 6, syntax[0].Pos.Line)

	assert.Equal(t, 2, declNamed(t, res, "j").Depth)
}

func TestAnalyze_ReturnChecks(t *testing.T) {
	src := `void g(void) { return 1; }
int h(void) { return; }
struct S { int a; };
int k(void) { struct S s = {1}; return s; }`
	res := analyze(t, src)
	assert.Len(t, warningsOf(res, types.TypeMismatch), 2)
	assert.Len(t, errorsOf(res, types.TypeMismatch), 1)
}

func TestAnalyze_KAndRDefinition(t *testing.T) {
	src := `int someFunc(int, int);
int someFunc(x, y) {
    return x + y;
}
int other(a, b)
    int a;
    char *b;
{
    return a;
}`
	res := analyze(t, src)
	requireClean(t, res)

	params := make(map[string]string)
	for _, d := range res.Declarations {
		if d.Kind == types.Parameter {
			params[d.Name] = d.Type.String()
		}
	}
	assert.Equal(t, map[string]string{"x": "int", "y": "int", "a": "int", "b": "char *"}, params)
}

func TestAnalyze_SizeofFolding(t *testing.T) {
	src := `struct S { char c; int i; double d; };
int main(void) {
    int a[sizeof(struct S)];
    int b[sizeof(int) * 2];
    return 0;
}`
	res := analyze(t, src)
	requireClean(t, res)
	assert.Equal(t, int64(16), declNamed(t, res, "a").Type.Length)
	assert.Equal(t, int64(8), declNamed(t, res, "b").Type.Length)
}

func TestAnalyze_UnsupportedStatements(t *testing.T) {
	res := analyze(t, "int main(void) {\n  goto end;\n  end: return 0;\n}")
	syntax := errorsOf(res, types.SyntaxError)
	require.Len(t, syntax, 2)
	assert.True(t, strings.Contains(syntax[0].Message, "goto"))
}

func TestParseDeclaration_RoundTrip(t *testing.T) {
	tests := []struct {
		prelude []string
		decl    string
	}{
		{decl: "int x"},
		{decl: "unsigned long counter"},
		{decl: "char **argv"},
		{decl: "int *a[4]"},
		{decl: "int (*p)[4]"},
		{decl: "int m[2][3]"},
		{decl: "int (*func1)(int)"},
		{decl: "int (*table[3])(int, char *)"},
		{decl: "double (*(*fp)(int))[3]"},
		{decl: "int *const p"},
		{decl: "const char *q"},
		{decl: "const int *const r"},
		{decl: "int printf_like(const char *, ...)"},
		{decl: "int f(void)"},
		{decl: "struct { int a; int b; } pair"},
		{prelude: []string{"struct MyStruct { int x; float y; };"}, decl: "struct MyStruct s"},
		{prelude: []string{"typedef int (*intFunc)(int);"}, decl: "intFunc func2"},
		{prelude: []string{"typedef int (*intFunc)(int);"}, decl: "intFunc handlers[2]"},
	}
	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			d, res, err := ParseDeclaration(tt.prelude, tt.decl)
			require.NoError(t, err)
			requireClean(t, res)

			rendered := types.Declarator(d.Type, d.Name)
			assert.Equal(t, tt.decl, rendered)

			again, res, err := ParseDeclaration(tt.prelude, rendered)
			require.NoError(t, err)
			requireClean(t, res)
			assert.True(t, types.Equal(d.Type, again.Type), "%s re-parsed as %s", rendered, again.Type)
		})
	}
}

func TestParseDeclaration_NoDeclaration(t *testing.T) {
	_, _, err := ParseDeclaration(nil, "int;")
	assert.ErrorIs(t, err, ErrNoDeclaration)
}

func TestParseDeclaration_SkipsStructMembers(t *testing.T) {
	d, res, err := ParseDeclaration(nil, "struct point { int x; int y; } origin")
	require.NoError(t, err)
	requireClean(t, res)
	assert.Equal(t, "origin", d.Name)
	assert.Equal(t, types.Variable, d.Kind)

	x := declNamed(t, res, "x")
	assert.Equal(t, types.Member, x.Kind)
}
