// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cdecl

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cdecl/pkg/types"
)

func TestNew_ValidatesConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(file, []byte("int x;\n"), 0o644))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing workdir", Config{}},
		{"workdir does not exist", Config{WorkDir: filepath.Join(dir, "nope")}},
		{"workdir is a file", Config{WorkDir: file}},
		{"unknown format", Config{WorkDir: dir, Format: "xml"}},
		{"negative concurrency", Config{WorkDir: dir, Concurrency: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	c, err := New(Config{WorkDir: dir})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{WorkDir: "."}
	applyDefaults(&cfg)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, defaultContextLines, cfg.ContextLines)

	cfg = Config{Format: FormatJSON, ContextLines: -1}
	applyDefaults(&cfg)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, -1, cfg.ContextLines)
}

func TestCheck_RenderText(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.c"), []byte("int main(void) {\n    count = 1;\n}\n"), 0o644))

	c, err := New(Config{WorkDir: dir, ContextLines: -1})
	require.NoError(t, err)

	rep, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, c.Failed(rep))

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf, rep))
	assert.Equal(t,
		"main.c:2:5: error: 'count' undeclared [UnresolvedIdentifier]\n"+
			"1 file checked: 1 error, 0 warnings\n",
		buf.String())
}

func TestCheck_RenderJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), []byte("int *p;\n"), 0o644))

	c, err := New(Config{WorkDir: dir, Format: FormatJSON})
	require.NoError(t, err)

	rep, err := c.Check(context.Background(), "a.c")
	require.NoError(t, err)
	assert.False(t, c.Failed(rep))

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf, rep))

	var decoded struct {
		Files []struct {
			Path   string `json:"path"`
			Result struct {
				Globals map[string]struct {
					Kind string `json:"kind"`
					Type struct {
						Kind     string `json:"kind"`
						Spelling string `json:"spelling"`
					} `json:"type"`
				} `json:"globals"`
			} `json:"result"`
		} `json:"files"`
		Errors int `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, "a.c", decoded.Files[0].Path)
	p := decoded.Files[0].Result.Globals["p"]
	assert.Equal(t, "variable", p.Kind)
	assert.Equal(t, "pointer", p.Type.Kind)
	assert.Equal(t, "int *", p.Type.Spelling)
}

func TestCheckSource_Werror(t *testing.T) {
	c, err := New(Config{WorkDir: t.TempDir(), Werror: true})
	require.NoError(t, err)

	rep, err := c.CheckSource(context.Background(), "<stdin>", []byte("int z[1] = {1, 2};\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Errors)
	assert.Equal(t, 1, rep.Warnings)
	assert.True(t, c.Failed(rep))
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name       string
		prelude    []string
		decl       string
		wantName   string
		wantKind   types.SymbolKind
		declarator string
		english    string
	}{
		{
			name:       "function pointer",
			decl:       "int (*fp)(int)",
			wantName:   "fp",
			wantKind:   types.Variable,
			declarator: "int (*fp)(int)",
			english:    "pointer to function (int) returning int",
		},
		{
			name:       "const pointer to const",
			decl:       "const int * const r;",
			wantName:   "r",
			wantKind:   types.Variable,
			declarator: "const int *const r",
			english:    "const pointer to const int",
		},
		{
			name:       "prototype",
			decl:       "char *f(int, ...)",
			wantName:   "f",
			wantKind:   types.Function,
			declarator: "char *f(int, ...)",
			english:    "function (int, ...) returning pointer to char",
		},
		{
			name:       "typedef from prelude",
			prelude:    []string{"typedef int (*intFunc)(int);"},
			decl:       "intFunc g",
			wantName:   "g",
			wantKind:   types.Variable,
			declarator: "intFunc g",
			english:    "intFunc (pointer to function (int) returning int)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := Explain(tt.prelude, tt.decl)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, ex.Name)
			assert.Equal(t, tt.wantKind, ex.Kind)
			assert.Equal(t, tt.declarator, ex.Declarator)
			assert.Equal(t, tt.english, ex.English)
			assert.Empty(t, ex.Diagnostics)
		})
	}
}

func TestExplain_NoDeclaration(t *testing.T) {
	_, err := Explain(nil, "int;")
	assert.ErrorIs(t, err, ErrNoDeclaration)
}

func TestAnalyzeSource(t *testing.T) {
	res, err := AnalyzeSource("int x;\nint main(void) { return x; }\n")
	require.NoError(t, err)
	assert.False(t, res.HasErrors())
	assert.Contains(t, res.Globals, "x")
	assert.Contains(t, res.Globals, "main")
}
