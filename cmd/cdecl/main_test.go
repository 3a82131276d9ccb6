// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command tree with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(viper.New(), strings.NewReader(stdin), &out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "cdecl 0.1.0\n", out)
}

func TestCheck_CleanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int twice(int x) { return 2 * x; }\n")

	out, err := execute(t, "", "check", "--workdir", dir)
	require.NoError(t, err)
	assert.Equal(t, "1 file checked: 0 errors, 0 warnings\n", out)
}

func TestCheck_ErrorsFailTheRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int main(void) {\n    lenght = 1;\n}\n")

	out, err := execute(t, "", "check", "--workdir", dir, "--context-lines", "-1")
	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "a.c:2:5: error: 'lenght' undeclared [UnresolvedIdentifier]\n")
	assert.Contains(t, out, "1 file checked: 1 error, 0 warnings\n")
}

func TestCheck_WerrorFromEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int z[1] = {1, 2};\n")

	_, err := execute(t, "", "check", "--workdir", dir)
	require.NoError(t, err, "warnings alone pass")

	t.Setenv("CDECL_WERROR", "true")
	_, err = execute(t, "", "check", "--workdir", dir)
	assert.ErrorIs(t, err, errCheckFailed)
}

func TestCheck_Stdin(t *testing.T) {
	out, err := execute(t, "#include <stdio.h>\nint main(void) { printf(\"hi\\n\"); return 0; }\n",
		"check", "--workdir", t.TempDir(), "--format", "json", "-")
	require.NoError(t, err)

	var rep struct {
		Files []struct {
			Path string `json:"path"`
		} `json:"files"`
		Errors int `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Files, 1)
	assert.Equal(t, "<stdin>", rep.Files[0].Path)
	assert.Equal(t, 0, rep.Errors)
}

func TestCheck_InvalidConfig(t *testing.T) {
	_, err := execute(t, "", "check", "--workdir", t.TempDir(), "--format", "xml")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errCheckFailed)
}

func TestExplain(t *testing.T) {
	out, err := execute(t, "", "explain", "int", "(*fp)(int)")
	require.NoError(t, err)
	assert.Equal(t, "int (*fp)(int): pointer to function (int) returning int\n", out)
}

func TestExplain_Prelude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "types.h", "typedef int (*intFunc)(int);\n")

	out, err := execute(t, "", "explain", "--prelude", filepath.Join(dir, "types.h"), "intFunc handlers[4]")
	require.NoError(t, err)
	assert.Equal(t, "intFunc handlers[4]: array of 4 intFunc (pointer to function (int) returning int)\n", out)
}

func TestOutline(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "typedef int (*intFunc)(int);\nint main(void) { return 0; }\n")

	out, err := execute(t, "", "outline", "--workdir", dir, "a.c")
	require.NoError(t, err)
	assert.Contains(t, out, "a.c (2 names)\n")
	assert.Contains(t, out, "typedef  intFunc")
	assert.Contains(t, out, "function main")
}

func TestSymbols(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int x;\nint main(void) {\n    int x = 1;\n    return x;\n}\n")

	out, err := execute(t, "", "symbols", "--workdir", dir, "--name", "x")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a.c:1:5  variable  0  int x", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "a.c:3:9  variable "), lines[1])

	out, err = execute(t, "", "symbols", "--workdir", dir, "--kind", "function")
	require.NoError(t, err)
	assert.Equal(t, "a.c:2:5  function  0  int main(void)\n", out)

	_, err = execute(t, "", "symbols", "--workdir", dir, "--kind", "macro")
	assert.Error(t, err)
}
