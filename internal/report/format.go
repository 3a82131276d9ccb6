// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report renders analyzer diagnostics for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/petar-djukic/cdecl/pkg/types"
)

const defaultContextLines = 2

// Config configures text rendering.
type Config struct {
	ContextLines int  // Lines of context above/below each diagnostic (default 2, negative for none)
	NoHints      bool // Omit hint lines
}

// Source is one analyzed file as the renderer sees it.
type Source struct {
	Path        string
	Lines       []string
	Diagnostics []types.Diagnostic
}

// WriteText writes every diagnostic of src in the form
// "path:line:col: severity: message [Kind]", each followed by numbered
// source context, a caret under the column and an optional hint.
func WriteText(w io.Writer, src Source, cfg Config) error {
	for _, d := range src.Diagnostics {
		if _, err := io.WriteString(w, FormatDiagnostic(src.Path, src.Lines, d, cfg)); err != nil {
			return fmt.Errorf("writing diagnostics for %s: %w", src.Path, err)
		}
	}
	return nil
}

// FormatDiagnostic renders a single diagnostic with its context.
func FormatDiagnostic(path string, lines []string, d types.Diagnostic, cfg Config) string {
	contextLines := cfg.ContextLines
	if contextLines == 0 {
		contextLines = defaultContextLines
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("%s:%d:%d: %s: %s [%s]\n", path, d.Pos.Line, d.Pos.Column, d.Severity, d.Message, d.Kind))
	if contextLines > 0 {
		buf.WriteString(codeContext(lines, d.Pos, contextLines))
	}
	if d.Hint != "" && !cfg.NoHints {
		buf.WriteString(fmt.Sprintf("  hint: %s\n", d.Hint))
	}
	return buf.String()
}

// codeContext extracts numbered lines around pos, marks the diagnostic
// line with '>' and puts a caret under its column.
func codeContext(lines []string, pos types.Position, contextLines int) string {
	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}
	start := max(pos.Line-contextLines-1, 0) // Convert to 0-based
	end := min(pos.Line+contextLines, len(lines))

	var buf strings.Builder
	for i := start; i < end; i++ {
		lineNum := i + 1
		marker := "  "
		if lineNum == pos.Line {
			marker = "> "
		}
		buf.WriteString(fmt.Sprintf("%s%4d │ %s\n", marker, lineNum, lines[i]))
		if lineNum == pos.Line {
			buf.WriteString(fmt.Sprintf("  %4s │ %s^\n", "", caretPad(lines[i], pos.Column)))
		}
	}
	return buf.String()
}

// caretPad returns the whitespace that moves a caret under column col of
// line. Tabs are kept so the caret lines up however tabs are displayed.
func caretPad(line string, col int) string {
	var b strings.Builder
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// Summary returns the closing line of a text report.
func Summary(files, errors, warnings int) string {
	return fmt.Sprintf("%s checked: %s, %s\n",
		plural(files, "file"), plural(errors, "error"), plural(warnings, "warning"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}
