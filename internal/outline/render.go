// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package outline

import (
	"fmt"
	"io"
	"strings"
)

const maxLineLength = 100

// Render writes a compact listing of one file's outline: the path, then
// one line per entry with its kind, name, line and signature.
func Render(w io.Writer, path string, entries []Entry) error {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("%s (%d names)\n", path, len(entries)))
	for _, e := range entries {
		line := fmt.Sprintf("  %-8s %-20s %4d  %s", e.Kind, e.Name, e.Line, e.Signature)
		line = strings.TrimRight(line, " ")
		if len(line) > maxLineLength {
			line = line[:maxLineLength-3] + "..."
		}
		buf.WriteString(line + "\n")
	}
	_, err := io.WriteString(w, buf.String())
	return err
}
