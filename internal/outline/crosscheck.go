// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package outline

import (
	"fmt"

	"github.com/petar-djukic/cdecl/internal/analyzer"
	"github.com/petar-djukic/cdecl/pkg/types"
)

// CrossCheck compares the outline of a file with the analyzer's file
// scope and returns a Coverage warning for every outline entry the
// analyzer did not record the same way. Entries on lines that already
// carry an analyzer error, and entries the outline itself parsed only
// partially, are not checked.
func CrossCheck(entries []Entry, res *analyzer.Result) []types.Diagnostic {
	errLines := make(map[int]bool)
	for _, d := range res.Diagnostics {
		if d.IsError() {
			errLines[d.Pos.Line] = true
		}
	}

	var diags []types.Diagnostic
	warn := func(e Entry, format string, args ...any) {
		diags = append(diags, types.Diagnostic{
			Severity: types.SeverityWarning,
			Kind:     types.Coverage,
			Message:  fmt.Sprintf(format, args...),
			Pos:      types.Position{Line: e.Line, Column: e.Column},
		})
	}

	for _, e := range entries {
		if e.Partial || errLines[e.Line] {
			continue
		}
		switch e.Kind {
		case KindFunction:
			sym, ok := res.Globals[e.Name]
			switch {
			case !ok:
				warn(e, "function '%s' is missing from the analyzed file scope", e.Name)
			case sym.Kind != types.Function:
				warn(e, "'%s' outlines as a function but was analyzed as a %s", e.Name, sym.Kind)
			}
		case KindVariable:
			if _, ok := res.Globals[e.Name]; !ok {
				warn(e, "'%s' is missing from the analyzed file scope", e.Name)
			}
		case KindTypedef:
			if _, ok := res.Typedefs[e.Name]; !ok {
				warn(e, "typedef '%s' is missing from the analyzed file scope", e.Name)
			}
		case KindTag:
			if _, ok := res.Tags[e.Name]; !ok {
				warn(e, "tag '%s' is missing from the analyzed file scope", e.Name)
			}
		}
	}
	return diags
}
