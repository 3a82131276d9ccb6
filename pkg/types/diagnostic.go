// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Severity grades a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalText lets Severity appear by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DiagKind classifies a diagnostic.
type DiagKind int

const (
	SyntaxError           DiagKind = iota // Malformed declarator or statement
	UnresolvedIdentifier                  // Unknown name, field or designator
	DuplicateDeclaration                  // Same name twice in one scope
	TypeMismatch                          // Arity, field access on non-struct, index on non-indexable, const violations
	DuplicateCaseValue                    // Repeated case value or default in one switch
	InvalidArrayDimension                 // Non-constant dimension not backed by an initialized integer in scope
	InitializerShape                      // Excess elements, mixed designators, overwritten fields
	Coverage                              // Declaration seen by the outline but not by the analyzer
)

var diagKindNames = [...]string{
	SyntaxError:           "SyntaxError",
	UnresolvedIdentifier:  "UnresolvedIdentifier",
	DuplicateDeclaration:  "DuplicateDeclaration",
	TypeMismatch:          "TypeMismatch",
	DuplicateCaseValue:    "DuplicateCaseValue",
	InvalidArrayDimension: "InvalidArrayDimension",
	InitializerShape:      "InitializerShape",
	Coverage:              "Coverage",
}

func (k DiagKind) String() string {
	if int(k) < len(diagKindNames) {
		return diagKindNames[k]
	}
	return "Unknown"
}

// MarshalText lets DiagKind appear by name in JSON output.
func (k DiagKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is a single analyzer finding. Diagnostics are accumulated and
// returned; they never abort an analysis.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     DiagKind `json:"kind"`
	Message  string   `json:"message"`
	Pos      Position `json:"pos"`
	Hint     string   `json:"hint,omitempty"` // Optional suggestion, e.g. a closest matching name
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Pos.Line, d.Pos.Column, d.Severity, d.Message)
}

// IsError reports whether d has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// CountErrors returns the number of error-severity diagnostics.
func CountErrors(diags []Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.IsError() {
			n++
		}
	}
	return n
}
