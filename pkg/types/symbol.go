// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the value types shared across cdecl packages: the
// C type variant, symbols, declaration records and diagnostics.
package types

import "fmt"

// Position is a 1-based line and column in the analyzed source.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SymbolKind identifies what a declared name denotes.
type SymbolKind int

const (
	Variable  SymbolKind = iota // Object declared in a block or at file scope
	Parameter                   // Function parameter
	Function                    // Function prototype or definition
	Typedef                     // Typedef name; recorded only in Declarations
	Member                      // Struct or union member; recorded only in Declarations
)

// String returns the human-readable name of the symbol kind.
func (k SymbolKind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Parameter:
		return "parameter"
	case Function:
		return "function"
	case Typedef:
		return "typedef"
	case Member:
		return "field"
	default:
		return "unknown"
	}
}

// MarshalText lets SymbolKind appear by name in JSON output.
func (k SymbolKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Symbol is a name bound in a scope.
type Symbol struct {
	Name        string     `json:"name"`
	Kind        SymbolKind `json:"kind"`
	Type        *Type      `json:"type"`
	Depth       int        `json:"depth"`       // Scope depth; 0 is file scope
	Initialized bool       `json:"initialized"` // Set by initializer, assignment, parameter binding or static storage
	Defined     bool       `json:"defined,omitempty"`
	Pos         Position   `json:"pos"`
}

// InitElem is one element of a braced initializer. Exactly one of Field
// and Index identifies the target.
type InitElem struct {
	Field string       `json:"field,omitempty"`
	Index int          `json:"index"`
	Value *Initializer `json:"value"`
}

// Initializer is either a single expression or a braced list. Struct list
// elements are stored in field order regardless of how they were written.
type Initializer struct {
	Expr  string     `json:"expr,omitempty"`
	Type  *Type      `json:"type,omitempty"`
	List  bool       `json:"list,omitempty"`
	Elems []InitElem `json:"elems,omitempty"`
	Pos   Position   `json:"pos"`
}

// Declaration records one declarator of a declaration statement.
type Declaration struct {
	Name        string       `json:"name"`
	Kind        SymbolKind   `json:"kind"`
	Type        *Type        `json:"type"`
	Initializer *Initializer `json:"initializer,omitempty"`
	Depth       int          `json:"depth"`
	Pos         Position     `json:"pos"`
}

// Binding records an identifier use and the symbol it resolved to.
type Binding struct {
	Name  string   `json:"name"`
	Pos   Position `json:"pos"`
	Depth int      `json:"depth"` // Depth of the symbol that was found
	Decl  Position `json:"decl"`  // Declaration position of that symbol
	Type  *Type    `json:"type"`
}
