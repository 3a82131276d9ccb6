// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package lexer

import (
	"fmt"

	"github.com/petar-djukic/cdecl/pkg/types"
)

// Kind is the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Int
	Float
	Char
	String
	Punct
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case Int:
		return "integer constant"
	case Float:
		return "floating constant"
	case Char:
		return "character constant"
	case String:
		return "string literal"
	case Punct:
		return "punctuator"
	}
	return "invalid"
}

// Token is one lexeme. Val holds the value of integer and character
// constants and the decoded byte length of string literals.
type Token struct {
	Kind Kind
	Text string
	Val  int64
	Pos  types.Position
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}

// Is reports whether t is the punctuator or identifier spelled s.
func (t Token) Is(s string) bool {
	return (t.Kind == Punct || t.Kind == Ident) && t.Text == s
}

// Include is a #include directive seen while lexing.
type Include struct {
	Header string // Header name without delimiters
	System bool   // <header> rather than "header"
	Pos    types.Position
}

// keywords are the C keywords the analyzer treats specially. Identifiers
// in this set are still lexed as Ident.
var keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true, "_Bool": true,
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	return keywords[s]
}
