// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package lexer tokenizes the C subset accepted by the analyzer.
//
// Comments are dropped. A #include directive is recorded so the analyzer can
// pre-declare the header's library names; any other preprocessor line is
// skipped with a warning.
package lexer

import (
	"fmt"
	"math"
	"strings"

	"github.com/petar-djukic/cdecl/pkg/types"
)

// Result holds the output of Lex.
type Result struct {
	Tokens      []Token // Always terminated by an EOF token
	Includes    []Include
	Diagnostics []types.Diagnostic
}

// punctuators is ordered longest first so the scanner is greedy.
var punctuators = []string{
	"...", "<<=", ">>=",
	"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "!", "<", ">", "=",
	"?", ":", ";", ",", ".", "(", ")", "[", "]", "{", "}",
}

type scanner struct {
	src  string
	off  int
	line int
	col  int
	bol  bool // at beginning of line, ignoring whitespace
	res  *Result
}

// Lex tokenizes the given source lines.
func Lex(lines []string) *Result {
	s := &scanner{
		src:  strings.Join(lines, "\n"),
		line: 1,
		col:  1,
		bol:  true,
		res:  &Result{},
	}
	s.run()
	return s.res
}

func (s *scanner) pos() types.Position {
	return types.Position{Line: s.line, Column: s.col}
}

func (s *scanner) peek(n int) byte {
	if s.off+n < len(s.src) {
		return s.src[s.off+n]
	}
	return 0
}

func (s *scanner) advance(n int) {
	for i := 0; i < n && s.off < len(s.src); i++ {
		if s.src[s.off] == '\n' {
			s.line++
			s.col = 1
			s.bol = true
		} else {
			s.col++
		}
		s.off++
	}
}

func (s *scanner) errorf(pos types.Position, format string, args ...any) {
	s.res.Diagnostics = append(s.res.Diagnostics, types.Diagnostic{
		Severity: types.SeverityError,
		Kind:     types.SyntaxError,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

func (s *scanner) emit(kind Kind, text string, val int64, pos types.Position) {
	s.res.Tokens = append(s.res.Tokens, Token{Kind: kind, Text: text, Val: val, Pos: pos})
}

func (s *scanner) run() {
	for s.off < len(s.src) {
		c := s.src[s.off]
		switch {
		case c == '\n':
			s.advance(1)
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			s.advance(1)
			continue
		case c == '/' && s.peek(1) == '/':
			for s.off < len(s.src) && s.src[s.off] != '\n' {
				s.advance(1)
			}
		case c == '/' && s.peek(1) == '*':
			s.blockComment()
		case c == '#' && s.bol:
			s.directive()
		case isIdentStart(c):
			s.ident()
		case isDigit(c) || (c == '.' && isDigit(s.peek(1))):
			s.number()
		case c == '\'':
			s.charConst()
		case c == '"':
			s.stringLit()
		default:
			s.punct()
		}
		if s.off > 0 && s.src[s.off-1] != '\n' {
			s.bol = false
		}
	}
	s.emit(EOF, "", 0, s.pos())
}

func (s *scanner) blockComment() {
	start := s.pos()
	s.advance(2)
	for s.off < len(s.src) {
		if s.src[s.off] == '*' && s.peek(1) == '/' {
			s.advance(2)
			return
		}
		s.advance(1)
	}
	s.errorf(start, "unterminated comment")
}

func (s *scanner) directive() {
	start := s.pos()
	end := strings.IndexByte(s.src[s.off:], '\n')
	if end < 0 {
		end = len(s.src) - s.off
	}
	text := strings.TrimSpace(s.src[s.off+1 : s.off+end])
	s.advance(end)

	name, rest, _ := strings.Cut(text, " ")
	rest = strings.TrimSpace(rest)
	if name != "include" {
		s.res.Diagnostics = append(s.res.Diagnostics, types.Diagnostic{
			Severity: types.SeverityWarning,
			Kind:     types.SyntaxError,
			Message:  fmt.Sprintf("preprocessor directive #%s ignored", name),
			Pos:      start,
		})
		return
	}
	switch {
	case len(rest) >= 2 && rest[0] == '<' && strings.HasSuffix(rest, ">"):
		s.res.Includes = append(s.res.Includes, Include{Header: rest[1 : len(rest)-1], System: true, Pos: start})
	case len(rest) >= 2 && rest[0] == '"' && strings.HasSuffix(rest, `"`):
		s.res.Includes = append(s.res.Includes, Include{Header: rest[1 : len(rest)-1], Pos: start})
	default:
		s.errorf(start, "malformed #include directive")
	}
}

func (s *scanner) ident() {
	start, off := s.pos(), s.off
	for s.off < len(s.src) && isIdentChar(s.src[s.off]) {
		s.advance(1)
	}
	s.emit(Ident, s.src[off:s.off], 0, start)
}

func (s *scanner) number() {
	start, off := s.pos(), s.off
	isFloat, seenDot, seenExp, malformed := false, false, false, false
	if s.src[s.off] == '0' && (s.peek(1) == 'x' || s.peek(1) == 'X') {
		s.advance(2)
		for s.off < len(s.src) && isHexDigit(s.src[s.off]) {
			s.advance(1)
		}
	} else {
		for s.off < len(s.src) {
			c := s.src[s.off]
			if isDigit(c) {
				s.advance(1)
			} else if c == '.' {
				// A second point, or one after the exponent, makes the
				// constant malformed; the rest is consumed with it.
				malformed = malformed || seenDot || seenExp
				isFloat, seenDot = true, true
				s.advance(1)
			} else if (c == 'e' || c == 'E') && (isDigit(s.peek(1)) || ((s.peek(1) == '+' || s.peek(1) == '-') && isDigit(s.peek(2)))) {
				malformed = malformed || seenExp
				isFloat, seenExp = true, true
				s.advance(2)
			} else {
				break
			}
		}
	}
	digitsEnd := s.off
	for s.off < len(s.src) && strings.IndexByte("uUlLfF", s.src[s.off]) >= 0 {
		if s.src[s.off] == 'f' || s.src[s.off] == 'F' {
			isFloat = true
		}
		s.advance(1)
	}
	if s.off < len(s.src) && isIdentChar(s.src[s.off]) {
		for s.off < len(s.src) && isIdentChar(s.src[s.off]) {
			s.advance(1)
		}
		s.errorf(start, "invalid numeric constant %q", s.src[off:s.off])
		s.emit(Int, s.src[off:s.off], 0, start)
		return
	}
	if malformed {
		s.errorf(start, "invalid numeric constant %q", s.src[off:s.off])
		s.emit(Float, s.src[off:s.off], 0, start)
		return
	}
	text := s.src[off:s.off]
	if isFloat {
		s.emit(Float, text, 0, start)
		return
	}
	val, ok := parseInt(s.src[off:digitsEnd])
	if !ok {
		s.errorf(start, "integer constant %s is too large", text)
	}
	s.emit(Int, text, val, start)
}

func parseInt(digits string) (int64, bool) {
	base := int64(10)
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		base, digits = 16, digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		base, digits = 8, digits[1:]
	}
	var v int64
	for i := 0; i < len(digits); i++ {
		d := int64(hexVal(digits[i]))
		if d >= base {
			return v, false
		}
		if v > (math.MaxInt64-d)/base {
			return v, false
		}
		v = v*base + d
	}
	return v, true
}

func (s *scanner) charConst() {
	start, off := s.pos(), s.off
	s.advance(1)
	if s.off >= len(s.src) || s.src[s.off] == '\n' || s.src[s.off] == '\'' {
		s.errorf(start, "empty character constant")
		s.advance(1)
		s.emit(Char, s.src[off:s.off], 0, start)
		return
	}
	val := s.escaped()
	if s.off >= len(s.src) || s.src[s.off] != '\'' {
		for s.off < len(s.src) && s.src[s.off] != '\'' && s.src[s.off] != '\n' {
			s.advance(1)
		}
		if s.off < len(s.src) && s.src[s.off] == '\'' {
			s.advance(1)
			s.errorf(start, "multi-character constant")
		} else {
			s.errorf(start, "unterminated character constant")
		}
		s.emit(Char, s.src[off:s.off], val, start)
		return
	}
	s.advance(1)
	s.emit(Char, s.src[off:s.off], val, start)
}

func (s *scanner) stringLit() {
	start, off := s.pos(), s.off
	s.advance(1)
	n := int64(0)
	for {
		if s.off >= len(s.src) || s.src[s.off] == '\n' {
			s.errorf(start, "unterminated string literal")
			break
		}
		if s.src[s.off] == '"' {
			s.advance(1)
			break
		}
		s.escaped()
		n++
	}
	s.emit(String, s.src[off:s.off], n, start)
}

// escaped consumes one possibly escaped character and returns its value.
func (s *scanner) escaped() int64 {
	c := s.src[s.off]
	if c != '\\' {
		s.advance(1)
		return int64(c)
	}
	s.advance(1)
	if s.off >= len(s.src) {
		return 0
	}
	c = s.src[s.off]
	s.advance(1)
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'a':
		return 7
	case 'b':
		return 8
	case 'f':
		return 12
	case 'v':
		return 11
	case 'x':
		v := int64(0)
		for s.off < len(s.src) && isHexDigit(s.src[s.off]) {
			v = v*16 + int64(hexVal(s.src[s.off]))
			s.advance(1)
		}
		return v
	}
	if c >= '0' && c <= '7' {
		v := int64(c - '0')
		for i := 0; i < 2 && s.off < len(s.src) && s.src[s.off] >= '0' && s.src[s.off] <= '7'; i++ {
			v = v*8 + int64(s.src[s.off]-'0')
			s.advance(1)
		}
		return v
	}
	return int64(c)
}

func (s *scanner) punct() {
	start := s.pos()
	for _, p := range punctuators {
		if strings.HasPrefix(s.src[s.off:], p) {
			s.advance(len(p))
			s.emit(Punct, p, 0, start)
			return
		}
	}
	s.errorf(start, "unexpected character %q", s.src[s.off])
	s.advance(1)
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool   { return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f') }
func isIdentStart(c byte) bool { return c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') }
func isIdentChar(c byte) bool  { return isIdentStart(c) || isDigit(c) }

func hexVal(c byte) int {
	switch {
	case isDigit(c):
		return int(c - '0')
	case c|0x20 >= 'a' && c|0x20 <= 'f':
		return int(c|0x20-'a') + 10
	}
	return 16
}
