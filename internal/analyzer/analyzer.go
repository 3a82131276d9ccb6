// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package analyzer recognizes declarations, statements and expressions of a
// restricted C subset and binds every identifier to a typed symbol without
// executing anything.
//
// Analysis is a single recursive-descent pass. Problems in the input are
// accumulated as diagnostics; a malformed statement is abandoned and the
// pass resumes at the next statement boundary. Analyze returns an error only
// when the analyzer itself breaks an invariant.
package analyzer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/petar-djukic/cdecl/internal/lexer"
	"github.com/petar-djukic/cdecl/internal/suggest"
	"github.com/petar-djukic/cdecl/internal/symtab"
	"github.com/petar-djukic/cdecl/pkg/types"
)

// ErrInternal reports a defect in the analyzer, as opposed to a problem in
// the analyzed source.
var ErrInternal = errors.New("internal analyzer error")

// ErrNoDeclaration is returned by ParseDeclaration when the input declares
// nothing.
var ErrNoDeclaration = errors.New("no declaration found")

// Options tunes an analysis run.
type Options struct {
	NoSuggest bool // Omit did-you-mean hints on unresolved names
}

// Result is the outcome of one analysis run.
type Result struct {
	Globals      map[string]types.Symbol `json:"globals"`  // File-scope symbols after the run
	Typedefs     map[string]*types.Type  `json:"typedefs"` // File-scope typedef names
	Tags         map[string]*types.Type  `json:"tags"`     // File-scope struct, union and enum tags
	Declarations []types.Declaration     `json:"declarations"`
	Bindings     []types.Binding         `json:"bindings"`
	Diagnostics  []types.Diagnostic      `json:"diagnostics"`
	Includes     []string                `json:"includes,omitempty"`
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	return types.CountErrors(r.Diagnostics) > 0
}

// bailout unwinds the parser to the enclosing statement after a syntax
// error has been recorded.
type bailout struct{}

// switchState tracks the labels of one switch body.
type switchState struct {
	cases      map[int64]types.Position
	hasDefault bool
	defaultPos types.Position
}

// session is the state of a single analysis run. It is never shared.
type session struct {
	opts Options
	toks []lexer.Token
	pos  int

	scopes   *symtab.Stack
	diags    []types.Diagnostic
	decls    []types.Declaration
	bindings []types.Binding

	includes  map[string]bool
	enumVals  map[*types.Symbol]int64
	anonCount int

	switches []*switchState
	loops    int
	fnRet    *types.Type // Return type of the function being analyzed
	dim      *dimCheck   // Non-nil while parsing an array dimension
	members  int         // Nesting of struct bodies being parsed
	params   []param     // Parameters of the innermost function declarator parsed last

	eofReported bool
}

// Analyze runs the analyzer over ordered source lines.
func Analyze(lines []string, opts Options) (res *Result, err error) {
	lx := lexer.Lex(lines)
	s := &session{
		opts:     opts,
		toks:     lx.Tokens,
		scopes:   symtab.NewStack(),
		includes: make(map[string]bool),
		enumVals: make(map[*types.Symbol]int64),
	}
	s.diags = append(s.diags, lx.Diagnostics...)
	for _, inc := range lx.Includes {
		s.includes[inc.Header] = true
	}

	defer func() {
		if r := recover(); r != nil {
			res = s.result()
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	s.translationUnit()
	return s.result(), nil
}

// AnalyzeSource splits src into lines and analyzes it.
func AnalyzeSource(src string, opts Options) (*Result, error) {
	return Analyze(strings.Split(src, "\n"), opts)
}

// ParseDeclaration analyzes prelude followed by a single declaration and
// returns the record of the last name that declaration introduced. A
// missing trailing semicolon is supplied.
func ParseDeclaration(prelude []string, decl string) (types.Declaration, *Result, error) {
	decl = strings.TrimSpace(decl)
	if !strings.HasSuffix(decl, ";") && !strings.HasSuffix(decl, "}") {
		decl += ";"
	}
	lines := append(append([]string{}, prelude...), decl)
	res, err := Analyze(lines, Options{})
	if err != nil {
		return types.Declaration{}, res, err
	}
	line := len(lines)
	for i := len(res.Declarations) - 1; i >= 0; i-- {
		d := res.Declarations[i]
		if d.Pos.Line == line && d.Kind != types.Member && d.Kind != types.Parameter {
			return d, res, nil
		}
	}
	return types.Declaration{}, res, ErrNoDeclaration
}

func (s *session) result() *Result {
	sort.SliceStable(s.diags, func(i, j int) bool {
		a, b := s.diags[i].Pos, s.diags[j].Pos
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	var includes []string
	for h := range s.includes {
		includes = append(includes, h)
	}
	sort.Strings(includes)
	return &Result{
		Globals:      s.scopes.Snapshot(),
		Typedefs:     s.scopes.Typedefs(),
		Tags:         s.scopes.Tags(),
		Declarations: s.decls,
		Bindings:     s.bindings,
		Diagnostics:  s.diags,
		Includes:     includes,
	}
}

// Diagnostics.

func (s *session) report(sev types.Severity, kind types.DiagKind, pos types.Position, hint string, format string, args ...any) {
	s.diags = append(s.diags, types.Diagnostic{
		Severity: sev,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Hint:     hint,
	})
}

func (s *session) errorf(kind types.DiagKind, pos types.Position, format string, args ...any) {
	s.report(types.SeverityError, kind, pos, "", format, args...)
}

func (s *session) warnf(kind types.DiagKind, pos types.Position, format string, args ...any) {
	s.report(types.SeverityWarning, kind, pos, "", format, args...)
}

// syntaxError records a syntax error at tok and abandons the statement.
// Running out of input is reported once however many constructs it cuts
// short.
func (s *session) syntaxError(tok lexer.Token, format string, args ...any) {
	if tok.Kind == lexer.EOF {
		if s.eofReported {
			panic(bailout{})
		}
		s.eofReported = true
	}
	s.errorf(types.SyntaxError, tok.Pos, format, args...)
	panic(bailout{})
}

// unresolved records an UnresolvedIdentifier with a closest-name hint drawn
// from candidates.
func (s *session) unresolved(pos types.Position, name string, candidates []string, format string, args ...any) {
	s.report(types.SeverityError, types.UnresolvedIdentifier, pos, s.closest(name, candidates), format, args...)
}

// hint suggests the visible name closest to name.
func (s *session) hint(name string) string {
	return s.closest(name, s.candidates())
}

func (s *session) closest(name string, candidates []string) string {
	if s.opts.NoSuggest {
		return ""
	}
	if best, ok := suggest.Closest(name, candidates); ok {
		return fmt.Sprintf("did you mean '%s'?", best)
	}
	return ""
}

// Token access.

func (s *session) peek() lexer.Token {
	return s.toks[s.pos]
}

func (s *session) peekAt(n int) lexer.Token {
	if s.pos+n < len(s.toks) {
		return s.toks[s.pos+n]
	}
	return s.toks[len(s.toks)-1]
}

func (s *session) next() lexer.Token {
	t := s.toks[s.pos]
	if t.Kind != lexer.EOF {
		s.pos++
	}
	return t
}

func (s *session) at(text string) bool {
	return s.peek().Is(text)
}

func (s *session) atEOF() bool {
	return s.peek().Kind == lexer.EOF
}

func (s *session) accept(text string) bool {
	if s.at(text) {
		s.next()
		return true
	}
	return false
}

func (s *session) expect(text string) lexer.Token {
	if !s.at(text) {
		s.syntaxError(s.peek(), "expected '%s' before %s", text, s.peek())
	}
	return s.next()
}

func (s *session) expectIdent() lexer.Token {
	t := s.peek()
	if t.Kind != lexer.Ident || lexer.IsKeyword(t.Text) {
		s.syntaxError(t, "expected identifier before %s", t)
	}
	return s.next()
}

// text renders tokens [from, to) as source text.
func (s *session) text(from, to int) string {
	var b strings.Builder
	for i := from; i < to && i < len(s.toks); i++ {
		t := s.toks[i]
		if i > from && needsSpace(s.toks[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

func needsSpace(prev, cur lexer.Token) bool {
	switch prev.Text {
	case "(", "[", ".", "->", "!", "~":
		return false
	}
	switch cur.Text {
	case ")", "]", ",", ".", "->", ";", "[":
		return false
	case "(", "++", "--":
		return prev.Kind != lexer.Ident || lexer.IsKeyword(prev.Text)
	}
	return true
}

// Recovery.

// guarded runs parse and, if it bails out on a syntax error, restores the
// per-statement state and skips to the next statement boundary.
func (s *session) guarded(parse func()) {
	start := s.pos
	depth := s.scopes.Depth()
	switches, loops, fnRet, members, dim := len(s.switches), s.loops, s.fnRet, s.members, s.dim

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		s.scopes.Unwind(depth)
		s.switches = s.switches[:switches]
		s.loops, s.fnRet, s.members, s.dim = loops, fnRet, members, dim
		s.synchronize(start)
	}()

	parse()
}

// synchronize moves past the statement that began at start. It stops after
// a ';' at nesting depth zero, after the '}' closing a statement block, or
// before an unmatched '}'. Boundaries before the error position are ignored.
func (s *session) synchronize(start int) {
	errPos := s.pos
	paren, brace := 0, 0
	aggregate := false // the outermost '{' opened a struct body or initializer
	for i := start; i < len(s.toks); i++ {
		t := s.toks[i]
		past := i >= errPos
		if t.Kind == lexer.EOF {
			s.pos = i
			return
		}
		if t.Kind != lexer.Punct {
			continue
		}
		switch t.Text {
		case "(", "[":
			paren++
		case ")", "]":
			if paren > 0 {
				paren--
			}
		case "{":
			if brace == 0 {
				aggregate = i != start && !(s.toks[i-1].Is(")") || s.toks[i-1].Is("else") || s.toks[i-1].Is("do"))
			}
			brace++
		case "}":
			if brace == 0 {
				if past {
					s.pos = i
					if s.pos == start {
						s.pos++
					}
					return
				}
				continue
			}
			brace--
			if brace == 0 && paren == 0 && past && !aggregate {
				s.pos = i + 1
				return
			}
		case ";":
			if brace == 0 && paren == 0 && past {
				s.pos = i + 1
				return
			}
		}
	}
	s.pos = len(s.toks) - 1
}

// bind records a resolved identifier use.
func (s *session) bind(tok lexer.Token, sym *types.Symbol) {
	s.bindings = append(s.bindings, types.Binding{
		Name:  tok.Text,
		Pos:   tok.Pos,
		Depth: sym.Depth,
		Decl:  sym.Pos,
		Type:  sym.Type,
	})
}

// candidates lists the names an unresolved identifier could have meant.
func (s *session) candidates() []string {
	names := s.scopes.Visible()
	for _, h := range headerOrder {
		if !s.includes[h] {
			continue
		}
		for _, f := range library[h] {
			names = append(names, f.name)
		}
	}
	return names
}

func (s *session) translationUnit() {
	for !s.atEOF() {
		s.guarded(s.externalDeclaration)
	}
}
