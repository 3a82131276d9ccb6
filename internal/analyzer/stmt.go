// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package analyzer

import (
	"fmt"

	"github.com/petar-djukic/cdecl/internal/lexer"
	"github.com/petar-djukic/cdecl/pkg/types"
)

// blockBody parses statements up to and including the closing brace of
// the current block. Each statement recovers on its own.
func (s *session) blockBody() {
	for !s.at("}") && !s.atEOF() {
		s.guarded(s.statement)
	}
	s.expect("}")
}

func (s *session) statement() {
	tok := s.peek()
	switch {
	case tok.Is("{"):
		s.compound()
	case tok.Is(";"):
		s.next()
	case tok.Is("if"):
		s.ifStmt()
	case tok.Is("switch"):
		s.switchStmt()
	case tok.Is("case"):
		s.caseLabel()
	case tok.Is("default"):
		s.defaultLabel()
	case tok.Is("for"):
		s.forStmt()
	case tok.Is("while"):
		s.whileStmt()
	case tok.Is("do"):
		s.doStmt()
	case tok.Is("break"), tok.Is("continue"):
		s.jump()
	case tok.Is("return"):
		s.returnStmt()
	case tok.Is("goto"):
		s.syntaxError(tok, "goto statements are not supported")
	case tok.Kind == lexer.Ident && !lexer.IsKeyword(tok.Text) && s.peekAt(1).Is(":"):
		s.syntaxError(tok, "labeled statements are not supported")
	case s.isTypeStart(tok) || s.unknownTypeStart(ctxBlock):
		s.declaration(false)
	default:
		s.expr()
		s.expect(";")
	}
}

// compound parses a braced block in a new scope.
func (s *session) compound() {
	s.expect("{")
	s.scopes.Push()
	s.blockBody()
	s.scopes.Pop()
}

func (s *session) condition() {
	lp := s.expect("(")
	op := s.expr()
	s.checkScalar(op, lp.Pos)
	s.expect(")")
}

func (s *session) ifStmt() {
	s.next()
	s.condition()
	s.statement()
	if s.accept("else") {
		s.statement()
	}
}

func (s *session) switchStmt() {
	s.next()
	lp := s.expect("(")
	op := s.expr()
	s.expect(")")
	if !op.typ.IsUnknown() && !types.IsInteger(op.typ) {
		s.errorf(types.TypeMismatch, lp.Pos, "switch quantity is not an integer (have '%s')", op.typ)
	}
	s.switches = append(s.switches, &switchState{cases: make(map[int64]types.Position)})
	s.statement()
	s.switches = s.switches[:len(s.switches)-1]
}

// caseLabel parses "case value:". The labeled statement is parsed as the
// next statement of the enclosing block.
func (s *session) caseLabel() {
	kw := s.next()
	op := s.condExpr()
	s.expect(":")
	if len(s.switches) == 0 {
		s.errorf(types.SyntaxError, kw.Pos, "case label not within a switch statement")
		return
	}
	switch {
	case op.typ.IsUnknown():
		return
	case !types.IsInteger(op.typ):
		s.errorf(types.TypeMismatch, kw.Pos, "case label does not have an integer type (have '%s')", op.typ)
		return
	case op.val == nil:
		s.errorf(types.TypeMismatch, kw.Pos, "case label does not reduce to an integer constant")
		return
	}
	sw := s.switches[len(s.switches)-1]
	v := *op.val
	if prev, dup := sw.cases[v]; dup {
		s.report(types.SeverityError, types.DuplicateCaseValue, kw.Pos,
			fmt.Sprintf("previously used at %s", prev), "duplicate case value %d", v)
		return
	}
	sw.cases[v] = kw.Pos
}

func (s *session) defaultLabel() {
	kw := s.next()
	s.expect(":")
	if len(s.switches) == 0 {
		s.errorf(types.SyntaxError, kw.Pos, "'default' label not within a switch statement")
		return
	}
	sw := s.switches[len(s.switches)-1]
	if sw.hasDefault {
		s.report(types.SeverityError, types.DuplicateCaseValue, kw.Pos,
			fmt.Sprintf("previously used at %s", sw.defaultPos), "multiple default labels in one switch")
		return
	}
	sw.hasDefault, sw.defaultPos = true, kw.Pos
}

// forStmt parses the three-clause for loop. A declaration in the first
// clause is scoped to the loop.
func (s *session) forStmt() {
	s.next()
	lp := s.expect("(")
	s.scopes.Push()
	switch {
	case s.isTypeStart(s.peek()):
		s.declaration(false)
	case !s.accept(";"):
		s.expr()
		s.expect(";")
	}
	if !s.at(";") {
		s.checkScalar(s.expr(), lp.Pos)
	}
	s.expect(";")
	if !s.at(")") {
		s.expr()
	}
	s.expect(")")
	s.loop(s.statement)
	s.scopes.Pop()
}

func (s *session) whileStmt() {
	s.next()
	s.condition()
	s.loop(s.statement)
}

func (s *session) doStmt() {
	s.next()
	s.loop(s.statement)
	s.expect("while")
	s.condition()
	s.expect(";")
}

func (s *session) loop(body func()) {
	s.loops++
	body()
	s.loops--
}

func (s *session) jump() {
	kw := s.next()
	switch {
	case kw.Is("continue") && s.loops == 0:
		s.errorf(types.SyntaxError, kw.Pos, "continue statement not within a loop")
	case kw.Is("break") && s.loops == 0 && len(s.switches) == 0:
		s.errorf(types.SyntaxError, kw.Pos, "break statement not within loop or switch")
	}
	s.expect(";")
}

func (s *session) returnStmt() {
	kw := s.next()
	if s.accept(";") {
		if s.fnRet != nil && !isVoid(types.MustResolve(s.fnRet)) {
			s.warnf(types.TypeMismatch, kw.Pos, "'return' with no value, in function returning non-void")
		}
		return
	}
	pos := s.peek().Pos
	op := s.expr()
	s.expect(";")
	switch {
	case s.fnRet == nil:
	case isVoid(types.MustResolve(s.fnRet)):
		s.warnf(types.TypeMismatch, kw.Pos, "'return' with a value, in function returning void")
	default:
		s.checkAssignable(s.fnRet, op, pos, "returning")
	}
}
