// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/petar-djukic/cdecl/internal/lexer"
	"github.com/petar-djukic/cdecl/pkg/types"
)

// operand is the static description of an expression. Nothing is
// evaluated except integer constant expressions, whose value is in val.
type operand struct {
	typ    *types.Type
	lvalue bool
	sym    *types.Symbol // Set when the expression is a bare identifier
	val    *int64
}

func unknownOperand() operand {
	return operand{typ: types.Unknown}
}

func rvalue(t *types.Type) operand {
	return operand{typ: t}
}

func constant(t *types.Type, v int64) operand {
	return operand{typ: t, val: &v}
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

var binaryPrec = map[string]int{
	"||": 1, "&&": 2, "|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6, "<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8, "+": 9, "-": 9, "*": 10, "/": 10, "%": 10,
}

// expr parses a full expression, comma operator included.
func (s *session) expr() operand {
	op := s.assignExpr()
	for s.accept(",") {
		op = s.assignExpr()
		op.val, op.lvalue, op.sym = nil, false, nil
	}
	return op
}

func (s *session) assignExpr() operand {
	from := s.pos
	lhs := s.condExpr()
	tok := s.peek()
	if tok.Kind != lexer.Punct || !assignOps[tok.Text] {
		return lhs
	}
	target := s.text(from, s.pos)
	s.next()
	rhs := s.assignExpr()

	s.checkModifiable(lhs, target, tok.Pos)
	if tok.Text == "=" {
		s.checkAssignable(lhs.typ, rhs, tok.Pos, "assigning to")
		if lhs.sym != nil {
			lhs.sym.Initialized = true
		}
	} else {
		s.binaryOp(strings.TrimSuffix(tok.Text, "="), tok.Pos, lhs, rhs)
	}
	return rvalue(lhs.typ)
}

// constExpr parses a conditional expression and returns its value if it is
// an integer constant.
func (s *session) constExpr() (int64, bool) {
	op := s.condExpr()
	if op.val == nil || !types.IsInteger(op.typ) {
		return 0, false
	}
	return *op.val, true
}

func (s *session) condExpr() operand {
	c := s.binary(1)
	if !s.at("?") {
		return c
	}
	q := s.next()
	s.checkScalar(c, q.Pos)
	a := s.expr()
	s.expect(":")
	b := s.condExpr()

	res := s.mergeBranches(a, b, q.Pos)
	if c.val != nil && a.val != nil && b.val != nil {
		if *c.val != 0 {
			res.val = a.val
		} else {
			res.val = b.val
		}
	}
	return res
}

func (s *session) mergeBranches(a, b operand, pos types.Position) operand {
	if a.typ.IsUnknown() || b.typ.IsUnknown() {
		return unknownOperand()
	}
	at, bt := decay(a.typ), decay(b.typ)
	ar, br := types.MustResolve(at), types.MustResolve(bt)
	switch {
	case types.IsArithmetic(ar) && types.IsArithmetic(br):
		return rvalue(usualArith(ar, br))
	case ar.Kind == types.KindPointer && (br.Kind == types.KindPointer || types.IsInteger(br)):
		return rvalue(at)
	case br.Kind == types.KindPointer && types.IsInteger(ar):
		return rvalue(bt)
	case ar.Kind == types.KindStruct && br.Kind == types.KindStruct && ar.Tag == br.Tag:
		return rvalue(at)
	case ar.Kind == types.KindScalar && br.Kind == types.KindScalar && ar.Base == types.Void && br.Base == types.Void:
		return rvalue(at)
	}
	s.errorf(types.TypeMismatch, pos, "type mismatch in conditional expression ('%s' and '%s')", a.typ, b.typ)
	return unknownOperand()
}

// binary parses operators of precedence minPrec and above by precedence
// climbing.
func (s *session) binary(minPrec int) operand {
	lhs := s.castExpr()
	for {
		tok := s.peek()
		prec, ok := binaryPrec[tok.Text]
		if tok.Kind != lexer.Punct || !ok || prec < minPrec {
			return lhs
		}
		s.next()
		rhs := s.binary(prec + 1)
		lhs = s.binaryOp(tok.Text, tok.Pos, lhs, rhs)
	}
}

func (s *session) binaryOp(op string, pos types.Position, l, r operand) operand {
	lt, rt := decay(l.typ), decay(r.typ)
	lr, rr := types.MustResolve(lt), types.MustResolve(rt)
	unknown := lr.IsUnknown() || rr.IsUnknown()

	switch op {
	case "&&", "||":
		s.checkScalar(l, pos)
		s.checkScalar(r, pos)
		return fold(op, rvalue(types.NewScalar(types.Int)), l, r)
	case "==", "!=", "<", ">", "<=", ">=":
		ok := unknown ||
			(types.IsArithmetic(lr) && types.IsArithmetic(rr)) ||
			(lr.Kind == types.KindPointer && (rr.Kind == types.KindPointer || types.IsInteger(rr))) ||
			(types.IsInteger(lr) && rr.Kind == types.KindPointer)
		if !ok {
			s.invalidOperands(op, pos, l.typ, r.typ)
		}
		return fold(op, rvalue(types.NewScalar(types.Int)), l, r)
	}
	if unknown {
		return unknownOperand()
	}

	switch op {
	case "+":
		if lr.Kind == types.KindPointer && types.IsInteger(rr) {
			return rvalue(lt)
		}
		if types.IsInteger(lr) && rr.Kind == types.KindPointer {
			return rvalue(rt)
		}
	case "-":
		if lr.Kind == types.KindPointer && types.IsInteger(rr) {
			return rvalue(lt)
		}
		if lr.Kind == types.KindPointer && rr.Kind == types.KindPointer {
			return rvalue(types.NewScalar(types.Long))
		}
	}

	integral := op == "%" || op == "<<" || op == ">>" || op == "&" || op == "|" || op == "^"
	valid := types.IsArithmetic(lr) && types.IsArithmetic(rr)
	if integral {
		valid = types.IsInteger(lr) && types.IsInteger(rr)
	}
	if !valid {
		s.invalidOperands(op, pos, l.typ, r.typ)
		return unknownOperand()
	}
	res := rvalue(usualArith(lr, rr))
	if op == "<<" || op == ">>" {
		res = rvalue(promote(lr))
	}
	return fold(op, res, l, r)
}

func (s *session) invalidOperands(op string, pos types.Position, a, b *types.Type) {
	s.errorf(types.TypeMismatch, pos, "invalid operands to binary %s (have '%s' and '%s')", op, a, b)
}

// fold computes the value of a binary operator over integer constants.
func fold(op string, res, l, r operand) operand {
	if l.val == nil || r.val == nil || !types.IsInteger(res.typ) {
		return res
	}
	a, b := *l.val, *r.val
	var v int64
	switch op {
	case "+":
		v = a + b
	case "-":
		v = a - b
	case "*":
		v = a * b
	case "/", "%":
		if b == 0 || (a == math.MinInt64 && b == -1) {
			return res
		}
		if op == "/" {
			v = a / b
		} else {
			v = a % b
		}
	case "<<":
		if b < 0 || b > 63 {
			return res
		}
		v = a << uint(b)
	case ">>":
		if b < 0 || b > 63 {
			return res
		}
		v = a >> uint(b)
	case "&":
		v = a & b
	case "|":
		v = a | b
	case "^":
		v = a ^ b
	case "&&":
		v = boolVal(a != 0 && b != 0)
	case "||":
		v = boolVal(a != 0 || b != 0)
	case "==":
		v = boolVal(a == b)
	case "!=":
		v = boolVal(a != b)
	case "<":
		v = boolVal(a < b)
	case ">":
		v = boolVal(a > b)
	case "<=":
		v = boolVal(a <= b)
	case ">=":
		v = boolVal(a >= b)
	default:
		return res
	}
	res.val = &v
	return res
}

func boolVal(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (s *session) castExpr() operand {
	if !s.at("(") || !s.isTypeStart(s.peekAt(1)) {
		return s.unary()
	}
	lp := s.next()
	t := s.typeName()
	s.expect(")")
	if s.at("{") {
		_, t = s.initializer(t)
		return operand{typ: t, lvalue: true}
	}
	op := s.castExpr()
	r := types.MustResolve(t)
	switch {
	case r.Kind == types.KindScalar && r.Base == types.Void:
		return rvalue(t)
	case r.Kind == types.KindStruct || r.Kind == types.KindArray || r.Kind == types.KindFunc:
		s.errorf(types.TypeMismatch, lp.Pos, "conversion to non-scalar type '%s' requested", t)
		return rvalue(t)
	}
	s.checkScalar(op, lp.Pos)
	res := rvalue(t)
	if op.val != nil && types.IsInteger(r) {
		res.val = op.val
	}
	return res
}

func (s *session) unary() operand {
	tok := s.peek()
	switch {
	case tok.Is("+"), tok.Is("-"), tok.Is("~"):
		s.next()
		op := s.castExpr()
		if op.typ.IsUnknown() {
			return unknownOperand()
		}
		valid := types.IsArithmetic(op.typ)
		if tok.Is("~") {
			valid = types.IsInteger(op.typ)
		}
		if !valid {
			s.errorf(types.TypeMismatch, tok.Pos, "wrong type argument to unary %s (have '%s')", tok.Text, op.typ)
			return unknownOperand()
		}
		res := rvalue(promote(types.MustResolve(op.typ)))
		if op.val != nil {
			v := *op.val
			switch tok.Text {
			case "-":
				v = -v
			case "~":
				v = ^v
			}
			res.val = &v
		}
		return res
	case tok.Is("!"):
		s.next()
		op := s.castExpr()
		s.checkScalar(op, tok.Pos)
		res := rvalue(types.NewScalar(types.Int))
		if op.val != nil {
			v := boolVal(*op.val == 0)
			res.val = &v
		}
		return res
	case tok.Is("++"), tok.Is("--"):
		s.next()
		from := s.pos
		op := s.unary()
		s.checkModifiable(op, s.text(from, s.pos), tok.Pos)
		s.checkIncrement(op, tok)
		return rvalue(op.typ)
	case tok.Is("&"):
		s.next()
		op := s.castExpr()
		if op.typ.IsUnknown() {
			return unknownOperand()
		}
		if !op.lvalue && types.MustResolve(op.typ).Kind != types.KindFunc {
			s.errorf(types.TypeMismatch, tok.Pos, "lvalue required as unary '&' operand")
		}
		return rvalue(types.PointerTo(op.typ))
	case tok.Is("*"):
		s.next()
		return s.deref(s.castExpr(), tok.Pos)
	case tok.Is("sizeof"):
		return s.sizeofExpr()
	}
	return s.postfix()
}

func (s *session) deref(op operand, pos types.Position) operand {
	if op.typ.IsUnknown() {
		return operand{typ: types.Unknown, lvalue: true}
	}
	p := types.MustResolve(decay(op.typ))
	if p.Kind != types.KindPointer {
		s.errorf(types.TypeMismatch, pos, "invalid type argument of unary '*' (have '%s')", op.typ)
		return operand{typ: types.Unknown, lvalue: true}
	}
	elem := pointee(p)
	switch r := types.MustResolve(elem); {
	case r.Kind == types.KindFunc:
		return rvalue(elem)
	case r.Kind == types.KindScalar && r.Base == types.Void:
		s.warnf(types.TypeMismatch, pos, "dereferencing '%s' pointer", op.typ)
		return rvalue(elem)
	}
	return operand{typ: elem, lvalue: true}
}

func (s *session) sizeofExpr() operand {
	kw := s.next()
	var t *types.Type
	if s.at("(") && s.isTypeStart(s.peekAt(1)) {
		s.next()
		t = s.typeName()
		s.expect(")")
	} else {
		t = s.unary().typ
	}
	res := rvalue(tSizeT)
	if t.IsUnknown() {
		return res
	}
	switch r := s.complete(types.MustResolve(t)); {
	case r.Kind == types.KindFunc:
		s.errorf(types.TypeMismatch, kw.Pos, "invalid application of 'sizeof' to a function type")
		return res
	case r.Kind == types.KindStruct && !r.Complete:
		s.errorf(types.TypeMismatch, kw.Pos, "invalid application of 'sizeof' to incomplete type '%s'", t)
		return res
	}
	if n, ok := s.sizeOf(t); ok {
		res.val = &n
	}
	return res
}

func (s *session) postfix() operand {
	from := s.pos
	op := s.primary()
	for {
		tok := s.peek()
		switch {
		case tok.Is("["):
			s.next()
			idx := s.expr()
			s.expect("]")
			op = s.index(op, idx, tok.Pos)
		case tok.Is("("):
			op = s.call(op, s.text(from, s.pos), s.toks[from].Pos)
		case tok.Is("."), tok.Is("->"):
			s.next()
			name := s.expectIdent()
			op = s.member(op, name, tok.Is("->"), tok.Pos)
		case tok.Is("++"), tok.Is("--"):
			s.checkModifiable(op, s.text(from, s.pos), tok.Pos)
			s.next()
			s.checkIncrement(op, tok)
			op = rvalue(op.typ)
		default:
			return op
		}
	}
}

func (s *session) index(base, idx operand, pos types.Position) operand {
	if base.typ.IsUnknown() || idx.typ.IsUnknown() {
		return operand{typ: types.Unknown, lvalue: true}
	}
	b := types.MustResolve(decay(base.typ))
	i := types.MustResolve(decay(idx.typ))
	if b.Kind != types.KindPointer && i.Kind == types.KindPointer {
		b, i = i, b
	}
	if b.Kind != types.KindPointer {
		s.errorf(types.TypeMismatch, pos, "subscripted value is neither array nor pointer (have '%s')", base.typ)
		return operand{typ: types.Unknown, lvalue: true}
	}
	if !types.IsInteger(i) {
		s.errorf(types.TypeMismatch, pos, "array subscript is not an integer (have '%s')", idx.typ)
	}
	return operand{typ: pointee(b), lvalue: true}
}

// call checks a function call. Only the argument count is checked against
// the prototype.
func (s *session) call(fn operand, name string, pos types.Position) operand {
	s.expect("(")
	var args []operand
	if !s.at(")") {
		for {
			args = append(args, s.assignExpr())
			if !s.accept(",") {
				break
			}
		}
	}
	s.expect(")")

	if fn.typ.IsUnknown() {
		return unknownOperand()
	}
	f := types.MustResolve(fn.typ)
	if f.Kind == types.KindPointer {
		f = types.MustResolve(f.Elem)
	}
	if f.Kind != types.KindFunc {
		s.errorf(types.TypeMismatch, pos, "called object '%s' is not a function or function pointer", name)
		return unknownOperand()
	}
	if !f.Unprototyped {
		want, have := len(f.Params), len(args)
		switch {
		case f.Variadic && have < want:
			s.errorf(types.TypeMismatch, pos, "too few arguments to function '%s' (expected at least %d, have %d)", name, want, have)
		case !f.Variadic && have < want:
			s.errorf(types.TypeMismatch, pos, "too few arguments to function '%s' (expected %d, have %d)", name, want, have)
		case !f.Variadic && have > want:
			s.errorf(types.TypeMismatch, pos, "too many arguments to function '%s' (expected %d, have %d)", name, want, have)
		}
	}
	return rvalue(f.Return)
}

func (s *session) member(base operand, name lexer.Token, arrow bool, pos types.Position) operand {
	if base.typ.IsUnknown() {
		return operand{typ: types.Unknown, lvalue: true}
	}
	t, lvalue := base.typ, base.lvalue
	if arrow {
		p := types.MustResolve(decay(t))
		if p.Kind != types.KindPointer {
			s.errorf(types.TypeMismatch, pos, "invalid type argument of '->' (have '%s')", t)
			return operand{typ: types.Unknown, lvalue: true}
		}
		t, lvalue = pointee(p), true
	}
	r := s.complete(types.MustResolve(t))
	if r.Kind != types.KindStruct {
		s.errorf(types.TypeMismatch, pos, "request for member '%s' in something not a structure or union (have '%s')", name.Text, t)
		return operand{typ: types.Unknown, lvalue: lvalue}
	}
	if !r.Complete {
		s.errorf(types.TypeMismatch, pos, "invalid use of incomplete type '%s'", t)
		return operand{typ: types.Unknown, lvalue: lvalue}
	}
	f, ok := r.FieldByName(name.Text)
	if !ok {
		s.unresolved(name.Pos, name.Text, fieldNames(r), "'%s' has no member named '%s'", t, name.Text)
		return operand{typ: types.Unknown, lvalue: lvalue}
	}
	ft := f.Type
	if r.Const {
		ft = ft.Qualified()
	}
	return operand{typ: ft, lvalue: lvalue}
}

func fieldNames(t *types.Type) []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

func (s *session) primary() operand {
	tok := s.peek()
	switch tok.Kind {
	case lexer.Int:
		s.next()
		return constant(intLiteralType(tok), tok.Val)
	case lexer.Char:
		s.next()
		return constant(types.NewScalar(types.Int), tok.Val)
	case lexer.Float:
		s.next()
		if strings.ContainsAny(tok.Text, "fF") && !strings.HasPrefix(tok.Text, "0x") {
			return rvalue(types.NewScalar(types.Float))
		}
		return rvalue(types.NewScalar(types.Double))
	case lexer.String:
		n := int64(0)
		for s.peek().Kind == lexer.String {
			n += s.next().Val
		}
		return operand{typ: types.ArrayOf(tChar, n+1), lvalue: true}
	case lexer.Punct:
		if tok.Is("(") {
			s.next()
			op := s.expr()
			s.expect(")")
			return op
		}
	case lexer.Ident:
		if lexer.IsKeyword(tok.Text) {
			break
		}
		s.next()
		return s.identifier(tok)
	}
	s.syntaxError(tok, "expected expression before %s", tok)
	return unknownOperand()
}

func intLiteralType(tok lexer.Token) *types.Type {
	suffix := strings.ToLower(strings.TrimLeft(tok.Text, "0123456789abcdefABCDEFxX"))
	t := types.NewScalar(types.Int)
	if strings.Contains(suffix, "l") || tok.Val > math.MaxInt32 {
		t.Base = types.Long
	}
	t.Unsigned = strings.Contains(suffix, "u")
	return t
}

// identifier resolves a name used in an expression: scopes first, then
// the headers that were included.
func (s *session) identifier(tok lexer.Token) operand {
	if sym, ok := s.scopes.Lookup(tok.Text); ok {
		s.bind(tok, sym)
		if v, ok := s.enumVals[sym]; ok {
			return constant(sym.Type, v)
		}
		if s.dim != nil && sym.Kind != types.Function && !sym.Initialized {
			s.dim.uninit = append(s.dim.uninit, tok)
		}
		return operand{typ: sym.Type, sym: sym, lvalue: sym.Kind != types.Function}
	}
	if _, ok := s.typedefName(tok.Text); ok {
		s.syntaxError(tok, "expected expression before %s", tok)
	}
	if s.dim != nil {
		s.dim.undeclared = append(s.dim.undeclared, tok)
		return unknownOperand()
	}

	l, header, included := s.libLookup(tok.Text)
	switch {
	case included:
		sym := libSymbol(l)
		s.bind(tok, sym)
		return rvalue(sym.Type)
	case header != "" && l.fn != nil:
		s.report(types.SeverityError, types.UnresolvedIdentifier, tok.Pos,
			fmt.Sprintf("include <%s> to declare '%s'", header, tok.Text),
			"implicit declaration of function '%s'", tok.Text)
	case header != "":
		s.report(types.SeverityError, types.UnresolvedIdentifier, tok.Pos,
			fmt.Sprintf("'%s' is defined in <%s>", tok.Text, header),
			"'%s' undeclared", tok.Text)
	default:
		s.unresolved(tok.Pos, tok.Text, s.candidates(), "'%s' undeclared", tok.Text)
	}
	return unknownOperand()
}

// Checks shared by assignment, increment and initialization.

func (s *session) checkModifiable(op operand, text string, pos types.Position) {
	if op.typ.IsUnknown() {
		return
	}
	r := types.MustResolve(op.typ)
	switch {
	case !op.lvalue || r.Kind == types.KindFunc:
		s.errorf(types.TypeMismatch, pos, "expression '%s' is not assignable", text)
	case r.Kind == types.KindArray:
		s.errorf(types.TypeMismatch, pos, "cannot assign to '%s' with array type '%s'", text, op.typ)
	case r.IsConst():
		s.errorf(types.TypeMismatch, pos, "cannot assign to '%s' with const-qualified type '%s'", text, op.typ)
	}
}

func (s *session) checkIncrement(op operand, tok lexer.Token) {
	if op.typ.IsUnknown() {
		return
	}
	r := types.MustResolve(op.typ)
	if !types.IsArithmetic(r) && r.Kind != types.KindPointer {
		s.errorf(types.TypeMismatch, tok.Pos, "wrong type argument to %s (have '%s')", tok.Text, op.typ)
	}
}

// checkScalar reports a struct or void operand used where a truth value or
// a cast operand is required.
func (s *session) checkScalar(op operand, pos types.Position) {
	if op.typ.IsUnknown() {
		return
	}
	switch r := types.MustResolve(op.typ); {
	case r.Kind == types.KindStruct:
		s.errorf(types.TypeMismatch, pos, "used %s type value where scalar is required", r)
	case r.Kind == types.KindScalar && r.Base == types.Void:
		s.errorf(types.TypeMismatch, pos, "void value not ignored as it ought to be")
	}
}

// checkAssignable reports a value of src's type stored into an object of
// type dst. what names the operation for messages: "assigning to",
// "initializing" or "returning".
func (s *session) checkAssignable(dst *types.Type, src operand, pos types.Position, what string) {
	if dst.IsUnknown() || src.typ.IsUnknown() {
		return
	}
	d := types.MustResolve(dst)
	v := types.MustResolve(decay(src.typ))
	incompatible := func() {
		s.errorf(types.TypeMismatch, pos, "incompatible types when %s type '%s' from type '%s'", what, dst, src.typ)
	}

	if v.Kind == types.KindScalar && v.Base == types.Void {
		s.errorf(types.TypeMismatch, pos, "void value not ignored as it ought to be")
		return
	}
	switch d.Kind {
	case types.KindStruct:
		if v.Kind != types.KindStruct || v.Tag != d.Tag || v.Union != d.Union {
			incompatible()
		}
	case types.KindScalar:
		switch v.Kind {
		case types.KindStruct:
			incompatible()
		case types.KindPointer:
			if d.Base != types.Bool {
				s.warnf(types.TypeMismatch, pos, "%s '%s' makes integer from pointer without a cast", what, dst)
			}
		}
	case types.KindPointer:
		switch v.Kind {
		case types.KindPointer:
			de, ve := types.MustResolve(d.Elem), types.MustResolve(v.Elem)
			voidPtr := isVoid(de) || isVoid(ve)
			switch {
			case v.ConstPointee && !d.ConstPointee:
				s.warnf(types.TypeMismatch, pos, "%s '%s' from '%s' discards 'const' qualifier", what, dst, src.typ)
			case !voidPtr && !de.IsUnknown() && !ve.IsUnknown() && !types.Equivalent(d.Elem, v.Elem):
				s.warnf(types.TypeMismatch, pos, "incompatible pointer types %s '%s' from '%s'", what, dst, src.typ)
			}
		case types.KindScalar:
			if !v.Base.IsInteger() {
				incompatible()
			} else if src.val == nil || *src.val != 0 {
				s.warnf(types.TypeMismatch, pos, "%s '%s' makes pointer from integer without a cast", what, dst)
			}
		case types.KindStruct:
			incompatible()
		}
	}
}

func isVoid(t *types.Type) bool {
	return t.Kind == types.KindScalar && t.Base == types.Void
}

// Type helpers.

// decay converts array and function types to the pointers they decay to
// in value contexts.
func decay(t *types.Type) *types.Type {
	r := types.MustResolve(t)
	switch r.Kind {
	case types.KindArray:
		return types.PointerTo(r.Elem)
	case types.KindFunc:
		return types.PointerTo(r)
	}
	return t
}

// pointee returns what a pointer points to, const-qualified when the
// pointer is a pointer to const.
func pointee(p *types.Type) *types.Type {
	if p.ConstPointee {
		return p.Elem.Qualified()
	}
	return p.Elem
}

func promote(t *types.Type) *types.Type {
	if t.Kind == types.KindScalar && t.Base.IsInteger() && t.Base < types.Int {
		return types.NewScalar(types.Int)
	}
	return t.Unqualified()
}

// usualArith returns the common type of two arithmetic operands.
func usualArith(a, b *types.Type) *types.Type {
	base := max(a.Base, b.Base)
	if base.IsFloating() {
		return types.NewScalar(base)
	}
	if base < types.Int {
		return types.NewScalar(types.Int)
	}
	return &types.Type{
		Kind:     types.KindScalar,
		Base:     base,
		Unsigned: (a.Base == base && a.Unsigned) || (b.Base == base && b.Unsigned),
	}
}

var scalarSize = map[types.BaseKind]int64{
	types.Void: 1, types.Bool: 1, types.Char: 1, types.Short: 2, types.Int: 4,
	types.Long: 8, types.LongLong: 8, types.Float: 4, types.Double: 8, types.LongDouble: 16,
}

// sizeOf computes the size of t on an LP64 target.
func (s *session) sizeOf(t *types.Type) (int64, bool) {
	r := types.MustResolve(t)
	switch r.Kind {
	case types.KindScalar:
		return scalarSize[r.Base], true
	case types.KindPointer:
		return 8, true
	case types.KindArray:
		if r.Length < 0 {
			return 0, false
		}
		n, ok := s.sizeOf(r.Elem)
		return n * r.Length, ok
	case types.KindStruct:
		r = s.complete(r)
		if !r.Complete {
			return 0, false
		}
		var size, align int64 = 0, 1
		for _, f := range r.Fields {
			fs, ok := s.sizeOf(f.Type)
			if !ok {
				return 0, false
			}
			fa := s.alignOf(f.Type)
			if r.Union {
				size = max(size, fs)
			} else {
				size = alignTo(size, fa) + fs
			}
			align = max(align, fa)
		}
		return alignTo(size, align), true
	}
	return 0, false
}

func (s *session) alignOf(t *types.Type) int64 {
	r := types.MustResolve(t)
	switch r.Kind {
	case types.KindScalar:
		return scalarSize[r.Base]
	case types.KindPointer:
		return 8
	case types.KindArray:
		return s.alignOf(r.Elem)
	case types.KindStruct:
		align := int64(1)
		for _, f := range s.complete(r).Fields {
			align = max(align, s.alignOf(f.Type))
		}
		return align
	}
	return 1
}

func alignTo(n, align int64) int64 {
	return (n + align - 1) / align * align
}
