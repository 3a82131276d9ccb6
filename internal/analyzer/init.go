// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package analyzer

import (
	"sort"

	"github.com/petar-djukic/cdecl/internal/lexer"
	"github.com/petar-djukic/cdecl/pkg/types"
)

// initializer parses the initializer of an object of type t. It returns
// the initializer and t, completed with an inferred length when t is an
// array of unspecified length.
func (s *session) initializer(t *types.Type) (*types.Initializer, *types.Type) {
	r := types.MustResolve(t)
	switch {
	case s.at("{"):
		switch r.Kind {
		case types.KindArray:
			return s.arrayList(t, r, true)
		case types.KindStruct:
			return s.structList(t, s.complete(r), true), t
		case types.KindUnknown:
			return s.opaqueList(), t
		}
		return s.scalarList(t), t
	case r.Kind == types.KindArray:
		return s.stringInit(t, r)
	}
	return s.exprInit(t), t
}

func (s *session) exprInit(t *types.Type) *types.Initializer {
	from, pos := s.pos, s.peek().Pos
	op := s.assignExpr()
	s.checkAssignable(t, op, pos, "initializing")
	return &types.Initializer{Expr: s.text(from, s.pos), Type: op.typ, Pos: pos}
}

// stringInit handles an array initialized without braces, which is only
// valid for a char array and a string literal.
func (s *session) stringInit(t, r *types.Type) (*types.Initializer, *types.Type) {
	tok := s.peek()
	elem := types.MustResolve(r.Elem)
	if tok.Kind != lexer.String || elem.Kind != types.KindScalar || elem.Base != types.Char {
		s.errorf(types.TypeMismatch, tok.Pos, "array '%s' must be initialized with a brace-enclosed initializer", t)
		return s.exprInitNoCheck(), t
	}
	init := s.exprInitNoCheck()
	n := types.MustResolve(init.Type).Length
	switch {
	case r.Length < 0 && r.LengthExpr == "":
		c := *r
		c.Length = n
		t = &c
	case r.Length >= 0 && n-1 > r.Length:
		s.warnf(types.InitializerShape, tok.Pos, "initializer-string for array of %d chars is too long", r.Length)
	}
	return init, t
}

func (s *session) exprInitNoCheck() *types.Initializer {
	from, pos := s.pos, s.peek().Pos
	op := s.assignExpr()
	return &types.Initializer{Expr: s.text(from, s.pos), Type: op.typ, Pos: pos}
}

// scalarList handles braces around a scalar initializer.
func (s *session) scalarList(t *types.Type) *types.Initializer {
	lb := s.expect("{")
	init := &types.Initializer{List: true, Pos: lb.Pos}
	for i := 0; !s.at("}"); i++ {
		if i > 0 {
			s.expect(",")
			if s.at("}") {
				break
			}
		}
		if i == 1 {
			s.warnf(types.InitializerShape, s.peek().Pos, "excess elements in scalar initializer")
		}
		et := t
		if i > 0 {
			et = types.Unknown
		}
		init.Elems = append(init.Elems, types.InitElem{Index: i, Value: s.element(et)})
	}
	s.expect("}")
	return init
}

// element parses one element of a braced list. An aggregate element
// written without its own braces takes its members from the enclosing
// list.
func (s *session) element(t *types.Type) *types.Initializer {
	if s.at("{") {
		init, _ := s.initializer(t)
		return init
	}
	r := types.MustResolve(t)
	switch r.Kind {
	case types.KindArray:
		elem := types.MustResolve(r.Elem)
		if s.peek().Kind == lexer.String && elem.Kind == types.KindScalar && elem.Base == types.Char {
			init, _ := s.stringInit(t, r)
			return init
		}
		init, _ := s.arrayList(t, r, false)
		return init
	case types.KindStruct:
		if s.wholeStruct(r) {
			return s.exprInit(t)
		}
		return s.structList(t, s.complete(r), false)
	}
	return s.exprInit(t)
}

// wholeStruct reports whether the next element is a single struct-typed
// name that initializes a struct member as a whole.
func (s *session) wholeStruct(r *types.Type) bool {
	tok, next := s.peek(), s.peekAt(1)
	if tok.Kind != lexer.Ident || !(next.Is(",") || next.Is("}")) {
		return false
	}
	sym, ok := s.scopes.Lookup(tok.Text)
	if !ok {
		return false
	}
	v := types.MustResolve(sym.Type)
	return v.Kind == types.KindStruct && v.Tag == r.Tag
}

// more reports whether an elided list should take another element.
func (s *session) more() bool {
	next := s.peekAt(1)
	return s.at(",") && !next.Is("}") && !next.Is(".") && !next.Is("[")
}

// arrayList parses an array initializer. Positional elements fill
// successive indices; "[i] =" designators move the cursor.
func (s *session) arrayList(t, r *types.Type, braced bool) (*types.Initializer, *types.Type) {
	pos := s.peek().Pos
	if braced {
		s.expect("{")
	}
	init := &types.Initializer{List: true, Pos: pos}
	vals := make(map[int64]*types.Initializer)
	next, count := int64(0), int64(0)
	excess := false

	for i := 0; ; i++ {
		if braced {
			if s.at("}") {
				break
			}
			if i > 0 {
				s.expect(",")
				if s.at("}") {
					break
				}
			}
		} else if i > 0 {
			if (r.Length >= 0 && next >= r.Length) || !s.more() {
				break
			}
			s.expect(",")
		}

		if braced && s.at("[") {
			lb := s.next()
			v, ok := s.constExpr()
			s.expect("]")
			s.expect("=")
			switch {
			case !ok:
				s.errorf(types.TypeMismatch, lb.Pos, "array index in initializer is not an integer constant")
				s.element(types.Unknown)
				continue
			case v < 0 || (r.Length >= 0 && v >= r.Length):
				s.errorf(types.TypeMismatch, lb.Pos, "array index %d in initializer exceeds array bounds", v)
				s.element(types.Unknown)
				continue
			}
			next = v
		}

		elemPos := s.peek().Pos
		if r.Length >= 0 && next >= r.Length {
			if !excess {
				s.warnf(types.InitializerShape, elemPos, "excess elements in array initializer")
				excess = true
			}
			s.element(types.Unknown)
			continue
		}
		if _, dup := vals[next]; dup {
			s.warnf(types.InitializerShape, elemPos, "initialized element [%d] overwritten", next)
		}
		vals[next] = s.element(r.Elem)
		next++
		count = max(count, next)
	}
	if braced {
		s.expect("}")
	}

	idx := make([]int64, 0, len(vals))
	for k := range vals {
		idx = append(idx, k)
	}
	sort.Slice(idx, func(i, j int) bool { return idx[i] < idx[j] })
	for _, k := range idx {
		init.Elems = append(init.Elems, types.InitElem{Index: int(k), Value: vals[k]})
	}

	if r.Length < 0 && r.LengthExpr == "" {
		c := *r
		c.Length = count
		t = &c
	}
	return init, t
}

// structList parses a struct or union initializer. Elements are stored in
// field order whether they were written positionally or with ".field ="
// designators.
func (s *session) structList(t, r *types.Type, braced bool) *types.Initializer {
	pos := s.peek().Pos
	if !r.Complete {
		s.errorf(types.TypeMismatch, pos, "initializing object of incomplete type '%s'", t)
		if braced {
			return s.opaqueList()
		}
		return s.exprInit(types.Unknown)
	}
	if braced {
		s.expect("{")
	}
	init := &types.Initializer{List: true, Pos: pos}
	vals := make(map[int]*types.Initializer)
	limit := len(r.Fields)
	if r.Union {
		limit = min(limit, 1)
	}
	next, positional, designated, excess := 0, false, false, false

	for i := 0; ; i++ {
		if braced {
			if s.at("}") {
				break
			}
			if i > 0 {
				s.expect(",")
				if s.at("}") {
					break
				}
			}
		} else if i > 0 {
			if next >= limit || !s.more() {
				break
			}
			s.expect(",")
		}

		byName := braced && s.at(".")
		if byName {
			s.next()
			name := s.expectIdent()
			s.expect("=")
			designated = true
			idx := r.FieldIndex(name.Text)
			if idx < 0 {
				s.unresolved(name.Pos, name.Text, fieldNames(r), "'%s' has no member named '%s'", t, name.Text)
				s.element(types.Unknown)
				continue
			}
			next = idx
		} else {
			positional = true
		}

		elemPos := s.peek().Pos
		if next >= len(r.Fields) || (r.Union && !byName && next >= limit) {
			if !excess {
				s.warnf(types.InitializerShape, elemPos, "excess elements in %s initializer", structKeyword(r))
				excess = true
			}
			s.element(types.Unknown)
			continue
		}
		if _, dup := vals[next]; dup {
			s.warnf(types.InitializerShape, elemPos, "initialized field '%s' overwritten", r.Fields[next].Name)
		}
		vals[next] = s.element(r.Fields[next].Type)
		next++
	}
	if braced {
		s.expect("}")
	}
	if positional && designated {
		s.warnf(types.InitializerShape, pos, "mixed designated and positional initializers for '%s'", t)
	}

	for i, f := range r.Fields {
		if v, ok := vals[i]; ok {
			init.Elems = append(init.Elems, types.InitElem{Field: f.Name, Index: i, Value: v})
		}
	}
	return init
}

func structKeyword(r *types.Type) string {
	if r.Union {
		return "union"
	}
	return "struct"
}

// opaqueList consumes a braced list for an object whose type is unknown,
// still resolving the names used inside it.
func (s *session) opaqueList() *types.Initializer {
	lb := s.expect("{")
	init := &types.Initializer{List: true, Pos: lb.Pos}
	for i := 0; !s.at("}"); i++ {
		if i > 0 {
			s.expect(",")
			if s.at("}") {
				break
			}
		}
		switch {
		case s.accept("."):
			s.expectIdent()
			s.expect("=")
		case s.accept("["):
			s.condExpr()
			s.expect("]")
			s.expect("=")
		}
		init.Elems = append(init.Elems, types.InitElem{Index: i, Value: s.element(types.Unknown)})
	}
	s.expect("}")
	return init
}
