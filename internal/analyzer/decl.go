// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package analyzer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/petar-djukic/cdecl/internal/lexer"
	"github.com/petar-djukic/cdecl/internal/symtab"
	"github.com/petar-djukic/cdecl/pkg/types"
)

// declContext says where a set of declaration specifiers appears. It
// decides which storage classes are legal.
type declContext int

const (
	ctxFile declContext = iota
	ctxBlock
	ctxParam
	ctxMember
	ctxTypeName
)

// declSpec is the result of parsing declaration specifiers.
type declSpec struct {
	base        *types.Type
	typedef     bool
	static      bool
	extern      bool
	declaresTag bool // A struct, union or enum specifier was present
	pos         types.Position
}

// declarator is one parsed declarator. name has Kind lexer.EOF when the
// declarator is abstract.
type declarator struct {
	name lexer.Token
	typ  *types.Type
}

func (d declarator) named() bool {
	return d.name.Kind == lexer.Ident
}

// param is one entry of a function parameter list. typ is nil for the
// names of a K&R identifier list until their declarations are seen.
type param struct {
	name lexer.Token
	typ  *types.Type
	pos  types.Position
}

// dimCheck collects identifiers met while parsing an array dimension so the
// dimension can be judged as a whole.
type dimCheck struct {
	undeclared []lexer.Token
	uninit     []lexer.Token
}

// Type specifier counters, one field per keyword wide enough to count
// "long long".
const (
	specVoid     = 1 << 0
	specBool     = 1 << 2
	specChar     = 1 << 4
	specShort    = 1 << 6
	specInt      = 1 << 8
	specLong     = 1 << 10
	specFloat    = 1 << 12
	specDouble   = 1 << 14
	specOther    = 1 << 16
	specSigned   = 1 << 17
	specUnsigned = 1 << 18
)

var specBits = map[string]int{
	"void": specVoid, "_Bool": specBool, "char": specChar, "short": specShort,
	"int": specInt, "long": specLong, "float": specFloat, "double": specDouble,
	"signed": specSigned, "unsigned": specUnsigned,
}

type specCombo struct {
	base     types.BaseKind
	unsigned bool
}

var specCombos = map[int]specCombo{
	specVoid:                                       {types.Void, false},
	specBool:                                       {types.Bool, false},
	specChar:                                       {types.Char, false},
	specSigned + specChar:                          {types.Char, false},
	specUnsigned + specChar:                        {types.Char, true},
	specShort:                                      {types.Short, false},
	specShort + specInt:                            {types.Short, false},
	specSigned + specShort:                         {types.Short, false},
	specSigned + specShort + specInt:               {types.Short, false},
	specUnsigned + specShort:                       {types.Short, true},
	specUnsigned + specShort + specInt:             {types.Short, true},
	specInt:                                        {types.Int, false},
	specSigned:                                     {types.Int, false},
	specSigned + specInt:                           {types.Int, false},
	specUnsigned:                                   {types.Int, true},
	specUnsigned + specInt:                         {types.Int, true},
	specLong:                                       {types.Long, false},
	specLong + specInt:                             {types.Long, false},
	specSigned + specLong:                          {types.Long, false},
	specSigned + specLong + specInt:                {types.Long, false},
	specUnsigned + specLong:                        {types.Long, true},
	specUnsigned + specLong + specInt:              {types.Long, true},
	specLong + specLong:                            {types.LongLong, false},
	specLong + specLong + specInt:                  {types.LongLong, false},
	specSigned + specLong + specLong:               {types.LongLong, false},
	specSigned + specLong + specLong + specInt:     {types.LongLong, false},
	specUnsigned + specLong + specLong:             {types.LongLong, true},
	specUnsigned + specLong + specLong + specInt:   {types.LongLong, true},
	specFloat:                                      {types.Float, false},
	specDouble:                                     {types.Double, false},
	specLong + specDouble:                          {types.LongDouble, false},
}

var typeKeywords = map[string]bool{
	"void": true, "_Bool": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "signed": true, "unsigned": true,
	"struct": true, "union": true, "enum": true, "const": true, "volatile": true,
	"restrict": true, "typedef": true, "static": true, "extern": true,
	"auto": true, "register": true, "inline": true,
}

// isTypeStart reports whether tok can begin declaration specifiers.
func (s *session) isTypeStart(tok lexer.Token) bool {
	if tok.Kind != lexer.Ident {
		return false
	}
	if typeKeywords[tok.Text] {
		return true
	}
	if lexer.IsKeyword(tok.Text) {
		return false
	}
	_, ok := s.typedefName(tok.Text)
	return ok
}

// typedefName returns the alias a name denotes in type position.
func (s *session) typedefName(name string) (*types.Type, bool) {
	if t, ok := s.scopes.LookupTypedef(name); ok {
		return t, true
	}
	return s.libTypedef(name)
}

// unknownTypeStart reports whether the next tokens look like a declaration
// whose type name was never declared, as in "Foo x;".
func (s *session) unknownTypeStart(ctx declContext) bool {
	tok, next := s.peek(), s.peekAt(1)
	if tok.Kind != lexer.Ident || lexer.IsKeyword(tok.Text) {
		return false
	}
	if _, ok := s.scopes.Lookup(tok.Text); ok {
		return false
	}
	if _, _, included := s.libLookup(tok.Text); included {
		return false
	}
	if next.Kind == lexer.Ident && !lexer.IsKeyword(next.Text) {
		return true
	}
	return ctx != ctxBlock && ctx != ctxTypeName && next.Is("*")
}

func (s *session) externalDeclaration() {
	if s.accept(";") {
		return
	}
	s.declaration(true)
}

// declspec parses declaration specifiers: storage classes, qualifiers and
// exactly one type.
func (s *session) declspec(ctx declContext) declSpec {
	start, from := s.peek(), s.pos
	spec := declSpec{pos: start.Pos}
	counter := 0
	isConst := false
	var other *types.Type

loop:
	for {
		tok := s.peek()
		if tok.Kind != lexer.Ident {
			break
		}
		switch tok.Text {
		case "typedef", "static", "extern", "auto", "register", "inline":
			s.next()
			legal := ctx == ctxFile || ctx == ctxBlock || (ctx == ctxParam && tok.Text == "register")
			if !legal {
				s.errorf(types.SyntaxError, tok.Pos, "storage class '%s' is not allowed here", tok.Text)
				continue
			}
			switch tok.Text {
			case "typedef":
				spec.typedef = true
			case "static":
				spec.static = true
			case "extern":
				spec.extern = true
			}
			continue
		case "const":
			s.next()
			isConst = true
			continue
		case "volatile", "restrict":
			s.next()
			continue
		case "struct", "union", "enum":
			if counter != 0 {
				s.syntaxError(tok, "two or more data types in declaration specifiers")
			}
			s.next()
			if tok.Text == "enum" {
				other = s.enumSpecifier()
			} else {
				other = s.structSpecifier(tok.Text == "union")
			}
			spec.declaresTag = true
			counter += specOther
			continue
		}
		if bit, ok := specBits[tok.Text]; ok {
			if counter&specOther != 0 {
				s.syntaxError(tok, "two or more data types in declaration specifiers")
			}
			s.next()
			if bit == specSigned || bit == specUnsigned {
				counter |= bit
			} else {
				counter += bit
			}
			if _, ok := specCombos[counter]; !ok {
				s.syntaxError(tok, "invalid combination of type specifiers before %s", s.peek())
			}
			continue
		}
		if counter != 0 || lexer.IsKeyword(tok.Text) {
			break
		}
		if alias, ok := s.typedefName(tok.Text); ok {
			s.next()
			other = alias
			counter += specOther
			continue
		}
		if s.unknownTypeStart(ctx) {
			s.next()
			s.unresolved(tok.Pos, tok.Text, s.candidates(), "unknown type name '%s'", tok.Text)
			other = types.Unknown
			counter += specOther
			continue
		}
		break loop
	}

	switch {
	case other != nil:
		spec.base = other
	case counter != 0:
		c := specCombos[counter]
		spec.base = &types.Type{Kind: types.KindScalar, Base: c.base, Unsigned: c.unsigned}
	default:
		if s.pos == from && start.Kind != lexer.Ident {
			s.syntaxError(start, "expected declaration before %s", start)
		}
		s.errorf(types.SyntaxError, start.Pos, "type specifier missing, defaults to 'int'")
		spec.base = types.NewScalar(types.Int)
	}
	if isConst {
		spec.base = spec.base.Qualified()
	}
	return spec
}

// structSpecifier parses what follows "struct" or "union".
func (s *session) structSpecifier(union bool) *types.Type {
	kw := "struct"
	if union {
		kw = "union"
	}
	var tag lexer.Token
	if t := s.peek(); t.Kind == lexer.Ident && !lexer.IsKeyword(t.Text) {
		tag = s.next()
	}

	if !s.at("{") {
		if tag.Kind != lexer.Ident {
			s.syntaxError(s.peek(), "expected '{' before %s", s.peek())
		}
		if prev, ok := s.scopes.LookupTag(tag.Text); ok {
			if prev.Kind != types.KindStruct || prev.Union != union {
				s.errorf(types.TypeMismatch, tag.Pos, "'%s' defined as wrong kind of tag", tag.Text)
				return types.Unknown
			}
			return prev
		}
		t := &types.Type{Kind: types.KindStruct, Tag: tag.Text, Union: union}
		s.scopes.DefineTag(tag.Text, t)
		return t
	}

	var t *types.Type
	switch {
	case tag.Kind != lexer.Ident:
		s.anonCount++
		t = &types.Type{Kind: types.KindStruct, Tag: fmt.Sprintf("<anonymous %d>", s.anonCount), Anonymous: true, Union: union}
	default:
		prev, ok := s.scopes.LookupLocalTag(tag.Text)
		switch {
		case ok && (prev.Kind != types.KindStruct || prev.Union != union):
			s.errorf(types.TypeMismatch, tag.Pos, "'%s' defined as wrong kind of tag", tag.Text)
			t = &types.Type{Kind: types.KindStruct, Tag: tag.Text, Union: union}
		case ok && prev.Complete:
			s.errorf(types.DuplicateDeclaration, tag.Pos, "redefinition of '%s %s'", kw, tag.Text)
			t = &types.Type{Kind: types.KindStruct, Tag: tag.Text, Union: union}
		case ok:
			t = prev
		default:
			t = &types.Type{Kind: types.KindStruct, Tag: tag.Text, Union: union}
			s.scopes.DefineTag(tag.Text, t)
		}
	}

	s.expect("{")
	s.members++
	t.Fields = s.structMembers()
	s.members--
	s.expect("}")
	t.Complete = true
	if len(t.Fields) == 0 {
		s.warnf(types.SyntaxError, s.toks[s.pos-1].Pos, "%s has no members", kw)
	}
	return t
}

// structMembers parses member declarations up to the closing brace. A
// malformed member is skipped on its own.
func (s *session) structMembers() []types.Field {
	var fields []types.Field
	seen := make(map[string]bool)
	add := func(f types.Field, pos types.Position) {
		if seen[f.Name] {
			s.errorf(types.DuplicateDeclaration, pos, "duplicate member '%s'", f.Name)
			return
		}
		seen[f.Name] = true
		fields = append(fields, f)
	}

	for !s.at("}") && !s.atEOF() {
		s.guarded(func() {
			spec := s.declspec(ctxMember)
			if s.accept(";") {
				r := types.MustResolve(spec.base)
				if r.Kind == types.KindStruct && r.Anonymous {
					for _, f := range r.Fields {
						add(f, spec.pos)
					}
					return
				}
				s.warnf(types.SyntaxError, spec.pos, "declaration does not declare anything")
				return
			}
			for {
				d := s.declarator(spec.base, false)
				s.checkMember(d)
				if s.accept(":") {
					if w, ok := s.constExpr(); !ok || w < 0 {
						s.errorf(types.TypeMismatch, d.name.Pos, "bit-field '%s' width not a non-negative integer constant", d.name.Text)
					}
				}
				add(types.Field{Name: d.name.Text, Type: d.typ}, d.name.Pos)
				s.decls = append(s.decls, types.Declaration{
					Name:  d.name.Text,
					Kind:  types.Member,
					Type:  d.typ,
					Depth: s.scopes.Depth(),
					Pos:   d.name.Pos,
				})
				if !s.accept(",") {
					break
				}
			}
			s.expect(";")
		})
	}
	return fields
}

func (s *session) checkMember(d declarator) {
	r := types.MustResolve(d.typ)
	switch {
	case r.Kind == types.KindFunc:
		s.errorf(types.TypeMismatch, d.name.Pos, "field '%s' declared as a function", d.name.Text)
	case r.Kind == types.KindScalar && r.Base == types.Void:
		s.errorf(types.TypeMismatch, d.name.Pos, "field '%s' declared void", d.name.Text)
	case r.Kind == types.KindStruct && !s.complete(r).Complete:
		s.errorf(types.TypeMismatch, d.name.Pos, "field '%s' has incomplete type", d.name.Text)
	case r.Kind == types.KindArray && r.Length < 0 && r.LengthExpr == "":
		s.errorf(types.InvalidArrayDimension, d.name.Pos, "array size missing in field '%s'", d.name.Text)
	}
}

// enumSpecifier parses what follows "enum". Enumerators become constant
// int symbols of the current scope.
func (s *session) enumSpecifier() *types.Type {
	t := types.NewScalar(types.Int)
	var tag lexer.Token
	if tok := s.peek(); tok.Kind == lexer.Ident && !lexer.IsKeyword(tok.Text) {
		tag = s.next()
	}
	if !s.at("{") {
		if tag.Kind != lexer.Ident {
			s.syntaxError(s.peek(), "expected '{' before %s", s.peek())
		}
		if prev, ok := s.scopes.LookupTag(tag.Text); ok && prev.Kind == types.KindStruct {
			s.errorf(types.TypeMismatch, tag.Pos, "'%s' defined as wrong kind of tag", tag.Text)
		}
		return t
	}
	s.next()
	if tag.Kind == lexer.Ident {
		if _, ok := s.scopes.LookupLocalTag(tag.Text); ok {
			s.errorf(types.DuplicateDeclaration, tag.Pos, "redeclaration of 'enum %s'", tag.Text)
		} else {
			s.scopes.DefineTag(tag.Text, t)
		}
	}

	val := int64(0)
	for !s.at("}") {
		name := s.expectIdent()
		if s.accept("=") {
			v, ok := s.constExpr()
			if ok {
				val = v
			} else {
				s.errorf(types.TypeMismatch, name.Pos, "enumerator value for '%s' is not an integer constant", name.Text)
			}
		}
		sym := &types.Symbol{
			Name:        name.Text,
			Kind:        types.Variable,
			Type:        t.Qualified(),
			Initialized: true,
			Defined:     true,
			Pos:         name.Pos,
		}
		if err := s.scopes.Define(sym); err != nil {
			s.duplicate(name, err)
		} else {
			s.enumVals[sym] = val
			s.decls = append(s.decls, types.Declaration{
				Name:        name.Text,
				Kind:        types.Variable,
				Type:        sym.Type,
				Initializer: &types.Initializer{Expr: strconv.FormatInt(val, 10), Type: t, Pos: name.Pos},
				Depth:       sym.Depth,
				Pos:         name.Pos,
			})
		}
		val++
		if !s.accept(",") {
			break
		}
	}
	s.expect("}")
	return t
}

// declarator parses pointers, a name or parenthesized declarator, and type
// suffixes. With abstract set the name may be omitted.
func (s *session) declarator(base *types.Type, abstract bool) declarator {
	typ := s.pointers(base)

	if s.at("(") && s.nestedDeclarator(abstract) {
		open := s.pos
		s.skipParens()
		typ = s.typeSuffix(typ)
		end := s.pos
		s.pos = open + 1
		d := s.declarator(typ, abstract)
		s.expect(")")
		s.pos = end
		return d
	}

	var name lexer.Token
	if tok := s.peek(); tok.Kind == lexer.Ident && !lexer.IsKeyword(tok.Text) {
		name = s.next()
	} else if !abstract {
		s.syntaxError(tok, "expected identifier or '(' before %s", tok)
	}
	return declarator{name: name, typ: s.typeSuffix(typ)}
}

// nestedDeclarator decides whether the '(' at the current token opens a
// parenthesized declarator rather than a parameter list.
func (s *session) nestedDeclarator(abstract bool) bool {
	next := s.peekAt(1)
	if !abstract {
		return true
	}
	return next.Is("*") || next.Is("(") || next.Is("[")
}

// skipParens moves past the balanced parentheses starting at the current
// '(' token.
func (s *session) skipParens() {
	open := s.peek()
	depth := 0
	for {
		tok := s.next()
		switch {
		case tok.Kind == lexer.EOF:
			s.syntaxError(open, "expected ')' to match this '('")
		case tok.Is("("):
			depth++
		case tok.Is(")"):
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (s *session) pointers(typ *types.Type) *types.Type {
	for s.accept("*") {
		typ = types.PointerTo(typ)
		for {
			if s.accept("const") {
				typ = typ.Qualified()
			} else if !s.accept("volatile") && !s.accept("restrict") {
				break
			}
		}
	}
	return typ
}

func (s *session) typeSuffix(typ *types.Type) *types.Type {
	switch {
	case s.at("("):
		return s.funcParams(typ)
	case s.at("["):
		return s.arrayDimensions(typ)
	}
	return typ
}

// funcParams parses a parameter list and returns the function type
// returning ret. The named parameters are left in s.params.
func (s *session) funcParams(ret *types.Type) *types.Type {
	lp := s.expect("(")
	switch r := types.MustResolve(ret); r.Kind {
	case types.KindArray:
		s.errorf(types.TypeMismatch, lp.Pos, "function cannot return array type '%s'", ret)
	case types.KindFunc:
		s.errorf(types.TypeMismatch, lp.Pos, "function cannot return function type '%s'", ret)
	}
	fn := &types.Type{Kind: types.KindFunc, Return: ret}

	if s.accept(")") {
		fn.Unprototyped = true
		s.params = nil
		return fn
	}
	if s.at("void") && s.peekAt(1).Is(")") {
		s.next()
		s.next()
		s.params = nil
		return fn
	}
	if s.identifierList() {
		fn.Unprototyped = true
		s.params = s.identifiers()
		return fn
	}

	var params []param
	s.scopes.Push()
	for {
		if s.at("...") {
			ell := s.next()
			if len(params) == 0 {
				s.errorf(types.SyntaxError, ell.Pos, "a named parameter is required before '...'")
			}
			fn.Variadic = true
			break
		}
		if !s.isTypeStart(s.peek()) && !s.unknownTypeStart(ctxParam) {
			s.syntaxError(s.peek(), "expected declaration specifiers before %s", s.peek())
		}
		spec := s.declspec(ctxParam)
		d := s.declarator(spec.base, true)
		t := adjustParam(d.typ)
		if r := types.MustResolve(t); r.Kind == types.KindScalar && r.Base == types.Void {
			s.errorf(types.TypeMismatch, spec.pos, "parameter has void type")
		}
		params = append(params, param{name: d.name, typ: t, pos: spec.pos})
		fn.Params = append(fn.Params, t)
		if d.named() {
			sym := &types.Symbol{Name: d.name.Text, Kind: types.Parameter, Type: t, Initialized: true, Pos: d.name.Pos}
			if err := s.scopes.Define(sym); err != nil {
				s.errorf(types.DuplicateDeclaration, d.name.Pos, "redefinition of parameter '%s'", d.name.Text)
			}
		}
		if !s.accept(",") {
			break
		}
	}
	s.expect(")")
	s.scopes.Pop()
	s.params = params
	return fn
}

// identifierList reports whether a parameter list is a K&R identifier list.
func (s *session) identifierList() bool {
	tok, next := s.peek(), s.peekAt(1)
	if tok.Kind != lexer.Ident || lexer.IsKeyword(tok.Text) {
		return false
	}
	if _, ok := s.typedefName(tok.Text); ok {
		return false
	}
	return next.Is(",") || next.Is(")")
}

func (s *session) identifiers() []param {
	var params []param
	seen := make(map[string]bool)
	for {
		name := s.expectIdent()
		if seen[name.Text] {
			s.errorf(types.DuplicateDeclaration, name.Pos, "redefinition of parameter '%s'", name.Text)
		}
		seen[name.Text] = true
		params = append(params, param{name: name, pos: name.Pos})
		if !s.accept(",") {
			break
		}
	}
	s.expect(")")
	return params
}

// adjustParam applies the parameter type adjustments: arrays become
// pointers to their element and functions become function pointers.
func adjustParam(t *types.Type) *types.Type {
	switch r := types.MustResolve(t); r.Kind {
	case types.KindArray:
		return types.PointerTo(r.Elem)
	case types.KindFunc:
		return types.PointerTo(r)
	}
	return t
}

// arrayDimensions parses "[dim]" followed by further suffixes, which
// describe the element type.
func (s *session) arrayDimensions(elem *types.Type) *types.Type {
	lb := s.expect("[")
	for s.accept("static") || s.accept("const") || s.accept("restrict") || s.accept("volatile") {
	}
	length, expr := int64(-1), ""
	if !s.at("]") {
		length, expr = s.dimension(lb)
	}
	s.expect("]")

	elem = s.typeSuffix(elem)
	switch r := types.MustResolve(elem); {
	case r.Kind == types.KindFunc:
		s.errorf(types.TypeMismatch, lb.Pos, "declaration of array of functions")
	case r.Kind == types.KindArray && r.Length < 0 && r.LengthExpr == "":
		s.errorf(types.InvalidArrayDimension, lb.Pos, "array type has incomplete element type '%s'", elem)
	case r.Kind == types.KindScalar && r.Base == types.Void:
		s.errorf(types.TypeMismatch, lb.Pos, "declaration of array of voids")
	}
	return &types.Type{Kind: types.KindArray, Elem: elem, Length: length, LengthExpr: expr}
}

// dimension parses one array dimension. A constant yields its value. A
// valid variable dimension yields -1 and its source text.
func (s *session) dimension(lb lexer.Token) (int64, string) {
	chk := &dimCheck{}
	prev := s.dim
	s.dim = chk
	from := s.pos
	op := s.assignExpr()
	s.dim = prev
	text := s.text(from, s.pos)

	switch {
	case len(chk.undeclared) > 0:
		for _, tok := range chk.undeclared {
			s.report(types.SeverityError, types.InvalidArrayDimension, tok.Pos, s.hint(tok.Text),
				"array dimension '%s' is not declared in this scope", tok.Text)
		}
		return -1, text
	case len(chk.uninit) > 0:
		for _, tok := range chk.uninit {
			s.errorf(types.InvalidArrayDimension, tok.Pos, "array dimension '%s' is used uninitialized", tok.Text)
		}
		return -1, text
	case op.typ.IsUnknown():
		return -1, text
	case !types.IsInteger(op.typ):
		s.errorf(types.InvalidArrayDimension, lb.Pos, "size of array has non-integer type '%s'", op.typ)
		return -1, text
	case op.val != nil:
		if *op.val < 0 {
			s.errorf(types.InvalidArrayDimension, lb.Pos, "size of array is negative")
			return -1, ""
		}
		return *op.val, ""
	case s.members > 0:
		s.errorf(types.InvalidArrayDimension, lb.Pos, "variable length array '%s' in struct member", text)
	case s.scopes.Depth() == 0:
		s.errorf(types.InvalidArrayDimension, lb.Pos, "variable length array '%s' at file scope", text)
	}
	return -1, text
}

// typeName parses a type name as used by casts and sizeof.
func (s *session) typeName() *types.Type {
	spec := s.declspec(ctxTypeName)
	d := s.declarator(spec.base, true)
	if d.named() {
		s.syntaxError(d.name, "unexpected identifier %s in type name", d.name)
	}
	return d.typ
}

// declaration parses a declaration statement, or at file scope a function
// definition.
func (s *session) declaration(top bool) {
	ctx := ctxBlock
	if top {
		ctx = ctxFile
	}
	spec := s.declspec(ctx)
	if s.accept(";") {
		if !spec.declaresTag {
			s.warnf(types.SyntaxError, spec.pos, "declaration does not declare anything")
		}
		return
	}

	for first := true; ; first = false {
		s.params = nil
		d := s.declarator(spec.base, false)
		params := s.params
		isFunc := types.MustResolve(d.typ).Kind == types.KindFunc

		if first && isFunc && !spec.typedef && s.startsBody(d, params) {
			if !top {
				s.syntaxError(s.peek(), "function definition is not allowed here")
			}
			sym := s.declareFunc(d)
			s.record(d, types.Function, nil)
			s.functionDefinition(sym, d, params)
			return
		}

		var sym *types.Symbol
		kind := types.Variable
		switch {
		case spec.typedef:
			kind = types.Typedef
			s.declareTypedef(d)
		case isFunc:
			kind = types.Function
			sym = s.declareFunc(d)
		default:
			sym = s.declareVar(spec, d)
		}

		var init *types.Initializer
		if eq := s.peek(); s.accept("=") {
			switch {
			case kind == types.Typedef:
				s.syntaxError(eq, "typedef '%s' is initialized", d.name.Text)
			case kind == types.Function:
				s.syntaxError(eq, "function '%s' is initialized like a variable", d.name.Text)
			case spec.extern && !top:
				s.errorf(types.TypeMismatch, d.name.Pos, "'%s' has both 'extern' and initializer", d.name.Text)
			case isVLA(d.typ):
				s.errorf(types.TypeMismatch, d.name.Pos, "variable-sized object '%s' may not be initialized", d.name.Text)
			}
			init, d.typ = s.initializer(d.typ)
			if sym != nil {
				sym.Type = d.typ
				sym.Initialized = true
				sym.Defined = true
			}
		}

		if kind == types.Variable && init == nil && !spec.extern {
			if r := types.MustResolve(d.typ); r.Kind == types.KindArray && r.Length < 0 && r.LengthExpr == "" {
				if top {
					s.warnf(types.InvalidArrayDimension, d.name.Pos, "array '%s' assumed to have one element", d.name.Text)
				} else {
					s.errorf(types.InvalidArrayDimension, d.name.Pos, "array size missing in '%s'", d.name.Text)
				}
			}
		}
		s.record(d, kind, init)

		if !s.accept(",") {
			break
		}
	}
	s.expect(";")
}

// startsBody reports whether a function declarator is followed by a body,
// possibly after K&R parameter declarations.
func (s *session) startsBody(d declarator, params []param) bool {
	if s.at("{") {
		return true
	}
	r := types.MustResolve(d.typ)
	return r.Unprototyped && len(params) > 0 && s.isTypeStart(s.peek())
}

func (s *session) record(d declarator, kind types.SymbolKind, init *types.Initializer) {
	s.decls = append(s.decls, types.Declaration{
		Name:        d.name.Text,
		Kind:        kind,
		Type:        d.typ,
		Initializer: init,
		Depth:       s.scopes.Depth(),
		Pos:         d.name.Pos,
	})
}

// duplicate reports a failed Define.
func (s *session) duplicate(name lexer.Token, err error) {
	if !errors.Is(err, symtab.ErrDuplicate) {
		panic(err)
	}
	if prev, ok := s.scopes.LookupLocal(name.Text); ok {
		s.report(types.SeverityError, types.DuplicateDeclaration, name.Pos,
			fmt.Sprintf("previous declaration of '%s' at %s", name.Text, prev.Pos),
			"redeclaration of '%s'", name.Text)
		return
	}
	s.errorf(types.DuplicateDeclaration, name.Pos, "'%s' redeclared as different kind of symbol", name.Text)
}

func (s *session) declareTypedef(d declarator) {
	name := d.name.Text
	if prev, ok := s.scopes.LookupLocalTypedef(name); ok {
		if !types.Equivalent(prev.Elem, d.typ) {
			s.errorf(types.DuplicateDeclaration, d.name.Pos, "conflicting types for typedef '%s'", name)
		}
		return
	}
	if err := s.scopes.DefineTypedef(name, types.AliasOf(name, d.typ)); err != nil {
		s.duplicate(d.name, err)
	}
}

// declareFunc binds a function declarator. A compatible redeclaration
// returns the existing symbol.
func (s *session) declareFunc(d declarator) *types.Symbol {
	name := d.name.Text
	r := types.MustResolve(d.typ)
	if prev, ok := s.scopes.LookupLocal(name); ok {
		if prev.Kind != types.Function {
			s.errorf(types.DuplicateDeclaration, d.name.Pos, "'%s' redeclared as different kind of symbol", name)
			return nil
		}
		pr := types.MustResolve(prev.Type)
		if !compatibleFuncs(pr, r) {
			s.report(types.SeverityError, types.DuplicateDeclaration, d.name.Pos,
				fmt.Sprintf("previous declaration of '%s' at %s", name, prev.Pos),
				"conflicting types for '%s'", name)
			return prev
		}
		if pr.Unprototyped && !r.Unprototyped {
			prev.Type = d.typ
		}
		return prev
	}
	sym := &types.Symbol{Name: name, Kind: types.Function, Type: d.typ, Initialized: true, Pos: d.name.Pos}
	if err := s.scopes.Define(sym); err != nil {
		s.duplicate(d.name, err)
		return nil
	}
	return sym
}

func compatibleFuncs(a, b *types.Type) bool {
	if !types.Equivalent(a.Return, b.Return) {
		return false
	}
	if a.Unprototyped || b.Unprototyped {
		return true
	}
	return types.Equivalent(a, b)
}

// declareVar binds an object declarator. At file scope, and for extern
// declarations, an equivalent redeclaration is allowed as long as only one
// of them has an initializer.
func (s *session) declareVar(spec declSpec, d declarator) *types.Symbol {
	name := d.name.Text
	r := types.MustResolve(d.typ)
	switch {
	case r.Kind == types.KindScalar && r.Base == types.Void:
		s.errorf(types.TypeMismatch, d.name.Pos, "variable '%s' declared void", name)
	case r.Kind == types.KindStruct && !s.complete(r).Complete && !spec.extern:
		s.errorf(types.TypeMismatch, d.name.Pos, "storage size of '%s' isn't known", name)
	}

	if prev, ok := s.scopes.LookupLocal(name); ok {
		tentative := s.scopes.Depth() == 0 || spec.extern
		if tentative && prev.Kind == types.Variable && types.Equivalent(prev.Type, d.typ) {
			if prev.Defined && s.at("=") {
				s.report(types.SeverityError, types.DuplicateDeclaration, d.name.Pos,
					fmt.Sprintf("previous definition of '%s' at %s", name, prev.Pos),
					"redefinition of '%s'", name)
			}
			return prev
		}
		s.report(types.SeverityError, types.DuplicateDeclaration, d.name.Pos,
			fmt.Sprintf("previous declaration of '%s' at %s", name, prev.Pos),
			"redeclaration of '%s'", name)
		return nil
	}

	sym := &types.Symbol{
		Name:        name,
		Kind:        types.Variable,
		Type:        d.typ,
		Initialized: s.scopes.Depth() == 0 || spec.static || spec.extern,
		Pos:         d.name.Pos,
	}
	if err := s.scopes.Define(sym); err != nil {
		s.duplicate(d.name, err)
		return nil
	}
	return sym
}

// functionDefinition analyzes a function body. Parameters live in the
// body's scope.
func (s *session) functionDefinition(sym *types.Symbol, d declarator, params []param) {
	fn := types.MustResolve(d.typ)
	if sym != nil {
		if sym.Defined {
			s.report(types.SeverityError, types.DuplicateDeclaration, d.name.Pos,
				fmt.Sprintf("previous definition of '%s' at %s", sym.Name, sym.Pos),
				"redefinition of '%s'", sym.Name)
		}
		sym.Defined = true
	}

	s.scopes.Push()
	if fn.Unprototyped && len(params) > 0 {
		s.oldStyleParams(params)
		var proto *types.Type
		if sym != nil {
			if p := types.MustResolve(sym.Type); !p.Unprototyped {
				proto = p
			}
		}
		if proto != nil && len(proto.Params) != len(params) {
			s.errorf(types.DuplicateDeclaration, d.name.Pos, "number of arguments of '%s' doesn't match prototype", d.name.Text)
			proto = nil
		}
		for i := range params {
			switch {
			case params[i].typ != nil:
			case proto != nil:
				params[i].typ = proto.Params[i]
			default:
				params[i].typ = types.NewScalar(types.Int)
			}
		}
	}

	for _, p := range params {
		if p.name.Kind != lexer.Ident {
			s.errorf(types.SyntaxError, p.pos, "parameter name omitted")
			continue
		}
		psym := &types.Symbol{Name: p.name.Text, Kind: types.Parameter, Type: p.typ, Initialized: true, Pos: p.name.Pos}
		if err := s.scopes.Define(psym); err != nil {
			continue
		}
		s.record(declarator{name: p.name, typ: p.typ}, types.Parameter, nil)
	}

	s.fnRet = fn.Return
	s.expect("{")
	s.blockBody()
	s.fnRet = nil
	s.scopes.Pop()
}

// oldStyleParams parses K&R parameter declarations between a function's
// identifier list and its body.
func (s *session) oldStyleParams(params []param) {
	for s.isTypeStart(s.peek()) {
		spec := s.declspec(ctxParam)
		for {
			d := s.declarator(spec.base, false)
			found := false
			for i := range params {
				if params[i].name.Text == d.name.Text {
					params[i].typ = adjustParam(d.typ)
					found = true
				}
			}
			if !found {
				s.errorf(types.SyntaxError, d.name.Pos, "declaration for parameter '%s' but no such parameter", d.name.Text)
			}
			if !s.accept(",") {
				break
			}
		}
		s.expect(";")
	}
}

// complete returns the completed definition of a struct that was
// incomplete when t was formed.
func (s *session) complete(t *types.Type) *types.Type {
	if t.Kind != types.KindStruct || t.Complete || t.Anonymous {
		return t
	}
	if full, ok := s.scopes.LookupTag(t.Tag); ok && full.Kind == types.KindStruct && full.Complete && full.Union == t.Union {
		if t.Const {
			return full.Qualified()
		}
		return full
	}
	return t
}

// isVLA reports whether t is or contains a variable length array.
func isVLA(t *types.Type) bool {
	for r := types.MustResolve(t); r.Kind == types.KindArray; r = types.MustResolve(r.Elem) {
		if r.LengthExpr != "" {
			return true
		}
	}
	return false
}
