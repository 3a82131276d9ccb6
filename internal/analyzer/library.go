// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package analyzer

import (
	"github.com/petar-djukic/cdecl/pkg/types"
)

// libName is a name a standard header makes visible. Exactly one of fn,
// obj and alias is set.
type libName struct {
	name  string
	fn    *types.Type
	obj   *types.Type
	alias *types.Type
}

var (
	tInt     = types.NewScalar(types.Int)
	tDouble  = types.NewScalar(types.Double)
	tVoid    = types.NewScalar(types.Void)
	tChar    = types.NewScalar(types.Char)
	tSizeT   = types.AliasOf("size_t", &types.Type{Kind: types.KindScalar, Base: types.Long, Unsigned: true})
	tStr     = types.PointerTo(tChar)
	tConstSt = types.PointerTo(tChar.Qualified())
	tVoidPtr = types.PointerTo(tVoid)
)

func fn(ret *types.Type, variadic bool, params ...*types.Type) *types.Type {
	return types.FuncOf(ret, params, variadic)
}

// headerOrder fixes iteration order over library for suggestions.
var headerOrder = []string{"stdio.h", "string.h", "stdlib.h", "stddef.h", "math.h", "stdbool.h"}

// library lists the declarations each supported header provides. Macros
// such as NULL are modelled as objects.
var library = map[string][]libName{
	"stdio.h": {
		{name: "printf", fn: fn(tInt, true, tConstSt)},
		{name: "scanf", fn: fn(tInt, true, tConstSt)},
		{name: "sprintf", fn: fn(tInt, true, tStr, tConstSt)},
		{name: "puts", fn: fn(tInt, false, tConstSt)},
		{name: "putchar", fn: fn(tInt, false, tInt)},
		{name: "getchar", fn: fn(tInt, false)},
		{name: "size_t", alias: tSizeT},
		{name: "NULL", obj: tVoidPtr},
		{name: "EOF", obj: tInt},
	},
	"string.h": {
		{name: "strcat", fn: fn(tStr, false, tStr, tConstSt)},
		{name: "strcpy", fn: fn(tStr, false, tStr, tConstSt)},
		{name: "strncpy", fn: fn(tStr, false, tStr, tConstSt, tSizeT)},
		{name: "strlen", fn: fn(tSizeT, false, tConstSt)},
		{name: "strcmp", fn: fn(tInt, false, tConstSt, tConstSt)},
		{name: "memset", fn: fn(tVoidPtr, false, tVoidPtr, tInt, tSizeT)},
		{name: "memcpy", fn: fn(tVoidPtr, false, tVoidPtr, types.PointerTo(tVoid.Qualified()), tSizeT)},
		{name: "size_t", alias: tSizeT},
		{name: "NULL", obj: tVoidPtr},
	},
	"stdlib.h": {
		{name: "malloc", fn: fn(tVoidPtr, false, tSizeT)},
		{name: "calloc", fn: fn(tVoidPtr, false, tSizeT, tSizeT)},
		{name: "free", fn: fn(tVoid, false, tVoidPtr)},
		{name: "atoi", fn: fn(tInt, false, tConstSt)},
		{name: "abs", fn: fn(tInt, false, tInt)},
		{name: "exit", fn: fn(tVoid, false, tInt)},
		{name: "rand", fn: fn(tInt, false)},
		{name: "size_t", alias: tSizeT},
		{name: "NULL", obj: tVoidPtr},
	},
	"stddef.h": {
		{name: "size_t", alias: tSizeT},
		{name: "NULL", obj: tVoidPtr},
	},
	"math.h": {
		{name: "sqrt", fn: fn(tDouble, false, tDouble)},
		{name: "pow", fn: fn(tDouble, false, tDouble, tDouble)},
		{name: "fabs", fn: fn(tDouble, false, tDouble)},
		{name: "floor", fn: fn(tDouble, false, tDouble)},
		{name: "ceil", fn: fn(tDouble, false, tDouble)},
	},
	"stdbool.h": {
		{name: "bool", alias: types.AliasOf("bool", types.NewScalar(types.Bool))},
		{name: "true", obj: tInt},
		{name: "false", obj: tInt},
	},
}

// libLookup finds name among the library declarations. included reports
// whether a header providing it was #included; header names the first
// header that provides it.
func (s *session) libLookup(name string) (l libName, header string, included bool) {
	found := false
	for _, h := range headerOrder {
		for _, cand := range library[h] {
			if cand.name != name {
				continue
			}
			if s.includes[h] {
				return cand, h, true
			}
			if !found {
				l, header, found = cand, h, true
			}
		}
	}
	return l, header, false
}

// libTypedef returns the alias for name if an included header defines it
// and no user declaration hides it.
func (s *session) libTypedef(name string) (*types.Type, bool) {
	if _, ok := s.scopes.Lookup(name); ok {
		return nil, false
	}
	l, _, included := s.libLookup(name)
	if !included || l.alias == nil {
		return nil, false
	}
	return l.alias, true
}

// libSymbol returns a synthesized symbol for a library function or object.
func libSymbol(l libName) *types.Symbol {
	t := l.fn
	kind := types.Function
	if t == nil {
		t, kind = l.obj, types.Variable
	}
	return &types.Symbol{Name: l.name, Kind: kind, Type: t, Depth: -1, Initialized: true, Defined: true}
}
