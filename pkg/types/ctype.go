// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"errors"
	"fmt"
)

// ErrTypedefCycle is returned by Resolve when a typedef chain refers back
// to one of its own names.
var ErrTypedefCycle = errors.New("typedef cycle")

// TypeKind tags the variant held by a Type.
type TypeKind int

const (
	KindUnknown TypeKind = iota // Placeholder after a failed resolution
	KindScalar                  // Arithmetic or void base type
	KindPointer                 // Pointer to Elem
	KindArray                   // Array of Elem
	KindStruct                  // Struct or union
	KindFunc                    // Function type; function pointers wrap it in KindPointer
	KindTypedef                 // Named alias for Elem
)

func (k TypeKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindFunc:
		return "function"
	case KindTypedef:
		return "typedef"
	default:
		return "unknown"
	}
}

// MarshalText lets TypeKind appear by name in JSON output.
func (k TypeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// BaseKind identifies a scalar base type.
type BaseKind int

const (
	Void BaseKind = iota
	Bool
	Char
	Short
	Int
	Long
	LongLong
	Float
	Double
	LongDouble
)

var baseNames = [...]string{
	Void:       "void",
	Bool:       "_Bool",
	Char:       "char",
	Short:      "short",
	Int:        "int",
	Long:       "long",
	LongLong:   "long long",
	Float:      "float",
	Double:     "double",
	LongDouble: "long double",
}

func (b BaseKind) String() string {
	if int(b) < len(baseNames) {
		return baseNames[b]
	}
	return "invalid"
}

// MarshalText lets BaseKind appear by name in JSON output.
func (b BaseKind) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// IsInteger reports whether b is an integer base kind.
func (b BaseKind) IsInteger() bool {
	switch b {
	case Bool, Char, Short, Int, Long, LongLong:
		return true
	}
	return false
}

// IsFloating reports whether b is a floating point base kind.
func (b BaseKind) IsFloating() bool {
	return b == Float || b == Double || b == LongDouble
}

// Field is one member of a struct or union, in declaration order.
type Field struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

// Type is a tagged variant describing a C type. Only the fields relevant
// to Kind are meaningful.
type Type struct {
	Kind TypeKind `json:"kind"`

	// Scalar. Base is omitted from JSON for void.
	Base     BaseKind `json:"base,omitempty"`
	Unsigned bool     `json:"unsigned,omitempty"`

	// Const qualifies the object itself for scalar, struct and typedef types.
	Const bool `json:"const,omitempty"`

	// Pointer, Array, Typedef
	Elem *Type `json:"elem,omitempty"`

	// Pointer
	ConstPointee bool `json:"constPointee,omitempty"`
	ConstPointer bool `json:"constPointer,omitempty"`

	// Array. Length is -1 when omitted or not a constant.
	Length     int64  `json:"length,omitempty"`
	LengthExpr string `json:"lengthExpr,omitempty"`

	// Struct
	Tag       string  `json:"tag,omitempty"`
	Anonymous bool    `json:"anonymous,omitempty"`
	Union     bool    `json:"union,omitempty"`
	Complete  bool    `json:"complete,omitempty"`
	Fields    []Field `json:"fields,omitempty"`

	// Func
	Return       *Type   `json:"return,omitempty"`
	Params       []*Type `json:"params,omitempty"`
	Variadic     bool    `json:"variadic,omitempty"`
	Unprototyped bool    `json:"unprototyped,omitempty"`

	// Typedef
	Name string `json:"name,omitempty"`
}

// Unknown is the shared placeholder for expressions and declarations whose
// type could not be determined.
var Unknown = &Type{Kind: KindUnknown}

// NewScalar returns a scalar type of the given base kind.
func NewScalar(base BaseKind) *Type {
	return &Type{Kind: KindScalar, Base: base}
}

// PointerTo returns a pointer to elem. Pointee constness is recorded on the
// pointer layer: a const qualifier on a non-pointer elem moves to
// ConstPointee, and a const pointer elem sets ConstPointee as well.
func PointerTo(elem *Type) *Type {
	constPointee := elem.IsConst()
	if elem.Kind != KindPointer {
		elem = elem.Unqualified()
	}
	return &Type{Kind: KindPointer, Elem: elem, ConstPointee: constPointee}
}

// ArrayOf returns an array of elem with the given constant length, or -1.
func ArrayOf(elem *Type, length int64) *Type {
	return &Type{Kind: KindArray, Elem: elem, Length: length}
}

// FuncOf returns a function type.
func FuncOf(ret *Type, params []*Type, variadic bool) *Type {
	return &Type{Kind: KindFunc, Return: ret, Params: params, Variadic: variadic}
}

// AliasOf returns a typedef alias named name for underlying.
func AliasOf(name string, underlying *Type) *Type {
	return &Type{Kind: KindTypedef, Name: name, Elem: underlying}
}

// Unqualified returns t without an object-level const qualifier.
func (t *Type) Unqualified() *Type {
	if !t.Const {
		return t
	}
	c := *t
	c.Const = false
	return &c
}

// Qualified returns t with an object-level const qualifier. For pointers
// this marks the pointer itself const; for arrays it qualifies the element.
func (t *Type) Qualified() *Type {
	c := *t
	switch t.Kind {
	case KindPointer:
		if t.ConstPointer {
			return t
		}
		c.ConstPointer = true
		return &c
	case KindArray:
		if t.Elem == nil || t.Elem.IsConst() {
			return t
		}
		c.Elem = t.Elem.Qualified()
		return &c
	}
	if t.Kind == KindUnknown || t.Const {
		return t
	}
	c.Const = true
	return &c
}

// IsConst reports whether an object of type t may not be assigned.
func (t *Type) IsConst() bool {
	if t.Kind == KindPointer {
		return t.ConstPointer
	}
	return t.Const
}

// IsUnknown reports whether t is the Unknown placeholder or nil.
func (t *Type) IsUnknown() bool {
	return t == nil || t.Kind == KindUnknown
}

// Resolve follows typedef aliases until it reaches a non-alias type. A
// const qualifier on any alias in the chain is carried onto the result.
func Resolve(t *Type) (*Type, error) {
	seen := make(map[string]bool)
	isConst := false
	for t != nil && t.Kind == KindTypedef {
		if seen[t.Name] {
			return Unknown, fmt.Errorf("%w: %s", ErrTypedefCycle, t.Name)
		}
		seen[t.Name] = true
		isConst = isConst || t.Const
		t = t.Elem
	}
	if t == nil {
		return Unknown, nil
	}
	if isConst {
		t = t.Qualified()
	}
	return t, nil
}

// MustResolve is Resolve with cycles mapped to Unknown.
func MustResolve(t *Type) *Type {
	r, err := Resolve(t)
	if err != nil {
		return Unknown
	}
	return r
}

// IsInteger reports whether t resolves to an integer scalar.
func IsInteger(t *Type) bool {
	r := MustResolve(t)
	return r.Kind == KindScalar && r.Base.IsInteger()
}

// IsArithmetic reports whether t resolves to a non-void scalar.
func IsArithmetic(t *Type) bool {
	r := MustResolve(t)
	return r.Kind == KindScalar && r.Base != Void
}

// Equal reports whether a and b are structurally identical, typedef nodes
// included. Structs compare by tag so recursive structs terminate.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindUnknown:
		return true
	case KindScalar:
		return a.Base == b.Base && a.Unsigned == b.Unsigned && a.Const == b.Const
	case KindPointer:
		return a.ConstPointee == b.ConstPointee && a.ConstPointer == b.ConstPointer && Equal(a.Elem, b.Elem)
	case KindArray:
		return a.Length == b.Length && a.LengthExpr == b.LengthExpr && Equal(a.Elem, b.Elem)
	case KindStruct:
		return a.Tag == b.Tag && a.Union == b.Union && a.Const == b.Const
	case KindFunc:
		if len(a.Params) != len(b.Params) || a.Variadic != b.Variadic || a.Unprototyped != b.Unprototyped {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equal(a.Return, b.Return)
	case KindTypedef:
		return a.Name == b.Name && a.Const == b.Const
	}
	return false
}

// Equivalent reports whether a and b are equal once every typedef alias,
// at any depth, has been resolved.
func Equivalent(a, b *Type) bool {
	return Equal(Expand(a), Expand(b))
}

// Expand returns a copy of t with every typedef alias replaced by its
// underlying type. Struct fields are not expanded.
func Expand(t *Type) *Type {
	r := MustResolve(t)
	if r.Kind == KindUnknown || r.Kind == KindScalar || r.Kind == KindStruct {
		return r
	}
	c := *r
	switch r.Kind {
	case KindPointer:
		elem := Expand(r.Elem)
		if elem.IsConst() {
			c.ConstPointee = true
		}
		if elem.Kind != KindPointer {
			elem = elem.Unqualified()
		}
		c.Elem = elem
	case KindArray:
		c.Elem = Expand(r.Elem)
	case KindFunc:
		c.Return = Expand(r.Return)
		c.Params = make([]*Type, len(r.Params))
		for i, p := range r.Params {
			c.Params[i] = Expand(p)
		}
	}
	return &c
}

// FieldByName returns the field named name of a struct type.
func (t *Type) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldIndex returns the position of field name, or -1.
func (t *Type) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (t *Type) String() string {
	return Declarator(t, "")
}
