// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"strconv"
	"strings"
)

// Declarator renders t as a canonical C declaration of name, for example
// "int (*f)(int)" or "const int *const p". An empty name renders an
// abstract declarator such as "char *".
func Declarator(t *Type, name string) string {
	base, decl := split(t, name, false)
	if decl == "" {
		return base
	}
	return base + " " + decl
}

// split peels derived layers off t, wrapping inner as it goes, and returns
// the base type spelling and the declarator text. qual carries a pointee
// const qualifier down from the enclosing pointer.
func split(t *Type, inner string, qual bool) (string, string) {
	if t == nil {
		return "<unknown>", inner
	}
	switch t.Kind {
	case KindPointer:
		d := "*"
		if t.ConstPointer {
			d += "const"
			if inner != "" {
				d += " "
			}
		}
		d += inner
		if t.Elem != nil && (t.Elem.Kind == KindArray || t.Elem.Kind == KindFunc) {
			d = "(" + d + ")"
		}
		return split(t.Elem, d, t.ConstPointee)
	case KindArray:
		return split(t.Elem, inner+"["+dimension(t)+"]", qual)
	case KindFunc:
		return split(t.Return, inner+"("+paramList(t)+")", false)
	}
	b := baseSpelling(t)
	if qual || t.Const {
		b = "const " + b
	}
	return b, inner
}

func dimension(t *Type) string {
	if t.LengthExpr != "" {
		return t.LengthExpr
	}
	if t.Length >= 0 {
		return strconv.FormatInt(t.Length, 10)
	}
	return ""
}

func paramList(t *Type) string {
	if t.Unprototyped {
		return ""
	}
	if len(t.Params) == 0 && !t.Variadic {
		return "void"
	}
	parts := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		parts = append(parts, Declarator(p, ""))
	}
	if t.Variadic {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

func baseSpelling(t *Type) string {
	switch t.Kind {
	case KindScalar:
		if t.Unsigned && t.Base.IsInteger() && t.Base != Bool {
			return "unsigned " + t.Base.String()
		}
		return t.Base.String()
	case KindStruct:
		kw := "struct"
		if t.Union {
			kw = "union"
		}
		if !t.Anonymous {
			return kw + " " + t.Tag
		}
		var b strings.Builder
		b.WriteString(kw)
		b.WriteString(" {")
		for _, f := range t.Fields {
			b.WriteString(" ")
			b.WriteString(Declarator(f.Type, f.Name))
			b.WriteString(";")
		}
		b.WriteString(" }")
		return b.String()
	case KindTypedef:
		return t.Name
	}
	return "<unknown>"
}

// Describe renders t in English, for example "const pointer to const int"
// or "pointer to function (int) returning int".
func Describe(t *Type) string {
	return describe(t, false)
}

func describe(t *Type, qual bool) string {
	if t == nil {
		return "unknown type"
	}
	prefix := ""
	if qual && t.Kind != KindPointer {
		prefix = "const "
	}
	switch t.Kind {
	case KindPointer:
		s := "pointer to " + describe(t.Elem, t.ConstPointee)
		if t.ConstPointer {
			s = "const " + s
		}
		return s
	case KindArray:
		switch {
		case t.LengthExpr != "":
			return "variable length array [" + t.LengthExpr + "] of " + describe(t.Elem, qual)
		case t.Length >= 0:
			return "array of " + strconv.FormatInt(t.Length, 10) + " " + describe(t.Elem, qual)
		}
		return "array of " + describe(t.Elem, qual)
	case KindFunc:
		params := make([]string, 0, len(t.Params)+1)
		for _, p := range t.Params {
			params = append(params, Declarator(p, ""))
		}
		if t.Variadic {
			params = append(params, "...")
		}
		return "function (" + strings.Join(params, ", ") + ") returning " + describe(t.Return, false)
	case KindStruct:
		if t.Const {
			prefix = "const "
		}
		if t.Anonymous {
			kw := "struct"
			if t.Union {
				kw = "union"
			}
			return prefix + "anonymous " + kw
		}
		return prefix + baseSpelling(t)
	case KindTypedef:
		if t.Const {
			prefix = "const "
		}
		return prefix + t.Name + " (" + describe(t.Elem, false) + ")"
	case KindScalar:
		if t.Const {
			prefix = "const "
		}
		return prefix + baseSpelling(t)
	}
	return "unknown type"
}
