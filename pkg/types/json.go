// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "encoding/json"

// typeJSON is the wire form of a Type.
type typeJSON struct {
	Kind         TypeKind    `json:"kind"`
	Spelling     string      `json:"spelling"`
	Base         BaseKind    `json:"base,omitempty"`
	Unsigned     bool        `json:"unsigned,omitempty"`
	Const        bool        `json:"const,omitempty"`
	ConstPointee bool        `json:"constPointee,omitempty"`
	ConstPointer bool        `json:"constPointer,omitempty"`
	Length       *int64      `json:"length,omitempty"`
	LengthExpr   string      `json:"lengthExpr,omitempty"`
	Tag          string      `json:"tag,omitempty"`
	Anonymous    bool        `json:"anonymous,omitempty"`
	Union        bool        `json:"union,omitempty"`
	Fields       []fieldJSON `json:"fields,omitempty"`
	Elem         *typeJSON   `json:"elem,omitempty"`
	Return       *typeJSON   `json:"return,omitempty"`
	Params       []*typeJSON `json:"params,omitempty"`
	Variadic     bool        `json:"variadic,omitempty"`
	Unprototyped bool        `json:"unprototyped,omitempty"`
	Name         string      `json:"name,omitempty"`
}

type fieldJSON struct {
	Name string    `json:"name"`
	Type *typeJSON `json:"type"`
}

// MarshalJSON encodes t together with its C spelling. Members are listed
// for the outermost struct only, which keeps recursive structs finite.
func (t *Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wire(true))
}

func (t *Type) wire(members bool) *typeJSON {
	if t == nil {
		return nil
	}
	w := &typeJSON{
		Kind:         t.Kind,
		Spelling:     Declarator(t, ""),
		Base:         t.Base,
		Unsigned:     t.Unsigned,
		Const:        t.Const,
		ConstPointee: t.ConstPointee,
		ConstPointer: t.ConstPointer,
		LengthExpr:   t.LengthExpr,
		Tag:          t.Tag,
		Anonymous:    t.Anonymous,
		Union:        t.Union,
		Variadic:     t.Variadic,
		Unprototyped: t.Unprototyped,
		Name:         t.Name,
	}
	switch t.Kind {
	case KindArray:
		if t.Length >= 0 {
			n := t.Length
			w.Length = &n
		}
		w.Elem = t.Elem.wire(members)
	case KindPointer, KindTypedef:
		w.Elem = t.Elem.wire(members)
	case KindFunc:
		w.Return = t.Return.wire(members)
		for _, p := range t.Params {
			w.Params = append(w.Params, p.wire(members))
		}
	case KindStruct:
		if members {
			for _, f := range t.Fields {
				w.Fields = append(w.Fields, fieldJSON{Name: f.Name, Type: f.Type.wire(false)})
			}
		}
	}
	return w
}
