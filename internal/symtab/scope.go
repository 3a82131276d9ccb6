// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package symtab holds the analyzer's lexical scope stack and an index over
// the declarations an analysis produced.
package symtab

import (
	"errors"
	"fmt"
	"sort"

	"github.com/petar-djukic/cdecl/pkg/types"
)

// ErrDuplicate is returned when a name is declared twice in one scope.
var ErrDuplicate = errors.New("duplicate declaration")

// entry is one binding in the ordinary identifier namespace. Variables,
// functions and typedef names share this namespace, so exactly one of sym
// and alias is set.
type entry struct {
	sym   *types.Symbol
	alias *types.Type
}

// frame is one scope level.
type frame struct {
	names map[string]entry
	order []string
	tags  map[string]*types.Type
}

func newFrame() *frame {
	return &frame{
		names: make(map[string]entry),
		tags:  make(map[string]*types.Type),
	}
}

// Stack is an ordered stack of scopes. The bottom frame is file scope at
// depth 0. Lookups walk the stack innermost first, so inner declarations
// shadow outer ones until their frame is popped.
type Stack struct {
	frames []*frame
}

// NewStack returns a stack holding only the file scope.
func NewStack() *Stack {
	return &Stack{frames: []*frame{newFrame()}}
}

// Depth returns the depth of the innermost scope; file scope is 0.
func (s *Stack) Depth() int {
	return len(s.frames) - 1
}

// Push opens a new innermost scope.
func (s *Stack) Push() {
	s.frames = append(s.frames, newFrame())
}

// Pop closes the innermost scope, dropping its symbols. File scope is never
// popped.
func (s *Stack) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Unwind pops scopes until Depth equals depth.
func (s *Stack) Unwind(depth int) {
	for s.Depth() > depth {
		s.Pop()
	}
}

func (s *Stack) top() *frame {
	return s.frames[len(s.frames)-1]
}

// Define binds sym in the innermost scope and sets its depth. It returns
// ErrDuplicate if the name is already bound there.
func (s *Stack) Define(sym *types.Symbol) error {
	f := s.top()
	if _, ok := f.names[sym.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, sym.Name)
	}
	sym.Depth = s.Depth()
	f.names[sym.Name] = entry{sym: sym}
	f.order = append(f.order, sym.Name)
	return nil
}

// DefineTypedef binds name to alias in the innermost scope. It returns
// ErrDuplicate if the name is already bound there.
func (s *Stack) DefineTypedef(name string, alias *types.Type) error {
	f := s.top()
	if _, ok := f.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	f.names[name] = entry{alias: alias}
	f.order = append(f.order, name)
	return nil
}

// Lookup returns the innermost variable or function bound to name. A
// typedef name hides outer symbols of the same name, in which case Lookup
// reports false.
func (s *Stack) Lookup(name string) (*types.Symbol, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if e, ok := s.frames[i].names[name]; ok {
			return e.sym, e.sym != nil
		}
	}
	return nil, false
}

// LookupLocal returns the symbol bound to name in the innermost scope only.
func (s *Stack) LookupLocal(name string) (*types.Symbol, bool) {
	e, ok := s.top().names[name]
	if !ok || e.sym == nil {
		return nil, false
	}
	return e.sym, true
}

// LookupTypedef returns the alias bound to name if the innermost binding of
// name is a typedef.
func (s *Stack) LookupTypedef(name string) (*types.Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if e, ok := s.frames[i].names[name]; ok {
			return e.alias, e.alias != nil
		}
	}
	return nil, false
}

// LookupLocalTypedef returns the alias bound to name in the innermost scope
// only.
func (s *Stack) LookupLocalTypedef(name string) (*types.Type, bool) {
	e, ok := s.top().names[name]
	if !ok || e.alias == nil {
		return nil, false
	}
	return e.alias, true
}

// DefineTag binds a struct or union tag in the innermost scope.
func (s *Stack) DefineTag(tag string, t *types.Type) {
	s.top().tags[tag] = t
}

// LookupTag returns the innermost struct or union bound to tag.
func (s *Stack) LookupTag(tag string) (*types.Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if t, ok := s.frames[i].tags[tag]; ok {
			return t, true
		}
	}
	return nil, false
}

// LookupLocalTag returns the struct or union bound to tag in the innermost
// scope only.
func (s *Stack) LookupLocalTag(tag string) (*types.Type, bool) {
	t, ok := s.top().tags[tag]
	return t, ok
}

// Visible returns every ordinary name visible from the innermost scope,
// sorted. Shadowed names appear once.
func (s *Stack) Visible() []string {
	seen := make(map[string]bool)
	var names []string
	for i := len(s.frames) - 1; i >= 0; i-- {
		for _, n := range s.frames[i].order {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Snapshot copies the file-scope symbols into a map keyed by name.
func (s *Stack) Snapshot() map[string]types.Symbol {
	out := make(map[string]types.Symbol)
	for name, e := range s.frames[0].names {
		if e.sym != nil {
			out[name] = *e.sym
		}
	}
	return out
}

// Typedefs copies the file-scope typedef bindings.
func (s *Stack) Typedefs() map[string]*types.Type {
	out := make(map[string]*types.Type)
	for name, e := range s.frames[0].names {
		if e.alias != nil {
			out[name] = e.alias
		}
	}
	return out
}

// Tags copies the file-scope struct and union tags.
func (s *Stack) Tags() map[string]*types.Type {
	out := make(map[string]*types.Type, len(s.frames[0].tags))
	for tag, t := range s.frames[0].tags {
		out[tag] = t
	}
	return out
}
