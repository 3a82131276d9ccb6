// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package symtab

import (
	"github.com/petar-djukic/cdecl/pkg/types"
)

// Table indexes every declaration an analysis produced, across all scopes,
// and provides lookup operations by name, kind and scope depth.
type Table struct {
	decls   []types.Declaration
	byName  map[string][]int
	byKind  map[types.SymbolKind][]int
	byDepth map[int][]int
}

// BuildTable creates a Table from declarations in source order.
func BuildTable(decls []types.Declaration) *Table {
	t := &Table{
		byName:  make(map[string][]int),
		byKind:  make(map[types.SymbolKind][]int),
		byDepth: make(map[int][]int),
	}

	for _, d := range decls {
		idx := len(t.decls)
		t.decls = append(t.decls, d)
		t.byName[d.Name] = append(t.byName[d.Name], idx)
		t.byKind[d.Kind] = append(t.byKind[d.Kind], idx)
		t.byDepth[d.Depth] = append(t.byDepth[d.Depth], idx)
	}

	return t
}

// All returns every declaration in the table.
func (t *Table) All() []types.Declaration {
	result := make([]types.Declaration, len(t.decls))
	copy(result, t.decls)
	return result
}

// ByName returns all declarations of the given name, outermost shadowed
// declarations included.
func (t *Table) ByName(name string) []types.Declaration {
	return t.lookup(t.byName[name])
}

// ByKind returns all declarations of the given kind.
func (t *Table) ByKind(kind types.SymbolKind) []types.Declaration {
	return t.lookup(t.byKind[kind])
}

// ByDepth returns all declarations made at the given scope depth.
func (t *Table) ByDepth(depth int) []types.Declaration {
	return t.lookup(t.byDepth[depth])
}

// Shadowed returns, in order of first declaration, the names declared at
// more than one scope depth.
func (t *Table) Shadowed() []string {
	var names []string
	seen := make(map[string]bool)
	for _, d := range t.decls {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		for _, j := range t.byName[d.Name] {
			if t.decls[j].Depth != d.Depth {
				names = append(names, d.Name)
				break
			}
		}
	}
	return names
}

// Len returns the total number of declarations.
func (t *Table) Len() int {
	return len(t.decls)
}

// lookup returns declarations at the given indices.
func (t *Table) lookup(indices []int) []types.Declaration {
	if len(indices) == 0 {
		return nil
	}
	result := make([]types.Declaration, len(indices))
	for i, idx := range indices {
		result[i] = t.decls[idx]
	}
	return result
}
