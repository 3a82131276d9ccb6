// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package outline lists the file-scope declarations of a C source file
// using tree-sitter, independently of the analyzer, and cross-checks the
// two views.
package outline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// Kind classifies an outline entry.
type Kind int

const (
	KindFunction Kind = iota
	KindVariable
	KindTypedef
	KindTag
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	case KindTypedef:
		return "typedef"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

// MarshalText lets Kind appear by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry is one file-scope name found by the outline.
type Entry struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Signature string `json:"signature"`         // Trimmed source line of the name
	Partial   bool   `json:"partial,omitempty"` // The enclosing node contains parse errors
}

// outlineQ captures the nodes whose names belong to the file scope. Nodes
// nested in a function are filtered out after matching.
const outlineQ = `
	(function_definition) @function
	(declaration) @declaration
	(type_definition) @typedef
	(struct_specifier name: (type_identifier) @tag body: (field_declaration_list))
	(union_specifier name: (type_identifier) @tag body: (field_declaration_list))
	(enum_specifier name: (type_identifier) @tag body: (enumerator_list))
	(enumerator name: (identifier) @enumerator)
`

// Outline parses src and returns its file-scope entries in source order.
func Outline(ctx context.Context, src []byte) ([]Entry, error) {
	lang := c.GetLanguage()
	root, err := sitter.ParseCtx(ctx, src, lang)
	if err != nil {
		return nil, fmt.Errorf("parsing C source: %w", err)
	}
	if root == nil {
		return nil, nil
	}

	q, err := sitter.NewQuery([]byte(outlineQ), lang)
	if err != nil {
		return nil, fmt.Errorf("compiling outline query: %w", err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	lines := strings.Split(string(src), "\n")
	var entries []Entry
	seen := make(map[string]bool) // Deduplicate by kind, name and line.
	add := func(name *sitter.Node, kind Kind, partial bool) {
		if name == nil {
			return
		}
		text := name.Content(src)
		pt := name.StartPoint()
		key := fmt.Sprintf("%d:%s:%d", kind, text, pt.Row)
		if text == "" || seen[key] {
			return
		}
		seen[key] = true
		entries = append(entries, Entry{
			Name:      text,
			Kind:      kind,
			Line:      int(pt.Row) + 1, // 0-based to 1-based
			Column:    int(pt.Column) + 1,
			Signature: signature(lines, int(pt.Row)+1),
			Partial:   partial,
		})
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range m.Captures {
			n := capture.Node
			if !fileScope(n) {
				continue
			}
			switch q.CaptureNameForId(capture.Index) {
			case "function":
				name, fn := declaratorName(n.ChildByFieldName("declarator"))
				kind := KindVariable
				if fn {
					kind = KindFunction
				}
				add(name, kind, n.HasError())
			case "declaration":
				for _, d := range declarators(n) {
					name, fn := declaratorName(d)
					kind := KindVariable
					if fn {
						kind = KindFunction
					}
					add(name, kind, n.HasError())
				}
			case "typedef":
				for _, d := range declarators(n) {
					name, _ := declaratorName(d)
					add(name, KindTypedef, n.HasError())
				}
			case "tag":
				add(n, KindTag, n.Parent() != nil && n.Parent().HasError())
			case "enumerator":
				add(n, KindVariable, false)
			}
		}
	}

	sortEntries(entries)
	return entries, nil
}

// fileScope reports whether n lies outside every function.
func fileScope(n *sitter.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "compound_statement", "function_definition":
			return false
		}
	}
	return true
}

// declarators returns the declarator children of a declaration or
// type_definition, skipping its type specifier and qualifiers.
func declarators(n *sitter.Node) []*sitter.Node {
	typ := n.ChildByFieldName("type")
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if typ != nil && child.StartByte() == typ.StartByte() && child.EndByte() == typ.EndByte() {
			continue
		}
		switch child.Type() {
		case "identifier", "type_identifier", "init_declarator", "pointer_declarator",
			"function_declarator", "array_declarator", "parenthesized_declarator",
			"attributed_declarator":
			out = append(out, child)
		}
	}
	return out
}

// declaratorName descends a declarator to the name it declares. fn is set
// when the derivation nearest the name is a function declarator, which
// separates "int f(void)" from "int (*f)(void)".
func declaratorName(d *sitter.Node) (name *sitter.Node, fn bool) {
	last := ""
	for d != nil {
		switch d.Type() {
		case "identifier", "type_identifier", "field_identifier":
			return d, last == "function_declarator"
		case "parenthesized_declarator":
			d = firstDeclarator(d)
			continue
		case "init_declarator", "attributed_declarator":
		default:
			last = d.Type()
		}
		next := d.ChildByFieldName("declarator")
		if next == nil {
			next = firstDeclarator(d)
		}
		d = next
	}
	return nil, false
}

func firstDeclarator(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if t := child.Type(); t == "identifier" || t == "type_identifier" || strings.HasSuffix(t, "_declarator") {
			return child
		}
	}
	return nil
}

// signature returns the trimmed source line for rendering.
func signature(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	sig := strings.TrimSpace(lines[line-1])
	if len(sig) > maxLineLength {
		sig = sig[:maxLineLength-3] + "..."
	}
	return sig
}

// sortEntries restores source order; query matches arrive grouped by
// pattern.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Line != entries[j].Line {
			return entries[i].Line < entries[j].Line
		}
		return entries[i].Column < entries[j].Column
	})
}

// cacheEntry stores an outline keyed by file path and mod time.
type cacheEntry struct {
	modTime time.Time
	entries []Entry
}

// Stats counts the work an Outliner has done.
type Stats struct {
	ParseCount int
	CacheHits  int
}

// Outliner outlines files on disk and caches the result until the file
// changes. It is safe for concurrent use.
type Outliner struct {
	mu    sync.Mutex
	cache map[string]cacheEntry
	stats Stats
}

// NewOutliner creates an Outliner with an empty cache.
func NewOutliner() *Outliner {
	return &Outliner{cache: make(map[string]cacheEntry)}
}

// File outlines the file at path, reusing the cached outline when the
// modification time is unchanged.
func (o *Outliner) File(ctx context.Context, path string) ([]Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	modTime := info.ModTime()

	o.mu.Lock()
	if cached, ok := o.cache[path]; ok && cached.modTime.Equal(modTime) {
		o.stats.CacheHits++
		o.mu.Unlock()
		return cached.entries, nil
	}
	o.mu.Unlock()

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := Outline(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("outlining %s: %w", path, err)
	}

	o.mu.Lock()
	o.stats.ParseCount++
	o.cache[path] = cacheEntry{modTime: modTime, entries: entries}
	o.mu.Unlock()
	return entries, nil
}

// Stats returns a copy of the counters.
func (o *Outliner) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}
